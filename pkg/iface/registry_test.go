package iface_test

import (
	"testing"

	"github.com/uwsampl/churchroad/internal/assert"
	"github.com/uwsampl/churchroad/pkg/iface"
	"github.com/uwsampl/churchroad/pkg/ir"
)

func TestIDEqualityIsStructural(t *testing.T) {
	a := iface.LUT(4)
	b := iface.ID{Kind: iface.KindLUT, Params: map[string]uint{"num_inputs": 4}}

	if !a.Equal(b) {
		t.Fatalf("expected structurally equal IDs to compare equal")
	}
}

func TestIDInequality(t *testing.T) {
	if iface.LUT(4).Equal(iface.LUT(6)) {
		t.Fatalf("expected LUT4 != LUT6")
	}

	if iface.LUT(4).Equal(iface.Carry(4)) {
		t.Fatalf("expected LUT4 != carry4")
	}
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "LUT4", iface.LUT(4).String())
	assert.Equal(t, "carry8", iface.Carry(8).String())
	assert.Equal(t, "MUX2", iface.MUX(2).String())
}

func TestLUTDefinitionPortCount(t *testing.T) {
	def, err := iface.Lookup(iface.LUT(4))
	assert.NoError(t, err)
	assert.Equal(t, 5, len(def.Ports)) // I0..I3 + O

	ins := def.PortNames(ir.Input)
	assert.Equal(t, 4, len(ins))
}

func TestCarryDefinitionPorts(t *testing.T) {
	def, err := iface.Lookup(iface.Carry(8))
	assert.NoError(t, err)

	di, ok := def.Port("DI")
	if !ok {
		t.Fatalf("expected DI port")
	}

	assert.Equal(t, uint(8), di.Width)

	co, ok := def.Port("CO")
	if !ok {
		t.Fatalf("expected CO port")
	}

	assert.Equal(t, uint(1), co.Width)
}

func TestMuxOnlySupportsArityTwo(t *testing.T) {
	_, err := iface.Lookup(iface.MUX(4))
	if err == nil {
		t.Fatalf("expected error for MUX4")
	}
}

func TestFixedCatalogMembers(t *testing.T) {
	cat := iface.FixedCatalog()
	if len(cat) != 6 {
		t.Fatalf("expected 6 entries in fixed catalog, got %d", len(cat))
	}
}
