package arch_test

import (
	"strings"
	"testing"

	"github.com/uwsampl/churchroad/internal/assert"
	"github.com/uwsampl/churchroad/pkg/arch"
	"github.com/uwsampl/churchroad/pkg/iface"
)

const sampleYAML = `
implementations:
  - interface: {name: LUT, parameters: {num_inputs: 4}}
    modules:
      - module_name: LUT4
        filepath: test/lut4.v
        ports:
          - {name: A, value: "(bit 0 I0)", direction: input, bitwidth: 1}
          - {name: Z, value: O, direction: output, bitwidth: 1}
        parameters:
          - {name: INIT, value: LUT_INIT}
    internal_data: {LUT_INIT: 16}
    outputs: {O: Z}
  - interface: {name: carry, parameters: {width: 2}}
    modules:
      - module_name: CCU2C
        filepath: test/ccu2c.v
        ports:
          - {name: CIN, value: CI, direction: input, bitwidth: 1}
          - {name: COUT, value: CO, direction: output, bitwidth: 1}
    internal_data: {}
    outputs: {CO: COUT}
`

func TestLoadNormalizesImplementations(t *testing.T) {
	d, err := arch.Load(strings.NewReader(sampleYAML))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(d.Implementations))
}

func TestLookupByStructuralIdentity(t *testing.T) {
	d, err := arch.Load(strings.NewReader(sampleYAML))
	assert.NoError(t, err)

	impl, ok := d.Lookup(iface.LUT(4))
	if !ok {
		t.Fatalf("expected to find LUT4 implementation")
	}

	assert.Equal(t, "LUT4", impl.Module.ModuleName)
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	d, err := arch.Load(strings.NewReader(sampleYAML))
	assert.NoError(t, err)

	_, ok := d.Lookup(iface.LUT(6))
	if ok {
		t.Fatalf("expected no LUT6 implementation")
	}
}

func TestHasCarryAndHasAnyLUT(t *testing.T) {
	d, err := arch.Load(strings.NewReader(sampleYAML))
	assert.NoError(t, err)

	if !d.HasCarry() {
		t.Fatalf("expected HasCarry true")
	}

	if !d.HasAnyLUT() {
		t.Fatalf("expected HasAnyLUT true")
	}

	if d.HasMUX() {
		t.Fatalf("expected HasMUX false")
	}
}

func TestAnyCarryOtherThan(t *testing.T) {
	d, err := arch.Load(strings.NewReader(sampleYAML))
	assert.NoError(t, err)

	impl, ok := d.AnyCarryOtherThan(8)
	if !ok {
		t.Fatalf("expected a carry implementation other than width 8")
	}

	assert.Equal(t, uint(2), impl.ID.CarryWidth())

	_, ok = d.AnyCarryOtherThan(2)
	if ok {
		t.Fatalf("expected no carry implementation other than width 2")
	}
}

func TestMissingInterfaceKeyIsIllFormed(t *testing.T) {
	const bad = `
implementations:
  - modules:
      - module_name: LUT4
        filepath: x
    outputs: {O: Z}
`
	_, err := arch.Load(strings.NewReader(bad))
	if err == nil {
		t.Fatalf("expected an ill-formed error")
	}

	var illFormed *arch.IllFormedError
	if !errorsAs(err, &illFormed) {
		t.Fatalf("expected *arch.IllFormedError, got %T: %v", err, err)
	}
}

func TestMoreThanOneModuleIsIllFormed(t *testing.T) {
	const bad = `
implementations:
  - interface: {name: LUT, parameters: {num_inputs: 4}}
    modules:
      - module_name: LUT4
        filepath: x
      - module_name: LUT4b
        filepath: y
    outputs: {O: Z}
`
	_, err := arch.Load(strings.NewReader(bad))
	if err == nil {
		t.Fatalf("expected an ill-formed error")
	}
}

func TestMissingOutputsKeyIsIllFormed(t *testing.T) {
	const bad = `
implementations:
  - interface: {name: LUT, parameters: {num_inputs: 4}}
    modules:
      - module_name: LUT4
        filepath: x
`
	_, err := arch.Load(strings.NewReader(bad))
	if err == nil {
		t.Fatalf("expected an ill-formed error")
	}
}

func TestUnknownPortDirectionErrors(t *testing.T) {
	const bad = `
implementations:
  - interface: {name: LUT, parameters: {num_inputs: 4}}
    modules:
      - module_name: LUT4
        filepath: x
        ports:
          - {name: A, value: I0, direction: sideways, bitwidth: 1}
    outputs: {O: Z}
`
	_, err := arch.Load(strings.NewReader(bad))
	if err == nil {
		t.Fatalf("expected a direction error")
	}
}

func errorsAs(err error, target **arch.IllFormedError) bool {
	ie, ok := err.(*arch.IllFormedError)
	if !ok {
		return false
	}

	*target = ie

	return true
}
