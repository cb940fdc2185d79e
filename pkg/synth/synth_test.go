package synth_test

import (
	"testing"

	"github.com/uwsampl/churchroad/internal/assert"
	"github.com/uwsampl/churchroad/pkg/arch"
	"github.com/uwsampl/churchroad/pkg/iface"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/synth"
	"github.com/uwsampl/churchroad/pkg/wiring"
)

func loadArch(t *testing.T, path string) arch.Description {
	t.Helper()

	d, err := arch.LoadFile(path)
	assert.NoError(t, err)

	return d
}

func lutPortMap(n uint) wiring.Scope {
	scope := make(wiring.Scope, n)
	for i := uint(0); i < n; i++ {
		name := portName(i)
		scope[name] = ir.Var(name, 1)
	}

	return scope
}

func portName(i uint) string {
	return "I" + string(rune('0'+i))
}

func TestRealizeLUT4DirectlyOnECP5(t *testing.T) {
	d := loadArch(t, "../../architecture_descriptions/ecp5.yaml")
	s := synth.New(d, ir.NewAllocator())

	out, err := s.Realize(iface.LUT(4), lutPortMap(4))
	assert.NoError(t, err)

	o, ok := out["O"]
	if !ok {
		t.Fatalf("expected O output")
	}

	assert.Equal(t, uint(1), o.Width())
}

func TestRealizeLUT2FromWiderLUT4(t *testing.T) {
	d := loadArch(t, "../../architecture_descriptions/ecp5.yaml")
	s := synth.New(d, ir.NewAllocator())

	out, err := s.Realize(iface.LUT(2), lutPortMap(2))
	assert.NoError(t, err)
	assert.Equal(t, uint(1), out["O"].Width())
}

func TestRealizeLUT6FromNarrowerLUT4(t *testing.T) {
	d := loadArch(t, "../../architecture_descriptions/ecp5.yaml")
	s := synth.New(d, ir.NewAllocator())

	out, err := s.Realize(iface.LUT(6), lutPortMap(6))
	assert.NoError(t, err)
	assert.Equal(t, uint(1), out["O"].Width())
}

func TestRealizeMUX2FromLUTOnlyArchitecture(t *testing.T) {
	d := loadArch(t, "../../architecture_descriptions/sofa.yaml")
	s := synth.New(d, ir.NewAllocator())

	out, err := s.Realize(iface.MUX(2), wiring.Scope{
		"I0": ir.Var("I0", 1),
		"I1": ir.Var("I1", 1),
		"S":  ir.Var("S", 1),
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(1), out["O"].Width())
}

func TestRealizeCarry8TiledFromNativeCarry2(t *testing.T) {
	d := loadArch(t, "../../architecture_descriptions/ecp5.yaml")
	s := synth.New(d, ir.NewAllocator())

	out, err := s.Realize(iface.Carry(8), wiring.Scope{
		"CI": ir.Var("CI", 1),
		"DI": ir.Var("DI", 8),
		"S":  ir.Var("S", 8),
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(8), out["O"].Width())
	assert.Equal(t, uint(1), out["CO"].Width())
}

func TestRealizeCarry4BitwiseOnLUTOnlyArchitecture(t *testing.T) {
	d := loadArch(t, "../../architecture_descriptions/sofa.yaml")
	s := synth.New(d, ir.NewAllocator())

	out, err := s.Realize(iface.Carry(4), wiring.Scope{
		"CI": ir.Var("CI", 1),
		"DI": ir.Var("DI", 4),
		"S":  ir.Var("S", 4),
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(4), out["O"].Width())
	assert.Equal(t, uint(1), out["CO"].Width())
}

func TestRealizeCarry8NativeOnUltrascale(t *testing.T) {
	d := loadArch(t, "../../architecture_descriptions/ultrascale.yaml")
	s := synth.New(d, ir.NewAllocator())

	out, err := s.Realize(iface.Carry(8), wiring.Scope{
		"CI": ir.Var("CI", 1),
		"DI": ir.Var("DI", 8),
		"S":  ir.Var("S", 8),
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(8), out["O"].Width())
}

func TestRealizeSharedReusesHolesAcrossCalls(t *testing.T) {
	d := loadArch(t, "../../architecture_descriptions/ecp5.yaml")
	alloc := ir.NewAllocator()
	s := synth.New(d, alloc)

	var data synth.Data

	_, err := s.RealizeShared(iface.LUT(2), lutPortMap(2), &data)
	assert.NoError(t, err)

	afterFirst := alloc.Len()

	_, err = s.RealizeShared(iface.LUT(2), lutPortMap(2), &data)
	assert.NoError(t, err)

	assert.Equal(t, afterFirst, alloc.Len(), "second RealizeShared call must not allocate new holes")
}

func TestRealizeCarryTiledSharesOneTileConfiguration(t *testing.T) {
	d := loadArch(t, "../../architecture_descriptions/ecp5.yaml")
	alloc := ir.NewAllocator()
	s := synth.New(d, alloc)

	// carry8 on ECP5 tiles four carry2 (CCU2C) instances; R4 says every
	// tile shares the same internal-data, so the hole count here should
	// match a single carry2 realization, not four independent ones.
	_, err := s.Realize(iface.Carry(8), wiring.Scope{
		"CI": ir.Var("CI", 1),
		"DI": ir.Var("DI", 8),
		"S":  ir.Var("S", 8),
	})
	assert.NoError(t, err)

	sharedHoles := alloc.Len()

	alloc2 := ir.NewAllocator()
	s2 := synth.New(d, alloc2)

	_, err = s2.Realize(iface.Carry(2), wiring.Scope{
		"CI": ir.Var("CI", 1),
		"DI": ir.Var("DI", 2),
		"S":  ir.Var("S", 2),
	})
	assert.NoError(t, err)

	// carry8 additionally allocates R4's two padding holes, which R4
	// allocates up front even though 8 is a multiple of 2 and no tile here
	// needs widening; a bare carry2 realization never allocates them.
	assert.Equal(t, alloc2.Len()+2, sharedHoles)
}

func TestUnrealizableInterfaceReturnsError(t *testing.T) {
	d := arch.Description{}
	s := synth.New(d, ir.NewAllocator())

	_, err := s.Realize(iface.LUT(4), lutPortMap(4))
	if err == nil {
		t.Fatalf("expected an error realizing against an empty architecture")
	}
}
