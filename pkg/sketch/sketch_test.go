package sketch_test

import (
	"testing"

	"github.com/uwsampl/churchroad/internal/assert"
	"github.com/uwsampl/churchroad/pkg/arch"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/sketch"
	"github.com/uwsampl/churchroad/pkg/synth"
)

func newSynth(t *testing.T, path string) *synth.Synthesizer {
	t.Helper()

	d, err := arch.LoadFile(path)
	assert.NoError(t, err)

	return synth.New(d, ir.NewAllocator())
}

func TestBitwiseSketchWidth(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ecp5.yaml")

	a := ir.Var("a", 8)
	b := ir.Var("b", 8)

	out, err := sketch.Bitwise(s, a, b, 8)
	assert.NoError(t, err)
	assert.Equal(t, uint(8), out.Width())
}

func TestBitwiseSketchExtendsNarrowerOperand(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ecp5.yaml")

	a := ir.Var("a", 4)
	b := ir.Var("b", 8)

	out, err := sketch.Bitwise(s, a, b, 8)
	assert.NoError(t, err)
	assert.Equal(t, uint(8), out.Width())
}

func TestBitwiseWithCarrySketch(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ecp5.yaml")

	a := ir.Var("a", 8)
	b := ir.Var("b", 8)

	res, err := sketch.BitwiseWithCarry(s, a, b, 8)
	assert.NoError(t, err)
	assert.Equal(t, uint(8), res.O.Width())
	assert.Equal(t, uint(1), res.CO.Width())
}

func TestComparisonSketchProducesOneBit(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ultrascale.yaml")

	a := ir.Var("a", 8)
	b := ir.Var("b", 8)

	out, err := sketch.Comparison(s, a, b, 8)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), out.Width())
}

func TestMultiplicationSketchWidth(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ecp5.yaml")

	a := ir.Var("a", 4)
	b := ir.Var("b", 4)

	out, err := sketch.Multiplication(s, a, b, 4)
	assert.NoError(t, err)
	assert.Equal(t, uint(4), out.Width())
}

func TestBarrelShiftSketchWidth(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ultrascale.yaml")

	v := ir.Var("v", 8)
	amt := ir.Var("amt", 3)

	out, err := sketch.BarrelShift(s, v, amt, 8)
	assert.NoError(t, err)
	assert.Equal(t, uint(8), out.Width())
}

func TestSketchesWorkOnLUTOnlyArchitecture(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/sofa.yaml")

	a := ir.Var("a", 4)
	b := ir.Var("b", 4)

	res, err := sketch.BitwiseWithCarry(s, a, b, 4)
	assert.NoError(t, err)
	assert.Equal(t, uint(4), res.O.Width())
}
