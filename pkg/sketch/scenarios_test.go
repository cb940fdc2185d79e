package sketch_test

import (
	"testing"

	"github.com/uwsampl/churchroad/internal/assert"
	"github.com/uwsampl/churchroad/pkg/arch"
	"github.com/uwsampl/churchroad/pkg/bvexpr"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/sketch"
	"github.com/uwsampl/churchroad/pkg/solve"
)

// These exercise each sketch generator end to end: realize it over a
// shipped architecture, then brute-force search for a hole assignment
// under which the realized netlist agrees with the equivalent bvexpr
// specification for every input. Widths are kept small (2-3 bits) purely
// to keep exhaustive enumeration fast; the generators themselves place no
// such restriction.

func TestBitwiseAndHoldsOnECP5(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ecp5.yaml")

	const width = 3
	a := ir.Var("a", width)
	b := ir.Var("b", width)

	out, err := sketch.Bitwise(s, a, b, width)
	assert.NoError(t, err)

	spec := bvexpr.And(bvexpr.Var("a", width), bvexpr.Var("b", width))

	res, err := (solve.BruteForce{}).Solve(solve.Query{
		Spec: spec, Sketch: out, Alloc: s.Alloc, Semantics: solve.PrimitiveSemantics,
	})
	assert.NoError(t, err)
	assert.True(t, res.Holds, "expected a hole assignment realizing bitwise and on ecp5")
}

func TestBitwiseWithCarryAddHoldsOnECP5(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ecp5.yaml")

	const width = 3
	a := ir.Var("a", width)
	b := ir.Var("b", width)

	res, err := sketch.BitwiseWithCarry(s, a, b, width)
	assert.NoError(t, err)

	spec := bvexpr.Add(bvexpr.Var("a", width), bvexpr.Var("b", width))

	q := solve.Query{Spec: spec, Sketch: res.O, Alloc: s.Alloc, Semantics: solve.PrimitiveSemantics}

	result, err := (solve.BruteForce{}).Solve(q)
	assert.NoError(t, err)
	assert.True(t, result.Holds, "expected a hole assignment realizing addition on ecp5")
}

func TestComparisonEqHoldsOnUltrascale(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ultrascale.yaml")

	const width = 3
	a := ir.Var("a", width)
	b := ir.Var("b", width)

	out, err := sketch.Comparison(s, a, b, width)
	assert.NoError(t, err)

	spec := bvexpr.Eq(bvexpr.Var("a", width), bvexpr.Var("b", width))

	res, err := (solve.BruteForce{}).Solve(solve.Query{
		Spec: spec, Sketch: out, Alloc: s.Alloc, Semantics: solve.PrimitiveSemantics,
	})
	assert.NoError(t, err)
	assert.True(t, res.Holds, "expected a hole assignment realizing equality comparison on ultrascale")
}

func TestMultiplicationHoldsOnUltrascale(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ultrascale.yaml")

	const width = 2
	a := ir.Var("a", width)
	b := ir.Var("b", width)

	out, err := sketch.Multiplication(s, a, b, width)
	assert.NoError(t, err)

	spec := bvexpr.Mul(bvexpr.Var("a", width), bvexpr.Var("b", width))

	res, err := (solve.BruteForce{}).Solve(solve.Query{
		Spec: spec, Sketch: out, Alloc: s.Alloc, Semantics: solve.PrimitiveSemantics,
	})
	assert.NoError(t, err)
	assert.True(t, res.Holds, "expected a hole assignment realizing multiplication on ultrascale")
}

func TestBarrelShiftLshrHoldsOnECP5(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/ecp5.yaml")

	const width = 3
	v := ir.Var("v", width)
	amt := ir.Var("amt", width)

	out, err := sketch.BarrelShift(s, v, amt, width)
	assert.NoError(t, err)

	spec := bvexpr.Lshr(bvexpr.Var("v", width), bvexpr.Var("amt", width))

	res, err := (solve.BruteForce{}).Solve(solve.Query{
		Spec: spec, Sketch: out, Alloc: s.Alloc, Semantics: solve.PrimitiveSemantics,
	})
	assert.NoError(t, err)
	assert.True(t, res.Holds, "expected a hole assignment realizing a logical right shift on ecp5")
}

func TestBitwiseWithCarryAddHoldsOnSofa(t *testing.T) {
	s := newSynth(t, "../../architecture_descriptions/sofa.yaml")

	const width = 2
	a := ir.Var("a", width)
	b := ir.Var("b", width)

	res, err := sketch.BitwiseWithCarry(s, a, b, width)
	assert.NoError(t, err)

	spec := bvexpr.Add(bvexpr.Var("a", width), bvexpr.Var("b", width))

	result, err := (solve.BruteForce{}).Solve(solve.Query{
		Spec: spec, Sketch: res.O, Alloc: s.Alloc, Semantics: solve.PrimitiveSemantics,
	})
	assert.NoError(t, err)
	assert.True(t, result.Holds, "expected a hole assignment realizing addition on the LUT-only sofa architecture via rule R5")
}
