package ir_test

import (
	"testing"

	"github.com/uwsampl/churchroad/internal/assert"
	"github.com/uwsampl/churchroad/pkg/ir"
)

func TestConstWidth(t *testing.T) {
	c := ir.ConstU(5, 8)
	assert.Equal(t, uint(8), c.Width())
}

func TestConstMasksToWidth(t *testing.T) {
	c := ir.ConstU(0xFF, 4)

	if v := ir.AsConstant(c); v.Uint64() != 0xF {
		t.Fatalf("expected masked constant 0xF, got %v", v)
	}
}

func TestExtractWidth(t *testing.T) {
	v := ir.Var("a", 8)
	e := ir.Extract(v, 5, 2)
	assert.Equal(t, uint(4), e.Width())
}

func TestExtractOutOfRangePanics(t *testing.T) {
	v := ir.Var("a", 8)
	assert.Panics(t, func() { ir.Extract(v, 8, 0) })
}

func TestConcatWidthSums(t *testing.T) {
	a := ir.Var("a", 4)
	b := ir.Var("b", 3)
	c := ir.Concat(a, b)
	assert.Equal(t, uint(7), c.Width())
}

func TestEqRequiresEqualWidth(t *testing.T) {
	a := ir.Var("a", 4)
	b := ir.Var("b", 8)
	assert.Panics(t, func() { ir.Eq(a, b) })
}

func TestEqWidthIsOne(t *testing.T) {
	a := ir.Var("a", 4)
	b := ir.Var("b", 4)
	assert.Equal(t, uint(1), ir.Eq(a, b).Width())
}

func TestMuxRequiresOneBitSelector(t *testing.T) {
	sel := ir.Var("s", 2)
	a := ir.Var("a", 4)
	b := ir.Var("b", 4)
	assert.Panics(t, func() { ir.Mux(sel, a, b) })
}

func TestMuxRequiresMatchingBranches(t *testing.T) {
	sel := ir.Var("s", 1)
	a := ir.Var("a", 4)
	b := ir.Var("b", 5)
	assert.Panics(t, func() { ir.Mux(sel, a, b) })
}

func TestZeroExtendAndDupExtend(t *testing.T) {
	a := ir.Var("a", 4)
	z := ir.ZeroExtend(a, 8)
	d := ir.DupExtend(a, 8)
	assert.Equal(t, uint(8), z.Width())
	assert.Equal(t, uint(8), d.Width())
}

func TestExtendRejectsNarrowing(t *testing.T) {
	a := ir.Var("a", 8)
	assert.Panics(t, func() { ir.ZeroExtend(a, 4) })
}

func TestAllocatorProducesDistinctHoles(t *testing.T) {
	alloc := ir.NewAllocator()
	h1 := alloc.Hole(4)
	h2 := alloc.Hole(4)

	if ir.HoleID(h1) == ir.HoleID(h2) {
		t.Fatalf("expected distinct hole identities")
	}

	assert.Equal(t, 2, alloc.Len())
}

func TestHoleIsNotAVar(t *testing.T) {
	alloc := ir.NewAllocator()
	h := alloc.Hole(4)
	v := ir.Var("a", 4)

	if !ir.IsHole(h) {
		t.Fatalf("expected h to be a hole")
	}

	if ir.IsHole(v) {
		t.Fatalf("expected v not to be a hole")
	}
}

func TestBoolHoleIsMarkedBoolean(t *testing.T) {
	alloc := ir.NewAllocator()
	b := alloc.BoolHole()

	if !ir.IsBoolHole(b) {
		t.Fatalf("expected boolean hole")
	}

	assert.Equal(t, uint(1), b.Width())
}

func TestWireUnification(t *testing.T) {
	w := ir.NewWire(4)
	defn := ir.ConstU(3, 4)
	ir.Unify(w, defn)
	assert.Equal(t, uint(4), w.Width())
	assert.Equal(t, defn.String(), w.String())
}

func TestWireDoubleUnifyPanics(t *testing.T) {
	w := ir.NewWire(4)
	ir.Unify(w, ir.ConstU(1, 4))
	assert.Panics(t, func() { ir.Unify(w, ir.ConstU(2, 4)) })
}

func TestNamedMapLitAndLookup(t *testing.T) {
	o := ir.Var("o", 1)
	co := ir.Var("co", 1)
	m := ir.NamedMapLit([]string{"O", "CO"}, []ir.Expr{o, co})

	got := ir.MapLookup(m, "CO")
	assert.Equal(t, uint(1), got.Width())
}

func TestListLitAndIndex(t *testing.T) {
	l := ir.ListLit(ir.ConstU(1, 1), ir.ConstU(0, 4))
	assert.Equal(t, uint(4), ir.ListIndex(l, 1).Width())
}

func TestOrReduceSingleBitIsIdentity(t *testing.T) {
	b := ir.Var("b", 1)
	assert.Equal(t, b.String(), ir.OrReduce(b).String())
}

func TestOrReduceWidth(t *testing.T) {
	v := ir.Var("v", 4)
	assert.Equal(t, uint(1), ir.OrReduce(v).Width())
}
