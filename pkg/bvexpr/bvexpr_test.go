package bvexpr_test

import (
	"math/big"
	"testing"

	"github.com/uwsampl/churchroad/internal/assert"
	"github.com/uwsampl/churchroad/pkg/bvexpr"
)

func TestEvalConst(t *testing.T) {
	v, err := bvexpr.Eval(bvexpr.ConstU(5, 4), nil)
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), v.Uint64())
}

func TestEvalAddWraps(t *testing.T) {
	a := bvexpr.ConstU(15, 4)
	b := bvexpr.ConstU(2, 4)

	v, err := bvexpr.Eval(bvexpr.Add(a, b), nil)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), v.Uint64()) // (15+2) mod 16 == 1
}

func TestEvalVarUnbound(t *testing.T) {
	_, err := bvexpr.Eval(bvexpr.Var("x", 4), map[string]*big.Int{})
	if err == nil {
		t.Fatalf("expected an unbound-variable error")
	}
}

func TestEvalVarBound(t *testing.T) {
	env := map[string]*big.Int{"x": big.NewInt(3)}
	v, err := bvexpr.Eval(bvexpr.Var("x", 4), env)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), v.Uint64())
}

func TestEvalEq(t *testing.T) {
	a := bvexpr.ConstU(7, 4)
	b := bvexpr.ConstU(7, 4)

	v, err := bvexpr.Eval(bvexpr.Eq(a, b), nil)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), v.Uint64())
}

func TestEvalAshrSignExtends(t *testing.T) {
	// 0b1000 (width 4) is -8 in two's complement; >>1 arithmetic is 0b1100.
	v, err := bvexpr.Eval(bvexpr.Ashr(bvexpr.ConstU(0b1000, 4), bvexpr.ConstU(1, 4)), nil)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0b1100), v.Uint64())
}

func TestEvalLshrDoesNotSignExtend(t *testing.T) {
	v, err := bvexpr.Eval(bvexpr.Lshr(bvexpr.ConstU(0b1000, 4), bvexpr.ConstU(1, 4)), nil)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0b0100), v.Uint64())
}

func TestVarNamesDedupes(t *testing.T) {
	x := bvexpr.Var("x", 4)
	y := bvexpr.Var("y", 4)
	e := bvexpr.Add(bvexpr.Xor(x, y), x)

	names := bvexpr.VarNames(e)
	assert.Equal(t, 2, len(names))
}

func TestMismatchedWidthsPanics(t *testing.T) {
	assert.Panics(t, func() {
		bvexpr.And(bvexpr.ConstU(1, 4), bvexpr.ConstU(1, 8))
	})
}
