package route_test

import (
	"math/big"
	"testing"

	"github.com/uwsampl/churchroad/internal/assert"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/route"
)

func TestBitwiseIsIdentity(t *testing.T) {
	e := ir.Var("x", 4)
	assert.Equal(t, e, route.Bitwise(e))
}

func TestBitwiseReversePreservesWidth(t *testing.T) {
	e := ir.Var("x", 4)
	r := route.BitwiseReverse(e)
	assert.Equal(t, uint(4), r.Width())
}

func TestBitwiseReverseOfSingleBitIsIdentity(t *testing.T) {
	e := ir.Var("x", 1)
	r := route.BitwiseReverse(e)
	assert.Equal(t, uint(1), r.Width())

	for _, x := range []int64{0, 1} {
		v, err := ir.Evaluate(r, map[string]*big.Int{"x": big.NewInt(x)}, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, x, v.Int64())
	}
}

func TestChooseProducesMatchingWidth(t *testing.T) {
	e := ir.Var("x", 4)
	sel := ir.Var("sel", 1)
	r := route.Choose(sel, e)
	assert.Equal(t, uint(4), r.Width())
}
