package wiring_test

import (
	"errors"
	"testing"

	"github.com/uwsampl/churchroad/internal/assert"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/wiring"
)

func TestParseBV(t *testing.T) {
	n, err := wiring.Parse("(bv 5 8)")
	assert.NoError(t, err)

	e, err := wiring.Eval(n, nil)
	assert.NoError(t, err)
	assert.Equal(t, uint(8), e.Width())
}

func TestParseBit(t *testing.T) {
	n, err := wiring.Parse("(bit 2 x)")
	assert.NoError(t, err)

	scope := wiring.Scope{"x": ir.Var("x", 8)}
	e, err := wiring.Eval(n, scope)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), e.Width())
}

func TestParseConcat(t *testing.T) {
	n, err := wiring.Parse("(concat a b)")
	assert.NoError(t, err)

	scope := wiring.Scope{"a": ir.Var("a", 3), "b": ir.Var("b", 5)}
	e, err := wiring.Eval(n, scope)
	assert.NoError(t, err)
	assert.Equal(t, uint(8), e.Width())
}

func TestParseSymbol(t *testing.T) {
	n, err := wiring.Parse("S")
	assert.NoError(t, err)

	scope := wiring.Scope{"S": ir.Var("S", 1)}
	e, err := wiring.Eval(n, scope)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), e.Width())
}

func TestUnresolvedSymbolError(t *testing.T) {
	n, err := wiring.Parse("missing")
	assert.NoError(t, err)

	_, err = wiring.Eval(n, wiring.Scope{})

	var unresolved *wiring.UnresolvedSymbolError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedSymbolError, got %v", err)
	}

	assert.Equal(t, "missing", unresolved.Name)
}

func TestNestedConcatAndBit(t *testing.T) {
	n, err := wiring.Parse("(concat (bv 1 1) (bit 0 x))")
	assert.NoError(t, err)

	scope := wiring.Scope{"x": ir.Var("x", 4)}
	e, err := wiring.Eval(n, scope)
	assert.NoError(t, err)
	assert.Equal(t, uint(2), e.Width())
}

func TestMalformedInputErrors(t *testing.T) {
	_, err := wiring.Parse("(bv 5)")
	if err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestScopeMergePrefersReceiver(t *testing.T) {
	a := wiring.Scope{"x": ir.Var("x", 1)}
	b := wiring.Scope{"x": ir.Var("x", 8), "y": ir.Var("y", 2)}
	merged := a.Merge(b)
	assert.Equal(t, uint(1), merged["x"].Width())
	assert.Equal(t, uint(2), merged["y"].Width())
}
