package ir

import (
	"fmt"
	"math/big"
)

// ============================================================================
// Constant
// ============================================================================

// constTerm represents a literal bit-vector value of a fixed width.
type constTerm struct {
	value *big.Int
	width uint
}

func (c *constTerm) Width() uint { return c.width }

func (c *constTerm) lisp() string {
	return fmt.Sprintf("(bv %s %d)", c.value.String(), c.width)
}

// Const constructs a literal bit-vector expression. The value is masked to
// width bits; width must be positive.
func Const(value *big.Int, width uint) Expr {
	if width == 0 {
		panic("ir: zero-width constant")
	}

	masked := new(big.Int).Set(value)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1))
	masked.And(masked, mask)

	return Expr{&constTerm{masked, width}}
}

// ConstU constructs a literal bit-vector expression from a uint64.
func ConstU(value uint64, width uint) Expr {
	return Const(new(big.Int).SetUint64(value), width)
}

// Zero constructs the all-zeros constant of the given width.
func Zero(width uint) Expr { return ConstU(0, width) }

// One1 constructs the single-bit constant 1.
func One1() Expr { return ConstU(1, 1) }

// AsConstant returns the constant value of e if it is one, or nil otherwise.
// No simplification is performed; only a literal constTerm is recognised.
func AsConstant(e Expr) *big.Int {
	if c, ok := e.term.(*constTerm); ok {
		return new(big.Int).Set(c.value)
	}

	return nil
}

// ============================================================================
// Variable
// ============================================================================

// varTerm represents a named, free variable of a given width. Variables are
// the user-declared "free variables" of spec.md §4.1 — they are never
// created by an Allocator and so are trivially distinguishable from holes.
type varTerm struct {
	name  string
	width uint
}

func (v *varTerm) Width() uint { return v.width }

func (v *varTerm) lisp() string { return v.name }

// Var constructs a named free variable of the given width.
func Var(name string, width uint) Expr {
	if width == 0 {
		panic("ir: zero-width variable " + name)
	}

	return Expr{&varTerm{name, width}}
}

// VarName returns the declared name of e if it is a Var, or "" otherwise.
func VarName(e Expr) (string, bool) {
	if v, ok := e.term.(*varTerm); ok {
		return v.name, true
	}

	return "", false
}
