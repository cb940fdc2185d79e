// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package bvexpr implements the abstract bit-vector specification surface
// form of spec.md §6: the "what" a sketch is checked against, independent
// of pkg/ir (the "how" a sketch realizes it as concrete primitives).
// Expressions here are a small immutable tree over constants, variables
// and the fixed operator set spec.md names: and, or, xor, add, sub, mul,
// shl, lshr, ashr, eq.
package bvexpr

import (
	"fmt"
	"math/big"
)

// Op identifies a bit-vector operator.
type Op string

// The fixed operator set spec.md §6 names.
const (
	OpAnd  Op = "and"
	OpOr   Op = "or"
	OpXor  Op = "xor"
	OpAdd  Op = "add"
	OpSub  Op = "sub"
	OpMul  Op = "mul"
	OpShl  Op = "shl"
	OpLshr Op = "lshr"
	OpAshr Op = "ashr"
	OpEq   Op = "eq"
)

// Expr is a node of the abstract bit-vector specification tree.
type Expr interface {
	Width() uint
	isExpr()
}

type constExpr struct {
	value *big.Int
	width uint
}

func (c constExpr) Width() uint { return c.width }
func (constExpr) isExpr()       {}

// Const builds a width-bit constant, masking value down to width.
func Const(value *big.Int, width uint) Expr {
	return constExpr{mask(value, width), width}
}

// ConstU is the uint64 convenience form of Const.
func ConstU(value uint64, width uint) Expr {
	return Const(new(big.Int).SetUint64(value), width)
}

func mask(v *big.Int, width uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), width)
	m.Sub(m, big.NewInt(1))

	return new(big.Int).And(v, m)
}

type varExpr struct {
	name  string
	width uint
}

func (v varExpr) Width() uint { return v.width }
func (varExpr) isExpr()       {}

// Var builds a named free variable of the given width.
func Var(name string, width uint) Expr {
	return varExpr{name, width}
}

type binExpr struct {
	op       Op
	lhs, rhs Expr
	width    uint
}

func (b binExpr) Width() uint { return b.width }
func (binExpr) isExpr()       {}

func bitwiseOp(op Op, lhs, rhs Expr) Expr {
	if lhs.Width() != rhs.Width() {
		panic(fmt.Sprintf("bvexpr: %s operands must share a width, got %d and %d", op, lhs.Width(), rhs.Width()))
	}

	return binExpr{op, lhs, rhs, lhs.Width()}
}

// And builds a bitwise-and expression; lhs and rhs must share a width.
func And(lhs, rhs Expr) Expr { return bitwiseOp(OpAnd, lhs, rhs) }

// Or builds a bitwise-or expression; lhs and rhs must share a width.
func Or(lhs, rhs Expr) Expr { return bitwiseOp(OpOr, lhs, rhs) }

// Xor builds a bitwise-xor expression; lhs and rhs must share a width.
func Xor(lhs, rhs Expr) Expr { return bitwiseOp(OpXor, lhs, rhs) }

// Add builds a modular addition expression; lhs and rhs must share a
// width, which is also the result width (overflow wraps).
func Add(lhs, rhs Expr) Expr { return bitwiseOp(OpAdd, lhs, rhs) }

// Sub builds a modular subtraction expression (lhs - rhs).
func Sub(lhs, rhs Expr) Expr { return bitwiseOp(OpSub, lhs, rhs) }

// Mul builds a modular multiplication expression whose result is
// truncated back to the shared operand width (not widened).
func Mul(lhs, rhs Expr) Expr { return bitwiseOp(OpMul, lhs, rhs) }

// Shl builds a logical-left-shift expression; the shift amount need not
// share the value's width.
func Shl(value, amount Expr) Expr { return binExpr{OpShl, value, amount, value.Width()} }

// Lshr builds a logical-right-shift expression.
func Lshr(value, amount Expr) Expr { return binExpr{OpLshr, value, amount, value.Width()} }

// Ashr builds an arithmetic (sign-extending) right-shift expression.
func Ashr(value, amount Expr) Expr { return binExpr{OpAshr, value, amount, value.Width()} }

// Eq builds a one-bit equality comparison; lhs and rhs must share a width.
func Eq(lhs, rhs Expr) Expr {
	if lhs.Width() != rhs.Width() {
		panic(fmt.Sprintf("bvexpr: eq operands must share a width, got %d and %d", lhs.Width(), rhs.Width()))
	}

	return binExpr{OpEq, lhs, rhs, 1}
}

// VarNames returns every distinct free-variable name appearing in e, in
// first-encountered order.
func VarNames(e Expr) []string {
	seen := map[string]bool{}

	var names []string

	var walk func(Expr)

	walk = func(e Expr) {
		switch t := e.(type) {
		case varExpr:
			if !seen[t.name] {
				seen[t.name] = true
				names = append(names, t.name)
			}
		case binExpr:
			walk(t.lhs)
			walk(t.rhs)
		}
	}

	walk(e)

	return names
}

// VarWidths returns the declared width of every distinct free variable
// appearing in e, keyed by name. A solver needs this to enumerate
// candidate assignments without reaching into bvexpr's unexported
// expression types itself.
func VarWidths(e Expr) map[string]uint {
	widths := map[string]uint{}

	var walk func(Expr)

	walk = func(e Expr) {
		switch t := e.(type) {
		case varExpr:
			widths[t.name] = t.width
		case binExpr:
			walk(t.lhs)
			walk(t.rhs)
		}
	}

	walk(e)

	return widths
}

// Eval evaluates e against env, a binding from free-variable name to
// value. It is the reference semantics the solver checks a sketch's
// interpreted behavior against (spec.md §6's "spec == interpret(sketch)").
func Eval(e Expr, env map[string]*big.Int) (*big.Int, error) {
	switch t := e.(type) {
	case constExpr:
		return new(big.Int).Set(t.value), nil
	case varExpr:
		v, ok := env[t.name]
		if !ok {
			return nil, fmt.Errorf("bvexpr: unbound variable %q", t.name)
		}

		return mask(v, t.width), nil
	case binExpr:
		return evalBin(t, env)
	default:
		return nil, fmt.Errorf("bvexpr: unknown expression type %T", e)
	}
}

func evalBin(t binExpr, env map[string]*big.Int) (*big.Int, error) {
	l, err := Eval(t.lhs, env)
	if err != nil {
		return nil, err
	}

	r, err := Eval(t.rhs, env)
	if err != nil {
		return nil, err
	}

	switch t.op {
	case OpAnd:
		return mask(new(big.Int).And(l, r), t.width), nil
	case OpOr:
		return mask(new(big.Int).Or(l, r), t.width), nil
	case OpXor:
		return mask(new(big.Int).Xor(l, r), t.width), nil
	case OpAdd:
		return mask(new(big.Int).Add(l, r), t.width), nil
	case OpSub:
		return mask(new(big.Int).Sub(l, r), t.width), nil
	case OpMul:
		return mask(new(big.Int).Mul(l, r), t.width), nil
	case OpShl:
		return mask(new(big.Int).Lsh(l, uint(r.Uint64())), t.width), nil
	case OpLshr:
		return mask(new(big.Int).Rsh(l, uint(r.Uint64())), t.width), nil
	case OpAshr:
		return arithmeticShiftRight(l, uint(r.Uint64()), t.width), nil
	case OpEq:
		if l.Cmp(r) == 0 {
			return big.NewInt(1), nil
		}

		return big.NewInt(0), nil
	default:
		return nil, fmt.Errorf("bvexpr: unknown operator %q", t.op)
	}
}

func arithmeticShiftRight(v *big.Int, amount, width uint) *big.Int {
	signBit := new(big.Int).Rsh(v, width-1)
	allOnes := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1))

	if signBit.Sign() == 0 {
		if amount >= width {
			return big.NewInt(0)
		}

		return mask(new(big.Int).Rsh(v, amount), width)
	}

	if amount >= width {
		return allOnes
	}

	shifted := new(big.Int).Rsh(v, amount)
	fill := mask(new(big.Int).Lsh(allOnes, width-amount), width)

	return mask(new(big.Int).Or(shifted, fill), width)
}
