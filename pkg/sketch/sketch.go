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

// Package sketch implements the sketch generators of spec.md §4.3: fixed
// netlist skeletons, parameterized by solver-filled holes, that realize a
// family of bit-vector operations (bitwise ops, addition/subtraction,
// comparison, multiplication, barrel shift) over an architecture's
// synthesized interfaces.
package sketch

import (
	"fmt"

	"github.com/uwsampl/churchroad/pkg/iface"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/route"
	"github.com/uwsampl/churchroad/pkg/synth"
	"github.com/uwsampl/churchroad/pkg/wiring"
)

// CarryResult is the pair of outputs a carry-based sketch produces: a
// per-lane value and a final carry/borrow-out bit.
type CarryResult struct {
	O  ir.Expr
	CO ir.Expr
}

// matchWidth extends e to width, choosing between zero- and
// duplicate-extension with a solver-filled boolean hole — spec.md §4.3.1's
// "extension mode" hole. e is returned unchanged if already at width.
func matchWidth(s *synth.Synthesizer, e ir.Expr, width uint) ir.Expr {
	if e.Width() == width {
		return e
	}

	mode := s.Alloc.BoolHole()

	return ir.Mux(mode, ir.DupExtend(e, width), ir.ZeroExtend(e, width))
}

// Bitwise realizes a width-wide bitwise operation as an array of
// synthesized LUT2 instances, one per output bit, programmed with whatever
// two-input truth table the solver needs (AND, OR, XOR, ...).
// Operands narrower than width are extended per matchWidth, and the
// logical bit order of the result is chosen via a solver-filled routing
// hole (spec.md §4.3.1, §4.4). Every bit's LUT2 shares one internal-data
// token, so the solver is forced to program exactly one truth table for
// the whole bit-slice rather than one independent table per bit.
func Bitwise(s *synth.Synthesizer, a, b ir.Expr, width uint) (ir.Expr, error) {
	var tok synth.Data
	return bitwiseShared(s, a, b, width, &tok)
}

func bitwiseShared(s *synth.Synthesizer, a, b ir.Expr, width uint, tok *synth.Data) (ir.Expr, error) {
	a = matchWidth(s, a, width)
	b = matchWidth(s, b, width)

	bits := make([]ir.Expr, width)

	for i := uint(0); i < width; i++ {
		out, err := s.RealizeShared(iface.LUT(2), wiring.Scope{
			"I0": ir.Bit(a, i),
			"I1": ir.Bit(b, i),
		}, tok)
		if err != nil {
			return ir.Expr{}, fmt.Errorf("sketch: bitwise bit %d: %w", i, err)
		}

		bits[width-1-i] = out["O"]
	}

	raw := ir.Concat(bits...)
	routeSel := s.Alloc.BoolHole()

	return route.Choose(routeSel, raw), nil
}

// adder bundles the two internal-data tokens a bitwise-with-carry
// instantiation needs: one for its bitwise LUT array, one for the carry
// chain itself. Sharing one adder across several additions (as
// Multiplication does across its row-reduction) forces every addition to
// use the identical carry/LUT programming, per spec.md §4.3.4.
type adder struct {
	bitwise synth.Data
	carry   synth.Data
}

// BitwiseWithCarry realizes the canonical addition/subtraction skeleton of
// spec.md §4.3.2: a bitwise sketch drives the carry-chain's sum-select
// input, the first logical operand is wired straight into the
// carry-chain's data input, and the carry-in is a free boolean hole (0 for
// a plain add, 1 together with an inverted b for a subtract).
func BitwiseWithCarry(s *synth.Synthesizer, a, b ir.Expr, width uint) (CarryResult, error) {
	var ad adder
	return bitwiseWithCarryShared(s, a, b, width, &ad)
}

func bitwiseWithCarryShared(s *synth.Synthesizer, a, b ir.Expr, width uint, ad *adder) (CarryResult, error) {
	a = matchWidth(s, a, width)

	sBits, err := bitwiseShared(s, a, b, width, &ad.bitwise)
	if err != nil {
		return CarryResult{}, fmt.Errorf("sketch: bitwise-with-carry: %w", err)
	}

	ci := s.Alloc.BoolHole()

	out, err := s.RealizeShared(iface.Carry(width), wiring.Scope{
		"CI": ci,
		"DI": a,
		"S":  sBits,
	}, &ad.carry)
	if err != nil {
		return CarryResult{}, fmt.Errorf("sketch: bitwise-with-carry: realizing carry%d: %w", width, err)
	}

	return CarryResult{O: out["O"], CO: out["CO"]}, nil
}

// Comparison realizes spec.md §4.3.3: two independent bitwise sketches
// feed a carry chain's DI and S inputs, and the comparison result is the
// chain's final carry/borrow-out bit (CO), not its per-lane sum (O). The
// two bitwise sketches are independent of each other (spec.md: "two
// independent bitwise sketches (potentially different truth tables)"),
// each sharing its own single token internally.
func Comparison(s *synth.Synthesizer, a, b ir.Expr, width uint) (ir.Expr, error) {
	a = matchWidth(s, a, width)
	b = matchWidth(s, b, width)

	di, err := Bitwise(s, a, b, width)
	if err != nil {
		return ir.Expr{}, fmt.Errorf("sketch: comparison: DI network: %w", err)
	}

	sBits, err := Bitwise(s, a, b, width)
	if err != nil {
		return ir.Expr{}, fmt.Errorf("sketch: comparison: S network: %w", err)
	}

	ci := s.Alloc.BoolHole()

	var carryTok synth.Data

	out, err := s.RealizeShared(iface.Carry(width), wiring.Scope{
		"CI": ci,
		"DI": di,
		"S":  sBits,
	}, &carryTok)
	if err != nil {
		return ir.Expr{}, fmt.Errorf("sketch: comparison: realizing carry%d: %w", width, err)
	}

	return out["CO"], nil
}

// Multiplication realizes spec.md §4.3.4: the width x width partial
// product matrix (each partial product bit is a synthesized AND, i.e. a
// degenerate Bitwise of width 1) folded down to a width-bit product by
// repeated application of the shared BitwiseWithCarry adder. Every
// partial-product cell shares one internal-data token (so the solver must
// pick AND as the one truth table used everywhere), and every row's
// reduction add shares one adder token (so every adder stage is
// identically programmed).
// Note this yields only the low width bits of the product
// (two's-complement-safe), matching bvexpr.Mul's masked semantics, not an
// extended-precision multiply.
func Multiplication(s *synth.Synthesizer, a, b ir.Expr, width uint) (ir.Expr, error) {
	a = matchWidth(s, a, width)
	b = matchWidth(s, b, width)

	rows := make([]ir.Expr, width)

	var ppTok synth.Data

	for row := uint(0); row < width; row++ {
		bits := make([]ir.Expr, width)

		for col := uint(0); col < width; col++ {
			pp, err := s.RealizeShared(iface.LUT(2), wiring.Scope{
				"I0": ir.Bit(a, col),
				"I1": ir.Bit(b, row),
			}, &ppTok)
			if err != nil {
				return ir.Expr{}, fmt.Errorf("sketch: multiplication: partial product (%d,%d): %w", row, col, err)
			}

			bits[width-1-col] = pp["O"]
		}

		shifted := ir.Concat(append(bits, zeros(row)...)...)
		rows[row] = ir.Extract(shifted, width-1, 0)
	}

	acc := rows[0]

	var ad adder

	for row := uint(1); row < width; row++ {
		sum, err := bitwiseWithCarryShared(s, acc, rows[row], width, &ad)
		if err != nil {
			return ir.Expr{}, fmt.Errorf("sketch: multiplication: accumulate row %d: %w", row, err)
		}

		acc = sum.O
	}

	return acc, nil
}

func zeros(n uint) []ir.Expr {
	out := make([]ir.Expr, n)
	for i := range out {
		out[i] = ir.ConstU(0, 1)
	}

	return out
}

// orReduce realizes the OR-reduction of bits via a chain of shared,
// synthesized LUT2 instances (spec.md §4.3.5: "the OR-reduction (via an
// appropriately-sized LUT) of all remaining high bits of b"). An empty
// input reduces to the constant 0 (no remaining bits means no possible
// overshift); a single bit is returned unchanged.
func orReduce(s *synth.Synthesizer, bits []ir.Expr) (ir.Expr, error) {
	if len(bits) == 0 {
		return ir.ConstU(0, 1), nil
	}

	acc := bits[0]

	var tok synth.Data

	for _, b := range bits[1:] {
		out, err := s.RealizeShared(iface.LUT(2), wiring.Scope{"I0": acc, "I1": b}, &tok)
		if err != nil {
			return ir.Expr{}, fmt.Errorf("sketch: barrel shift: overshift OR-reduction: %w", err)
		}

		acc = out["O"]
	}

	return acc, nil
}

// BarrelShift realizes spec.md §4.3.5: logical-or-arithmetic, left-or-right
// shift by an amount whose width need not match the shifted value's. The
// sketch is deliberately over-provisioned to numStages = width stages (one
// per power-of-two up to the value's width, per the spec's design note
// rather than the tighter ceil(log2(width+2))), each stage built from two
// direction candidates (shift-right-with-fill, shift-left-with-zero-fill)
// combined by a global angelic-choice hole, gated by a per-stage select
// that is either the corresponding bit of the shift amount or (on the
// final, over-provisioned stage) the OR-reduction of whatever high bits of
// the amount remain unconsumed — so an out-of-range amount saturates the
// result instead of wrapping. Every MUX2 in the entire sketch shares one
// internal-data token (spec.md: "MUX2 internal-data is shared across the
// entire sketch").
func BarrelShift(s *synth.Synthesizer, value, amount ir.Expr, width uint) (ir.Expr, error) {
	cur := matchWidth(s, value, width)
	numStages := width

	logicalOrArithmetic := s.Alloc.BoolHole()
	origMSB := ir.Bit(cur, width-1)
	fillBit := ir.Mux(logicalOrArithmetic, origMSB, ir.ConstU(0, 1))

	dirHole := s.Alloc.BoolHole()

	var muxTok synth.Data

	for stage := uint(0); stage < numStages; stage++ {
		shiftBy := uint(1) << stage

		sel, err := stageSelect(s, amount, stage, numStages)
		if err != nil {
			return ir.Expr{}, fmt.Errorf("sketch: barrel shift: stage %d select: %w", stage, err)
		}

		bits := make([]ir.Expr, width)

		for i := uint(0); i < width; i++ {
			identity := ir.Bit(cur, i)

			var rightShifted ir.Expr
			if i+shiftBy < width {
				rightShifted = ir.Bit(cur, i+shiftBy)
			} else {
				rightShifted = fillBit
			}

			var leftShifted ir.Expr
			if i >= shiftBy {
				leftShifted = ir.Bit(cur, i-shiftBy)
			} else {
				leftShifted = ir.ConstU(0, 1)
			}

			right, err := s.RealizeShared(iface.MUX(2), wiring.Scope{
				"I0": identity, "I1": rightShifted, "S": sel,
			}, &muxTok)
			if err != nil {
				return ir.Expr{}, fmt.Errorf("sketch: barrel shift: stage %d bit %d right candidate: %w", stage, i, err)
			}

			left, err := s.RealizeShared(iface.MUX(2), wiring.Scope{
				"I0": identity, "I1": leftShifted, "S": sel,
			}, &muxTok)
			if err != nil {
				return ir.Expr{}, fmt.Errorf("sketch: barrel shift: stage %d bit %d left candidate: %w", stage, i, err)
			}

			chosen, err := s.RealizeShared(iface.MUX(2), wiring.Scope{
				"I0": right["O"], "I1": left["O"], "S": dirHole,
			}, &muxTok)
			if err != nil {
				return ir.Expr{}, fmt.Errorf("sketch: barrel shift: stage %d bit %d direction choice: %w", stage, i, err)
			}

			bits[width-1-i] = chosen["O"]
		}

		cur = ir.Concat(bits...)
	}

	return cur, nil
}

// stageSelect produces the per-stage select signal: for every stage but
// the last, the corresponding bit of amount (or a free hole if amount
// isn't that wide); for the over-provisioned final stage, the
// OR-reduction of whatever bits of amount at index >= stage remain, so
// that any shift amount too large to be represented by the preceding
// stages forces a full saturate.
func stageSelect(s *synth.Synthesizer, amount ir.Expr, stage, numStages uint) (ir.Expr, error) {
	if stage < numStages-1 {
		if stage < amount.Width() {
			return ir.Bit(amount, stage), nil
		}

		return s.Alloc.BoolHole(), nil
	}

	var remaining []ir.Expr
	for i := stage; i < amount.Width(); i++ {
		remaining = append(remaining, ir.Bit(amount, i))
	}

	return orReduce(s, remaining)
}
