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

// Package solve implements the correctness query of spec.md §4.1/§6:
// given an abstract bit-vector specification and a synthesized sketch,
// existentially quantify over the sketch's symbolic holes such that, for
// every assignment of the spec's free variables, interpreting the sketch
// agrees with the spec. pkg/bvexpr supplies the "what" (ground-truth
// semantics); pkg/ir.Evaluate supplies the "how" (the sketch's concrete
// interpreter, via a caller-supplied ModuleSemantics table).
package solve

import (
	"fmt"
	"math/big"

	"github.com/uwsampl/churchroad/pkg/bvexpr"
	"github.com/uwsampl/churchroad/pkg/ir"
)

// Model is a solved assignment of every symbolic hole in a sketch, keyed
// by allocation-order hole id (ir.HoleID).
type Model map[uint64]*big.Int

// Query bundles a correctness question: does some hole assignment make
// Sketch agree with Spec for every binding of Spec's free variables.
// Semantics supplies the concrete behavior of the hardware module
// instances Sketch's tree bottoms out at (PrimitiveSemantics, typically).
type Query struct {
	Spec      bvexpr.Expr
	Sketch    ir.Expr
	Alloc     *ir.Allocator
	Semantics ir.ModuleSemantics
}

// Result is the outcome of a Solver.Solve call.
type Result struct {
	// Holds reports whether some hole assignment was found under which
	// Sketch matches Spec for every enumerated variable assignment.
	Holds bool
	// Model is the satisfying hole assignment, populated iff Holds.
	Model Model
	// CounterExample is a variable assignment, populated iff !Holds, that
	// no candidate hole assignment could satisfy (diagnostic only: with
	// more than one candidate this is simply the last one rejected, not
	// necessarily one every candidate failed on identically).
	CounterExample map[string]*big.Int
}

// Solver answers a Query.
type Solver interface {
	Solve(q Query) (Result, error)
}

// BruteForce is a reference Solver: it exhaustively enumerates both free
// variable and hole assignments. It exists to let spec.md §8's testable
// properties and end-to-end scenarios be checked without an external SMT
// dependency, at widths small enough for exhaustive enumeration to be
// tractable — it is not the production solving strategy spec.md §9
// leaves open as a later SMT-backed replacement.
type BruteForce struct {
	// MaxBits bounds the width of any single free variable or hole this
	// solver will enumerate; anything wider fails fast with an error
	// rather than hanging. Zero means defaultMaxBits.
	MaxBits uint
}

// defaultMaxBits bounds individual variable and hole widths, not the
// overall enumeration — a single LUT4 truth-table hole is 16 bits wide by
// construction (2^4 entries) and is exactly the kind of hole this solver
// must be able to enumerate on its own; what actually keeps brute force
// tractable is internal-data sharing (synth.Data) keeping the *number* of
// independently-enumerated holes small, not any one hole's width.
const defaultMaxBits = 16

func (b BruteForce) maxBits() uint {
	if b.MaxBits == 0 {
		return defaultMaxBits
	}

	return b.MaxBits
}

// Solve implements Solver.
func (b BruteForce) Solve(q Query) (Result, error) {
	varWidths := bvexpr.VarWidths(q.Spec)
	holes := q.Alloc.Holes()

	for _, w := range varWidths {
		if w > b.maxBits() {
			return Result{}, fmt.Errorf("solve: variable width %d exceeds brute-force budget %d", w, b.maxBits())
		}
	}

	for _, h := range holes {
		if h.Width() > b.maxBits() {
			return Result{}, fmt.Errorf("solve: hole width %d exceeds brute-force budget %d", h.Width(), b.maxBits())
		}
	}

	varAssignments := enumerateAssignments(varWidths)
	holeAssignments := enumerateHoleAssignments(holes)

	var lastRejected map[string]*big.Int

	for _, holeEnv := range holeAssignments {
		allMatch := true

		for _, varEnv := range varAssignments {
			specVal, err := bvexpr.Eval(q.Spec, varEnv)
			if err != nil {
				return Result{}, fmt.Errorf("solve: evaluating spec: %w", err)
			}

			sketchVal, err := (ModuleInterpreter{q.Semantics}).Eval(q.Sketch, varEnv, holeEnv)
			if err != nil {
				return Result{}, fmt.Errorf("solve: evaluating sketch: %w", err)
			}

			if specVal.Cmp(sketchVal) != 0 {
				allMatch = false
				lastRejected = varEnv

				break
			}
		}

		if allMatch {
			return Result{Holds: true, Model: holeEnvToModel(holes, holeEnv)}, nil
		}
	}

	return Result{Holds: false, CounterExample: lastRejected}, nil
}

// enumerateAssignments returns the cartesian product of every possible
// value for each named width in widths, as a slice of complete
// environments suitable for bvexpr.Eval / ir.Evaluate.
func enumerateAssignments(widths map[string]uint) []map[string]*big.Int {
	names := make([]string, 0, len(widths))
	for name := range widths {
		names = append(names, name)
	}

	envs := []map[string]*big.Int{{}}

	for _, name := range names {
		width := widths[name]
		limit := uint64(1) << width

		next := make([]map[string]*big.Int, 0, len(envs)*int(limit))

		for _, base := range envs {
			for v := uint64(0); v < limit; v++ {
				env := make(map[string]*big.Int, len(base)+1)
				for k, bv := range base {
					env[k] = bv
				}

				env[name] = new(big.Int).SetUint64(v)
				next = append(next, env)
			}
		}

		envs = next
	}

	return envs
}

// enumerateHoleAssignments returns the cartesian product of every
// possible value for each hole, keyed by ir.HoleID.
func enumerateHoleAssignments(holes []ir.Expr) []map[uint64]*big.Int {
	envs := []map[uint64]*big.Int{{}}

	for _, h := range holes {
		id := ir.HoleID(h)
		limit := uint64(1) << h.Width()

		next := make([]map[uint64]*big.Int, 0, len(envs)*int(limit))

		for _, base := range envs {
			for v := uint64(0); v < limit; v++ {
				env := make(map[uint64]*big.Int, len(base)+1)
				for k, bv := range base {
					env[k] = bv
				}

				env[id] = new(big.Int).SetUint64(v)
				next = append(next, env)
			}
		}

		envs = next
	}

	return envs
}

func holeEnvToModel(holes []ir.Expr, env map[uint64]*big.Int) Model {
	m := make(Model, len(holes))

	for _, h := range holes {
		id := ir.HoleID(h)
		m[id] = env[id]
	}

	return m
}
