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

package cmd

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/uwsampl/churchroad/pkg/arch"
	"github.com/uwsampl/churchroad/pkg/bvexpr"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/sketch"
	"github.com/uwsampl/churchroad/pkg/solve"
	"github.com/uwsampl/churchroad/pkg/synth"
)

var (
	checkArchPath string
	checkOp       string
	checkWidth    uint
	checkMaxBits  uint
	checkJSON     bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a sketch generator against its abstract bit-vector specification.",
	Long:  "check builds the sketch generator matching the requested operator over an architecture description and searches, by brute force, for a symbolic-hole assignment under which the sketch agrees with the abstract specification for every input.",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := arch.LoadFile(checkArchPath)
		if err != nil {
			return err
		}

		q, err := buildQuery(d, checkOp, checkWidth)
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{"op": checkOp, "width": checkWidth, "arch": checkArchPath}).Info("checking sketch against specification")

		res, err := (solve.BruteForce{MaxBits: checkMaxBits}).Solve(q)
		if err != nil {
			return err
		}

		return printResult(cmd, res)
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkArchPath, "arch", "", "path to an architecture description YAML file")
	checkCmd.Flags().StringVar(&checkOp, "op", "and", "operator to check: and, or, xor, add, sub, eq, mul, shl, lshr, ashr")
	checkCmd.Flags().UintVar(&checkWidth, "width", 4, "operand bit width")
	checkCmd.Flags().UintVar(&checkMaxBits, "max-bits", 0, "brute-force enumeration budget (0 = default)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit the result as JSON")
	_ = checkCmd.MarkFlagRequired("arch")

	rootCmd.AddCommand(checkCmd)
}

// buildQuery realizes the sketch generator matching op over d and pairs it
// with the equivalent bvexpr specification, ready for a solve.Solver.
func buildQuery(d arch.Description, op string, width uint) (solve.Query, error) {
	alloc := ir.NewAllocator()
	s := synth.New(d, alloc)

	a := ir.Var("a", width)
	b := ir.Var("b", width)
	specA := bvexpr.Var("a", width)
	specB := bvexpr.Var("b", width)

	var sketchExpr ir.Expr
	var spec bvexpr.Expr
	var err error

	switch op {
	case "and", "or", "xor":
		sketchExpr, err = sketch.Bitwise(s, a, b, width)
		spec = bitwiseSpec(op, specA, specB)
	case "add":
		var res sketch.CarryResult
		res, err = sketch.BitwiseWithCarry(s, a, b, width)
		sketchExpr = res.O
		spec = bvexpr.Add(specA, specB)
	case "sub":
		var res sketch.CarryResult
		res, err = sketch.BitwiseWithCarry(s, a, b, width)
		sketchExpr = res.O
		spec = bvexpr.Sub(specA, specB)
	case "eq":
		sketchExpr, err = sketch.Comparison(s, a, b, width)
		spec = bvexpr.Eq(specA, specB)
	case "mul":
		sketchExpr, err = sketch.Multiplication(s, a, b, width)
		spec = bvexpr.Mul(specA, specB)
	case "shl":
		sketchExpr, err = sketch.BarrelShift(s, a, b, width)
		spec = bvexpr.Shl(specA, specB)
	case "lshr":
		sketchExpr, err = sketch.BarrelShift(s, a, b, width)
		spec = bvexpr.Lshr(specA, specB)
	case "ashr":
		sketchExpr, err = sketch.BarrelShift(s, a, b, width)
		spec = bvexpr.Ashr(specA, specB)
	default:
		return solve.Query{}, fmt.Errorf("check: unknown operator %q", op)
	}

	if err != nil {
		return solve.Query{}, err
	}

	return solve.Query{Spec: spec, Sketch: sketchExpr, Alloc: alloc, Semantics: solve.PrimitiveSemantics}, nil
}

func bitwiseSpec(op string, a, b bvexpr.Expr) bvexpr.Expr {
	switch op {
	case "or":
		return bvexpr.Or(a, b)
	case "xor":
		return bvexpr.Xor(a, b)
	default:
		return bvexpr.And(a, b)
	}
}

func printResult(cmd *cobra.Command, res solve.Result) error {
	if checkJSON {
		doc := struct {
			Holds bool `json:"holds"`
			Holes int  `json:"holes"`
		}{Holds: res.Holds, Holes: len(res.Model)}

		enc, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(enc))

		return nil
	}

	if res.Holds {
		fmt.Fprintf(cmd.OutOrStdout(), "holds: found a configuration for %d hole(s)\n", len(res.Model))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "does not hold: no configuration matched every enumerated input")
	}

	return nil
}
