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

// Package route implements the logical-to-physical bit routing of
// spec.md §4.4: the two canonical permutations a sketch generator may
// apply between its logical bit order and the physical pin order of the
// primitives it instantiates.
package route

import "github.com/uwsampl/churchroad/pkg/ir"

// Bitwise is the identity permutation: logical bit i maps to physical
// bit i.
func Bitwise(e ir.Expr) ir.Expr {
	return e
}

// BitwiseReverse maps logical bit i to physical bit (width-1-i), i.e.
// MSB-first physical routing.
func BitwiseReverse(e ir.Expr) ir.Expr {
	w := e.Width()
	bits := make([]ir.Expr, w)

	for i := uint(0); i < w; i++ {
		bits[w-1-i] = ir.Bit(e, i)
	}

	return ir.Concat(bits...)
}

// Choose builds a solver-selected routing between the two canonical
// permutations: sel (a boolean hole) picks BitwiseReverse when true,
// Bitwise otherwise.
func Choose(sel, e ir.Expr) ir.Expr {
	return ir.Mux(sel, BitwiseReverse(e), Bitwise(e))
}
