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

// Package ir implements the abstract netlist expression language used
// throughout the tech-mapper: constants, variables, bit-range extracts,
// concatenation, hash maps, hardware-module instances, lists and symbolic
// holes. Every constructor is width-checked eagerly; expressions are
// immutable trees and safely shareable once built.
package ir

import "fmt"

// Term is a single node of an IR expression tree. Every concrete node type
// (Const, Var, Extract, ...) implements this interface. Analogous to
// go-corset's air.Term / ir/term.Term: a tagged variant closed over a fixed
// set of constructors, dispatched on via type switches rather than deep
// interface hierarchies.
type Term interface {
	// Width returns the number of bits this term evaluates to.
	Width() uint
	// lisp renders this term in the parenthesized prefix notation shared
	// with the wiring DSL surface form (see pkg/wiring).
	lisp() string
}

// Expr wraps a Term so that the zero value is meaningful to talk about
// ("no expression") and so that term identity can later be redirected via
// Unify (see symbolic.go) without runtime pointer surgery on the tree itself.
type Expr struct {
	term Term
}

// Width returns the bit-width of this expression.
func (e Expr) Width() uint {
	if e.term == nil {
		panic("ir: width of nil expression")
	}

	return e.term.Width()
}

// IsValid reports whether this Expr wraps an actual term.
func (e Expr) IsValid() bool { return e.term != nil }

// Term exposes the underlying tagged-variant node, for packages (synth,
// sketch) that need to type-switch on expression shape.
func (e Expr) Term() Term { return e.term }

// String renders this expression using the wiring-DSL's parenthesized
// prefix notation, e.g. "(concat (bv 1 1) a)".
func (e Expr) String() string {
	if e.term == nil {
		return "<nil>"
	}

	return e.term.lisp()
}

func widthMismatch(op string, widths ...uint) {
	panic(fmt.Sprintf("ir: width mismatch constructing %s: %v", op, widths))
}

func requireSameWidth(op string, es ...Expr) uint {
	if len(es) == 0 {
		panic(fmt.Sprintf("ir: %s requires at least one argument", op))
	}

	w := es[0].Width()

	for _, e := range es[1:] {
		if e.Width() != w {
			ws := make([]uint, len(es))
			for i, e := range es {
				ws[i] = e.Width()
			}

			widthMismatch(op, ws...)
		}
	}

	return w
}
