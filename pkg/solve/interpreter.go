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

package solve

import (
	"math/big"

	"github.com/uwsampl/churchroad/pkg/ir"
)

// Interpreter evaluates a realized sketch against concrete free-variable
// and hole bindings. This is the collaborator contract of spec.md §6;
// pkg/ir is the only package able to type-switch over its own (unexported)
// term types, so every Interpreter in practice just forwards to
// ir.Evaluate.
type Interpreter interface {
	Eval(e ir.Expr, vars map[string]*big.Int, holes map[uint64]*big.Int) (*big.Int, error)
}

// ModuleInterpreter is the Interpreter backed by a fixed ModuleSemantics
// table — the ordinary case, used by BruteForce itself.
type ModuleInterpreter struct {
	Semantics ir.ModuleSemantics
}

// Eval implements Interpreter.
func (m ModuleInterpreter) Eval(e ir.Expr, vars map[string]*big.Int, holes map[uint64]*big.Int) (*big.Int, error) {
	return ir.Evaluate(e, vars, holes, m.Semantics)
}
