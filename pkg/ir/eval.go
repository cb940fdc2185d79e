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

package ir

import (
	"fmt"
	"math/big"
)

// ModuleSemantics computes the named output values of one primitive
// instance given its named input and parameter values. pkg/ir itself
// knows nothing about what a concrete module like "LUT4" or "CARRY8"
// computes; this callback is supplied by the solver/interpreter
// collaborator (spec.md §6, implemented by pkg/solve).
type ModuleSemantics func(moduleName string, inputs, params map[string]*big.Int) (map[string]*big.Int, error)

// Evaluate computes the value of e given bindings for every free
// variable and hole it references, dispatching hardware-module-instance
// primitives through semantics. This is the combinational interpreter
// spec.md §6 names "Interpreter.Eval".
func Evaluate(e Expr, vars map[string]*big.Int, holes map[uint64]*big.Int, semantics ModuleSemantics) (*big.Int, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("ir: evaluating an invalid expression")
	}

	v, err := evaluate(e.term, vars, holes, semantics)
	if err != nil {
		return nil, err
	}

	return maskWidth(v, e.Width()), nil
}

func maskWidth(v *big.Int, width uint) *big.Int {
	m := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1))
	return new(big.Int).And(v, m)
}

func evaluate(t Term, vars map[string]*big.Int, holes map[uint64]*big.Int, semantics ModuleSemantics) (*big.Int, error) {
	switch n := t.(type) {
	case *constTerm:
		return new(big.Int).Set(n.value), nil

	case *varTerm:
		v, ok := vars[n.name]
		if !ok {
			return nil, fmt.Errorf("ir: unbound variable %q", n.name)
		}

		return maskWidth(v, n.width), nil

	case *holeTerm:
		v, ok := holes[n.id]
		if !ok {
			return nil, fmt.Errorf("ir: unbound hole ?h%d", n.id)
		}

		return maskWidth(v, n.width), nil

	case *wireTerm:
		if n.resolved == nil {
			return nil, fmt.Errorf("ir: evaluating an unresolved wire")
		}

		return evaluate(n.resolved, vars, holes, semantics)

	case *extractTerm:
		v, err := evaluate(n.arg, vars, holes, semantics)
		if err != nil {
			return nil, err
		}

		return maskWidth(new(big.Int).Rsh(v, n.lo), n.hi-n.lo+1), nil

	case *concatTerm:
		acc := new(big.Int)

		for _, arg := range n.args {
			v, err := evaluate(arg, vars, holes, semantics)
			if err != nil {
				return nil, err
			}

			acc.Lsh(acc, arg.Width())
			acc.Or(acc, maskWidth(v, arg.Width()))
		}

		return acc, nil

	case *eqTerm:
		l, err := evaluate(n.lhs, vars, holes, semantics)
		if err != nil {
			return nil, err
		}

		r, err := evaluate(n.rhs, vars, holes, semantics)
		if err != nil {
			return nil, err
		}

		if maskWidth(l, n.lhs.Width()).Cmp(maskWidth(r, n.rhs.Width())) == 0 {
			return big.NewInt(1), nil
		}

		return big.NewInt(0), nil

	case *orTerm:
		acc := new(big.Int)

		for _, arg := range n.args {
			v, err := evaluate(arg, vars, holes, semantics)
			if err != nil {
				return nil, err
			}

			acc.Or(acc, v)
		}

		return acc, nil

	case *andTerm:
		acc := maskWidth(big.NewInt(-1), n.width)

		for _, arg := range n.args {
			v, err := evaluate(arg, vars, holes, semantics)
			if err != nil {
				return nil, err
			}

			acc.And(acc, v)
		}

		return acc, nil

	case *muxTerm:
		sel, err := evaluate(n.sel, vars, holes, semantics)
		if err != nil {
			return nil, err
		}

		if sel.Sign() != 0 {
			return evaluate(n.whenTrue, vars, holes, semantics)
		}

		return evaluate(n.whenFalse, vars, holes, semantics)

	case *regTerm:
		return nil, fmt.Errorf("ir: registers are not evaluable by a combinational interpreter")

	case *extendTerm:
		v, err := evaluate(n.arg, vars, holes, semantics)
		if err != nil {
			return nil, err
		}

		v = maskWidth(v, n.arg.Width())

		if !n.dup {
			return v, nil
		}

		topBit := new(big.Int).Rsh(v, n.arg.Width()-1)
		if topBit.Sign() == 0 {
			return v, nil
		}

		fillWidth := n.toWidth - n.arg.Width()
		fill := maskWidth(big.NewInt(-1), fillWidth)
		fill.Lsh(fill, n.arg.Width())

		return new(big.Int).Or(v, fill), nil

	case *mapLitTerm, *mapLookupTerm, *listLitTerm, *listIndexTerm:
		return nil, fmt.Errorf("ir: collection terms are not evaluable to a scalar bit-vector")

	case *moduleInstTerm:
		return evaluateModuleInst(n, vars, holes, semantics)

	default:
		return nil, fmt.Errorf("ir: unevaluable term type %T", t)
	}
}

// evaluateModuleInst dispatches a primitive instance to semantics and
// reassembles its output ports into a single value: the concatenation of
// every output port's value in declaration order, most significant
// first — the same convention pkg/synth relies on when it slices a named
// output back out of the instance via Extract.
func evaluateModuleInst(n *moduleInstTerm, vars map[string]*big.Int, holes map[uint64]*big.Int, semantics ModuleSemantics) (*big.Int, error) {
	if semantics == nil {
		return nil, fmt.Errorf("ir: no module semantics supplied for %s", n.moduleName)
	}

	inputs := make(map[string]*big.Int, len(n.ports))

	for _, p := range n.ports {
		if p.Direction != Input {
			continue
		}

		v, err := evaluate(p.Value.term, vars, holes, semantics)
		if err != nil {
			return nil, fmt.Errorf("module %s port %s: %w", n.moduleName, p.Name, err)
		}

		inputs[p.Name] = maskWidth(v, p.Width)
	}

	params := make(map[string]*big.Int, len(n.params))

	for _, p := range n.params {
		v, err := evaluate(p.Value.term, vars, holes, semantics)
		if err != nil {
			return nil, fmt.Errorf("module %s parameter %s: %w", n.moduleName, p.Name, err)
		}

		params[p.Name] = v
	}

	outputs, err := semantics(n.moduleName, inputs, params)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", n.moduleName, err)
	}

	acc := new(big.Int)

	for _, p := range n.ports {
		if p.Direction != Output {
			continue
		}

		v, ok := outputs[p.Name]
		if !ok {
			return nil, fmt.Errorf("module %s: semantics did not provide output %q", n.moduleName, p.Name)
		}

		acc.Lsh(acc, p.Width)
		acc.Or(acc, maskWidth(v, p.Width))
	}

	return acc, nil
}
