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

// Package arch models the Architecture Description of spec.md §3/§4.5: an
// ordered list of interface implementations, each binding one abstract
// interface identifier to a single concrete hardware-module template, an
// internal-state schema and an output projection.
package arch

import (
	"github.com/uwsampl/churchroad/pkg/iface"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/wiring"
)

// PortTemplate is one port of a module-instance template: its wiring-DSL
// value expression is parsed but not yet resolved against any particular
// port map / internal-data.
type PortTemplate struct {
	Name      string
	Value     wiring.Node
	Direction ir.Direction
	Width     uint
}

// ParamTemplate is one compile-time parameter binding of a module-instance
// template.
type ParamTemplate struct {
	Name  string
	Value wiring.Node
}

// ModuleTemplate is the single module binding of an Implementation: the
// hardware-module-instance template whose port values are wiring-DSL
// expressions (spec.md §3 "Module binding").
type ModuleTemplate struct {
	ModuleName           string
	Ports                []PortTemplate
	Params                []ParamTemplate
	Filepath              string
	RacketImportFilepath  string
}

// Implementation is one entry of an Architecture Description: an
// interface identifier bound to a module template, an internal-state
// schema, and an output projection (spec.md §3).
type Implementation struct {
	ID             iface.ID
	Module         ModuleTemplate
	InternalData   map[string]uint
	OutputProjection map[string]wiring.Node
}

// Description is an ordered, immutable list of interface implementations.
// Lookup is by structural identifier equality, iterating in declaration
// order — the order rule R2/R3 of spec.md §4.2 depend on ("first match
// wins").
type Description struct {
	Implementations []Implementation
}

// Lookup finds the first implementation in this Description whose
// identifier structurally equals id.
func (d Description) Lookup(id iface.ID) (Implementation, bool) {
	for _, impl := range d.Implementations {
		if impl.ID.Equal(id) {
			return impl, true
		}
	}

	return Implementation{}, false
}

// LUTsWiderThan returns every LUT implementation in this Description whose
// arity exceeds n, in declaration order — used by rule R2.
func (d Description) LUTsWiderThan(n uint) []Implementation {
	var out []Implementation

	for _, impl := range d.Implementations {
		if impl.ID.Kind == iface.KindLUT && impl.ID.NumInputs() > n {
			out = append(out, impl)
		}
	}

	return out
}

// LUTsNarrowerThan returns every LUT implementation in this Description
// whose arity is below n, in declaration order — used by rule R3.
func (d Description) LUTsNarrowerThan(n uint) []Implementation {
	var out []Implementation

	for _, impl := range d.Implementations {
		if impl.ID.Kind == iface.KindLUT && impl.ID.NumInputs() < n {
			out = append(out, impl)
		}
	}

	return out
}

// AnyLUTAtLeast returns the first LUT implementation (in declaration
// order) whose arity is at least n, if any.
func (d Description) AnyLUTAtLeast(n uint) (Implementation, bool) {
	for _, impl := range d.Implementations {
		if impl.ID.Kind == iface.KindLUT && impl.ID.NumInputs() >= n {
			return impl, true
		}
	}

	return Implementation{}, false
}

// AnyCarryOtherThan returns the first carry implementation (in declaration order)
// whose width differs from w, if any — used by rule R4.
func (d Description) AnyCarryOtherThan(w uint) (Implementation, bool) {
	for _, impl := range d.Implementations {
		if impl.ID.Kind == iface.KindCarry && impl.ID.CarryWidth() != w {
			return impl, true
		}
	}

	return Implementation{}, false
}

// HasCarry reports whether this Description implements any carry
// interface at all.
func (d Description) HasCarry() bool {
	for _, impl := range d.Implementations {
		if impl.ID.Kind == iface.KindCarry {
			return true
		}
	}

	return false
}

// HasAnyLUT reports whether this Description implements any LUT
// interface at all.
func (d Description) HasAnyLUT() bool {
	for _, impl := range d.Implementations {
		if impl.ID.Kind == iface.KindLUT {
			return true
		}
	}

	return false
}

// HasMUX reports whether this Description directly implements MUX2.
func (d Description) HasMUX() bool {
	_, ok := d.Lookup(iface.MUX(2))
	return ok
}
