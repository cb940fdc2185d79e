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

// Package iface models the abstract interfaces ("LUT{n}", "MUX{n}",
// "carry{w}") that architecture descriptions implement and the interface
// synthesizer realizes, per spec.md §3/§4.1. The registry here is the
// "canonical, fixed catalog of abstract interfaces and their port
// signatures" — fixed in the sense that its production rules are closed,
// but explicitly extensible to any LUT/carry width and is the single
// source of truth both the architecture loader and the synthesizer
// consult for port signatures.
package iface

import (
	"fmt"
	"sort"
	"strings"

	"github.com/uwsampl/churchroad/pkg/ir"
)

// Kind enumerates the three interface families spec.md §3 defines.
type Kind string

// The three interface kinds the core understands.
const (
	KindLUT   Kind = "LUT"
	KindMUX   Kind = "MUX"
	KindCarry Kind = "carry"
)

// ID is a structural interface identifier: a kind plus a parameter map
// (e.g. {"num_inputs": 4} for LUT4). Equality is structural, per spec.md
// §3.
type ID struct {
	Kind   Kind
	Params map[string]uint
}

// LUT constructs the identifier for an n-input lookup table.
func LUT(n uint) ID { return ID{KindLUT, map[string]uint{"num_inputs": n}} }

// MUX constructs the identifier for an n-input multiplexer.
func MUX(n uint) ID { return ID{KindMUX, map[string]uint{"num_inputs": n}} }

// Carry constructs the identifier for a w-wide carry-chain tile.
func Carry(w uint) ID { return ID{KindCarry, map[string]uint{"width": w}} }

// Equal reports whether id and other denote the same interface,
// structurally.
func (id ID) Equal(other ID) bool {
	if id.Kind != other.Kind || len(id.Params) != len(other.Params) {
		return false
	}

	for k, v := range id.Params {
		if ov, ok := other.Params[k]; !ok || ov != v {
			return false
		}
	}

	return true
}

// NumInputs returns the "num_inputs" parameter (LUT/MUX identifiers).
func (id ID) NumInputs() uint { return id.Params["num_inputs"] }

// CarryWidth returns the "width" parameter (carry identifiers).
func (id ID) CarryWidth() uint { return id.Params["width"] }

// String renders a canonical, deterministic textual form, e.g. "LUT4" or
// "carry8", falling back to an explicit parameter listing for anything
// that doesn't fit that shorthand.
func (id ID) String() string {
	switch {
	case id.Kind == KindLUT && len(id.Params) == 1:
		return fmt.Sprintf("LUT%d", id.Params["num_inputs"])
	case id.Kind == KindMUX && len(id.Params) == 1:
		return fmt.Sprintf("MUX%d", id.Params["num_inputs"])
	case id.Kind == KindCarry && len(id.Params) == 1:
		return fmt.Sprintf("carry%d", id.Params["width"])
	default:
		keys := make([]string, 0, len(id.Params))
		for k := range id.Params {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%d", k, id.Params[k])
		}

		return fmt.Sprintf("%s(%s)", id.Kind, strings.Join(parts, ","))
	}
}

// Port is a single named port of an abstract interface signature: a name,
// direction and declared width (no bound value — that only exists once an
// interface is realized into a concrete module instance).
type Port struct {
	Name      string
	Direction ir.Direction
	Width     uint
}

// Definition is an interface's full port signature.
type Definition struct {
	ID    ID
	Ports []Port
}

// PortNames returns the names of every port with the given direction.
func (d Definition) PortNames(dir ir.Direction) []string {
	var names []string

	for _, p := range d.Ports {
		if p.Direction == dir {
			names = append(names, p.Name)
		}
	}

	return names
}

// Port returns the named port of this definition.
func (d Definition) Port(name string) (Port, bool) {
	for _, p := range d.Ports {
		if p.Name == name {
			return p, true
		}
	}

	return Port{}, false
}

// Lookup returns the canonical port signature for id. LUT{k} (k>=1),
// MUX2 and carry{w} (w>=1) are all well-formed; any other MUX arity is
// not defined by this catalog (the synthesizer never needs one: the only
// multiplexer rule, R6, is stated in terms of MUX2 specifically).
func Lookup(id ID) (Definition, error) {
	switch id.Kind {
	case KindLUT:
		return lutDefinition(id.NumInputs()), nil
	case KindMUX:
		if id.NumInputs() != 2 {
			return Definition{}, fmt.Errorf("iface: no definition for %s (only MUX2 is catalogued)", id)
		}

		return muxDefinition(), nil
	case KindCarry:
		return carryDefinition(id.CarryWidth()), nil
	default:
		return Definition{}, fmt.Errorf("iface: unknown interface kind %q", id.Kind)
	}
}

func lutDefinition(n uint) Definition {
	if n == 0 {
		panic("iface: LUT0 is not a meaningful interface")
	}

	ports := make([]Port, 0, n+1)

	for i := uint(0); i < n; i++ {
		ports = append(ports, Port{fmt.Sprintf("I%d", i), ir.Input, 1})
	}

	ports = append(ports, Port{"O", ir.Output, 1})

	return Definition{LUT(n), ports}
}

func muxDefinition() Definition {
	return Definition{
		MUX(2),
		[]Port{
			{"I0", ir.Input, 1},
			{"I1", ir.Input, 1},
			{"S", ir.Input, 1},
			{"O", ir.Output, 1},
		},
	}
}

func carryDefinition(w uint) Definition {
	if w == 0 {
		panic("iface: carry0 is not a meaningful interface")
	}

	return Definition{
		Carry(w),
		[]Port{
			{"CI", ir.Input, 1},
			{"DI", ir.Input, w},
			{"S", ir.Input, w},
			{"CO", ir.Output, 1},
			{"O", ir.Output, w},
		},
	}
}

// FixedCatalog lists the canonical, always-present identifiers spec.md §3
// names explicitly: LUT2, LUT4, LUT6, MUX2, carry2, carry8. Architecture
// descriptions are free to implement (or not) any of these, and the
// synthesizer can realize any other LUT{k}/carry{w} derived from whatever
// the architecture actually provides (spec.md §4.2).
func FixedCatalog() []ID {
	return []ID{LUT(2), LUT(4), LUT(6), MUX(2), Carry(2), Carry(8)}
}
