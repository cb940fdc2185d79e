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

// Package synth implements the interface synthesizer of spec.md §4.2: given
// an architecture description and a requested abstract interface, realize
// it as a tree of concrete hardware-module instances, falling back through
// rules R1-R6 when the architecture does not implement the interface
// natively.
package synth

import (
	"fmt"

	"github.com/uwsampl/churchroad/pkg/arch"
	"github.com/uwsampl/churchroad/pkg/iface"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/wiring"
)

// defaultMaxDepth bounds the recursion the fallback rules can perform
// before giving up. Realizing e.g. a carry width from a LUT-only
// architecture recurses through R5 into R6 into R3/R2; thirty-two is far
// more headroom than any of the shipped architectures need.
const defaultMaxDepth = 32

// Outputs maps an interface's output-port names to the realized
// expression driving that output, per spec.md §4.2's closing step: "build
// a hash-map from interface-output-name to the projection expression".
type Outputs map[string]ir.Expr

// Data is the internal-data token of spec.md §3/§4.2: an opaque tree of
// freshly allocated symbolic holes carrying the values bound to an
// interface realization's internal-state variables. Its shape (how many
// leaves, nested how deeply) is a deterministic function of the
// realization path taken, never of the caller-supplied port map.
//
// The zero value is an empty, "not yet realized" token. Passing a zero
// Data into RealizeShared allocates fresh holes and fills the token in
// place; passing a previously filled Data back in reuses those same
// holes instead of allocating new ones — this is how sketch generators
// give many repeated LUT/MUX/carry instantiations a single shared truth
// table (spec.md §8 Property 2).
type Data struct {
	ready bool
	leaf  wiring.Scope
	sub   []Data
	extra []ir.Expr
}

// NoRealizationError is returned when none of R1-R6 can realize the
// requested interface from the given architecture (spec.md §7).
type NoRealizationError struct {
	ID iface.ID
}

func (e *NoRealizationError) Error() string {
	return fmt.Sprintf("synth: no realization available for %s", e.ID)
}

// DepthExceededError guards against runaway fallback recursion (spec.md
// §9's open question on cyclic/divergent rule application).
type DepthExceededError struct {
	ID iface.ID
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("synth: depth limit exceeded realizing %s", e.ID)
}

// Synthesizer holds the architecture description and hole allocator for
// one synthesis session (spec.md §5: one Allocator per session, never
// shared across concurrent sessions).
type Synthesizer struct {
	Arch     arch.Description
	Alloc    *ir.Allocator
	MaxDepth int
}

// New creates a Synthesizer bound to d and alloc.
func New(d arch.Description, alloc *ir.Allocator) *Synthesizer {
	return &Synthesizer{Arch: d, Alloc: alloc, MaxDepth: defaultMaxDepth}
}

func (s *Synthesizer) maxDepth() int {
	if s.MaxDepth <= 0 {
		return defaultMaxDepth
	}

	return s.MaxDepth
}

// Realize produces the physical netlist and output projection for id,
// given a binding for its input ports. portMap must supply every input
// port iface.Lookup(id) names. Each call allocates its own fresh
// internal-data token; use RealizeShared to reuse one across calls.
func (s *Synthesizer) Realize(id iface.ID, portMap wiring.Scope) (Outputs, error) {
	var data Data
	return s.realize(id, portMap, &data, 0)
}

// RealizeShared is Realize, but threading an explicit internal-data
// token: a zero Data is filled in place on first use, and a previously
// filled Data is reused verbatim (no fresh holes are allocated), per
// spec.md §4.2's "internal_data, if supplied, MUST be the token returned
// from a previous call". Every call must request the same id and the
// same synthesis path (arch, port-map shape) as whichever call first
// populated data, or the reused holes will be wired to the wrong shape.
func (s *Synthesizer) RealizeShared(id iface.ID, portMap wiring.Scope, data *Data) (Outputs, error) {
	return s.realize(id, portMap, data, 0)
}

func (s *Synthesizer) realize(id iface.ID, portMap wiring.Scope, data *Data, depth int) (Outputs, error) {
	if depth > s.maxDepth() {
		return nil, &DepthExceededError{id}
	}

	if impl, ok := s.Arch.Lookup(id); ok {
		return s.realizeDirect(impl, portMap, data)
	}

	switch id.Kind {
	case iface.KindLUT:
		return s.realizeLUT(id, portMap, data, depth)
	case iface.KindMUX:
		if id.NumInputs() == 2 {
			return s.realizeMUX2(portMap, data, depth)
		}
	case iface.KindCarry:
		return s.realizeCarry(id, portMap, data, depth)
	}

	return nil, &NoRealizationError{id}
}

// realizeDirect is rule R1: instantiate the architecture's own module
// template for impl directly, threading port_map and internal_data
// through the wiring DSL.
func (s *Synthesizer) realizeDirect(impl arch.Implementation, portMap wiring.Scope, data *Data) (Outputs, error) {
	if !data.ready {
		leaf := make(wiring.Scope, len(impl.InternalData))

		for name, width := range impl.InternalData {
			leaf[name] = s.Alloc.Hole(width)
		}

		data.leaf = leaf
		data.ready = true
	}

	scope := portMap.Merge(data.leaf)

	ports := make([]ir.Port, 0, len(impl.Module.Ports))
	wires := make(map[string]ir.Expr)

	// Output ports can't be given a real Value until the instance exists
	// (their value is defined in terms of the instance itself), so each
	// gets a placeholder wire now and is unified with its actual
	// bit-range of the instance's combined output value below (spec.md
	// §9's cyclic-feedback pattern, here used for the ordinary
	// "instantiate, then read your own outputs back" case rather than a
	// true combinational cycle).
	for _, pt := range impl.Module.Ports {
		if pt.Direction == ir.Output {
			wire := ir.NewWire(pt.Width)
			wires[pt.Name] = wire
			ports = append(ports, ir.Port{
				Name:      pt.Name,
				Value:     wire,
				Direction: ir.Output,
				Width:     pt.Width,
			})

			continue
		}

		v, err := wiring.Eval(pt.Value, scope)
		if err != nil {
			return nil, fmt.Errorf("synth: realizing %s port %s: %w", impl.ID, pt.Name, err)
		}

		ports = append(ports, ir.Port{
			Name:      pt.Name,
			Value:     v,
			Direction: ir.Input,
			Width:     pt.Width,
		})
	}

	params := make([]ir.Param, 0, len(impl.Module.Params))

	for _, pt := range impl.Module.Params {
		v, err := wiring.Eval(pt.Value, scope)
		if err != nil {
			return nil, fmt.Errorf("synth: realizing %s parameter %s: %w", impl.ID, pt.Name, err)
		}

		params = append(params, ir.Param{Name: pt.Name, Value: v})
	}

	inst := ir.NewModuleInstance(impl.Module.ModuleName, ports, params, impl.Module.Filepath)

	// moduleInstTerm's own value is, by construction, the concatenation
	// of its output ports in declaration order (first output at the
	// most-significant end) — unify each output wire with its slice of
	// that combined value.
	var totalOutWidth uint
	for _, pt := range impl.Module.Ports {
		if pt.Direction == ir.Output {
			totalOutWidth += pt.Width
		}
	}

	hi := totalOutWidth
	physical := make(wiring.Scope, len(ports))

	for _, pt := range impl.Module.Ports {
		if pt.Direction != ir.Output {
			continue
		}

		lo := hi - pt.Width
		ir.Unify(wires[pt.Name], ir.Extract(inst, hi-1, lo))
		hi = lo

		physical[pt.Name] = wires[pt.Name]
	}

	out := make(Outputs, len(impl.OutputProjection))

	for name, node := range impl.OutputProjection {
		v, err := wiring.Eval(node, physical)
		if err != nil {
			return nil, fmt.Errorf("synth: realizing %s output %s: %w", impl.ID, name, err)
		}

		out[name] = v
	}

	return out, nil
}

// realizeLUT implements rules R2 and R3: derive LUT{k} from an
// architecture that does not implement it natively.
func (s *Synthesizer) realizeLUT(id iface.ID, portMap wiring.Scope, data *Data, depth int) (Outputs, error) {
	k := id.NumInputs()

	if wide := s.Arch.LUTsWiderThan(k); len(wide) > 0 {
		return s.realizeLUTFromWider(k, wide[0], portMap, data, depth)
	}

	if k >= 2 && len(s.Arch.LUTsNarrowerThan(k)) > 0 {
		return s.realizeLUTFromNarrower(id, portMap, data, depth)
	}

	return nil, &NoRealizationError{id}
}

// realizeLUTFromWider is rule R2: pad the unused high inputs of a wider
// native LUT with the constant 1 and realize that instead. wide is always
// the first implementation LUTsWiderThan(k) returns — spec.md §4.2 calls
// this choice out as "first wins, noted as a deliberate suboptimality",
// and the fixed declaration-order selection is load-bearing for
// internal-data reuse, so this never re-ranks candidates by arity. This is
// a single recursive sub-instance, so data is threaded straight through.
func (s *Synthesizer) realizeLUTFromWider(k uint, wide arch.Implementation, portMap wiring.Scope, data *Data, depth int) (Outputs, error) {
	m := wide.ID.NumInputs()

	wideMap := make(wiring.Scope, m)

	for i := uint(0); i < k; i++ {
		name := fmt.Sprintf("I%d", i)
		wideMap[name] = portMap[name]
	}

	for i := k; i < m; i++ {
		wideMap[fmt.Sprintf("I%d", i)] = ir.One1()
	}

	return s.realize(wide.ID, wideMap, data, depth+1)
}

// realizeLUTFromNarrower is rule R3: build LUT{k} from two independently
// configured LUT{k-1} instances, selected by the last input via a
// synthesized MUX2. The internal-data token is the 3-tuple spec.md §4.2
// describes (lut0_data, lut1_data, mux_data).
func (s *Synthesizer) realizeLUTFromNarrower(id iface.ID, portMap wiring.Scope, data *Data, depth int) (Outputs, error) {
	k := id.NumInputs()

	if !data.ready {
		data.sub = make([]Data, 3)
		data.ready = true
	}

	lowMap := make(wiring.Scope, k-1)
	for i := uint(0); i < k-1; i++ {
		name := fmt.Sprintf("I%d", i)
		lowMap[name] = portMap[name]
	}

	a0, err := s.realize(iface.LUT(k-1), lowMap, &data.sub[0], depth+1)
	if err != nil {
		return nil, err
	}

	a1, err := s.realize(iface.LUT(k-1), lowMap, &data.sub[1], depth+1)
	if err != nil {
		return nil, err
	}

	sel := portMap[fmt.Sprintf("I%d", k-1)]

	mux, err := s.realize(iface.MUX(2), wiring.Scope{"I0": a0["O"], "I1": a1["O"], "S": sel}, &data.sub[2], depth+1)
	if err != nil {
		return nil, err
	}

	return Outputs{"O": mux["O"]}, nil
}

// realizeMUX2 is rule R6: build a 2:1 multiplexer from a 3-input LUT,
// feeding the select into the LUT's third input.
func (s *Synthesizer) realizeMUX2(portMap wiring.Scope, data *Data, depth int) (Outputs, error) {
	lutMap := wiring.Scope{
		"I0": portMap["I0"],
		"I1": portMap["I1"],
		"I2": portMap["S"],
	}

	lut, err := s.realize(iface.LUT(3), lutMap, data, depth+1)
	if err != nil {
		return nil, err
	}

	return Outputs{"O": lut["O"]}, nil
}

// realizeCarry implements rules R4 and R5: derive carry{w} either by
// tiling an architecture's native carry cell of a different width (R4),
// or, if the architecture has no native carry cell at all, by building
// the chain a bit at a time out of LUT3 and MUX2 primitives (R5).
func (s *Synthesizer) realizeCarry(id iface.ID, portMap wiring.Scope, data *Data, depth int) (Outputs, error) {
	w := id.CarryWidth()

	if tile, ok := s.Arch.AnyCarryOtherThan(w); ok {
		return s.realizeCarryTiled(w, tile, portMap, data, depth)
	}

	return s.realizeCarryBitwise(w, portMap, data, depth)
}

// realizeCarryTiled is rule R4: chain ceil(w/c) instances of a native
// carry{c} cell, padding the final tile's unused DI/S bits with fresh
// (unconstrained) holes. Per spec.md's R4, every tile shares the *same*
// internal-data token (data.sub[0]) and the *same* padding holes
// (data.extra), so the solver programs exactly one carry{c} cell and
// replicates it across tiles.
func (s *Synthesizer) realizeCarryTiled(w uint, tile arch.Implementation, portMap wiring.Scope, data *Data, depth int) (Outputs, error) {
	c := tile.ID.CarryWidth()
	n := (w + c - 1) / c

	if !data.ready {
		data.sub = make([]Data, 1)
		data.extra = []ir.Expr{s.Alloc.Hole(1), s.Alloc.Hole(1)}
		data.ready = true
	}

	padDI, padS := data.extra[0], data.extra[1]

	di := portMap["DI"]
	sg := portMap["S"]
	ci := portMap["CI"]

	var lastCO ir.Expr

	outs := make([]ir.Expr, n)

	for i := uint(0); i < n; i++ {
		lo := i * c
		hi := lo + c
		if hi > w {
			hi = w
		}

		bits := hi - lo

		tileDI := ir.Extract(di, hi-1, lo)
		tileS := ir.Extract(sg, hi-1, lo)

		if bits < c {
			pad := c - bits
			tileDI = ir.Concat(ir.DupExtend(padDI, pad), tileDI)
			tileS = ir.Concat(ir.DupExtend(padS, pad), tileS)
		}

		var tileCI ir.Expr
		if i == 0 {
			tileCI = ci
		} else {
			tileCI = lastCO
		}

		res, err := s.realize(tile.ID, wiring.Scope{"CI": tileCI, "DI": tileDI, "S": tileS}, &data.sub[0], depth+1)
		if err != nil {
			return nil, err
		}

		lastCO = res["CO"]
		outs[i] = ir.Extract(res["O"], bits-1, 0)
	}

	reversed := make([]ir.Expr, n)
	for i, o := range outs {
		reversed[n-1-uint(i)] = o
	}

	return Outputs{"CO": lastCO, "O": ir.Concat(reversed...)}, nil
}

// realizeCarryBitwise is rule R5: construct carry{w} one bit at a time.
// Each stage's sum is an independently configured LUT3 over (DI_i, S_i,
// CI_i); each stage's carry-out is the classic propagate/generate mux
// CO_i = S_i ? DI_i : CI_i, realized through whatever MUX2 this
// architecture resolves to. Per spec.md's "internal-data is a nested pair
// tree matching the recursion", each bit position gets its own
// independent sum/carry token rather than sharing one across the chain.
func (s *Synthesizer) realizeCarryBitwise(w uint, portMap wiring.Scope, data *Data, depth int) (Outputs, error) {
	di := portMap["DI"]
	sg := portMap["S"]
	ci := portMap["CI"]

	if !data.ready {
		data.sub = make([]Data, 2*w)
		data.ready = true
	}

	curCI := ci
	sums := make([]ir.Expr, w)

	for i := uint(0); i < w; i++ {
		diBit := ir.Bit(di, i)
		sBit := ir.Bit(sg, i)

		sum, err := s.realize(iface.LUT(3), wiring.Scope{"I0": diBit, "I1": sBit, "I2": curCI}, &data.sub[2*i], depth+1)
		if err != nil {
			return nil, err
		}

		co, err := s.realize(iface.MUX(2), wiring.Scope{"I0": curCI, "I1": diBit, "S": sBit}, &data.sub[2*i+1], depth+1)
		if err != nil {
			return nil, err
		}

		sums[i] = sum["O"]
		curCI = co["O"]
	}

	reversed := make([]ir.Expr, w)
	for i, e := range sums {
		reversed[w-1-uint(i)] = e
	}

	return Outputs{"CO": curCI, "O": ir.Concat(reversed...)}, nil
}
