package ir

import (
	"fmt"
	"strings"
)

// Direction distinguishes an input port (driven by the caller) from an
// output port (driven by the instantiated primitive).
type Direction int

const (
	// Input marks a port whose value flows into the primitive.
	Input Direction = iota
	// Output marks a port whose value flows out of the primitive.
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}

	return "output"
}

// Port is a single named connection of a hardware-module instance, per
// spec.md §3: (name, value expression, direction, width). For an input
// port, Value is the expression driving it; for an output port, Value is
// the symbolic value appearing on that pin (pkg/synth uses a wire unified
// with that port's slice of the instance's own value).
type Port struct {
	Name      string
	Value     Expr
	Direction Direction
	Width     uint
}

// Param is a single named, compile-time-constant parameter binding of a
// hardware-module instance, per spec.md §3.
type Param struct {
	Name  string
	Value Expr
}

// moduleInstTerm represents one concrete instantiation of an architecture
// primitive (e.g. "LUT4", "CCU2C", "frac_lut4").
type moduleInstTerm struct {
	moduleName string
	ports      []Port
	params     []Param
	filepath   string
	width      uint
}

func (m *moduleInstTerm) Width() uint { return m.width }

func (m *moduleInstTerm) lisp() string {
	parts := make([]string, 0, len(m.ports)+len(m.params)+1)
	parts = append(parts, m.moduleName)

	for _, p := range m.ports {
		if p.Direction == Output {
			// An output port's value may refer back to this very instance,
			// so only its name is printed.
			parts = append(parts, fmt.Sprintf("(%s %s)", p.Direction, p.Name))
			continue
		}

		parts = append(parts, fmt.Sprintf("(%s %s %s)", p.Direction, p.Name, p.Value.term.lisp()))
	}

	for _, p := range m.params {
		parts = append(parts, fmt.Sprintf("(param %s %s)", p.Name, p.Value.term.lisp()))
	}

	return fmt.Sprintf("(instance %s)", strings.Join(parts, " "))
}

// NewModuleInstance constructs a hardware-module-instance expression: the
// concrete netlist node produced by rule R1 of the interface synthesizer.
// Every port's Value expression must already have the width declared on
// the Port itself (spec.md §3's invariant).
func NewModuleInstance(moduleName string, ports []Port, params []Param, filepath string) Expr {
	var outWidth uint

	for _, p := range ports {
		if p.Value.Width() != p.Width {
			widthMismatch(fmt.Sprintf("module instance %s port %s", moduleName, p.Name), p.Width, p.Value.Width())
		}

		if p.Direction == Output {
			outWidth += p.Width
		}
	}

	cp := make([]Port, len(ports))
	copy(cp, ports)
	cq := make([]Param, len(params))
	copy(cq, params)

	return Expr{&moduleInstTerm{moduleName, cp, cq, filepath, outWidth}}
}

// ModuleInstanceOf returns the underlying module-instance data if e is one,
// or ok=false otherwise.
func ModuleInstanceOf(e Expr) (name string, ports []Port, params []Param, filepath string, ok bool) {
	m, is := e.term.(*moduleInstTerm)
	if !is {
		return "", nil, nil, "", false
	}

	return m.moduleName, m.ports, m.params, m.filepath, true
}

// OutputPort returns the Port named name from a module-instance expression.
func OutputPort(e Expr, name string) (Port, bool) {
	m, ok := e.term.(*moduleInstTerm)
	if !ok {
		return Port{}, false
	}

	for _, p := range m.ports {
		if p.Name == name && p.Direction == Output {
			return p, true
		}
	}

	return Port{}, false
}
