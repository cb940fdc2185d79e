package wiring

import (
	"fmt"

	"github.com/uwsampl/churchroad/pkg/ir"
)

// UnresolvedSymbolError is returned when a wiring-DSL template references a
// symbol that is bound in neither the port map nor the internal-data map
// (spec.md §7: "Wiring-DSL free variable unresolved ... fatal with
// diagnostic naming the symbol").
type UnresolvedSymbolError struct {
	Name string
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("wiring: unresolved symbol %q", e.Name)
}

// Scope is the resolution environment for a wiring-DSL term: the union of
// a caller-supplied port map and an interface implementation's
// internal-data map, as described in spec.md's R1 realization algorithm.
type Scope map[string]ir.Expr

// Merge returns a new Scope containing every binding of s, plus every
// binding of other whose name s does not already bind — used to build {port_map} ∪
// {internal_data} per R1 step 2, with port_map resolved first.
func (s Scope) Merge(other Scope) Scope {
	out := make(Scope, len(s)+len(other))

	for k, v := range other {
		out[k] = v
	}

	for k, v := range s {
		out[k] = v
	}

	return out
}

// Eval resolves a parsed wiring-DSL term against scope, producing a
// width-checked pkg/ir expression.
func Eval(n Node, scope Scope) (ir.Expr, error) {
	switch t := n.(type) {
	case BV:
		return ir.ConstU(t.Value, t.Width), nil
	case BitProj:
		arg, err := Eval(t.Arg, scope)
		if err != nil {
			return ir.Expr{}, err
		}

		return ir.Bit(arg, t.Index), nil
	case ConcatNode:
		args := make([]ir.Expr, len(t.Args))

		for i, a := range t.Args {
			e, err := Eval(a, scope)
			if err != nil {
				return ir.Expr{}, err
			}

			args[i] = e
		}

		return ir.Concat(args...), nil
	case Symbol:
		v, ok := scope[t.Name]
		if !ok {
			return ir.Expr{}, &UnresolvedSymbolError{t.Name}
		}

		return v, nil
	default:
		return ir.Expr{}, fmt.Errorf("wiring: unknown node type %T", n)
	}
}

// EvalString parses and evaluates a wiring-DSL surface-form string in one
// step.
func EvalString(text string, scope Scope) (ir.Expr, error) {
	n, err := Parse(text)
	if err != nil {
		return ir.Expr{}, err
	}

	return Eval(n, scope)
}
