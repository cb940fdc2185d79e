package ir

import (
	"fmt"
	"strings"
)

// ============================================================================
// Equality
// ============================================================================

// eqTerm represents the pairwise (boolean) equality of two equal-width
// terms; its own width is always 1.
type eqTerm struct{ lhs, rhs Term }

func (e *eqTerm) Width() uint { return 1 }

func (e *eqTerm) lisp() string {
	return fmt.Sprintf("(eq %s %s)", e.lhs.lisp(), e.rhs.lisp())
}

// Eq constructs a 1-bit expression which is 1 iff lhs and rhs (which must
// share a width) are equal.
func Eq(lhs, rhs Expr) Expr {
	requireSameWidth("eq", lhs, rhs)
	return Expr{&eqTerm{lhs.term, rhs.term}}
}

// ============================================================================
// Bitwise Or / And
// ============================================================================

// orTerm/andTerm represent n-ary bitwise connectives over equal-width
// operands (width 1 in the common "boolean" case, but not restricted to
// it — a bitwise OR/AND over wider operands is just as well-formed).
type orTerm struct {
	args  []Term
	width uint
}

func (o *orTerm) Width() uint { return o.width }

func (o *orTerm) lisp() string { return joinPrefix("or", o.args) }

type andTerm struct {
	args  []Term
	width uint
}

func (a *andTerm) Width() uint { return a.width }

func (a *andTerm) lisp() string { return joinPrefix("and", a.args) }

func joinPrefix(op string, args []Term) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.lisp()
	}

	return fmt.Sprintf("(%s %s)", op, strings.Join(parts, " "))
}

// Or constructs the bitwise OR of two or more equal-width expressions.
func Or(es ...Expr) Expr {
	w := requireSameWidth("or", es...)
	return Expr{&orTerm{asTerms(es), w}}
}

// And constructs the bitwise AND of two or more equal-width expressions.
func And(es ...Expr) Expr {
	w := requireSameWidth("and", es...)
	return Expr{&andTerm{asTerms(es), w}}
}

// OrReduce constructs the 1-bit OR-reduction of all bits of e — the
// construct spec.md §4.3.5 needs for barrel-shift overshift detection.
// It is expressed here purely as an IR tree; the shift sketch generator
// realizes it concretely via a chain of synthesized LUT2 instances rather
// than this node directly (see pkg/sketch).
func OrReduce(e Expr) Expr {
	w := e.Width()
	if w == 1 {
		return e
	}

	bits := make([]Expr, w)
	for i := uint(0); i < w; i++ {
		bits[i] = Bit(e, i)
	}

	return Or(bits...)
}

func asTerms(es []Expr) []Term {
	terms := make([]Term, len(es))
	for i, e := range es {
		terms[i] = e.term
	}

	return terms
}
