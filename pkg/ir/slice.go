package ir

import (
	"fmt"
	"strings"
)

// ============================================================================
// Extract
// ============================================================================

// extractTerm represents the bit-range [hi:lo] of another term, inclusive on
// both ends.
type extractTerm struct {
	arg    Term
	hi, lo uint
}

func (e *extractTerm) Width() uint { return e.hi - e.lo + 1 }

func (e *extractTerm) lisp() string {
	return fmt.Sprintf("(extract %d %d %s)", e.hi, e.lo, e.arg.lisp())
}

// Extract constructs the bit-range [hi:lo] of e (hi and lo inclusive, hi >=
// lo, hi < e.Width()).
func Extract(e Expr, hi, lo uint) Expr {
	if lo > hi {
		widthMismatch("extract", hi, lo)
	}

	if hi >= e.Width() {
		widthMismatch("extract", hi, e.Width())
	}

	return Expr{&extractTerm{e.term, hi, lo}}
}

// Bit projects out a single bit of e, equivalent to Extract(e, i, i).
func Bit(e Expr, i uint) Expr { return Extract(e, i, i) }

// ============================================================================
// Concat
// ============================================================================

// concatTerm represents the concatenation of two or more terms, ordered
// most-significant-first (i.e. args[0] occupies the top bits).
type concatTerm struct {
	args  []Term
	width uint
}

func (c *concatTerm) Width() uint { return c.width }

func (c *concatTerm) lisp() string {
	parts := make([]string, len(c.args))
	for i, a := range c.args {
		parts[i] = a.lisp()
	}

	return fmt.Sprintf("(concat %s)", strings.Join(parts, " "))
}

// Concat concatenates two or more expressions, most-significant first.
func Concat(es ...Expr) Expr {
	if len(es) < 1 {
		panic("ir: concat requires at least one argument")
	}

	terms := make([]Term, len(es))

	var width uint

	for i, e := range es {
		terms[i] = e.term
		width += e.Width()
	}

	if len(es) == 1 {
		return es[0]
	}

	return Expr{&concatTerm{terms, width}}
}
