package ir

import "fmt"

// ============================================================================
// Holes
// ============================================================================

// holeTerm is a symbolic placeholder ("hole") allocated by an Allocator:
// LUT truth-table bits, mux selectors, carry padding bits and the like. It
// is a distinct Go type from varTerm, which is what lets callers tell a
// solver-filled hole apart from a user-declared free variable purely by
// inspecting an expression's shape (spec.md §4.1) — no side-table of
// pointer identities is required.
type holeTerm struct {
	id      uint64
	width   uint
	boolean bool
}

func (h *holeTerm) Width() uint { return h.width }

func (h *holeTerm) lisp() string {
	if h.boolean {
		return fmt.Sprintf("?b%d", h.id)
	}

	return fmt.Sprintf("?h%d[%d]", h.id, h.width)
}

// IsHole reports whether e was produced by an Allocator, as opposed to
// being a user-declared Var.
func IsHole(e Expr) bool {
	_, ok := e.term.(*holeTerm)
	return ok
}

// IsBoolHole reports whether e is specifically a boolean hole.
func IsBoolHole(e Expr) bool {
	h, ok := e.term.(*holeTerm)
	return ok && h.boolean
}

// HoleID returns the allocation-order identifier of a hole expression,
// panicking if e is not a hole. Two holes compare equal (same id) iff they
// were produced by the very same Allocator call.
func HoleID(e Expr) uint64 {
	h, ok := e.term.(*holeTerm)
	if !ok {
		panic("ir: HoleID of non-hole expression")
	}

	return h.id
}

// Allocator is the "ambient allocator" of spec.md §5: it owns fresh
// symbolic bit-vector and boolean hole allocation for a single synthesis
// session. Allocation is totally ordered within the session and has
// observable identity (distinct holes never compare equal), matching the
// single-threaded, no-suspension-points concurrency model of §5. Parallel
// sessions must each own a disjoint Allocator; Allocator itself performs
// no synchronisation.
type Allocator struct {
	next  uint64
	holes []Expr
}

// NewAllocator constructs a fresh, empty Allocator for one synthesis
// session.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Hole allocates a fresh symbolic bit-vector of the given width.
func (a *Allocator) Hole(width uint) Expr {
	if width == 0 {
		panic("ir: zero-width hole")
	}

	e := Expr{&holeTerm{a.next, width, false}}
	a.next++
	a.holes = append(a.holes, e)

	return e
}

// BoolHole allocates a fresh symbolic boolean (1-bit) hole.
func (a *Allocator) BoolHole() Expr {
	e := Expr{&holeTerm{a.next, 1, true}}
	a.next++
	a.holes = append(a.holes, e)

	return e
}

// Holes returns every hole allocated by this Allocator so far, in
// allocation order. This is the set over which a solver existentially
// quantifies (spec.md §4.1: "∀ free-variables. ∃ holes. spec ≡ sketch").
func (a *Allocator) Holes() []Expr {
	out := make([]Expr, len(a.holes))
	copy(out, a.holes)

	return out
}

// Len reports how many holes this Allocator has produced so far.
func (a *Allocator) Len() int { return len(a.holes) }

// ============================================================================
// Wires (cyclic feedback placeholders)
// ============================================================================

// wireTerm is a placeholder used to express combinational feedback: a wire
// is declared, referenced while building the rest of the tree, and later
// unified with its defining expression. Per spec.md §9's design note, this
// is implemented as an arena slot (a single-element indirection cell)
// rather than runtime pointer surgery on the tree: resolving a wire just
// means following w.resolved, which Unify sets exactly once.
type wireTerm struct {
	width    uint
	resolved Term
}

func (w *wireTerm) Width() uint { return w.width }

func (w *wireTerm) lisp() string {
	if w.resolved == nil {
		return "<unresolved-wire>"
	}

	return w.resolved.lisp()
}

// NewWire declares a placeholder expression of the given width. It must be
// passed to Unify exactly once before the tree containing it is evaluated,
// printed, or otherwise consumed.
func NewWire(width uint) Expr {
	if width == 0 {
		panic("ir: zero-width wire")
	}

	return Expr{&wireTerm{width: width}}
}

// Unify binds a previously declared wire to its defining expression, which
// must share the wire's width. Unifying the same wire twice panics: a wire
// may be garbage collected (in the Go sense — simply dropped) once
// unification is complete, but it is not "reassignable".
func Unify(wire, defn Expr) {
	w, ok := wire.term.(*wireTerm)
	if !ok {
		panic("ir: Unify called on a non-wire expression")
	}

	if w.resolved != nil {
		panic("ir: wire already unified")
	}

	if defn.Width() != w.width {
		widthMismatch("wire unification", w.width, defn.Width())
	}

	w.resolved = defn.term
}
