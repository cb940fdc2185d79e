package ir

import "fmt"

// ============================================================================
// Multiplexer
// ============================================================================

// muxTerm represents a 2-to-1 multiplexer: sel must be 1 bit wide, and the
// two branches must share a width (which becomes the mux's own width).
type muxTerm struct {
	sel, whenTrue, whenFalse Term
	width                    uint
}

func (m *muxTerm) Width() uint { return m.width }

func (m *muxTerm) lisp() string {
	return fmt.Sprintf("(mux %s %s %s)", m.sel.lisp(), m.whenTrue.lisp(), m.whenFalse.lisp())
}

// Mux constructs a multiplexer selecting whenTrue when sel is 1, and
// whenFalse when sel is 0. sel must be 1 bit wide; whenTrue and whenFalse
// must share a width.
func Mux(sel, whenTrue, whenFalse Expr) Expr {
	if sel.Width() != 1 {
		widthMismatch("mux selector", sel.Width())
	}

	w := requireSameWidth("mux branches", whenTrue, whenFalse)

	return Expr{&muxTerm{sel.term, whenTrue.term, whenFalse.term, w}}
}

// ============================================================================
// Register
// ============================================================================

// regTerm represents a clocked register with an explicit reset value and a
// next-state expression; reset and next must share a width. Sketch
// generators in this repository are purely combinational (per spec.md's
// Non-goals), so Reg exists to keep the IR a complete hardware-design
// language for the broader (out-of-scope) front-end/interpreter, but is
// never emitted by pkg/synth or pkg/sketch themselves.
type regTerm struct {
	reset, next Term
	width       uint
}

func (r *regTerm) Width() uint { return r.width }

func (r *regTerm) lisp() string {
	return fmt.Sprintf("(reg %s %s)", r.reset.lisp(), r.next.lisp())
}

// Reg constructs a register whose value on reset is `reset` and whose
// value on each subsequent cycle is `next` (both must share a width).
func Reg(reset, next Expr) Expr {
	w := requireSameWidth("reg", reset, next)
	return Expr{&regTerm{reset.term, next.term, w}}
}

// ============================================================================
// Extension
// ============================================================================

// extendTerm widens an argument to a larger width either by zero-extension
// or by "dup-extend" (replicating the most-significant bit, sign-like
// extension), per spec.md §4.3's two extension modes.
type extendTerm struct {
	arg      Term
	toWidth  uint
	dup      bool
}

func (e *extendTerm) Width() uint { return e.toWidth }

func (e *extendTerm) lisp() string {
	op := "zext"
	if e.dup {
		op = "dupext"
	}

	return fmt.Sprintf("(%s %d %s)", op, e.toWidth, e.arg.lisp())
}

// ZeroExtend widens e to toWidth bits, filling the new high bits with 0.
func ZeroExtend(e Expr, toWidth uint) Expr {
	if toWidth < e.Width() {
		widthMismatch("zero-extend", toWidth, e.Width())
	}

	if toWidth == e.Width() {
		return e
	}

	return Expr{&extendTerm{e.term, toWidth, false}}
}

// DupExtend widens e to toWidth bits by replicating e's most-significant
// bit into the new high bits (sign-like extension).
func DupExtend(e Expr, toWidth uint) Expr {
	if toWidth < e.Width() {
		widthMismatch("dup-extend", toWidth, e.Width())
	}

	if toWidth == e.Width() {
		return e
	}

	return Expr{&extendTerm{e.term, toWidth, true}}
}

// Extend widens e to toWidth bits using zero-extension or dup-extension
// depending on dup, matching the boolean-hole-selected choice of
// spec.md §4.3 ("the choice per input is a boolean hole").
func Extend(e Expr, toWidth uint, dup bool) Expr {
	if dup {
		return DupExtend(e, toWidth)
	}

	return ZeroExtend(e, toWidth)
}
