package ir

import (
	"fmt"
	"strings"
)

// ============================================================================
// Hash map
// ============================================================================

// mapEntry pairs a symbolic key term with its bound value term.
type mapEntry struct {
	key, value Term
}

// mapLitTerm represents an (insertion-ordered) hash-map literal mapping
// symbolic keys to expressions. pkg/synth does not build these: rule R1
// returns its per-output projections as a Go map (synth.Outputs) instead.
// A map literal has no single "width"; Width reports the
// number of entries, which is sufficient for the internal sanity checks
// this repository performs and mirrors the "it's a bag of named results"
// nature of the construct.
type mapLitTerm struct{ entries []mapEntry }

func (m *mapLitTerm) Width() uint { return uint(len(m.entries)) }

func (m *mapLitTerm) lisp() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = fmt.Sprintf("(%s %s)", e.key.lisp(), e.value.lisp())
	}

	return fmt.Sprintf("(hashmap %s)", strings.Join(parts, " "))
}

// MapLit constructs a hash-map literal from parallel key/value slices
// (which must have equal length).
func MapLit(keys, values []Expr) Expr {
	if len(keys) != len(values) {
		panic("ir: hashmap literal key/value length mismatch")
	}

	entries := make([]mapEntry, len(keys))
	for i := range keys {
		entries[i] = mapEntry{keys[i].term, values[i].term}
	}

	return Expr{&mapLitTerm{entries}}
}

// NamedMapLit constructs a hash-map literal keyed by string symbols (the
// common case: interface output names projected from a module instance).
func NamedMapLit(names []string, values []Expr) Expr {
	keys := make([]Expr, len(names))
	for i, n := range names {
		keys[i] = Var(n, 1)
	}

	return MapLit(keys, values)
}

// mapLookupTerm represents looking up a key's bound value within a
// hash-map literal.
type mapLookupTerm struct {
	m, key Term
	width  uint
}

func (l *mapLookupTerm) Width() uint { return l.width }

func (l *mapLookupTerm) lisp() string {
	return fmt.Sprintf("(lookup %s %s)", l.m.lisp(), l.key.lisp())
}

// MapLookup retrieves the value bound to name within a MapLit previously
// constructed with NamedMapLit, statically resolving the result width.
func MapLookup(m Expr, name string) Expr {
	lit, ok := m.term.(*mapLitTerm)
	if !ok {
		panic("ir: map lookup on non-hashmap expression")
	}

	for _, e := range lit.entries {
		if v, ok := e.key.(*varTerm); ok && v.name == name {
			return Expr{&mapLookupTerm{m.term, e.key, e.value.Width()}}
		}
	}

	panic(fmt.Sprintf("ir: hashmap has no entry %q", name))
}

// ============================================================================
// List
// ============================================================================

// listLitTerm represents a list literal of zero or more (not necessarily
// equal-width) elements.
type listLitTerm struct{ elems []Term }

func (l *listLitTerm) Width() uint { return uint(len(l.elems)) }

func (l *listLitTerm) lisp() string {
	parts := make([]string, len(l.elems))
	for i, e := range l.elems {
		parts[i] = e.lisp()
	}

	return fmt.Sprintf("(list %s)", strings.Join(parts, " "))
}

// ListLit constructs a list literal from the given elements.
func ListLit(elems ...Expr) Expr {
	terms := make([]Term, len(elems))
	for i, e := range elems {
		terms[i] = e.term
	}

	return Expr{&listLitTerm{terms}}
}

// listIndexTerm represents indexing into a list literal at a known,
// compile-time constant position.
type listIndexTerm struct {
	list  Term
	index uint
	width uint
}

func (l *listIndexTerm) Width() uint { return l.width }

func (l *listIndexTerm) lisp() string {
	return fmt.Sprintf("(index %d %s)", l.index, l.list.lisp())
}

// ListIndex retrieves the element at position i of a ListLit expression.
func ListIndex(list Expr, i uint) Expr {
	lit, ok := list.term.(*listLitTerm)
	if !ok {
		panic("ir: list index on non-list expression")
	}

	if i >= uint(len(lit.elems)) {
		panic(fmt.Sprintf("ir: list index %d out of range (len %d)", i, len(lit.elems)))
	}

	elem := lit.elems[i]

	w, ok := elem.(interface{ Width() uint })
	if !ok {
		panic("ir: list element has no width")
	}

	return Expr{&listIndexTerm{lit, i, w.Width()}}
}
