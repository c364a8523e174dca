// Package types implements the spec's interned Type pool (spec §3, §4.3):
// a process-local pool where equal types collapse to the same pointer, so
// later phases can compare types by identity instead of deep equality.
package types

import (
	"fmt"
	"strings"
	"sync"
)

// Primitive base names; anything else is a class name.
const (
	Int     = "int"
	Char    = "char"
	Boolean = "boolean"
	Void    = "void"

	// Null is a synthetic base used only for the KeywordLit(null) literal;
	// it unifies with any class type during checking (spec §9 Open
	// Questions) but is never itself a declarable variable type.
	Null = "@null"
)

// Type is the structural record from spec §3: a base name plus, for the
// Array<T> display form, its generic arguments. Two Types compare equal
// structurally iff Equal reports true; once interned, equal Types share
// one *Type, so == on pointers is the fast path later phases use.
type Type struct {
	Base     string
	Generics []*Type
}

func (t *Type) String() string {
	if len(t.Generics) == 0 {
		return t.Base
	}
	parts := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		parts[i] = g.String()
	}
	return fmt.Sprintf("%s<%s>", t.Base, strings.Join(parts, ", "))
}

// IsPrimitive reports whether this is one of int/char/boolean/void.
func (t *Type) IsPrimitive() bool {
	switch t.Base {
	case Int, Char, Boolean, Void:
		return true
	default:
		return false
	}
}

// hashKey produces the interning key for (base, generics). Per spec §3,
// Array<T> is equivalent to Array for checking purposes, so the key is the
// base name alone: generics are dropped for interning/equality and only
// the display form (String) retains them.
func hashKey(base string, generics []*Type) string {
	return base
}

// Registry is the process-local interning pool. Safe for concurrent use:
// the parse phase may intern types from multiple file-parsing goroutines
// concurrently (spec §5: "if shared, it must be lock-protected").
type Registry struct {
	mu   sync.Mutex
	pool map[string]*Type
}

// New returns a Registry pre-seeded with the four primitive types and the
// Null sentinel, so every caller observes the same *Type for "int",
// "char", etc.
func New() *Registry {
	r := &Registry{pool: make(map[string]*Type)}
	for _, base := range []string{Int, Char, Boolean, Void, Null} {
		r.pool[base] = &Type{Base: base}
	}
	return r
}

// GetOrCreate returns the canonical, interned *Type for (base, generics),
// creating and storing one if this is the first time it's been seen. The
// generics slice itself must already contain interned *Type pointers
// (callers intern nested types bottom-up).
func (r *Registry) GetOrCreate(base string, generics ...*Type) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := hashKey(base, generics)
	if existing, ok := r.pool[key]; ok {
		// Array<Foo> and Array<Bar> share the canonical "Array" pointer
		// per spec §3/§9, but we still want String() to show the
		// generics the caller asked for display-wise; since interning
		// collapses all generic instantiations to one Type, the first
		// caller's display form wins. This mirrors the spec's "kept
		// that way here" note on Array<T> under Open Questions.
		return existing
	}

	t := &Type{Base: base, Generics: generics}
	r.pool[key] = t
	return t
}

// Equal reports whether two interned types unify for checking purposes:
// identical pointers, or the Null sentinel against any non-primitive
// (class) type (spec §9: "null unifies with any class type").
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Base == Null && !b.IsPrimitive() {
		return true
	}
	if b.Base == Null && !a.IsPrimitive() {
		return true
	}
	return false
}
