package ir

import "github.com/runec/rnc/internal/types"

// ScopeEntry records one symbol's resolution within a Scope (spec.md
// §3.2 "identifier scope").
type ScopeEntry struct {
	Type            types.Type
	BindingInstance bool // true at the declaring occurrence
	IsParameter     bool
	FirstInstance   bool // true the first time this symbol was seen in this scope
	IsLocal         bool
}

// Scope is a per-function nested scope mapping symbol to its resolution.
// Declaring the same symbol twice within one scope treats the first
// occurrence as the declaration (BindingInstance, FirstInstance) and
// every subsequent occurrence as a use (spec.md §3.2).
type Scope struct {
	Parent  *Scope // non-owning; enclosing function/block scope
	entries map[*Symbol]*ScopeEntry
}

// NewScope constructs a scope nested inside parent (nil for a function's
// outermost scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, entries: make(map[*Symbol]*ScopeEntry)}
}

// Declare records sym's first occurrence in this scope as a declaration.
// If sym was already declared in this exact scope, the existing entry is
// returned unchanged (the caller is re-declaring; spec.md treats the
// first occurrence as authoritative).
func (s *Scope) Declare(sym *Symbol, t types.Type, isParameter, isLocal bool) *ScopeEntry {
	if e, ok := s.entries[sym]; ok {
		return e
	}
	e := &ScopeEntry{Type: t, BindingInstance: true, IsParameter: isParameter, FirstInstance: true, IsLocal: isLocal}
	s.entries[sym] = e
	return e
}

// Use resolves sym as a non-binding occurrence, searching this scope and
// enclosing scopes outward. Returns (entry, true) if found anywhere in
// the chain.
func (s *Scope) Use(sym *Symbol) (*ScopeEntry, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if e, ok := sc.entries[sym]; ok {
			return e, true
		}
	}
	return nil, false
}

// LocalEntry returns sym's entry if it was declared directly in this
// scope (not an ancestor), without walking the parent chain.
func (s *Scope) LocalEntry(sym *Symbol) (*ScopeEntry, bool) {
	e, ok := s.entries[sym]
	return e, ok
}
