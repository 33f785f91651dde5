package ir

import "github.com/runec/rnc/internal/types"

// Symbol is an interned name with an optional attached type. Two symbols
// with the same text are identical (reference equality) — spec.md §3.1.
// Symbols are created process-wide and never freed, grounded on the
// teacher's Symbol table pattern (internal/symbols/symbol_table_core.go)
// generalized from a scoped table to a single global intern pool, as the
// spec requires ("created process-wide and never freed").
type Symbol struct {
	Name string
	Type types.Type
}

// Interner holds the process-wide symbol pool. A single package-level
// instance (Interned) is used throughout the compiler; tests that need
// isolation construct their own Interner.
type Interner struct {
	table map[string]*Symbol
}

// NewInterner constructs an empty interner.
func NewInterner() *Interner {
	return &Interner{table: make(map[string]*Symbol)}
}

// Intern returns the canonical *Symbol for name, creating it on first use.
func (in *Interner) Intern(name string) *Symbol {
	if s, ok := in.table[name]; ok {
		return s
	}
	s := &Symbol{Name: name}
	in.table[name] = s
	return s
}

// Lookup returns the existing symbol for name without creating one.
func (in *Interner) Lookup(name string) (*Symbol, bool) {
	s, ok := in.table[name]
	return s, ok
}

// Interned is the process-wide interner (spec.md §3.1: "created
// process-wide and never freed").
var Interned = NewInterner()

// Intern is a convenience wrapper around Interned.Intern.
func Intern(name string) *Symbol { return Interned.Intern(name) }
