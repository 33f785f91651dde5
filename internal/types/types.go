// Package types implements the closed algebraic type-variant set from
// spec.md §3.3 and the unification engine from §4.3, grounded on the
// teacher's internal/typesystem package (types.go, unify.go, replace.go).
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface implemented by every member of the closed type
// variant set (spec.md §3.3).
type Type interface {
	String() string
	// FreeVars returns the free type-variable ids occurring in the type,
	// deduplicated, in first-occurrence order.
	FreeVars() []int
}

// Var is Var(id, optional-constraint). Positive ids come from user-source
// occurrences, negative ids from scheme openings (spec.md §3.3).
type Var struct {
	ID         int
	Constraint Type // nil if unconstrained
}

func (v Var) String() string {
	if v.Constraint != nil {
		return fmt.Sprintf("t%d:%s", v.ID, v.Constraint.String())
	}
	return fmt.Sprintf("t%d", v.ID)
}
func (v Var) FreeVars() []int { return []int{v.ID} }

// Int is Int(signed, width): a concrete fixed-width integer type.
type Int struct {
	Signed bool
	Width  int
}

func (t Int) String() string {
	if t.Signed {
		return fmt.Sprintf("i%d", t.Width)
	}
	return fmt.Sprintf("u%d", t.Width)
}
func (t Int) FreeVars() []int { return nil }

// AnyInt is AnyInt(signed): the top element of the integer width lattice
// for a fixed signedness (spec.md §3.3 invariant).
type AnyInt struct {
	Signed bool
}

func (t AnyInt) String() string {
	if t.Signed {
		return "anyint"
	}
	return "anyuint"
}
func (t AnyInt) FreeVars() []int { return nil }

// Float is Float(width): width is 32 or 64.
type Float struct {
	Width int
}

func (t Float) String() string { return fmt.Sprintf("f%d", t.Width) }
func (t Float) FreeVars() []int { return nil }

// Bool is the boolean type. Not listed as its own algebraic variant in
// spec.md §3.3, but required by the operator schemes of §4.3 (logical
// and relational operators return bool); modeled as a zero-parameter
// TypeName so it stays inside the closed variant set rather than adding a
// new Go type the spec doesn't name.
func Bool() Type { return TypeName{Name: "bool"} }

// StringT is the string type, likewise modeled as a TypeName.
func StringT() Type { return TypeName{Name: "string"} }

// TypeName is TypeName(symbol, optional-params): a nominal type,
// optionally parameterized (structs, enums, choice aliases declared by
// name in source).
type TypeName struct {
	Name   string
	Params []Type
}

func (t TypeName) String() string {
	if len(t.Params) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}
func (t TypeName) FreeVars() []int {
	var vars []int
	for _, p := range t.Params {
		vars = append(vars, p.FreeVars()...)
	}
	return uniqueInts(vars)
}

// Array is Array(elem).
type Array struct {
	Elem Type
}

func (t Array) String() string   { return fmt.Sprintf("array<%s>", t.Elem.String()) }
func (t Array) FreeVars() []int { return t.Elem.FreeVars() }

// Choice is Choice([T]): a union-of-types constraint set. A Choice with
// one element behaves identically to that element; NewChoice folds
// singletons (spec.md §3.3 invariant).
type Choice struct {
	Members []Type
}

// NewChoice normalizes: flattens nested choices, dedups by String(), and
// folds a singleton result down to the element itself.
func NewChoice(members ...Type) Type {
	var flat []Type
	for _, m := range members {
		if c, ok := m.(Choice); ok {
			flat = append(flat, c.Members...)
		} else {
			flat = append(flat, m)
		}
	}
	seen := make(map[string]bool)
	var uniq []Type
	for _, m := range flat {
		s := m.String()
		if !seen[s] {
			seen[s] = true
			uniq = append(uniq, m)
		}
	}
	if len(uniq) == 1 {
		return uniq[0]
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].String() < uniq[j].String() })
	return Choice{Members: uniq}
}

func (t Choice) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, "|")
}
func (t Choice) FreeVars() []int {
	var vars []int
	for _, m := range t.Members {
		vars = append(vars, m.FreeVars()...)
	}
	return uniqueInts(vars)
}

// Tuple is Tuple([T]); field order is significant.
type Tuple struct {
	Elems []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
func (t Tuple) FreeVars() []int {
	var vars []int
	for _, e := range t.Elems {
		vars = append(vars, e.FreeVars()...)
	}
	return uniqueInts(vars)
}

// StructField is one (field-name, T) pair of a Struct. Order is
// significant (spec.md §3.3 invariant).
type StructField struct {
	Name string
	Type Type
}

// Struct is Struct([(field-name, T)]).
type Struct struct {
	Fields []StructField
}

func (t Struct) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
func (t Struct) FreeVars() []int {
	var vars []int
	for _, f := range t.Fields {
		vars = append(vars, f.Type.FreeVars()...)
	}
	return uniqueInts(vars)
}

// FieldIndex returns the position of name in the struct, or -1.
func (t Struct) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Function is Function(param, result). Multi-parameter functions
// represent Param as a Tuple, matching how the backend lowers call sites
// (spec.md §4.5 "Expression lowering").
type Function struct {
	Param  Type
	Result Type
}

func (t Function) String() string {
	return fmt.Sprintf("(%s) -> %s", t.Param.String(), t.Result.String())
}
func (t Function) FreeVars() []int {
	return uniqueInts(append(append([]int{}, t.Param.FreeVars()...), t.Result.FreeVars()...))
}

// TyvarInstantiation records the concrete types substituted for a
// scheme's bound variables at one call site (spec.md §4.3 "Scheme
// opening", glossary "Instantiation").
type TyvarInstantiation struct {
	Bindings map[int]Type
	Resolved Type
}

// Poly is Poly(bound-vars, scope, instantiations): a polymorphic type
// scheme. Instantiations grows monotonically as the scheme is opened and
// never shrinks (spec.md §3.3 invariant) — it is held behind a pointer so
// every copy of a Poly value observes appends made through any handle to
// the scheme.
type Poly struct {
	Bound          []int
	Scope          Type
	Instantiations *[]TyvarInstantiation
}

// NewPoly builds a Poly with a fresh, empty instantiation list.
func NewPoly(bound []int, scope Type) Poly {
	insts := make([]TyvarInstantiation, 0)
	return Poly{Bound: bound, Scope: scope, Instantiations: &insts}
}

// RecordInstantiation appends inst to the scheme's instantiation list, in
// creation order (spec.md §5 ordering guarantee).
func (p Poly) RecordInstantiation(inst TyvarInstantiation) {
	*p.Instantiations = append(*p.Instantiations, inst)
}

func (t Poly) String() string {
	bound := make([]string, len(t.Bound))
	for i, b := range t.Bound {
		bound[i] = fmt.Sprintf("t%d", b)
	}
	return fmt.Sprintf("poly[%s] %s", strings.Join(bound, ","), t.Scope.String())
}
func (t Poly) FreeVars() []int {
	bound := make(map[int]bool, len(t.Bound))
	for _, b := range t.Bound {
		bound[b] = true
	}
	var free []int
	for _, v := range t.Scope.FreeVars() {
		if !bound[v] {
			free = append(free, v)
		}
	}
	return uniqueInts(free)
}

func uniqueInts(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	var out []int
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// IsNumber reports whether t is a number type (Int, AnyInt, or Float),
// the family referenced by several built-in operator schemes in spec.md
// §4.3 (e.g. "v:number").
func IsNumber(t Type) bool {
	switch t.(type) {
	case Int, AnyInt, Float:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is an integer type (Int or AnyInt).
func IsInteger(t Type) bool {
	switch t.(type) {
	case Int, AnyInt:
		return true
	default:
		return false
	}
}
