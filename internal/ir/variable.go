package ir

import "github.com/runec/rnc/internal/types"

// VariableKind is the closed tag set of spec.md §3.2.
type VariableKind int

const (
	VarLocal VariableKind = iota
	VarParameter
)

func (k VariableKind) String() string {
	if k == VarParameter {
		return "parameter"
	}
	return "local"
}

// Variable knows its owning Function, an optional type-expression (for
// declarations written with an explicit type literal, e.g. `x: array<i32>`),
// an optional initializer expression, and its inferred type once
// type-checking completes (spec.md §3.2).
type Variable struct {
	Symbol   *Symbol
	Kind     VariableKind
	Function *Function // non-owning back reference to the owning Function

	TypeExpr    *Expression // owned, optional
	Initializer *Expression // owned, optional

	InferredType types.Type
	Location     Location
}

// NewVariable constructs a variable not yet attached to a Function.
func NewVariable(sym *Symbol, kind VariableKind, loc Location) *Variable {
	return &Variable{Symbol: sym, Kind: kind, Location: loc}
}

// SetTypeExpr attaches an owned type-expression to v.
func (v *Variable) SetTypeExpr(e *Expression) {
	if e != nil {
		e.OwnerVariable = v
	}
	v.TypeExpr = e
}

// SetInitializer attaches an owned initializer expression to v.
func (v *Variable) SetInitializer(e *Expression) {
	if e != nil {
		e.OwnerVariable = v
	}
	v.Initializer = e
}
