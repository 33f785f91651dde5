// Package typecheck implements the type inference engine of spec.md
// §4.3: unification-driven checking over the internal/ir program graph,
// built-in operator type schemes, generalization at function definition
// boundaries, and polymorphic scheme opening. Values bound by assignment
// (let-bindings) are not generalized. Grounded on the teacher's
// internal/typesystem (unify.go, infer patterns in internal/analyzer)
// generalized from the teacher's Hindley-Milner-over-AST engine to the
// spec's arena-IR-over-Context engine.
package typecheck

import "github.com/runec/rnc/internal/types"

// scheme builds one candidate operator signature fresh, allocating new
// type variables from ctx for every opening (spec.md §4.3 "Scheme
// opening": "each call... allocates fresh negative-id type variables").
type scheme func(ctx *types.Context) types.Function

func numberConstraint() types.Type {
	return types.NewChoice(types.AnyInt{Signed: true}, types.AnyInt{Signed: false}, types.Float{Width: 32}, types.Float{Width: 64})
}

func integerConstraint() types.Type {
	return types.NewChoice(types.AnyInt{Signed: true}, types.AnyInt{Signed: false})
}

func unsignedIntegerConstraint() types.Type { return types.AnyInt{Signed: false} }

func numberStringConstraint() types.Type {
	return types.NewChoice(numberConstraint(), types.StringT())
}

// addScheme : Poly[v,w] (v:{string, number, array<w>}). (v, v) -> v
func addScheme(ctx *types.Context) types.Function {
	w := ctx.FreshOpenedVar()
	constraint := types.NewChoice(types.StringT(), numberConstraint(), types.Array{Elem: w})
	v := ctx.FreshOpenedVarWithConstraint(constraint)
	return types.Function{Param: types.Tuple{Elems: []types.Type{v, v}}, Result: v}
}

// numberScheme : Poly[v] (v:number). (v, v) -> v    (-, *, /)
func numberScheme(ctx *types.Context) types.Function {
	v := ctx.FreshOpenedVarWithConstraint(numberConstraint())
	return types.Function{Param: types.Tuple{Elems: []types.Type{v, v}}, Result: v}
}

// modNumberScheme is the first alternative of `%` : Poly[v] (v:number). (v, v) -> v
func modNumberScheme(ctx *types.Context) types.Function { return numberScheme(ctx) }

// modStringScheme is the second alternative of `%`, for format-style
// substitution: Poly[v]. (string, v) -> string
func modStringScheme(ctx *types.Context) types.Function {
	v := ctx.FreshOpenedVar()
	return types.Function{Param: types.Tuple{Elems: []types.Type{types.StringT(), v}}, Result: types.StringT()}
}

// truncScheme : Poly[v] (v:integer). (v, v) -> v   (!+, !-, !*)
func truncScheme(ctx *types.Context) types.Function {
	v := ctx.FreshOpenedVarWithConstraint(integerConstraint())
	return types.Function{Param: types.Tuple{Elems: []types.Type{v, v}}, Result: v}
}

// powScheme : Poly[v] (v:integer). (v, unsigned-integer) -> v   (**)
func powScheme(ctx *types.Context) types.Function {
	v := ctx.FreshOpenedVarWithConstraint(integerConstraint())
	return types.Function{Param: types.Tuple{Elems: []types.Type{v, unsignedIntegerConstraint()}}, Result: v}
}

// shiftScheme : Poly[v] (v:integer). (v, unsigned-integer) -> v
// (shifts and rotations share the pow scheme's shape).
func shiftScheme(ctx *types.Context) types.Function { return powScheme(ctx) }

// relScheme : Poly[v] (v:{number, string}). (v, v) -> bool   (<, <=, >, >=)
func relScheme(ctx *types.Context) types.Function {
	v := ctx.FreshOpenedVarWithConstraint(numberStringConstraint())
	return types.Function{Param: types.Tuple{Elems: []types.Type{v, v}}, Result: types.Bool()}
}

// eqScheme : Poly[v]. (v, v) -> bool   (==, !=)
func eqScheme(ctx *types.Context) types.Function {
	v := ctx.FreshOpenedVar()
	return types.Function{Param: types.Tuple{Elems: []types.Type{v, v}}, Result: types.Bool()}
}

// logicalScheme : (bool, bool) -> bool    (&&, ||, ^^) — not polymorphic.
func logicalScheme(ctx *types.Context) types.Function {
	return types.Function{Param: types.Tuple{Elems: []types.Type{types.Bool(), types.Bool()}}, Result: types.Bool()}
}

// bitwiseScheme : Poly[v] (v:integer). (v, v) -> v   (&, |, ^)
func bitwiseScheme(ctx *types.Context) types.Function { return truncScheme(ctx) }

// binaryOperatorSchemes maps every operator symbol in spec.md §4.3's
// "Built-in operator typing" table to its candidate signature(s). `%` has
// two; every other operator has exactly one, but the slice shape lets
// inferBinary try candidates uniformly.
var binaryOperatorSchemes = map[string][]scheme{
	"+":  {addScheme},
	"-":  {numberScheme},
	"*":  {numberScheme},
	"/":  {numberScheme},
	"%":  {modNumberScheme, modStringScheme},
	"!+": {truncScheme},
	"!-": {truncScheme},
	"!*": {truncScheme},
	"**": {powScheme},
	"<<": {shiftScheme}, ">>": {shiftScheme}, "<<<": {shiftScheme}, ">>>": {shiftScheme},
	"<": {relScheme}, "<=": {relScheme}, ">": {relScheme}, ">=": {relScheme},
	"==": {eqScheme}, "!=": {eqScheme},
	"&&": {logicalScheme}, "||": {logicalScheme}, "^^": {logicalScheme},
	"&": {bitwiseScheme}, "|": {bitwiseScheme}, "^": {bitwiseScheme},
}
