package ir

import "github.com/runec/rnc/internal/types"

// ExprTag is the closed expression tag set of spec.md §3.2 (52 tags),
// grouped by category. Enumerated exhaustively enough to drive type inference and C
// lowering for every operation the spec names; new source-level sugar is
// expected to desugar to one of these at IR-construction time, not to
// grow this set.
type ExprTag int

const (
	// Leaves.
	ExprLiteral ExprTag = iota
	ExprIdentifier

	// Arithmetic (spec.md §4.3: +, -, *, /, %).
	ExprAdd
	ExprSub
	ExprMul
	ExprDiv
	ExprMod
	ExprNeg

	// Truncating arithmetic (!+, !-, !*).
	ExprTruncAdd
	ExprTruncSub
	ExprTruncMul

	ExprPow

	// Bitwise.
	ExprBitAnd
	ExprBitOr
	ExprBitXor
	ExprBitNot

	// Shifts and rotations.
	ExprShl
	ExprShr
	ExprRotl
	ExprRotr

	// Comparison / relational.
	ExprLt
	ExprLe
	ExprGt
	ExprGe
	ExprEq
	ExprNe

	// Logical.
	ExprAnd
	ExprOr
	ExprXor
	ExprNot

	// Assignment (the single assign-expression tag; compound assignment
	// operators desugar to Assign(lhs, Add(lhs, rhs)) etc. at construction
	// time).
	ExprAssign

	// Selection.
	ExprSelect // cond ? then : else

	// Aggregates.
	ExprTupleLit
	ExprArrayLit
	ExprStructLit

	// Indexing / slicing / access.
	ExprIndex   // tuple-by-literal, struct-by-field-name (FieldName set), array-by-expr
	ExprSlice   // array[lo:hi]
	ExprDot     // struct field / module member access

	// Casts.
	ExprCast
	ExprSignedCast
	ExprUnsignedCast

	// Calls.
	ExprCall
	ExprNamedParam // name: value, as a call-argument wrapper

	// Type-level literals / queries.
	ExprTypeLiteral
	ExprArrayOf
	ExprTypeOf
	ExprWidthOf

	// Secrecy.
	ExprSecret
	ExprReveal

	// Nullability.
	ExprNull
	ExprIsNull
	ExprNotNull
)

func (t ExprTag) String() string {
	names := map[ExprTag]string{
		ExprLiteral: "literal", ExprIdentifier: "identifier",
		ExprAdd: "add", ExprSub: "sub", ExprMul: "mul", ExprDiv: "div", ExprMod: "mod", ExprNeg: "neg",
		ExprTruncAdd: "trunc-add", ExprTruncSub: "trunc-sub", ExprTruncMul: "trunc-mul",
		ExprPow: "pow",
		ExprBitAnd: "bit-and", ExprBitOr: "bit-or", ExprBitXor: "bit-xor", ExprBitNot: "bit-not",
		ExprShl: "shl", ExprShr: "shr", ExprRotl: "rotl", ExprRotr: "rotr",
		ExprLt: "lt", ExprLe: "le", ExprGt: "gt", ExprGe: "ge", ExprEq: "eq", ExprNe: "ne",
		ExprAnd: "and", ExprOr: "or", ExprXor: "xor", ExprNot: "not",
		ExprAssign: "assign", ExprSelect: "select",
		ExprTupleLit: "tuple-lit", ExprArrayLit: "array-lit", ExprStructLit: "struct-lit",
		ExprIndex: "index", ExprSlice: "slice", ExprDot: "dot",
		ExprCast: "cast", ExprSignedCast: "signed-cast", ExprUnsignedCast: "unsigned-cast",
		ExprCall: "call", ExprNamedParam: "named-param",
		ExprTypeLiteral: "type-literal", ExprArrayOf: "arrayof", ExprTypeOf: "typeof", ExprWidthOf: "widthof",
		ExprSecret: "secret", ExprReveal: "reveal",
		ExprNull: "null", ExprIsNull: "isnull", ExprNotNull: "notnull",
	}
	if s, ok := names[t]; ok {
		return s
	}
	return "unknown"
}

// BinaryOperatorTags are the tags whose type scheme is looked up by
// operator symbol in internal/typecheck (spec.md §4.3 "Built-in operator
// typing").
var BinaryOperatorTags = map[ExprTag]string{
	ExprAdd: "+", ExprSub: "-", ExprMul: "*", ExprDiv: "/", ExprMod: "%",
	ExprTruncAdd: "!+", ExprTruncSub: "!-", ExprTruncMul: "!*",
	ExprPow: "**",
	ExprShl: "<<", ExprShr: ">>", ExprRotl: "<<<", ExprRotr: ">>>",
	ExprLt: "<", ExprLe: "<=", ExprGt: ">", ExprGe: ">=", ExprEq: "==", ExprNe: "!=",
	ExprAnd: "&&", ExprOr: "||", ExprXor: "^^",
	ExprBitAnd: "&", ExprBitOr: "|", ExprBitXor: "^",
}

// Expression is a tree node carrying an operator tag, source location, an
// optional literal value, an optional inferred type, an inferred bit
// width, and a binding-instance flag on identifier nodes (spec.md §3.2).
// Children are owned, in evaluation order (operands, call arguments,
// tuple/array elements).
type Expression struct {
	Tag      ExprTag
	Location Location

	Value *Value      // optional literal
	Type  types.Type  // optional inferred type, set by type-checking
	Width int         // inferred bit width, 0 if not applicable

	// Identifier-specific.
	Symbol          *Symbol
	BindingInstance bool // true at the declaring occurrence

	// Index/Dot-specific.
	FieldName string

	// Named-parameter-specific.
	ParamName string

	Children []*Expression // owned, ordered

	// Exactly one of these is non-nil once the expression is attached.
	OwnerStatement  *Statement
	OwnerExpression *Expression
	OwnerVariable   *Variable

	// Call-callee-specific: when this identifier resolves to a
	// polymorphic function, inferCall records the exact scheme opening
	// performed for this call site here, so codegen can look up the same
	// concrete bindings specialize.Collect harvests and derive the
	// identical mangled name (spec.md §4.4). CalleeScheme.Instantiations
	// is nil when the callee is monomorphic.
	CalleeScheme    types.Poly
	CalleeInstIndex int
}

// NewExpression constructs a detached expression node (spec.md §4.2
// "new-expression(tag, location)").
func NewExpression(tag ExprTag, loc Location) *Expression {
	return &Expression{Tag: tag, Location: loc}
}

// AppendChild attaches child as the next owned child of parent (spec.md
// §4.2 "append-child(parent, child)").
func AppendChild(parent, child *Expression) {
	child.OwnerExpression = parent
	parent.Children = append(parent.Children, child)
}

// NewUnary is a convenience constructor for a single-child expression.
func NewUnary(tag ExprTag, loc Location, operand *Expression) *Expression {
	e := NewExpression(tag, loc)
	AppendChild(e, operand)
	return e
}

// NewBinary is a convenience constructor for a two-child expression.
func NewBinary(tag ExprTag, loc Location, lhs, rhs *Expression) *Expression {
	e := NewExpression(tag, loc)
	AppendChild(e, lhs)
	AppendChild(e, rhs)
	return e
}

// NewLiteral constructs a literal expression carrying v.
func NewLiteral(loc Location, v Value) *Expression {
	e := NewExpression(ExprLiteral, loc)
	e.Value = &v
	return e
}

// NewIdentifier constructs an identifier reference to sym.
func NewIdentifier(loc Location, sym *Symbol, bindingInstance bool) *Expression {
	return &Expression{Tag: ExprIdentifier, Location: loc, Symbol: sym, BindingInstance: bindingInstance}
}
