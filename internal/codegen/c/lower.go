package c

import (
	"fmt"

	"github.com/runec/rnc/internal/diag"
	"github.com/runec/rnc/internal/ir"
	"github.com/runec/rnc/internal/specialize"
	"github.com/runec/rnc/internal/types"
)

// directCOperators map 1:1 onto a C binary operator (spec.md §4.5
// "Expression lowering").
var directCOperators = map[string]string{
	"%": "%", "&&": "&&", "||": "||", "&": "&", "|": "|", "^": "^",
	"<<": "<<", ">>": ">>",
	"!+": "+", "!-": "-", "!*": "*",
	"<": "<", "<=": "<=", ">": ">", ">=": ">=", "==": "==", "!=": "!=", "=": "=",
}

// Lowerer walks a specialized, fully type-checked Expression/Statement
// tree and emits C source text, registering runtime features and
// declaration references as it goes (spec.md §4.5).
type Lowerer struct {
	Ctx      *types.Context
	Runtime  *Registry
	Decls    *DeclTable
	Types    *specialize.Registry
	Diags    *diag.Bag
}

// NewLowerer constructs a Lowerer sharing ctx with the rest of the
// compilation.
func NewLowerer(ctx *types.Context, runtime *Registry, decls *DeclTable, typeReg *specialize.Registry, diags *diag.Bag) *Lowerer {
	return &Lowerer{Ctx: ctx, Runtime: runtime, Decls: decls, Types: typeReg, Diags: diags}
}

func (l *Lowerer) width(t types.Type) int {
	switch tt := l.Ctx.ResolveDeep(t).(type) {
	case types.Int:
		return tt.Width
	case types.Float:
		return tt.Width
	default:
		return 64
	}
}

// LowerExpr produces the C text for e.
func (l *Lowerer) LowerExpr(e *ir.Expression) string {
	switch e.Tag {
	case ir.ExprLiteral:
		return l.lowerLiteral(e)
	case ir.ExprIdentifier:
		if e.Symbol != nil {
			l.Decls.Reference(e.Symbol.Name)
			return e.Symbol.Name
		}
		return "/* anon */"
	case ir.ExprNeg:
		return fmt.Sprintf("(-%s)", l.LowerExpr(e.Children[0]))
	case ir.ExprNot, ir.ExprBitNot:
		return fmt.Sprintf("(!%s)", l.LowerExpr(e.Children[0]))
	case ir.ExprAssign:
		return fmt.Sprintf("%s = %s", l.LowerExpr(e.Children[0]), l.LowerExpr(e.Children[1]))
	case ir.ExprSelect:
		return fmt.Sprintf("(%s ? %s : %s)", l.LowerExpr(e.Children[0]), l.LowerExpr(e.Children[1]), l.LowerExpr(e.Children[2]))
	case ir.ExprTupleLit:
		return l.lowerTupleLit(e)
	case ir.ExprStructLit:
		return l.lowerStructLit(e)
	case ir.ExprIndex:
		return l.lowerIndex(e)
	case ir.ExprDot:
		return fmt.Sprintf("%s.%s", l.LowerExpr(e.Children[0]), e.FieldName)
	case ir.ExprCall:
		return l.lowerCall(e)
	default:
		if op, ok := ir.BinaryOperatorTags[e.Tag]; ok {
			return l.lowerBinary(e, op)
		}
		return fmt.Sprintf("/* unsupported expr %s */ 0", e.Tag)
	}
}

func (l *Lowerer) lowerLiteral(e *ir.Expression) string {
	if e.Value == nil {
		return "0"
	}
	switch e.Value.Kind {
	case ir.ValString:
		return fmt.Sprintf("%q", e.Value.Str)
	case ir.ValBool:
		if e.Value.Bool {
			return "1"
		}
		return "0"
	case ir.ValSignedInt, ir.ValUnsignedInt:
		return e.Value.Int.String()
	case ir.ValFloat:
		return fmt.Sprintf("%v", e.Value.Float)
	default:
		return "0"
	}
}

// lowerBinary implements "operators without direct C equivalents (+, -,
// *, /, **, <<<, >>>) emit a call to the appropriate runtime helper,
// registering the needed width" and "string + is a fatal unimplemented"
// and "array + lowers to array_concat" (spec.md §4.5).
func (l *Lowerer) lowerBinary(e *ir.Expression, op string) string {
	lhsT := l.Ctx.ResolveDeep(e.Children[0].Type)

	if op == "+" {
		switch lhsT.(type) {
		case types.Array:
			return fmt.Sprintf("array_concat(%s, %s)", l.LowerExpr(e.Children[0]), l.LowerExpr(e.Children[1]))
		}
		if _, isString := lhsT.(types.TypeName); isString && lhsT.(types.TypeName).Name == "string" {
			l.Diags.Addf(diag.Unimplemented, e.Location, "string concatenation via '+' is not implemented")
			return "/* unimplemented: string + */ 0"
		}
	}

	if cop, ok := directCOperators[op]; ok {
		return fmt.Sprintf("(%s %s %s)", l.LowerExpr(e.Children[0]), cop, l.LowerExpr(e.Children[1]))
	}

	// Routed to a runtime helper: +, -, *, /, **, <<<, >>>.
	w := l.width(e.Type)
	signed := isSignedType(l.Ctx.ResolveDeep(lhsT))
	helper, dir, isRotate := helperName(op, signed, w)
	if isRotate {
		l.Runtime.RequestRotate(dir, w)
	} else if arithOp, ok := arithOpFor(op); ok {
		if signed {
			l.Runtime.RequestSigned(arithOp, w)
		} else {
			l.Runtime.RequestUnsigned(arithOp, w)
		}
	}
	l.Decls.Reference(helper)
	return fmt.Sprintf("%s(%s, %s)", helper, l.LowerExpr(e.Children[0]), l.LowerExpr(e.Children[1]))
}

func isSignedType(t types.Type) bool {
	switch tt := t.(type) {
	case types.Int:
		return tt.Signed
	case types.AnyInt:
		return tt.Signed
	default:
		return true
	}
}

func arithOpFor(op string) (ArithOp, bool) {
	switch op {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	case "**":
		return OpExp, true
	default:
		return 0, false
	}
}

func helperName(op string, signed bool, width int) (name string, dir RotateDir, isRotate bool) {
	prefix := "u"
	if signed {
		prefix = "i"
	}
	switch op {
	case "<<<":
		return fmt.Sprintf("rnc_rotl_u%d", width), RotateLeft, true
	case ">>>":
		return fmt.Sprintf("rnc_rotr_u%d", width), RotateRight, true
	default:
		if arithOp, ok := arithOpFor(op); ok {
			return fmt.Sprintf("rnc_%s_%s%d", opSuffix(arithOp), prefix, width), 0, false
		}
		return "rnc_unknown", 0, false
	}
}

func (l *Lowerer) lowerTupleLit(e *ir.Expression) string {
	name := l.Types.Intern(l.Ctx.ResolveDeep(e.Type))
	args := make([]string, len(e.Children))
	for i, c := range e.Children {
		args[i] = l.LowerExpr(c)
	}
	l.Decls.Reference(name)
	return fmt.Sprintf("%s_make(%s)", name, joinArgs(args))
}

func (l *Lowerer) lowerStructLit(e *ir.Expression) string {
	name := l.Types.Intern(l.Ctx.ResolveDeep(e.Type))
	args := make([]string, len(e.Children))
	for i, c := range e.Children {
		args[i] = l.LowerExpr(c)
	}
	l.Decls.Reference(name)
	return fmt.Sprintf("%s_make(%s)", name, joinArgs(args))
}

// lowerIndex implements "indexing lowers to .elN" for tuples, `.field`
// for struct field access, and a direct `.items[i]` element access for
// arrays.
func (l *Lowerer) lowerIndex(e *ir.Expression) string {
	base := l.Ctx.ResolveDeep(e.Children[0].Type)
	switch base.(type) {
	case types.Tuple:
		idx := 0
		if e.Value != nil {
			idx = int(e.Value.Int.Int64())
		}
		return fmt.Sprintf("%s.el%d", l.LowerExpr(e.Children[0]), idx)
	case types.Array:
		return fmt.Sprintf("%s.items[%s]", l.LowerExpr(e.Children[0]), l.LowerExpr(e.Children[1]))
	case types.Struct:
		return fmt.Sprintf("%s.%s", l.LowerExpr(e.Children[0]), e.FieldName)
	default:
		return fmt.Sprintf("%s[%s]", l.LowerExpr(e.Children[0]), l.LowerExpr(e.Children[1]))
	}
}

// arrayMethods are the runtime helper family dispatched by method-call
// name match (spec.md §4.5).
var arrayMethods = map[string]bool{
	"append": true, "concat": true, "items": true, "length": true, "reverse": true, "values": true,
}

func (l *Lowerer) lowerCall(e *ir.Expression) string {
	callee := e.Children[0]
	if callee.Tag == ir.ExprDot && arrayMethods[callee.FieldName] {
		recv := l.LowerExpr(callee.Children[0])
		helper := fmt.Sprintf("array_%s", callee.FieldName)
		l.Decls.Reference(helper)
		args := []string{recv}
		for _, a := range e.Children[1:] {
			args = append(args, l.LowerExpr(a))
		}
		return fmt.Sprintf("%s(%s)", helper, joinArgs(args))
	}

	name := "anon"
	if callee.Symbol != nil {
		name = callee.Symbol.Name
		if callee.CalleeScheme.Instantiations != nil {
			// This call site resolved a polymorphic callee: mangle the
			// same way specialize.Collect does, from the exact scheme
			// opening inferCall recorded, so the call targets the
			// specialization CodegenStage actually emitted (spec.md
			// §4.4).
			inst := (*callee.CalleeScheme.Instantiations)[callee.CalleeInstIndex]
			bindings := make([]types.Type, len(callee.CalleeScheme.Bound))
			for i, id := range callee.CalleeScheme.Bound {
				bindings[i] = l.Ctx.ResolveDeep(inst.Bindings[id])
			}
			name = specialize.MangledFunctionName(l.Ctx, name, bindings)
		}
		l.Decls.Reference(name)
	}
	args := make([]string, 0, len(e.Children)-1)
	for _, a := range e.Children[1:] {
		args = append(args, l.LowerExpr(a))
	}
	return fmt.Sprintf("%s(%s)", name, joinArgs(args))
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}
