package typecheck

import (
	"github.com/runec/rnc/internal/diag"
	"github.com/runec/rnc/internal/ir"
	"github.com/runec/rnc/internal/types"
)

// Checker threads a single per-compilation types.Context and diagnostic
// Bag through an entire inference pass (spec.md §4.3, §5 "one Compilation
// context, no hidden globals").
type Checker struct {
	Ctx   *types.Context
	Diags *diag.Bag
}

// NewChecker constructs a Checker around a shared Context and Bag, so a
// whole compilation's functions can be checked against one set of type
// variables (spec.md §5).
func NewChecker(ctx *types.Context, diags *diag.Bag) *Checker {
	return &Checker{Ctx: ctx, Diags: diags}
}

func (c *Checker) fail(loc ir.Location, format string, args ...interface{}) types.Type {
	c.Diags.Addf(diag.TypeMismatch, loc, format, args...)
	return c.Ctx.FreshUserVar() // a placeholder type so callers can keep walking siblings
}

// CheckFunction type-checks fn's body, generalizing its signature at the
// function boundary (spec.md §4.3 "generalization... at function
// definition boundaries").
func (c *Checker) CheckFunction(fn *ir.Function) {
	scope := ir.NewScope(nil)
	paramTypes := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		pt := c.typeOfParam(p)
		p.InferredType = pt
		scope.Declare(p.Symbol, pt, true, false)
		paramTypes[i] = pt
	}

	var resultType types.Type = c.Ctx.FreshUserVar()
	if fn.Body != nil {
		c.CheckBlock(scope, fn.Body, resultType)
	}

	fnType := types.Function{Param: types.Tuple{Elems: paramTypes}, Result: c.Ctx.Resolve(resultType)}
	fn.Type = types.Generalize(c.Ctx, fnType, nil)
	if fn.Symbol != nil {
		fn.Symbol.Type = fn.Type
	}
}

func (c *Checker) typeOfParam(p *ir.Variable) types.Type {
	if p.TypeExpr != nil {
		return c.InferExpr(ir.NewScope(nil), p.TypeExpr)
	}
	return c.Ctx.FreshUserVar()
}

// CheckBlock walks every statement of b in order, type-checking
// expressions and recursing into owned sub-blocks with a nested scope
// (spec.md §3.2 "identifier scope").
func (c *Checker) CheckBlock(parentScope *ir.Scope, b *ir.Block, returnType types.Type) {
	scope := ir.NewScope(parentScope)
	for _, stmt := range b.Statements() {
		c.checkStatement(scope, stmt, returnType)
	}
}

func (c *Checker) checkStatement(scope *ir.Scope, s *ir.Statement, returnType types.Type) {
	switch s.Kind {
	case ir.StmtAssign:
		c.checkAssign(scope, s)
	case ir.StmtCall, ir.StmtPrint, ir.StmtPrintln, ir.StmtThrow, ir.StmtYield, ir.StmtRef, ir.StmtUnref:
		if s.Expr != nil {
			c.InferExpr(scope, s.Expr)
		}
	case ir.StmtReturn:
		if s.Expr != nil {
			rt := c.InferExpr(scope, s.Expr)
			if err := types.Unify(c.Ctx, returnType, rt); err != nil {
				c.Diags.Addf(diag.TypeMismatch, s.Location, "return type mismatch: %s", err)
			}
		}
	case ir.StmtIf, ir.StmtElseif, ir.StmtWhile, ir.StmtDo, ir.StmtSwitch, ir.StmtCase:
		if s.Expr != nil {
			cond := c.InferExpr(scope, s.Expr)
			if s.Kind == ir.StmtIf || s.Kind == ir.StmtElseif || s.Kind == ir.StmtWhile || s.Kind == ir.StmtDo {
				if err := types.Unify(c.Ctx, cond, types.Bool()); err != nil {
					c.Diags.Addf(diag.TypeMismatch, s.Location, "condition must be bool: %s", err)
				}
			}
		}
		if s.Sub != nil {
			c.CheckBlock(scope, s.Sub, returnType)
		}
	default:
		if s.Expr != nil {
			c.InferExpr(scope, s.Expr)
		}
		if s.Sub != nil {
			c.CheckBlock(scope, s.Sub, returnType)
		}
	}
}

func (c *Checker) checkAssign(scope *ir.Scope, s *ir.Statement) {
	e := s.Expr
	if e == nil || e.Tag != ir.ExprAssign || len(e.Children) != 2 {
		if e != nil {
			c.InferExpr(scope, e)
		}
		return
	}
	lhs, rhs := e.Children[0], e.Children[1]
	rt := c.InferExpr(scope, rhs)

	if lhs.Tag == ir.ExprIdentifier && lhs.BindingInstance {
		entry, firstTime := scope.LocalEntry(lhs.Symbol)
		_ = entry
		if !firstTime {
			scope.Declare(lhs.Symbol, rt, false, true)
		}
		lhs.Type = rt
		e.Type = rt
		return
	}

	lt := c.InferExpr(scope, lhs)
	if err := types.Unify(c.Ctx, lt, rt); err != nil {
		c.Diags.Addf(diag.TypeMismatch, e.Location, "assignment type mismatch: %s", err)
	}
	e.Type = lt
}

// InferExpr type-checks e and every descendant, sets e.Type to the
// resolved type, and returns it. On failure it records a diagnostic and
// returns a fresh placeholder type so sibling expressions can still be
// checked (spec.md §4.3 "Failure mode").
func (c *Checker) InferExpr(scope *ir.Scope, e *ir.Expression) types.Type {
	t := c.inferExpr(scope, e)
	e.Type = c.Ctx.Resolve(t)
	return e.Type
}

func (c *Checker) inferExpr(scope *ir.Scope, e *ir.Expression) types.Type {
	switch e.Tag {
	case ir.ExprLiteral:
		return c.inferLiteral(e)

	case ir.ExprIdentifier:
		return c.inferIdentifier(scope, e)

	case ir.ExprNeg, ir.ExprBitNot, ir.ExprNot:
		return c.inferUnary(scope, e)

	case ir.ExprAssign:
		if len(e.Children) != 2 {
			return c.fail(e.Location, "malformed assignment expression")
		}
		lt := c.InferExpr(scope, e.Children[0])
		rt := c.InferExpr(scope, e.Children[1])
		if err := types.Unify(c.Ctx, lt, rt); err != nil {
			return c.fail(e.Location, "assignment type mismatch: %s", err)
		}
		return lt

	case ir.ExprSelect:
		return c.inferSelect(scope, e)

	case ir.ExprTupleLit:
		return c.inferTupleLit(scope, e)

	case ir.ExprArrayLit:
		return c.inferArrayLit(scope, e)

	case ir.ExprStructLit:
		return c.inferStructLit(scope, e)

	case ir.ExprIndex:
		return c.inferIndex(scope, e)

	case ir.ExprSlice:
		return c.inferSlice(scope, e)

	case ir.ExprDot:
		return c.inferDot(scope, e)

	case ir.ExprCast, ir.ExprSignedCast, ir.ExprUnsignedCast:
		return c.inferCast(scope, e)

	case ir.ExprCall:
		return c.inferCall(scope, e)

	case ir.ExprArrayOf:
		if len(e.Children) != 1 {
			return c.fail(e.Location, "arrayof requires exactly one type argument")
		}
		elem := c.InferExpr(scope, e.Children[0])
		return types.Array{Elem: elem}

	case ir.ExprTypeOf:
		if len(e.Children) != 1 {
			return c.fail(e.Location, "typeof requires exactly one argument")
		}
		c.InferExpr(scope, e.Children[0])
		return types.TypeName{Name: "type"}

	case ir.ExprWidthOf:
		return types.AnyInt{Signed: false}

	case ir.ExprSecret, ir.ExprReveal:
		if len(e.Children) != 1 {
			return c.fail(e.Location, "%s requires exactly one argument", e.Tag)
		}
		return c.InferExpr(scope, e.Children[0])

	case ir.ExprNull:
		return types.TypeName{Name: "null"}

	case ir.ExprIsNull, ir.ExprNotNull:
		if len(e.Children) == 1 {
			c.InferExpr(scope, e.Children[0])
		}
		return types.Bool()

	case ir.ExprNamedParam:
		if len(e.Children) != 1 {
			return c.fail(e.Location, "malformed named parameter")
		}
		return c.InferExpr(scope, e.Children[0])

	case ir.ExprTypeLiteral:
		if e.Type != nil {
			return e.Type
		}
		return types.TypeName{Name: e.FieldName}

	default:
		if op, ok := ir.BinaryOperatorTags[e.Tag]; ok {
			return c.inferBinary(scope, e, op)
		}
		return c.fail(e.Location, "unrecognized expression tag %s", e.Tag)
	}
}

func (c *Checker) inferLiteral(e *ir.Expression) types.Type {
	if e.Value == nil {
		return c.fail(e.Location, "literal expression missing value")
	}
	switch e.Value.Kind {
	case ir.ValString:
		return types.StringT()
	case ir.ValBool:
		return types.Bool()
	case ir.ValSignedInt:
		if e.Value.Width > 0 {
			return types.Int{Signed: true, Width: e.Value.Width}
		}
		return types.AnyInt{Signed: true}
	case ir.ValUnsignedInt:
		if e.Value.Width > 0 {
			return types.Int{Signed: false, Width: e.Value.Width}
		}
		return types.AnyInt{Signed: false}
	case ir.ValFloat:
		w := e.Value.Width
		if w == 0 {
			w = 64
		}
		return types.Float{Width: w}
	case ir.ValSymbol:
		return types.TypeName{Name: "symbol"}
	default:
		return c.fail(e.Location, "unknown literal kind")
	}
}

func (c *Checker) inferIdentifier(scope *ir.Scope, e *ir.Expression) types.Type {
	if e.Symbol == nil {
		return c.fail(e.Location, "identifier expression missing symbol")
	}
	if e.BindingInstance {
		t := c.Ctx.FreshUserVar()
		scope.Declare(e.Symbol, t, false, true)
		return t
	}
	if entry, ok := scope.Use(e.Symbol); ok {
		return entry.Type
	}
	if e.Symbol.Type != nil {
		return e.Symbol.Type
	}
	return c.fail(e.Location, "undeclared identifier %q", e.Symbol.Name)
}

func (c *Checker) inferUnary(scope *ir.Scope, e *ir.Expression) types.Type {
	if len(e.Children) != 1 {
		return c.fail(e.Location, "malformed unary expression")
	}
	operand := c.InferExpr(scope, e.Children[0])
	switch e.Tag {
	case ir.ExprNot:
		if err := types.Unify(c.Ctx, operand, types.Bool()); err != nil {
			return c.fail(e.Location, "logical not requires bool: %s", err)
		}
		return types.Bool()
	case ir.ExprBitNot:
		v := c.Ctx.FreshOpenedVarWithConstraint(integerConstraint())
		if err := types.Unify(c.Ctx, v, operand); err != nil {
			return c.fail(e.Location, "bitwise not requires an integer: %s", err)
		}
		return operand
	default: // ExprNeg
		v := c.Ctx.FreshOpenedVarWithConstraint(numberConstraint())
		if err := types.Unify(c.Ctx, v, operand); err != nil {
			return c.fail(e.Location, "negation requires a number: %s", err)
		}
		return operand
	}
}

// inferBinary resolves an overloaded operator by trying each candidate
// scheme in turn (spec.md §4.3's `%` has two alternatives; every other
// operator has one), using non-committing trial unification to pick the
// first candidate whose parameter types accept the actual operands, then
// committing that candidate for real.
func (c *Checker) inferBinary(scope *ir.Scope, e *ir.Expression, op string) types.Type {
	if len(e.Children) != 2 {
		return c.fail(e.Location, "malformed binary expression for %q", op)
	}
	lt := c.InferExpr(scope, e.Children[0])
	rt := c.InferExpr(scope, e.Children[1])

	candidates, ok := binaryOperatorSchemes[op]
	if !ok {
		return c.fail(e.Location, "unknown operator %q", op)
	}

	actual := types.Tuple{Elems: []types.Type{lt, rt}}
	for _, build := range candidates {
		fn := build(c.Ctx)
		if types.CanUnify(c.Ctx, fn.Param, actual) {
			if err := types.Unify(c.Ctx, fn.Param, actual); err != nil {
				continue
			}
			return fn.Result
		}
	}
	return c.fail(e.Location, "no overload of %q accepts (%s, %s)", op, lt, rt)
}

func (c *Checker) inferSelect(scope *ir.Scope, e *ir.Expression) types.Type {
	if len(e.Children) != 3 {
		return c.fail(e.Location, "malformed selection expression")
	}
	cond := c.InferExpr(scope, e.Children[0])
	if err := types.Unify(c.Ctx, cond, types.Bool()); err != nil {
		c.Diags.Addf(diag.TypeMismatch, e.Location, "selection condition must be bool: %s", err)
	}
	thenT := c.InferExpr(scope, e.Children[1])
	elseT := c.InferExpr(scope, e.Children[2])
	if err := types.Unify(c.Ctx, thenT, elseT); err != nil {
		return c.fail(e.Location, "selection branches disagree: %s", err)
	}
	return thenT
}

func (c *Checker) inferTupleLit(scope *ir.Scope, e *ir.Expression) types.Type {
	elems := make([]types.Type, len(e.Children))
	for i, child := range e.Children {
		elems[i] = c.InferExpr(scope, child)
	}
	return types.Tuple{Elems: elems}
}

func (c *Checker) inferArrayLit(scope *ir.Scope, e *ir.Expression) types.Type {
	if len(e.Children) == 0 {
		return types.Array{Elem: c.Ctx.FreshUserVar()}
	}
	elem := c.InferExpr(scope, e.Children[0])
	for _, child := range e.Children[1:] {
		ct := c.InferExpr(scope, child)
		if err := types.Unify(c.Ctx, elem, ct); err != nil {
			c.Diags.Addf(diag.TypeMismatch, child.Location, "array element type mismatch: %s", err)
		}
	}
	return types.Array{Elem: elem}
}

func (c *Checker) inferStructLit(scope *ir.Scope, e *ir.Expression) types.Type {
	fields := make([]types.StructField, len(e.Children))
	for i, child := range e.Children {
		ft := c.InferExpr(scope, child)
		name := child.FieldName
		if name == "" {
			name = child.ParamName
		}
		fields[i] = types.StructField{Name: name, Type: ft}
	}
	return types.Struct{Fields: fields}
}

// inferIndex implements spec.md §4.3 "Indexing semantics": tuples index
// by integer literal (constant-folded), structs by field name resolved
// to position, arrays by an unsigned-integer expression.
func (c *Checker) inferIndex(scope *ir.Scope, e *ir.Expression) types.Type {
	if len(e.Children) < 1 {
		return c.fail(e.Location, "malformed index expression")
	}
	base := c.InferExpr(scope, e.Children[0])
	resolved := c.Ctx.Resolve(base)

	switch bt := resolved.(type) {
	case types.Tuple:
		if e.Value == nil || (e.Value.Kind != ir.ValSignedInt && e.Value.Kind != ir.ValUnsignedInt) {
			return c.fail(e.Location, "tuple index must be an integer literal")
		}
		idx := int(e.Value.Int.Int64())
		if idx < 0 || idx >= len(bt.Elems) {
			return c.fail(e.Location, "tuple index %d out of range", idx)
		}
		return bt.Elems[idx]
	case types.Struct:
		idx := bt.FieldIndex(e.FieldName)
		if idx < 0 {
			return c.fail(e.Location, "no field %q in struct", e.FieldName)
		}
		return bt.Fields[idx].Type
	case types.Array:
		if len(e.Children) != 2 {
			return c.fail(e.Location, "array index requires one index expression")
		}
		it := c.InferExpr(scope, e.Children[1])
		if err := types.Unify(c.Ctx, it, types.AnyInt{Signed: false}); err != nil {
			c.Diags.Addf(diag.TypeMismatch, e.Location, "array index must be unsigned: %s", err)
		}
		return bt.Elem
	default:
		return c.fail(e.Location, "cannot index into %s", resolved)
	}
}

func (c *Checker) inferSlice(scope *ir.Scope, e *ir.Expression) types.Type {
	if len(e.Children) < 1 {
		return c.fail(e.Location, "malformed slice expression")
	}
	base := c.InferExpr(scope, e.Children[0])
	resolved := c.Ctx.Resolve(base)
	arr, ok := resolved.(types.Array)
	if !ok {
		return c.fail(e.Location, "cannot slice %s", resolved)
	}
	for _, bound := range e.Children[1:] {
		bt := c.InferExpr(scope, bound)
		if err := types.Unify(c.Ctx, bt, types.AnyInt{Signed: false}); err != nil {
			c.Diags.Addf(diag.TypeMismatch, e.Location, "slice bound must be unsigned: %s", err)
		}
	}
	return arr
}

func (c *Checker) inferDot(scope *ir.Scope, e *ir.Expression) types.Type {
	if len(e.Children) != 1 {
		return c.fail(e.Location, "malformed dot-access expression")
	}
	base := c.InferExpr(scope, e.Children[0])
	resolved := c.Ctx.Resolve(base)
	st, ok := resolved.(types.Struct)
	if !ok {
		return c.fail(e.Location, "cannot access field %q on %s", e.FieldName, resolved)
	}
	idx := st.FieldIndex(e.FieldName)
	if idx < 0 {
		return c.fail(e.Location, "no field %q", e.FieldName)
	}
	return st.Fields[idx].Type
}

func (c *Checker) inferCast(scope *ir.Scope, e *ir.Expression) types.Type {
	if len(e.Children) != 1 {
		return c.fail(e.Location, "malformed cast expression")
	}
	c.InferExpr(scope, e.Children[0])
	if e.Type != nil {
		return e.Type
	}
	switch e.Tag {
	case ir.ExprSignedCast:
		return types.Int{Signed: true, Width: e.Width}
	case ir.ExprUnsignedCast:
		return types.Int{Signed: false, Width: e.Width}
	default:
		return c.Ctx.FreshUserVar()
	}
}

// inferCall opens the callee's scheme (if polymorphic) and unifies the
// opened parameter tuple against the actual argument types (spec.md §4.3
// "Scheme opening").
func (c *Checker) inferCall(scope *ir.Scope, e *ir.Expression) types.Type {
	if len(e.Children) < 1 {
		return c.fail(e.Location, "malformed call expression")
	}
	callee := e.Children[0]
	calleeType := c.InferExpr(scope, callee)

	args := make([]types.Type, 0, len(e.Children)-1)
	for _, a := range e.Children[1:] {
		args = append(args, c.InferExpr(scope, a))
	}

	resolved := c.Ctx.Resolve(calleeType)
	if poly, ok := resolved.(types.Poly); ok {
		resolved = c.Ctx.Resolve(types.Open(c.Ctx, poly))
		// Record which opening this call site performed so codegen can
		// later recover the same concrete bindings specialize.Collect
		// harvests and emit/call the matching mangled specialization
		// (spec.md §4.4).
		callee.CalleeScheme = poly
		callee.CalleeInstIndex = len(*poly.Instantiations) - 1
	}

	fn, ok := resolved.(types.Function)
	if !ok {
		return c.fail(e.Location, "cannot call non-function type %s", resolved)
	}
	if err := types.Unify(c.Ctx, fn.Param, types.Tuple{Elems: args}); err != nil {
		return c.fail(e.Location, "argument type mismatch: %s", err)
	}
	return fn.Result
}
