package pipeline

import (
	"github.com/runec/rnc/internal/codegen/c"
	"github.com/runec/rnc/internal/ir"
	"github.com/runec/rnc/internal/specialize"
	"github.com/runec/rnc/internal/typecheck"
	"github.com/runec/rnc/internal/types"
)

// TypecheckStage runs type inference over every function reachable from
// comp.Root (spec.md §4.3), recording diagnostics on comp.Diags and
// accumulating TyvarInstantiation records onto each polymorphic
// function's scheme as a side effect of inferCall — exactly the
// foundation SpecializeStage harvests from.
type TypecheckStage struct{}

func (TypecheckStage) Run(comp *Compilation) *Compilation {
	checker := typecheck.NewChecker(comp.Ctx, comp.Diags)
	var visit func(fn *ir.Function)
	visit = func(fn *ir.Function) {
		checker.CheckFunction(fn)
		for _, child := range fn.Children {
			visit(child)
		}
	}
	if comp.Root.Main != nil {
		visit(comp.Root.Main)
	}
	for _, fp := range comp.Root.Filepaths {
		for _, fn := range fp.Modules {
			visit(fn)
		}
	}
	return comp
}

// SpecializeStage harvests the instantiation lists typechecking already
// populated and interns every ground aggregate shape it finds into
// comp.Types (spec.md §4.4).
type SpecializeStage struct{}

func (SpecializeStage) Run(comp *Compilation) *Compilation {
	comp.Instantiations = specialize.Collect(comp.Ctx, comp.Root)
	for _, inst := range comp.Instantiations {
		for _, b := range inst.Bindings {
			comp.Types.Intern(comp.Ctx.ResolveDeep(b))
		}
	}
	return comp
}

// CodegenStage lowers every reachable function to C and assembles the
// final translation unit text (spec.md §4.5).
type CodegenStage struct{}

func (CodegenStage) Run(comp *Compilation) *Compilation {
	if comp.Diags.HasErrors() {
		// Other errors abort compilation immediately (spec.md §7); codegen
		// against a partially-typed tree would just manufacture noise.
		return comp
	}

	lowerer := c.NewLowerer(comp.Ctx, comp.Runtime, comp.Decls, comp.Types, comp.Diags)

	sigs := make(map[string]string)
	bodies := make(map[string]string)
	var inits []string
	var mainBody string

	// lowerFn emits the single, monomorphic C function for fn. Polymorphic
	// functions (fn.Type is a Poly scheme) are skipped here — each one is
	// lowered separately below, once per distinct call-site instantiation
	// (spec.md §4.4): there is no single C type to give a generic
	// function's parameters, so there is no single C function to emit for
	// it.
	var lowerFn func(fn *ir.Function)
	lowerFn = func(fn *ir.Function) {
		if fn.Symbol != nil && fn.Body != nil {
			if _, isPoly := fn.Type.(types.Poly); !isPoly {
				name := fn.Symbol.Name
				comp.Decls.Declare(name)
				comp.Decls.PushScope()
				body := lowerer.LowerBlock(fn.Body, 1)
				comp.Decls.PopScope(name)

				sigs[name] = c.FunctionSignature(name, resultCType(comp, fn), paramNames(fn), paramCTypes(comp, fn))
				bodies[name] = body

				if fn.Kind == ir.FuncModule {
					inits = append(inits, name)
				}
			}
		}
		for _, child := range fn.Children {
			lowerFn(child)
		}
	}

	if comp.Root.Main != nil {
		comp.Decls.PushScope()
		mainBody = lowerer.LowerBlock(comp.Root.Main.Body, 1)
		comp.Decls.PopScope("main")
		for _, child := range comp.Root.Main.Children {
			lowerFn(child)
		}
	}
	for _, fp := range comp.Root.Filepaths {
		for _, fn := range fp.Modules {
			lowerFn(fn)
		}
	}

	// Lower one specialized body per distinct instantiation mangled name,
	// substituting the scheme's bound variables for the instantiation's
	// concrete bindings around the lowering of that one body (spec.md
	// §4.4's worked example: id(x) called at two types must emit distinct
	// id_u64/id_string C functions).
	emittedMangled := make(map[string]bool)
	for _, inst := range comp.Instantiations {
		if emittedMangled[inst.MangledName] {
			continue
		}
		emittedMangled[inst.MangledName] = true
		lowerInstantiation(comp, lowerer, inst, sigs, bodies)
	}

	tu := &c.TranslationUnit{
		Runtime:            comp.Runtime,
		Types:              comp.Types,
		Decls:              comp.Decls,
		ModuleInitializers: inits,
		FunctionSignatures: sigs,
		FunctionBodies:     bodies,
		MainBody:           mainBody,
	}
	comp.TranslationUnit = tu.Emit()
	return comp
}

// lowerInstantiation emits one specialized C function for inst: it binds
// the callee scheme's bound type variables to this instantiation's
// concrete types, lowers the function body under that substitution, then
// unbinds them so the next instantiation of the same generic function
// starts clean (spec.md §4.4).
func lowerInstantiation(comp *Compilation, lowerer *c.Lowerer, inst *specialize.Instantiation, sigs, bodies map[string]string) {
	fn := inst.Function
	if fn.Symbol == nil || fn.Body == nil {
		return
	}
	poly, ok := fn.Type.(types.Poly)
	if !ok {
		return
	}

	for i, id := range poly.Bound {
		comp.Ctx.Bind(id, inst.Bindings[i])
	}
	defer func() {
		for _, id := range poly.Bound {
			comp.Ctx.Unbind(id)
		}
	}()

	name := inst.MangledName
	comp.Decls.Declare(name)
	comp.Decls.PushScope()
	body := lowerer.LowerBlock(fn.Body, 1)
	comp.Decls.PopScope(name)

	sigs[name] = c.FunctionSignature(name, resultCType(comp, fn), paramNames(fn), paramCTypes(comp, fn))
	bodies[name] = body
}

func paramNames(fn *ir.Function) []string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		if p.Symbol != nil {
			names[i] = p.Symbol.Name
		} else {
			names[i] = "arg"
		}
	}
	return names
}

func paramCTypes(comp *Compilation, fn *ir.Function) []string {
	out := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		out[i] = c.CTypeName(comp.Ctx, comp.Types, p.InferredType)
	}
	return out
}

// resultCType renders fn's inferred result type as a C type name. fn.Type
// is the generalized Function scheme built by typecheck.CheckFunction; a
// Poly scheme's Scope is opened structurally here rather than through
// types.Open, since no fresh instantiation is needed for code generation
// — only the shape of the (already-specialized, ground) result matters.
func resultCType(comp *Compilation, fn *ir.Function) string {
	t := comp.Ctx.ResolveDeep(fn.Type)
	if poly, ok := t.(types.Poly); ok {
		t = comp.Ctx.ResolveDeep(poly.Scope)
	}
	if f, ok := t.(types.Function); ok {
		return c.CTypeName(comp.Ctx, comp.Types, f.Result)
	}
	return "void"
}
