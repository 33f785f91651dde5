package specialize

import (
	"github.com/runec/rnc/internal/ir"
	"github.com/runec/rnc/internal/types"
)

// Instantiation is one fully-resolved monomorphization of a polymorphic
// function: the generic Function, the concrete bindings substituted for
// its bound variables, and the C name it will be emitted under.
type Instantiation struct {
	Function    *ir.Function
	Bindings    []types.Type
	MangledName string
}

// Collect walks every Function reachable from root and harvests the
// TyvarInstantiation records already accumulated on each polymorphic
// function's scheme during type inference (spec.md §4.3's scheme opening
// and §4.4's specialization are the same operation, viewed from two
// phases: inference performs the opening and unification at each call
// site; specialization harvests the resulting bindings to drive
// monomorphic C emission).
func Collect(ctx *types.Context, root *ir.Root) []*Instantiation {
	var out []*Instantiation
	visited := make(map[*ir.Function]bool)

	var visit func(fn *ir.Function)
	visit = func(fn *ir.Function) {
		if fn == nil || visited[fn] {
			return
		}
		visited[fn] = true

		if poly, ok := fn.Type.(types.Poly); ok {
			for _, inst := range *poly.Instantiations {
				bindings := make([]types.Type, len(poly.Bound))
				for i, id := range poly.Bound {
					bindings[i] = ctx.ResolveDeep(inst.Bindings[id])
				}
				out = append(out, &Instantiation{
					Function:    fn,
					Bindings:    bindings,
					MangledName: MangledFunctionName(ctx, symbolName(fn), bindings),
				})
			}
		}

		for _, child := range fn.Children {
			visit(child)
		}
	}

	if root.Main != nil {
		visit(root.Main)
	}
	for _, fp := range root.Filepaths {
		for _, mod := range fp.Modules {
			visit(mod)
		}
	}
	return out
}

func symbolName(fn *ir.Function) string {
	if fn.Symbol != nil {
		return fn.Symbol.Name
	}
	return "anon"
}

// IsFullyGround reports whether every binding in inst resolves to a
// ground type (spec.md §4.4: "the instantiation's bindings must contain
// only fully-ground types after resolution").
func IsFullyGround(ctx *types.Context, inst *Instantiation) bool {
	for _, b := range inst.Bindings {
		if len(b.FreeVars()) != 0 {
			return false
		}
	}
	return true
}
