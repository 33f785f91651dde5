// Package specialize implements monomorphization (spec.md §4.4): it
// harvests the TyvarInstantiation records that type inference already
// recorded on each polymorphic function's scheme when it opened that
// scheme at a call site (see Collect); it does not open schemes itself.
// It also derives the C declaration name for each
// instantiation via name mangling, and synthesizes the tuple/array/struct
// C types a specialized program needs, in dependency order.
//
// Grounded on the teacher's internal/pipeline (Processor/Context staging)
// generalized from an interpreter pipeline stage to a specialization
// pass, and on internal/utils for dependency-ordered declaration naming.
package specialize

import (
	"fmt"
	"strings"

	"github.com/runec/rnc/internal/types"
)

// Mangle produces the C type-name fragment for t, per spec.md §4.4:
// "mangle produces i<w>, u<w>, f<w>, bool, string, or the tuple/struct
// specialization string".
func Mangle(ctx *types.Context, t types.Type) string {
	t = ctx.ResolveDeep(t)
	switch tt := t.(type) {
	case types.Int:
		if tt.Signed {
			return fmt.Sprintf("i%d", tt.Width)
		}
		return fmt.Sprintf("u%d", tt.Width)
	case types.AnyInt:
		// A residual AnyInt at mangling time means the width was never
		// pinned down by unification; default to the machine word per
		// the backend's 64-bit core (spec.md §4.5).
		if tt.Signed {
			return "i64"
		}
		return "u64"
	case types.Float:
		return fmt.Sprintf("f%d", tt.Width)
	case types.TypeName:
		switch tt.Name {
		case "bool":
			return "bool"
		case "string":
			return "string"
		default:
			if len(tt.Params) == 0 {
				return tt.Name
			}
			parts := make([]string, len(tt.Params))
			for i, p := range tt.Params {
				parts[i] = Mangle(ctx, p)
			}
			return tt.Name + "_" + strings.Join(parts, "_")
		}
	case types.Tuple:
		parts := make([]string, len(tt.Elems))
		for i, e := range tt.Elems {
			parts[i] = Mangle(ctx, e)
		}
		return "tuple_" + strings.Join(parts, "_")
	case types.Struct:
		parts := make([]string, len(tt.Fields))
		for i, f := range tt.Fields {
			parts[i] = Mangle(ctx, f.Type)
		}
		return "struct_" + strings.Join(parts, "_")
	case types.Array:
		return "array_" + Mangle(ctx, tt.Elem)
	default:
		return "t"
	}
}

// MangledFunctionName produces "f_<mangle(T1)>_..._<mangle(Tn)>" for a
// polymorphic function f instantiated with bindings (spec.md §4.4).
func MangledFunctionName(ctx *types.Context, baseName string, bindings []types.Type) string {
	if len(bindings) == 0 {
		return baseName
	}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = Mangle(ctx, b)
	}
	return baseName + "_" + strings.Join(parts, "_")
}
