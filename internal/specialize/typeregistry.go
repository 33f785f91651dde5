package specialize

import "github.com/runec/rnc/internal/types"

// SynthType is one synthesized C aggregate type: a tuple, array, or
// struct shape that needs a typedef emitted by the backend (spec.md
// §4.4 "Tuple type synthesis", "Array type synthesis").
type SynthType struct {
	Name string // canonical C type name, e.g. "tuple_i32_u8" or "u64_array_t"
	Kind SynthKind
	Type types.Type // the shape this synthesized type represents
	Deps []string   // names of other synthesized types referenced inside this one
}

type SynthKind int

const (
	SynthTuple SynthKind = iota
	SynthArray
	SynthStruct
)

// Registry ensures one-time emission per distinct shape (compared
// structurally) and computes the dependency edges the backend's
// topological emitter needs (spec.md §4.4 "a registry keyed on the
// [shape] ensures one-time emission").
type Registry struct {
	ctx     *types.Context
	byName  map[string]*SynthType
	order   []string // insertion order, used as the topo-sort tie-break
}

// NewRegistry constructs an empty type registry bound to ctx (needed to
// resolve/mangle type shapes consistently with the rest of the
// compilation).
func NewRegistry(ctx *types.Context) *Registry {
	return &Registry{ctx: ctx, byName: make(map[string]*SynthType)}
}

// Intern registers t (a Tuple, Array, or Struct) if not already present
// and returns its canonical C name, recursively interning any nested
// aggregate types it depends on.
func (r *Registry) Intern(t types.Type) string {
	t = r.ctx.ResolveDeep(t)
	switch tt := t.(type) {
	case types.Tuple:
		name := Mangle(r.ctx, tt)
		if _, ok := r.byName[name]; ok {
			return name
		}
		var deps []string
		for _, e := range tt.Elems {
			if dep, ok := r.internIfAggregate(e); ok {
				deps = append(deps, dep)
			}
		}
		r.add(&SynthType{Name: name, Kind: SynthTuple, Type: tt, Deps: deps})
		return name
	case types.Array:
		name := elemArrayName(r.ctx, tt.Elem)
		if _, ok := r.byName[name]; ok {
			return name
		}
		var deps []string
		if dep, ok := r.internIfAggregate(tt.Elem); ok {
			deps = append(deps, dep)
		}
		r.add(&SynthType{Name: name, Kind: SynthArray, Type: tt, Deps: deps})
		return name
	case types.Struct:
		name := Mangle(r.ctx, tt)
		if _, ok := r.byName[name]; ok {
			return name
		}
		var deps []string
		for _, f := range tt.Fields {
			if dep, ok := r.internIfAggregate(f.Type); ok {
				deps = append(deps, dep)
			}
		}
		r.add(&SynthType{Name: name, Kind: SynthStruct, Type: tt, Deps: deps})
		return name
	default:
		return Mangle(r.ctx, t)
	}
}

func (r *Registry) internIfAggregate(t types.Type) (string, bool) {
	resolved := r.ctx.ResolveDeep(t)
	switch resolved.(type) {
	case types.Tuple, types.Array, types.Struct:
		return r.Intern(resolved), true
	default:
		return "", false
	}
}

func (r *Registry) add(s *SynthType) {
	r.byName[s.Name] = s
	r.order = append(r.order, s.Name)
}

// elemArrayName produces the canonical array type name for an element
// type, e.g. "u64_array_t" (spec.md §4.4 example).
func elemArrayName(ctx *types.Context, elem types.Type) string {
	return Mangle(ctx, elem) + "_array_t"
}

// Ordered returns every registered SynthType in dependency order: a type
// used in another type's definition emits first. Cycles are rejected
// (spec.md §4.4: "no recursive value types in the source language"); if
// one is nonetheless encountered, the offending name is simply emitted
// in insertion order as a best-effort fallback rather than panicking,
// since a truly cyclic value type is a type-checking bug elsewhere, not
// a condition this emitter needs to diagnose.
func (r *Registry) Ordered() []*SynthType {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var out []*SynthType

	var visit func(name string)
	visit = func(name string) {
		if visited[name] || onStack[name] {
			return
		}
		onStack[name] = true
		s := r.byName[name]
		if s != nil {
			for _, dep := range s.Deps {
				visit(dep)
			}
		}
		onStack[name] = false
		visited[name] = true
		if s != nil {
			out = append(out, s)
		}
	}

	for _, name := range r.order {
		visit(name)
	}
	return out
}
