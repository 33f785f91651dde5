package types

// Open implements "scheme opening" (spec.md §4.3): allocates a fresh
// opened (negative-id) type variable for every bound variable of p,
// substitutes them through p's scope, and records the resulting
// TyvarInstantiation onto p's (append-only) instantiation list. Returns
// the instantiated (monomorphic, as far as this call site is concerned)
// type.
func Open(ctx *Context, p Poly) Type {
	subst := make(map[int]Type, len(p.Bound))
	for _, id := range p.Bound {
		constraint := findConstraint(p.Scope, id)
		// Bounded polymorphism: the opened fresh variable inherits the
		// bound variable's constraint (spec.md §4.3).
		fresh := ctx.FreshOpenedVarWithConstraint(constraint)
		subst[id] = fresh
	}
	resolved := substitute(p.Scope, subst)
	p.RecordInstantiation(TyvarInstantiation{Bindings: subst, Resolved: resolved})
	return resolved
}

// findConstraint searches t for a Var with the given id and returns its
// constraint, if any. Bound variables are represented in place as
// Var{id, constraint} wherever they occur in the scheme's scope, so the
// constraint is recovered by structural search rather than a side table.
func findConstraint(t Type, id int) Type {
	switch tt := t.(type) {
	case Var:
		if tt.ID == id && tt.Constraint != nil {
			return tt.Constraint
		}
		if tt.Constraint != nil {
			if c := findConstraint(tt.Constraint, id); c != nil {
				return c
			}
		}
		return nil
	case TypeName:
		for _, p := range tt.Params {
			if c := findConstraint(p, id); c != nil {
				return c
			}
		}
	case Array:
		return findConstraint(tt.Elem, id)
	case Choice:
		for _, m := range tt.Members {
			if c := findConstraint(m, id); c != nil {
				return c
			}
		}
	case Tuple:
		for _, e := range tt.Elems {
			if c := findConstraint(e, id); c != nil {
				return c
			}
		}
	case Struct:
		for _, f := range tt.Fields {
			if c := findConstraint(f.Type, id); c != nil {
				return c
			}
		}
	case Function:
		if c := findConstraint(tt.Param, id); c != nil {
			return c
		}
		return findConstraint(tt.Result, id)
	case Poly:
		return findConstraint(tt.Scope, id)
	}
	return nil
}

// substitute replaces every Var matching a bound id in subst throughout
// t, recursing structurally. Unmatched Vars (free in the scheme) pass
// through unchanged.
func substitute(t Type, subst map[int]Type) Type {
	switch tt := t.(type) {
	case Var:
		if r, ok := subst[tt.ID]; ok {
			return r
		}
		return tt
	case TypeName:
		params := make([]Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = substitute(p, subst)
		}
		return TypeName{Name: tt.Name, Params: params}
	case Array:
		return Array{Elem: substitute(tt.Elem, subst)}
	case Choice:
		members := make([]Type, len(tt.Members))
		for i, m := range tt.Members {
			members[i] = substitute(m, subst)
		}
		return NewChoice(members...)
	case Tuple:
		elems := make([]Type, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = substitute(e, subst)
		}
		return Tuple{Elems: elems}
	case Struct:
		fields := make([]StructField, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = StructField{Name: f.Name, Type: substitute(f.Type, subst)}
		}
		return Struct{Fields: fields}
	case Function:
		return Function{Param: substitute(tt.Param, subst), Result: substitute(tt.Result, subst)}
	case Poly:
		// Nested schemes keep their own bound vars; only free variables of
		// the outer scheme are substituted.
		return Poly{Bound: tt.Bound, Scope: substitute(tt.Scope, subst), Instantiations: tt.Instantiations}
	default:
		return t
	}
}

// Generalize implements generalization at let-binding sites and function
// definition boundaries (spec.md §4.3): free type variables of t that do
// not occur free in enclosingFree are generalized into a Poly scheme with
// those variables bound. If there is nothing to generalize, t is
// returned fully resolved (ResolveDeep), not wrapped in a trivial Poly.
func Generalize(ctx *Context, t Type, enclosingFree []int) Type {
	resolved := ctx.ResolveDeep(t)
	enclosing := make(map[int]bool, len(enclosingFree))
	for _, id := range enclosingFree {
		enclosing[id] = true
	}
	var bound []int
	for _, id := range resolved.FreeVars() {
		if !enclosing[id] {
			bound = append(bound, id)
		}
	}
	if len(bound) == 0 {
		return resolved
	}
	return NewPoly(bound, resolved)
}
