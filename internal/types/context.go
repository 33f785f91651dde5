package types

// Context is "a single per-compilation typing context [that] maintains a
// mapping from type-variable id to a representative type" (spec.md §4.3).
// Unification mutates a Context destructively, matching the union-find
// style the spec describes ("path compression is not required but
// helpful").
type Context struct {
	subst       map[int]Type
	constraints map[int]Type // canonical constraint per var id, set on scheme opening or merged during unification
	nextUser    int          // next positive id handed to a user-level occurrence
	nextOpened  int          // next negative id handed to a scheme opening
}

// NewContext constructs an empty typing context.
func NewContext() *Context {
	return &Context{subst: make(map[int]Type), constraints: make(map[int]Type)}
}

// ConstraintOf returns the canonical constraint recorded for a variable
// id, if any. A Var value's own Constraint field is the fallback source
// of truth (used the first time a variable is bound); once two
// constrained variables are unified together their merged constraint is
// recorded here under the surviving representative's id.
func (c *Context) ConstraintOf(id int) (Type, bool) {
	t, ok := c.constraints[id]
	return t, ok
}

// SetConstraint records id's canonical constraint.
func (c *Context) SetConstraint(id int, t Type) {
	c.constraints[id] = t
}

// FreshUserVar allocates a new positive-id type variable (spec.md §3.3:
// "positive ids come from user source occurrences").
func (c *Context) FreshUserVar() Var {
	c.nextUser++
	return Var{ID: c.nextUser}
}

// FreshOpenedVar allocates a new negative-id type variable (spec.md §3.3:
// "negative ids from scheme openings").
func (c *Context) FreshOpenedVar() Var {
	c.nextOpened--
	return Var{ID: c.nextOpened}
}

// FreshOpenedVarWithConstraint allocates a fresh opened variable and
// records constraint as its canonical constraint, so every later
// occurrence of this id (even ones constructed without a Constraint
// field set) resolves to the same bound (spec.md §4.3 "the opened fresh
// variable inherits that constraint").
func (c *Context) FreshOpenedVarWithConstraint(constraint Type) Var {
	v := c.FreshOpenedVar()
	if constraint != nil {
		v.Constraint = constraint
		c.SetConstraint(v.ID, constraint)
	}
	return v
}

// Bind records that variable id resolves to t.
func (c *Context) Bind(id int, t Type) {
	c.subst[id] = t
}

// Lookup returns the direct binding for id, if any, without walking the
// chain.
func (c *Context) Lookup(id int) (Type, bool) {
	t, ok := c.subst[id]
	return t, ok
}

// Unbind removes any binding recorded for id, restoring it to unbound
// status. Used by codegen to substitute a polymorphic scheme's bound
// variables with one instantiation's concrete bindings, lower that
// specialization, then undo the substitution before lowering the next
// one (spec.md §4.4).
func (c *Context) Unbind(id int) {
	delete(c.subst, id)
}

// Resolve walks the substitution to the leaf (spec.md §4.3 "resolve(t)
// walks the substitution to the leaf"), applying path compression along
// the way.
func (c *Context) Resolve(t Type) Type {
	v, ok := t.(Var)
	if !ok {
		return t
	}
	bound, ok := c.subst[v.ID]
	if !ok {
		return v
	}
	leaf := c.Resolve(bound)
	c.subst[v.ID] = leaf // path compression
	return leaf
}

// ResolveDeep fully resolves every type variable occurring anywhere
// inside t, recursing into compound types. Used once inference finishes
// to check invariant 1 of spec.md §8 ("resolve(type(e)) is ground").
func (c *Context) ResolveDeep(t Type) Type {
	t = c.Resolve(t)
	switch tt := t.(type) {
	case TypeName:
		params := make([]Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = c.ResolveDeep(p)
		}
		return TypeName{Name: tt.Name, Params: params}
	case Array:
		return Array{Elem: c.ResolveDeep(tt.Elem)}
	case Choice:
		members := make([]Type, len(tt.Members))
		for i, m := range tt.Members {
			members[i] = c.ResolveDeep(m)
		}
		return NewChoice(members...)
	case Tuple:
		elems := make([]Type, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = c.ResolveDeep(e)
		}
		return Tuple{Elems: elems}
	case Struct:
		fields := make([]StructField, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = StructField{Name: f.Name, Type: c.ResolveDeep(f.Type)}
		}
		return Struct{Fields: fields}
	case Function:
		return Function{Param: c.ResolveDeep(tt.Param), Result: c.ResolveDeep(tt.Result)}
	case Var:
		if tt.Constraint != nil {
			return Var{ID: tt.ID, Constraint: c.ResolveDeep(tt.Constraint)}
		}
		return tt
	default:
		return t
	}
}

// IsGround reports whether t, after ResolveDeep, contains no free type
// variables (spec.md §8 invariant 1).
func (c *Context) IsGround(t Type) bool {
	return len(c.ResolveDeep(t).FreeVars()) == 0
}
