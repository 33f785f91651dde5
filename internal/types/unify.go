package types

import "fmt"

// MismatchError reports a failed unification (spec.md §7 TypeMismatch).
type MismatchError struct {
	A, B   Type
	Reason string
}

func (e *MismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot unify %s with %s: %s", e.A, e.B, e.Reason)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.A, e.B)
}

func mismatch(a, b Type) error { return &MismatchError{A: a, B: b} }

func mismatchf(a, b Type, format string, args ...interface{}) error {
	return &MismatchError{A: a, B: b, Reason: fmt.Sprintf(format, args...)}
}

// Unify attempts to find bindings, recorded destructively into ctx, that
// make a and b equal, following the algorithm of spec.md §4.3.
func Unify(ctx *Context, a, b Type) error {
	return unify(ctx, a, b)
}

func unify(ctx *Context, a, b Type) error {
	// Step 1: resolve both sides.
	a = ctx.Resolve(a)
	b = ctx.Resolve(b)

	av, aIsVar := a.(Var)
	bv, bIsVar := b.(Var)
	if aIsVar && bIsVar && av.ID == bv.ID {
		return nil
	}

	// Steps 2-3: either side an unbound Var.
	if aIsVar {
		return bindVar(ctx, av, b)
	}
	if bIsVar {
		return bindVar(ctx, bv, a)
	}

	// Step 5: AnyInt unifies with Int(s,*) (binding the width family) and
	// with a Choice whose members are all Int(s,*).
	if ai, ok := a.(AnyInt); ok {
		return unifyAnyInt(ctx, ai, b)
	}
	if bi, ok := b.(AnyInt); ok {
		return unifyAnyInt(ctx, bi, a)
	}

	// Step 6: Choice handling (for positions where neither side needed
	// Var binding — e.g. two already-ground Choice types being compared).
	if ac, ok := a.(Choice); ok {
		if bc, ok2 := b.(Choice); ok2 {
			if _, err := intersectChoices(ctx, ac, bc); err != nil {
				return err
			}
			return nil
		}
		if !satisfiesChoice(ctx, ac, b) {
			return mismatchf(a, b, "not a member of choice")
		}
		return nil
	}
	if bc, ok := b.(Choice); ok {
		if !satisfiesChoice(ctx, bc, a) {
			return mismatchf(a, b, "not a member of choice")
		}
		return nil
	}

	// Step 4: concrete variants unify structurally.
	switch at := a.(type) {
	case Int:
		bt, ok := b.(Int)
		if !ok || at.Signed != bt.Signed || at.Width != bt.Width {
			return mismatch(a, b)
		}
		return nil
	case Float:
		bt, ok := b.(Float)
		if !ok || at.Width != bt.Width {
			return mismatch(a, b)
		}
		return nil
	case Array:
		bt, ok := b.(Array)
		if !ok {
			return mismatch(a, b)
		}
		return unify(ctx, at.Elem, bt.Elem)
	case Tuple:
		bt, ok := b.(Tuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return mismatch(a, b)
		}
		for i := range at.Elems {
			if err := unify(ctx, at.Elems[i], bt.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	case Struct:
		bt, ok := b.(Struct)
		if !ok || len(at.Fields) != len(bt.Fields) {
			return mismatch(a, b)
		}
		for i := range at.Fields {
			if at.Fields[i].Name != bt.Fields[i].Name {
				return mismatchf(a, b, "field name mismatch: %s vs %s", at.Fields[i].Name, bt.Fields[i].Name)
			}
			if err := unify(ctx, at.Fields[i].Type, bt.Fields[i].Type); err != nil {
				return err
			}
		}
		return nil
	case Function:
		bt, ok := b.(Function)
		if !ok {
			return mismatch(a, b)
		}
		if err := unify(ctx, at.Param, bt.Param); err != nil {
			return err
		}
		return unify(ctx, at.Result, bt.Result)
	case TypeName:
		// Step 7: TypeName(n, ps) unifies only with TypeName(n, qs) and
		// pairwise ps/qs.
		bt, ok := b.(TypeName)
		if !ok || at.Name != bt.Name || len(at.Params) != len(bt.Params) {
			return mismatch(a, b)
		}
		for i := range at.Params {
			if err := unify(ctx, at.Params[i], bt.Params[i]); err != nil {
				return err
			}
		}
		return nil
	case Poly:
		return fmt.Errorf("internal: cannot unify an unopened polymorphic scheme %s directly", a)
	default:
		return mismatch(a, b)
	}
}

// bindVar implements steps 2 and 3: bind an unbound Var, honoring an
// attached constraint via intersection, and performing the occurs check.
func bindVar(ctx *Context, v Var, other Type) error {
	if ov, ok := other.(Var); ok && ov.ID == v.ID {
		return nil
	}

	constraint := v.Constraint
	if c, ok := ctx.ConstraintOf(v.ID); ok {
		constraint = c
	}

	if ov, ok := other.(Var); ok {
		otherConstraint := ov.Constraint
		if c, ok := ctx.ConstraintOf(ov.ID); ok {
			otherConstraint = c
		}
		rep, nonrep := chooseRepresentative(v, ov)
		repConstraint, nonrepConstraint := constraint, otherConstraint
		if nonrep.ID == v.ID {
			repConstraint, nonrepConstraint = otherConstraint, constraint
		}
		merged := repConstraint
		if nonrepConstraint != nil {
			if merged == nil {
				merged = nonrepConstraint
			} else {
				m, err := intersectConstraints(ctx, merged, nonrepConstraint)
				if err != nil {
					return err
				}
				merged = m
			}
		}
		if merged != nil {
			ctx.SetConstraint(rep.ID, merged)
		}
		if occursCheckVar(ctx, nonrep.ID, rep) {
			return mismatchf(v, other, "infinite type")
		}
		ctx.Bind(nonrep.ID, Var{ID: rep.ID})
		return nil
	}

	if occursCheck(ctx, v.ID, other) {
		return mismatchf(v, other, "infinite type: %s occurs in %s", v, other)
	}

	if constraint != nil {
		narrowed, err := narrowConstraint(ctx, constraint, other)
		if err != nil {
			return err
		}
		ctx.Bind(v.ID, narrowed)
		return nil
	}

	ctx.Bind(v.ID, other)
	return nil
}

// chooseRepresentative applies the tie-break rule of spec.md §4.3: prefer
// the positive id with the smallest absolute value (earliest user-level
// variable), else the negative id closest to zero.
func chooseRepresentative(a, b Var) (rep, nonrep Var) {
	rank := func(id int) (group, mag int) {
		if id > 0 {
			return 0, id
		}
		return 1, -id
	}
	ga, ma := rank(a.ID)
	gb, mb := rank(b.ID)
	if ga != gb {
		if ga < gb {
			return a, b
		}
		return b, a
	}
	if ma <= mb {
		return a, b
	}
	return b, a
}

func occursCheck(ctx *Context, id int, t Type) bool {
	for _, v := range ctx.ResolveDeep(t).FreeVars() {
		if v == id {
			return true
		}
	}
	return false
}

func occursCheckVar(ctx *Context, id int, v Var) bool {
	return id == v.ID
}

// unifyAnyInt implements step 5.
func unifyAnyInt(ctx *Context, ai AnyInt, other Type) error {
	other = ctx.Resolve(other)
	switch ot := other.(type) {
	case Int:
		if ot.Signed != ai.Signed {
			return mismatch(ai, other)
		}
		return nil
	case AnyInt:
		if ot.Signed != ai.Signed {
			return mismatch(ai, other)
		}
		return nil
	case Choice:
		for _, m := range ot.Members {
			if it, ok := m.(Int); !ok || it.Signed != ai.Signed {
				if it2, ok2 := m.(AnyInt); !ok2 || it2.Signed != ai.Signed {
					return mismatchf(ai, other, "choice member %s is not Int(%v,*)", m, ai.Signed)
				}
			}
		}
		return nil
	case Var:
		return bindVar(ctx, ot, ai)
	default:
		return mismatch(ai, other)
	}
}

// choiceMembers returns c's members, or []Type{c} if c is not itself a
// Choice (used when narrowing a constraint that happens to be a single
// concrete type rather than an explicit Choice).
func choiceMembers(c Type) []Type {
	if ch, ok := c.(Choice); ok {
		return ch.Members
	}
	return []Type{c}
}

// satisfiesChoice reports whether other can unify with at least one
// member of c, without permanently committing bindings made during the
// failed trials.
func satisfiesChoice(ctx *Context, c Choice, other Type) bool {
	for _, m := range c.Members {
		if tryUnify(ctx, m, other) {
			return true
		}
	}
	return false
}

// narrowConstraint implements "compute intersect(C, other); if empty
// fail; else bind v := intersection" (spec.md §4.3 step 3). The bound
// value is `other` itself (the concrete type the variable is being
// unified with), once membership in C is confirmed; AnyInt/Choice members
// of C are matched by trial-unifying against `other`.
func narrowConstraint(ctx *Context, c, other Type) (Type, error) {
	for _, m := range choiceMembers(c) {
		if tryUnify(ctx, m, other) {
			// Commit the real binding now that we know it is valid.
			if err := unify(ctx, m, other); err != nil {
				return nil, err
			}
			return other, nil
		}
	}
	return nil, mismatchf(c, other, "does not satisfy constraint")
}

// intersectConstraints merges two constraints attached to variables being
// unified together (spec.md §4.3 step 3, applied when both sides of a
// Var-Var bind carry a constraint).
func intersectConstraints(ctx *Context, a, b Type) (Type, error) {
	am := choiceMembers(a)
	bm := choiceMembers(b)
	var out []Type
	for _, x := range am {
		for _, y := range bm {
			if typesEqualShape(x, y) {
				out = append(out, x)
			}
		}
	}
	if len(out) == 0 {
		return nil, mismatchf(a, b, "empty constraint intersection")
	}
	return NewChoice(out...), nil
}

// intersectChoices implements step 6: Choice ∩ Choice yields the
// intersection, normalized to a single type when only one element
// remains.
func intersectChoices(ctx *Context, a, b Choice) (Type, error) {
	var out []Type
	for _, x := range a.Members {
		for _, y := range b.Members {
			if typesEqualShape(x, y) {
				out = append(out, x)
			}
		}
	}
	if len(out) == 0 {
		return nil, mismatchf(a, b, "empty choice intersection")
	}
	return NewChoice(out...), nil
}

// typesEqualShape is a cheap structural-equality check (by String()) used
// for constraint-set intersection, where we want set membership rather
// than unification with side effects.
func typesEqualShape(a, b Type) bool {
	return a.String() == b.String()
}

// CanUnify reports whether a and b can unify against ctx, without
// committing any bindings — used by the operator-scheme resolver to pick
// among overloaded schemes (e.g. `%`) by trial.
func CanUnify(ctx *Context, a, b Type) bool {
	return tryUnify(ctx, a, b)
}

// tryUnify reports whether a and b can unify, rolling back any bindings
// made during the attempt (spec.md's Context has no native transaction
// support, so we snapshot and restore the substitution map around the
// trial — used only for Choice-membership probing, never for the final
// commit).
func tryUnify(ctx *Context, a, b Type) bool {
	snapshot := make(map[int]Type, len(ctx.subst))
	for k, v := range ctx.subst {
		snapshot[k] = v
	}
	constraintSnapshot := make(map[int]Type, len(ctx.constraints))
	for k, v := range ctx.constraints {
		constraintSnapshot[k] = v
	}
	err := unify(ctx, a, b)
	ctx.subst = snapshot
	ctx.constraints = constraintSnapshot
	return err == nil
}
