package types_test

import (
	"testing"

	"github.com/runec/rnc/internal/types"
)

func TestUnifyVarWithConcrete(t *testing.T) {
	ctx := types.NewContext()
	v := ctx.FreshUserVar()
	if err := types.Unify(ctx, v, types.Int{Signed: true, Width: 32}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	got := ctx.Resolve(v)
	want := types.Int{Signed: true, Width: 32}
	if got.String() != want.String() {
		t.Errorf("Resolve(v) = %s, want %s", got, want)
	}
}

func TestUnifyMismatchedConcreteTypes(t *testing.T) {
	ctx := types.NewContext()
	err := types.Unify(ctx, types.Int{Signed: true, Width: 32}, types.Float{Width: 64})
	if err == nil {
		t.Fatal("expected a mismatch error unifying i32 with f64")
	}
}

func TestUnifyTwoVarsPicksRepresentative(t *testing.T) {
	ctx := types.NewContext()
	a := ctx.FreshUserVar() // positive id, smallest so far
	b := ctx.FreshUserVar()
	if err := types.Unify(ctx, a, b); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// Binding a later var to an earlier one, then resolving both, must
	// converge on the same representative.
	if ctx.Resolve(a).String() != ctx.Resolve(b).String() {
		t.Errorf("expected a and b to resolve identically after unification")
	}
	// The earlier (smaller positive id) var is the representative.
	if got := ctx.Resolve(b); got.String() != a.String() {
		t.Errorf("Resolve(b) = %s, want representative %s", got, a)
	}
}

func TestOccursCheckRejectsSelfReference(t *testing.T) {
	ctx := types.NewContext()
	v := ctx.FreshUserVar()
	arr := types.Array{Elem: v}
	if err := types.Unify(ctx, v, arr); err == nil {
		t.Fatal("expected an occurs-check error unifying v with array<v>")
	}
}

func TestUnifyStructsSameOrder(t *testing.T) {
	ctx := types.NewContext()
	a := types.Struct{Fields: []types.StructField{
		{Name: "x", Type: types.Int{Signed: true, Width: 32}},
		{Name: "y", Type: types.Int{Signed: true, Width: 32}},
	}}
	b := types.Struct{Fields: []types.StructField{
		{Name: "x", Type: types.Int{Signed: true, Width: 32}},
		{Name: "y", Type: types.Int{Signed: true, Width: 32}},
	}}
	if err := types.Unify(ctx, a, b); err != nil {
		t.Errorf("expected structs with identical field order to unify: %s", err)
	}
}

func TestUnifyStructsMismatchedFieldOrder(t *testing.T) {
	ctx := types.NewContext()
	a := types.Struct{Fields: []types.StructField{
		{Name: "x", Type: types.Int{Signed: true, Width: 32}},
		{Name: "y", Type: types.Int{Signed: true, Width: 32}},
	}}
	b := types.Struct{Fields: []types.StructField{
		{Name: "y", Type: types.Int{Signed: true, Width: 32}},
		{Name: "x", Type: types.Int{Signed: true, Width: 32}},
	}}
	if err := types.Unify(ctx, a, b); err == nil {
		t.Error("struct field comparison is positional, so differing declared order must mismatch")
	}
}

func TestCanUnifyDoesNotCommitBindings(t *testing.T) {
	ctx := types.NewContext()
	v := ctx.FreshUserVar()
	if !types.CanUnify(ctx, v, types.Int{Signed: true, Width: 16}) {
		t.Fatal("expected CanUnify to report compatibility")
	}
	if _, bound := ctx.Lookup(v.ID); bound {
		t.Fatal("CanUnify must not leave a binding behind")
	}
	// A second, different trial must still be possible afterwards.
	if !types.CanUnify(ctx, v, types.Float{Width: 64}) {
		t.Fatal("expected the var to still be unconstrained after a prior trial")
	}
}

func TestGeneralizeAndOpenProduceFreshVars(t *testing.T) {
	ctx := types.NewContext()
	v := ctx.FreshUserVar()
	identityFn := types.Function{Param: v, Result: v}

	scheme := types.Generalize(ctx, identityFn, nil)
	poly, ok := scheme.(types.Poly)
	if !ok {
		t.Fatalf("expected Generalize to produce a Poly scheme, got %T", scheme)
	}
	if len(poly.Bound) != 1 {
		t.Fatalf("expected exactly one bound variable, got %d", len(poly.Bound))
	}

	opened1 := types.Open(ctx, poly)
	opened2 := types.Open(ctx, poly)
	if opened1.String() == opened2.String() {
		t.Fatalf("expected two openings to use distinct fresh variables, both gave %s", opened1)
	}
	if len(*poly.Instantiations) != 2 {
		t.Fatalf("expected two recorded instantiations after opening twice, got %d", len(*poly.Instantiations))
	}
}
