package specialize_test

import (
	"testing"

	"github.com/runec/rnc/internal/specialize"
	"github.com/runec/rnc/internal/types"
)

func TestMangleScalarTypes(t *testing.T) {
	ctx := types.NewContext()
	cases := []struct {
		name string
		typ  types.Type
		want string
	}{
		{"signed int", types.Int{Signed: true, Width: 32}, "i32"},
		{"unsigned int", types.Int{Signed: false, Width: 8}, "u8"},
		{"float", types.Float{Width: 64}, "f64"},
		{"bool", types.Bool(), "bool"},
		{"string", types.StringT(), "string"},
		{"signed anyint defaults to 64-bit", types.AnyInt{Signed: true}, "i64"},
		{"unsigned anyint defaults to 64-bit", types.AnyInt{Signed: false}, "u64"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := specialize.Mangle(ctx, c.typ); got != c.want {
				t.Errorf("Mangle(%s) = %q, want %q", c.typ, got, c.want)
			}
		})
	}
}

func TestMangleTuple(t *testing.T) {
	ctx := types.NewContext()
	tup := types.Tuple{Elems: []types.Type{
		types.Int{Signed: true, Width: 32},
		types.Float{Width: 64},
	}}
	want := "tuple_i32_f64"
	if got := specialize.Mangle(ctx, tup); got != want {
		t.Errorf("Mangle(tuple) = %q, want %q", got, want)
	}
}

func TestMangleArrayOfStruct(t *testing.T) {
	ctx := types.NewContext()
	st := types.Struct{Fields: []types.StructField{
		{Name: "x", Type: types.Int{Signed: true, Width: 32}},
		{Name: "y", Type: types.Int{Signed: true, Width: 32}},
	}}
	arr := types.Array{Elem: st}
	want := "array_struct_i32_i32"
	if got := specialize.Mangle(ctx, arr); got != want {
		t.Errorf("Mangle(array<struct>) = %q, want %q", got, want)
	}
}

func TestMangleResolvesBoundVariables(t *testing.T) {
	ctx := types.NewContext()
	v := ctx.FreshUserVar()
	if err := types.Unify(ctx, v, types.Int{Signed: true, Width: 16}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got := specialize.Mangle(ctx, v); got != "i16" {
		t.Errorf("Mangle(bound var) = %q, want %q", got, "i16")
	}
}

func TestMangledFunctionNameWithoutBindings(t *testing.T) {
	ctx := types.NewContext()
	if got := specialize.MangledFunctionName(ctx, "identity", nil); got != "identity" {
		t.Errorf("MangledFunctionName with no bindings = %q, want unqualified base name", got)
	}
}

func TestMangledFunctionNameWithBindings(t *testing.T) {
	ctx := types.NewContext()
	bindings := []types.Type{types.Int{Signed: true, Width: 32}, types.Float{Width: 64}}
	want := "pair_i32_f64"
	if got := specialize.MangledFunctionName(ctx, "pair", bindings); got != want {
		t.Errorf("MangledFunctionName = %q, want %q", got, want)
	}
}
