package c

import (
	"fmt"
	"strings"

	"github.com/runec/rnc/internal/specialize"
	"github.com/runec/rnc/internal/types"
)

// emitTupleTypedef emits a C struct typedef for a synthesized tuple shape
// plus its `_make` initializer (spec.md §4.4 "Tuple type synthesis").
func emitTupleTypedef(st *specialize.SynthType) string {
	tup := st.Type.(types.Tuple)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("typedef struct {\n"))
	params := make([]string, len(tup.Elems))
	args := make([]string, len(tup.Elems))
	for i, e := range tup.Elems {
		ctype := cTypeName(e)
		sb.WriteString(fmt.Sprintf("    %s el%d;\n", ctype, i))
		params[i] = fmt.Sprintf("%s el%d", ctype, i)
		args[i] = fmt.Sprintf("el%d", i)
	}
	sb.WriteString(fmt.Sprintf("} %s;\n", st.Name))
	sb.WriteString(fmt.Sprintf("static inline %s %s_make(%s) {\n    %s v;\n", st.Name, st.Name, strings.Join(params, ", "), st.Name))
	for i := range tup.Elems {
		sb.WriteString(fmt.Sprintf("    v.el%d = el%d;\n", i, i))
	}
	sb.WriteString("    return v;\n}\n")
	return sb.String()
}

// emitStructTypedef emits a C struct typedef and `_make` initializer for a
// synthesized struct shape, field names preserved (spec.md §4.4).
func emitStructTypedef(st *specialize.SynthType) string {
	str := st.Type.(types.Struct)
	var sb strings.Builder
	sb.WriteString("typedef struct {\n")
	params := make([]string, len(str.Fields))
	for i, f := range str.Fields {
		ctype := cTypeName(f.Type)
		sb.WriteString(fmt.Sprintf("    %s %s;\n", ctype, f.Name))
		params[i] = fmt.Sprintf("%s %s", ctype, f.Name)
	}
	sb.WriteString(fmt.Sprintf("} %s;\n", st.Name))
	sb.WriteString(fmt.Sprintf("static inline %s %s_make(%s) {\n    %s v;\n", st.Name, st.Name, strings.Join(params, ", "), st.Name))
	for _, f := range str.Fields {
		sb.WriteString(fmt.Sprintf("    v.%s = %s;\n", f.Name, f.Name))
	}
	sb.WriteString("    return v;\n}\n")
	return sb.String()
}

// emitArrayTypedef emits a C array-wrapper typedef (pointer + length +
// capacity) and the helper family dispatched by method-call name
// (append/concat/items/length/reverse/values), spec.md §4.4 "Array type
// synthesis" / §4.5 array method dispatch.
func emitArrayTypedef(st *specialize.SynthType) string {
	arr := st.Type.(types.Array)
	elemCType := cTypeName(arr.Elem)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("typedef struct {\n    %s *items;\n    size_t length;\n    size_t capacity;\n} %s;\n", elemCType, st.Name))

	sb.WriteString(fmt.Sprintf(`static inline size_t array_length(%s a) { return a.length; }
static inline %s *array_items(%s a) { return a.items; }
static inline %s array_append(%s a, %s v) {
    if (a.length == a.capacity) {
        size_t newcap = a.capacity == 0 ? 4 : a.capacity * 2;
        a.items = realloc(a.items, newcap * sizeof(%s));
        a.capacity = newcap;
    }
    a.items[a.length++] = v;
    return a;
}
static inline %s array_concat(%s a, %s b) {
    for (size_t i = 0; i < b.length; i++) {
        a = array_append(a, b.items[i]);
    }
    return a;
}
static inline %s array_reverse(%s a) {
    if (a.length > 0) {
        for (size_t i = 0, j = a.length - 1; i < j; i++, j--) {
            %s tmp = a.items[i];
            a.items[i] = a.items[j];
            a.items[j] = tmp;
        }
    }
    return a;
}
static inline %s *array_values(%s a) { return a.items; }
`, st.Name, elemCType, st.Name, st.Name, st.Name, elemCType, elemCType, st.Name, st.Name, st.Name, st.Name, st.Name, elemCType, elemCType, st.Name))

	return sb.String()
}

// cTypeName maps a ground scalar Type to its C spelling. Aggregate shapes
// are expected to already be interned via specialize.Registry.Intern and
// referenced by name at the call site.
func cTypeName(t types.Type) string {
	switch tt := t.(type) {
	case types.Int:
		if tt.Signed {
			return fmt.Sprintf("int%d_t", tt.Width)
		}
		return fmt.Sprintf("uint%d_t", tt.Width)
	case types.AnyInt:
		if tt.Signed {
			return "int64_t"
		}
		return "uint64_t"
	case types.Float:
		if tt.Width <= 32 {
			return "float"
		}
		return "double"
	case types.TypeName:
		switch tt.Name {
		case "bool":
			return "rnc_bool_t"
		case "string":
			return "rnc_string_t"
		default:
			return tt.Name
		}
	default:
		return "void*"
	}
}

// CTypeName maps any ground Type to its C spelling, interning aggregate
// shapes into reg as needed (used by the pipeline to render function
// signatures; spec.md §4.5 "Function signature lowering").
func CTypeName(ctx *types.Context, reg *specialize.Registry, t types.Type) string {
	resolved := ctx.ResolveDeep(t)
	switch resolved.(type) {
	case types.Tuple, types.Array, types.Struct:
		return reg.Intern(resolved)
	default:
		return cTypeName(resolved)
	}
}
