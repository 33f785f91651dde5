package c

import (
	"fmt"
	"strings"

	"github.com/runec/rnc/internal/ir"
	"github.com/runec/rnc/internal/specialize"
)

// TranslationUnit assembles the full generated C source in the 12-part
// order of spec.md §4.5.
type TranslationUnit struct {
	Runtime            *Registry
	Types              *specialize.Registry
	Decls              *DeclTable
	ModuleInitializers []string          // C names of module-init functions, in module order
	FunctionSignatures map[string]string // decl name -> rendered C signature
	FunctionBodies     map[string]string // decl name -> rendered C body (without signature)
	MainBody           string
	Stringify          bool
}

// Emit produces the complete translation unit text.
func (tu *TranslationUnit) Emit() string {
	var sb strings.Builder

	// 1. Includes.
	for _, inc := range tu.Runtime.Includes() {
		sb.WriteString(fmt.Sprintf("#include %s\n", inc))
	}
	sb.WriteString("\n")

	// 2. Optional typedefs for bool/string/float/double.
	if tu.Runtime.WantsBool() {
		sb.WriteString("typedef int rnc_bool_t;\n")
	}
	if tu.Runtime.WantsString() {
		sb.WriteString("typedef const char *rnc_string_t;\n")
	}
	if tu.Runtime.WantsFloat() {
		sb.WriteString("typedef float rnc_float_t;\n")
	}
	if tu.Runtime.WantsDouble() {
		sb.WriteString("typedef double rnc_double_t;\n")
	}
	sb.WriteString("\n")

	// 3. STRINGIFY macro pair.
	if tu.Stringify {
		sb.WriteString("#define RNC_STRINGIFY_(x) #x\n#define RNC_STRINGIFY(x) RNC_STRINGIFY_(x)\n\n")
	}

	// 4. User #define lines.
	for _, d := range tu.Runtime.Defines() {
		sb.WriteString(fmt.Sprintf("#define %s\n", d))
	}
	sb.WriteString("\n")

	// 5. raise() helper.
	if tu.Runtime.AnyOverflowChecked() {
		sb.WriteString(RaiseHelperSource)
		sb.WriteString("\n")
	}

	// 6. Registered code fragments, topologically ordered.
	for _, f := range tu.Runtime.Fragments() {
		sb.WriteString(f.Body)
		sb.WriteString("\n")
	}

	// 7. Overflow-checked arithmetic core, per demanded family.
	if anyOp(tu.Runtime, true) {
		sb.WriteString(signedCoreSource)
		sb.WriteString("\n")
	}
	if anyOp(tu.Runtime, false) {
		sb.WriteString(unsignedCoreSource)
		sb.WriteString("\n")
	}

	// 8. Width-specialized inline wrappers.
	for _, op := range []ArithOp{OpAdd, OpSub, OpMul, OpDiv, OpExp} {
		for _, w := range tu.Runtime.SignedWidths(op) {
			sb.WriteString(WidthWrapperSource(op, true, w))
		}
		for _, w := range tu.Runtime.UnsignedWidths(op) {
			sb.WriteString(WidthWrapperSource(op, false, w))
		}
	}
	sb.WriteString("\n")

	// 9. Rotation helpers per width.
	for _, w := range tu.Runtime.RotateWidths(RotateLeft) {
		sb.WriteString(RotateHelperSource(RotateLeft, w))
	}
	for _, w := range tu.Runtime.RotateWidths(RotateRight) {
		sb.WriteString(RotateHelperSource(RotateRight, w))
	}
	sb.WriteString("\n")

	// 10. Tuple, array, and struct typedefs in dependency order.
	for _, st := range tu.Types.Ordered() {
		sb.WriteString(emitSynthType(st))
	}
	sb.WriteString("\n")

	// 11. User function declarations (forward), then definitions, both in
	// the declaration table's dependency order.
	order := tu.Decls.Ordered()
	for _, name := range order {
		if sig, ok := tu.FunctionSignatures[name]; ok {
			sb.WriteString(sig)
			sb.WriteString(";\n")
		}
	}
	sb.WriteString("\n")
	for _, name := range order {
		sig, ok := tu.FunctionSignatures[name]
		if !ok {
			continue
		}
		sb.WriteString(sig)
		sb.WriteString(" {\n")
		sb.WriteString(tu.FunctionBodies[name])
		sb.WriteString("}\n\n")
	}

	// 12. main: initializer calls for module functions, then user main.
	sb.WriteString("int main(int argc, char **argv) {\n")
	for _, m := range tu.ModuleInitializers {
		sb.WriteString(fmt.Sprintf("    %s();\n", m))
	}
	sb.WriteString(tu.MainBody)
	sb.WriteString("    return 0;\n}\n")

	return sb.String()
}

func anyOp(r *Registry, signed bool) bool {
	for _, op := range []ArithOp{OpAdd, OpSub, OpMul, OpDiv, OpExp} {
		if signed && len(r.SignedWidths(op)) > 0 {
			return true
		}
		if !signed && len(r.UnsignedWidths(op)) > 0 {
			return true
		}
	}
	return false
}

func emitSynthType(st *specialize.SynthType) string {
	switch st.Kind {
	case specialize.SynthTuple:
		return emitTupleTypedef(st)
	case specialize.SynthArray:
		return emitArrayTypedef(st)
	case specialize.SynthStruct:
		return emitStructTypedef(st)
	default:
		return ""
	}
}

// FunctionSignature renders a C forward declaration or definition header
// for fn using the already-determined C parameter/result type names; the
// caller supplies the body for definitions.
func FunctionSignature(name, resultCType string, paramNames, paramCTypes []string) string {
	params := make([]string, len(paramNames))
	for i := range paramNames {
		params[i] = fmt.Sprintf("%s %s", paramCTypes[i], paramNames[i])
	}
	if len(params) == 0 {
		return fmt.Sprintf("%s %s(void)", resultCType, name)
	}
	return fmt.Sprintf("%s %s(%s)", resultCType, name, strings.Join(params, ", "))
}

// BlockToC is a small helper used by cmd/rnc and tests to render a
// Function's body given an already-constructed Lowerer.
func BlockToC(l *Lowerer, body *ir.Block) string {
	return l.LowerBlock(body, 1)
}
