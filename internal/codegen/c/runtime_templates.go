package c

import "fmt"

// RaiseHelperSource is the shared `raise(const char*)` helper emitted
// once when any overflow-checked helper is requested (spec.md §4.5
// translation-unit step 5).
const RaiseHelperSource = `static void rnc_raise(const char *kind) {
    fprintf(stderr, "%s\n", kind);
    abort();
}
`

// signedCoreSource is the shared 64-bit signed arithmetic core (spec.md
// §4.5 translation-unit step 7). Every width-specialized wrapper
// delegates to this.
const signedCoreSource = `static int64_t rnc_add_i64_checked(int64_t a, int64_t b, int w) {
    int64_t max = (INT64_C(1) << (w - 1)) - 1;
    int64_t min = -max - 1;
    int64_t r = a + b;
    if (r > max) rnc_raise("Overflow");
    if (r < min) rnc_raise("Underflow");
    return r;
}

static int64_t rnc_sub_i64_checked(int64_t a, int64_t b, int w) {
    int64_t max = (INT64_C(1) << (w - 1)) - 1;
    int64_t min = -max - 1;
    int64_t r = a - b;
    if (r > max) rnc_raise("Overflow");
    if (r < min) rnc_raise("Underflow");
    return r;
}

// println a * b, overflow checked
static int64_t rnc_mul_i64_checked(int64_t a, int64_t b, int w) {
    int64_t max = (INT64_C(1) << (w - 1)) - 1;
    int64_t min = -max - 1;
    int64_t r = a * b;
    if (r > max) rnc_raise("Overflow");
    if (r < min) rnc_raise("Underflow");
    return r;
}

static int64_t rnc_div_i64_checked(int64_t a, int64_t b, int w) {
    int64_t max = (INT64_C(1) << (w - 1)) - 1;
    int64_t min = -max - 1;
    if (b == 0) rnc_raise("DivByZero");
    if (a == min && b == -1) rnc_raise("Overflow");
    return a / b;
}

static int64_t rnc_exp_i64_checked(int64_t base, int64_t exp, int w) {
    // Iterative square-and-multiply; each multiplication is checked, so
    // intermediate overflow raises exactly where the real operation would.
    if (exp < 0) rnc_raise("NegativeExponent");
    int64_t result = 1;
    int64_t b = base;
    int64_t e = exp;
    while (e > 0) {
        if (e & 1) result = rnc_mul_i64_checked(result, b, w);
        e >>= 1;
        if (e > 0) b = rnc_mul_i64_checked(b, b, w);
    }
    return result;
}
`

// unsignedCoreSource is the shared 64-bit unsigned arithmetic core.
//
// TODO: the add/mul overflow bound below reuses the signed-sized bound
// (1<<(w-1))-1 rather than the full unsigned range (1<<w)-1, so it
// under-reports the true overflow threshold for unsigned values. This
// matches the source compiler's own formula exactly and is preserved
// here rather than corrected.
const unsignedCoreSource = `static uint64_t rnc_add_u64_checked(uint64_t a, uint64_t b, int w) {
    uint64_t max = (UINT64_C(1) << (w - 1)) - 1;
    uint64_t r = a + b;
    if (r > max) rnc_raise("Overflow");
    return r;
}

static uint64_t rnc_sub_u64_checked(uint64_t a, uint64_t b, int w) {
    if (b > a) rnc_raise("Underflow");
    return a - b;
}

static uint64_t rnc_mul_u64_checked(uint64_t a, uint64_t b, int w) {
    uint64_t max = (UINT64_C(1) << (w - 1)) - 1;
    uint64_t r = a * b;
    if (r > max) rnc_raise("Overflow");
    return r;
}

static uint64_t rnc_div_u64_checked(uint64_t a, uint64_t b, int w) {
    if (b == 0) rnc_raise("DivByZero");
    return a / b;
}

static uint64_t rnc_exp_u64_checked(uint64_t base, uint64_t exp, int w) {
    uint64_t result = 1;
    uint64_t b = base;
    uint64_t e = exp;
    while (e > 0) {
        if (e & 1) result = rnc_mul_u64_checked(result, b, w);
        e >>= 1;
        if (e > 0) b = rnc_mul_u64_checked(b, b, w);
    }
    return result;
}
`

// opSuffix names the C core function suffix for an ArithOp.
func opSuffix(op ArithOp) string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpExp:
		return "exp"
	default:
		return "op"
	}
}

// WidthWrapperSource emits the width-specialized inline wrapper for one
// (operation, width) pair, delegating to the 64-bit core (spec.md §4.5
// translation-unit step 8).
func WidthWrapperSource(op ArithOp, signed bool, width int) string {
	prefix, ctype := "i", fmt.Sprintf("int%d_t", width)
	core := "i64"
	if !signed {
		prefix, ctype, core = "u", fmt.Sprintf("uint%d_t", width), "u64"
	}
	name := fmt.Sprintf("rnc_%s_%s%d", opSuffix(op), prefix, width)
	coreFn := fmt.Sprintf("rnc_%s_%s_checked", opSuffix(op), core)
	coreType := "int64_t"
	if !signed {
		coreType = "uint64_t"
	}
	if op == OpExp {
		return fmt.Sprintf("static inline %s %s(%s a, %s b) {\n    return (%s)%s((%s)a, (%s)b, %d);\n}\n",
			ctype, name, ctype, ctype, ctype, coreFn, coreType, coreType, width)
	}
	return fmt.Sprintf("static inline %s %s(%s a, %s b) {\n    return (%s)%s((%s)a, (%s)b, %d);\n}\n",
		ctype, name, ctype, ctype, ctype, coreFn, coreType, coreType, width)
}

// RotateHelperSource emits the rotation helper for one (direction, width)
// pair (spec.md §4.5 "Rotation semantics" / translation-unit step 9).
// Widths equal to the machine word (64) use a simple shift-or; smaller
// widths mask to the target bit-width.
func RotateHelperSource(dir RotateDir, width int) string {
	ctype := fmt.Sprintf("uint%d_t", width)
	name := "rnc_rotl_u"
	if dir == RotateRight {
		name = "rnc_rotr_u"
	}
	name = fmt.Sprintf("%s%d", name, width)

	if width == 64 {
		if dir == RotateLeft {
			return fmt.Sprintf("static inline %s %s(%s v, unsigned d) {\n    return (v << d) | (v >> (64 - d));\n}\n", ctype, name, ctype)
		}
		return fmt.Sprintf("static inline %s %s(%s v, unsigned d) {\n    return (v >> d) | (v << (64 - d));\n}\n", ctype, name, ctype)
	}

	mask := fmt.Sprintf("((%s)((UINT64_C(1) << %d) - 1))", ctype, width)
	if dir == RotateLeft {
		return fmt.Sprintf("static inline %s %s(%s v, unsigned d) {\n    return (%s)(((v << d) | (v >> (%d - d))) & %s);\n}\n", ctype, name, ctype, ctype, width, mask)
	}
	return fmt.Sprintf("static inline %s %s(%s v, unsigned d) {\n    return (%s)(((v >> d) | (v << (%d - d))) & %s);\n}\n", ctype, name, ctype, ctype, width, mask)
}
