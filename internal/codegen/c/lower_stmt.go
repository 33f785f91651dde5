package c

import (
	"fmt"
	"strings"

	"github.com/runec/rnc/internal/ir"
	"github.com/runec/rnc/internal/types"
)

// LowerBlock emits the C statements of b, indented by depth levels.
func (l *Lowerer) LowerBlock(b *ir.Block, depth int) string {
	var sb strings.Builder
	for _, s := range b.Statements() {
		sb.WriteString(l.LowerStatement(s, depth))
	}
	return sb.String()
}

func indent(depth int) string { return strings.Repeat("    ", depth) }

// LowerStatement implements spec.md §4.5 "Statement lowering".
func (l *Lowerer) LowerStatement(s *ir.Statement, depth int) string {
	pad := indent(depth)
	switch s.Kind {
	case ir.StmtAssign:
		return fmt.Sprintf("%s%s;\n", pad, l.LowerExpr(s.Expr))
	case ir.StmtCall:
		return fmt.Sprintf("%s%s;\n", pad, l.LowerExpr(s.Expr))
	case ir.StmtPrint, ir.StmtPrintln:
		return l.lowerPrint(s, depth)
	case ir.StmtReturn:
		if s.Expr == nil {
			return fmt.Sprintf("%sreturn;\n", pad)
		}
		return fmt.Sprintf("%sreturn %s;\n", pad, l.LowerExpr(s.Expr))
	case ir.StmtIf:
		out := fmt.Sprintf("%sif (%s) {\n%s%s}\n", pad, l.LowerExpr(s.Expr), l.LowerBlock(s.Sub, depth+1), pad)
		return out
	case ir.StmtElseif:
		return fmt.Sprintf("%selse if (%s) {\n%s%s}\n", pad, l.LowerExpr(s.Expr), l.LowerBlock(s.Sub, depth+1), pad)
	case ir.StmtElse:
		return fmt.Sprintf("%selse {\n%s%s}\n", pad, l.LowerBlock(s.Sub, depth+1), pad)
	case ir.StmtWhile:
		return fmt.Sprintf("%swhile (%s) {\n%s%s}\n", pad, l.LowerExpr(s.Expr), l.LowerBlock(s.Sub, depth+1), pad)
	case ir.StmtDo:
		return fmt.Sprintf("%sdo {\n%s%s} while (%s);\n", pad, l.LowerBlock(s.Sub, depth+1), pad, l.LowerExpr(s.Expr))
	case ir.StmtSwitch:
		return fmt.Sprintf("%sswitch (%s) {\n%s%s}\n", pad, l.LowerExpr(s.Expr), l.LowerBlock(s.Sub, depth+1), pad)
	case ir.StmtCase:
		return fmt.Sprintf("%scase %s:\n%s", pad, l.LowerExpr(s.Expr), l.LowerBlock(s.Sub, depth+1))
	case ir.StmtDefault:
		return fmt.Sprintf("%sdefault:\n%s", pad, l.LowerBlock(s.Sub, depth+1))
	case ir.StmtFor, ir.StmtForeach:
		if s.Sub != nil {
			return fmt.Sprintf("%s{\n%s%s}\n", pad, l.LowerBlock(s.Sub, depth+1), pad)
		}
		return ""
	default:
		return fmt.Sprintf("%s/* unsupported statement %s */\n", pad, s.Kind)
	}
}

// lowerPrint implements "reset the global string writer, emit
// width-specialized tostring_* calls for each argument, then
// printf(\"%s\", GlobalStringWriter_string())" (spec.md §4.5). println
// additionally appends a trailing newline, either by synthesizing a
// trailing string literal or by mutating the last argument's literal
// when it is a string.
func (l *Lowerer) lowerPrint(s *ir.Statement, depth int) string {
	pad := indent(depth)
	l.Runtime.RequestFragment(Fragment{Name: "global_string_writer", Body: GlobalStringWriterSource})
	l.Decls.Reference("GlobalStringWriter_reset")
	l.Decls.Reference("GlobalStringWriter_string")

	var args []*ir.Expression
	if s.Expr != nil {
		if s.Expr.Tag == ir.ExprTupleLit {
			args = s.Expr.Children
		} else {
			args = []*ir.Expression{s.Expr}
		}
	}

	if s.Kind == ir.StmtPrintln && len(args) > 0 {
		last := args[len(args)-1]
		if last.Tag == ir.ExprLiteral && last.Value != nil && last.Value.Kind == ir.ValString {
			v := *last.Value
			v.Str += "\\n"
			mutated := *last
			mutated.Value = &v
			args = append(args[:len(args)-1], &mutated)
		} else {
			nl := ir.NewLiteral(s.Location, ir.NewStringValue("\\n"))
			args = append(args, nl)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%sGlobalStringWriter_reset();\n", pad))
	for _, a := range args {
		w := l.width(a.Type)
		fn := tostringHelper(l.Ctx.ResolveDeep(a.Type), w)
		l.Decls.Reference(fn)
		sb.WriteString(fmt.Sprintf("%s%s(%s);\n", pad, fn, l.LowerExpr(a)))
	}
	sb.WriteString(fmt.Sprintf("%sprintf(\"%%s\", GlobalStringWriter_string());\n", pad))
	return sb.String()
}

func tostringHelper(t types.Type, width int) string {
	switch tt := t.(type) {
	case types.Int:
		if tt.Signed {
			return fmt.Sprintf("tostring_i%d", width)
		}
		return fmt.Sprintf("tostring_u%d", width)
	case types.AnyInt:
		// An untyped integer literal never unified against a concrete
		// width defaults to the machine word, matching
		// specialize.Mangle's AnyInt handling.
		if tt.Signed {
			return "tostring_i64"
		}
		return "tostring_u64"
	case types.Float:
		return fmt.Sprintf("tostring_f%d", width)
	case types.TypeName:
		if tt.Name == "bool" {
			return "tostring_bool"
		}
		return "tostring_string"
	default:
		return "tostring_string"
	}
}

// GlobalStringWriterSource is the fixed-capacity append-only buffer of
// spec.md §3.5: all formatted prints append to it; flush resets it;
// writes past capacity are silently truncated but the terminating null
// is always preserved.
const GlobalStringWriterSource = `#define RNC_STRBUF_CAP 1024
static char rnc_strbuf[RNC_STRBUF_CAP];
static size_t rnc_strbuf_len = 0;

static void GlobalStringWriter_reset(void) {
    rnc_strbuf_len = 0;
    rnc_strbuf[0] = '\0';
}

static void GlobalStringWriter_append(const char *s) {
    size_t remaining = RNC_STRBUF_CAP - rnc_strbuf_len - 1;
    size_t n = strlen(s);
    if (n > remaining) n = remaining;
    memcpy(rnc_strbuf + rnc_strbuf_len, s, n);
    rnc_strbuf_len += n;
    rnc_strbuf[rnc_strbuf_len] = '\0';
}

static const char *GlobalStringWriter_string(void) {
    return rnc_strbuf;
}
`
