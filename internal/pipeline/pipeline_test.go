package pipeline_test

import (
	"strings"
	"testing"

	"github.com/runec/rnc/internal/ir"
	"github.com/runec/rnc/internal/pipeline"
)

// buildAddModule hand-builds the IR for a single module function:
//
//	module main() {
//	    x := 1 + 2
//	    println(x)
//	}
//
// directly, since the parser is out of scope (spec.md §8).
func buildAddModule() *ir.Root {
	root := ir.NewRoot()
	loc := ir.Location{File: "main.rune", Line: 1}

	mainFn := ir.NewFunction(ir.Intern("main"), ir.FuncModule, ir.LinkModule, loc)
	body := ir.NewBlock(loc)
	mainFn.SetBody(body)

	one := ir.NewLiteral(loc, ir.NewSignedValue(1, 64))
	two := ir.NewLiteral(loc, ir.NewSignedValue(2, 64))
	sum := ir.NewBinary(ir.ExprAdd, loc, one, two)

	xSym := ir.Intern("x")
	xIdent := ir.NewIdentifier(loc, xSym, true)
	assignExpr := ir.NewBinary(ir.ExprAssign, loc, xIdent, sum)

	assignStmt := ir.NewStatement(ir.StmtAssign, loc)
	assignStmt.SetExpr(assignExpr)
	body.AppendStatement(assignStmt)

	printlnExpr := ir.NewIdentifier(loc, xSym, false)
	printlnStmt := ir.NewStatement(ir.StmtPrintln, loc)
	printlnStmt.SetExpr(printlnExpr)
	body.AppendStatement(printlnStmt)

	root.Main = mainFn
	return root
}

func TestPipelineEndToEnd(t *testing.T) {
	comp := pipeline.NewCompilation()
	comp.Root = buildAddModule()

	pipeline.Default().Run(comp)

	if comp.Diags.HasErrors() {
		for _, d := range comp.Diags.Items() {
			t.Logf("diagnostic: %s", d.Error())
		}
		t.Fatalf("expected no compile errors, got %d", len(comp.Diags.Items()))
	}

	if comp.TranslationUnit == "" {
		t.Fatal("expected non-empty translation unit")
	}
	if !strings.Contains(comp.TranslationUnit, "int main(") {
		t.Error("expected a main() function in the generated C")
	}
	if !strings.Contains(comp.TranslationUnit, "GlobalStringWriter_reset") {
		t.Error("println should route through the global string writer")
	}
}

func TestPipelineContinuesAfterDiagnostic(t *testing.T) {
	comp := pipeline.NewCompilation()
	root := ir.NewRoot()
	loc := ir.Location{File: "bad.rune", Line: 1}

	fn := ir.NewFunction(ir.Intern("bad"), ir.FuncModule, ir.LinkModule, loc)
	body := ir.NewBlock(loc)
	fn.SetBody(body)

	// "true" + 1 has no matching overload: a string/bool literal plus an
	// int should accumulate a TypeMismatch diagnostic rather than abort.
	badLit := ir.NewLiteral(loc, ir.NewBoolValue(true))
	oneLit := ir.NewLiteral(loc, ir.NewSignedValue(1, 64))
	badSum := ir.NewBinary(ir.ExprAdd, loc, badLit, oneLit)
	stmt := ir.NewStatement(ir.StmtCall, loc)
	stmt.SetExpr(badSum)
	body.AppendStatement(stmt)

	root.Main = fn
	comp.Root = root

	pipeline.Default().Run(comp)

	if !comp.Diags.HasErrors() {
		t.Fatal("expected a type-mismatch diagnostic for bool + int")
	}
	if comp.TranslationUnit != "" {
		t.Error("codegen should not run once diagnostics report an error")
	}
}
