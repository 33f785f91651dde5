// Package pipeline threads a single Compilation context through the
// typecheck, specialize, and codegen passes, following the teacher's
// Pipeline/Processor staging shape (internal/pipeline.Pipeline.Run
// "continue on errors to collect diagnostics from all stages") adapted to
// a fixed three-stage compiler core rather than an open-ended processor
// list, since rnc's stage order is invariant (spec.md §2, §5: "single
// Compilation context, no hidden globals").
package pipeline

import (
	"github.com/google/uuid"

	"github.com/runec/rnc/internal/codegen/c"
	"github.com/runec/rnc/internal/diag"
	"github.com/runec/rnc/internal/ir"
	"github.com/runec/rnc/internal/specialize"
	"github.com/runec/rnc/internal/types"
)

// Compilation is the single process-wide context passed explicitly
// through every pass. The only package-level global in the whole module
// is the symbol interner (internal/ir.Intern), which is process-wide by
// design (spec.md §3.1); everything else lives here.
type Compilation struct {
	RunID string // per-compilation uuid; no pass or driver path reads it

	Ctx   *types.Context
	Diags *diag.Bag
	Root  *ir.Root

	Runtime *c.Registry
	Decls   *c.DeclTable
	Types   *specialize.Registry

	Instantiations []*specialize.Instantiation
	TranslationUnit string
}

// NewCompilation constructs an empty Compilation around a fresh Root,
// stamping it with a uuid-derived run id (spec.md §4.8 domain-stack
// wiring for google/uuid).
func NewCompilation() *Compilation {
	ctx := types.NewContext()
	return &Compilation{
		RunID:   uuid.NewString(),
		Ctx:     ctx,
		Diags:   diag.NewBag(),
		Root:    ir.NewRoot(),
		Runtime: c.NewRegistry(),
		Decls:   c.NewDeclTable(),
		Types:   specialize.NewRegistry(ctx),
	}
}

// Stage is one pass over a Compilation. Like the teacher's Processor,
// each stage returns the (possibly same, mutated) Compilation so stages
// compose by simple chaining.
type Stage interface {
	Run(comp *Compilation) *Compilation
}

// Pipeline is a fixed ordered sequence of Stages.
type Pipeline struct {
	stages []Stage
}

// New constructs a Pipeline running stages in order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Default is the compiler core's fixed three-stage pipeline (spec.md §2):
// type inference, specialization, C backend.
func Default() *Pipeline {
	return New(TypecheckStage{}, SpecializeStage{}, CodegenStage{})
}

// Run executes every stage in order, continuing even if a stage recorded
// diagnostics, so the driver can report everything accumulated across all
// stages at once (mirrors the teacher's Pipeline.Run doc comment). A
// stage that hits an Internal/Usage/NotFound/Parse-class error (per
// spec.md §7's "other errors abort compilation immediately") is expected
// to have already stopped doing further work internally; Run itself never
// skips a later stage, since later stages no-op harmlessly against a
// Compilation whose upstream stage bailed early (nil Root.Main, empty
// Instantiations, etc).
func (p *Pipeline) Run(comp *Compilation) *Compilation {
	for _, s := range p.stages {
		comp = s.Run(comp)
	}
	return comp
}
