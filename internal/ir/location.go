package ir

import "github.com/runec/rnc/internal/diag"

// Location is the source position carried by Blocks, Statements, and
// Expressions (spec.md §3.2). It is an alias for diag.Location so
// diagnostics can be constructed directly from any IR node without a
// conversion step.
type Location = diag.Location
