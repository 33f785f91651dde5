// Command rnc is the driver for the bootstrap compiler core: it parses
// os.Args manually (no flag package, matching the teacher's own
// pkg/cli/entry.go and cmd/funxy/main.go style of switching over each
// argument token), resolves the package search path, invokes the parser
// collaborator to build an ir.Root, runs the three-stage pipeline, writes
// the generated C, and optionally hands it to an external C compiler.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/runec/rnc/internal/config"
	"github.com/runec/rnc/internal/diag"
	"github.com/runec/rnc/internal/ir"
	"github.com/runec/rnc/internal/pipeline"
)

// options holds the parsed command-line surface of spec.md §6.
type options struct {
	sourcePath   string
	debug        bool
	quiet        bool
	optimize     bool
	printParseTree bool
	printFuncTree  bool
	printHIR       bool
	traceTypecheck bool
	outputC        string // "" = don't emit; "-" = stdout
	packageDir     string
	skipCCompile   bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rnc: %s\n", err)
		return 1
	}

	comp := pipeline.NewCompilation()

	root, err := ParseSource(opts.sourcePath, opts.packageDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	comp.Root = root

	if opts.printParseTree || opts.printFuncTree || opts.printHIR {
		// The parse/func/HIR tree dumps are printer-collaborator concerns
		// (spec.md §1 "remain external collaborators"); rnc just confirms
		// it received the flag rather than faking tree output.
		fmt.Fprintf(os.Stderr, "rnc: tree-dump flags require the printer collaborator, not available in this build\n")
	}

	pipeline.Default().Run(comp)

	printDiagnostics(comp.Diags, opts.quiet, useColor())

	if comp.Diags.HasErrors() {
		return 1
	}

	if opts.outputC != "" {
		if err := writeOutput(opts.outputC, comp.TranslationUnit); err != nil {
			fmt.Fprintf(os.Stderr, "rnc: writing C output: %s\n", err)
			return 1
		}
	}

	if !opts.skipCCompile && opts.outputC != "" && opts.outputC != "-" {
		if err := compileC(opts.outputC); err != nil {
			fmt.Fprintf(os.Stderr, "rnc: C compilation failed: %s\n", err)
			return 1
		}
	}

	return 0
}

// parseArgs implements spec.md §6's flag set by switching over each
// argument token in turn, exactly the shape of the teacher's
// cmd/funxy/main.go argument loops.
func parseArgs(args []string) (*options, error) {
	opts := &options{packageDir: "."}
	var positional []string

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "-d", "--debug":
			opts.debug = true
		case "-q":
			opts.quiet = true
		case "-O":
			opts.optimize = true
		case "--parseTree":
			opts.printParseTree = true
		case "--funcTree":
			opts.printFuncTree = true
		case "--hir":
			opts.printHIR = true
		case "--tc":
			opts.traceTypecheck = true
		case "--oc":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--oc requires a path argument")
			}
			i++
			opts.outputC = args[i]
		case "-p":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-p requires a directory argument")
			}
			i++
			opts.packageDir = args[i]
		case "-n":
			opts.skipCCompile = true
		default:
			if strings.HasPrefix(a, "-") {
				return nil, fmt.Errorf("unrecognized flag %q", a)
			}
			positional = append(positional, a)
		}
	}

	if len(positional) != 1 {
		return nil, fmt.Errorf("usage: rnc [flags] <source-file%s>", config.SourceFileExt)
	}
	if !config.HasSourceExt(positional[0]) {
		return nil, fmt.Errorf("source file %q must end in %s", positional[0], config.SourceFileExt)
	}
	opts.sourcePath = positional[0]
	return opts, nil
}

// resolvePackageSearchPath implements spec.md §6's three-directory import
// search order, honoring RNC_TESTROOT when set.
func resolvePackageSearchPath(sourcePath, packageDir string) []string {
	dirs := []string{filepath.Dir(sourcePath), packageDir}
	if root := os.Getenv(config.TestRootEnvVar); root != "" {
		dirs = append(dirs, filepath.Join(root, config.TestRootPackageSubdir))
	}
	return dirs
}

// ParseSource is the parser collaborator contract (spec.md §1: "Parser/
// lexer... remain external collaborators — only the contracts the core
// exposes to them are specified"). This build wires in a stub that
// reports the feature is not available, so the flag surface, diagnostics
// pipeline, and C-compiler invocation can all be exercised end to end
// without a parser; tests replace this with hand-built ir.Root values
// directly instead of overriding the variable.
var ParseSource = func(sourcePath, packageDir string) (*ir.Root, error) {
	searchDirs := resolvePackageSearchPath(sourcePath, packageDir)
	_ = searchDirs
	return nil, fmt.Errorf("%s: %s: no parser collaborator wired into this build", sourcePath, diag.NotFound)
}

func useColor() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func printDiagnostics(bag *diag.Bag, quiet, color bool) {
	if quiet {
		return
	}
	for _, d := range bag.Items() {
		if color {
			fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m: %s: %s\n", d.Kind, d.Location, d.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", d.Kind, d.Location, d.Message)
		}
	}
	if n := bag.Overflowed(); n > 0 {
		fmt.Fprintf(os.Stderr, "rnc: %d additional diagnostic(s) suppressed\n", n)
	}
}

func writeOutput(path, text string) error {
	if path == "-" {
		_, err := fmt.Fprint(os.Stdout, text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
