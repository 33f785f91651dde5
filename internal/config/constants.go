// Package config carries ambient, process-wide compiler settings: the
// recognized source file suffix, built-in operator/type names, and the
// optional project file (rnc.yaml) loaded by the driver.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the current rnc version. Set at build time via -ldflags.
var Version = "0.1.0"

// SourceFileExt is the canonical suffix for source files in the source
// language (spec.md §6: "a top-level source file ending in the source
// suffix").
const SourceFileExt = ".rune"

// SourceFileExtensions are all recognized source file extensions. Kept as
// a slice (rather than a single constant), matching the teacher's own
// SourceFileExtensions shape, in case an alternate suffix is accepted
// later without touching call sites.
var SourceFileExtensions = []string{SourceFileExt}

// TrimSourceExt removes the source extension from a filename, used to
// derive a module name from a file's base name (spec.md §6).
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt reports whether path ends with a recognized source suffix.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode is a process-wide flag carried over from the teacher's
// config.IsTestMode. No package in this module reads or sets it; generated
// type-variable ids and run ids are not normalized anywhere.
var IsTestMode = false

// TestRootEnvVar is the one optional environment variable from spec.md §6.
// When set, package search is rooted under a fixed subdirectory of it.
const TestRootEnvVar = "RNC_TESTROOT"

// TestRootPackageSubdir is the fixed subdirectory searched under
// os.Getenv(TestRootEnvVar).
const TestRootPackageSubdir = "pkg"

// Linkage name constants used by the IR and the backend's declaration
// emission (spec.md §3.2 Linkage kinds).
const (
	LinkageModule    = "module"
	LinkagePackage   = "package"
	LinkageLibcall   = "libcall"
	LinkageRPC       = "rpc"
	LinkageBuiltin   = "builtin"
	LinkageExternC   = "externC"
	LinkageExternRPC = "externRpc"
)

// Built-in operator tag names (spec.md §4.3 "Built-in operator typing").
const (
	OpAdd      = "+"
	OpSub      = "-"
	OpMul      = "*"
	OpDiv      = "/"
	OpMod      = "%"
	OpTruncAdd = "!+"
	OpTruncSub = "!-"
	OpTruncMul = "!*"
	OpPow      = "**"
	OpShl      = "<<"
	OpShr      = ">>"
	OpRotl     = "<<<"
	OpRotr     = ">>>"
	OpLt       = "<"
	OpLe       = "<="
	OpGt       = ">"
	OpGe       = ">="
	OpEq       = "=="
	OpNe       = "!="
	OpAnd      = "&&"
	OpOr       = "||"
	OpXor      = "^^"
	OpBitAnd   = "&"
	OpBitOr    = "|"
	OpBitXor   = "^"
	OpAssign   = "="
)

// Project is the optional rnc.yaml project file, decoded with
// gopkg.in/yaml.v3 the way the teacher's internal/ext config and
// builtins_yaml.go decode YAML into compiler-facing structures.
type Project struct {
	PackageDir string            `yaml:"packageDir"`
	CCompiler  string            `yaml:"ccompiler"`
	CFlags     []string          `yaml:"cflags"`
	Defines    map[string]string `yaml:"defines"`
}

func (p *Project) setDefaults() {
	if p.CCompiler == "" {
		p.CCompiler = "cc"
	}
}

// ParseProject decodes a project file's bytes. path is used only for error
// context.
func ParseProject(data []byte, path string) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p.setDefaults()
	return &p, nil
}

// FindProject searches for rnc.yaml starting at dir and walking up to
// parent directories, the way the teacher's ext.FindConfig locates
// funxy.yaml.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "rnc.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadProject finds and parses the project file starting at dir. It
// returns a zero-value Project (with defaults applied) if none is found.
func LoadProject(dir string) (*Project, error) {
	path, err := FindProject(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		p := &Project{}
		p.setDefaults()
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseProject(data, path)
}
