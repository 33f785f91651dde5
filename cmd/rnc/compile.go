package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/runec/rnc/internal/config"
)

// compileC invokes the external C compiler on the generated translation
// unit, the way the teacher's pkg/cli shells out to external tools via
// os/exec rather than linking a C toolchain into the Go binary.
func compileC(cPath string) error {
	project, err := loadProject()
	if err != nil {
		return err
	}

	binary := filepath2ExeName(cPath)
	args := append([]string{}, project.CFlags...)
	args = append(args, "-std=c11", "-o", binary, cPath)

	cmd := exec.Command(project.CCompiler, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func loadProject() (*config.Project, error) {
	path, err := config.FindProject(".")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &config.Project{CCompiler: "cc"}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return config.ParseProject(data, path)
}

func filepath2ExeName(cPath string) string {
	base := strings.TrimSuffix(cPath, ".c")
	if base == cPath {
		base = cPath + ".out"
	}
	return base
}
