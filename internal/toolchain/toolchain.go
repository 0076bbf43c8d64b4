// Package toolchain probes for and executes the external tools packsmith
// orchestrates: the application freezer, the language runtime, the
// command-runner, and the documentation generator.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	pserrors "git.home.luguber.info/inful/packsmith/internal/errors"
)

// Tool describes one external executable requirement.
type Tool struct {
	Name        string // binary name looked up on PATH
	Description string
	VersionArgs []string // arguments that print the tool version, e.g. ["--version"]
	Optional    bool
}

// Status is the probe result for a single tool.
type Status struct {
	Tool    Tool
	Path    string
	Version string
	Found   bool
}

// Probe checks whether the tool is present on PATH and, when found, captures
// its version banner.
func Probe(ctx context.Context, tool Tool) Status {
	st := Status{Tool: tool}

	path, err := exec.LookPath(tool.Name)
	if err != nil {
		return st
	}
	st.Found = true
	st.Path = path

	if len(tool.VersionArgs) > 0 {
		st.Version = queryVersion(ctx, tool.Name, tool.VersionArgs)
	}
	return st
}

// Require probes the tool and converts absence into a toolchain error with a
// user-facing message.
func Require(ctx context.Context, tool Tool) (Status, error) {
	st := Probe(ctx, tool)
	if !st.Found {
		msg := fmt.Sprintf("%s not found on PATH", tool.Name)
		if tool.Description != "" {
			msg = fmt.Sprintf("%s (%s) not found on PATH", tool.Name, tool.Description)
		}
		return st, pserrors.New(pserrors.CategoryToolchain, pserrors.SeverityFatal, msg).
			WithContext("tool", tool.Name)
	}
	return st, nil
}

// queryVersion runs the tool with its version arguments and returns the first
// non-empty output line. Failures degrade to an empty string; version capture
// is informational only.
func queryVersion(ctx context.Context, name string, args []string) string {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return ""
	}
	for _, line := range strings.Split(out.String(), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}
