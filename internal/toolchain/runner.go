package toolchain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// Result captures one external command invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner executes external commands. The interface exists so builds can be
// exercised in tests without a real freezer or docs toolchain installed.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (*Result, error)
}

// ExecRunner runs commands via os/exec, streaming combined output to the
// provided writer (typically os.Stdout) while also capturing it.
type ExecRunner struct {
	Stream io.Writer // optional; nil disables streaming
}

// Run executes the command in dir and returns its result. A non-zero exit is
// not an error at this layer; callers decide how to classify it. The returned
// error covers start failures only.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	if r.Stream != nil {
		cmd.Stdout = io.MultiWriter(&stdout, r.Stream)
		cmd.Stderr = io.MultiWriter(&stderr, r.Stream)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	slog.Debug("Running external command", "command", name, "args", args, "dir", dir)
	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			slog.Debug("External command exited non-zero",
				"command", name, "exit_code", res.ExitCode)
			return res, nil
		}
		return res, err
	}

	return res, nil
}
