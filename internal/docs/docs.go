// Package docs automates documentation generation. The external generator is
// driven through a command-runner so no separate install step is needed; the
// pipeline verifies the runtime and runner are present before invoking it and
// propagates the generator's exit status.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pserrors "git.home.luguber.info/inful/packsmith/internal/errors"
	"git.home.luguber.info/inful/packsmith/internal/manifest"
	"git.home.luguber.info/inful/packsmith/internal/metrics"
	"git.home.luguber.info/inful/packsmith/internal/toolchain"
)

// Pipeline runs the documentation toolchain.
type Pipeline struct {
	runner   toolchain.Runner
	recorder metrics.Recorder
	baseDir  string
}

// NewPipeline creates a docs pipeline rooted at baseDir.
func NewPipeline(runner toolchain.Runner, baseDir string) *Pipeline {
	return &Pipeline{
		runner:   runner,
		recorder: metrics.NoopRecorder{},
		baseDir:  baseDir,
	}
}

// WithRecorder attaches a metrics recorder.
func (p *Pipeline) WithRecorder(r metrics.Recorder) *Pipeline {
	p.recorder = r
	return p
}

// Run executes the documentation build:
//
//  1. verify the language runtime is installed,
//  2. verify the command-runner is installed,
//  3. invoke the generator through the runner and propagate its exit status.
func (p *Pipeline) Run(ctx context.Context, cfg manifest.DocsConfig) error {
	if _, err := toolchain.Require(ctx, toolchain.Tool{
		Name:        cfg.Runtime,
		Description: "language runtime",
		VersionArgs: []string{"--version"},
	}); err != nil {
		return err
	}

	if _, err := toolchain.Require(ctx, toolchain.Tool{
		Name:        cfg.Runner,
		Description: "command-runner",
		VersionArgs: []string{"--version"},
	}); err != nil {
		return err
	}

	args := append([]string{cfg.Generator}, cfg.Args...)
	slog.Info("Running documentation generator",
		"runner", cfg.Runner,
		"generator", cfg.Generator,
		"args", cfg.Args)

	start := time.Now()
	res, err := p.runner.Run(ctx, p.baseDir, cfg.Runner, args...)
	elapsed := time.Since(start)

	if err != nil {
		p.recorder.DocsCompleted("failed", elapsed)
		return pserrors.Wrap(err, pserrors.CategoryDocs, pserrors.SeverityFatal,
			fmt.Sprintf("failed to start %s", cfg.Runner))
	}

	if res.ExitCode != 0 {
		p.recorder.DocsCompleted("failed", elapsed)
		slog.Error("Documentation build failed",
			"generator", cfg.Generator,
			"exit_code", res.ExitCode)
		return pserrors.New(pserrors.CategoryDocs, pserrors.SeverityFatal,
			fmt.Sprintf("documentation build failed: %s exited with code %d", cfg.Generator, res.ExitCode)).
			WithContext("exit_code", res.ExitCode)
	}

	p.recorder.DocsCompleted("success", elapsed)
	slog.Info("Documentation built successfully",
		"generator", cfg.Generator,
		"duration", elapsed.Round(time.Millisecond))
	return nil
}
