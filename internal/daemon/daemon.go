// Package daemon implements continuous mode: watch the project tree, rebuild
// the bundle on change or on schedule, and expose status over HTTP.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/packsmith/internal/buildstore"
	"git.home.luguber.info/inful/packsmith/internal/docs"
	"git.home.luguber.info/inful/packsmith/internal/events"
	"git.home.luguber.info/inful/packsmith/internal/freeze"
	"git.home.luguber.info/inful/packsmith/internal/manifest"
	"git.home.luguber.info/inful/packsmith/internal/metrics"
	"git.home.luguber.info/inful/packsmith/internal/toolchain"
)

const defaultDebounce = 2 * time.Second

// Daemon ties the watcher, scheduler, build pipeline, and status server
// together.
type Daemon struct {
	manifestPath string
	baseDir      string
	buildDocs    bool

	store     buildstore.Store
	publisher events.Publisher
	recorder  *metrics.PromRecorder
	watcher   *Watcher
	scheduler *Scheduler
	server    *StatusServer
}

// New creates a daemon for the manifest at manifestPath. The manifest is
// reloaded before every build so edits take effect without a restart.
func New(manifestPath, baseDir string, buildDocs bool) (*Daemon, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	if m.Daemon == nil {
		return nil, fmt.Errorf("manifest has no daemon section")
	}

	d := &Daemon{
		manifestPath: manifestPath,
		baseDir:      baseDir,
		buildDocs:    buildDocs,
		recorder:     metrics.NewPromRecorder(),
	}

	store, err := buildstore.NewSQLiteStore(resolveInDir(baseDir, m.Daemon.HistoryDB))
	if err != nil {
		return nil, fmt.Errorf("open build history: %w", err)
	}
	d.store = store

	if m.Daemon.NATSURL != "" {
		pub, err := events.NewNATSPublisher(m.Daemon.NATSURL, m.Daemon.Subject)
		if err != nil {
			// The daemon stays useful without an event bus.
			slog.Warn("Event publishing disabled", "error", err)
		} else {
			d.publisher = pub
		}
	}

	watcher, err := NewWatcher(baseDir, m.Daemon.WatchPaths, m.Daemon.DebounceDuration(defaultDebounce), d.recorder)
	if err != nil {
		store.Close()
		return nil, err
	}
	d.watcher = watcher

	scheduler, err := NewScheduler()
	if err != nil {
		store.Close()
		_ = watcher.Stop()
		return nil, err
	}
	d.scheduler = scheduler

	d.server = NewStatusServer(m.Daemon.Listen, m.App.Name, store, d.recorder)

	return d, nil
}

// Start runs the daemon until the context is cancelled.
func (d *Daemon) Start(ctx context.Context) error {
	slog.Info("Daemon starting", "manifest", d.manifestPath)

	d.server.Start()
	d.watcher.Start(ctx)

	m, err := manifest.Load(d.manifestPath)
	if err != nil {
		return err
	}
	if interval := m.Daemon.IntervalDuration(); interval > 0 {
		if _, err := d.scheduler.SchedulePeriodic(interval, "periodic-build", func() {
			slog.Info("Scheduled rebuild triggered")
			d.runBuild(ctx, "schedule")
		}); err != nil {
			return err
		}
	}
	d.scheduler.Start(ctx)

	// Build once at startup so the daemon begins from a known state.
	d.runBuild(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.watcher.Triggers():
			slog.Info("Rebuild triggered by filesystem change")
			d.runBuild(ctx, "watch")
		}
	}
}

// Stop shuts down all daemon components.
func (d *Daemon) Stop(ctx context.Context) error {
	var firstErr error

	if err := d.watcher.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.scheduler.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.server.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if d.publisher != nil {
		d.publisher.Close()
	}
	if err := d.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

// runBuild reloads the manifest, validates it, and runs the freezer (and
// optionally the docs pipeline). Failures are logged, not fatal; the daemon
// keeps watching.
func (d *Daemon) runBuild(ctx context.Context, trigger string) {
	d.server.SetBuilding(true)
	defer d.server.SetBuilding(false)

	m, err := manifest.Load(d.manifestPath)
	if err != nil {
		slog.Error("Manifest load failed, skipping build", "error", err)
		return
	}
	if res := manifest.Validate(m, d.baseDir); !res.OK() {
		slog.Error("Manifest invalid, skipping build", "problems", res.Problems)
		return
	}

	runner := &toolchain.ExecRunner{Stream: os.Stdout}
	builder := freeze.NewBuilder(runner, d.baseDir,
		freeze.WithStore(d.store),
		freeze.WithRecorder(d.recorder),
		freeze.WithPublisher(publisherAdapter{d.publisher}))

	rec, err := builder.Build(ctx, m)
	d.server.SetLastBuild(rec)
	if err != nil {
		slog.Error("Build failed", "trigger", trigger, "error", err)
		return
	}

	if d.buildDocs {
		pipeline := docs.NewPipeline(runner, d.baseDir).WithRecorder(d.recorder)
		docsEvent := events.TypeDocsSucceeded
		if err := pipeline.Run(ctx, m.Docs); err != nil {
			docsEvent = events.TypeDocsFailed
			slog.Error("Docs build failed", "trigger", trigger, "error", err)
		}
		if d.publisher != nil {
			if err := d.publisher.PublishBuildEvent(ctx, docsEvent, rec); err != nil {
				slog.Warn("Failed to publish docs event", "type", docsEvent, "error", err)
			}
		}
	}
}

// publisherAdapter bridges events.Publisher to the builder's EventSink,
// keeping nil-safety and the wire-type mapping in one place.
type publisherAdapter struct {
	pub events.Publisher
}

func (a publisherAdapter) PublishBuildEvent(ctx context.Context, eventType string, rec *freeze.BuildRecord) error {
	if a.pub == nil {
		return nil
	}
	return a.pub.PublishBuildEvent(ctx, events.TypeForBuildEvent(eventType), rec)
}

func resolveInDir(dir, path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
