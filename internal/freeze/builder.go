package freeze

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	pserrors "git.home.luguber.info/inful/packsmith/internal/errors"
	"git.home.luguber.info/inful/packsmith/internal/gitmeta"
	"git.home.luguber.info/inful/packsmith/internal/manifest"
	"git.home.luguber.info/inful/packsmith/internal/metrics"
	"git.home.luguber.info/inful/packsmith/internal/toolchain"
)

// RecordSink persists build records and their lifecycle events. The build
// store satisfies this; a nil sink disables persistence.
type RecordSink interface {
	SaveRecord(ctx context.Context, rec *BuildRecord) error
	AppendEvent(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error
}

// EventSink publishes build lifecycle events to external systems.
// A nil sink disables publishing.
type EventSink interface {
	PublishBuildEvent(ctx context.Context, eventType string, rec *BuildRecord) error
}

// Event types attached to build records.
const (
	EventStarted   = "started"
	EventSucceeded = "succeeded"
	EventFailed    = "failed"
)

// Builder runs the external freezer for a manifest and records the outcome.
type Builder struct {
	runner    toolchain.Runner
	store     RecordSink
	publisher EventSink
	recorder  metrics.Recorder
	baseDir   string
}

// Option configures a Builder.
type Option func(*Builder)

// WithStore attaches a record sink.
func WithStore(s RecordSink) Option { return func(b *Builder) { b.store = s } }

// WithPublisher attaches an event sink.
func WithPublisher(p EventSink) Option { return func(b *Builder) { b.publisher = p } }

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(b *Builder) { b.recorder = r } }

// NewBuilder creates a builder running in baseDir (the directory containing
// the manifest; all manifest paths resolve against it).
func NewBuilder(runner toolchain.Runner, baseDir string, opts ...Option) *Builder {
	b := &Builder{
		runner:   runner,
		recorder: metrics.NoopRecorder{},
		baseDir:  baseDir,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates nothing; callers run manifest validation first. It requires
// the freezer on PATH, invokes it with the composed arguments, and returns the
// build record. The freezer's non-zero exit becomes a freeze error after the
// record is persisted, so failed builds still appear in history.
func (b *Builder) Build(ctx context.Context, m *manifest.Manifest) (*BuildRecord, error) {
	vcs := gitmeta.Read(b.baseDir)

	rec := &BuildRecord{
		ID:         uuid.NewString(),
		AppName:    m.App.Name,
		AppVersion: m.App.Version,
		Timestamp:  time.Now(),
		Commit:     vcs.Commit,
		Dirty:      vcs.Dirty,
		Status:     StatusRunning,
	}
	if hash, err := m.Hash(); err == nil {
		rec.ManifestHash = hash
	}

	b.recorder.BuildStarted()
	b.persist(ctx, rec, EventStarted, nil)
	b.publish(ctx, EventStarted, rec)

	tool := toolchain.Tool{
		Name:        m.Freezer.Tool,
		Description: "application freezer",
		VersionArgs: []string{"--version"},
	}
	if _, err := toolchain.Require(ctx, tool); err != nil {
		rec.Status = StatusFailed
		b.finish(ctx, rec, 0)
		return rec, err
	}

	args := ComposeArgs(m)
	slog.Info("Running application freezer",
		"tool", m.Freezer.Tool,
		"app", m.App.Name,
		"entry", m.Entry,
		"data_dirs", len(m.Data),
		"hidden_imports", len(m.Hidden),
		"excludes", len(m.Exclude))

	start := time.Now()
	res, err := b.runner.Run(ctx, b.baseDir, m.Freezer.Tool, args...)
	elapsed := time.Since(start)

	if err != nil {
		rec.Status = StatusFailed
		b.finish(ctx, rec, elapsed)
		return rec, pserrors.Wrap(err, pserrors.CategoryFreeze, pserrors.SeverityFatal,
			fmt.Sprintf("failed to start %s", m.Freezer.Tool))
	}

	rec.ExitCode = res.ExitCode
	if res.ExitCode != 0 {
		rec.Status = StatusFailed
		b.finish(ctx, rec, elapsed)
		return rec, pserrors.New(pserrors.CategoryFreeze, pserrors.SeverityFatal,
			fmt.Sprintf("%s exited with code %d", m.Freezer.Tool, res.ExitCode)).
			WithContext("exit_code", res.ExitCode)
	}

	if hashes, err := HashArtifacts(resolvePath(b.baseDir, m.Freezer.DistPath)); err != nil {
		slog.Warn("Failed to hash build artifacts", "error", err)
	} else {
		rec.ArtifactHashes = hashes
	}

	rec.Status = StatusSuccess
	b.finish(ctx, rec, elapsed)

	slog.Info("Bundle built successfully",
		"app", m.App.Name,
		"dist", m.Freezer.DistPath,
		"artifacts", len(rec.ArtifactHashes),
		"duration", elapsed.Round(time.Millisecond))
	return rec, nil
}

// finish stamps duration, persists the final record state, and emits the
// terminal lifecycle event plus metrics.
func (b *Builder) finish(ctx context.Context, rec *BuildRecord, elapsed time.Duration) {
	rec.Duration = elapsed.Milliseconds()
	b.recorder.BuildCompleted(rec.Status, elapsed)

	eventType := EventSucceeded
	if rec.Status != StatusSuccess {
		eventType = EventFailed
	}
	b.persist(ctx, rec, eventType, map[string]string{"status": rec.Status})
	b.publish(ctx, eventType, rec)
}

// publish forwards a lifecycle event to the external sink; failures are
// logged, never fatal.
func (b *Builder) publish(ctx context.Context, eventType string, rec *BuildRecord) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.PublishBuildEvent(ctx, eventType, rec); err != nil {
		slog.Warn("Failed to publish build event", "type", eventType, "error", err)
	}
}

// persist saves the record and appends an event; persistence failures are
// logged, never fatal to the build itself.
func (b *Builder) persist(ctx context.Context, rec *BuildRecord, eventType string, metadata map[string]string) {
	if b.store == nil {
		return
	}
	if err := b.store.SaveRecord(ctx, rec); err != nil {
		slog.Warn("Failed to save build record", "build_id", rec.ID, "error", err)
	}
	if err := b.store.AppendEvent(ctx, rec.ID, eventType, nil, metadata); err != nil {
		slog.Warn("Failed to append build event", "build_id", rec.ID, "error", err)
	}
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
