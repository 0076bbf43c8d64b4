// Package events publishes build lifecycle events so external systems
// (CI dashboards, release tooling) can follow bundle builds without polling
// the history database.
package events

import (
	"context"
	"time"

	"git.home.luguber.info/inful/packsmith/internal/freeze"
)

// Build lifecycle event types.
const (
	TypeBuildStarted   = "build.started"
	TypeBuildSucceeded = "build.succeeded"
	TypeBuildFailed    = "build.failed"
	TypeDocsSucceeded  = "docs.succeeded"
	TypeDocsFailed     = "docs.failed"
)

// BuildEvent is the wire form of a published event.
type BuildEvent struct {
	Type       string    `json:"type"`
	BuildID    string    `json:"build_id"`
	AppName    string    `json:"app_name"`
	AppVersion string    `json:"app_version,omitempty"`
	Commit     string    `json:"commit,omitempty"`
	Status     string    `json:"status,omitempty"`
	ExitCode   int       `json:"exit_code,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers build events. Implementations must tolerate being nil;
// publishing is always best-effort and never fails a build.
type Publisher interface {
	PublishBuildEvent(ctx context.Context, eventType string, rec *freeze.BuildRecord) error
	Close()
}

// TypeForBuildEvent maps a builder lifecycle event to its wire type.
func TypeForBuildEvent(event string) string {
	switch event {
	case freeze.EventStarted:
		return TypeBuildStarted
	case freeze.EventSucceeded:
		return TypeBuildSucceeded
	default:
		return TypeBuildFailed
	}
}

// EventFromRecord converts a build record into its wire form.
func EventFromRecord(eventType string, rec *freeze.BuildRecord) BuildEvent {
	return BuildEvent{
		Type:       eventType,
		BuildID:    rec.ID,
		AppName:    rec.AppName,
		AppVersion: rec.AppVersion,
		Commit:     rec.Commit,
		Status:     rec.Status,
		ExitCode:   rec.ExitCode,
		DurationMS: rec.Duration,
		Timestamp:  time.Now().UTC(),
	}
}
