// Package buildstore persists build history: one record per freezer or docs
// run, plus the lifecycle events emitted while it ran.
package buildstore

import (
	"context"
	"time"

	"git.home.luguber.info/inful/packsmith/internal/freeze"
)

// Event is one lifecycle event attached to a build.
type Event struct {
	ID        int64             `json:"id"`
	BuildID   string            `json:"build_id"`
	EventType string            `json:"event_type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   []byte            `json:"payload,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Store is the build history persistence interface.
type Store interface {
	// SaveRecord inserts or replaces a build record.
	SaveRecord(ctx context.Context, rec *freeze.BuildRecord) error
	// GetRecord retrieves a build record by ID.
	GetRecord(ctx context.Context, id string) (*freeze.BuildRecord, error)
	// ListRecords returns the most recent records, newest first.
	ListRecords(ctx context.Context, limit int) ([]*freeze.BuildRecord, error)
	// AppendEvent adds a lifecycle event for a build.
	AppendEvent(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error
	// GetEvents retrieves all events for a build in append order.
	GetEvents(ctx context.Context, buildID string) ([]Event, error)
	// Close releases the underlying database.
	Close() error
}
