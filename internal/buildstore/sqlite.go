package buildstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/packsmith/internal/freeze"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based build store.
// Use ":memory:" for in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		app_name TEXT NOT NULL,
		app_version TEXT,
		timestamp INTEGER NOT NULL,
		manifest_hash TEXT,
		commit_hash TEXT,
		dirty INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		exit_code INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		artifact_hashes TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_timestamp ON builds(timestamp);
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB,
		metadata TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_events_build_id ON events(build_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRecord inserts or replaces a build record.
func (s *SQLiteStore) SaveRecord(ctx context.Context, rec *freeze.BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var artifactsJSON []byte
	if len(rec.ArtifactHashes) > 0 {
		var err error
		artifactsJSON, err = json.Marshal(rec.ArtifactHashes)
		if err != nil {
			return fmt.Errorf("marshal artifact hashes: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO builds
		 (id, app_name, app_version, timestamp, manifest_hash, commit_hash, dirty, status, exit_code, duration_ms, artifact_hashes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.AppName, rec.AppVersion, rec.Timestamp.Unix(), rec.ManifestHash,
		rec.Commit, boolToInt(rec.Dirty), rec.Status, rec.ExitCode, rec.Duration, artifactsJSON,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// GetRecord retrieves a build record by ID.
func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*freeze.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, app_name, app_version, timestamp, manifest_hash, commit_hash, dirty, status, exit_code, duration_ms, artifact_hashes
		 FROM builds WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("build not found: %s", id)
	}
	return rec, err
}

// ListRecords returns the most recent records, newest first.
func (s *SQLiteStore) ListRecords(ctx context.Context, limit int) ([]*freeze.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, app_name, app_version, timestamp, manifest_hash, commit_hash, dirty, status, exit_code, duration_ms, artifact_hashes
		 FROM builds ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var records []*freeze.BuildRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AppendEvent adds a lifecycle event for a build.
func (s *SQLiteStore) AppendEvent(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var metadataJSON []byte
	if metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (build_id, event_type, timestamp, payload, metadata) VALUES (?, ?, ?, ?, ?)",
		buildID, eventType, time.Now().Unix(), payload, metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetEvents retrieves all events for a build in append order.
func (s *SQLiteStore) GetEvents(ctx context.Context, buildID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, event_type, timestamp, payload, metadata FROM events WHERE build_id = ? ORDER BY id",
		buildID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev           Event
			ts           int64
			metadataJSON sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.BuildID, &ev.EventType, &ts, &ev.Payload, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Timestamp = time.Unix(ts, 0)
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &ev.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal event metadata: %w", err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*freeze.BuildRecord, error) {
	var (
		rec           freeze.BuildRecord
		ts            int64
		dirty         int
		artifactsJSON sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.AppName, &rec.AppVersion, &ts, &rec.ManifestHash,
		&rec.Commit, &dirty, &rec.Status, &rec.ExitCode, &rec.Duration, &artifactsJSON)
	if err != nil {
		return nil, err
	}
	rec.Timestamp = time.Unix(ts, 0)
	rec.Dirty = dirty != 0
	if artifactsJSON.Valid && artifactsJSON.String != "" {
		if err := json.Unmarshal([]byte(artifactsJSON.String), &rec.ArtifactHashes); err != nil {
			return nil, fmt.Errorf("unmarshal artifact hashes: %w", err)
		}
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
