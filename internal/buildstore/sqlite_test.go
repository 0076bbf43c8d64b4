package buildstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/packsmith/internal/freeze"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord(id string, ts time.Time) *freeze.BuildRecord {
	return &freeze.BuildRecord{
		ID:           id,
		AppName:      "test-procedure-app",
		AppVersion:   "1.0.0",
		Timestamp:    ts,
		ManifestHash: "abc123",
		Commit:       "deadbeef",
		Status:       freeze.StatusSuccess,
		Duration:     4200,
		ArtifactHashes: map[string]string{
			"test-procedure-app/test-procedure-app": "ff00",
		},
	}
}

func TestSaveAndGetRecord(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	rec := sampleRecord("build-1", time.Now())
	require.NoError(t, store.SaveRecord(ctx, rec))

	got, err := store.GetRecord(ctx, "build-1")
	require.NoError(t, err)
	assert.Equal(t, rec.AppName, got.AppName)
	assert.Equal(t, rec.ManifestHash, got.ManifestHash)
	assert.Equal(t, rec.Commit, got.Commit)
	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, rec.ArtifactHashes, got.ArtifactHashes)
}

func TestGetRecordNotFound(t *testing.T) {
	store := newStore(t)
	_, err := store.GetRecord(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build not found")
}

func TestSaveRecordReplacesStatus(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	rec := sampleRecord("build-1", time.Now())
	rec.Status = freeze.StatusRunning
	require.NoError(t, store.SaveRecord(ctx, rec))

	rec.Status = freeze.StatusFailed
	rec.ExitCode = 1
	require.NoError(t, store.SaveRecord(ctx, rec))

	got, err := store.GetRecord(ctx, "build-1")
	require.NoError(t, err)
	assert.Equal(t, freeze.StatusFailed, got.Status)
	assert.Equal(t, 1, got.ExitCode)
}

func TestListRecordsNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"build-1", "build-2", "build-3"} {
		rec := sampleRecord(id, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.SaveRecord(ctx, rec))
	}

	records, err := store.ListRecords(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "build-3", records[0].ID)
	assert.Equal(t, "build-2", records[1].ID)
}

func TestAppendAndGetEvents(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendEvent(ctx, "build-1", "started", []byte(`{"tool":"pyinstaller"}`), map[string]string{"trigger": "cli"}))
	require.NoError(t, store.AppendEvent(ctx, "build-1", "succeeded", nil, nil))
	require.NoError(t, store.AppendEvent(ctx, "build-2", "started", nil, nil))

	events, err := store.GetEvents(ctx, "build-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "started", events[0].EventType)
	assert.Equal(t, "cli", events[0].Metadata["trigger"])
	assert.Equal(t, "succeeded", events[1].EventType)
}

func TestPersistentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveRecord(context.Background(), sampleRecord("build-1", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetRecord(context.Background(), "build-1")
	require.NoError(t, err)
	assert.Equal(t, "test-procedure-app", got.AppName)
}
