package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromRecorderCounts(t *testing.T) {
	r := NewPromRecorder()

	r.BuildStarted()
	r.BuildCompleted("success", 3*time.Second)
	r.BuildCompleted("failed", time.Second)
	r.DocsCompleted("success", 500*time.Millisecond)
	r.WatchEvent()

	families, err := r.Gather().Gather()
	require.NoError(t, err)

	byName := map[string]bool{}
	for _, f := range families {
		byName[f.GetName()] = true
	}
	assert.True(t, byName["packsmith_builds_started_total"])
	assert.True(t, byName["packsmith_builds_total"])
	assert.True(t, byName["packsmith_build_duration_seconds"])
	assert.True(t, byName["packsmith_docs_runs_total"])
	assert.True(t, byName["packsmith_watch_events_total"])
}

func TestPromRecorderHandler(t *testing.T) {
	r := NewPromRecorder()
	r.BuildStarted()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "packsmith_builds_started_total 1")
}

func TestNoopRecorderIsSafe(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.BuildStarted()
	rec.BuildCompleted("success", time.Second)
	rec.DocsCompleted("failed", time.Second)
	rec.WatchEvent()
}
