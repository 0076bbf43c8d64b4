package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/packsmith/internal/buildstore"
	"git.home.luguber.info/inful/packsmith/internal/freeze"
	"git.home.luguber.info/inful/packsmith/internal/metrics"
)

func newTestServer(t *testing.T) (*StatusServer, *buildstore.SQLiteStore) {
	t.Helper()
	store, err := buildstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := NewStatusServer("127.0.0.1:0", "test-procedure-app", store, metrics.NewPromRecorder())
	return s, store
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestHandleStatus(t *testing.T) {
	s, _ := newTestServer(t)
	s.SetBuilding(true)
	s.SetLastBuild(&freeze.BuildRecord{ID: "b1", AppName: "test-procedure-app", Status: freeze.StatusSuccess})

	req := httptest.NewRequest("GET", "/status", nil)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "test-procedure-app", resp.App)
	assert.True(t, resp.Building)
	require.NotNil(t, resp.LastBuild)
	assert.Equal(t, "b1", resp.LastBuild.ID)
}

func TestHandleBuilds(t *testing.T) {
	s, store := newTestServer(t)

	rec := &freeze.BuildRecord{
		ID:        "b1",
		AppName:   "test-procedure-app",
		Timestamp: time.Now(),
		Status:    freeze.StatusSuccess,
	}
	require.NoError(t, store.SaveRecord(context.Background(), rec))

	req := httptest.NewRequest("GET", "/builds", nil)
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var records []*freeze.BuildRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "b1", records[0].ID)
}

func TestHandleBuildsEmpty(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/builds", nil)
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
