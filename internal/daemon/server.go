package daemon

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/packsmith/internal/buildstore"
	"git.home.luguber.info/inful/packsmith/internal/freeze"
	"git.home.luguber.info/inful/packsmith/internal/metrics"
	"git.home.luguber.info/inful/packsmith/internal/version"
)

// StatusServer exposes daemon state over HTTP: health, current status,
// recent build history, and Prometheus metrics.
type StatusServer struct {
	server   *http.Server
	store    buildstore.Store
	recorder *metrics.PromRecorder

	mu        sync.RWMutex
	appName   string
	startedAt time.Time
	lastBuild *freeze.BuildRecord
	building  bool
}

// statusResponse is the JSON body of GET /status.
type statusResponse struct {
	App       string              `json:"app"`
	Version   string              `json:"version"`
	Uptime    string              `json:"uptime"`
	Building  bool                `json:"building"`
	LastBuild *freeze.BuildRecord `json:"last_build,omitempty"`
}

// NewStatusServer creates the HTTP server on addr. The store may be nil when
// history is disabled.
func NewStatusServer(addr, appName string, store buildstore.Store, recorder *metrics.PromRecorder) *StatusServer {
	s := &StatusServer{
		store:     store,
		recorder:  recorder,
		appName:   appName,
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /builds", s.handleBuilds)
	if recorder != nil {
		mux.Handle("GET /metrics", recorder.Handler())
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving in a background goroutine.
func (s *StatusServer) Start() {
	go func() {
		slog.Info("Status server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Status server failed", "error", err)
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *StatusServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// SetBuilding marks whether a build is currently in flight.
func (s *StatusServer) SetBuilding(building bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.building = building
}

// SetLastBuild records the most recent build result.
func (s *StatusServer) SetLastBuild(rec *freeze.BuildRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastBuild = rec
}

func (s *StatusServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	resp := statusResponse{
		App:       s.appName,
		Version:   version.Version,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Building:  s.building,
		LastBuild: s.lastBuild,
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *StatusServer) handleBuilds(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []*freeze.BuildRecord{})
		return
	}

	records, err := s.store.ListRecords(r.Context(), 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if records == nil {
		records = []*freeze.BuildRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode JSON response", "error", err)
	}
}
