// Package metrics records build and docs pipeline metrics.
//
// Components receive a Recorder through dependency injection; NoopRecorder is
// the default so one-shot CLI runs carry no metrics machinery. The daemon
// swaps in PromRecorder and serves the registry over /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder defines the metrics operations emitted by the build pipeline.
type Recorder interface {
	BuildStarted()
	BuildCompleted(status string, duration time.Duration)
	DocsCompleted(status string, duration time.Duration)
	WatchEvent()
}

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

func (NoopRecorder) BuildStarted()                        {}
func (NoopRecorder) BuildCompleted(string, time.Duration) {}
func (NoopRecorder) DocsCompleted(string, time.Duration)  {}
func (NoopRecorder) WatchEvent()                          {}

// PromRecorder implements Recorder on a Prometheus registry.
type PromRecorder struct {
	registry      *prometheus.Registry
	buildsStarted prometheus.Counter
	buildsTotal   *prometheus.CounterVec
	buildSeconds  prometheus.Histogram
	docsTotal     *prometheus.CounterVec
	docsSeconds   prometheus.Histogram
	watchEvents   prometheus.Counter
}

// NewPromRecorder creates a recorder with its own registry.
func NewPromRecorder() *PromRecorder {
	r := &PromRecorder{registry: prometheus.NewRegistry()}

	r.buildsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "packsmith_builds_started_total",
		Help: "Number of freezer builds started.",
	})
	r.buildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "packsmith_builds_total",
		Help: "Number of freezer builds completed, by status.",
	}, []string{"status"})
	r.buildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "packsmith_build_duration_seconds",
		Help:    "Freezer build duration.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
	r.docsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "packsmith_docs_runs_total",
		Help: "Number of documentation builds completed, by status.",
	}, []string{"status"})
	r.docsSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "packsmith_docs_duration_seconds",
		Help:    "Documentation build duration.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
	r.watchEvents = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "packsmith_watch_events_total",
		Help: "Number of filesystem events that triggered rebuild scheduling.",
	})

	r.registry.MustRegister(r.buildsStarted, r.buildsTotal, r.buildSeconds,
		r.docsTotal, r.docsSeconds, r.watchEvents)
	return r
}

func (r *PromRecorder) BuildStarted() { r.buildsStarted.Inc() }

func (r *PromRecorder) BuildCompleted(status string, duration time.Duration) {
	r.buildsTotal.WithLabelValues(status).Inc()
	r.buildSeconds.Observe(duration.Seconds())
}

func (r *PromRecorder) DocsCompleted(status string, duration time.Duration) {
	r.docsTotal.WithLabelValues(status).Inc()
	r.docsSeconds.Observe(duration.Seconds())
}

func (r *PromRecorder) WatchEvent() { r.watchEvents.Inc() }

// Handler returns an HTTP handler serving the recorder's registry.
func (r *PromRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gather exposes the registry for tests.
func (r *PromRecorder) Gather() *prometheus.Registry { return r.registry }
