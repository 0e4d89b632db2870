// Package metrics exposes the calendar engine's Prometheus instruments.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search paths recorded by SearchPath.
const (
	PathAll      = "all"
	PathFast     = "fast"
	PathAI       = "ai"
	PathFallback = "fallback"
)

// Recorder groups the collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	searches      *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	aiLatency     *prometheus.HistogramVec
	staleSearches prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_search_requests_total",
			Help: "Slot searches by resolution path.",
		}, []string{"path"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calendar_analytics_cache_lookups_total",
			Help: "Analytics cache lookups by result.",
		}, []string{"result"}),
		aiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slot_search_ai_duration_seconds",
			Help:    "Latency of AI collaborator calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"outcome"}),
		staleSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slot_search_stale_total",
			Help: "Searches that finished after a newer search for the same session started.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.searches, r.cacheLookups, r.aiLatency, r.staleSearches)
	}
	return r
}

func (r *Recorder) SearchPath(path string) {
	if r == nil {
		return
	}
	r.searches.WithLabelValues(path).Inc()
}

func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

func (r *Recorder) ObserveAI(d time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.aiLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

func (r *Recorder) StaleSearch() {
	if r == nil {
		return
	}
	r.staleSearches.Inc()
}
