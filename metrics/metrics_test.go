package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.SearchPath(PathFast)
	r.SearchPath(PathFast)
	r.SearchPath(PathFallback)
	r.CacheLookup(true)
	r.CacheLookup(false)
	r.CacheLookup(false)
	r.ObserveAI(200*time.Millisecond, errors.New("boom"))
	r.StaleSearch()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.searches.WithLabelValues(PathFast)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.searches.WithLabelValues(PathFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.staleSearches))
	assert.Equal(t, 1, testutil.CollectAndCount(r.aiLatency))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.SearchPath(PathAI)
		r.CacheLookup(true)
		r.ObserveAI(time.Second, nil)
		r.StaleSearch()
	})
}
