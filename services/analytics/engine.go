package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"

	"slotcal/metrics"
	"slotcal/models"

	"go.uber.org/zap"
)

// Engine memoises Analyze per slot snapshot. A cache failure only costs a recomputation.
type Engine struct {
	cache   Cache
	logger  *zap.Logger
	metrics *metrics.Recorder
}

func NewEngine(cache Cache, logger *zap.Logger, rec *metrics.Recorder) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cache: cache, logger: logger, metrics: rec}
}

func (e *Engine) Analyze(ctx context.Context, slots []models.Slot) models.CalendarAnalytics {
	if e.cache == nil {
		return Analyze(slots)
	}

	key := Fingerprint(slots)
	cached, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("analytics cache read failed", zap.Error(err))
	}
	e.metrics.CacheLookup(ok)
	if ok {
		return cached
	}

	a := Analyze(slots)
	if err := e.cache.Set(ctx, key, a); err != nil {
		e.logger.Warn("analytics cache write failed", zap.Error(err))
	}
	return a
}

// Fingerprint hashes the (id, start, end, isBooked) tuple of every slot. The
// result does not depend on slot order.
func Fingerprint(slots []models.Slot) string {
	rows := make([]string, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, s.ID+"|"+
			strconv.FormatInt(s.StartTime.UnixNano(), 10)+"|"+
			strconv.FormatInt(s.EndTime.UnixNano(), 10)+"|"+
			strconv.FormatBool(s.IsBooked))
	}
	sort.Strings(rows)

	h := sha256.New()
	for _, r := range rows {
		h.Write([]byte(r))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Warm computes and stores analytics ahead of the first read.
func (e *Engine) Warm(ctx context.Context, slots []models.Slot) error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Set(ctx, Fingerprint(slots), Analyze(slots))
}
