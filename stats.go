package memocache

import (
	"go.uber.org/atomic"

	"github.com/memocache/memocache/types"
)

// This file implements the built-in activity counters. They are always on;
// external sinks (Prometheus etc.) are additive via WithMetrics.

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	Expirations int64

	// Size is the number of stored entries at snapshot time.
	Size int
}

// HitRate is hits / (hits + misses), or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// statsCollector implements types.Metrics with atomic counters, so counting
// never adds a lock to the hot path and snapshots need no stop-the-world.
type statsCollector struct {
	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	expirations atomic.Int64
}

func (s *statsCollector) Hit()      { s.hits.Inc() }
func (s *statsCollector) Miss()     { s.misses.Inc() }
func (s *statsCollector) Eviction() { s.evictions.Inc() }
func (s *statsCollector) Expire()   { s.expirations.Inc() }

func (s *statsCollector) snapshot(size int) Stats {
	return Stats{
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Evictions:   s.evictions.Load(),
		Expirations: s.expirations.Load(),
		Size:        size,
	}
}

// fanoutMetrics duplicates every metric event to multiple sinks: the built-in
// collector always, plus whatever WithMetrics added.
type fanoutMetrics struct {
	sinks []types.Metrics
}

func newFanoutMetrics(sinks ...types.Metrics) types.Metrics {
	kept := make([]types.Metrics, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return fanoutMetrics{sinks: kept}
}

func (f fanoutMetrics) Hit() {
	for _, s := range f.sinks {
		s.Hit()
	}
}

func (f fanoutMetrics) Miss() {
	for _, s := range f.sinks {
		s.Miss()
	}
}

func (f fanoutMetrics) Eviction() {
	for _, s := range f.sinks {
		s.Eviction()
	}
}

func (f fanoutMetrics) Expire() {
	for _, s := range f.sinks {
		s.Expire()
	}
}
