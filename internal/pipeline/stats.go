package pipeline

import (
	"slices"
	"sync"
	"time"
)

type buildSample struct {
	at         time.Time
	durationMs int64
	spans      int
}

// StatsSnapshot aggregates the builds recorded within the window.
type StatsSnapshot struct {
	Count      int     `json:"count"`
	Spans      int     `json:"spans"`
	MinMs      int64   `json:"min_ms"`
	MaxMs      int64   `json:"max_ms"`
	AvgMs      float64 `json:"avg_ms"`
	P50Ms      float64 `json:"p50_ms"`
	P95Ms      float64 `json:"p95_ms"`
	P99Ms      float64 `json:"p99_ms"`
	SpansPerMs float64 `json:"spans_per_ms"`
}

// BuildStats tracks recent outline build latencies within a rolling window.
type BuildStats struct {
	mu      sync.Mutex
	samples []buildSample
	window  time.Duration
}

func NewBuildStats(window time.Duration) *BuildStats {
	if window <= 0 {
		window = time.Hour
	}
	return &BuildStats{
		samples: make([]buildSample, 0, 256),
		window:  window,
	}
}

// Record adds one build of the given number of spans.
func (s *BuildStats) Record(d time.Duration, spans int) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, buildSample{at: now, durationMs: ms, spans: max(spans, 0)})
}

func (s *BuildStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	durations := make([]int64, 0, len(s.samples))
	var sum int64
	spans := 0
	for _, sm := range s.samples {
		durations = append(durations, sm.durationMs)
		sum += sm.durationMs
		spans += sm.spans
	}
	slices.Sort(durations)

	snap := StatsSnapshot{
		Count: len(durations),
		Spans: spans,
		MinMs: durations[0],
		MaxMs: durations[len(durations)-1],
		AvgMs: float64(sum) / float64(len(durations)),
		P50Ms: percentile(durations, 50),
		P95Ms: percentile(durations, 95),
		P99Ms: percentile(durations, 99),
	}
	if sum > 0 {
		snap.SpansPerMs = float64(spans) / float64(sum)
	}
	return snap
}

func (s *BuildStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm buildSample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []int64, pct float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[n-1])
	}

	rank := float64(n-1) * pct / 100
	lower := int(rank)
	if lower+1 >= n {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
