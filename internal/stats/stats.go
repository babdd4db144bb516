package stats

import (
	"sort"
	"sync"
	"time"
)

// Outcome classifies how a dispatch was served.
type Outcome string

const (
	OutcomeRemote   Outcome = "remote"
	OutcomeFallback Outcome = "fallback"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	outcome    Outcome
}

// Snapshot is a point-in-time aggregate of dispatch samples.
type Snapshot struct {
	Count         int     `json:"count"`
	RemoteCount   int     `json:"remote_count"`
	FallbackCount int     `json:"fallback_count"`
	MinMs         int64   `json:"min_ms"`
	MaxMs         int64   `json:"max_ms"`
	AvgMs         float64 `json:"avg_ms"`
	P50Ms         float64 `json:"p50_ms"`
	P95Ms         float64 `json:"p95_ms"`
	P99Ms         float64 `json:"p99_ms"`
}

// QueryStats tracks recent dispatch latencies and outcomes within a rolling
// window. The fallback count tells operators how often the service is
// degraded, which confidence values alone do not reveal.
type QueryStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func New(maxAge time.Duration) *QueryStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &QueryStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

func (s *QueryStats) Record(durationMs int64, outcome Outcome) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp:  now,
		durationMs: durationMs,
		outcome:    outcome,
	})
}

func (s *QueryStats) Snapshot() Snapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return Snapshot{}
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	remote, fallback := 0, 0
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		switch sm.outcome {
		case OutcomeFallback:
			fallback++
		default:
			remote++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return Snapshot{
		Count:         len(values),
		RemoteCount:   remote,
		FallbackCount: fallback,
		MinMs:         values[0],
		MaxMs:         values[len(values)-1],
		AvgMs:         float64(sum) / float64(len(values)),
		P50Ms:         percentile(values, 50),
		P95Ms:         percentile(values, 95),
		P99Ms:         percentile(values, 99),
	}
}

func (s *QueryStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
