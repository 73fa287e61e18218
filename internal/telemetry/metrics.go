package telemetry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type Counter struct {
	val atomic.Int64
}

func (c *Counter) Inc()         { c.val.Add(1) }
func (c *Counter) Add(n int64)  { c.val.Add(n) }
func (c *Counter) Value() int64 { return c.val.Load() }

type Gauge struct {
	val atomic.Int64
}

func (g *Gauge) Set(v int64)  { g.val.Store(v) }
func (g *Gauge) Inc()         { g.val.Add(1) }
func (g *Gauge) Dec()         { g.val.Add(-1) }
func (g *Gauge) Value() int64 { return g.val.Load() }

// LatencyTracker keeps the most recent maxKeep samples.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	maxKeep int
}

func NewLatencyTracker(maxKeep int) *LatencyTracker {
	return &LatencyTracker{maxKeep: maxKeep}
}

func (lt *LatencyTracker) Record(d time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.samples = append(lt.samples, d)
	if len(lt.samples) > lt.maxKeep {
		lt.samples = lt.samples[len(lt.samples)-lt.maxKeep:]
	}
}

// Since records the time elapsed from start.
func (lt *LatencyTracker) Since(start time.Time) { lt.Record(time.Since(start)) }

func (lt *LatencyTracker) P50() time.Duration { return lt.percentile(0.50) }
func (lt *LatencyTracker) P99() time.Duration { return lt.percentile(0.99) }

func (lt *LatencyTracker) Count() int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return len(lt.samples)
}

func (lt *LatencyTracker) percentile(p float64) time.Duration {
	lt.mu.Lock()
	sorted := make([]time.Duration, len(lt.samples))
	copy(sorted, lt.samples)
	lt.mu.Unlock()
	if len(sorted) == 0 {
		return 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

// Metrics is the global metrics registry.
var Metrics = struct {
	MatchesLoaded      Counter
	DecodeErrors       Counter
	MatchesSimulated   Counter
	DegradedMatches    Counter
	CounterfactualRuns Counter
	CorpusLoads        Counter
	ActiveWorkers      Gauge
	SimLatency         *LatencyTracker
	CorpusLoadLatency  *LatencyTracker
}{
	SimLatency:        NewLatencyTracker(10000),
	CorpusLoadLatency: NewLatencyTracker(100),
}

// Summary renders the registry as one log line.
func Summary() string {
	m := &Metrics
	return fmt.Sprintf(
		"loaded=%d decode_errors=%d simulated=%d degraded=%d counterfactuals=%d corpus_loads=%d sim_p50=%s sim_p99=%s",
		m.MatchesLoaded.Value(), m.DecodeErrors.Value(), m.MatchesSimulated.Value(),
		m.DegradedMatches.Value(), m.CounterfactualRuns.Value(), m.CorpusLoads.Value(),
		m.SimLatency.P50(), m.SimLatency.P99(),
	)
}
