package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
	"github.com/pifslicer-design/mpg-assistant/internal/telemetry"
)

// MatchSource is anything that can produce a scored corpus.
type MatchSource interface {
	ScoredMatches(ctx context.Context, q CorpusQuery) ([]*match.Match, error)
}

// Corpus memoizes corpus loads so concurrent analyses over the same query
// share one read. Random queries are never cached. Callers must treat the
// returned matches as read-only.
type Corpus struct {
	src     MatchSource
	sfGroup singleflight.Group
	mu      sync.RWMutex
	loaded  map[CorpusQuery][]*match.Match
}

func NewCorpus(src MatchSource) *Corpus {
	return &Corpus{src: src, loaded: make(map[CorpusQuery][]*match.Match)}
}

func (c *Corpus) Scored(ctx context.Context, q CorpusQuery) ([]*match.Match, error) {
	if q.Random {
		return c.load(ctx, q)
	}

	c.mu.RLock()
	ms, ok := c.loaded[q]
	c.mu.RUnlock()
	if ok {
		return ms, nil
	}

	v, err, _ := c.sfGroup.Do(fmt.Sprintf("%+v", q), func() (any, error) {
		c.mu.RLock()
		ms, ok := c.loaded[q]
		c.mu.RUnlock()
		if ok {
			return ms, nil
		}
		ms, err := c.load(ctx, q)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.loaded[q] = ms
		c.mu.Unlock()
		return ms, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*match.Match), nil
}

func (c *Corpus) load(ctx context.Context, q CorpusQuery) ([]*match.Match, error) {
	start := time.Now()
	ms, err := c.src.ScoredMatches(ctx, q)
	if err != nil {
		return nil, err
	}
	telemetry.Metrics.CorpusLoads.Inc()
	telemetry.Metrics.CorpusLoadLatency.Since(start)
	telemetry.Debugf("corpus: loaded %d matches in %s", len(ms), time.Since(start).Round(time.Millisecond))
	return ms, nil
}

// Forget drops every cached corpus, e.g. after an import.
func (c *Corpus) Forget() {
	c.mu.Lock()
	clear(c.loaded)
	c.mu.Unlock()
}
