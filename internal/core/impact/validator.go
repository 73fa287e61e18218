package impact

import (
	"context"
	"sort"

	"github.com/pifslicer-design/mpg-assistant/internal/core/engine"
	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
	"github.com/pifslicer-design/mpg-assistant/internal/telemetry"
	"github.com/pifslicer-design/mpg-assistant/internal/workers"
)

// Verdict grades a ground-truth simulation against the recorded score.
type Verdict int

const (
	Unchecked Verdict = iota
	Exact
	Near // both sides within one goal
	Wrong
)

func (v Verdict) String() string {
	switch v {
	case Exact:
		return "exact"
	case Near:
		return "near"
	case Wrong:
		return "wrong"
	default:
		return "unchecked"
	}
}

// Check is the validation of one match. AbsDiff sums both sides' absolute
// discrepancies.
type Check struct {
	MatchID      string
	Verdict      Verdict
	SimHome      int
	SimAway      int
	RecordedHome int
	RecordedAway int
	AbsDiff      int
}

// CheckMatch simulates m in ground-truth mode and grades it. Matches with a
// missing recorded score or a side without rated starters are Unchecked.
func CheckMatch(m *match.Match) Check {
	r := engine.Simulate(m, engine.GroundTruth)
	c := Check{MatchID: m.ID}
	if !r.Simulated || r.RecordedHome == nil || r.RecordedAway == nil {
		return c
	}
	c.SimHome, c.SimAway = r.Home.TotalGoals(), r.Away.TotalGoals()
	c.RecordedHome, c.RecordedAway = *r.RecordedHome, *r.RecordedAway
	dh := abs(c.SimHome - c.RecordedHome)
	da := abs(c.SimAway - c.RecordedAway)
	c.AbsDiff = dh + da
	switch {
	case dh == 0 && da == 0:
		c.Verdict = Exact
	case dh <= 1 && da <= 1:
		c.Verdict = Near
	default:
		c.Verdict = Wrong
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type Validation struct {
	Total   int
	Exact   int
	Near    int
	Wrong   int
	Skipped int

	MeanAbsDiff float64

	// Mismatches holds the Wrong checks, sorted by match ID.
	Mismatches []Check
}

func (v Validation) pct(n int) float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(n) / float64(v.Total) * 100
}

func (v Validation) ExactPct() float64 { return v.pct(v.Exact) }
func (v Validation) NearPct() float64  { return v.pct(v.Near) }
func (v Validation) WrongPct() float64 { return v.pct(v.Wrong) }

type ValidateOptions struct {
	Limit   int // 0 = every match
	Workers int
}

// Validate grades every match of ms (up to opts.Limit) against its
// recorded score. Unchecked matches do not count toward Total.
func Validate(ctx context.Context, ms []*match.Match, opts ValidateOptions) (Validation, error) {
	if opts.Limit > 0 && opts.Limit < len(ms) {
		ms = ms[:opts.Limit]
	}
	checks := make([]Check, len(ms))
	err := workers.ForEach(ctx, "validate", opts.Workers, ms, func(_ context.Context, i int, m *match.Match) error {
		checks[i] = CheckMatch(m)
		telemetry.Metrics.MatchesSimulated.Inc()
		return nil
	})
	if err != nil {
		return Validation{}, err
	}
	return summarizeChecks(checks), nil
}

func summarizeChecks(checks []Check) Validation {
	var v Validation
	diffSum := 0
	for _, c := range checks {
		switch c.Verdict {
		case Unchecked:
			v.Skipped++
			telemetry.Metrics.DegradedMatches.Inc()
			continue
		case Exact:
			v.Exact++
		case Near:
			v.Near++
		case Wrong:
			v.Wrong++
			v.Mismatches = append(v.Mismatches, c)
		}
		v.Total++
		diffSum += c.AbsDiff
	}
	if v.Total > 0 {
		v.MeanAbsDiff = float64(diffSum) / float64(v.Total)
	}
	sort.Slice(v.Mismatches, func(i, j int) bool {
		return v.Mismatches[i].MatchID < v.Mismatches[j].MatchID
	})
	return v
}
