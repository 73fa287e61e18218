package impact

import (
	"context"
	"sort"
	"time"

	"github.com/pifslicer-design/mpg-assistant/internal/core/engine"
	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
	"github.com/pifslicer-design/mpg-assistant/internal/telemetry"
	"github.com/pifslicer-design/mpg-assistant/internal/workers"
)

// Outcome is a match result from one side's point of view.
type Outcome int

const (
	Loss Outcome = iota
	Draw
	Win
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "W"
	case Draw:
		return "D"
	default:
		return "L"
	}
}

func Classify(goalsFor, goalsAgainst int) Outcome {
	switch {
	case goalsFor > goalsAgainst:
		return Win
	case goalsFor < goalsAgainst:
		return Loss
	default:
		return Draw
	}
}

// Score is a simulated result from one side's point of view.
type Score struct {
	For     int
	Against int
}

func (s Score) Diff() int        { return s.For - s.Against }
func (s Score) Outcome() Outcome { return Classify(s.For, s.Against) }

func scoreFor(r engine.MatchSimResult, side match.Side) Score {
	return Score{
		For:     r.Team(side).TotalGoals(),
		Against: r.Team(side.Opponent()).TotalGoals(),
	}
}

// Sample pairs the recorded-bonus run of one side with the run where that
// side did not play the bonus.
type Sample struct {
	MatchID string
	Side    match.Side
	Kind    match.Kind
	With    Score
	Without Score
}

// Delta is the goal-differential gain the bonus brought its side.
func (s Sample) Delta() int { return s.With.Diff() - s.Without.Diff() }

func (s Sample) OutcomeChanged() bool { return s.With.Outcome() != s.Without.Outcome() }

// Swapped exchanges the two runs.
func (s Sample) Swapped() Sample {
	s.With, s.Without = s.Without, s.With
	return s
}

// Samples returns one sample per side and kind played in m. It reports
// false when m cannot be simulated (a side without rated starters).
func Samples(m *match.Match, kinds []match.Kind) ([]Sample, bool) {
	with := engine.Simulate(m, engine.GroundTruth)
	if !with.Simulated {
		return nil, false
	}
	var out []Sample
	for _, side := range []match.Side{match.Home, match.Away} {
		bonuses := &m.Team(side).Bonuses
		for _, k := range kinds {
			if !bonuses.Has(k) {
				continue
			}
			without := engine.WithoutBonus(m, side, k)
			telemetry.Metrics.CounterfactualRuns.Inc()
			out = append(out, Sample{
				MatchID: m.ID,
				Side:    side,
				Kind:    k,
				With:    scoreFor(with, side),
				Without: scoreFor(without, side),
			})
		}
	}
	return out, true
}

type Options struct {
	// Kinds to measure; defaults to match.ImpactKinds.
	Kinds []match.Kind

	Workers int

	// ExcludeApproximate drops kinds whose counterfactual is a replay of
	// the recorded payload.
	ExcludeApproximate bool
}

func (o Options) kinds() []match.Kind {
	kinds := o.Kinds
	if len(kinds) == 0 {
		kinds = match.ImpactKinds
	}
	if !o.ExcludeApproximate {
		return kinds
	}
	out := make([]match.Kind, 0, len(kinds))
	for _, k := range kinds {
		if k.Reversible() {
			out = append(out, k)
		}
	}
	return out
}

// Collect builds the samples of every match in parallel. Matches that cannot
// be simulated are counted in skipped. Sample order follows ms.
func Collect(ctx context.Context, ms []*match.Match, opts Options) (samples []Sample, skipped int, err error) {
	kinds := opts.kinds()
	perMatch := make([][]Sample, len(ms))
	ok := make([]bool, len(ms))

	err = workers.ForEach(ctx, "impact", opts.Workers, ms, func(_ context.Context, i int, m *match.Match) error {
		start := time.Now()
		perMatch[i], ok[i] = Samples(m, kinds)
		telemetry.Metrics.SimLatency.Since(start)
		telemetry.Metrics.MatchesSimulated.Inc()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	for i := range ms {
		if !ok[i] {
			skipped++
			telemetry.Metrics.DegradedMatches.Inc()
			continue
		}
		samples = append(samples, perMatch[i]...)
	}
	return samples, skipped, nil
}

// BonusImpact is the aggregate effect of one bonus kind. Rates are
// percentages of Samples.
type BonusImpact struct {
	Kind    match.Kind
	Samples int

	MeanDelta        float64
	PositiveDeltaPct float64

	WinWith     float64
	DrawWith    float64
	LossWith    float64
	WinWithout  float64
	DrawWithout float64
	LossWithout float64

	OutcomeChangedPct float64

	// Approximate marks kinds whose counterfactual could not remove the
	// bonus effect.
	Approximate bool
}

type tally struct {
	n, deltaSum, positive, changed int
	with, without                  [3]int
}

// Summarize reduces samples per kind. Kinds without samples are absent.
func Summarize(samples []Sample) map[match.Kind]BonusImpact {
	tallies := make(map[match.Kind]*tally)
	for _, s := range samples {
		t := tallies[s.Kind]
		if t == nil {
			t = &tally{}
			tallies[s.Kind] = t
		}
		d := s.Delta()
		t.n++
		t.deltaSum += d
		if d > 0 {
			t.positive++
		}
		if s.OutcomeChanged() {
			t.changed++
		}
		t.with[s.With.Outcome()]++
		t.without[s.Without.Outcome()]++
	}

	out := make(map[match.Kind]BonusImpact, len(tallies))
	for k, t := range tallies {
		n := float64(t.n)
		pct := func(c int) float64 { return float64(c) / n * 100 }
		out[k] = BonusImpact{
			Kind:              k,
			Samples:           t.n,
			MeanDelta:         float64(t.deltaSum) / n,
			PositiveDeltaPct:  pct(t.positive),
			WinWith:           pct(t.with[Win]),
			DrawWith:          pct(t.with[Draw]),
			LossWith:          pct(t.with[Loss]),
			WinWithout:        pct(t.without[Win]),
			DrawWithout:       pct(t.without[Draw]),
			LossWithout:       pct(t.without[Loss]),
			OutcomeChangedPct: pct(t.changed),
			Approximate:       !k.Reversible(),
		}
	}
	return out
}

// Analysis is the result of an impact run over a corpus.
type Analysis struct {
	Impacts map[match.Kind]BonusImpact
	Matches int
	Skipped int
	Samples int
}

// Sorted lists impacts by descending mean delta, then by kind.
func (a Analysis) Sorted() []BonusImpact {
	out := make([]BonusImpact, 0, len(a.Impacts))
	for _, bi := range a.Impacts {
		out = append(out, bi)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanDelta != out[j].MeanDelta {
			return out[i].MeanDelta > out[j].MeanDelta
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func Analyze(ctx context.Context, ms []*match.Match, opts Options) (Analysis, error) {
	samples, skipped, err := Collect(ctx, ms, opts)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Impacts: Summarize(samples),
		Matches: len(ms),
		Skipped: skipped,
		Samples: len(samples),
	}, nil
}
