package engine

import "github.com/pifslicer-design/mpg-assistant/internal/core/match"

// NeutralLineAverage stands in for an empty line so an unusual formation
// is neither helped nor hurt.
const NeutralLineAverage = 5.0

// LineAverages is the mean effective rating of each of a team's lines.
type LineAverages struct {
	Goalkeeper float64
	Defender   float64
	Midfielder float64
	Forward    float64
}

func (a LineAverages) Of(line match.Position) float64 {
	switch line {
	case match.Goalkeeper:
		return a.Goalkeeper
	case match.Defender:
		return a.Defender
	case match.Midfielder:
		return a.Midfielder
	case match.Forward:
		return a.Forward
	}
	return NeutralLineAverage
}

// ComputeLineAverages expects starters in slot order; the goalkeeper line is
// the first goalkeeper's effective rating.
func ComputeLineAverages(starters []PlayerSlot) LineAverages {
	var sum, count [match.Forward + 1]float64
	gk, haveGK := 0.0, false
	for _, p := range starters {
		if p.Position < match.Goalkeeper || p.Position > match.Forward {
			continue
		}
		if p.Position == match.Goalkeeper && !haveGK {
			gk, haveGK = p.EffectiveRating(), true
		}
		sum[p.Position] += p.EffectiveRating()
		count[p.Position]++
	}
	avg := func(pos match.Position) float64 {
		if count[pos] == 0 {
			return NeutralLineAverage
		}
		return sum[pos] / count[pos]
	}
	if !haveGK {
		gk = NeutralLineAverage
	}
	return LineAverages{
		Goalkeeper: gk,
		Defender:   avg(match.Defender),
		Midfielder: avg(match.Midfielder),
		Forward:    avg(match.Forward),
	}
}
