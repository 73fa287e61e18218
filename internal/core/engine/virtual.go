package engine

import "github.com/pifslicer-design/mpg-assistant/internal/core/match"

const (
	firstLinePenalty = 1.0
	nextLinePenalty  = 0.5
)

// attackPaths lists, per attacking position, the opposing lines to beat in
// order.
var attackPaths = map[match.Position][]match.Position{
	match.Forward:    {match.Defender, match.Goalkeeper},
	match.Midfielder: {match.Midfielder, match.Defender, match.Goalkeeper},
	match.Defender:   {match.Forward, match.Midfielder, match.Defender, match.Goalkeeper},
}

// AttackPath returns the opposing lines a player of the given position must cross.
func AttackPath(pos match.Position) []match.Position {
	return attackPaths[pos]
}

// CrossesLine compares a penalized rating against an opposing line.
// The home side wins ties.
func CrossesLine(rating, lineAvg float64, home bool) bool {
	if home {
		return rating >= lineAvg
	}
	return rating > lineAvg
}

// LinePenalty is the cumulative rating penalty applied when checking the
// i-th line (0-based) of an attack path. The first line is checked at the
// raw effective rating; later lines cost 1.5, 2.0, 2.5.
func LinePenalty(i int) float64 {
	if i == 0 {
		return 0
	}
	return firstLinePenalty + nextLinePenalty*float64(i)
}

// ScoresVirtualGoal walks the player's attack path against the opponent's
// line averages. A player scores at most one virtual goal.
func ScoresVirtualGoal(p PlayerSlot, opp LineAverages, home bool) bool {
	if !p.EligibleForVirtualGoal() {
		return false
	}
	path := attackPaths[p.Position]
	if len(path) == 0 {
		return false
	}
	rating := p.EffectiveRating()
	for i, line := range path {
		if !CrossesLine(rating-LinePenalty(i), opp.Of(line), home) {
			return false
		}
	}
	return true
}
