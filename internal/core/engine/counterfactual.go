package engine

import "github.com/pifslicer-design/mpg-assistant/internal/core/match"

// WithoutBonus replays a match as if side had not played kind. The
// modified match is always scored in Probabilistic mode: removing a bonus
// invalidates the platform's own virtual-goal attribution.
//
// If side did not play kind, or kind has no counterfactual model at all,
// the ground-truth simulation is returned unchanged.
//
// blockTacticalSubs and fourStrikers are approximations: the lineup they
// produced cannot be rebuilt from the record, so the payload is replayed
// as-is. Kind.Reversible reports false for both so callers can leave them
// out of impact statistics.
func WithoutBonus(m *match.Match, side match.Side, kind match.Kind) MatchSimResult {
	team := m.Team(side)
	if !kind.Typed() || !team.Bonuses.Has(kind) {
		return Simulate(m, GroundTruth)
	}

	b := match.NewBuilder(m)
	bonuses := &team.Bonuses
	opp := side.Opponent()

	switch kind {
	case match.BoostOnePlayer:
		boost := bonuses.BoostOnePlayer
		b.AdjustBonusRating(side, boost.PlayerID, -boost.DeltaOrDefault())
	case match.BoostAllPlayers:
		b.AdjustFieldPlayers(side, -bonuses.BoostAllPlayers.DeltaOr(match.DefaultAllPlayersBoost))
	case match.NerfAllPlayers:
		b.AdjustFieldPlayers(side, -bonuses.NerfAllPlayers.DeltaOr(match.DefaultAllPlayersNerf))
	case match.NerfGoalkeeper:
		// The stored delta is negative; subtracting it restores the keeper.
		if gk, ok := b.StartingGoalkeeper(opp); ok {
			b.AdjustBonusRating(opp, gk, -bonuses.NerfGoalkeeper.DeltaOr(match.DefaultGoalkeeperNerf))
		}
	case match.RemoveGoal:
		b.DropBonus(side, match.RemoveGoal)
	case match.Mirror:
		b.DropBonus(side, match.Mirror)
		b.ReinstateCancellation(opp)
	case match.BlockTacticalSubs, match.FourStrikers:
		// Replayed unchanged, see above.
	}

	return Simulate(b.Build(), Probabilistic)
}
