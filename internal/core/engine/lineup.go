package engine

import (
	"sort"

	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
)

// VirtualGoalMinRating is the lowest effective rating that can produce a
// virtual goal.
const VirtualGoalMinRating = 5.0

// PlayerSlot is one rated starter as seen by the simulation.
type PlayerSlot struct {
	Slot        int
	PlayerID    string
	Position    match.Position
	Rating      float64
	BonusRating float64

	// RealGoals includes goals that were later canceled: a canceled goal
	// still makes the player ineligible for a virtual goal.
	RealGoals            int
	RecordedVirtualGoals int
	Name                 string
	Sub                  match.SubKind
}

func (p PlayerSlot) EffectiveRating() float64 {
	return p.Rating + p.BonusRating
}

func (p PlayerSlot) EligibleForVirtualGoal() bool {
	return p.RealGoals == 0 &&
		p.Position != match.Goalkeeper &&
		p.EffectiveRating() >= VirtualGoalMinRating
}

func (p PlayerSlot) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.PlayerID
}

// ParseStarters returns the rated starters (slots 1-11) of a team in slot
// order. Unrated starters are left out: they can neither score nor count
// towards a line average.
func ParseStarters(t *match.Team) []PlayerSlot {
	starters := make([]PlayerSlot, 0, match.LastStarterSlot)
	for slot, info := range t.Pitch {
		if slot < 1 || slot > match.LastStarterSlot || info.PlayerID == "" {
			continue
		}
		p, ok := t.Players[info.PlayerID]
		if !ok || p.Rating == nil {
			continue
		}
		starters = append(starters, PlayerSlot{
			Slot:                 slot,
			PlayerID:             info.PlayerID,
			Position:             p.Position,
			Rating:               *p.Rating,
			BonusRating:          p.BonusRating,
			RealGoals:            p.Goals + p.CanceledGoal,
			RecordedVirtualGoals: p.MpgGoals,
			Name:                 p.LastName,
			Sub:                  info.IsSub,
		})
	}
	sort.Slice(starters, func(i, j int) bool { return starters[i].Slot < starters[j].Slot })
	return starters
}

// countOwnGoals sums own goals of the team's starters. Bench own goals and
// unrated starters' own goals follow the pitch map, not the rating.
func countOwnGoals(t *match.Team) int {
	n := 0
	for slot, info := range t.Pitch {
		if slot < 1 || slot > match.LastStarterSlot || info.PlayerID == "" {
			continue
		}
		n += t.Players[info.PlayerID].OwnGoals
	}
	return n
}
