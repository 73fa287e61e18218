package impact

import (
	"fmt"

	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
)

func f64(v float64) *float64 { return &v }

// quietTeam is a 4-4-2 of 4.5-rated starters: nobody is eligible for a
// virtual goal. IDs are prefix+slot, slots 10 and 11 are forwards.
func quietTeam(prefix string, score float64) match.Team {
	t := match.Team{
		TeamID:  "team_" + prefix,
		Score:   f64(score),
		Players: make(map[string]match.Player),
		Pitch:   make(map[int]match.PitchSlot),
	}
	for slot := 1; slot <= 11; slot++ {
		pos := match.Forward
		switch {
		case slot == 1:
			pos = match.Goalkeeper
		case slot <= 5:
			pos = match.Defender
		case slot <= 9:
			pos = match.Midfielder
		}
		id := fmt.Sprintf("%s%d", prefix, slot)
		t.Players[id] = match.Player{PlayerID: id, Position: pos, Rating: f64(4.5)}
		t.Pitch[slot] = match.PitchSlot{PlayerID: id}
	}
	return t
}

func edit(t *match.Team, id string, fn func(p *match.Player)) {
	p := t.Players[id]
	fn(&p)
	t.Players[id] = p
}

// boostedWin is a 1-0 home win carried by a boosted forward whose
// virtual goal disappears without the boost.
func boostedWin(id string) *match.Match {
	home := quietTeam("h", 1)
	away := quietTeam("a", 0)
	edit(&home, "h10", func(p *match.Player) { p.Rating = f64(5.0); p.BonusRating = 1.0; p.MpgGoals = 1 })
	home.Bonuses.BoostOnePlayer = &match.PlayerBoost{PlayerID: "h10"}
	return &match.Match{ID: id, Home: home, Away: away}
}

// drawWithRemoveGoal is a 0-0 draw where away cancelled h10's real goal.
func drawWithRemoveGoal(id string) *match.Match {
	home := quietTeam("h", 0)
	away := quietTeam("a", 0)
	edit(&home, "h10", func(p *match.Player) { p.Goals = 1 })
	away.Bonuses.RemoveGoal = &match.GoalCancel{PlayerID: "h10"}
	return &match.Match{ID: id, Home: home, Away: away}
}
