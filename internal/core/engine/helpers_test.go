package engine

import (
	"fmt"
	"strings"

	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
)

func f64(v float64) *float64 { return &v }

// newTeam builds eleven rated starters. formation is "D-M-F"; slot 1 is the
// goalkeeper and ratings are given in slot order. Player IDs are prefix+slot.
func newTeam(prefix string, score float64, formation string, ratings ...float64) match.Team {
	var d, m, f int
	if _, err := fmt.Sscanf(formation, "%d-%d-%d", &d, &m, &f); err != nil {
		panic(err)
	}
	if len(ratings) != 1+d+m+f {
		panic(fmt.Sprintf("formation %s needs %d ratings, got %d", formation, 1+d+m+f, len(ratings)))
	}
	t := match.Team{
		TeamID:  "team_" + prefix,
		Score:   f64(score),
		Players: make(map[string]match.Player),
		Pitch:   make(map[int]match.PitchSlot),
	}
	for i, r := range ratings {
		slot := i + 1
		pos := match.Goalkeeper
		switch {
		case slot == 1:
		case slot <= 1+d:
			pos = match.Defender
		case slot <= 1+d+m:
			pos = match.Midfielder
		default:
			pos = match.Forward
		}
		id := fmt.Sprintf("%s%d", prefix, slot)
		t.Players[id] = match.Player{
			PlayerID: id,
			Position: pos,
			Rating:   f64(r),
			LastName: strings.ToUpper(id),
		}
		t.Pitch[slot] = match.PitchSlot{PlayerID: id}
	}
	return t
}

// flat returns eleven copies of r.
func flat(r float64) []float64 {
	out := make([]float64, 11)
	for i := range out {
		out[i] = r
	}
	return out
}

func edit(t *match.Team, id string, fn func(p *match.Player)) {
	p, ok := t.Players[id]
	if !ok {
		panic("no player " + id)
	}
	fn(&p)
	t.Players[id] = p
}

func newMatch(home, away match.Team) *match.Match {
	return &match.Match{ID: "mpg_match_test", Home: home, Away: away}
}
