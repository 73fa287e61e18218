package engine

import "github.com/pifslicer-design/mpg-assistant/internal/core/match"

// Mode selects where virtual goals come from.
type Mode int

const (
	// GroundTruth trusts the platform's recorded virtual goals.
	GroundTruth Mode = iota
	// Probabilistic recomputes virtual goals with the line-crossing walk.
	// Used for hypothetical lineups the platform never scored.
	Probabilistic
)

func (m Mode) String() string {
	if m == Probabilistic {
		return "probabilistic"
	}
	return "ground-truth"
}

type Scorer struct {
	PlayerID string
	Name     string
}

// TeamSimResult accumulates one team's goals in one simulated match.
type TeamSimResult struct {
	RealGoals    int
	VirtualGoals int
	OwnGoals     int // scored by the opponent's starters

	// VirtualScorers lists players credited with a virtual goal before any
	// cancellation.
	VirtualScorers []Scorer

	// CancelTargets lists the players targeted by cancellations applied
	// against this team, whether or not a goal was removed.
	CancelTargets []string

	credited map[string]bool
}

func (t TeamSimResult) TotalGoals() int {
	return t.RealGoals + t.VirtualGoals + t.OwnGoals
}

// HasVirtualGoal reports whether the player still holds a virtual goal.
func (t TeamSimResult) HasVirtualGoal(playerID string) bool {
	return t.credited[playerID]
}

func (t *TeamSimResult) creditVirtual(p PlayerSlot, goals int) {
	if t.credited == nil {
		t.credited = make(map[string]bool)
	}
	t.VirtualGoals += goals
	t.credited[p.PlayerID] = true
	t.VirtualScorers = append(t.VirtualScorers, Scorer{PlayerID: p.PlayerID, Name: p.DisplayName()})
}

// cancelGoal removes one goal of the targeted player. A real goal is taken
// before a virtual one; an unknown target changes nothing.
func (t *TeamSimResult) cancelGoal(starters []PlayerSlot, target string) {
	t.CancelTargets = append(t.CancelTargets, target)
	for _, p := range starters {
		if p.PlayerID == target && p.RealGoals > 0 {
			t.RealGoals = max(0, t.RealGoals-1)
			return
		}
	}
	if t.credited[target] {
		t.VirtualGoals = max(0, t.VirtualGoals-1)
		delete(t.credited, target)
	}
}

// MatchSimResult pairs both simulated teams with the recorded score.
// Simulated is false when a side had no rated starter; Home and Away are
// then empty and only the recorded scores are meaningful.
type MatchSimResult struct {
	MatchID   string
	Mode      Mode
	Simulated bool
	Home      TeamSimResult
	Away      TeamSimResult

	RecordedHome *int
	RecordedAway *int
}

func (r MatchSimResult) Team(s match.Side) TeamSimResult {
	if s == match.Home {
		return r.Home
	}
	return r.Away
}

func (r MatchSimResult) Recorded(s match.Side) (int, bool) {
	p := r.RecordedHome
	if s == match.Away {
		p = r.RecordedAway
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// GoalDiff is home total minus away total.
func (r MatchSimResult) GoalDiff() int {
	return r.Home.TotalGoals() - r.Away.TotalGoals()
}

// MatchesRecorded reports whether both simulated totals equal the
// recorded scores.
func (r MatchSimResult) MatchesRecorded() bool {
	if !r.Simulated || r.RecordedHome == nil || r.RecordedAway == nil {
		return false
	}
	return r.Home.TotalGoals() == *r.RecordedHome && r.Away.TotalGoals() == *r.RecordedAway
}

// Simulate rebuilds a match's score from its lineups. It never mutates m
// and never fails: missing data degrades to the documented defaults.
func Simulate(m *match.Match, mode Mode) MatchSimResult {
	res := MatchSimResult{MatchID: m.ID, Mode: mode}
	if v, ok := m.Home.RecordedScore(); ok {
		res.RecordedHome = &v
	}
	if v, ok := m.Away.RecordedScore(); ok {
		res.RecordedAway = &v
	}

	homeStarters := ParseStarters(&m.Home)
	awayStarters := ParseStarters(&m.Away)
	if len(homeStarters) == 0 || len(awayStarters) == 0 {
		return res
	}
	res.Simulated = true

	homeAvgs := ComputeLineAverages(homeStarters)
	awayAvgs := ComputeLineAverages(awayStarters)

	res.Home = scoreTeam(homeStarters, awayAvgs, true, mode)
	res.Away = scoreTeam(awayStarters, homeAvgs, false, mode)

	// Own goals come from the untouched payload, before any cancellation.
	res.Home.OwnGoals = countOwnGoals(&m.Away)
	res.Away.OwnGoals = countOwnGoals(&m.Home)

	// A team's cancellation hits the opponent, unless the opponent's
	// mirror neutralized it.
	if rg := m.Home.Bonuses.RemoveGoal; rg != nil && rg.PlayerID != "" && !rg.Canceled {
		res.Away.cancelGoal(awayStarters, rg.PlayerID)
	}
	if rg := m.Away.Bonuses.RemoveGoal; rg != nil && rg.PlayerID != "" && !rg.Canceled {
		res.Home.cancelGoal(homeStarters, rg.PlayerID)
	}

	// A mirror reflects a cancellation back at the opponent, on top of
	// anything the opponent declared.
	if mir := m.Home.Bonuses.Mirror; mir != nil {
		if target, ok := mir.ReflectedTarget(); ok {
			res.Away.cancelGoal(awayStarters, target)
		}
	}
	if mir := m.Away.Bonuses.Mirror; mir != nil {
		if target, ok := mir.ReflectedTarget(); ok {
			res.Home.cancelGoal(homeStarters, target)
		}
	}

	return res
}

func scoreTeam(starters []PlayerSlot, opp LineAverages, home bool, mode Mode) TeamSimResult {
	var t TeamSimResult
	for _, p := range starters {
		t.RealGoals += p.RealGoals
		switch mode {
		case GroundTruth:
			if p.RecordedVirtualGoals > 0 {
				t.creditVirtual(p, p.RecordedVirtualGoals)
			}
		case Probabilistic:
			if ScoresVirtualGoal(p, opp, home) {
				t.creditVirtual(p, 1)
			}
		}
	}
	return t
}
