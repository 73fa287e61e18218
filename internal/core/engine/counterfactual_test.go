package engine

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
)

func TestWithoutBonus_AbsentBonusIsGroundTruth(t *testing.T) {
	home := quietTeam("h", 1)
	away := quietTeam("a", 0)
	edit(&home, "h10", func(p *match.Player) { p.MpgGoals = 1 })
	m := newMatch(home, away)

	kinds := []match.Kind{
		match.BoostOnePlayer, match.BoostAllPlayers, match.NerfAllPlayers, match.NerfGoalkeeper,
		match.RemoveGoal, match.Mirror, match.BlockTacticalSubs, match.FourStrikers,
	}
	for _, kind := range kinds {
		got := WithoutBonus(m, match.Home, kind)
		want := Simulate(m, GroundTruth)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: counterfactual for an unused bonus differs from ground truth", kind)
		}
	}
}

func TestWithoutBonus_UntypedKindIsGroundTruth(t *testing.T) {
	home := quietTeam("h", 1)
	away := quietTeam("a", 0)
	home.Bonuses.Other = map[string]json.RawMessage{"captain": json.RawMessage(`{"playerId":"h10"}`)}
	m := newMatch(home, away)

	got := WithoutBonus(m, match.Home, "captain")

	if got.Mode != GroundTruth || !reflect.DeepEqual(got, Simulate(m, GroundTruth)) {
		t.Error("untyped bonus kind should return the ground-truth simulation")
	}
}

func TestWithoutBonus_BoostOnePlayer(t *testing.T) {
	home := quietTeam("h", 1)
	away := quietTeam("a", 0)
	edit(&home, "h10", func(p *match.Player) { p.Rating = f64(5.0); p.BonusRating = 1.0; p.MpgGoals = 1 })
	home.Bonuses.BoostOnePlayer = &match.PlayerBoost{PlayerID: "h10"}
	m := newMatch(home, away)

	with := Simulate(m, GroundTruth)
	without := WithoutBonus(m, match.Home, match.BoostOnePlayer)

	if with.Home.VirtualGoals != 1 {
		t.Fatalf("with: home virtual = %d, want 1", with.Home.VirtualGoals)
	}
	// 5.0 >= 4.5 crosses the defence, 3.5 >= 4.5 fails at the keeper.
	if without.Home.VirtualGoals != 0 {
		t.Errorf("without: home virtual = %d, want 0", without.Home.VirtualGoals)
	}
	if without.Mode != Probabilistic {
		t.Errorf("without: mode = %v, want probabilistic", without.Mode)
	}
	if m.Home.Players["h10"].BonusRating != 1.0 {
		t.Error("counterfactual modified the source match")
	}
}

func TestWithoutBonus_BoostOnePlayerStoredDelta(t *testing.T) {
	home := quietTeam("h", 0)
	away := quietTeam("a", 0)
	// 4.0 + 2.0 = 6.0 scores at home (6.0 >= 4.5, 4.5 >= 4.5); 4.0 alone is ineligible.
	edit(&home, "h11", func(p *match.Player) { p.Rating = f64(4.0); p.BonusRating = 2.0 })
	home.Bonuses.BoostOnePlayer = &match.PlayerBoost{PlayerID: "h11", Delta: f64(2.0)}
	m := newMatch(home, away)

	if !Simulate(m, Probabilistic).Home.HasVirtualGoal("h11") {
		t.Fatal("boosted h11 should score in a probabilistic replay")
	}
	if WithoutBonus(m, match.Home, match.BoostOnePlayer).Home.HasVirtualGoal("h11") {
		t.Error("h11 without the stored +2.0 should not score")
	}
}

func TestWithoutBonus_BoostAllPlayers(t *testing.T) {
	home := newTeam("h", 1, "4-4-2", 5, 4, 4, 4, 4, 4, 4, 4, 4, 5.5, 4)
	away := quietTeam("a", 0)
	for id, p := range home.Players {
		if p.Position != match.Goalkeeper {
			p.BonusRating = 0.5
			home.Players[id] = p
		}
	}
	edit(&home, "h10", func(p *match.Player) { p.MpgGoals = 1 })
	home.Bonuses.BoostAllPlayers = &match.RatingShift{}
	m := newMatch(home, away)

	if !Simulate(m, Probabilistic).Home.HasVirtualGoal("h10") {
		t.Fatal("boosted h10 (6.0) should score in a probabilistic replay")
	}
	without := WithoutBonus(m, match.Home, match.BoostAllPlayers)
	if without.Home.VirtualGoals != 0 {
		t.Errorf("without: home virtual = %d, want 0 (h10 back to 5.5)", without.Home.VirtualGoals)
	}
}

// nerfedHome gives every home field player bonus on top of a 4.0 rating,
// with forwards h10 and h11 rated f10 and f11. The keeper stays at 4.4.
func nerfedHome(bonus, f10, f11 float64) match.Team {
	home := newTeam("h", 1, "4-4-2", 4.4, 4, 4, 4, 4, 4, 4, 4, 4, f10, f11)
	for id, p := range home.Players {
		if p.Position != match.Goalkeeper {
			p.BonusRating = bonus
			home.Players[id] = p
		}
	}
	return home
}

func TestWithoutBonus_NerfAllPlayers(t *testing.T) {
	home := nerfedHome(0.5, 5.5, 6.0)
	// a10 away: 5.9 > 4.5 crosses the defence, 4.4 > 4.4 fails at the keeper.
	away := quietTeam("a", 0)
	edit(&away, "a10", func(p *match.Player) { p.Rating = f64(5.9) })
	home.Bonuses.NerfAllPlayers = &match.RatingShift{}
	m := newMatch(home, away)

	with := Simulate(m, Probabilistic)
	if !with.Home.HasVirtualGoal("h10") || !with.Home.HasVirtualGoal("h11") {
		t.Fatalf("with: h10 (6.0) and h11 (6.5) should both score, got %v", with.Home.VirtualScorers)
	}

	without := WithoutBonus(m, match.Home, match.NerfAllPlayers)

	// Default 0.5 off: h10 at 5.5 fails at the keeper (4.0 < 4.5), h11 at 6.0 still scores.
	if without.Home.HasVirtualGoal("h10") {
		t.Error("without: h10 should lose its goal once 0.5 is taken off")
	}
	if !without.Home.HasVirtualGoal("h11") {
		t.Error("without: h11 should keep its goal, only 0.5 is taken off")
	}
	// The home defence drops to 4.0, but the keeper stays at 4.4 and still stops a10.
	if without.Away.VirtualGoals != 0 {
		t.Errorf("without: away virtual = %d, want 0 (keeper must be left alone)", without.Away.VirtualGoals)
	}
	if m.Home.Players["h10"].BonusRating != 0.5 || m.Home.Players["h1"].BonusRating != 0 {
		t.Error("counterfactual modified the source match")
	}
}

func TestWithoutBonus_NerfAllPlayersStoredDelta(t *testing.T) {
	home := nerfedHome(1.0, 5.5, 5.0)
	away := quietTeam("a", 0)
	home.Bonuses.NerfAllPlayers = &match.RatingShift{Delta: f64(1.0)}
	m := newMatch(home, away)

	if got := Simulate(m, Probabilistic).Home.VirtualGoals; got != 2 {
		t.Fatalf("with: home virtual = %d, want 2", got)
	}
	// With the default 0.5, h10 would sit at 6.0 and still score.
	if got := WithoutBonus(m, match.Home, match.NerfAllPlayers).Home.VirtualGoals; got != 0 {
		t.Errorf("without: home virtual = %d, want 0 (stored 1.0 taken off)", got)
	}
}

func TestWithoutBonus_NerfGoalkeeper(t *testing.T) {
	home := quietTeam("h", 0)
	away := quietTeam("a", 1)
	edit(&home, "h1", func(p *match.Player) { p.Rating = f64(5.0); p.BonusRating = -1.0 })
	edit(&away, "a10", func(p *match.Player) { p.Rating = f64(6.0); p.MpgGoals = 1 })
	away.Bonuses.NerfGoalkeeper = &match.RatingShift{Delta: f64(-1.0)}
	m := newMatch(home, away)

	with := Simulate(m, GroundTruth)
	without := WithoutBonus(m, match.Away, match.NerfGoalkeeper)

	if with.Away.VirtualGoals != 1 {
		t.Fatalf("with: away virtual = %d, want 1", with.Away.VirtualGoals)
	}
	// Restored keeper at 5.0: 6.0-1.5 = 4.5 > 5.0 fails.
	if without.Away.VirtualGoals != 0 {
		t.Errorf("without: away virtual = %d, want 0", without.Away.VirtualGoals)
	}
	if m.Home.Players["h1"].BonusRating != -1.0 {
		t.Error("counterfactual modified the opposing keeper in the source match")
	}
}

func TestWithoutBonus_RemoveGoal(t *testing.T) {
	home := quietTeam("h", 0)
	away := quietTeam("a", 0)
	edit(&home, "h10", func(p *match.Player) { p.Goals = 1 })
	away.Bonuses.RemoveGoal = &match.GoalCancel{PlayerID: "h10"}
	m := newMatch(home, away)

	with := Simulate(m, GroundTruth)
	without := WithoutBonus(m, match.Away, match.RemoveGoal)

	if with.Home.RealGoals != 0 {
		t.Errorf("with: home real = %d, want 0", with.Home.RealGoals)
	}
	if without.Home.RealGoals != 1 {
		t.Errorf("without: home real = %d, want 1", without.Home.RealGoals)
	}
	if m.Away.Bonuses.RemoveGoal == nil {
		t.Error("counterfactual removed the bonus from the source match")
	}
}

func TestWithoutBonus_MirrorReinstatesCancellation(t *testing.T) {
	home := quietTeam("h", 0)
	away := quietTeam("a", 0)
	edit(&home, "h10", func(p *match.Player) { p.Goals = 1 })
	edit(&away, "a10", func(p *match.Player) { p.Goals = 1 })
	home.Bonuses.RemoveGoal = &match.GoalCancel{PlayerID: "a10", Canceled: true}
	away.Bonuses.Mirror = &match.MirrorEffect{RemoveGoal: &match.GoalCancel{PlayerID: "h10"}}
	m := newMatch(home, away)

	with := Simulate(m, GroundTruth)
	without := WithoutBonus(m, match.Away, match.Mirror)

	if with.Home.RealGoals != 0 || with.Away.RealGoals != 1 {
		t.Errorf("with: real = %d-%d, want 0-1", with.Home.RealGoals, with.Away.RealGoals)
	}
	if without.Home.RealGoals != 1 || without.Away.RealGoals != 0 {
		t.Errorf("without: real = %d-%d, want 1-0", without.Home.RealGoals, without.Away.RealGoals)
	}
	if !m.Home.Bonuses.RemoveGoal.Canceled {
		t.Error("counterfactual un-neutralized the cancellation in the source match")
	}
}

func TestWithoutBonus_TacticalBlockReplaysUnchanged(t *testing.T) {
	home := quietTeam("h", 1)
	away := quietTeam("a", 0)
	edit(&home, "h11", func(p *match.Player) { p.Rating = f64(6.5); p.MpgGoals = 1 })
	home.Bonuses.BlockTacticalSubs = &match.Flag{}
	m := newMatch(home, away)

	got := WithoutBonus(m, match.Home, match.BlockTacticalSubs)

	if !reflect.DeepEqual(got, Simulate(m, Probabilistic)) {
		t.Error("tactical block counterfactual should replay the payload unchanged")
	}
	if match.BlockTacticalSubs.Reversible() {
		t.Error("tactical block must be flagged as an approximation")
	}
}
