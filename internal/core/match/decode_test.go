package match

import (
	"encoding/json"
	"strings"
	"testing"
)

const sampleMatch = `{
  "id": "mpg_match_XYZ_3_1_5_2",
  "gameWeek": 5,
  "championshipSeason": 2024,
  "home": {
    "teamId": "mpg_team_1",
    "score": 2,
    "players": {
      "p1": {"playerId": "p1", "position": 1, "rating": 5.5, "lastName": "Lloris"},
      "p9": {"playerId": "p9", "position": 4, "rating": 7, "bonusRating": 1, "goals": 1, "lastName": "Mbappé"}
    },
    "playersOnPitch": {
      "1": {"playerId": "p1"},
      "9": {"playerId": "p9", "isSub": "tactical"}
    },
    "bonuses": {
      "boostOnePlayer": {"playerId": "p9"},
      "removeGoal": {"playerId": "q9", "isCanceled": true},
      "captain": {"playerId": "p9"}
    }
  },
  "awayTeam": {
    "teamId": "mpg_team_2",
    "score": null,
    "players": {},
    "bonuses": {"nerfGoalkeeper": {"bonusRating": -1}, "blockTacticalSubs": true}
  }
}`

func TestDecode_TypedBonuses(t *testing.T) {
	m, err := Decode([]byte(sampleMatch))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Season != 2024 || m.GameWeek != 5 {
		t.Errorf("season/gameweek = %d/%d, want 2024/5", m.Season, m.GameWeek)
	}
	if got := m.Home.Pitch[9]; got.PlayerID != "p9" || got.IsSub != SubTactical {
		t.Errorf("slot 9 = %+v", got)
	}
	p9 := m.Home.Players["p9"]
	if p9.Position != Forward || *p9.Rating != 7 || p9.BonusRating != 1 || p9.Goals != 1 {
		t.Errorf("p9 = %+v", p9)
	}

	b := m.Home.Bonuses
	if b.BoostOnePlayer == nil || b.BoostOnePlayer.PlayerID != "p9" {
		t.Fatalf("boostOnePlayer = %+v", b.BoostOnePlayer)
	}
	if got := b.BoostOnePlayer.DeltaOrDefault(); got != DefaultOnePlayerBoost {
		t.Errorf("DeltaOrDefault() = %v, want %v", got, DefaultOnePlayerBoost)
	}
	if b.RemoveGoal == nil || !b.RemoveGoal.Canceled {
		t.Errorf("removeGoal = %+v, want canceled", b.RemoveGoal)
	}
	if _, ok := b.Other["captain"]; !ok {
		t.Error("unknown bonus key was not preserved")
	}
	if !b.Has("captain") {
		t.Error(`Has("captain") = false`)
	}
}

func TestDecode_AwayTeamAlias(t *testing.T) {
	m, err := Decode([]byte(sampleMatch))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Away.TeamID != "mpg_team_2" {
		t.Errorf("away teamId = %q, want mpg_team_2", m.Away.TeamID)
	}
	if m.Scored() {
		t.Error("Scored() = true with a null away score")
	}
	if got := m.Away.Bonuses.NerfGoalkeeper.DeltaOr(DefaultGoalkeeperNerf); got != -1 {
		t.Errorf("nerfGoalkeeper delta = %v, want -1", got)
	}
	if m.Away.Bonuses.BlockTacticalSubs == nil {
		t.Error("bare true payload should mark blockTacticalSubs as used")
	}
}

func TestDecode_BadSlotKey(t *testing.T) {
	raw := `{"id":"m","home":{"playersOnPitch":{"gk":{"playerId":"p1"}}},"away":{}}`
	if _, err := Decode([]byte(raw)); err == nil {
		t.Fatal("want error for non-numeric pitch slot")
	}
}

func TestDecode_NonObjectPayload(t *testing.T) {
	raw := `{"id":"m","home":{"bonuses":{"removeGoal":"p9"}},"away":{}}`
	_, err := Decode([]byte(raw))
	if err == nil {
		t.Fatal("want error for string payload")
	}
	if !strings.Contains(err.Error(), "removeGoal") {
		t.Errorf("error %q does not name the bonus", err)
	}
}

func TestBonuses_KindsSorted(t *testing.T) {
	b := Bonuses{
		RemoveGoal:     &GoalCancel{PlayerID: "x"},
		BoostOnePlayer: &PlayerBoost{PlayerID: "y"},
		Other:          map[string]json.RawMessage{"captain": nil},
	}
	got := b.Kinds()
	want := []Kind{BoostOnePlayer, "captain", RemoveGoal}
	if len(got) != len(want) {
		t.Fatalf("Kinds() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Kinds()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBonuses_MarshalKeepsUnknownKeys(t *testing.T) {
	in := Bonuses{
		Mirror: &MirrorEffect{RemoveGoal: &GoalCancel{PlayerID: "h10"}},
		Other:  map[string]json.RawMessage{"captain": json.RawMessage(`{"playerId":"h9"}`)},
	}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out Bonuses
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if id, ok := out.Mirror.ReflectedTarget(); !ok || id != "h10" {
		t.Errorf("ReflectedTarget() = %q, %v", id, ok)
	}
	if !out.Has("captain") {
		t.Error("captain lost in round trip")
	}
}

func TestBonuses_CloneIsDeep(t *testing.T) {
	a := Bonuses{
		RemoveGoal: &GoalCancel{PlayerID: "x", Canceled: true},
		Mirror:     &MirrorEffect{RemoveGoal: &GoalCancel{PlayerID: "y"}},
	}
	c := a.Clone()
	c.RemoveGoal.Canceled = false
	c.Mirror.RemoveGoal.PlayerID = "z"
	if !a.RemoveGoal.Canceled || a.Mirror.RemoveGoal.PlayerID != "y" {
		t.Error("Clone shares pointers with its source")
	}
}

func TestParseSide(t *testing.T) {
	if s, err := ParseSide("away"); err != nil || s != Away {
		t.Errorf("ParseSide(away) = %v, %v", s, err)
	}
	if _, err := ParseSide("visitor"); err == nil {
		t.Error("want error for unknown side")
	}
	if Home.Opponent() != Away || Away.Opponent() != Home {
		t.Error("Opponent() is not an involution")
	}
}
