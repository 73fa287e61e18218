package catalog

import (
	"errors"
	"testing"

	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
)

func TestLabel_KnownAndUnknown(t *testing.T) {
	c := Default()
	if got := c.Label(match.RemoveGoal); got != "Valise à Nanard" {
		t.Errorf("Label(removeGoal) = %q", got)
	}
	if got := c.Label("brandNewBonus"); got != "brandNewBonus" {
		t.Errorf("Label(unknown) = %q, want the raw key", got)
	}
	if got := c.Short(match.FourStrikers); got != "4 att." {
		t.Errorf("Short(fourStrikers) = %q", got)
	}
}

func TestResolve(t *testing.T) {
	c := Default()
	cases := []struct {
		in   string
		want match.Kind
	}{
		{"removeGoal", match.RemoveGoal},
		{"REMOVEGOAL", match.RemoveGoal},
		{"valise a nanard", match.RemoveGoal},
		{"  Valise   à Nanard ", match.RemoveGoal},
		{"decathlon", match.FourStrikers},
		{"Tonton Pat", match.BlockTacticalSubs},
		{"nerf gk", match.NerfGoalkeeper},
		{"Nérf", match.NerfAllPlayers},
		{"McDo", match.BoostOnePlayer},
	}
	for _, tc := range cases {
		got, err := c.Resolve(tc.in)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Resolve(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Default().Resolve("golden boot")
	if !errors.Is(err, ErrUnknownBonus) {
		t.Fatalf("err = %v, want ErrUnknownBonus", err)
	}
}

func TestConsumable_Order(t *testing.T) {
	cons := Default().Consumable()
	if len(cons) != 8 {
		t.Fatalf("len(Consumable()) = %d, want 8", len(cons))
	}
	if cons[0].Kind != match.BoostOnePlayer || cons[len(cons)-1].Kind != match.NerfAllPlayers {
		t.Errorf("order = %s .. %s", cons[0].Kind, cons[len(cons)-1].Kind)
	}
	for _, e := range cons {
		if e.Kind == "captain" {
			t.Error("captain listed as consumable")
		}
	}
}

func TestRemaining(t *testing.T) {
	used := map[match.Kind]int{
		match.BoostOnePlayer: 2,
		match.Mirror:         3,
		"captain":            19,
	}
	stocks := Default().Remaining(used)

	byKind := make(map[match.Kind]Stock, len(stocks))
	for _, s := range stocks {
		byKind[s.Entry.Kind] = s
	}
	if s := byKind[match.BoostOnePlayer]; s.Used != 2 || s.Remaining != 1 {
		t.Errorf("boostOnePlayer = %d used, %d left; want 2, 1", s.Used, s.Remaining)
	}
	if s := byKind[match.Mirror]; s.Remaining != 0 {
		t.Errorf("mirror remaining = %d, want 0 (clamped)", s.Remaining)
	}
	if s := byKind[match.RemoveGoal]; s.Used != 0 || s.Remaining != 1 {
		t.Errorf("removeGoal = %d used, %d left; want 0, 1", s.Used, s.Remaining)
	}
	if _, ok := byKind["captain"]; ok {
		t.Error("non-consumable captain in remaining stock")
	}
}

func TestUnlisted(t *testing.T) {
	got := Default().Unlisted(map[match.Kind]int{"zeta": 1, "alpha": 2, match.Mirror: 1})
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Errorf("Unlisted() = %v, want [alpha zeta]", got)
	}
}

func TestNew_Rejects(t *testing.T) {
	cases := map[string][]Entry{
		"missing key":    {{Label: "X"}},
		"duplicate key":  {{Kind: "a"}, {Kind: "a"}},
		"negative stock": {{Kind: "a", Stock: -1}},
		"label clash":    {{Kind: "a", Label: "Éclair"}, {Kind: "b", Label: "eclair"}},
	}
	for name, entries := range cases {
		if _, err := New(entries); err == nil {
			t.Errorf("%s: New accepted %+v", name, entries)
		}
	}
}

func TestDisplayLabel_NFC(t *testing.T) {
	decomposed := "Décathlon"
	if got := DisplayLabel(decomposed); got != "D\u00e9cathlon" {
		t.Errorf("DisplayLabel = %q, want composed form", got)
	}
}
