package match

// Builder produces a modified copy of a match without touching the
// source. Only the parts that are actually changed get copied: a side's
// player map on the first rating adjustment, a side's bonus set on the
// first bonus edit. Everything else is shared with the source record.
type Builder struct {
	m             Match
	playersCopied map[Side]bool
	bonusesCopied map[Side]bool
}

func NewBuilder(src *Match) *Builder {
	return &Builder{
		m:             *src,
		playersCopied: make(map[Side]bool, 2),
		bonusesCopied: make(map[Side]bool, 2),
	}
}

func (b *Builder) players(s Side) map[string]Player {
	t := b.m.Team(s)
	if !b.playersCopied[s] {
		cp := make(map[string]Player, len(t.Players))
		for id, p := range t.Players {
			cp[id] = p
		}
		t.Players = cp
		b.playersCopied[s] = true
	}
	return t.Players
}

func (b *Builder) bonuses(s Side) *Bonuses {
	t := b.m.Team(s)
	if !b.bonusesCopied[s] {
		t.Bonuses = t.Bonuses.Clone()
		b.bonusesCopied[s] = true
	}
	return &t.Bonuses
}

// AdjustBonusRating adds delta to one player's bonus rating. It reports
// false when the player is not in the side's player map.
func (b *Builder) AdjustBonusRating(s Side, playerID string, delta float64) bool {
	if _, ok := b.m.Team(s).Players[playerID]; !ok {
		return false
	}
	players := b.players(s)
	p := players[playerID]
	p.BonusRating += delta
	players[playerID] = p
	return true
}

// AdjustFieldPlayers adds delta to the bonus rating of every
// non-goalkeeper on the side and returns how many players changed.
func (b *Builder) AdjustFieldPlayers(s Side, delta float64) int {
	players := b.players(s)
	n := 0
	for id, p := range players {
		if p.Position == Goalkeeper {
			continue
		}
		p.BonusRating += delta
		players[id] = p
		n++
	}
	return n
}

// StartingGoalkeeper returns the player ID in pitch slot 1.
func (b *Builder) StartingGoalkeeper(s Side) (string, bool) {
	slot, ok := b.m.Team(s).Pitch[1]
	if !ok || slot.PlayerID == "" {
		return "", false
	}
	return slot.PlayerID, true
}

func (b *Builder) DropBonus(s Side, k Kind) {
	b.bonuses(s).remove(k)
}

// ReinstateCancellation clears the neutralized flag on the side's own goal
// cancellation, if it has one.
func (b *Builder) ReinstateCancellation(s Side) {
	if b.m.Team(s).Bonuses.RemoveGoal == nil {
		return
	}
	b.bonuses(s).RemoveGoal.Canceled = false
}

// Build returns the working copy. The builder must not be used afterwards.
func (b *Builder) Build() *Match {
	out := b.m
	return &out
}
