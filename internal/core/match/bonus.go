package match

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Kind is a bonus API key as sent by the platform.
type Kind string

const (
	BoostOnePlayer    Kind = "boostOnePlayer"
	BoostAllPlayers   Kind = "boostAllPlayers"
	NerfAllPlayers    Kind = "nerfAllPlayers"
	NerfGoalkeeper    Kind = "nerfGoalkeeper"
	RemoveGoal        Kind = "removeGoal"
	Mirror            Kind = "mirror"
	BlockTacticalSubs Kind = "blockTacticalSubs"
	FourStrikers      Kind = "fourStrikers"
)

// ImpactKinds is the default set of bonus kinds measured by impact analysis.
var ImpactKinds = []Kind{
	BoostOnePlayer, BoostAllPlayers, NerfGoalkeeper,
	NerfAllPlayers, RemoveGoal, Mirror,
}

const (
	DefaultOnePlayerBoost  = 1.0
	DefaultAllPlayersBoost = 0.5
	DefaultAllPlayersNerf  = 0.5
	DefaultGoalkeeperNerf  = -1.0
)

// Typed reports whether the kind has a typed payload in Bonuses.
func (k Kind) Typed() bool {
	switch k {
	case BoostOnePlayer, BoostAllPlayers, NerfAllPlayers, NerfGoalkeeper,
		RemoveGoal, Mirror, BlockTacticalSubs, FourStrikers:
		return true
	}
	return false
}

// Reversible reports whether a counterfactual run can undo the bonus.
// Tactical-substitution blocks and the four-strikers formation change the
// lineup itself, which cannot be rebuilt from a match record.
func (k Kind) Reversible() bool {
	switch k {
	case BoostOnePlayer, BoostAllPlayers, NerfAllPlayers, NerfGoalkeeper,
		RemoveGoal, Mirror:
		return true
	}
	return false
}

// PlayerBoost raises one of the team's own players.
type PlayerBoost struct {
	PlayerID string   `json:"playerId"`
	Delta    *float64 `json:"bonusRating,omitempty"`
}

func (b PlayerBoost) DeltaOrDefault() float64 {
	if b.Delta == nil {
		return DefaultOnePlayerBoost
	}
	return *b.Delta
}

// RatingShift is a flat per-player rating change (boost, nerf, goalkeeper nerf).
type RatingShift struct {
	Delta *float64 `json:"bonusRating,omitempty"`
}

func (r RatingShift) DeltaOr(fallback float64) float64 {
	if r.Delta == nil {
		return fallback
	}
	return *r.Delta
}

// GoalCancel removes one goal of the targeted opposing player.
// Canceled is set when the opponent's mirror neutralized it.
type GoalCancel struct {
	PlayerID string `json:"playerId"`
	Canceled bool   `json:"isCanceled,omitempty"`
}

// MirrorEffect carries the cancellation reflected back at the opponent.
type MirrorEffect struct {
	RemoveGoal *GoalCancel `json:"removeGoal,omitempty"`
}

// ReflectedTarget returns the opposing player hit by the reflected cancellation.
func (m MirrorEffect) ReflectedTarget() (string, bool) {
	if m.RemoveGoal == nil || m.RemoveGoal.PlayerID == "" {
		return "", false
	}
	return m.RemoveGoal.PlayerID, true
}

// Flag is a bonus whose payload carries nothing the engine reads.
type Flag struct{}

// Bonuses is one team's bonus set, keyed by kind. Kinds without a typed
// payload are kept verbatim in Other.
type Bonuses struct {
	BoostOnePlayer    *PlayerBoost
	BoostAllPlayers   *RatingShift
	NerfAllPlayers    *RatingShift
	NerfGoalkeeper    *RatingShift
	RemoveGoal        *GoalCancel
	Mirror            *MirrorEffect
	BlockTacticalSubs *Flag
	FourStrikers      *Flag

	Other map[string]json.RawMessage
}

func (b *Bonuses) Has(k Kind) bool {
	switch k {
	case BoostOnePlayer:
		return b.BoostOnePlayer != nil
	case BoostAllPlayers:
		return b.BoostAllPlayers != nil
	case NerfAllPlayers:
		return b.NerfAllPlayers != nil
	case NerfGoalkeeper:
		return b.NerfGoalkeeper != nil
	case RemoveGoal:
		return b.RemoveGoal != nil
	case Mirror:
		return b.Mirror != nil
	case BlockTacticalSubs:
		return b.BlockTacticalSubs != nil
	case FourStrikers:
		return b.FourStrikers != nil
	}
	_, ok := b.Other[string(k)]
	return ok
}

// Kinds lists every bonus present, sorted by key.
func (b *Bonuses) Kinds() []Kind {
	var out []Kind
	for _, k := range []Kind{
		BoostOnePlayer, BoostAllPlayers, NerfAllPlayers, NerfGoalkeeper,
		RemoveGoal, Mirror, BlockTacticalSubs, FourStrikers,
	} {
		if b.Has(k) {
			out = append(out, k)
		}
	}
	for k := range b.Other {
		out = append(out, Kind(k))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a copy that shares no pointers with b.
func (b Bonuses) Clone() Bonuses {
	c := Bonuses{
		BoostOnePlayer:    clonePtr(b.BoostOnePlayer),
		BoostAllPlayers:   clonePtr(b.BoostAllPlayers),
		NerfAllPlayers:    clonePtr(b.NerfAllPlayers),
		NerfGoalkeeper:    clonePtr(b.NerfGoalkeeper),
		RemoveGoal:        clonePtr(b.RemoveGoal),
		BlockTacticalSubs: clonePtr(b.BlockTacticalSubs),
		FourStrikers:      clonePtr(b.FourStrikers),
	}
	if b.Mirror != nil {
		c.Mirror = &MirrorEffect{RemoveGoal: clonePtr(b.Mirror.RemoveGoal)}
	}
	if b.Other != nil {
		c.Other = make(map[string]json.RawMessage, len(b.Other))
		for k, v := range b.Other {
			c.Other[k] = v
		}
	}
	return c
}

func (b *Bonuses) remove(k Kind) {
	switch k {
	case BoostOnePlayer:
		b.BoostOnePlayer = nil
	case BoostAllPlayers:
		b.BoostAllPlayers = nil
	case NerfAllPlayers:
		b.NerfAllPlayers = nil
	case NerfGoalkeeper:
		b.NerfGoalkeeper = nil
	case RemoveGoal:
		b.RemoveGoal = nil
	case Mirror:
		b.Mirror = nil
	case BlockTacticalSubs:
		b.BlockTacticalSubs = nil
	case FourStrikers:
		b.FourStrikers = nil
	default:
		delete(b.Other, string(k))
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (b *Bonuses) UnmarshalJSON(data []byte) error {
	*b = Bonuses{}
	if isNull(data) {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("bonuses: %w", err)
	}
	for key, payload := range raw {
		var err error
		switch Kind(key) {
		case BoostOnePlayer:
			b.BoostOnePlayer, err = decodePayload[PlayerBoost](key, payload)
		case BoostAllPlayers:
			b.BoostAllPlayers, err = decodePayload[RatingShift](key, payload)
		case NerfAllPlayers:
			b.NerfAllPlayers, err = decodePayload[RatingShift](key, payload)
		case NerfGoalkeeper:
			b.NerfGoalkeeper, err = decodePayload[RatingShift](key, payload)
		case RemoveGoal:
			b.RemoveGoal, err = decodePayload[GoalCancel](key, payload)
		case Mirror:
			b.Mirror, err = decodePayload[MirrorEffect](key, payload)
		case BlockTacticalSubs:
			b.BlockTacticalSubs = &Flag{}
		case FourStrikers:
			b.FourStrikers = &Flag{}
		default:
			if b.Other == nil {
				b.Other = make(map[string]json.RawMessage)
			}
			b.Other[key] = payload
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b Bonuses) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Other)+8)
	for k, v := range b.Other {
		out[k] = v
	}
	put := func(k Kind, present bool, v any) {
		if present {
			out[string(k)] = v
		}
	}
	put(BoostOnePlayer, b.BoostOnePlayer != nil, b.BoostOnePlayer)
	put(BoostAllPlayers, b.BoostAllPlayers != nil, b.BoostAllPlayers)
	put(NerfAllPlayers, b.NerfAllPlayers != nil, b.NerfAllPlayers)
	put(NerfGoalkeeper, b.NerfGoalkeeper != nil, b.NerfGoalkeeper)
	put(RemoveGoal, b.RemoveGoal != nil, b.RemoveGoal)
	put(Mirror, b.Mirror != nil, b.Mirror)
	put(BlockTacticalSubs, b.BlockTacticalSubs != nil, struct{}{})
	put(FourStrikers, b.FourStrikers != nil, struct{}{})
	return json.Marshal(out)
}

// decodePayload accepts an object, or a bare true/null marking the bonus as
// used without details. Anything else is a malformed record.
func decodePayload[T any](key string, payload json.RawMessage) (*T, error) {
	v := new(T)
	trimmed := bytes.TrimSpace(payload)
	if isNull(trimmed) || bytes.Equal(trimmed, []byte("true")) {
		return v, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("bonus %s: payload must be an object, got %s", key, trimmed)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return nil, fmt.Errorf("bonus %s: %w", key, err)
	}
	return v, nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
