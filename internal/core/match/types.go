package match

import (
	"encoding/json"
	"fmt"
)

// Position is the platform's position code for a player.
type Position int

const (
	PositionUnknown Position = 0
	Goalkeeper      Position = 1
	Defender        Position = 2
	Midfielder      Position = 3
	Forward         Position = 4
)

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "GK"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MID"
	case Forward:
		return "FWD"
	default:
		return fmt.Sprintf("POS(%d)", int(p))
	}
}

type Side string

const (
	Home Side = "home"
	Away Side = "away"
)

func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Home, Away:
		return Side(s), nil
	}
	return "", fmt.Errorf("unknown side %q (use home or away)", s)
}

// SubKind marks a starting slot that was filled by a substitution.
type SubKind string

const (
	SubNone      SubKind = ""
	SubMandatory SubKind = "mandatory"
	SubTactical  SubKind = "tactical"
)

// LastStarterSlot is the highest pitch slot that counts as a starter.
// Slot 1 is always the goalkeeper; slots above 11 are the bench.
const LastStarterSlot = 11

// Player is one entry of a team's player map. Rating is nil when the
// player received no rating (postponed game, did not play).
type Player struct {
	PlayerID     string   `json:"playerId"`
	Position     Position `json:"position"`
	Rating       *float64 `json:"rating"`
	BonusRating  float64  `json:"bonusRating"`
	Goals        int      `json:"goals"`
	CanceledGoal int      `json:"canceledGoal"`
	MpgGoals     int      `json:"mpgGoals"`
	OwnGoals     int      `json:"ownGoals"`
	LastName     string   `json:"lastName"`
}

type PitchSlot struct {
	PlayerID string  `json:"playerId"`
	IsSub    SubKind `json:"isSub"`
}

type Team struct {
	TeamID  string            `json:"teamId"`
	Score   *float64          `json:"score"`
	Players map[string]Player `json:"players"`
	Pitch   map[int]PitchSlot `json:"playersOnPitch"`
	Bonuses Bonuses           `json:"bonuses"`
}

// RecordedScore returns the platform's final score for the team.
func (t *Team) RecordedScore() (int, bool) {
	if t.Score == nil {
		return 0, false
	}
	return int(*t.Score), true
}

// Match is one fantasy match record as stored in raw_json.
type Match struct {
	ID          string `json:"id"`
	GameWeek    int    `json:"gameWeek"`
	Season      int    `json:"championshipSeason"`
	FinalResult int    `json:"finalResult"`
	Home        Team   `json:"home"`
	Away        Team   `json:"away"`
}

func (m *Match) Team(s Side) *Team {
	if s == Home {
		return &m.Home
	}
	return &m.Away
}

// Scored reports whether both recorded scores are present.
func (m *Match) Scored() bool {
	return m.Home.Score != nil && m.Away.Score != nil
}

// UnmarshalJSON accepts both the "home"/"away" and the older
// "homeTeam"/"awayTeam" spellings of the team objects.
func (m *Match) UnmarshalJSON(data []byte) error {
	type plain Match
	var aux struct {
		plain
		HomeTeam *Team `json:"homeTeam"`
		AwayTeam *Team `json:"awayTeam"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Match(aux.plain)
	if m.Home.TeamID == "" && m.Home.Players == nil && aux.HomeTeam != nil {
		m.Home = *aux.HomeTeam
	}
	if m.Away.TeamID == "" && m.Away.Players == nil && aux.AwayTeam != nil {
		m.Away = *aux.AwayTeam
	}
	return nil
}

// Decode parses one raw match payload.
func Decode(raw []byte) (*Match, error) {
	var m Match
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode match: %w", err)
	}
	return &m, nil
}
