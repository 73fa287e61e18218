package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
	"github.com/pifslicer-design/mpg-assistant/internal/telemetry"
)

// CorpusQuery selects scored matches for batch analysis. Covid, current and
// incomplete divisions are excluded unless included explicitly. Matches of
// a division with no metadata row are kept.
type CorpusQuery struct {
	IncludeCovid      bool
	IncludeCurrent    bool
	IncludeIncomplete bool

	DivisionID string // optional restriction to one division
	Limit      int    // 0 = no limit
	Random     bool   // random order instead of season/division/game week
}

func (q CorpusQuery) where() (string, []any) {
	clauses := []string{
		"m.home_score IS NOT NULL",
		"m.away_score IS NOT NULL",
		"m.raw_json IS NOT NULL",
	}
	var args []any
	if !q.IncludeCovid {
		clauses = append(clauses, "COALESCE(d.is_covid, 0) = 0")
	}
	if !q.IncludeCurrent {
		clauses = append(clauses, "COALESCE(d.is_current, 0) = 0")
	}
	if !q.IncludeIncomplete {
		clauses = append(clauses, "COALESCE(d.is_incomplete, 0) = 0")
	}
	if q.DivisionID != "" {
		clauses = append(clauses, "m.division_id = ?")
		args = append(args, q.DivisionID)
	}
	return strings.Join(clauses, " AND "), args
}

// ScoredMatches loads and decodes the corpus selected by q. Records that
// fail to decode are logged and skipped.
func (s *Store) ScoredMatches(ctx context.Context, q CorpusQuery) ([]*match.Match, error) {
	where, args := q.where()
	order := "m.season, m.division_id, m.game_week, m.id"
	if q.Random {
		order = "RANDOM()"
	}
	limit := -1
	if q.Limit > 0 {
		limit = q.Limit
	}
	query := `SELECT m.id, m.raw_json
		FROM matches m
		LEFT JOIN divisions_metadata d ON d.division_id = m.division_id
		WHERE ` + where + `
		ORDER BY ` + order + `
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scored matches: %w", err)
	}
	defer rows.Close()

	var out []*match.Match
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scored matches: scan: %w", err)
		}
		m, err := match.Decode([]byte(raw))
		if err != nil {
			telemetry.Metrics.DecodeErrors.Inc()
			telemetry.Warnf("store: skipping %s: %v", id, err)
			continue
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scored matches: %w", err)
	}
	telemetry.Metrics.MatchesLoaded.Add(int64(len(out)))
	return out, nil
}

// BonusUsage counts, per team, how many times each bonus kind was played.
// upToGameWeek 0 means the whole season.
func (s *Store) BonusUsage(ctx context.Context, divisionID string, upToGameWeek int) (map[string]map[match.Kind]int, error) {
	query := `SELECT home_team_id, away_team_id, home_bonuses, away_bonuses FROM matches WHERE 1=1`
	var args []any
	if divisionID != "" {
		query += ` AND division_id = ?`
		args = append(args, divisionID)
	}
	if upToGameWeek > 0 {
		query += ` AND game_week <= ?`
		args = append(args, upToGameWeek)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bonus usage: %w", err)
	}
	defer rows.Close()

	used := make(map[string]map[match.Kind]int)
	for rows.Next() {
		var homeID, awayID, homeB, awayB sql.NullString
		if err := rows.Scan(&homeID, &awayID, &homeB, &awayB); err != nil {
			return nil, fmt.Errorf("bonus usage: scan: %w", err)
		}
		for _, side := range [2][2]sql.NullString{{homeID, homeB}, {awayID, awayB}} {
			team, raw := side[0], side[1]
			if !team.Valid || team.String == "" || !raw.Valid {
				continue
			}
			var b match.Bonuses
			if err := b.UnmarshalJSON([]byte(raw.String)); err != nil {
				return nil, fmt.Errorf("bonus usage: team %s: %w", team.String, err)
			}
			counts := used[team.String]
			if counts == nil {
				counts = make(map[match.Kind]int)
				used[team.String] = counts
			}
			for _, k := range b.Kinds() {
				counts[k]++
			}
		}
	}
	return used, rows.Err()
}

// MatchSummary is the indexed part of a stored match.
type MatchSummary struct {
	ID          string
	DivisionID  string
	Season      int
	GameWeek    int
	HomeTeamID  string
	AwayTeamID  string
	HomeScore   *float64
	AwayScore   *float64
	HomeBonuses string
	AwayBonuses string
	Finalized   bool
}

// Recent lists the most recently stored game weeks first.
func (s *Store) Recent(ctx context.Context, divisionID string, limit int) ([]MatchSummary, error) {
	query := `SELECT id, COALESCE(division_id, ''), COALESCE(season, 0), COALESCE(game_week, 0),
		       COALESCE(home_team_id, ''), COALESCE(away_team_id, ''), home_score, away_score,
		       COALESCE(home_bonuses, '{}'), COALESCE(away_bonuses, '{}'), is_finalized
		FROM matches`
	var args []any
	if divisionID != "" {
		query += ` WHERE division_id = ?`
		args = append(args, divisionID)
	}
	query += ` ORDER BY season DESC, game_week DESC, id LIMIT ?`
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent matches: %w", err)
	}
	defer rows.Close()

	var out []MatchSummary
	for rows.Next() {
		var r MatchSummary
		var home, away sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.DivisionID, &r.Season, &r.GameWeek,
			&r.HomeTeamID, &r.AwayTeamID, &home, &away,
			&r.HomeBonuses, &r.AwayBonuses, &r.Finalized); err != nil {
			return nil, fmt.Errorf("recent matches: scan: %w", err)
		}
		if home.Valid {
			r.HomeScore = &home.Float64
		}
		if away.Valid {
			r.AwayScore = &away.Float64
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
