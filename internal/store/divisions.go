package store

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultExpectedMatches is the match count of a complete season
// (8 teams, 14 game weeks, 4 matches each).
const DefaultExpectedMatches = 56

// DivisionPolicy tags divisions when metadata is refreshed. Covid lists
// divisions truncated by the 2020 shutdown; they cannot be told apart from
// an unfinished season by counts alone, so they are named explicitly.
type DivisionPolicy struct {
	ExpectedMatches int
	Covid           []string
	Current         string
}

type Division struct {
	ID              string
	Season          int
	Covid           bool
	Incomplete      bool
	Current         bool
	ExpectedMatches int
	Matches         int
	FirstGameWeek   int
	LastGameWeek    int
}

// RefreshDivisions recomputes divisions_metadata from the matches table
// and returns the number of divisions written.
func (s *Store) RefreshDivisions(ctx context.Context, p DivisionPolicy) (int, error) {
	if p.ExpectedMatches <= 0 {
		p.ExpectedMatches = DefaultExpectedMatches
	}
	covid := make(map[string]bool, len(p.Covid))
	for _, id := range p.Covid {
		covid[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("refresh divisions: begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT division_id, MAX(season), COUNT(*), MIN(game_week), MAX(game_week)
		FROM matches
		WHERE division_id IS NOT NULL AND division_id != ''
		GROUP BY division_id`)
	if err != nil {
		return 0, fmt.Errorf("refresh divisions: %w", err)
	}
	var divs []Division
	for rows.Next() {
		var d Division
		var season, gwMin, gwMax sql.NullInt64
		if err := rows.Scan(&d.ID, &season, &d.Matches, &gwMin, &gwMax); err != nil {
			rows.Close()
			return 0, fmt.Errorf("refresh divisions: scan: %w", err)
		}
		d.Season = int(season.Int64)
		d.FirstGameWeek = int(gwMin.Int64)
		d.LastGameWeek = int(gwMax.Int64)
		d.ExpectedMatches = p.ExpectedMatches
		d.Incomplete = d.Matches < p.ExpectedMatches
		d.Covid = covid[d.ID]
		d.Current = d.ID == p.Current
		divs = append(divs, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("refresh divisions: %w", err)
	}

	for _, d := range divs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO divisions_metadata
				(division_id, season, is_covid, is_incomplete, is_current,
				 expected_matches, n_matches, gw_min, gw_max)
			VALUES (?,?,?,?,?,?,?,?,?)
			ON CONFLICT(division_id) DO UPDATE SET
				season=excluded.season, is_covid=excluded.is_covid,
				is_incomplete=excluded.is_incomplete, is_current=excluded.is_current,
				expected_matches=excluded.expected_matches, n_matches=excluded.n_matches,
				gw_min=excluded.gw_min, gw_max=excluded.gw_max`,
			d.ID, d.Season, d.Covid, d.Incomplete, d.Current,
			d.ExpectedMatches, d.Matches, d.FirstGameWeek, d.LastGameWeek,
		)
		if err != nil {
			return 0, fmt.Errorf("refresh divisions: %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("refresh divisions: commit: %w", err)
	}
	return len(divs), nil
}

func (s *Store) Divisions(ctx context.Context) ([]Division, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT division_id, COALESCE(season, 0), is_covid, is_incomplete, is_current,
		       expected_matches, COALESCE(n_matches, 0), COALESCE(gw_min, 0), COALESCE(gw_max, 0)
		FROM divisions_metadata
		ORDER BY season, division_id`)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	defer rows.Close()

	var out []Division
	for rows.Next() {
		var d Division
		if err := rows.Scan(&d.ID, &d.Season, &d.Covid, &d.Incomplete, &d.Current,
			&d.ExpectedMatches, &d.Matches, &d.FirstGameWeek, &d.LastGameWeek); err != nil {
			return nil, fmt.Errorf("list divisions: scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
