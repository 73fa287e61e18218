package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
	"github.com/pifslicer-design/mpg-assistant/internal/telemetry"

	_ "modernc.org/sqlite"
)

var ErrMatchNotFound = errors.New("match not found")

// Store persists raw match records and per-division metadata in SQLite.
// raw_json is the source of truth; the other match columns are extracted
// at import time for filtering.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id            TEXT PRIMARY KEY,
			game_week     INTEGER,
			season        INTEGER,
			division_id   TEXT,
			home_team_id  TEXT,
			away_team_id  TEXT,
			home_score    REAL,
			away_score    REAL,
			home_bonuses  TEXT,
			away_bonuses  TEXT,
			is_finalized  INTEGER DEFAULT 0,
			raw_json      TEXT,
			fetched_at    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_gw ON matches(game_week)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_season ON matches(season, division_id, game_week)`,
		`CREATE TABLE IF NOT EXISTS divisions_metadata (
			division_id       TEXT PRIMARY KEY,
			season            INTEGER,
			is_covid          INTEGER DEFAULT 0,
			is_incomplete     INTEGER DEFAULT 0,
			is_current        INTEGER DEFAULT 0,
			expected_matches  INTEGER DEFAULT 56,
			n_matches         INTEGER,
			gw_min            INTEGER,
			gw_max            INTEGER,
			notes             TEXT
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema (%s): %w", stmt, err)
		}
	}

	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("read row count: %w", err)
	}

	telemetry.Infof("Opened match store  path=%s  matches=%d", path, count)

	return &Store{db: db}, nil
}

// SaveMatches upserts one batch of raw match payloads for a division.
// gameWeek is used when a payload carries none. Every payload must decode;
// the batch is written in one transaction or not at all.
func (s *Store) SaveMatches(ctx context.Context, divisionID string, gameWeek int, raws []json.RawMessage) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save matches: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matches
			(id, game_week, season, division_id, home_team_id, away_team_id,
			 home_score, away_score, home_bonuses, away_bonuses, raw_json, fetched_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			season=excluded.season, division_id=excluded.division_id,
			home_score=excluded.home_score, away_score=excluded.away_score,
			home_bonuses=excluded.home_bonuses, away_bonuses=excluded.away_bonuses,
			raw_json=excluded.raw_json, fetched_at=excluded.fetched_at`)
	if err != nil {
		return 0, fmt.Errorf("save matches: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, raw := range raws {
		m, err := match.Decode(raw)
		if err != nil {
			telemetry.Metrics.DecodeErrors.Inc()
			return 0, fmt.Errorf("save matches: payload %d: %w", i, err)
		}
		if m.ID == "" {
			return 0, fmt.Errorf("save matches: payload %d: missing id", i)
		}
		gw := m.GameWeek
		if gw == 0 {
			gw = gameWeek
		}
		homeBonuses, err := json.Marshal(m.Home.Bonuses)
		if err != nil {
			return 0, fmt.Errorf("save matches: %s: %w", m.ID, err)
		}
		awayBonuses, err := json.Marshal(m.Away.Bonuses)
		if err != nil {
			return 0, fmt.Errorf("save matches: %s: %w", m.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			m.ID,
			gw,
			nullInt(m.Season),
			divisionID,
			m.Home.TeamID,
			m.Away.TeamID,
			m.Home.Score,
			m.Away.Score,
			string(homeBonuses),
			string(awayBonuses),
			string(raw),
			now,
		); err != nil {
			return 0, fmt.Errorf("save matches: %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save matches: commit: %w", err)
	}
	telemetry.Infof("store: GW%d  %d matches saved  [%s]", gameWeek, len(raws), divisionID)
	return len(raws), nil
}

// MarkFinalized flags every match of the division up to gameWeek as final.
func (s *Store) MarkFinalized(ctx context.Context, divisionID string, gameWeek int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE matches SET is_finalized=1 WHERE game_week <= ? AND division_id=? AND is_finalized=0`,
		gameWeek, divisionID)
	if err != nil {
		return 0, fmt.Errorf("mark finalized: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Match loads and decodes one stored match.
func (s *Store) Match(ctx context.Context, id string) (*match.Match, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT raw_json FROM matches WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", id, err)
	}
	m, err := match.Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", id, err)
	}
	return m, nil
}

// LastGameWeek returns the highest stored game week of the division, or 0.
func (s *Store) LastGameWeek(ctx context.Context, divisionID string) (int, error) {
	var gw sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(game_week) FROM matches WHERE division_id = ?`, divisionID).Scan(&gw)
	if err != nil {
		return 0, fmt.Errorf("last game week: %w", err)
	}
	return int(gw.Int64), nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nullInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}
