package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// schema matches the evaluation harness's results table. The analysis
// side only ever reads it, but SaveResult exists so tests and fixture
// imports can populate a fresh DB.
var schema = `
CREATE TABLE IF NOT EXISTS evaluation_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	dialogue_id TEXT NOT NULL,
	profile_name TEXT NOT NULL,
	scenario_id TEXT,
	overall_score REAL,
	judge_model TEXT,
	rounds INTEGER,
	created_at TEXT NOT NULL,
	UNIQUE(run_id, dialogue_id)
);
CREATE INDEX IF NOT EXISTS idx_results_run ON evaluation_results(run_id);
`

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path, creating the parent
// directory and the schema if needed.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SqlStore{db: db}, nil
}

func (s *SqlStore) SaveResult(r *Result) (int64, error) {
	createdAt := r.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	res, err := s.db.Exec(`
		INSERT INTO evaluation_results
			(run_id, dialogue_id, profile_name, scenario_id, overall_score, judge_model, rounds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.DialogueID, r.ProfileName, r.ScenarioID, r.Score, r.JudgeModel, r.Rounds, createdAt)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	return res.LastInsertId()
}

func (s *SqlStore) GetResult(id int64) (*Result, error) {
	row := s.db.QueryRow(`
		SELECT id, run_id, dialogue_id, profile_name, scenario_id, overall_score, judge_model, rounds, created_at
		FROM evaluation_results WHERE id = ?`, id)
	return scanResult(row)
}

func (s *SqlStore) ListResultsByRun(runID string) ([]*Result, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, dialogue_id, profile_name, scenario_id, overall_score, judge_model, rounds, created_at
		FROM evaluation_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []*Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SqlStore) ListRuns() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT run_id FROM evaluation_results ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *SqlStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*Result, error) {
	var r Result
	var scenario, judge sql.NullString
	var score sql.NullFloat64
	var rounds sql.NullInt64
	err := row.Scan(&r.ID, &r.RunID, &r.DialogueID, &r.ProfileName,
		&scenario, &score, &judge, &rounds, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}
	r.ScenarioID = scenario.String
	r.Score = score.Float64
	r.JudgeModel = judge.String
	r.Rounds = int(rounds.Int64)
	return &r, nil
}
