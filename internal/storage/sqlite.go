// Package storage provides SQLite-based persistence for training runs and
// their episodes. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies. The Q-table itself is never stored.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Episode outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// Run represents one training session.
type Run struct {
	ID         string
	Level      string
	Maze       string
	Seed       int64
	Epsilon    float64
	Alpha      float64
	Gamma      float64
	Steps      int64
	QStates    int
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in progress
}

// Finished reports whether the run was closed.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Episode represents one attempt of a run, from restart to success or failure.
type Episode struct {
	ID        int64
	RunID     string
	Episode   int
	Steps     int
	Outcome   string
	Reward    float64
	CreatedAt time.Time
}

// RunStats contains aggregated statistics for a run.
type RunStats struct {
	RunID     string
	Episodes  int
	Successes int
	Failures  int
	BestSteps int // shortest successful episode, 0 if none
	AvgSteps  float64
}

// SuccessRate returns successes per finished episode.
func (s RunStats) SuccessRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Episodes)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			level TEXT NOT NULL,
			maze TEXT NOT NULL,
			seed INTEGER NOT NULL,
			epsilon REAL NOT NULL,
			alpha REAL NOT NULL,
			gamma REAL NOT NULL,
			steps INTEGER NOT NULL DEFAULT 0,
			q_states INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			episode INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			reward REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_run ON episodes(run_id, episode);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateRun records the start of a run. An empty ID is replaced by a new
// UUID. Returns the run ID.
func (s *Store) CreateRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, level, maze, seed, epsilon, alpha, gamma)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Level, r.Maze, r.Seed, r.Epsilon, r.Alpha, r.Gamma,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot create run: %w", err)
	}
	return r.ID, nil
}

// FinishRun stores the final counters of a run and marks it finished.
func (s *Store) FinishRun(id string, steps int64, qStates int) error {
	res, err := s.db.Exec(
		`UPDATE runs SET steps = ?, q_states = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`,
		steps, qStates, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: unknown run %s", id)
	}
	return nil
}

// SaveEpisode records one finished episode.
// Returns the ID of the inserted record.
func (s *Store) SaveEpisode(e Episode) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO episodes (run_id, episode, steps, outcome, reward)
		 VALUES (?, ?, ?, ?, ?)`,
		e.RunID, e.Episode, e.Steps, e.Outcome, e.Reward,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, level, maze, seed, epsilon, alpha, gamma, steps, q_states, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var startedAt, finishedAt any
	err := row.Scan(&r.ID, &r.Level, &r.Maze, &r.Seed, &r.Epsilon, &r.Alpha, &r.Gamma,
		&r.Steps, &r.QStates, &startedAt, &finishedAt)
	if err != nil {
		return r, err
	}
	r.StartedAt = parseTime(startedAt)
	r.FinishedAt = parseTime(finishedAt)
	return r, nil
}

// Run retrieves a run by ID. Returns nil if it does not exist.
func (s *Store) Run(id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY started_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunEpisodes retrieves every episode of a run in episode order.
func (s *Store) RunEpisodes(runID string) ([]Episode, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, episode, steps, outcome, reward, created_at
		 FROM episodes
		 WHERE run_id = ?
		 ORDER BY episode`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var e Episode
		var createdAt any
		if err := rows.Scan(&e.ID, &e.RunID, &e.Episode, &e.Steps, &e.Outcome, &e.Reward, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		episodes = append(episodes, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return episodes, nil
}

// RunStats retrieves aggregated statistics for a run.
func (s *Store) RunStats(runID string) (*RunStats, error) {
	stats := &RunStats{RunID: runID}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MIN(CASE WHEN outcome = ? THEN steps END), 0),
		        COALESCE(AVG(steps), 0)
		 FROM episodes WHERE run_id = ?`,
		OutcomeSucceeded, OutcomeFailed, OutcomeSucceeded, runID,
	).Scan(&stats.Episodes, &stats.Successes, &stats.Failures, &stats.BestSteps, &stats.AvgSteps)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	return stats, nil
}

// DeleteRun removes a run and its episodes.
func (s *Store) DeleteRun(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM episodes WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete episodes: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and the textual SQLite formats.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	case []byte:
		return parseTime(string(t))
	}
	return time.Time{}
}
