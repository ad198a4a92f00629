// Package storage keeps the history of played levels in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeDied      Outcome = "died"
	OutcomeQuit      Outcome = "quit"
)

// ErrNoRuns is returned when a query that expects a run finds none.
var ErrNoRuns = errors.New("storage: no runs")

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one attempt at a level.
type Run struct {
	ID        int64
	Level     string
	Outcome   Outcome
	Kills     int
	Bullets   int
	Ticks     int
	Duration  time.Duration
	CreatedAt time.Time
}

// LevelStats aggregates every run of a level.
type LevelStats struct {
	Level       string
	Attempts    int
	Completions int
	Kills       int
	BestTime    time.Duration
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

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

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			outcome TEXT NOT NULL,
			kills INTEGER NOT NULL DEFAULT 0,
			bullets INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level, outcome, duration_ms);
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

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(r Run) (int64, error) {
	if r.Level == "" {
		return 0, fmt.Errorf("storage: cannot save run: empty level")
	}
	if r.Outcome == "" {
		r.Outcome = OutcomeQuit
	}

	result, err := s.db.Exec(
		`INSERT INTO runs (level, outcome, kills, bullets, ticks, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Level, string(r.Outcome), r.Kills, r.Bullets, r.Ticks, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns returns the latest runs, newest first. An empty level matches
// every level.
func (s *Store) RecentRuns(level string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level, outcome, kills, bullets, ticks, duration_ms, created_at
		 FROM runs
		 WHERE ? = '' OR level = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		level, level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// BestRun returns the fastest completed run of a level. Ties go to the run
// with more kills.
func (s *Store) BestRun(level string) (Run, error) {
	row := s.db.QueryRow(
		`SELECT id, level, outcome, kills, bullets, ticks, duration_ms, created_at
		 FROM runs
		 WHERE level = ? AND outcome = ?
		 ORDER BY duration_ms ASC, kills DESC, id ASC
		 LIMIT 1`,
		level, string(OutcomeCompleted),
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("storage: best run for %s: %w", level, ErrNoRuns)
	}
	return r, err
}

// Stats aggregates runs per level, ordered by level name.
func (s *Store) Stats() ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level,
		        COUNT(*),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        SUM(kills),
		        MIN(CASE WHEN outcome = ? THEN duration_ms END)
		 FROM runs
		 GROUP BY level
		 ORDER BY level`,
		string(OutcomeCompleted), string(OutcomeCompleted),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var st LevelStats
		var best sql.NullInt64
		if err := rows.Scan(&st.Level, &st.Attempts, &st.Completions, &st.Kills, &best); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if best.Valid {
			st.BestTime = time.Duration(best.Int64) * time.Millisecond
		}
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRuns deletes every run of a level. An empty level clears everything.
func (s *Store) ClearRuns(level string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE ? = '' OR level = ?", level, level)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var outcome string
	var durationMS int64
	var createdAt any
	if err := sc.Scan(&r.ID, &r.Level, &outcome, &r.Kills, &r.Bullets, &r.Ticks, &durationMS, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	r.Outcome = Outcome(outcome)
	r.Duration = time.Duration(durationMS) * time.Millisecond

	switch v := createdAt.(type) {
	case time.Time:
		r.CreatedAt = v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			r.CreatedAt = parsed
		}
	}
	return r, nil
}
