// Package history persists simulation step histories in SQLite.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"forest-fire/pkg/sims/forestfire"
)

// ErrNotFound is returned for unknown runs or steps.
var ErrNotFound = errors.New("not found")

// Store wraps a SQLite connection holding recorded runs.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		num_rows INTEGER NOT NULL,
		num_cols INTEGER NOT NULL,
		probability REAL NOT NULL,
		seed INTEGER NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS steps (
		run_id TEXT NOT NULL REFERENCES runs(id),
		step INTEGER NOT NULL,
		forest INTEGER NOT NULL,
		fire INTEGER NOT NULL,
		ash INTEGER NOT NULL,
		cells BLOB NOT NULL,
		PRIMARY KEY (run_id, step)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RunInfo describes a recorded run.
type RunInfo struct {
	ID        string
	CreatedAt time.Time
	Config    forestfire.Config
	Steps     int
}

// StepSummary holds the per-state counts of a recorded step.
type StepSummary struct {
	Step   int `db:"step"`
	Forest int `db:"forest"`
	Fire   int `db:"fire"`
	Ash    int `db:"ash"`
}

// Run appends the generations of one simulation run.
type Run struct {
	store *Store
	id    string
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// BeginRun registers a new run for cfg.
func (s *Store) BeginRun(cfg forestfire.Config) (*Run, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	id := uuid.NewString()
	_, err = s.conn.Exec(`INSERT INTO runs (id, created_at, num_rows, num_cols, probability, seed, config_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), cfg.Rows, cfg.Cols, cfg.Probability, cfg.Seed, string(cfgJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &Run{store: s, id: id}, nil
}

// Record appends g under step. Steps must arrive in order starting from 0;
// recorded steps are never overwritten.
func (r *Run) Record(step int, g *forestfire.Grid) error {
	tx, err := r.store.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int
	if err := tx.Get(&next, "SELECT COALESCE(MAX(step) + 1, 0) FROM steps WHERE run_id = ?", r.id); err != nil {
		return fmt.Errorf("next step: %w", err)
	}
	if step != next {
		return fmt.Errorf("%w: got %d, want %d", forestfire.ErrStepOutOfOrder, step, next)
	}

	stats := forestfire.StatsOf(g)
	_, err = tx.Exec(`INSERT INTO steps (run_id, step, forest, fire, ash, cells)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.id, step, stats.Forest, stats.Fire, stats.Ash, encodeCells(g),
	)
	if err != nil {
		return fmt.Errorf("insert step %d: %w", step, err)
	}
	return tx.Commit()
}

// Load returns the grid recorded for step of a run.
func (s *Store) Load(runID string, step int) (*forestfire.Grid, error) {
	var row struct {
		Rows  int    `db:"num_rows"`
		Cols  int    `db:"num_cols"`
		Cells []byte `db:"cells"`
	}
	err := s.conn.Get(&row, `SELECT r.num_rows, r.num_cols, s.cells
		FROM steps s JOIN runs r ON r.id = s.run_id
		WHERE s.run_id = ? AND s.step = ?`, runID, step)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s step %d: %w", runID, step, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load step: %w", err)
	}
	g := decodeCells(row.Rows, row.Cols, row.Cells)
	if g == nil {
		return nil, fmt.Errorf("run %s step %d: %d cells stored for %dx%d grid", runID, step, len(row.Cells), row.Rows, row.Cols)
	}
	return g, nil
}

// Steps returns the per-step counts of a run in step order.
func (s *Store) Steps(runID string) ([]StepSummary, error) {
	var out []StepSummary
	err := s.conn.Select(&out, `SELECT step, forest, fire, ash FROM steps
		WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("select steps: %w", err)
	}
	return out, nil
}

// Runs lists recorded runs, newest first.
func (s *Store) Runs() ([]RunInfo, error) {
	var rows []struct {
		ID         string `db:"id"`
		CreatedAt  string `db:"created_at"`
		ConfigJSON string `db:"config_json"`
		Steps      int    `db:"step_count"`
	}
	err := s.conn.Select(&rows, `SELECT r.id, r.created_at, r.config_json,
		(SELECT COUNT(*) FROM steps s WHERE s.run_id = r.id) AS step_count
		FROM runs r ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	out := make([]RunInfo, 0, len(rows))
	for _, r := range rows {
		info := RunInfo{ID: r.ID, Steps: r.Steps}
		if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
			info.CreatedAt = t
		}
		if err := json.Unmarshal([]byte(r.ConfigJSON), &info.Config); err != nil {
			return nil, fmt.Errorf("decode config of run %s: %w", r.ID, err)
		}
		out = append(out, info)
	}
	return out, nil
}

func encodeCells(g *forestfire.Grid) []byte {
	states := g.States()
	buf := make([]byte, len(states))
	for i, s := range states {
		buf[i] = byte(s)
	}
	return buf
}

func decodeCells(rows, cols int, buf []byte) *forestfire.Grid {
	states := make([]forestfire.State, len(buf))
	for i, b := range buf {
		states[i] = forestfire.State(b)
	}
	return forestfire.FromStates(rows, cols, states)
}
