package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nvandessel/knowsim/internal/sim"
)

// SQLiteStore implements ResultStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite result store at dir/knowsim.db,
// creating the directory and schema as needed.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	dbPath := filepath.Join(dir, "knowsim.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// SaveRun stores a run and its tick series in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = newRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	policyJSON, err := json.Marshal(run.Policy)
	if err != nil {
		return "", fmt.Errorf("marshaling policy: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, cohort, agents, facts, ticks, seed, policy, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Cohort, run.Agents, run.Facts, run.Ticks,
		int64(run.Seed), string(policyJSON), run.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	// INSERT OR REPLACE on runs does not cascade; clear any prior series.
	if _, err := tx.ExecContext(ctx, `DELETE FROM tick_rates WHERE run_id = ?`, run.ID); err != nil {
		return "", fmt.Errorf("clearing tick series: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tick_rates (run_id, tick, rate) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing tick insert: %w", err)
	}
	defer stmt.Close()

	for tick, rate := range run.Rates {
		if _, err := stmt.ExecContext(ctx, run.ID, tick, rate); err != nil {
			return "", fmt.Errorf("inserting tick %d: %w", tick, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}

	return run.ID, nil
}

// GetRun retrieves a run and its full tick series. Returns nil if not found.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, cohort, agents, facts, ticks, seed, policy, created_at
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rate FROM tick_rates WHERE run_id = ? ORDER BY tick`, id)
	if err != nil {
		return nil, fmt.Errorf("querying tick series: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rate float64
		if err := rows.Scan(&rate); err != nil {
			return nil, fmt.Errorf("scanning tick rate: %w", err)
		}
		run.Rates = append(run.Rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tick series: %w", err)
	}

	return run, nil
}

// ListRuns returns all stored runs with their series, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cohort, agents, facts, ticks, seed, policy, created_at
		FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading runs: %w", err)
	}

	for i := range runs {
		trows, err := s.db.QueryContext(ctx,
			`SELECT rate FROM tick_rates WHERE run_id = ? ORDER BY tick`, runs[i].ID)
		if err != nil {
			return nil, fmt.Errorf("querying tick series: %w", err)
		}
		for trows.Next() {
			var rate float64
			if err := trows.Scan(&rate); err != nil {
				trows.Close()
				return nil, fmt.Errorf("scanning tick rate: %w", err)
			}
			runs[i].Rates = append(runs[i].Rates, rate)
		}
		if err := trows.Err(); err != nil {
			trows.Close()
			return nil, fmt.Errorf("reading tick series: %w", err)
		}
		trows.Close()
	}

	return runs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var seed int64
	var policyJSON, createdAt string

	err := row.Scan(&run.ID, &run.Cohort, &run.Agents, &run.Facts,
		&run.Ticks, &seed, &policyJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Seed = uint64(seed)

	var policy sim.Policy
	if err := json.Unmarshal([]byte(policyJSON), &policy); err != nil {
		return nil, fmt.Errorf("parsing policy for run %s: %w", run.ID, err)
	}
	run.Policy = policy

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at for run %s: %w", run.ID, err)
	}
	run.CreatedAt = t

	return &run, nil
}
