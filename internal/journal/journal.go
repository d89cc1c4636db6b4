// Package journal is the append-only audit trail: one row per pipeline
// cycle with the decision and reason, committed exactly once per cycle.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// CycleRecord is the per-cycle audit row. Every cycle writes exactly one,
// success or failure.
type CycleRecord struct {
	RunID     string
	Time      time.Time
	Symbol    string
	Price     float64
	Signal    string
	Sentiment string
	Decision  string
	Size      float64
	Reason    string
}

type Journal struct {
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) RecordCycle(r CycleRecord) error {
	if r.Time.IsZero() {
		r.Time = time.Now().UTC()
	}
	_, err := j.db.Exec(`
		INSERT INTO cycles
		(run_id, time, symbol, price, signal, sentiment, decision, size, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Time.UTC(), r.Symbol, r.Price,
		r.Signal, r.Sentiment, r.Decision, r.Size, r.Reason,
	)
	return err
}

// CyclesByRun returns the audit rows for one run, oldest first.
func (j *Journal) CyclesByRun(runID string) ([]CycleRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, symbol, price, signal, sentiment, decision, size, reason
		FROM cycles WHERE run_id = ? ORDER BY time ASC, rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CycleRecord
	for rows.Next() {
		var r CycleRecord
		if err := rows.Scan(&r.RunID, &r.Time, &r.Symbol, &r.Price,
			&r.Signal, &r.Sentiment, &r.Decision, &r.Size, &r.Reason); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
