// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records batch-run outcomes in a local SQLite database.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-digest/internal/pipeline"
)

// Ledger is the run-history database.
type Ledger struct {
	db *sql.DB
}

// Run is one recorded batch-run outcome.
type Run struct {
	ID        int64
	Date      string
	Processed int
	Skipped   int
	Failed    int
	Started   time.Time
	Finished  time.Time
}

// Open opens or creates the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	_, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		processed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		started TEXT NOT NULL,
		finished TEXT NOT NULL
	)`)
	return err
}

// Record appends one run outcome.
func (l *Ledger) Record(ctx context.Context, report pipeline.Report) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (date, processed, skipped, failed, started, finished)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.Date, report.Processed, report.Skipped, report.Failed,
		report.Started.UTC().Format(time.RFC3339),
		report.Finished.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Recent returns the latest n runs, newest first.
func (l *Ledger) Recent(ctx context.Context, n int) ([]Run, error) {
	if n <= 0 {
		n = 20
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, date, processed, skipped, failed, started, finished
		 FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Date, &r.Processed, &r.Skipped, &r.Failed, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Started, _ = time.Parse(time.RFC3339, started)
		r.Finished, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
