package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/presetgen/internal/models"
)

// Run is one recorded generator run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Output     string
	Accepted   int
	Rejected   int
	Files      []models.FileOutcome
}

// NewRun starts a run record with a fresh ID.
func NewRun(started time.Time) *Run {
	return &Run{ID: uuid.NewString(), StartedAt: started}
}

// Finish fills the counters from the file outcomes.
func (r *Run) Finish(finished time.Time, output string, files []models.FileOutcome) {
	r.FinishedAt = finished
	r.Output = output
	r.Files = files
	r.Accepted, r.Rejected = 0, 0
	for _, f := range files {
		if f.Accepted {
			r.Accepted++
		} else {
			r.Rejected++
		}
	}
}

// Record stores a run and its file outcomes within a transaction.
func (db *DB) Record(r *Run) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("report: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO runs (id, started_at, finished_at, output, accepted, rejected)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.StartedAt.UTC(), r.FinishedAt.UTC(), r.Output, r.Accepted, r.Rejected)
	if err != nil {
		return fmt.Errorf("report: insert run: %w", err)
	}

	if len(r.Files) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO files (run_id, seq, path, checksum, accepted, problems) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("report: prepare file insert: %w", err)
		}
		defer stmt.Close()
		for i, f := range r.Files {
			problems := f.Problems
			if problems == nil {
				problems = []string{}
			}
			problemsJSON, _ := json.Marshal(problems)
			if _, err := stmt.Exec(r.ID, i, f.Path, f.Checksum, f.Accepted, string(problemsJSON)); err != nil {
				return fmt.Errorf("report: insert file: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Recent returns up to limit runs, newest first, without file outcomes.
func (db *DB) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.conn.Query(`
		SELECT id, started_at, finished_at, output, accepted, rejected
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("report: recent runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Output, &r.Accepted, &r.Rejected); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Files returns the file outcomes of a run in discovery order.
func (db *DB) Files(runID string) ([]models.FileOutcome, error) {
	rows, err := db.conn.Query(`
		SELECT path, checksum, accepted, problems FROM files WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("report: files: %w", err)
	}
	defer rows.Close()

	var out []models.FileOutcome
	for rows.Next() {
		var f models.FileOutcome
		var problems string
		if err := rows.Scan(&f.Path, &f.Checksum, &f.Accepted, &problems); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(problems), &f.Problems)
		out = append(out, f)
	}
	return out, rows.Err()
}
