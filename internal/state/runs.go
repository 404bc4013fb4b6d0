package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/benredmond/stratval/pkg/models"
)

// Run is one recorded validation pass over a candidate batch.
type Run struct {
	ID             string
	Source         string
	CandidateCount int
	BlockingCount  int
	Repaired       bool
	FallbackReason string
	StartedAt      time.Time
	Duration       time.Duration
}

// RunRecord bundles everything RecordRun persists for one pass.
type RunRecord struct {
	Source         string
	Repaired       bool
	FallbackReason string
	StartedAt      time.Time
	Duration       time.Duration
	Batch          []*models.Candidate
	Findings       []models.Finding
	Scores         []models.QualityScore
}

// RecordRun persists a run together with its findings and scores in a
// single transaction, returning the generated run ID.
func (db *DB) RecordRun(rec RunRecord) (string, error) {
	runID := uuid.New().String()

	blocking := 0
	for _, f := range rec.Findings {
		if f.Priority.Blocking() {
			blocking++
		}
	}

	err := db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (id, source, candidate_count, blocking_count, repaired, fallback_reason, started_at, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, rec.Source, len(rec.Batch), blocking, rec.Repaired, rec.FallbackReason,
			formatTime(rec.StartedAt), rec.Duration.Milliseconds())
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, f := range rec.Findings {
			_, err := tx.Exec(`
				INSERT INTO findings (run_id, candidate_ref, candidate_index, priority, category, message)
				VALUES (?, ?, ?, ?, ?, ?)
			`, runID, f.CandidateRef, f.CandidateIndex, int(f.Priority), f.Category, f.Message)
			if err != nil {
				return fmt.Errorf("insert finding: %w", err)
			}
		}

		for _, s := range rec.Scores {
			_, err := tx.Exec(`
				INSERT INTO scores (run_id, candidate_ref, quantification, coherence, edge_frequency, diversification, syntax, overall, passes_gate)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, runID, s.CandidateRef, s.Quantification, s.Coherence, s.EdgeFrequency,
				s.Diversification, s.Syntax, s.Overall, s.PassesGate)
			if err != nil {
				return fmt.Errorf("insert score: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, source, candidate_count, blocking_count, repaired, COALESCE(fallback_reason, ''), started_at, duration_ms
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt string
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.Source, &r.CandidateCount, &r.BlockingCount,
			&r.Repaired, &r.FallbackReason, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := parseTime(startedAt); err == nil {
			r.StartedAt = t
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunFindings returns the findings recorded for one run, in the order
// they were produced.
func (db *DB) RunFindings(runID string) ([]models.Finding, error) {
	rows, err := db.Query(`
		SELECT candidate_ref, candidate_index, priority, category, message
		FROM findings
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run findings: %w", err)
	}
	defer rows.Close()

	var findings []models.Finding
	for rows.Next() {
		var f models.Finding
		var priority int
		if err := rows.Scan(&f.CandidateRef, &f.CandidateIndex, &priority, &f.Category, &f.Message); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		f.Priority = models.Priority(priority)
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// RunScores returns the quality scores recorded for one run.
func (db *DB) RunScores(runID string) ([]models.QualityScore, error) {
	rows, err := db.Query(`
		SELECT candidate_ref, quantification, coherence, edge_frequency, diversification, syntax, overall, passes_gate
		FROM scores
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run scores: %w", err)
	}
	defer rows.Close()

	var scores []models.QualityScore
	for rows.Next() {
		var s models.QualityScore
		if err := rows.Scan(&s.CandidateRef, &s.Quantification, &s.Coherence, &s.EdgeFrequency,
			&s.Diversification, &s.Syntax, &s.Overall, &s.PassesGate); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
