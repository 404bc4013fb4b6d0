package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/benredmond/stratval/pkg/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	return db
}

func testRecord() RunRecord {
	return RunRecord{
		Source:    "candidates.json",
		Repaired:  true,
		StartedAt: time.Now().Add(-time.Minute),
		Duration:  1200 * time.Millisecond,
		Batch: []*models.Candidate{
			{Name: "a", Assets: []string{"SPY"}, RebalanceFrequency: models.FrequencyMonthly},
			{Name: "b", Assets: []string{"AGG"}, RebalanceFrequency: models.FrequencyMonthly},
		},
		Findings: []models.Finding{
			{Priority: models.PriorityHardReject, Category: models.CategoryLeverageJustification,
				CandidateRef: "a", CandidateIndex: 0, Message: "missing justification"},
			{Priority: models.PriorityNonBlocking, Category: models.CategoryConcentration,
				CandidateRef: "b", CandidateIndex: 1, Message: "tiny book"},
		},
		Scores: []models.QualityScore{
			{CandidateRef: "a", Quantification: 1, Coherence: 0, EdgeFrequency: 1,
				Diversification: 0.5, Syntax: 1, Overall: 0.625, PassesGate: false},
			{CandidateRef: "b", Quantification: 1, Coherence: 1, EdgeFrequency: 1,
				Diversification: 0.5, Syntax: 1, Overall: 0.925, PassesGate: true},
		},
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)
	if err := db.Migrate(); err != nil {
		t.Errorf("second Migrate returned error: %v", err)
	}
}

func TestRecordAndListRuns(t *testing.T) {
	db := testDB(t)

	runID, err := db.RecordRun(testRecord())
	if err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}
	if runID == "" {
		t.Fatal("RecordRun returned an empty ID")
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	run := runs[0]
	if run.ID != runID {
		t.Errorf("run ID = %q, want %q", run.ID, runID)
	}
	if run.Source != "candidates.json" {
		t.Errorf("source = %q", run.Source)
	}
	if run.CandidateCount != 2 {
		t.Errorf("candidate count = %d, want 2", run.CandidateCount)
	}
	if run.BlockingCount != 1 {
		t.Errorf("blocking count = %d, want 1 (only the hard reject)", run.BlockingCount)
	}
	if !run.Repaired {
		t.Error("repaired flag lost")
	}
	if run.Duration != 1200*time.Millisecond {
		t.Errorf("duration = %v", run.Duration)
	}
}

func TestRunFindingsRoundTrip(t *testing.T) {
	db := testDB(t)
	runID, err := db.RecordRun(testRecord())
	if err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}

	findings, err := db.RunFindings(runID)
	if err != nil {
		t.Fatalf("RunFindings returned error: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
	if findings[0].Priority != models.PriorityHardReject || findings[0].CandidateRef != "a" {
		t.Errorf("first finding = %+v", findings[0])
	}
	if findings[1].Category != models.CategoryConcentration {
		t.Errorf("second finding = %+v", findings[1])
	}
}

func TestRunScoresRoundTrip(t *testing.T) {
	db := testDB(t)
	runID, err := db.RecordRun(testRecord())
	if err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}

	scores, err := db.RunScores(runID)
	if err != nil {
		t.Fatalf("RunScores returned error: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	if scores[0].PassesGate || !scores[1].PassesGate {
		t.Errorf("gate verdicts lost: %+v", scores)
	}
	if scores[1].Overall != 0.925 {
		t.Errorf("overall = %v, want 0.925", scores[1].Overall)
	}
}

func TestListRunsOrdersNewestFirst(t *testing.T) {
	db := testDB(t)

	old := testRecord()
	old.Source = "old.json"
	old.StartedAt = time.Now().Add(-2 * time.Hour)
	if _, err := db.RecordRun(old); err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}

	recent := testRecord()
	recent.Source = "recent.json"
	recent.StartedAt = time.Now()
	if _, err := db.RecordRun(recent); err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 2 || runs[0].Source != "recent.json" {
		t.Errorf("runs not newest-first: %+v", runs)
	}
}

func TestPurgeOldRuns(t *testing.T) {
	db := testDB(t)

	stale := testRecord()
	stale.StartedAt = time.Now().Add(-48 * time.Hour)
	if _, err := db.RecordRun(stale); err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}

	n, err := db.PurgeOldRuns(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOldRuns returned error: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d runs, want 1", n)
	}
}
