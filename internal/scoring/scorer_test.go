package scoring

import (
	"math"
	"testing"

	"github.com/benredmond/stratval/internal/config"
	"github.com/benredmond/stratval/pkg/models"
)

var testGate = config.GateConfig{OverallThreshold: 0.6, DimensionFloor: 0.3}

func scoreCandidate(weights map[string]float64, thesis string, findings []models.Finding) models.QualityScore {
	assets := make([]string, 0, len(weights))
	for ticker := range weights {
		assets = append(assets, ticker)
	}
	c := &models.Candidate{
		Name:               "scored",
		Assets:             assets,
		Weights:            weights,
		RebalanceFrequency: models.FrequencyMonthly,
		Archetype:          models.ArchetypeDirectional,
		ThesisDocument:     thesis,
	}
	return New(testGate).Score(c, findings)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreQuantification(t *testing.T) {
	tests := []struct {
		name   string
		thesis string
		want   float64
	}{
		{"none", "A plain thesis.", 0},
		{"one term", "Targets a 0.8 Sharpe ratio.", 1.0 / 3.0},
		{"two terms", "Targets a 0.8 Sharpe with 20% drawdowns.", 2.0 / 3.0},
		{"all three", "Targets a 0.8 Sharpe, 2% alpha, and 20% drawdowns.", 1},
		{"case-insensitive", "SHARPE, ALPHA, DRAWDOWN.", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scoreCandidate(map[string]float64{"SPY": 0.5, "AGG": 0.5}, tt.thesis, nil)
			if !approx(s.Quantification, tt.want) {
				t.Errorf("quantification = %v, want %v", s.Quantification, tt.want)
			}
		})
	}
}

func TestScoreDiversification(t *testing.T) {
	s := scoreCandidate(map[string]float64{"SPY": 0.7, "AGG": 0.3}, "", nil)
	if !approx(s.Diversification, 0.3) {
		t.Errorf("diversification = %v, want 0.3 (1 - max weight)", s.Diversification)
	}

	// Empty weight map (dynamic candidates) scores the neutral 0.5.
	s = scoreCandidate(nil, "", nil)
	if !approx(s.Diversification, 0.5) {
		t.Errorf("empty-weights diversification = %v, want 0.5", s.Diversification)
	}
}

func TestScoreHardRejectZeroesCoherence(t *testing.T) {
	findings := []models.Finding{{
		Priority:     models.PriorityHardReject,
		Category:     models.CategoryLeverageJustification,
		CandidateRef: "scored",
	}}
	s := scoreCandidate(map[string]float64{"SPY": 0.5, "AGG": 0.5},
		"Targets a 0.8 Sharpe, 2% alpha, and 20% drawdowns.", findings)

	if s.Coherence != 0 {
		t.Errorf("coherence = %v with a hard reject, want 0", s.Coherence)
	}
	// Coherence carries 30% of the overall weight, so even a perfect
	// candidate otherwise cannot beat 0.70.
	if s.Overall > 0.70+1e-9 {
		t.Errorf("overall = %v with zero coherence, want <= 0.70", s.Overall)
	}
	if s.PassesGate {
		t.Error("gate passed despite a zero dimension under the 0.3 floor")
	}
}

func TestScoreFrequencyMismatchZeroesEdgeFrequency(t *testing.T) {
	findings := []models.Finding{{
		Priority:     models.PriorityRetryRequired,
		Category:     models.CategoryFrequencyMismatch,
		CandidateRef: "scored",
	}}
	s := scoreCandidate(map[string]float64{"SPY": 0.5, "AGG": 0.5}, "", findings)
	if s.EdgeFrequency != 0 {
		t.Errorf("edge frequency = %v with a frequency mismatch, want 0", s.EdgeFrequency)
	}
}

func TestScoreIgnoresOtherCandidatesFindings(t *testing.T) {
	findings := []models.Finding{{
		Priority:     models.PriorityHardReject,
		Category:     models.CategoryLeverageJustification,
		CandidateRef: "someone-else",
	}}
	s := scoreCandidate(map[string]float64{"SPY": 0.5, "AGG": 0.5}, "", findings)
	if s.Coherence != 1 {
		t.Errorf("coherence = %v, another candidate's finding leaked in", s.Coherence)
	}
}

func TestScoreOverallWeighting(t *testing.T) {
	// Fully clean: quant 1, coherence 1, edge 1, div 0.5, syntax 1.
	s := scoreCandidate(map[string]float64{"SPY": 0.5, "AGG": 0.5},
		"Targets a 0.8 Sharpe, 2% alpha, and 20% drawdowns.", nil)

	want := 0.25*1 + 0.30*1 + 0.20*1 + 0.15*0.5 + 0.10*1
	if !approx(s.Overall, want) {
		t.Errorf("overall = %v, want %v", s.Overall, want)
	}
	if !s.PassesGate {
		t.Errorf("clean candidate failed the gate at %v", s.Overall)
	}
}

func TestScoreGateDimensionFloor(t *testing.T) {
	// Syntax zero keeps overall above the 0.6 threshold but must still
	// fail the per-dimension floor.
	findings := []models.Finding{{
		Priority:     models.PrioritySyntaxError,
		Category:     models.CategoryWeightSum,
		CandidateRef: "scored",
	}}
	s := scoreCandidate(map[string]float64{"SPY": 0.5, "AGG": 0.5},
		"Targets a 0.8 Sharpe, 2% alpha, and 20% drawdowns.", findings)

	if s.Overall < testGate.OverallThreshold {
		t.Fatalf("test premise broken: overall %v below threshold", s.Overall)
	}
	if s.PassesGate {
		t.Error("gate passed with a zero syntax dimension")
	}
}

func TestScoreBatch(t *testing.T) {
	batch := []*models.Candidate{
		{Name: "a", Assets: []string{"SPY"}, Weights: map[string]float64{"SPY": 1.0},
			RebalanceFrequency: models.FrequencyMonthly, ThesisDocument: "Sharpe-focused."},
		{Name: "b", Assets: []string{"AGG"}, Weights: map[string]float64{"AGG": 1.0},
			RebalanceFrequency: models.FrequencyMonthly, ThesisDocument: "Plain."},
	}
	scores := New(testGate).ScoreBatch(batch, nil)
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	if scores[0].CandidateRef != "a" || scores[1].CandidateRef != "b" {
		t.Errorf("scores out of order: %v", scores)
	}
}
