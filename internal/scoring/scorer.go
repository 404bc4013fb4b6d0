// Package scoring reduces validation findings into the five-dimension
// weighted quality score and the pass/fail gate.
package scoring

import (
	"strings"

	"github.com/benredmond/stratval/internal/config"
	"github.com/benredmond/stratval/pkg/models"
)

// Dimension weights for the overall score.
const (
	weightQuantification  = 0.25
	weightCoherence       = 0.30
	weightEdgeFrequency   = 0.20
	weightDiversification = 0.15
	weightSyntax          = 0.10
)

// quantificationTerms are the thesis mentions the quantification
// dimension counts. Each present term contributes a third.
var quantificationTerms = []string{"sharpe", "alpha", "drawdown"}

// Scorer converts a candidate's findings into a QualityScore.
type Scorer struct {
	overallThreshold float64
	dimensionFloor   float64
}

// New creates a scorer with the configured gate thresholds.
func New(gate config.GateConfig) *Scorer {
	return &Scorer{
		overallThreshold: gate.OverallThreshold,
		dimensionFloor:   gate.DimensionFloor,
	}
}

// Score builds a fresh QualityScore for one candidate from the
// findings of the current validation pass. Scores are never mutated
// after creation.
func (s *Scorer) Score(c *models.Candidate, findings []models.Finding) models.QualityScore {
	own := models.FindingsFor(findings, c.Name)

	score := models.QualityScore{
		CandidateRef:    c.Name,
		Quantification:  quantification(c.ThesisDocument),
		Coherence:       boolDim(!hasPriority(own, models.PriorityHardReject)),
		EdgeFrequency:   boolDim(!hasCategory(own, models.CategoryFrequencyMismatch)),
		Diversification: diversification(c),
		Syntax:          boolDim(!hasPriority(own, models.PrioritySyntaxError)),
	}

	score.Overall = weightQuantification*score.Quantification +
		weightCoherence*score.Coherence +
		weightEdgeFrequency*score.EdgeFrequency +
		weightDiversification*score.Diversification +
		weightSyntax*score.Syntax

	score.PassesGate = score.Overall >= s.overallThreshold
	for _, dim := range score.Dimensions() {
		if dim < s.dimensionFloor {
			score.PassesGate = false
		}
	}

	return score
}

// ScoreBatch scores every candidate against the shared finding list.
func (s *Scorer) ScoreBatch(batch []*models.Candidate, findings []models.Finding) []models.QualityScore {
	scores := make([]models.QualityScore, len(batch))
	for i, c := range batch {
		scores[i] = s.Score(c, findings)
	}
	return scores
}

// quantification is the fraction of {Sharpe, alpha, drawdown} the
// thesis mentions: 0, 1/3, 2/3, or 1.
func quantification(thesis string) float64 {
	lower := strings.ToLower(thesis)
	count := 0
	for _, term := range quantificationTerms {
		if strings.Contains(lower, term) {
			count++
		}
	}
	return float64(count) / float64(len(quantificationTerms))
}

// diversification is 1 minus the largest single weight, or 0.5 when
// the weight map is empty (dynamic candidates).
func diversification(c *models.Candidate) float64 {
	if len(c.Weights) == 0 {
		return 0.5
	}
	return 1.0 - c.MaxWeight()
}

func boolDim(ok bool) float64 {
	if ok {
		return 1.0
	}
	return 0.0
}

func hasPriority(findings []models.Finding, p models.Priority) bool {
	for _, f := range findings {
		if f.Priority == p {
			return true
		}
	}
	return false
}

func hasCategory(findings []models.Finding, category string) bool {
	for _, f := range findings {
		if f.Category == category {
			return true
		}
	}
	return false
}
