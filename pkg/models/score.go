package models

// QualityScore holds the five weighted quality dimensions for one
// candidate, each in [0,1], plus the derived overall score and gate
// verdict. A score is created fresh per candidate per validation pass
// and never mutated.
type QualityScore struct {
	// CandidateRef is the name of the scored candidate.
	CandidateRef string `json:"candidate_ref"`
	// Quantification measures how much of {Sharpe, alpha, drawdown}
	// the thesis quantifies.
	Quantification float64 `json:"quantification"`
	// Coherence is 1.0 iff the candidate has no hard-reject finding.
	Coherence float64 `json:"coherence"`
	// EdgeFrequency is 1.0 iff archetype and cadence agree.
	EdgeFrequency float64 `json:"edge_frequency"`
	// Diversification is 1 minus the largest single weight.
	Diversification float64 `json:"diversification"`
	// Syntax is 1.0 iff the candidate has no syntax-error finding.
	Syntax float64 `json:"syntax"`
	// Overall is the weighted combination of the five dimensions.
	Overall float64 `json:"overall"`
	// PassesGate is true when Overall clears the gate threshold and
	// every dimension clears the per-dimension floor.
	PassesGate bool `json:"passes_gate"`
}

// Dimensions returns the five dimension values in declaration order.
// Used by the gate's per-dimension floor check.
func (s QualityScore) Dimensions() []float64 {
	return []float64{s.Quantification, s.Coherence, s.EdgeFrequency, s.Diversification, s.Syntax}
}
