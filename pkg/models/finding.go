package models

import "fmt"

// Priority ranks how severe a finding is and what the engine does
// about it. SyntaxError findings are mechanically verifiable and
// always retry-eligible; numbered priorities follow the policy
// taxonomy (1 = hard reject through 4 = non-blocking suggestion).
type Priority int

const (
	// PrioritySyntaxError marks a mechanical structural violation.
	// Always retry-eligible; these findings alone guarantee a repair.
	PrioritySyntaxError Priority = 0
	// PriorityHardReject marks a policy violation serious enough that
	// the candidate is treated as failed if repair does not fix it.
	PriorityHardReject Priority = 1
	// PriorityRetryRequired marks a quality issue worth one repair
	// attempt; a failed repair is tolerated.
	PriorityRetryRequired Priority = 2
	// PrioritySuggestion is advisory and never triggers repair.
	PrioritySuggestion Priority = 3
	// PriorityNonBlocking is a non-blocking advisory note.
	PriorityNonBlocking Priority = 4
)

// String returns a human-readable priority label.
func (p Priority) String() string {
	switch p {
	case PrioritySyntaxError:
		return "syntax-error"
	case PriorityHardReject:
		return "hard-reject"
	case PriorityRetryRequired:
		return "retry-required"
	case PrioritySuggestion:
		return "suggestion"
	case PriorityNonBlocking:
		return "non-blocking"
	default:
		return "unknown"
	}
}

// Blocking returns true if findings at this priority trigger the
// bounded repair round-trip.
func (p Priority) Blocking() bool {
	switch p {
	case PrioritySyntaxError, PriorityHardReject, PriorityRetryRequired:
		return true
	default:
		return false
	}
}

// Finding categories shared across validators, the scorer, and the
// repair orchestrator. Validators may also emit ad hoc categories;
// these constants exist for the ones other components key on.
const (
	// CategoryWeightSum flags a weight sum outside 1.0 +/- 0.01.
	CategoryWeightSum = "weight-sum"
	// CategoryWeightKeys flags weight keys diverging from the asset list.
	CategoryWeightKeys = "weight-asset-mismatch"
	// CategoryLogicTreeShape flags a malformed logic tree node.
	CategoryLogicTreeShape = "logic-tree-shape"
	// CategoryUnknownBranchAsset flags a branch ticker missing from assets.
	CategoryUnknownBranchAsset = "unknown-branch-asset"
	// CategoryThesisLength flags a thesis document outside the required
	// length band.
	CategoryThesisLength = "thesis-length"
	// CategoryThresholdHygiene flags an unhygienic condition threshold.
	CategoryThresholdHygiene = "threshold-hygiene"
	// CategoryFrequencyMismatch flags an archetype/frequency conflict.
	// Its presence is what permits a repair to change the frequency.
	CategoryFrequencyMismatch = "archetype-frequency-mismatch"
	// CategoryThesisLogicMismatch flags conditional thesis language
	// with no logic tree to back it.
	CategoryThesisLogicMismatch = "thesis-logic-mismatch"
	// CategoryDerivationMismatch flags claimed weight derivation with
	// suspiciously round weights.
	CategoryDerivationMismatch = "derivation-mismatch"
	// CategoryProxyAlignment flags a proxy ticker the narrative never
	// acknowledges.
	CategoryProxyAlignment = "proxy-alignment"
	// CategoryLeverageDecay flags missing leverage decay quantification.
	CategoryLeverageDecay = "leverage-decay"
	// CategoryLeverageJustification flags other missing leverage elements.
	CategoryLeverageJustification = "leverage-justification"
	// CategoryConcentration flags concentration guardrail issues.
	CategoryConcentration = "concentration"
)

// Finding is one reported validation issue. Findings are immutable
// once emitted; the engine sorts them by candidate index and then by
// validator registration order for reproducible reports.
type Finding struct {
	// Priority is the severity of this finding.
	Priority Priority `json:"priority"`
	// Category is a short label for the rule that fired.
	Category string `json:"category"`
	// CandidateRef is the name of the offending candidate.
	CandidateRef string `json:"candidate_ref"`
	// CandidateIndex is the candidate's position in the input batch.
	CandidateIndex int `json:"candidate_index"`
	// Message describes the violation.
	Message string `json:"message"`
}

// String formats the finding for reports.
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s (%s)", f.Priority, f.CandidateRef, f.Message, f.Category)
}

// HasBlocking returns true if any finding in the list triggers repair.
func HasBlocking(findings []Finding) bool {
	for _, f := range findings {
		if f.Priority.Blocking() {
			return true
		}
	}
	return false
}

// FindingsFor returns the findings belonging to the named candidate.
func FindingsFor(findings []Finding, name string) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.CandidateRef == name {
			out = append(out, f)
		}
	}
	return out
}
