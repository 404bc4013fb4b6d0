// Package validation runs the validator suite over candidate batches
// and produces tagged findings. Validation is pure and synchronous: it
// touches no shared state, and finding order is stable (candidate
// index, then validator registration order) for reproducible reports.
package validation

import (
	"fmt"

	"github.com/benredmond/stratval/internal/config"
	"github.com/benredmond/stratval/internal/sector"
	"github.com/benredmond/stratval/pkg/models"
)

// Validator checks a single candidate and reports findings. The
// candidate index is carried through so reports sort stably.
type Validator interface {
	// Name identifies the validator in reports.
	Name() string
	// Check returns the validator's findings for one candidate.
	Check(idx int, c *models.Candidate) []models.Finding
}

// Engine runs the registered validators over a candidate batch.
type Engine struct {
	validators []Validator
}

// NewEngine creates an engine with the standard validator suite in
// registration order: syntax, threshold hygiene, coherence, leverage,
// concentration.
func NewEngine(policy config.Policy, sectors sector.Lookup) *Engine {
	return &Engine{
		validators: []Validator{
			NewSyntaxValidator(),
			NewThresholdHygieneValidator(policy),
			NewCoherenceValidator(policy),
			NewLeverageValidator(policy),
			NewConcentrationValidator(policy, sectors),
		},
	}
}

// Register appends an extra validator after the standard suite.
func (e *Engine) Register(v Validator) {
	e.validators = append(e.validators, v)
}

// Validate runs every validator against every candidate. The only
// error it can return is an input-shape contract violation; all
// data-quality problems come back as findings. Names must be unique
// within the batch: findings, scores, and repair permissions are all
// keyed by name.
func (e *Engine) Validate(batch []*models.Candidate) ([]models.Finding, error) {
	seen := make(map[string]int, len(batch))
	for i, c := range batch {
		if err := c.CheckShape(); err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		if j, ok := seen[c.Name]; ok {
			return nil, fmt.Errorf("candidate %d: name %q duplicates candidate %d: %w",
				i, c.Name, j, models.ErrInvalidCandidate)
		}
		seen[c.Name] = i
	}

	var findings []models.Finding
	for i, c := range batch {
		for _, v := range e.validators {
			findings = append(findings, v.Check(i, c)...)
		}
	}
	return findings, nil
}

// finding is a small constructor shared by the validators.
func finding(p models.Priority, category string, idx int, c *models.Candidate, format string, args ...interface{}) models.Finding {
	return models.Finding{
		Priority:       p,
		Category:       category,
		CandidateRef:   c.Name,
		CandidateIndex: idx,
		Message:        fmt.Sprintf(format, args...),
	}
}
