// Package repair implements the single bounded repair round-trip:
// snapshot the batch, ask the generation collaborator to regenerate
// the flawed narrative fields, verify the structural invariants, and
// commit the repaired batch or roll back to the originals. Repair
// failure is never raised to the caller; the fallback is always a
// usable batch plus findings.
package repair

import (
	"context"
	"fmt"

	"github.com/benredmond/stratval/pkg/models"
)

// Regenerator is the opaque generation collaborator. Any error it
// returns is treated as repair failure, nothing more.
type Regenerator interface {
	Regenerate(ctx context.Context, prompt string) ([]*models.Candidate, error)
}

// ValidateFunc re-runs validation over a batch. It may only fail on
// an input-shape contract violation.
type ValidateFunc func(batch []*models.Candidate) ([]models.Finding, error)

// Outcome is the result of a validation-plus-repair pass. Findings
// always reflect the last validation pass run against whichever batch
// is returned.
type Outcome struct {
	// Batch is the accepted batch: repaired if the round-trip
	// committed, otherwise the original input, reference-identical.
	Batch []*models.Candidate
	// Findings is the finding list for Batch.
	Findings []models.Finding
	// Repaired is true when the repaired batch was accepted.
	Repaired bool
	// FallbackReason explains a rollback; empty when no repair was
	// needed or the repair committed.
	FallbackReason string
}

// Orchestrator drives the bounded repair protocol. At most one
// round-trip is attempted per validation pass.
type Orchestrator struct {
	regen    Regenerator
	validate ValidateFunc
}

// New creates an orchestrator. regen may be nil, in which case any
// needed repair falls back to the original batch immediately.
func New(regen Regenerator, validate ValidateFunc) *Orchestrator {
	return &Orchestrator{regen: regen, validate: validate}
}

// Run validates the batch and, if any blocking finding exists,
// attempts the single repair round-trip. The only error it returns is
// an input-shape contract violation from the initial validation;
// every repair-path failure degrades to the original batch with the
// original findings as warnings.
func (o *Orchestrator) Run(ctx context.Context, batch []*models.Candidate) (Outcome, error) {
	findings, err := o.validate(batch)
	if err != nil {
		return Outcome{}, err
	}

	if !models.HasBlocking(findings) {
		// Idempotent on clean batches: the collaborator is never
		// invoked and the input comes back reference-identical.
		return Outcome{Batch: batch, Findings: findings}, nil
	}

	return o.attemptRepair(ctx, batch, findings), nil
}

// attemptRepair performs the compose / await / verify / commit-or-
// rollback sequence. All-or-nothing: one bad candidate pair rejects
// the whole response.
func (o *Orchestrator) attemptRepair(ctx context.Context, original []*models.Candidate, findings []models.Finding) Outcome {
	fallback := func(reason string) Outcome {
		return Outcome{Batch: original, Findings: findings, FallbackReason: reason}
	}

	if o.regen == nil {
		return fallback("no generation collaborator configured")
	}

	prompt := ComposeRepairRequest(original, findings)

	repaired, err := o.regen.Regenerate(ctx, prompt)
	if err != nil {
		return fallback(fmt.Sprintf("regeneration failed: %v", err))
	}

	freqAllowed := frequencyChangeAllowed(findings)
	if err := CheckInvariants(original, repaired, freqAllowed); err != nil {
		return fallback(err.Error())
	}

	repairedFindings, err := o.validate(repaired)
	if err != nil {
		// The repaired batch broke the input contract itself; treat
		// it like any other invariant violation.
		return fallback(fmt.Sprintf("repaired batch invalid: %v", err))
	}

	return Outcome{Batch: repaired, Findings: repairedFindings, Repaired: true}
}

// frequencyChangeAllowed collects the candidates whose rebalance
// frequency the repair is permitted to change: exactly those with an
// archetype-frequency finding.
func frequencyChangeAllowed(findings []models.Finding) map[string]bool {
	allowed := map[string]bool{}
	for _, f := range findings {
		if f.Category == models.CategoryFrequencyMismatch {
			allowed[f.CandidateRef] = true
		}
	}
	return allowed
}
