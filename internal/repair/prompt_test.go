package repair

import (
	"strings"
	"testing"

	"github.com/benredmond/stratval/pkg/models"
)

func TestComposeRepairRequest(t *testing.T) {
	flawed := testCandidate("flawed")
	clean := testCandidate("clean")
	findings := []models.Finding{blockingFinding("flawed")}

	prompt := ComposeRepairRequest([]*models.Candidate{flawed, clean}, findings)

	if !strings.Contains(prompt, "same order, same length") {
		t.Error("prompt does not pin the response format")
	}
	if !strings.Contains(prompt, "thesis_document and rebalancing_rationale") {
		t.Error("prompt does not restrict the mutable fields")
	}
	if !strings.Contains(prompt, `IMMUTABLE: name="flawed"`) {
		t.Error("prompt has no immutable snapshot for the flawed candidate")
	}
	if strings.Contains(prompt, `IMMUTABLE: name="clean"`) {
		t.Error("prompt carries a finding section for the clean candidate")
	}
	if !strings.Contains(prompt, findings[0].Message) {
		t.Error("prompt does not quote the finding message")
	}
	// Frequency stays pinned when no frequency finding exists.
	if !strings.Contains(prompt, `rebalance_frequency="monthly"`) {
		t.Error("prompt does not pin the rebalance frequency")
	}
}

func TestComposeRepairRequestFrequencyPermission(t *testing.T) {
	c := testCandidate("stale")
	findings := []models.Finding{{
		Priority:     models.PriorityRetryRequired,
		Category:     models.CategoryFrequencyMismatch,
		CandidateRef: "stale",
		Message:      "momentum archetype with quarterly rebalancing",
	}}

	prompt := ComposeRepairRequest([]*models.Candidate{c}, findings)
	if !strings.Contains(prompt, "rebalance_frequency may change") {
		t.Error("frequency finding did not unlock the frequency field")
	}
}
