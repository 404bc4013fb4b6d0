package generate

import (
	"strings"
	"testing"
)

func TestExtractCandidatesPlainArray(t *testing.T) {
	response := `[{"name": "core", "assets": ["SPY", "AGG"], "weights": {"SPY": 0.6, "AGG": 0.4}, "rebalance_frequency": "monthly", "thesis_document": "t", "edge_type": "risk_premium", "archetype": "directional"}]`

	batch, err := ExtractCandidates(response)
	if err != nil {
		t.Fatalf("ExtractCandidates returned error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("got %d candidates, want 1", len(batch))
	}
	if batch[0].Name != "core" {
		t.Errorf("name = %q, want core", batch[0].Name)
	}
	if batch[0].Weights["SPY"] != 0.6 {
		t.Errorf("SPY weight = %v, want 0.6", batch[0].Weights["SPY"])
	}
}

func TestExtractCandidatesWrappedInProse(t *testing.T) {
	response := "Here is the repaired batch:\n```json\n" +
		`[{"name": "fixed", "assets": ["SPY"], "weights": {"SPY": 1.0}, "rebalance_frequency": "weekly", "thesis_document": "t"}]` +
		"\n```\nLet me know if you need anything else."

	batch, err := ExtractCandidates(response)
	if err != nil {
		t.Fatalf("ExtractCandidates returned error: %v", err)
	}
	if len(batch) != 1 || batch[0].Name != "fixed" {
		t.Errorf("unexpected batch: %+v", batch)
	}
}

func TestExtractCandidatesNoArray(t *testing.T) {
	_, err := ExtractCandidates("I cannot repair these candidates.")
	if err == nil {
		t.Fatal("expected error for a response without a JSON array")
	}
	if !strings.Contains(err.Error(), "no JSON array") {
		t.Errorf("error = %v, want a no-array explanation", err)
	}
}

func TestExtractCandidatesEmptyArray(t *testing.T) {
	_, err := ExtractCandidates("[]")
	if err == nil {
		t.Fatal("expected error for an empty array")
	}
	if !strings.Contains(err.Error(), "empty") {
		t.Errorf("error = %v, want an empty-array explanation", err)
	}
}

func TestExtractCandidatesMalformedJSON(t *testing.T) {
	_, err := ExtractCandidates(`[{"name": "broken"`)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
