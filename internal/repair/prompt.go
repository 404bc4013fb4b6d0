package repair

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/benredmond/stratval/pkg/models"
)

// ComposeRepairRequest builds the single regeneration prompt: the full
// batch as JSON, a per-candidate immutable snapshot, the literal
// finding list, and the narrow set of fields the collaborator may
// touch. The repaired response must be the same JSON array format.
func ComposeRepairRequest(batch []*models.Candidate, findings []models.Finding) string {
	var b strings.Builder

	b.WriteString("You previously generated the strategy candidates below. ")
	b.WriteString("Validation found the listed problems. Regenerate the batch, fixing every problem.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Return ONLY a JSON array of candidates in the same format, same order, same length.\n")
	b.WriteString("- You may modify only thesis_document and rebalancing_rationale.\n")
	b.WriteString("- You may additionally change rebalance_frequency ONLY for candidates whose findings include an archetype-frequency mismatch.\n")
	b.WriteString("- Everything listed under IMMUTABLE must come back byte-for-byte unchanged.\n\n")

	b.WriteString("Current batch:\n")
	if data, err := json.MarshalIndent(batch, "", "  "); err == nil {
		b.Write(data)
	}
	b.WriteString("\n\n")

	freqAllowed := frequencyChangeAllowed(findings)
	for i, c := range batch {
		own := models.FindingsFor(findings, c.Name)
		if len(own) == 0 {
			continue
		}

		fmt.Fprintf(&b, "## Candidate %d: %s\n", i, c.Name)
		b.WriteString("IMMUTABLE: ")
		fmt.Fprintf(&b, "name=%q assets=[%s] weight_keys=[%s] edge_type=%q archetype=%q logic_tree=%s",
			c.Name,
			strings.Join(c.Assets, ", "),
			strings.Join(weightKeys(c.Weights), ", "),
			c.EdgeType, c.Archetype, c.LogicTree.Shape())
		if freqAllowed[c.Name] {
			fmt.Fprintf(&b, " (rebalance_frequency may change from %q)", c.RebalanceFrequency)
		} else {
			fmt.Fprintf(&b, " rebalance_frequency=%q", c.RebalanceFrequency)
		}
		b.WriteString("\nFindings:\n")
		for _, f := range own {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// weightKeys returns the weight map's keys in sorted order.
func weightKeys(weights map[string]float64) []string {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
