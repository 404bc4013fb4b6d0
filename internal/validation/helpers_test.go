package validation

import (
	"github.com/benredmond/stratval/internal/config"
	"github.com/benredmond/stratval/pkg/models"
)

var testPolicy = config.DefaultPolicy()

// staticCandidate builds a plain fixed-weight candidate for tests.
func staticCandidate(name string, weights map[string]float64) *models.Candidate {
	assets := make([]string, 0, len(weights))
	for ticker := range weights {
		assets = append(assets, ticker)
	}
	return &models.Candidate{
		Name:                 name,
		Assets:               assets,
		Weights:              weights,
		RebalanceFrequency:   models.FrequencyMonthly,
		Archetype:            models.ArchetypeDirectional,
		EdgeType:             models.EdgeRiskPremium,
		ThesisDocument: "A broad multi-asset allocation harvesting the equity risk premium through disciplined periodic rebalancing. " +
			"The book holds its full target weights at all times and accepts benchmark-like drawdowns in exchange for steady long-run compounding of the premium.",
		RebalancingRationale: "Monthly rebalancing keeps turnover low.",
	}
}

// dynamicCandidate builds a candidate with a single-branch logic tree.
func dynamicCandidate(name, cond string, assets []string) *models.Candidate {
	half := 1.0 / float64(len(assets))
	weights := map[string]float64{}
	for _, a := range assets {
		weights[a] = half
	}
	return &models.Candidate{
		Name:               name,
		Assets:             assets,
		RebalanceFrequency: models.FrequencyWeekly,
		Archetype:          models.ArchetypeTactical,
		EdgeType:           models.EdgeBehavioral,
		LogicTree: &models.LogicTreeNode{
			Condition: cond,
			IfTrue:    &models.LogicTreeNode{Assets: assets[:1], Weights: map[string]float64{assets[0]: 1.0}},
			IfFalse:   &models.LogicTreeNode{Assets: assets, Weights: weights},
		},
		ThesisDocument: "Tactical switch between a risk-on book and a defensive book driven by the trend condition in the logic tree. " +
			"A broken trend shifts the allocation to the defensive sleeve until the condition recovers, accepting whipsaw costs in exchange for smaller drawdowns.",
		RebalancingRationale: "Weekly checks keep the switch responsive.",
	}
}

// findingsWithCategory filters findings to one category.
func findingsWithCategory(findings []models.Finding, category string) []models.Finding {
	var out []models.Finding
	for _, f := range findings {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

// countPriority counts findings at one priority.
func countPriority(findings []models.Finding, p models.Priority) int {
	n := 0
	for _, f := range findings {
		if f.Priority == p {
			n++
		}
	}
	return n
}
