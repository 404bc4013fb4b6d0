// Package models defines the shared data types for strategy candidate
// validation: candidates, logic trees, findings, and quality scores.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// RebalanceFrequency is how often a strategy rebalances.
type RebalanceFrequency string

const (
	// FrequencyDaily rebalances every trading day.
	FrequencyDaily RebalanceFrequency = "daily"
	// FrequencyWeekly rebalances once per week.
	FrequencyWeekly RebalanceFrequency = "weekly"
	// FrequencyMonthly rebalances once per month.
	FrequencyMonthly RebalanceFrequency = "monthly"
	// FrequencyQuarterly rebalances once per quarter.
	FrequencyQuarterly RebalanceFrequency = "quarterly"
)

// Valid returns true if the frequency is a known value.
func (f RebalanceFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	default:
		return false
	}
}

// Archetype classifies the economic style of a strategy.
type Archetype string

const (
	// ArchetypeMomentum follows persistent price trends.
	ArchetypeMomentum Archetype = "momentum"
	// ArchetypeMeanReversion trades reversals toward a mean.
	ArchetypeMeanReversion Archetype = "mean_reversion"
	// ArchetypeCarry harvests yield or roll-down.
	ArchetypeCarry Archetype = "carry"
	// ArchetypeDirectional expresses a fixed directional view.
	ArchetypeDirectional Archetype = "directional"
	// ArchetypeVolatility trades volatility as an asset.
	ArchetypeVolatility Archetype = "volatility"
	// ArchetypeTactical switches exposures on market conditions.
	ArchetypeTactical Archetype = "tactical"
	// ArchetypeValue holds assets judged cheap on fundamentals.
	ArchetypeValue Archetype = "value"
)

// Valid returns true if the archetype is a known value.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeMomentum, ArchetypeMeanReversion, ArchetypeCarry,
		ArchetypeDirectional, ArchetypeVolatility, ArchetypeTactical, ArchetypeValue:
		return true
	default:
		return false
	}
}

// EdgeType names the claimed source of a strategy's edge.
type EdgeType string

const (
	// EdgeBehavioral exploits investor behavior biases.
	EdgeBehavioral EdgeType = "behavioral"
	// EdgeStructural exploits market structure or mandates.
	EdgeStructural EdgeType = "structural"
	// EdgeInformational exploits an information processing advantage.
	EdgeInformational EdgeType = "informational"
	// EdgeRiskPremium harvests a compensated risk premium.
	EdgeRiskPremium EdgeType = "risk_premium"
)

// LogicTreeNode is the conditional-allocation tree supporting dynamic
// strategies. A node is either a branch (Condition with IfTrue/IfFalse
// children) or a leaf allocation (Assets with Weights). The two forms
// are mutually exclusive.
type LogicTreeNode struct {
	// Condition is an expression in the embedded condition language,
	// e.g. "SPY_price > SPY_200d_MA". Set only on branch nodes.
	Condition string `json:"condition,omitempty"`
	// IfTrue is taken when Condition holds. Set only on branch nodes.
	IfTrue *LogicTreeNode `json:"if_true,omitempty"`
	// IfFalse is taken when Condition fails. Set only on branch nodes.
	IfFalse *LogicTreeNode `json:"if_false,omitempty"`
	// Assets lists the tickers held by a leaf allocation.
	Assets []string `json:"assets,omitempty"`
	// Weights maps ticker to allocation fraction for a leaf.
	Weights map[string]float64 `json:"weights,omitempty"`
}

// IsBranch returns true if the node is a conditional branch.
func (n *LogicTreeNode) IsBranch() bool {
	return n != nil && n.Condition != ""
}

// IsLeaf returns true if the node is a leaf allocation.
func (n *LogicTreeNode) IsLeaf() bool {
	return n != nil && n.Condition == ""
}

// Empty returns true if the node carries no structure at all.
func (n *LogicTreeNode) Empty() bool {
	return n == nil || (n.Condition == "" && n.IfTrue == nil && n.IfFalse == nil &&
		len(n.Assets) == 0 && len(n.Weights) == 0)
}

// Conditions collects every condition string in the tree, preorder.
func (n *LogicTreeNode) Conditions() []string {
	if n.Empty() {
		return nil
	}
	var out []string
	if n.Condition != "" {
		out = append(out, n.Condition)
	}
	out = append(out, n.IfTrue.Conditions()...)
	out = append(out, n.IfFalse.Conditions()...)
	return out
}

// ReferencedAssets collects every ticker referenced by any leaf
// allocation in the tree, preorder, without deduplication.
func (n *LogicTreeNode) ReferencedAssets() []string {
	if n.Empty() {
		return nil
	}
	var out []string
	out = append(out, n.Assets...)
	for ticker := range n.Weights {
		if !contains(n.Assets, ticker) {
			out = append(out, ticker)
		}
	}
	out = append(out, n.IfTrue.ReferencedAssets()...)
	out = append(out, n.IfFalse.ReferencedAssets()...)
	return out
}

// Shape describes the tree at the granularity the repair invariants
// care about: empty versus populated.
func (n *LogicTreeNode) Shape() string {
	if n.Empty() {
		return "empty"
	}
	return "populated"
}

// Candidate is a proposed strategy record awaiting validation. It is
// produced by the generation collaborator and treated as read-only by
// every validator; a repair replaces candidates wholesale, never
// field-by-field.
type Candidate struct {
	// Name identifies the strategy.
	Name string `json:"name"`
	// Assets is the ordered set of tickers the strategy may hold.
	Assets []string `json:"assets"`
	// Weights maps ticker to allocation fraction. May be empty only
	// for dynamic candidates (non-empty LogicTree).
	Weights map[string]float64 `json:"weights,omitempty"`
	// RebalanceFrequency is the rebalance cadence.
	RebalanceFrequency RebalanceFrequency `json:"rebalance_frequency"`
	// LogicTree is the optional conditional-allocation tree.
	LogicTree *LogicTreeNode `json:"logic_tree,omitempty"`
	// ThesisDocument is the free-text investment thesis (200-2000 chars).
	ThesisDocument string `json:"thesis_document"`
	// RebalancingRationale explains the rebalance approach.
	RebalancingRationale string `json:"rebalancing_rationale,omitempty"`
	// EdgeType names the claimed edge source.
	EdgeType EdgeType `json:"edge_type"`
	// Archetype classifies the strategy style.
	Archetype Archetype `json:"archetype"`
}

// ErrInvalidCandidate indicates a candidate that violates the input
// contract itself (not a data-quality problem). It is the only error
// the engine lets escape.
var ErrInvalidCandidate = errors.New("invalid candidate")

// CheckShape verifies the structural input contract: a name, a
// non-empty unique asset list, and a known rebalance frequency.
// Everything softer than this is a validator's job.
func (c *Candidate) CheckShape() error {
	if c == nil {
		return fmt.Errorf("%w: nil candidate", ErrInvalidCandidate)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCandidate)
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("%w: %s has no assets", ErrInvalidCandidate, c.Name)
	}
	seen := make(map[string]bool, len(c.Assets))
	for _, ticker := range c.Assets {
		if ticker == "" {
			return fmt.Errorf("%w: %s has an empty ticker", ErrInvalidCandidate, c.Name)
		}
		if seen[ticker] {
			return fmt.Errorf("%w: %s lists %s twice", ErrInvalidCandidate, c.Name, ticker)
		}
		seen[ticker] = true
	}
	if !c.RebalanceFrequency.Valid() {
		return fmt.Errorf("%w: %s has unknown rebalance frequency %q",
			ErrInvalidCandidate, c.Name, c.RebalanceFrequency)
	}
	return nil
}

// IsDynamic returns true if the candidate allocates through a logic
// tree rather than a static weight map.
func (c *Candidate) IsDynamic() bool {
	return !c.LogicTree.Empty()
}

// WeightSum returns the sum of all top-level weights.
func (c *Candidate) WeightSum() float64 {
	sum := 0.0
	for _, w := range c.Weights {
		sum += w
	}
	return sum
}

// MaxWeight returns the largest single top-level weight, or 0 if the
// weight map is empty.
func (c *Candidate) MaxWeight() float64 {
	max := 0.0
	for _, w := range c.Weights {
		if w > max {
			max = w
		}
	}
	return max
}

// HasAsset returns true if ticker is in the top-level asset list.
func (c *Candidate) HasAsset(ticker string) bool {
	return contains(c.Assets, ticker)
}

// Narrative returns the thesis and rationale joined for keyword
// scanning. Validators match against this combined text.
func (c *Candidate) Narrative() string {
	return c.ThesisDocument + "\n" + c.RebalancingRationale
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
