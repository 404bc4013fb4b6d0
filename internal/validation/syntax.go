package validation

import (
	"math"
	"sort"
	"strings"

	"github.com/benredmond/stratval/internal/condition"
	"github.com/benredmond/stratval/pkg/models"
)

// weightSumTolerance is how far the weight sum may drift from 1.0.
const weightSumTolerance = 0.01

// Thesis documents must carry enough substance to audit, and stay
// short enough to fit a regeneration prompt.
const (
	thesisMinChars = 200
	thesisMaxChars = 2000
)

// SyntaxValidator performs the deterministic structural checks: weight
// sum, weight/asset key agreement, logic-tree node shape, and branch
// asset membership. No text heuristics. Every violation is a
// syntax-error finding, the kind guaranteed to trigger repair.
type SyntaxValidator struct{}

// NewSyntaxValidator creates the syntax validator.
func NewSyntaxValidator() *SyntaxValidator {
	return &SyntaxValidator{}
}

// Name implements Validator.
func (v *SyntaxValidator) Name() string { return "syntax" }

// Check implements Validator.
func (v *SyntaxValidator) Check(idx int, c *models.Candidate) []models.Finding {
	var out []models.Finding

	dynamic := c.IsDynamic()

	// (a) Weight sum within tolerance. Dynamic candidates may leave
	// the top-level weights empty; static candidates may not.
	if len(c.Weights) > 0 || !dynamic {
		sum := c.WeightSum()
		if math.Abs(sum-1.0) > weightSumTolerance {
			out = append(out, finding(models.PrioritySyntaxError, models.CategoryWeightSum, idx, c,
				"weights sum to %.4f, expected 1.0 within +/-%.2f", sum, weightSumTolerance))
		}
	}

	// (b) Weight keys versus asset list. Static candidates need exact
	// agreement; dynamic ones may carry a partial allocation but never
	// a ticker outside the asset list.
	if dynamic {
		for _, ticker := range sortedKeys(c.Weights) {
			if !c.HasAsset(ticker) {
				out = append(out, finding(models.PrioritySyntaxError, models.CategoryWeightKeys, idx, c,
					"weight key %s is not in the asset list", ticker))
			}
		}
	} else {
		if missing, extra := keyDiff(c.Assets, c.Weights); len(missing) > 0 || len(extra) > 0 {
			out = append(out, finding(models.PrioritySyntaxError, models.CategoryWeightKeys, idx, c,
				"weight keys do not match assets (missing: %s; extra: %s)",
				joinOrNone(missing), joinOrNone(extra)))
		}
	}

	// (c) Logic tree shape: every branch needs a condition with a
	// recognizable comparator plus both children.
	if dynamic {
		out = append(out, v.checkTreeShape(idx, c, c.LogicTree)...)

		// (d) Every ticker referenced in a branch must be a member of
		// the top-level asset list.
		reported := map[string]bool{}
		for _, ticker := range c.LogicTree.ReferencedAssets() {
			if !c.HasAsset(ticker) && !reported[ticker] {
				reported[ticker] = true
				out = append(out, finding(models.PrioritySyntaxError, models.CategoryUnknownBranchAsset, idx, c,
					"logic tree references %s, which is not in the asset list", ticker))
			}
		}
	}

	// (e) Thesis length band. Mechanical like the checks above, so a
	// violation is always retry-eligible.
	if n := len(c.ThesisDocument); n < thesisMinChars || n > thesisMaxChars {
		out = append(out, finding(models.PrioritySyntaxError, models.CategoryThesisLength, idx, c,
			"thesis document is %d characters, expected between %d and %d", n, thesisMinChars, thesisMaxChars))
	}

	return out
}

// checkTreeShape walks branch nodes and verifies each has the three
// required parts: a condition containing a comparator, and both
// if_true and if_false children.
func (v *SyntaxValidator) checkTreeShape(idx int, c *models.Candidate, n *models.LogicTreeNode) []models.Finding {
	if n.Empty() || n.IsLeaf() {
		return nil
	}

	var out []models.Finding
	if !condition.HasComparator(n.Condition) {
		out = append(out, finding(models.PrioritySyntaxError, models.CategoryLogicTreeShape, idx, c,
			"logic tree condition %q has no recognizable comparator", n.Condition))
	}
	if n.IfTrue == nil {
		out = append(out, finding(models.PrioritySyntaxError, models.CategoryLogicTreeShape, idx, c,
			"logic tree branch %q is missing its if_true arm", n.Condition))
	}
	if n.IfFalse == nil {
		out = append(out, finding(models.PrioritySyntaxError, models.CategoryLogicTreeShape, idx, c,
			"logic tree branch %q is missing its if_false arm", n.Condition))
	}
	if n.IfTrue != nil {
		out = append(out, v.checkTreeShape(idx, c, n.IfTrue)...)
	}
	if n.IfFalse != nil {
		out = append(out, v.checkTreeShape(idx, c, n.IfFalse)...)
	}
	return out
}

// keyDiff compares the asset list to the weight key set.
func keyDiff(assets []string, weights map[string]float64) (missing, extra []string) {
	for _, a := range assets {
		if _, ok := weights[a]; !ok {
			missing = append(missing, a)
		}
	}
	for k := range weights {
		found := false
		for _, a := range assets {
			if a == k {
				found = true
				break
			}
		}
		if !found {
			extra = append(extra, k)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, ", ")
}
