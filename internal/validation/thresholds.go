package validation

import (
	"github.com/benredmond/stratval/internal/condition"
	"github.com/benredmond/stratval/internal/config"
	"github.com/benredmond/stratval/pkg/models"
)

// ThresholdHygieneValidator walks every condition in a candidate's
// logic tree, classifies each clause through the hygiene policy table,
// and reports one syntax-error finding per violating clause. These are
// mechanically verifiable and always retry-eligible, so they carry the
// syntax-error priority rather than a semantic one.
type ThresholdHygieneValidator struct {
	proxies map[string]bool
}

// NewThresholdHygieneValidator creates the validator with the policy's
// proxy-instrument allowlist.
func NewThresholdHygieneValidator(policy config.Policy) *ThresholdHygieneValidator {
	return &ThresholdHygieneValidator{proxies: policy.ProxySet()}
}

// Name implements Validator.
func (v *ThresholdHygieneValidator) Name() string { return "threshold-hygiene" }

// Check implements Validator.
func (v *ThresholdHygieneValidator) Check(idx int, c *models.Candidate) []models.Finding {
	if !c.IsDynamic() {
		return nil
	}

	var out []models.Finding
	for _, expr := range c.LogicTree.Conditions() {
		for _, clause := range condition.SplitClauses(expr) {
			parsed, err := condition.Parse(clause)
			if err != nil {
				// Unparsable conditions degrade to a finding, never
				// an error out of the engine.
				out = append(out, finding(models.PrioritySyntaxError, models.CategoryThresholdHygiene, idx, c,
					"%v", err))
				continue
			}
			if verdict := condition.Classify(parsed, v.proxies); !verdict.OK {
				out = append(out, finding(models.PrioritySyntaxError, models.CategoryThresholdHygiene, idx, c,
					"condition %q: %s", clause, verdict.Reason))
			}
		}
	}
	return out
}
