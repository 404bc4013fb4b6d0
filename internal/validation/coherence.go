package validation

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/benredmond/stratval/internal/condition"
	"github.com/benredmond/stratval/internal/config"
	"github.com/benredmond/stratval/pkg/models"
)

// CoherenceValidator bundles the independent semantic checks:
// archetype-vs-frequency, thesis-vs-logic-tree, weight derivation, and
// proxy alignment. Each check is a separate method over the same
// candidate so the pattern tables stay individually testable.
type CoherenceValidator struct {
	volProxies map[string]bool
	volWords   []string
}

// NewCoherenceValidator creates the validator with the policy's
// volatility proxy tables.
func NewCoherenceValidator(policy config.Policy) *CoherenceValidator {
	return &CoherenceValidator{
		volProxies: policy.VolatilityProxySet(),
		volWords:   policy.VolatilityKeywords,
	}
}

// Name implements Validator.
func (v *CoherenceValidator) Name() string { return "coherence" }

// Check implements Validator.
func (v *CoherenceValidator) Check(idx int, c *models.Candidate) []models.Finding {
	var out []models.Finding
	out = append(out, v.checkFrequency(idx, c)...)
	out = append(out, v.checkThesisLogic(idx, c)...)
	out = append(out, v.checkWeightDerivation(idx, c)...)
	out = append(out, v.checkProxyAlignment(idx, c)...)
	return out
}

// frequencyMismatches maps archetype to the rebalance cadences that
// conflict with its signal decay speed, with a one-line rationale per
// pair. Combinations absent from the table are acceptable.
var frequencyMismatches = map[models.Archetype]map[models.RebalanceFrequency]string{
	models.ArchetypeMomentum: {
		models.FrequencyQuarterly: "momentum signal decays well inside a quarter; quarterly rebalancing trades on stale signal",
	},
	models.ArchetypeMeanReversion: {
		models.FrequencyDaily:  "daily cadence churns a mean-reversion book faster than the reversion completes",
		models.FrequencyWeekly: "weekly cadence churns a mean-reversion book faster than the reversion completes",
	},
	models.ArchetypeCarry: {
		models.FrequencyDaily:   "carry accrues slowly; daily rebalancing pays costs before the premium accrues",
		models.FrequencyWeekly:  "carry accrues slowly; weekly rebalancing pays costs before the premium accrues",
		models.FrequencyMonthly: "carry accrues slowly; monthly rebalancing pays costs before the premium accrues",
	},
	models.ArchetypeVolatility: {
		models.FrequencyMonthly:   "volatility regimes shift in days; monthly cadence reacts after the regime has passed",
		models.FrequencyQuarterly: "volatility regimes shift in days; quarterly cadence reacts after the regime has passed",
	},
	models.ArchetypeTactical: {
		models.FrequencyMonthly:   "a tactical switch needs to fire when conditions change, not at month end",
		models.FrequencyQuarterly: "a tactical switch needs to fire when conditions change, not at quarter end",
	},
}

// checkFrequency applies the archetype-by-frequency mismatch matrix.
func (v *CoherenceValidator) checkFrequency(idx int, c *models.Candidate) []models.Finding {
	rationales, ok := frequencyMismatches[c.Archetype]
	if !ok {
		return nil
	}
	rationale, ok := rationales[c.RebalanceFrequency]
	if !ok {
		return nil
	}
	return []models.Finding{finding(models.PriorityRetryRequired, models.CategoryFrequencyMismatch, idx, c,
		"%s archetype with %s rebalancing: %s", c.Archetype, c.RebalanceFrequency, rationale)}
}

// conditionalPhrases detect thesis language describing conditional
// behavior. Ordered; any hit marks the thesis conditional unless a
// suppression phrase also matches.
var conditionalPhrases = []*regexp.Regexp{
	// "if X exceeds/crosses/falls below Y"
	regexp.MustCompile(`(?i)\bif\b[^.\n]{0,60}\b(exceeds|crosses above|crosses below|falls below|drops below|rises above)\b`),
	// "when X is above/below Y"
	regexp.MustCompile(`(?i)\bwhen\b[^.\n]{0,60}\b(above|below)\b`),
	// "rotate to/into"
	regexp.MustCompile(`(?i)\brotat(e|es|ing)\s+(to|into)\b`),
	// "switch to/into"
	regexp.MustCompile(`(?i)\bswitch(es|ing)?\s+(to|into)\b`),
	// "threshold of N"
	regexp.MustCompile(`(?i)\bthreshold of\s+-?\d`),
	// "VIX > 30" style inline comparisons
	regexp.MustCompile(`(?i)\bVIX\s*[<>]=?\s*\d`),
}

// suppressionPhrases are static-context labels that read like
// conditional language but describe the strategy as a noun, not a
// rule. A suppression hit vetoes the conditional classification.
var suppressionPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsector rotation strategy\b`),
	regexp.MustCompile(`(?i)\brotation[- ]based approach\b`),
	regexp.MustCompile(`(?i)\bhistorically\b[^.\n]{0,40}\brotat`),
}

// checkThesisLogic flags a thesis describing conditional behavior when
// the candidate carries no logic tree. Classified as syntax-error
// rather than a semantic mismatch so it reliably triggers repair; the
// cost is occasional false positives from the phrase table.
func (v *CoherenceValidator) checkThesisLogic(idx int, c *models.Candidate) []models.Finding {
	if c.IsDynamic() {
		return nil
	}
	text := c.Narrative()
	matched := ""
	for _, re := range conditionalPhrases {
		if m := re.FindString(text); m != "" {
			matched = m
			break
		}
	}
	if matched == "" {
		return nil
	}
	for _, re := range suppressionPhrases {
		if re.MatchString(text) {
			return nil
		}
	}
	return []models.Finding{finding(models.PrioritySyntaxError, models.CategoryThesisLogicMismatch, idx, c,
		"thesis describes conditional behavior (%q) but logic_tree is empty", strings.TrimSpace(matched))}
}

// derivationClaims detect a claimed weight derivation method.
var derivationClaims = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmomentum[- ]weighted\b`),
	regexp.MustCompile(`(?i)\bweighted by\s+(recent\s+)?momentum\b`),
	regexp.MustCompile(`(?i)\bproportional to\s+(recent\s+)?momentum\b`),
	regexp.MustCompile(`(?i)\bvolatility[- ]weighted\b`),
	regexp.MustCompile(`(?i)\bweighted by\s+(inverse\s+)?volatility\b`),
	regexp.MustCompile(`(?i)\brisk[- ]weighted\b`),
}

// derivationExplanations suppress the mismatch when the text explains
// how the weights were actually computed.
var derivationExplanations = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bderived (from|by|using)\b`),
	regexp.MustCompile(`(?i)\bcomputed (from|by|as|using)\b`),
	regexp.MustCompile(`(?i)\bcalculated (from|by|as|using)\b`),
	regexp.MustCompile(`(?i)\bnormalized\b`),
}

// roundFractions are the canonical round weights that betray a
// hand-assigned allocation.
var roundFractions = []float64{0.20, 0.25, 0.30, 1.0 / 3.0, 0.35, 0.40, 0.50}

// roundFractionTolerance is how close a weight must be to a canonical
// fraction to count as round.
const roundFractionTolerance = 0.005

// checkWeightDerivation flags candidates that claim a derivation
// method for three or more assets while every weight sits on a
// canonical round fraction and nothing explains the computation.
func (v *CoherenceValidator) checkWeightDerivation(idx int, c *models.Candidate) []models.Finding {
	if len(c.Assets) < 3 || len(c.Weights) == 0 {
		return nil
	}
	text := c.Narrative()

	claim := ""
	for _, re := range derivationClaims {
		if m := re.FindString(text); m != "" {
			claim = m
			break
		}
	}
	if claim == "" {
		return nil
	}
	for _, re := range derivationExplanations {
		if re.MatchString(text) {
			return nil
		}
	}
	for _, w := range c.Weights {
		if !isRoundFraction(w) {
			return nil
		}
	}
	return []models.Finding{finding(models.PriorityRetryRequired, models.CategoryDerivationMismatch, idx, c,
		"narrative claims %q but every weight is a round fraction; derived weights would not all land on round numbers",
		strings.TrimSpace(claim))}
}

func isRoundFraction(w float64) bool {
	for _, f := range roundFractions {
		if math.Abs(w-f) <= roundFractionTolerance {
			return true
		}
	}
	return false
}

// checkProxyAlignment requires the narrative to acknowledge any
// volatility proxy the logic tree conditions on, either by naming the
// ticker or using a volatility-domain keyword.
func (v *CoherenceValidator) checkProxyAlignment(idx int, c *models.Candidate) []models.Finding {
	if !c.IsDynamic() {
		return nil
	}

	referenced := map[string]bool{}
	for _, expr := range c.LogicTree.Conditions() {
		for _, clause := range condition.SplitClauses(expr) {
			parsed, err := condition.Parse(clause)
			if err != nil {
				continue // hygiene reports the parse failure
			}
			if v.volProxies[parsed.Left.Ticker] {
				referenced[parsed.Left.Ticker] = true
			}
			if parsed.Right != nil && v.volProxies[parsed.Right.Ticker] {
				referenced[parsed.Right.Ticker] = true
			}
		}
	}
	if len(referenced) == 0 {
		return nil
	}

	tickers := make([]string, 0, len(referenced))
	for ticker := range referenced {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	text := strings.ToLower(c.Narrative())
	var out []models.Finding
	for _, ticker := range tickers {
		if strings.Contains(text, strings.ToLower(ticker)) {
			continue
		}
		acknowledged := false
		for _, word := range v.volWords {
			if strings.Contains(text, strings.ToLower(word)) {
				acknowledged = true
				break
			}
		}
		if !acknowledged {
			out = append(out, finding(models.PrioritySuggestion, models.CategoryProxyAlignment, idx, c,
				"logic tree conditions on volatility proxy %s but the narrative never mentions it or volatility", ticker))
		}
	}
	return out
}
