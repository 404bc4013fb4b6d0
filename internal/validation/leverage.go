package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/benredmond/stratval/internal/config"
	"github.com/benredmond/stratval/pkg/models"
)

// leverageTier holds the per-tier justification rules. The table is
// keyed by the leverage multiple and never mutated.
type leverageTier struct {
	// DrawdownMin and DrawdownMax bound a realistic claimed drawdown
	// in percent. A claim below DrawdownMin is a hard reject.
	DrawdownMin float64
	DrawdownMax float64
	// RequireStressAnalog demands a named historical-crisis analog.
	RequireStressAnalog bool
	// RequireExitCriterion demands an operator+threshold exit rule.
	RequireExitCriterion bool
}

// leverageTiers is the tiered rule table.
var leverageTiers = map[int]leverageTier{
	2: {DrawdownMin: 18, DrawdownMax: 40},
	3: {DrawdownMin: 40, DrawdownMax: 65, RequireStressAnalog: true, RequireExitCriterion: true},
}

// crisisYears are the accepted historical stress analogs.
var crisisYears = []string{"2022", "2020", "2008"}

// Patterns for leverage narrative elements.
var (
	// convexityPattern matches a convexity-advantage explanation.
	convexityPattern = regexp.MustCompile(`(?i)\bconvex|\bcompound(ing)?\s+(advantage|effect|growth|returns)|\bgeometric\s+compounding|\bamplif(y|ies|ied)\b`)
	// drawdownNumberPattern extracts "<term> ... N%" drawdown claims.
	drawdownNumberPattern = regexp.MustCompile(`(?i)(?:drawdown|peak-to-trough|decline)s?[^.\n]{0,60}?(\d{1,3}(?:\.\d+)?)\s*%`)
	// drawdownNumberReversed extracts "N% ... drawdown" claims.
	drawdownNumberReversed = regexp.MustCompile(`(?i)(\d{1,3}(?:\.\d+)?)\s*%[^.\n]{0,40}?(?:drawdown|peak-to-trough|decline)`)
	// percentPattern finds any percent figure in a sentence.
	percentPattern = regexp.MustCompile(`\d+(?:\.\d+)?\s*%`)
	// decayWordPattern matches decay-cost vocabulary.
	decayWordPattern = regexp.MustCompile(`(?i)\b(decay|volatility drag|rebalancing drag|beta slippage)\b`)
	// annualWordPattern matches annualization vocabulary.
	annualWordPattern = regexp.MustCompile(`(?i)\b(annual|annualized|annually|per year|yearly)\b`)
	// exitWordPattern matches exit-rule vocabulary.
	exitWordPattern = regexp.MustCompile(`(?i)\b(exit|stop|close|unwind|de-?risk|cut)\b`)
	// operatorThresholdPattern matches "VIX > 30" style rules.
	operatorThresholdPattern = regexp.MustCompile(`[<>]=?\s*-?\d`)
	// benchmarkPhrasePattern matches generic unleveraged-benchmark talk.
	benchmarkPhrasePattern = regexp.MustCompile(`(?i)\b(unleveraged|unlevered|1x\b|underlying index)`)
)

// underlyingOf maps leveraged tickers to their unleveraged benchmark.
var underlyingOf = map[string]string{
	"TQQQ": "QQQ", "SQQQ": "QQQ", "QLD": "QQQ", "QID": "QQQ",
	"UPRO": "SPY", "SPXU": "SPY", "SSO": "SPY", "SDS": "SPY",
	"UDOW": "DIA", "SDOW": "DIA", "DDM": "DIA", "DXD": "DIA",
	"URTY": "IWM", "SRTY": "IWM", "UWM": "IWM", "TWM": "IWM",
	"SOXL": "SOXX", "SOXS": "SOXX", "TECL": "XLK", "TECS": "XLK",
	"FAS": "XLF", "FAZ": "XLF", "LABU": "XBI", "LABD": "XBI",
	"TMF": "TLT", "TMV": "TLT", "NUGT": "GDX", "DUST": "GDX",
	"YINN": "FXI", "YANG": "FXI", "UCO": "USO", "SCO": "USO",
	"AGQ": "SLV", "UGL": "GLD", "BOIL": "UNG", "KOLD": "UNG",
}

// LeverageValidator applies the tiered justification rules to
// candidates holding leveraged instruments. Unleveraged candidates
// pass through untouched apart from the allowlist-indicator sweep.
type LeverageValidator struct {
	policy config.Policy
}

// NewLeverageValidator creates the validator with the policy's
// leverage allowlists.
func NewLeverageValidator(policy config.Policy) *LeverageValidator {
	return &LeverageValidator{policy: policy}
}

// Name implements Validator.
func (v *LeverageValidator) Name() string { return "leverage" }

// Check implements Validator.
func (v *LeverageValidator) Check(idx int, c *models.Candidate) []models.Finding {
	var out []models.Finding

	maxLeverage := 1
	var leveraged []string
	for _, ticker := range c.Assets {
		tier := v.policy.LeverageTier(ticker)
		if tier > 1 {
			leveraged = append(leveraged, ticker)
		}
		if tier > maxLeverage {
			maxLeverage = tier
		}
		if tier == 1 {
			// Off-allowlist tickers that look leveraged get their own
			// flag so new instruments cannot slip past the tier rules.
			upper := strings.ToUpper(ticker)
			for _, indicator := range v.policy.LeverageIndicators {
				if strings.Contains(upper, indicator) {
					out = append(out, finding(models.PriorityRetryRequired, models.CategoryLeverageJustification, idx, c,
						"%s carries the leverage indicator %q but is not on the leverage allowlists", ticker, indicator))
					break
				}
			}
		}
	}
	if maxLeverage == 1 {
		return out
	}

	tier := leverageTiers[maxLeverage]
	text := c.Narrative()
	missingPriority := models.PriorityRetryRequired
	if maxLeverage == 3 {
		missingPriority = models.PriorityHardReject
	}

	// Core element 1: convexity advantage.
	if !convexityPattern.MatchString(text) {
		out = append(out, finding(missingPriority, models.CategoryLeverageJustification, idx, c,
			"%dx leverage without a convexity-advantage explanation", maxLeverage))
	}

	// Core element 2: quantified annualized decay cost.
	if !hasDecayQuantification(text) {
		out = append(out, finding(missingPriority, models.CategoryLeverageDecay, idx, c,
			"%dx leverage without a quantified annualized decay cost (a number tied to decay or volatility drag)", maxLeverage))
	}

	// Core element 3: realistic drawdown statement. Any claim under
	// the tier floor is a hard reject on its own, whatever else the
	// narrative gets right.
	claims := extractDrawdownClaims(text)
	realistic := false
	for _, claim := range claims {
		if claim < tier.DrawdownMin {
			out = append(out, finding(models.PriorityHardReject, models.CategoryLeverageJustification, idx, c,
				"UNREALISTIC drawdown claim of %s%% for %dx leverage; the realistic floor is %s%%",
				trimFloat(claim), maxLeverage, trimFloat(tier.DrawdownMin)))
			continue
		}
		realistic = true
	}
	if !realistic && len(claims) == 0 {
		out = append(out, finding(missingPriority, models.CategoryLeverageJustification, idx, c,
			"%dx leverage without a realistic drawdown statement (expect %s-%s%%)",
			maxLeverage, trimFloat(tier.DrawdownMin), trimFloat(tier.DrawdownMax)))
	}

	// Core element 4: benchmark comparison to the unleveraged
	// instrument.
	if !hasBenchmarkComparison(text, leveraged) {
		out = append(out, finding(missingPriority, models.CategoryLeverageJustification, idx, c,
			"%dx leverage without a benchmark comparison to the unleveraged instrument", maxLeverage))
	}

	// 3x-only elements.
	if tier.RequireStressAnalog && !hasCrisisAnalog(text) {
		out = append(out, finding(models.PriorityHardReject, models.CategoryLeverageJustification, idx, c,
			"3x leverage without a named historical stress analog (2022, 2020, or 2008)"))
	}
	if tier.RequireExitCriterion && !hasExitCriterion(text) {
		out = append(out, finding(models.PriorityHardReject, models.CategoryLeverageJustification, idx, c,
			"3x leverage without an exit criterion expressed as an operator and threshold (e.g. VIX > 30)"))
	}

	return out
}

// hasDecayQuantification looks for a sentence tying a percent figure
// to annualized decay vocabulary.
func hasDecayQuantification(text string) bool {
	for _, sentence := range strings.Split(text, ".") {
		if percentPattern.MatchString(sentence) &&
			decayWordPattern.MatchString(sentence) &&
			annualWordPattern.MatchString(sentence) {
			return true
		}
	}
	return false
}

// extractDrawdownClaims returns every explicit drawdown percentage in
// the text.
func extractDrawdownClaims(text string) []float64 {
	var claims []float64
	for _, m := range drawdownNumberPattern.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			claims = append(claims, v)
		}
	}
	for _, m := range drawdownNumberReversed.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			claims = append(claims, v)
		}
	}
	return claims
}

// hasBenchmarkComparison checks for the unleveraged counterpart of any
// held leveraged asset, or generic unleveraged-benchmark language.
func hasBenchmarkComparison(text string, leveraged []string) bool {
	if benchmarkPhrasePattern.MatchString(text) {
		return true
	}
	upper := strings.ToUpper(text)
	for _, ticker := range leveraged {
		if underlying, ok := underlyingOf[ticker]; ok && strings.Contains(upper, underlying) {
			return true
		}
	}
	return false
}

// hasCrisisAnalog checks for a named historical-crisis year.
func hasCrisisAnalog(text string) bool {
	for _, year := range crisisYears {
		if strings.Contains(text, year) {
			return true
		}
	}
	return false
}

// hasExitCriterion looks for a sentence pairing exit vocabulary with
// an operator+threshold expression.
func hasExitCriterion(text string) bool {
	for _, sentence := range strings.Split(text, ".") {
		if exitWordPattern.MatchString(sentence) && operatorThresholdPattern.MatchString(sentence) {
			return true
		}
	}
	return false
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
