package validation

import (
	"sort"
	"strings"

	"github.com/benredmond/stratval/internal/config"
	"github.com/benredmond/stratval/internal/sector"
	"github.com/benredmond/stratval/pkg/models"
)

// Concentration guardrail thresholds.
const (
	// singleAssetLimit is the single-position weight above which a
	// justification keyword is expected.
	singleAssetLimit = 0.40
	// sectorLimit is the per-sector weight above which small books
	// get flagged.
	sectorLimit = 0.75
	// minAssetsForSectorBet is the asset count a concentrated sector
	// bet needs before it stops being flagged.
	minAssetsForSectorBet = 4
	// minAssetsBeforeKeyword is the book size under which a barbell or
	// core-satellite keyword is expected.
	minAssetsBeforeKeyword = 3
)

// ConcentrationValidator applies position, sector, and asset-count
// guardrails with narrative escape hatches. Everything it emits is
// non-blocking by design; concentration can be a deliberate choice,
// so the validator only asks that the choice be named.
type ConcentrationValidator struct {
	keywords []string
	sectors  sector.Lookup
}

// NewConcentrationValidator creates the validator with the policy's
// justification keywords and a sector lookup. The lookup may be nil;
// every ticker then lands in the Unknown bucket.
func NewConcentrationValidator(policy config.Policy, sectors sector.Lookup) *ConcentrationValidator {
	return &ConcentrationValidator{
		keywords: policy.ConcentrationKeywords,
		sectors:  sectors,
	}
}

// Name implements Validator.
func (v *ConcentrationValidator) Name() string { return "concentration" }

// Check implements Validator.
func (v *ConcentrationValidator) Check(idx int, c *models.Candidate) []models.Finding {
	var out []models.Finding

	// Single-position concentration: >40% wants a justification
	// keyword in the rationale.
	for _, ticker := range sortedKeys(c.Weights) {
		w := c.Weights[ticker]
		if w > singleAssetLimit && !v.hasKeyword(c.RebalancingRationale) {
			out = append(out, finding(models.PriorityNonBlocking, models.CategoryConcentration, idx, c,
				"%s carries %.0f%% of the book with no concentration justification (core-satellite, barbell, high-conviction) in the rationale",
				ticker, w*100))
		}
	}

	// Sector concentration: >75% in one sector on a small book. The
	// lookup may fail per ticker; failures degrade to Unknown and
	// still count toward a bucket.
	if len(c.Assets) < minAssetsForSectorBet {
		bySector := map[string]float64{}
		for ticker, w := range c.Weights {
			bySector[sector.Resolve(v.sectors, ticker)] += w
		}
		sectorNames := make([]string, 0, len(bySector))
		for name := range bySector {
			sectorNames = append(sectorNames, name)
		}
		sort.Strings(sectorNames)
		for _, name := range sectorNames {
			if bySector[name] > sectorLimit {
				out = append(out, finding(models.PriorityNonBlocking, models.CategoryConcentration, idx, c,
					"%.0f%% of the book sits in the %s sector with only %d assets; consider at least %d",
					bySector[name]*100, name, len(c.Assets), minAssetsForSectorBet))
			}
		}
	}

	// Tiny books: fewer than 3 assets wants a barbell or
	// core-satellite keyword somewhere in the narrative.
	if len(c.Assets) < minAssetsBeforeKeyword && !v.hasKeyword(c.Narrative()) {
		out = append(out, finding(models.PriorityNonBlocking, models.CategoryConcentration, idx, c,
			"only %d asset(s) with no barbell or core-satellite framing in the thesis or rationale", len(c.Assets)))
	}

	return out
}

// hasKeyword reports whether text contains any justification keyword.
func (v *ConcentrationValidator) hasKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range v.keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
