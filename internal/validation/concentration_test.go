package validation

import (
	"strings"
	"testing"

	"github.com/benredmond/stratval/internal/sector"
	"github.com/benredmond/stratval/pkg/models"
)

func testSectors() sector.Lookup {
	return sector.NewStaticLookup(testPolicy.Sectors)
}

func TestConcentrationSinglePosition(t *testing.T) {
	v := NewConcentrationValidator(testPolicy, testSectors())

	t.Run("over the limit without justification", func(t *testing.T) {
		c := staticCandidate("heavy", map[string]float64{"SPY": 0.55, "AGG": 0.25, "GLD": 0.20})
		got := findingsWithCategory(v.Check(0, c), models.CategoryConcentration)
		if len(got) != 1 {
			t.Fatalf("got %d concentration findings, want 1", len(got))
		}
		if got[0].Priority != models.PriorityNonBlocking {
			t.Errorf("priority = %v, want non-blocking", got[0].Priority)
		}
		if !strings.Contains(got[0].Message, "SPY") {
			t.Errorf("message %q should name the heavy position", got[0].Message)
		}
	})

	t.Run("rationale keyword is the escape hatch", func(t *testing.T) {
		c := staticCandidate("justified", map[string]float64{"SPY": 0.55, "AGG": 0.25, "GLD": 0.20})
		c.RebalancingRationale = "Core-satellite: SPY is the core, the rest are satellites."
		if got := findingsWithCategory(v.Check(0, c), models.CategoryConcentration); len(got) != 0 {
			t.Errorf("justified concentration still flagged: %v", got)
		}
	})

	t.Run("keyword in the thesis does not count for the position check", func(t *testing.T) {
		c := staticCandidate("wrong-field", map[string]float64{"SPY": 0.55, "AGG": 0.25, "GLD": 0.20})
		c.ThesisDocument = "A core-satellite book built around SPY."
		c.RebalancingRationale = "Monthly."
		got := findingsWithCategory(v.Check(0, c), models.CategoryConcentration)
		if len(got) != 1 {
			t.Errorf("single-position check must read the rationale only, got %v", got)
		}
	})
}

func TestConcentrationSectorBet(t *testing.T) {
	v := NewConcentrationValidator(testPolicy, testSectors())

	t.Run("small tech-heavy book", func(t *testing.T) {
		c := staticCandidate("tech", map[string]float64{"XLK": 0.40, "QQQ": 0.40, "AAPL": 0.20})
		c.RebalancingRationale = "High-conviction allocation to technology leadership."
		got := findingsWithCategory(v.Check(0, c), models.CategoryConcentration)
		if len(got) != 1 {
			t.Fatalf("got %d findings, want 1 sector finding", len(got))
		}
		if !strings.Contains(got[0].Message, "Technology") {
			t.Errorf("message %q should name the sector", got[0].Message)
		}
	})

	t.Run("four assets silence the sector check", func(t *testing.T) {
		c := staticCandidate("tech4", map[string]float64{"XLK": 0.30, "QQQ": 0.30, "AAPL": 0.20, "MSFT": 0.20})
		c.RebalancingRationale = "High-conviction technology book."
		if got := findingsWithCategory(v.Check(0, c), models.CategoryConcentration); len(got) != 0 {
			t.Errorf("four-asset book flagged: %v", got)
		}
	})

	t.Run("unknown tickers degrade to the Unknown bucket", func(t *testing.T) {
		c := staticCandidate("mystery", map[string]float64{"ZZZA": 0.50, "ZZZB": 0.30, "SPY": 0.20})
		c.RebalancingRationale = "High-conviction book."
		got := findingsWithCategory(v.Check(0, c), models.CategoryConcentration)
		if len(got) != 1 {
			t.Fatalf("got %d findings, want 1", len(got))
		}
		if !strings.Contains(got[0].Message, sector.Unknown) {
			t.Errorf("message %q should name the Unknown bucket", got[0].Message)
		}
	})
}

func TestConcentrationTinyBook(t *testing.T) {
	v := NewConcentrationValidator(testPolicy, testSectors())

	t.Run("two assets without framing", func(t *testing.T) {
		c := staticCandidate("pair", map[string]float64{"SPY": 0.60, "AGG": 0.40})
		got := findingsWithCategory(v.Check(0, c), models.CategoryConcentration)
		// One finding for the 60% position, one for the tiny book.
		if len(got) != 2 {
			t.Fatalf("got %d findings, want 2: %v", len(got), got)
		}
		for _, f := range got {
			if f.Priority != models.PriorityNonBlocking {
				t.Errorf("priority = %v, want non-blocking", f.Priority)
			}
		}
	})

	t.Run("barbell framing in the thesis counts", func(t *testing.T) {
		c := staticCandidate("barbell", map[string]float64{"SPY": 0.60, "AGG": 0.40})
		c.ThesisDocument = "A barbell of equity risk against duration."
		c.RebalancingRationale = "Barbell rebalanced monthly."
		if got := findingsWithCategory(v.Check(0, c), models.CategoryConcentration); len(got) != 0 {
			t.Errorf("barbell-framed pair flagged: %v", got)
		}
	})
}
