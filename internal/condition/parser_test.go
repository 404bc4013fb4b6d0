package condition

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSimpleComparisons(t *testing.T) {
	tests := []struct {
		name       string
		clause     string
		wantTicker string
		wantMetric Metric
		wantWindow int
		wantComp   Comparator
	}{
		{"price vs MA", "SPY_price > SPY_200d_MA", "SPY", MetricPrice, 0, CompGT},
		{"EMA vs price", "QQQ_EMA_50d_MA < QQQ_price", "QQQ", MetricEMA, 50, CompLT},
		{"RSI vs literal", "SPY_RSI_14d <= 30", "SPY", MetricRSI, 14, CompLTE},
		{"cumulative return vs zero", "AGG_cumulative_return_30d > 0", "AGG", MetricCumulativeReturn, 30, CompGT},
		{"dotted share class", "BRK.B_price >= 300", "BRK.B", MetricPrice, 0, CompGTE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.clause)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.clause, err)
			}
			if parsed.Left.Ticker != tt.wantTicker {
				t.Errorf("ticker = %q, want %q", parsed.Left.Ticker, tt.wantTicker)
			}
			if parsed.Left.Metric != tt.wantMetric {
				t.Errorf("metric = %q, want %q", parsed.Left.Metric, tt.wantMetric)
			}
			if parsed.Left.Window != tt.wantWindow {
				t.Errorf("window = %d, want %d", parsed.Left.Window, tt.wantWindow)
			}
			if parsed.Comparator != tt.wantComp {
				t.Errorf("comparator = %q, want %q", parsed.Comparator, tt.wantComp)
			}
		})
	}
}

func TestParseLiteralRHS(t *testing.T) {
	parsed, err := Parse("VIXY_price > 20")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !parsed.IsLiteral {
		t.Error("expected literal RHS")
	}
	if parsed.Literal != 20 {
		t.Errorf("literal = %v, want 20", parsed.Literal)
	}
	if parsed.Right != nil {
		t.Error("Right should be nil for a literal RHS")
	}
}

func TestParseOperandRHS(t *testing.T) {
	parsed, err := Parse("SPY_price > SPY_200d_MA")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.IsLiteral {
		t.Error("expected operand RHS, got literal")
	}
	if parsed.Right == nil {
		t.Fatal("Right is nil")
	}
	if parsed.Right.Metric != MetricMovingAverage || parsed.Right.Window != 200 {
		t.Errorf("RHS = %+v, want 200d moving average", parsed.Right)
	}
	if !parsed.SameTickerRHS() {
		t.Error("SameTickerRHS() = false, want true")
	}
}

func TestParseCrossTickerRHS(t *testing.T) {
	parsed, err := Parse("XLK_cumulative_return_90d > XLU_cumulative_return_90d")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.SameTickerRHS() {
		t.Error("SameTickerRHS() = true for a cross-asset comparison")
	}
	if parsed.Right.Ticker != "XLU" {
		t.Errorf("RHS ticker = %q, want XLU", parsed.Right.Ticker)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		clause  string
		wantErr error
	}{
		{"empty", "", ErrEmptyCondition},
		{"whitespace only", "   ", ErrEmptyCondition},
		{"no comparator", "SPY_price SPY_200d_MA", ErrNoComparator},
		{"two comparators", "SPY_price > 10 < 20", ErrMultipleComparators},
		{"bad LHS", "lowercase_price > 10", ErrBadOperand},
		{"bad RHS", "SPY_price > garbage", ErrBadOperand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.clause)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.clause)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			var malformed *MalformedConditionError
			if !errors.As(err, &malformed) {
				t.Errorf("error is not a MalformedConditionError: %v", err)
			}
		})
	}
}

func TestMalformedConditionErrorMessage(t *testing.T) {
	_, err := Parse("SPY_price nonsense")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "SPY_price nonsense") {
		t.Errorf("error %q should name the offending condition", err)
	}
}

func TestSplitClauses(t *testing.T) {
	tests := []struct {
		expr string
		want int
	}{
		{"SPY_price > SPY_200d_MA", 1},
		{"SPY_price > SPY_200d_MA and VIXY_price < 20", 2},
		{"A_price > 1 or B_price > 2 and C_price > 3", 3},
	}
	for _, tt := range tests {
		got := SplitClauses(tt.expr)
		if len(got) != tt.want {
			t.Errorf("SplitClauses(%q) = %d clauses, want %d", tt.expr, len(got), tt.want)
		}
	}
}

func TestHasComparator(t *testing.T) {
	if !HasComparator("SPY_price > SPY_200d_MA") {
		t.Error("HasComparator missed >")
	}
	if HasComparator("just some text") {
		t.Error("HasComparator matched text without a comparator")
	}
}
