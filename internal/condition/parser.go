// Package condition parses the embedded conditional-expression
// language used by strategy logic trees ("TICKER_METRIC <op> VALUE")
// and classifies parsed clauses for threshold hygiene.
package condition

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Common errors for condition parsing.
var (
	// ErrEmptyCondition indicates a blank condition string.
	ErrEmptyCondition = errors.New("empty condition")
	// ErrNoComparator indicates no comparator token was found.
	ErrNoComparator = errors.New("no comparator found")
	// ErrMultipleComparators indicates more than one comparator token.
	ErrMultipleComparators = errors.New("multiple comparators found")
	// ErrBadOperand indicates an operand that matches no metric form.
	ErrBadOperand = errors.New("unrecognized operand")
)

// MalformedConditionError wraps a parse failure with the offending
// condition text. Callers degrade these to findings, never panics.
type MalformedConditionError struct {
	Condition string
	Err       error
}

// Error implements the error interface.
func (e *MalformedConditionError) Error() string {
	return fmt.Sprintf("malformed condition %q: %v", e.Condition, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *MalformedConditionError) Unwrap() error {
	return e.Err
}

// Metric identifies which indicator an operand references.
type Metric string

const (
	// MetricPrice is the current price.
	MetricPrice Metric = "current-price"
	// MetricMovingAverage is a simple moving average over Window days.
	MetricMovingAverage Metric = "moving-average"
	// MetricEMA is an exponential moving average over Window days.
	MetricEMA Metric = "exponential-moving-average"
	// MetricCumulativeReturn is the cumulative return over Window days.
	MetricCumulativeReturn Metric = "cumulative-return"
	// MetricRSI is the relative strength index over Window days.
	MetricRSI Metric = "relative-strength-index"
)

// Comparator is the comparison operator between LHS and RHS.
type Comparator string

const (
	// CompGT is strictly greater than.
	CompGT Comparator = "gt"
	// CompGTE is greater than or equal.
	CompGTE Comparator = "gte"
	// CompLT is strictly less than.
	CompLT Comparator = "lt"
	// CompLTE is less than or equal.
	CompLTE Comparator = "lte"
	// CompEQ is equality.
	CompEQ Comparator = "eq"
	// CompNEQ is inequality.
	CompNEQ Comparator = "neq"
)

// Operand is one side of a comparison: a ticker, a metric, and the
// metric's lookback window in days (0 when the metric has none).
type Operand struct {
	Ticker string
	Metric Metric
	Window int
}

// ParsedCondition is the classified form of a single clause. It is
// produced during validation only and never persisted.
type ParsedCondition struct {
	// Left is the LHS operand.
	Left Operand
	// Comparator relates LHS to RHS.
	Comparator Comparator
	// Literal holds the RHS numeric value when IsLiteral is true.
	Literal float64
	// IsLiteral reports whether the RHS was a bare number.
	IsLiteral bool
	// Right holds the RHS operand when the RHS was not a literal.
	Right *Operand
}

// SameTickerRHS returns true if the RHS references the same ticker as
// the LHS (e.g. price versus its own moving average).
func (p *ParsedCondition) SameTickerRHS() bool {
	return p.Right != nil && p.Right.Ticker == p.Left.Ticker
}

// Regular expressions for the operand grammar. EMA must be tried
// before the plain moving-average form, which it would otherwise match.
var (
	// emaPattern matches "TICKER_EMA_<N>d_MA".
	emaPattern = regexp.MustCompile(`^([A-Z][A-Z0-9.^-]*)_EMA_(\d+)d_MA$`)
	// maPattern matches "TICKER_<N>d_MA".
	maPattern = regexp.MustCompile(`^([A-Z][A-Z0-9.^-]*)_(\d+)d_MA$`)
	// cumReturnPattern matches "TICKER_cumulative_return_<N>d".
	cumReturnPattern = regexp.MustCompile(`^([A-Z][A-Z0-9.^-]*)_cumulative_return_(\d+)d$`)
	// rsiPattern matches "TICKER_RSI_<N>d".
	rsiPattern = regexp.MustCompile(`^([A-Z][A-Z0-9.^-]*)_RSI_(\d+)d$`)
	// pricePattern matches "TICKER_price".
	pricePattern = regexp.MustCompile(`^([A-Z][A-Z0-9.^-]*)_price$`)
	// comparatorPattern finds comparator tokens. Two-character forms
	// come first so ">=" is not consumed as ">".
	comparatorPattern = regexp.MustCompile(`>=|<=|==|!=|>|<`)
	// numberPattern matches a bare optionally-signed decimal number.
	numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// comparatorTokens maps comparator tokens to their enum values.
var comparatorTokens = map[string]Comparator{
	">":  CompGT,
	">=": CompGTE,
	"<":  CompLT,
	"<=": CompLTE,
	"==": CompEQ,
	"!=": CompNEQ,
}

// HasComparator reports whether s contains at least one comparator
// token. The syntax validator uses this for its cheap shape check
// without committing to a full parse.
func HasComparator(s string) bool {
	return comparatorPattern.MatchString(s)
}

// SplitClauses splits a compound expression on literal " and " / " or "
// connectives. A simple expression comes back as a single clause.
func SplitClauses(expr string) []string {
	parts := []string{expr}
	for _, sep := range []string{" and ", " or "} {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}
	var clauses []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			clauses = append(clauses, p)
		}
	}
	return clauses
}

// Parse classifies a single clause. Compound expressions must be split
// with SplitClauses first; a comparator count other than exactly one
// is rejected here.
func Parse(clause string) (*ParsedCondition, error) {
	trimmed := strings.TrimSpace(clause)
	if trimmed == "" {
		return nil, &MalformedConditionError{Condition: clause, Err: ErrEmptyCondition}
	}

	tokens := comparatorPattern.FindAllString(trimmed, -1)
	switch {
	case len(tokens) == 0:
		return nil, &MalformedConditionError{Condition: clause, Err: ErrNoComparator}
	case len(tokens) > 1:
		return nil, &MalformedConditionError{Condition: clause, Err: ErrMultipleComparators}
	}
	token := tokens[0]

	idx := strings.Index(trimmed, token)
	lhs := strings.TrimSpace(trimmed[:idx])
	rhs := strings.TrimSpace(trimmed[idx+len(token):])

	left, err := parseOperand(lhs)
	if err != nil {
		return nil, &MalformedConditionError{Condition: clause, Err: err}
	}

	parsed := &ParsedCondition{
		Left:       left,
		Comparator: comparatorTokens[token],
	}

	if numberPattern.MatchString(rhs) {
		value, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return nil, &MalformedConditionError{Condition: clause, Err: err}
		}
		parsed.Literal = value
		parsed.IsLiteral = true
		return parsed, nil
	}

	// Not a number: the RHS follows the same operand grammar, which
	// enables ticker-vs-ticker and own-history comparisons.
	right, err := parseOperand(rhs)
	if err != nil {
		return nil, &MalformedConditionError{Condition: clause, Err: err}
	}
	parsed.Right = &right
	return parsed, nil
}

// parseOperand matches a token against the metric grammar.
func parseOperand(token string) (Operand, error) {
	if m := emaPattern.FindStringSubmatch(token); m != nil {
		return Operand{Ticker: m[1], Metric: MetricEMA, Window: atoiWindow(m[2])}, nil
	}
	if m := maPattern.FindStringSubmatch(token); m != nil {
		return Operand{Ticker: m[1], Metric: MetricMovingAverage, Window: atoiWindow(m[2])}, nil
	}
	if m := cumReturnPattern.FindStringSubmatch(token); m != nil {
		return Operand{Ticker: m[1], Metric: MetricCumulativeReturn, Window: atoiWindow(m[2])}, nil
	}
	if m := rsiPattern.FindStringSubmatch(token); m != nil {
		return Operand{Ticker: m[1], Metric: MetricRSI, Window: atoiWindow(m[2])}, nil
	}
	if m := pricePattern.FindStringSubmatch(token); m != nil {
		return Operand{Ticker: m[1], Metric: MetricPrice}, nil
	}
	return Operand{}, fmt.Errorf("%w: %q", ErrBadOperand, token)
}

func atoiWindow(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
