package condition

import "fmt"

// Verdict is the hygiene classification of a single clause.
type Verdict struct {
	// OK is true when the clause is hygienic.
	OK bool
	// Reason explains a rejection; empty when OK.
	Reason string
}

func accept() Verdict { return Verdict{OK: true} }

func reject(format string, args ...interface{}) Verdict {
	return Verdict{Reason: fmt.Sprintf(format, args...)}
}

// hygieneRule is one row of the threshold-hygiene policy table. Rows
// are evaluated in order; the first matching row decides the clause.
type hygieneRule struct {
	// name labels the row for auditability.
	name string
	// match reports whether the row applies to the clause.
	match func(p *ParsedCondition, proxies map[string]bool) bool
	// verdict decides a matching clause.
	verdict func(p *ParsedCondition, proxies map[string]bool) Verdict
}

// hygieneTable encodes the threshold policy. Precedence, top to
// bottom: relative comparisons are always fine, RSI has a universal
// scale, sign checks on returns are fine, any other fixed return
// threshold is arbitrary, and absolute price or average-price levels
// are only meaningful for approved proxy instruments.
var hygieneTable = []hygieneRule{
	{
		name: "cross-asset comparison",
		match: func(p *ParsedCondition, _ map[string]bool) bool {
			return p.Right != nil && p.Right.Ticker != p.Left.Ticker
		},
		verdict: func(_ *ParsedCondition, _ map[string]bool) Verdict {
			return accept()
		},
	},
	{
		name: "relative to own history",
		match: func(p *ParsedCondition, _ map[string]bool) bool {
			return p.SameTickerRHS()
		},
		verdict: func(_ *ParsedCondition, _ map[string]bool) Verdict {
			return accept()
		},
	},
	{
		name: "RSI fixed threshold",
		match: func(p *ParsedCondition, _ map[string]bool) bool {
			return p.IsLiteral && p.Left.Metric == MetricRSI
		},
		verdict: func(_ *ParsedCondition, _ map[string]bool) Verdict {
			// RSI has a universally understood 0-100 scale.
			return accept()
		},
	},
	{
		name: "zero-bounded return sign check",
		match: func(p *ParsedCondition, _ map[string]bool) bool {
			return p.IsLiteral && p.Left.Metric == MetricCumulativeReturn && p.Literal == 0
		},
		verdict: func(_ *ParsedCondition, _ map[string]bool) Verdict {
			return accept()
		},
	},
	{
		name: "arbitrary return threshold",
		match: func(p *ParsedCondition, _ map[string]bool) bool {
			return p.IsLiteral && p.Left.Metric == MetricCumulativeReturn
		},
		verdict: func(p *ParsedCondition, _ map[string]bool) Verdict {
			return reject("arbitrary return threshold %v for %s; compare against 0 or a reference series",
				p.Literal, p.Left.Ticker)
		},
	},
	{
		name: "absolute price threshold",
		match: func(p *ParsedCondition, _ map[string]bool) bool {
			return p.IsLiteral && p.Left.Metric == MetricPrice
		},
		verdict: func(p *ParsedCondition, proxies map[string]bool) Verdict {
			if proxies[p.Left.Ticker] {
				// Proxy instruments (volatility, rates, FX) carry
				// meaning in their absolute level.
				return accept()
			}
			return reject("absolute price threshold %v for %s; price levels drift and have no stable meaning",
				p.Literal, p.Left.Ticker)
		},
	},
	{
		name: "absolute moving-average threshold",
		match: func(p *ParsedCondition, _ map[string]bool) bool {
			return p.IsLiteral &&
				(p.Left.Metric == MetricMovingAverage || p.Left.Metric == MetricEMA)
		},
		verdict: func(p *ParsedCondition, proxies map[string]bool) Verdict {
			if proxies[p.Left.Ticker] {
				return accept()
			}
			// An average of prices drifts exactly like the prices.
			return reject("absolute moving-average threshold %v for %s; average price levels drift and have no stable meaning",
				p.Literal, p.Left.Ticker)
		},
	},
}

// Classify runs a parsed clause through the hygiene table. proxies is
// the approved proxy-instrument allowlist keyed by ticker. Clauses no
// row claims are accepted.
func Classify(p *ParsedCondition, proxies map[string]bool) Verdict {
	for _, rule := range hygieneTable {
		if rule.match(p, proxies) {
			return rule.verdict(p, proxies)
		}
	}
	return accept()
}
