package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Policy holds the rule tables the validators consult: instrument
// allowlists, keyword lists, and the static sector table. All tables
// are read-only after load; built-in defaults cover any list a config
// file leaves empty.
type Policy struct {
	// ProxyTickers are instruments whose absolute price level carries
	// meaning (volatility, rate, and FX proxies). Only these may be
	// compared against fixed price thresholds.
	ProxyTickers []string `mapstructure:"proxy_tickers" yaml:"proxy_tickers"`
	// VolatilityProxies are the volatility-tracking instruments the
	// proxy-alignment check recognizes.
	VolatilityProxies []string `mapstructure:"volatility_proxies" yaml:"volatility_proxies"`
	// VolatilityKeywords are narrative words that acknowledge a
	// volatility proxy.
	VolatilityKeywords []string `mapstructure:"volatility_keywords" yaml:"volatility_keywords"`
	// Leverage2x is the closed allowlist of 2x leveraged instruments.
	Leverage2x []string `mapstructure:"leverage_2x" yaml:"leverage_2x"`
	// Leverage3x is the closed allowlist of 3x leveraged instruments.
	Leverage3x []string `mapstructure:"leverage_3x" yaml:"leverage_3x"`
	// LeverageIndicators are ticker substrings suggesting leverage in
	// instruments outside the allowlists.
	LeverageIndicators []string `mapstructure:"leverage_indicators" yaml:"leverage_indicators"`
	// ConcentrationKeywords justify concentrated books when present in
	// the rationale (core-satellite, barbell, and friends).
	ConcentrationKeywords []string `mapstructure:"concentration_keywords" yaml:"concentration_keywords"`
	// Sectors maps ticker to sector for the static sector lookup.
	Sectors map[string]string `mapstructure:"sectors" yaml:"sectors"`
}

// DefaultPolicy returns the compiled-in policy tables.
func DefaultPolicy() Policy {
	p := Policy{}
	p.fillDefaults()
	return p
}

// fillDefaults populates any empty table with its built-in default.
func (p *Policy) fillDefaults() {
	if len(p.ProxyTickers) == 0 {
		p.ProxyTickers = []string{
			"VIXY", "VXX", "UVXY", "SVXY", "VIXM", // volatility
			"UUP", "FXE", "FXY", "USDU", // FX
			"SHV", "BIL", // short rates
		}
	}
	if len(p.VolatilityProxies) == 0 {
		p.VolatilityProxies = []string{"VIXY", "VXX", "UVXY", "SVXY", "VIXM"}
	}
	if len(p.VolatilityKeywords) == 0 {
		p.VolatilityKeywords = []string{"volatility", "vix", "fear index", "tail risk", "vol spike"}
	}
	if len(p.Leverage2x) == 0 {
		p.Leverage2x = []string{
			"SSO", "QLD", "DDM", "UWM", "SDS", "QID", "DXD", "TWM",
			"UCO", "SCO", "AGQ", "UGL", "BOIL", "KOLD",
		}
	}
	if len(p.Leverage3x) == 0 {
		p.Leverage3x = []string{
			"TQQQ", "SQQQ", "UPRO", "SPXU", "UDOW", "SDOW", "URTY", "SRTY",
			"SOXL", "SOXS", "TECL", "TECS", "FAS", "FAZ", "LABU", "LABD",
			"TMF", "TMV", "NUGT", "DUST", "YINN", "YANG",
		}
	}
	if len(p.LeverageIndicators) == 0 {
		p.LeverageIndicators = []string{"2X", "3X", "TRIPLE", "ULTRA"}
	}
	if len(p.ConcentrationKeywords) == 0 {
		p.ConcentrationKeywords = []string{
			"core-satellite", "core satellite", "barbell",
			"high-conviction", "high conviction", "concentrated bet",
		}
	}
	if len(p.Sectors) == 0 {
		p.Sectors = defaultSectors()
	}
}

// ProxySet returns the proxy allowlist as a set.
func (p *Policy) ProxySet() map[string]bool {
	return toSet(p.ProxyTickers)
}

// VolatilityProxySet returns the volatility proxies as a set.
func (p *Policy) VolatilityProxySet() map[string]bool {
	return toSet(p.VolatilityProxies)
}

// LeverageTier returns 3, 2, or 1 for a ticker according to the
// closed allowlists. 1 means unleveraged.
func (p *Policy) LeverageTier(ticker string) int {
	if toSet(p.Leverage3x)[ticker] {
		return 3
	}
	if toSet(p.Leverage2x)[ticker] {
		return 2
	}
	return 1
}

// SeedPolicyFile writes the default policy tables as YAML so they can
// be audited and overridden without a rebuild.
func SeedPolicyFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating policy directory: %w", err)
	}
	data, err := yaml.Marshal(map[string]Policy{"policy": DefaultPolicy()})
	if err != nil {
		return fmt.Errorf("marshaling policy: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing policy file: %w", err)
	}
	return nil
}

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, v := range list {
		set[v] = true
	}
	return set
}

// defaultSectors is the static sector table used by the sector-lookup
// collaborator. Unlisted tickers resolve to a lookup failure, which
// the caller degrades to "Unknown".
func defaultSectors() map[string]string {
	return map[string]string{
		// sector ETFs
		"XLK": "Technology", "XLF": "Financials", "XLE": "Energy",
		"XLV": "Health Care", "XLY": "Consumer Discretionary",
		"XLP": "Consumer Staples", "XLI": "Industrials", "XLU": "Utilities",
		"XLB": "Materials", "XLRE": "Real Estate", "XLC": "Communication Services",
		// broad market
		"SPY": "Broad Market", "VOO": "Broad Market", "VTI": "Broad Market",
		"IWM": "Broad Market", "QQQ": "Technology", "DIA": "Broad Market",
		// fixed income
		"AGG": "Fixed Income", "BND": "Fixed Income", "TLT": "Fixed Income",
		"IEF": "Fixed Income", "SHY": "Fixed Income", "LQD": "Fixed Income",
		"HYG": "Fixed Income",
		// leveraged equity trackers
		"TQQQ": "Technology", "SQQQ": "Technology", "QLD": "Technology",
		"UPRO": "Broad Market", "SSO": "Broad Market", "SOXL": "Technology",
		"TECL": "Technology", "FAS": "Financials",
		// common single names
		"AAPL": "Technology", "MSFT": "Technology", "NVDA": "Technology",
		"GOOGL": "Communication Services", "AMZN": "Consumer Discretionary",
		"META": "Communication Services", "TSLA": "Consumer Discretionary",
		"JPM": "Financials", "BAC": "Financials", "XOM": "Energy",
		"CVX": "Energy", "JNJ": "Health Care", "UNH": "Health Care",
		"PG": "Consumer Staples", "KO": "Consumer Staples",
		// commodities and gold
		"GLD": "Commodities", "SLV": "Commodities", "USO": "Commodities",
		"DBC": "Commodities",
	}
}
