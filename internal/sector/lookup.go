// Package sector provides the sector-lookup collaborator used by the
// concentration validator. Lookups may fail per ticker; callers
// degrade failures to the Unknown bucket and never retry.
package sector

import (
	"errors"
	"fmt"
)

// Unknown is the bucket a ticker falls into when lookup fails.
const Unknown = "Unknown"

// ErrUnknownTicker indicates the lookup has no sector for a ticker.
var ErrUnknownTicker = errors.New("unknown ticker")

// Lookup resolves a ticker to a sector name.
type Lookup interface {
	SectorOf(ticker string) (string, error)
}

// StaticLookup resolves sectors from a fixed table.
type StaticLookup struct {
	table map[string]string
}

// NewStaticLookup creates a lookup backed by the given table.
func NewStaticLookup(table map[string]string) *StaticLookup {
	return &StaticLookup{table: table}
}

// SectorOf returns the sector for ticker, or ErrUnknownTicker.
func (l *StaticLookup) SectorOf(ticker string) (string, error) {
	if s, ok := l.table[ticker]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
}

// Resolve looks up a ticker and degrades any failure to Unknown.
func Resolve(l Lookup, ticker string) string {
	if l == nil {
		return Unknown
	}
	s, err := l.SectorOf(ticker)
	if err != nil || s == "" {
		return Unknown
	}
	return s
}
