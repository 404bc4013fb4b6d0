package sector

import (
	"errors"
	"testing"
)

func TestStaticLookup(t *testing.T) {
	l := NewStaticLookup(map[string]string{"SPY": "Broad Market"})

	s, err := l.SectorOf("SPY")
	if err != nil || s != "Broad Market" {
		t.Errorf("SectorOf(SPY) = %q, %v", s, err)
	}

	_, err = l.SectorOf("ZZZZ")
	if !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("error = %v, want ErrUnknownTicker", err)
	}
}

func TestResolveDegrades(t *testing.T) {
	l := NewStaticLookup(map[string]string{"SPY": "Broad Market"})

	if got := Resolve(l, "SPY"); got != "Broad Market" {
		t.Errorf("Resolve(SPY) = %q", got)
	}
	if got := Resolve(l, "ZZZZ"); got != Unknown {
		t.Errorf("Resolve(ZZZZ) = %q, want Unknown", got)
	}
	if got := Resolve(nil, "SPY"); got != Unknown {
		t.Errorf("Resolve with nil lookup = %q, want Unknown", got)
	}
}
