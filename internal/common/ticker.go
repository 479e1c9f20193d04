// Package common provides shared utilities across the application.
package common

import (
	"strings"
)

// DefaultSector is used when the provider supplies no industry classification.
const DefaultSector = "Unknown"

// ExchangeToSuffix maps exchange prefixes to Finnhub symbol suffixes.
// US listings carry no suffix.
var ExchangeToSuffix = map[string]string{
	"NYSE":   "",
	"NASDAQ": "",
	"US":     "",
	"ASX":    ".AX",
	"LSE":    ".L",
	"TSX":    ".TO",
	"XETRA":  ".DE",
	"HKEX":   ".HK",
	"OMX":    ".ST",
}

// Ticker is a parsed, canonical ticker symbol.
type Ticker struct {
	// Exchange is the exchange prefix supplied by the caller, if any (e.g. "ASX")
	Exchange string
	// Symbol is the canonical provider symbol (e.g. "AAPL", "BHP.AX")
	Symbol string
	// Raw is the original input
	Raw string
}

// ParseTicker canonicalises a ticker string.
// Supports formats:
//   - "aapl", " AAPL " -> Symbol="AAPL"
//   - "ASX:BHP" -> Exchange="ASX", Symbol="BHP.AX"
//   - "BRK.B" -> Symbol="BRK.B" (dots are kept, they are part of the symbol)
//
// Unknown exchange prefixes are kept in the symbol ("XYZ:VOD" stays "XYZ:VOD").
func ParseTicker(raw string) Ticker {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return Ticker{Raw: raw}
	}

	if idx := strings.Index(s, ":"); idx > 0 && idx < len(s)-1 {
		exchange := strings.TrimSpace(s[:idx])
		code := strings.TrimSpace(s[idx+1:])
		suffix, known := ExchangeToSuffix[exchange]
		if !known {
			// keep the prefix so the code cannot merge with a US listing
			return Ticker{Exchange: exchange, Symbol: exchange + ":" + code, Raw: raw}
		}
		if suffix != "" && strings.HasSuffix(code, suffix) {
			suffix = ""
		}
		return Ticker{Exchange: exchange, Symbol: code + suffix, Raw: raw}
	}

	return Ticker{Symbol: s, Raw: raw}
}

// IsEmpty reports whether the ticker has no symbol.
func (t Ticker) IsEmpty() bool {
	return t.Symbol == ""
}

// String returns the canonical symbol.
func (t Ticker) String() string {
	return t.Symbol
}

// NormalizeTicker returns the canonical symbol for raw, or "" when blank.
func NormalizeTicker(raw string) string {
	return ParseTicker(raw).Symbol
}

// NormalizeTickers canonicalises and de-duplicates tickers, keeping first-seen order.
// Blank entries are dropped.
func NormalizeTickers(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		sym := NormalizeTicker(r)
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

// NormalizeSector returns the case-insensitive identity key and the display name for a sector.
// Internal whitespace is collapsed; blank input maps to DefaultSector.
func NormalizeSector(raw string) (key string, display string) {
	display = strings.Join(strings.Fields(raw), " ")
	if display == "" {
		display = DefaultSector
	}
	return strings.ToUpper(display), display
}
