package common

import (
	"testing"
)

func TestParseTicker(t *testing.T) {
	tests := []struct {
		input        string
		wantExchange string
		wantSymbol   string
	}{
		// Plain symbols
		{"AAPL", "", "AAPL"},
		{"aapl", "", "AAPL"},
		{" AAPL ", "", "AAPL"},
		{"BRK.B", "", "BRK.B"},

		// Exchange-qualified
		{"ASX:BHP", "ASX", "BHP.AX"},
		{"asx:bhp", "ASX", "BHP.AX"},
		{"ASX:BHP.AX", "ASX", "BHP.AX"},
		{"NASDAQ:MSFT", "NASDAQ", "MSFT"},
		{"LSE:VOD", "LSE", "VOD.L"},

		// Unknown exchange keeps its prefix
		{"FOO:BAR", "FOO", "FOO:BAR"},
		{" xyz : vod ", "XYZ", "XYZ:VOD"},

		// Trailing colon is not an exchange prefix
		{"AAPL:", "", "AAPL:"},

		// Empty input
		{"", "", ""},
		{"   ", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseTicker(tt.input)
			if got.Exchange != tt.wantExchange {
				t.Errorf("ParseTicker(%q).Exchange = %q, want %q", tt.input, got.Exchange, tt.wantExchange)
			}
			if got.Symbol != tt.wantSymbol {
				t.Errorf("ParseTicker(%q).Symbol = %q, want %q", tt.input, got.Symbol, tt.wantSymbol)
			}
			if got.Raw != tt.input {
				t.Errorf("ParseTicker(%q).Raw = %q, want %q", tt.input, got.Raw, tt.input)
			}
		})
	}
}

func TestNormalizeTickers(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"case and whitespace collapse to one", []string{"aapl", "AAPL", " AAPL "}, []string{"AAPL"}},
		{"first-seen order kept", []string{"msft", "aapl", "MSFT", "jnj"}, []string{"MSFT", "AAPL", "JNJ"}},
		{"blanks dropped", []string{"", "  ", "aapl"}, []string{"AAPL"}},
		{"unknown exchange stays distinct", []string{"XYZ:VOD", "vod", "xyz:vod"}, []string{"XYZ:VOD", "VOD"}},
		{"nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTickers(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeTickers(%v) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("NormalizeTickers(%v)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeSector(t *testing.T) {
	tests := []struct {
		input       string
		wantKey     string
		wantDisplay string
	}{
		{"Technology", "TECHNOLOGY", "Technology"},
		{"  technology ", "TECHNOLOGY", "technology"},
		{"Health  Care", "HEALTH CARE", "Health Care"},
		{"", "UNKNOWN", "Unknown"},
		{"   ", "UNKNOWN", "Unknown"},
	}

	for _, tt := range tests {
		key, display := NormalizeSector(tt.input)
		if key != tt.wantKey {
			t.Errorf("NormalizeSector(%q) key = %q, want %q", tt.input, key, tt.wantKey)
		}
		if display != tt.wantDisplay {
			t.Errorf("NormalizeSector(%q) display = %q, want %q", tt.input, display, tt.wantDisplay)
		}
	}
}
