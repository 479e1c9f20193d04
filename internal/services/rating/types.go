// Package rating provides pure calculation functions for fundamentals scoring.
// All functions are stateless and perform no I/O.
package rating

// Score bounds and baseline
const (
	ScoreBaseline = 50
	ScoreMin      = 0
	ScoreMax      = 100
)

// Valuation thresholds
const (
	PECheap = 12.0
	PERich  = 30.0
	PBRich  = 6.0
	PSRich  = 12.0
)

// Quality thresholds (percent units as reported by the provider)
const (
	ROEStrong           = 15.0
	ROELow              = 5.0
	GrossMarginHigh     = 50.0
	OperatingMarginHigh = 20.0
	NetMarginHigh       = 15.0
)

// Balance-sheet and risk thresholds
const (
	DebtToEquityHigh = 2.0
	DebtToEquityLow  = 0.5
	CurrentRatioLow  = 1.0
	QuickRatioLow    = 0.8
	BetaHigh         = 1.4
	BetaLow          = 0.8
	DividendYieldMin = 0.02 // fraction, not percent
)

// Adjustment is one rule's contribution to a score
type Adjustment struct {
	Metric string
	Points int
	Note   string // empty when the rule is silent
}
