package models

import "time"

// Disclaimer is attached to every score and advice payload.
const Disclaimer = "Educational only—NOT financial advice"

// Consensus stances.
const (
	StanceBullish = "bullish"
	StanceBearish = "bearish"
	StanceMixed   = "mixed"
)

// Rationale sources.
const (
	RationaleLLM      = "llm"
	RationaleBaseline = "baseline"
)

// ScoreResult is the derived fundamentals score for one ticker. Not persisted.
type ScoreResult struct {
	Ticker     string           `json:"ticker"`
	Name       string           `json:"name"`
	Sector     string           `json:"sector"`
	Metrics    CanonicalMetrics `json:"metrics"`
	Score      int              `json:"score"`
	Notes      []string         `json:"notes"`
	Disclaimer string           `json:"disclaimer"`
}

// RecommendationTrend is one period of analyst recommendation counts.
type RecommendationTrend struct {
	Symbol     string `json:"symbol"`
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// Consensus is the latest-period analyst recommendation summary.
type Consensus struct {
	Period     string `json:"period,omitempty"`
	StrongBuy  int    `json:"strong_buy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strong_sell"`
	Total      int    `json:"total"`
	Bias       int    `json:"bias"`
	Stance     string `json:"stance"`
}

// NewsItem is one company news article.
type NewsItem struct {
	Datetime int64  `json:"datetime"`
	Date     string `json:"date,omitempty"` // ISO-8601 UTC with Z suffix
	Headline string `json:"headline"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Summary  string `json:"summary"`
}

// TickerAdvice bundles the three signals for one ticker.
type TickerAdvice struct {
	Score     ScoreResult `json:"score"`
	Consensus Consensus   `json:"consensus"`
	News      []NewsItem  `json:"news"`
	Errors    []string    `json:"errors,omitempty"`
}

// Allocation is a baseline portfolio weight.
type Allocation struct {
	Symbol string  `json:"symbol"`
	Weight float64 `json:"weight"`
}

// AggregatedAdvice is the per-request advisory payload.
type AggregatedAdvice struct {
	Notice          string         `json:"notice"`
	Risk            int            `json:"risk"`
	Tickers         []TickerAdvice `json:"tickers"`
	Allocation      []Allocation   `json:"allocation"`
	Rationale       string         `json:"rationale"`
	RationaleSource string         `json:"rationale_source"`
	GeneratedAt     time.Time      `json:"generated_at"`
}
