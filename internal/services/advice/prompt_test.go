package advice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/advisor/internal/models"
)

func sampleTickers() []models.TickerAdvice {
	return []models.TickerAdvice{
		{
			Score:     models.ScoreResult{Ticker: "AAPL", Name: "Apple", Sector: "Technology", Score: 65, Notes: []string{"P/E 8.0 looks inexpensive"}},
			Consensus: models.Consensus{Period: "2026-10-01", StrongBuy: 8, Buy: 2, Hold: 5, Total: 15, Bias: 10, Stance: models.StanceBullish},
			News: []models.NewsItem{
				{Date: "2026-10-15T10:00:00Z", Headline: "Apple ships new device"},
			},
		},
		{
			Score:     models.ScoreResult{Ticker: "ZZZZ", Name: "ZZZZ", Score: 50},
			Consensus: models.Consensus{Stance: models.StanceMixed},
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(3, sampleTickers(), EqualWeight([]string{"AAPL", "ZZZZ"}))

	assert.Contains(t, prompt, "Risk profile: 3/5 (balanced)")
	assert.Contains(t, prompt, "AAPL=0.5000")
	assert.Contains(t, prompt, "## AAPL (Apple, Technology)")
	assert.Contains(t, prompt, "Fundamentals score: 65/100 (P/E 8.0 looks inexpensive)")
	assert.Contains(t, prompt, "Analysts bullish: 8 strong buy")
	assert.Contains(t, prompt, "News 2026-10-15: Apple ships new device")
	assert.Contains(t, prompt, "## ZZZZ (ZZZZ, Unknown)")
	assert.Contains(t, prompt, "Analysts: no recommendation data")
	assert.Contains(t, prompt, "News: none in window")
}

func TestBaselineRationale(t *testing.T) {
	got := BaselineRationale(2, sampleTickers())

	assert.Equal(t,
		"Equal-weight baseline across 2 ticker(s) for a conservative (2/5) risk profile. AAPL score 65, analysts bullish; ZZZZ score 50, analysts mixed.",
		got)
	assert.Equal(t, got, BaselineRationale(2, sampleTickers()), "deterministic")
}

func TestRiskLabel(t *testing.T) {
	assert.Equal(t, "very conservative", RiskLabel(1))
	assert.Equal(t, "aggressive", RiskLabel(5))
	assert.Equal(t, "unspecified", RiskLabel(9))
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("**AAPL** looks *inexpensive*")
	assert.NoError(t, err)
	assert.Contains(t, html, "<strong>AAPL</strong>")
	assert.Contains(t, html, "<em>inexpensive</em>")
}
