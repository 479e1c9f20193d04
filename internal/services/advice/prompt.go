package advice

import (
	"fmt"
	"strings"

	"github.com/ternarybob/advisor/internal/models"
)

// maxPromptHeadlines bounds the news lines per ticker sent to the renderer
const maxPromptHeadlines = 3

// SystemPrompt frames the narrative renderer.
const SystemPrompt = `You write short, neutral investment research notes for an educational tool.
Use only the signals provided. Do not invent figures, price targets or recommendations.
Write 1-2 short paragraphs of markdown. Mention that the allocation is an equal-weight baseline.`

var riskLabels = map[int]string{
	1: "very conservative",
	2: "conservative",
	3: "balanced",
	4: "growth",
	5: "aggressive",
}

// RiskLabel names a risk level 1..5.
func RiskLabel(risk int) string {
	if label, ok := riskLabels[risk]; ok {
		return label
	}
	return "unspecified"
}

// BuildPrompt renders the compact per-ticker summary handed to the narrative renderer.
func BuildPrompt(risk int, tickers []models.TickerAdvice, allocation []models.Allocation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Risk profile: %d/5 (%s)\n", risk, RiskLabel(risk))
	b.WriteString("Allocation (equal-weight baseline):")
	for _, a := range allocation {
		fmt.Fprintf(&b, " %s=%.4f", a.Symbol, a.Weight)
	}
	b.WriteString("\n\n")

	for _, t := range tickers {
		s := t.Score
		fmt.Fprintf(&b, "## %s (%s, %s)\n", s.Ticker, s.Name, orUnknown(s.Sector))
		fmt.Fprintf(&b, "- Fundamentals score: %d/100", s.Score)
		if len(s.Notes) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(s.Notes, "; "))
		}
		b.WriteString("\n")

		c := t.Consensus
		if c.Total > 0 {
			fmt.Fprintf(&b, "- Analysts %s: %d strong buy, %d buy, %d hold, %d sell, %d strong sell (period %s)\n",
				c.Stance, c.StrongBuy, c.Buy, c.Hold, c.Sell, c.StrongSell, c.Period)
		} else {
			b.WriteString("- Analysts: no recommendation data\n")
		}

		if len(t.News) == 0 {
			b.WriteString("- News: none in window\n")
		}
		for i, n := range t.News {
			if i == maxPromptHeadlines {
				break
			}
			fmt.Fprintf(&b, "- News %s: %s\n", dateOnly(n.Date), n.Headline)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// BaselineRationale is the deterministic rationale used whenever no narrative is available.
func BaselineRationale(risk int, tickers []models.TickerAdvice) string {
	parts := make([]string, 0, len(tickers))
	for _, t := range tickers {
		parts = append(parts, fmt.Sprintf("%s score %d, analysts %s", t.Score.Ticker, t.Score.Score, t.Consensus.Stance))
	}
	return fmt.Sprintf("Equal-weight baseline across %d ticker(s) for a %s (%d/5) risk profile. %s.",
		len(tickers), RiskLabel(risk), risk, strings.Join(parts, "; "))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func dateOnly(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return "undated"
}
