package rating

import (
	"fmt"

	"github.com/ternarybob/advisor/internal/models"
)

// Score computes the fundamentals score for a metrics record.
//
// Scoring starts at ScoreBaseline and adds one adjustment per present metric.
// Absent metrics contribute nothing. P/E, ROE and Debt/Equity describe
// themselves in notes; the remaining rules are silent. The result is clamped
// to [ScoreMin, ScoreMax]. Notes follow metric evaluation order.
func Score(m models.CanonicalMetrics) (int, []string) {
	adjustments := Evaluate(m)

	score := ScoreBaseline
	notes := []string{}
	for _, a := range adjustments {
		score += a.Points
		if a.Note != "" {
			notes = append(notes, a.Note)
		}
	}

	return ClampInt(score, ScoreMin, ScoreMax), notes
}

// Evaluate returns the adjustments that apply to m, in evaluation order.
func Evaluate(m models.CanonicalMetrics) []Adjustment {
	var out []Adjustment
	add := func(metric string, points int, note string) {
		out = append(out, Adjustment{Metric: metric, Points: points, Note: note})
	}

	if pe, ok := m.Get(models.MetricPE); ok {
		switch {
		case pe < PECheap:
			add(models.MetricPE, 6, fmt.Sprintf("P/E %.1f looks inexpensive", pe))
		case pe > PERich:
			add(models.MetricPE, -6, fmt.Sprintf("P/E %.1f looks rich", pe))
		default:
			add(models.MetricPE, 0, fmt.Sprintf("P/E %.1f is in a neutral range", pe))
		}
	}

	if pb, ok := m.Get(models.MetricPB); ok && pb > PBRich {
		add(models.MetricPB, -3, "")
	}
	if ps, ok := m.Get(models.MetricPS); ok && ps > PSRich {
		add(models.MetricPS, -3, "")
	}

	if roe, ok := m.Get(models.MetricROE); ok {
		switch {
		case roe >= ROEStrong:
			add(models.MetricROE, 6, fmt.Sprintf("ROE %.1f%% is strong", roe))
		case roe < ROELow:
			add(models.MetricROE, -4, fmt.Sprintf("ROE %.1f%% is low", roe))
		default:
			add(models.MetricROE, 0, fmt.Sprintf("ROE %.1f%% is moderate", roe))
		}
	}

	if gm, ok := m.Get(models.MetricGrossMarginTTM); ok && gm >= GrossMarginHigh {
		add(models.MetricGrossMarginTTM, 3, "")
	}
	if om, ok := m.Get(models.MetricOperatingMarginTTM); ok && om >= OperatingMarginHigh {
		add(models.MetricOperatingMarginTTM, 2, "")
	}
	if nm, ok := m.Get(models.MetricNetMarginTTM); ok && nm >= NetMarginHigh {
		add(models.MetricNetMarginTTM, 2, "")
	}

	if de, ok := m.Get(models.MetricDebtToEquity); ok {
		switch {
		case de > DebtToEquityHigh:
			add(models.MetricDebtToEquity, -5, fmt.Sprintf("Debt/Equity %.2f is high", de))
		case de < DebtToEquityLow:
			add(models.MetricDebtToEquity, 3, "")
		default:
			add(models.MetricDebtToEquity, 0, fmt.Sprintf("Debt/Equity %.2f is moderate", de))
		}
	}

	if cr, ok := m.Get(models.MetricCurrentRatio); ok && cr < CurrentRatioLow {
		add(models.MetricCurrentRatio, -3, "")
	}
	if qr, ok := m.Get(models.MetricQuickRatio); ok && qr < QuickRatioLow {
		add(models.MetricQuickRatio, -2, "")
	}

	if beta, ok := m.Get(models.MetricBeta); ok {
		switch {
		case beta > BetaHigh:
			add(models.MetricBeta, -3, "")
		case beta < BetaLow:
			add(models.MetricBeta, 2, "")
		}
	}

	if dy, ok := m.Get(models.MetricDividendYieldTTM); ok && dy >= DividendYieldMin {
		add(models.MetricDividendYieldTTM, 2, "")
	}

	return out
}

// ScoreAsset scores a stored asset from its persisted props.
func ScoreAsset(asset *models.Asset) models.ScoreResult {
	metrics := asset.Metrics()
	score, notes := Score(metrics)

	return models.ScoreResult{
		Ticker:     asset.Ticker,
		Name:       asset.Name,
		Sector:     asset.Sector,
		Metrics:    metrics,
		Score:      score,
		Notes:      notes,
		Disclaimer: models.Disclaimer,
	}
}

// Neutral is the score reported for a ticker that has no stored asset.
func Neutral(ticker string) models.ScoreResult {
	return models.ScoreResult{
		Ticker:     ticker,
		Name:       ticker,
		Score:      ScoreBaseline,
		Notes:      []string{"Not ingested yet; score is the neutral baseline"},
		Disclaimer: models.Disclaimer,
	}
}
