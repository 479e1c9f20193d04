package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/advisor/internal/models"
)

// formatIngestReport formats an ingest report as markdown
func formatIngestReport(report *models.IngestReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Ingest %s\n\n", report.RunID))
	sb.WriteString(fmt.Sprintf("**Received:** %d  **Created:** %d  **Updated:** %d\n\n", report.Received, report.Created, report.Updated))
	if len(report.CreatedTickers) > 0 {
		sb.WriteString(fmt.Sprintf("Created: %s\n", strings.Join(report.CreatedTickers, ", ")))
	}
	if len(report.UpdatedTickers) > 0 {
		sb.WriteString(fmt.Sprintf("Updated: %s\n", strings.Join(report.UpdatedTickers, ", ")))
	}
	return sb.String()
}

// formatScore formats a score result as markdown
func formatScore(result *models.ScoreResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s (%s)\n\n", result.Ticker, result.Name))
	sb.WriteString(fmt.Sprintf("**Sector:** %s\n", result.Sector))
	sb.WriteString(fmt.Sprintf("**Score:** %d / 100\n\n", result.Score))

	for _, note := range result.Notes {
		sb.WriteString(fmt.Sprintf("- %s\n", note))
	}
	sb.WriteString(fmt.Sprintf("\n_%s_\n", result.Disclaimer))
	return sb.String()
}

// formatAdvice formats aggregated advice as markdown
func formatAdvice(advice *models.AggregatedAdvice) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Advice (risk %d/5)\n\n", advice.Risk))
	sb.WriteString(fmt.Sprintf("_%s_\n\n", advice.Notice))

	sb.WriteString("| Ticker | Score | Stance | Weight | News |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	weights := make(map[string]float64, len(advice.Allocation))
	for _, a := range advice.Allocation {
		weights[a.Symbol] = a.Weight
	}
	for _, t := range advice.Tickers {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %.4f | %d |\n",
			t.Score.Ticker, t.Score.Score, t.Consensus.Stance, weights[t.Score.Ticker], len(t.News)))
	}

	sb.WriteString(fmt.Sprintf("\n## Rationale (%s)\n\n%s\n", advice.RationaleSource, advice.Rationale))

	for _, t := range advice.Tickers {
		for _, e := range t.Errors {
			sb.WriteString(fmt.Sprintf("\n> %s: %s", t.Score.Ticker, e))
		}
	}
	return sb.String()
}
