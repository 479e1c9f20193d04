package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/app"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleIngestTickers implements the ingest_tickers tool
func handleIngestTickers(a *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tickers := request.GetStringSlice("tickers", nil)
		if len(tickers) == 0 {
			return textResult("Error: tickers parameter is required"), nil
		}
		includeMetrics := request.GetBool("include_metrics", false)

		report, err := a.IngestService.Ingest(ctx, tickers, includeMetrics)
		if err != nil {
			logger.Error().Err(err).Strs("tickers", tickers).Msg("Ingest failed")
			return textResult(fmt.Sprintf("Ingest error: %v", err)), nil
		}
		return textResult(formatIngestReport(report)), nil
	}
}

// handleScoreTicker implements the score_ticker tool
func handleScoreTicker(a *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return textResult("Error: ticker parameter is required"), nil
		}

		result, err := a.IngestService.ScoreTicker(ctx, ticker)
		if err != nil {
			logger.Warn().Err(err).Str("ticker", ticker).Msg("Score failed")
			return textResult(fmt.Sprintf("Score error: %v", err)), nil
		}
		return textResult(formatScore(result)), nil
	}
}

// handleAggregateAdvice implements the aggregate_advice tool
func handleAggregateAdvice(a *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if a.Aggregator == nil {
			return textResult("Error: advice requires a Finnhub API key (FINNHUB_API_KEY)"), nil
		}

		tickers := request.GetStringSlice("tickers", nil)
		risk := request.GetInt("risk", 3)

		result, err := a.Aggregator.Advise(ctx, tickers, risk)
		if err != nil {
			logger.Warn().Err(err).Strs("tickers", tickers).Msg("Advice failed")
			return textResult(fmt.Sprintf("Advice error: %v", err)), nil
		}
		return textResult(formatAdvice(result)), nil
	}
}

// handleGraphCounts implements the graph_counts tool
func handleGraphCounts(a *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		counts, err := a.IngestService.Counts(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Counts failed")
			return textResult(fmt.Sprintf("Counts error: %v", err)), nil
		}
		return textResult(fmt.Sprintf("Assets: %d\nSectors: %d\nRelations: %d\n", counts.Assets, counts.Sectors, counts.Relations)), nil
	}
}
