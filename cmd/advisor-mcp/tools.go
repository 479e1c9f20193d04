package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createIngestTickersTool returns the ingest_tickers tool definition
func createIngestTickersTool() mcp.Tool {
	return mcp.NewTool("ingest_tickers",
		mcp.WithDescription("Fetch company profiles from Finnhub and upsert them into the asset graph"),
		mcp.WithArray("tickers",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Ticker symbols, e.g. [\"AAPL\", \"MSFT\"] (max 50)"),
		),
		mcp.WithBoolean("include_metrics",
			mcp.Description("Also fetch basic financials and store canonical metrics (default: false)"),
		),
	)
}

// createScoreTickerTool returns the score_ticker tool definition
func createScoreTickerTool() mcp.Tool {
	return mcp.NewTool("score_ticker",
		mcp.WithDescription("Score a previously ingested asset from its stored fundamentals (0-100, baseline 50)"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Ticker symbol"),
		),
	)
}

// createAggregateAdviceTool returns the aggregate_advice tool definition
func createAggregateAdviceTool() mcp.Tool {
	return mcp.NewTool("aggregate_advice",
		mcp.WithDescription("Combine fundamentals score, analyst consensus and recent news into educational advice"),
		mcp.WithArray("tickers",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Ticker symbols (1-10)"),
		),
		mcp.WithNumber("risk",
			mcp.Description("Risk profile 1 (conservative) to 5 (aggressive), default 3"),
		),
	)
}

// createGraphCountsTool returns the graph_counts tool definition
func createGraphCountsTool() mcp.Tool {
	return mcp.NewTool("graph_counts",
		mcp.WithDescription("Count assets, sectors and asset-sector relations in the graph"),
	)
}
