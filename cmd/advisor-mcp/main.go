package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/advisor/internal/app"
	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/models"
)

func main() {
	configPath := os.Getenv("ADVISOR_CONFIG")
	if configPath == "" {
		configPath = "advisor.toml"
	}

	var paths []string
	if _, err := os.Stat(configPath); err == nil {
		paths = append(paths, configPath)
	}

	config, err := common.LoadFromFiles(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal console logging; stdout carries the MCP protocol
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	application, err := app.New(config, logger)
	if errors.Is(err, models.ErrConfigurationMissing) {
		logger.Warn().Err(err).Msg("Starting in offline mode: ingest and advice tools disabled")
		application, err = app.NewOffline(config, logger)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	mcpServer := server.NewMCPServer(
		"advisor",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createIngestTickersTool(), handleIngestTickers(application, logger))
	mcpServer.AddTool(createScoreTickerTool(), handleScoreTicker(application, logger))
	mcpServer.AddTool(createAggregateAdviceTool(), handleAggregateAdvice(application, logger))
	mcpServer.AddTool(createGraphCountsTool(), handleGraphCounts(application, logger))

	// Blocks on stdio
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
