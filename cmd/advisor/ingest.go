package main

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/advisor/internal/app"
)

var ingestMetrics bool

var ingestCmd = &cobra.Command{
	Use:   "ingest TICKER [TICKER...]",
	Short: "Fetch profiles (and optionally fundamentals) and upsert them into the graph",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(config, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		report, err := application.IngestService.Ingest(cmd.Context(), args, ingestMetrics)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestMetrics, "metrics", "m", false, "Also fetch basic financials and store canonical metrics")
}
