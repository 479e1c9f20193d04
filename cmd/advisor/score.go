package main

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/advisor/internal/app"
)

var scoreCmd = &cobra.Command{
	Use:   "score TICKER",
	Short: "Score a stored asset from its canonical metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewOffline(config, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		result, err := application.IngestService.ScoreTicker(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}
