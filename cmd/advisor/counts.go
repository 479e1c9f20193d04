package main

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/advisor/internal/app"
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Print asset, sector and relation totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewOffline(config, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		counts, err := application.IngestService.Counts(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(counts)
	},
}
