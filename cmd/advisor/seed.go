package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/advisor/internal/app"
	"github.com/ternarybob/advisor/internal/services/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a ticker universe from CSV or YAML into the graph",
	Long:  `Reads ticker,name,sector rows from a .csv, .yaml or .yml file, upserts them and prints the graph counts.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}

		application, err := app.NewOffline(config, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		report, err := application.IngestService.IngestRows(cmd.Context(), rows)
		if err != nil {
			return err
		}

		counts, err := application.IngestService.Counts(cmd.Context())
		if err != nil {
			return err
		}

		logger.Info().
			Str("file", seedFile).
			Int("rows", len(rows)).
			Int("created", report.Created).
			Int("updated", report.Updated).
			Msg("Seed complete")

		fmt.Printf("Seeded %d rows (%d created, %d updated)\n", report.Received, report.Created, report.Updated)
		fmt.Printf("Assets: %d, Sectors: %d, Relations: %d\n", counts.Assets, counts.Sectors, counts.Relations)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Seed file (.csv, .yaml or .yml)")
	_ = seedCmd.MarkFlagRequired("file")
}
