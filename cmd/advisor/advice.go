package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/advisor/internal/app"
	"github.com/ternarybob/advisor/internal/services/advice"
)

var (
	adviceRisk int
	adviceHTML bool
)

var adviceCmd = &cobra.Command{
	Use:   "advice TICKER [TICKER...]",
	Short: "Aggregate score, analyst consensus and news into educational advice",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(config, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		result, err := application.Aggregator.Advise(cmd.Context(), args, adviceRisk)
		if err != nil {
			return err
		}

		if adviceHTML {
			html, err := advice.RenderHTML(result.Rationale)
			if err != nil {
				return err
			}
			fmt.Print(html)
			return nil
		}
		return printJSON(result)
	},
}

func init() {
	adviceCmd.Flags().IntVarP(&adviceRisk, "risk", "r", 3, "Risk profile from 1 (conservative) to 5 (aggressive)")
	adviceCmd.Flags().BoolVar(&adviceHTML, "html", false, "Print only the rationale rendered as HTML")
}
