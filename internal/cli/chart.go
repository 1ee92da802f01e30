package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"macromood/internal/app"
)

var (
	chartID     string
	chartSymbol string
	chartOut    string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render one event occurrence's trading day as a PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if chartID == "" {
			return fmt.Errorf("--id must be provided (see the events command)")
		}
		if chartOut == "" {
			return fmt.Errorf("--out must be provided")
		}

		opts := app.ChartOptions{
			OccurrenceID: chartID,
			Symbol:       chartSymbol,
			OutPath:      chartOut,
		}

		return getApp().Chart(cmd.Context(), opts)
	},
}

func init() {
	chartCmd.Flags().StringVar(&chartID, "id", "", "Occurrence id to chart")
	chartCmd.Flags().StringVar(&chartSymbol, "symbol", "", "Instrument symbol (defaults to config)")
	chartCmd.Flags().StringVar(&chartOut, "out", "", "Path to write the PNG chart")
}
