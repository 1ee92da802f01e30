package cli

import (
	"github.com/spf13/cobra"

	"macromood/internal/app"
)

var (
	eventsTitle string
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List event series, or the occurrences of one series",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.EventsOptions{
			Title: eventsTitle,
			Limit: eventsLimit,
		}

		return getApp().Events(cmd.Context(), opts)
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsTitle, "title", "", "Event series to list occurrences for")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 20, "Maximum occurrences to display")
}
