package cli

import (
	"github.com/spf13/cobra"

	"macromood/internal/app"
)

var fetchRefresh bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the calendar feed into the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.FetchOptions{
			Refresh: fetchRefresh,
		}

		return getApp().Fetch(cmd.Context(), opts)
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchRefresh, "refresh", false, "Refetch even when a cached copy exists")
}
