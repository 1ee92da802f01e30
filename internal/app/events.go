package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"macromood/internal/render"
)

// EventsOptions configure the events listing.
type EventsOptions struct {
	Title string
	Limit int
}

// Events lists event series, or the occurrences of one series when a title
// is given.
func (a *App) Events(ctx context.Context, opts EventsOptions) error {
	table, err := a.loadTable(ctx, false)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer writer.Flush()

	if opts.Title == "" {
		fmt.Fprintln(writer, "Event\tOccurrences\tLatest (UTC)")
		for _, title := range table.Titles() {
			occs := table.Occurrences(title)
			fmt.Fprintf(writer, "%s\t%d\t%s\n", title, len(occs), occs[0].Timestamp.UTC().Format(time.RFC3339))
		}
		return nil
	}

	occs := table.Occurrences(opts.Title)
	if len(occs) == 0 {
		fmt.Fprintf(os.Stdout, "no occurrences for %q\n", opts.Title)
		return nil
	}
	if opts.Limit > 0 && len(occs) > opts.Limit {
		occs = occs[:opts.Limit]
	}

	fmt.Fprintln(writer, "ID\tTime (UTC)\tActual\tForecast\tPrevious")
	for _, occ := range occs {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			occ.ID,
			occ.Timestamp.UTC().Format(time.RFC3339),
			render.FormatValue(occ.Actual, occ.Unit),
			render.FormatValue(occ.Forecast, occ.Unit),
			render.FormatValue(occ.Previous, occ.Unit),
		)
	}
	return nil
}
