// Package align resolves one event occurrence to the matching day slice of
// minute bars. It is pure orchestration over the calendar and price stores,
// stateless and callable fresh for every selection.
package align

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"macromood/internal/calendar"
	"macromood/internal/pricedata"
)

// TableLoader supplies one price table per (symbol, year). Satisfied by
// pricedata.Loader and by the memoizing cache the session puts in front
// of it.
type TableLoader interface {
	Load(symbol string, year int) (*pricedata.Table, error)
}

// Aligner pairs an occurrence with its trading day's bars. The location
// must be the same exchange-local timezone the loader's tables use, so the
// requested date is never derived in a different reference than the store
// slices by.
type Aligner struct {
	loader TableLoader
	loc    *time.Location
	logger zerolog.Logger
}

// New constructs an Aligner.
func New(loader TableLoader, loc *time.Location, logger zerolog.Logger) *Aligner {
	if loc == nil {
		panic("align: location must be set")
	}
	return &Aligner{loader: loader, loc: loc, logger: logger.With().Str("component", "align").Logger()}
}

// DaySlice loads the price table covering the occurrence's release day and
// extracts the bars of that exchange-local calendar date. The year locating
// the file comes from the same local date, so the pair stays consistent for
// releases near a local year boundary. ErrDataUnavailable from the loader
// propagates untouched; an empty slice is a valid outcome, never replaced
// with synthesized bars.
func (a *Aligner) DaySlice(occ calendar.Occurrence, symbol string) ([]pricedata.Bar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("align: symbol is required")
	}

	day := pricedata.DateIn(occ.Timestamp, a.loc)

	table, err := a.loader.Load(symbol, day.Year)
	if err != nil {
		return nil, err
	}

	bars := table.SliceForDay(day)
	a.logger.Debug().
		Str("event", occ.Title).
		Str("day", day.String()).
		Int("bars", len(bars)).
		Msg("day slice resolved")
	return bars, nil
}
