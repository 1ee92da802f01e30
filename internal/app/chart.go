package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"macromood/internal/pricedata"
)

// ChartOptions hold parameters for rendering one occurrence to a PNG file.
type ChartOptions struct {
	OccurrenceID string
	Symbol       string
	OutPath      string
}

// Chart renders the day slice of one occurrence as a candlestick PNG.
// Unavailable price data still produces a visible placeholder image; only
// an unknown occurrence id or an I/O failure aborts the command.
func (a *App) Chart(ctx context.Context, opts ChartOptions) error {
	table, err := a.loadTable(ctx, false)
	if err != nil {
		return err
	}

	sess, err := a.newSession(table)
	if err != nil {
		return err
	}

	occ, err := sess.SelectOccurrence(opts.OccurrenceID)
	if err != nil {
		return err
	}

	symbol := opts.Symbol
	if symbol == "" {
		symbol = a.Config.Data.Symbol
	}

	bars, err := sess.LoadDaySlice(occ, symbol)
	if err != nil && !errors.Is(err, pricedata.ErrDataUnavailable) {
		return err
	}

	if err := ensureDir(opts.OutPath); err != nil {
		return err
	}
	file, createErr := os.Create(opts.OutPath)
	if createErr != nil {
		return createErr
	}
	defer file.Close()

	renderer := a.newRenderer()
	if errors.Is(err, pricedata.ErrDataUnavailable) {
		a.Logger.Warn().Str("symbol", symbol).Msg("price data unavailable; writing placeholder")
		msg := fmt.Sprintf("no minute data for %s in %d", symbol, occ.Timestamp.UTC().Year())
		return renderer.RenderMessagePNG(file, occ, msg)
	}

	a.Logger.Info().Str("event", occ.Title).Int("bars", len(bars)).Str("path", opts.OutPath).Msg("writing chart")
	return renderer.RenderPNG(file, occ, bars)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
