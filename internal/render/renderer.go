// Package render turns one event occurrence and its day slice of minute
// bars into a candlestick chart PNG with the release instant marked on the
// time axis.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"macromood/internal/calendar"
	"macromood/internal/pricedata"
)

// Options size the rendered chart.
type Options struct {
	Width  int
	Height int
}

// Renderer produces chart PNGs for event/day-slice pairs.
type Renderer struct {
	opts   Options
	logger zerolog.Logger
}

// NewRenderer constructs a Renderer.
func NewRenderer(opts Options, logger zerolog.Logger) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	return &Renderer{opts: opts, logger: logger.With().Str("component", "render").Logger()}
}

// RenderPNG writes the chart for one occurrence and its day slice. An empty
// slice produces a visible placeholder image rather than an error; callers
// must pass a possibly-empty slice, never decline to render.
func (r *Renderer) RenderPNG(w io.Writer, occ calendar.Occurrence, bars []pricedata.Bar) error {
	if len(bars) == 0 {
		return r.RenderMessagePNG(w, occ, "no price bars for this day")
	}

	first := bars[0].Timestamp
	last := bars[len(bars)-1].Timestamp

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s - %s", occ.Title, occ.Timestamp.UTC().Format("2006-01-02")),
		Width:  r.opts.Width,
		Height: r.opts.Height,
		XAxis: chart.XAxis{
			Name:           "Time (UTC)",
			ValueFormatter: chart.TimeMinuteValueFormatter,
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(first.Add(-time.Minute)),
				Max: chart.TimeToFloat64(last.Add(time.Minute)),
			},
		},
		YAxis: chart.YAxis{
			Name: "Price",
		},
		Series: []chart.Series{
			&CandlestickSeries{
				Name: "1m candles",
				Bars: bars,
			},
			&TimeMarkerSeries{
				Name: occ.Title,
				At:   occ.Timestamp,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	r.logger.Debug().Str("event", occ.Title).Int("bars", len(bars)).Msg("chart rendered")
	return nil
}

// RenderMessagePNG writes a placeholder image carrying the event header and
// a message, used for empty day slices and unavailable price data.
func (r *Renderer) RenderMessagePNG(w io.Writer, occ calendar.Occurrence, msg string) error {
	rr, err := chart.PNG(r.opts.Width, r.opts.Height)
	if err != nil {
		return fmt.Errorf("create placeholder renderer: %w", err)
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load default font: %w", err)
	}

	rr.SetFillColor(chart.ColorWhite)
	rr.MoveTo(0, 0)
	rr.LineTo(r.opts.Width, 0)
	rr.LineTo(r.opts.Width, r.opts.Height)
	rr.LineTo(0, r.opts.Height)
	rr.Close()
	rr.Fill()

	rr.SetFont(font)
	rr.SetFontColor(chart.ColorBlack)
	rr.SetFontSize(18)
	rr.Text(fmt.Sprintf("%s - %s", occ.Title, occ.Timestamp.UTC().Format("2006-01-02")), 24, 48)

	rr.SetFontColor(drawing.Color{R: 102, G: 102, B: 102, A: 255})
	rr.SetFontSize(14)
	rr.Text(msg, 24, 84)

	if err := rr.Save(w); err != nil {
		return fmt.Errorf("save placeholder: %w", err)
	}
	return nil
}

// FormatValue renders a numeric-or-missing release figure with its unit for
// display headers; missing values show as "n/a".
func FormatValue(v decimal.NullDecimal, unit string) string {
	if !v.Valid {
		return "n/a"
	}
	return v.Decimal.String() + unit
}
