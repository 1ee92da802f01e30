package render

import (
	"errors"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"macromood/internal/pricedata"
)

// CandlestickSeries draws minute bars as candlesticks: a high/low wick and
// an open/close body, colored by direction. go-chart has no OHLC series of
// its own, so this implements chart.Series directly and feeds axis ranging
// through BoundedValuesProvider with the wick extremes.
type CandlestickSeries struct {
	Name      string
	Style     chart.Style
	YAxis     chart.YAxisType
	UpColor   drawing.Color
	DownColor drawing.Color
	Bars      []pricedata.Bar
}

// GetName implements chart.Series.
func (cs *CandlestickSeries) GetName() string { return cs.Name }

// GetStyle implements chart.Series.
func (cs *CandlestickSeries) GetStyle() chart.Style { return cs.Style }

// GetYAxis implements chart.Series.
func (cs *CandlestickSeries) GetYAxis() chart.YAxisType { return cs.YAxis }

// Validate implements chart.Series.
func (cs *CandlestickSeries) Validate() error {
	if len(cs.Bars) == 0 {
		return errors.New("candlestick series must have at least one bar")
	}
	return nil
}

// Len implements chart.BoundedValuesProvider.
func (cs *CandlestickSeries) Len() int { return len(cs.Bars) }

// GetBoundedValues implements chart.BoundedValuesProvider, reporting the
// wick extremes so the y-range covers highs and lows, not just closes.
func (cs *CandlestickSeries) GetBoundedValues(index int) (x, y1, y2 float64) {
	bar := cs.Bars[index]
	x = chart.TimeToFloat64(bar.Timestamp)
	y1 = bar.High.InexactFloat64()
	y2 = bar.Low.InexactFloat64()
	return
}

// Render implements chart.Series.
func (cs *CandlestickSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := cs.Style.InheritFrom(defaults)

	up := cs.UpColor
	if up.IsZero() {
		up = chart.ColorGreen
	}
	down := cs.DownColor
	if down.IsZero() {
		down = chart.ColorRed
	}

	// Body half-width in pixels; minute bars over a full day collapse to
	// single-pixel candles on typical chart widths.
	half := canvasBox.Width() / (len(cs.Bars) + 1) / 2
	if half > 4 {
		half = 4
	}

	strokeWidth := style.StrokeWidth
	if strokeWidth <= 0 {
		strokeWidth = 1
	}

	for _, bar := range cs.Bars {
		x := canvasBox.Left + xrange.Translate(chart.TimeToFloat64(bar.Timestamp))
		yHigh := canvasBox.Bottom - yrange.Translate(bar.High.InexactFloat64())
		yLow := canvasBox.Bottom - yrange.Translate(bar.Low.InexactFloat64())
		yOpen := canvasBox.Bottom - yrange.Translate(bar.Open.InexactFloat64())
		yClose := canvasBox.Bottom - yrange.Translate(bar.Close.InexactFloat64())

		color := up
		if bar.Close.LessThan(bar.Open) {
			color = down
		}

		r.SetStrokeColor(color)
		r.SetStrokeWidth(strokeWidth)
		r.MoveTo(x, yHigh)
		r.LineTo(x, yLow)
		r.Stroke()

		yBodyTop, yBodyBottom := yOpen, yClose
		if yBodyTop > yBodyBottom {
			yBodyTop, yBodyBottom = yBodyBottom, yBodyTop
		}

		if half == 0 || yBodyTop == yBodyBottom {
			r.SetStrokeColor(color)
			r.SetStrokeWidth(strokeWidth + 1)
			r.MoveTo(x, yBodyTop)
			r.LineTo(x, yBodyBottom)
			r.Stroke()
			continue
		}

		r.SetStrokeColor(color)
		r.SetFillColor(color)
		r.SetStrokeWidth(strokeWidth)
		r.MoveTo(x-half, yBodyTop)
		r.LineTo(x+half, yBodyTop)
		r.LineTo(x+half, yBodyBottom)
		r.LineTo(x-half, yBodyBottom)
		r.Close()
		r.FillStroke()
	}
}

var (
	_ chart.Series                = (*CandlestickSeries)(nil)
	_ chart.BoundedValuesProvider = (*CandlestickSeries)(nil)
)
