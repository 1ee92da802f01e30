package render

import (
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// TimeMarkerSeries draws a translucent vertical line across the plot at a
// single instant, with the series name as a label at the top. It carries no
// values, so it never influences axis ranging.
type TimeMarkerSeries struct {
	Name  string
	Style chart.Style
	YAxis chart.YAxisType
	At    time.Time
}

// GetName implements chart.Series.
func (ms *TimeMarkerSeries) GetName() string { return ms.Name }

// GetStyle implements chart.Series.
func (ms *TimeMarkerSeries) GetStyle() chart.Style { return ms.Style }

// GetYAxis implements chart.Series.
func (ms *TimeMarkerSeries) GetYAxis() chart.YAxisType { return ms.YAxis }

// Validate implements chart.Series.
func (ms *TimeMarkerSeries) Validate() error { return nil }

// Render implements chart.Series.
func (ms *TimeMarkerSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	x := canvasBox.Left + xrange.Translate(chart.TimeToFloat64(ms.At))
	if x < canvasBox.Left || x > canvasBox.Right {
		return
	}

	// The explicit style wins over the palette defaults; inheritance would
	// repaint the marker in an opaque series color.
	color := ms.Style.StrokeColor
	if color.IsZero() {
		color = drawing.Color{R: 0, G: 116, B: 217, A: 70}
	}
	width := ms.Style.StrokeWidth
	if width <= 0 {
		width = 10
	}

	r.SetStrokeColor(color)
	r.SetStrokeWidth(width)
	r.MoveTo(x, canvasBox.Top)
	r.LineTo(x, canvasBox.Bottom)
	r.Stroke()

	if ms.Name != "" {
		labelStyle := ms.Style.InheritFrom(defaults)
		labelStyle.FontSize = 10
		chart.Draw.Text(r, ms.Name, x+6, canvasBox.Top+14, labelStyle)
	}
}

var _ chart.Series = (*TimeMarkerSeries)(nil)
