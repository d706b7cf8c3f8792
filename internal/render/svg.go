package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 960
	chartHeight = 320
)

// renderLineSVG draws a single time series as an inline SVG fragment.
func renderLineSVG(title, yName string, xs []time.Time, ys []float64) (string, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return "", fmt.Errorf("series length mismatch: %d x-values, %d y-values", len(xs), len(ys))
	}

	// go-chart cannot compute an x-range from a single point; pad with a
	// second point one day out, same value.
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}

	series := chart.TimeSeries{
		Name:    yName,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: chart.ColorBlue,
			StrokeWidth: 2.0,
		},
	}

	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 24}},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis:  chart.YAxis{Name: yName},
		Series: []chart.Series{series},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("chart render failed: %w", err)
	}

	return buf.String(), nil
}
