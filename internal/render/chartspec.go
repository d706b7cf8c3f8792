// Package render builds the chart set for a series table and serializes it
// into a single standalone HTML document.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"nycovid/internal/models"
)

// ErrEmptySeriesTable is returned when there are no regions to visualize.
var ErrEmptySeriesTable = errors.New("series table is empty, nothing to render")

// MetricChart is one statewide trend chart.
type MetricChart struct {
	Metric models.Metric
	Title  string
	SVG    template.HTML
}

// CountyChart is one per-county trend chart, toggled by the selector.
type CountyChart struct {
	Name string
	ID   string
	SVG  template.HTML
}

// TableRow is the latest reported values for one county.
type TableRow struct {
	County              string
	Date                time.Time
	NewPositives        int
	CumulativePositives int
	TotalTests          int
	CumulativeTests     int
	Avg7                float64
}

// ChartSpec describes the full document: coordinated statewide views, the
// county selector with its charts, and the latest-values table.
type ChartSpec struct {
	Title       string
	SourceName  string
	GeneratedAt time.Time
	StartDate   time.Time
	EndDate     time.Time
	Statewide   []MetricChart
	Counties    []CountyChart
	Rows        []TableRow
}

// BuildChartSpec constructs the chart set from a series table.
func BuildChartSpec(table models.SeriesTable, title, sourceName string) (*ChartSpec, error) {
	if table.IsEmpty() {
		return nil, ErrEmptySeriesTable
	}

	start, end := table.DateRange()

	spec := &ChartSpec{
		Title:       title,
		SourceName:  sourceName,
		GeneratedAt: time.Now(),
		StartDate:   start,
		EndDate:     end,
	}

	// Statewide: one chart per metric, counters summed across counties per day.
	dates, sums := aggregateStatewide(table)

	for _, metric := range models.AllMetrics {
		ys := make([]float64, len(dates))
		for i, d := range dates {
			ys[i] = float64(sums[d][metric])
		}

		svg, err := renderLineSVG(metric.Label()+" (statewide)", metric.Label(), dates, ys)
		if err != nil {
			return nil, fmt.Errorf("failed to render statewide chart for %s: %w", metric, err)
		}

		spec.Statewide = append(spec.Statewide, MetricChart{
			Metric: metric,
			Title:  metric.Label(),
			SVG:    template.HTML(svg),
		})
	}

	// Per-county charts for the primary metric, plus the latest-values table.
	for _, county := range table.Counties() {
		series := table[county]
		if len(series) == 0 {
			continue
		}

		xs := make([]time.Time, len(series))
		ys := make([]float64, len(series))

		for i, p := range series {
			xs[i] = p.Date
			ys[i] = float64(p.NewPositives)
		}

		svg, err := renderLineSVG("New Positives — "+county, "New Positives", xs, ys)
		if err != nil {
			return nil, fmt.Errorf("failed to render chart for county %s: %w", county, err)
		}

		spec.Counties = append(spec.Counties, CountyChart{
			Name: county,
			ID:   countyID(county),
			SVG:  template.HTML(svg),
		})

		latest := series.Latest()
		spec.Rows = append(spec.Rows, TableRow{
			County:              county,
			Date:                latest.Date,
			NewPositives:        latest.NewPositives,
			CumulativePositives: latest.CumulativePositives,
			TotalTests:          latest.TotalTests,
			CumulativeTests:     latest.CumulativeTests,
			Avg7:                latest.Avg7,
		})
	}

	return spec, nil
}

// aggregateStatewide sums every counter across counties per date.
func aggregateStatewide(table models.SeriesTable) ([]time.Time, map[time.Time]map[models.Metric]int) {
	sums := make(map[time.Time]map[models.Metric]int)

	for _, series := range table {
		for _, p := range series {
			if sums[p.Date] == nil {
				sums[p.Date] = make(map[models.Metric]int, len(models.AllMetrics))
			}

			for _, metric := range models.AllMetrics {
				sums[p.Date][metric] += p.Value(metric)
			}
		}
	}

	dates := make([]time.Time, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}

	sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })

	return dates, sums
}

// countyID derives a stable element id from a county name ("St. Lawrence" ->
// "county-st-lawrence").
func countyID(name string) string {
	var sb strings.Builder

	sb.WriteString("county-")

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '.':
			sb.WriteRune('-')
		}
	}

	return strings.Trim(strings.ReplaceAll(sb.String(), "--", "-"), "-")
}
