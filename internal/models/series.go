package models

import (
	"sort"
	"time"
)

// Metric identifies one of the four counters tracked per county per day.
type Metric string

// Tracked metrics.
const (
	MetricNewPositives        Metric = "new_positives"
	MetricCumulativePositives Metric = "cumulative_number_of_positives"
	MetricTotalTests          Metric = "total_number_of_tests"
	MetricCumulativeTests     Metric = "cumulative_number_of_tests"
)

// AllMetrics lists the tracked metrics in display order.
var AllMetrics = []Metric{
	MetricNewPositives,
	MetricCumulativePositives,
	MetricTotalTests,
	MetricCumulativeTests,
}

// Label returns the human-readable name of the metric.
func (m Metric) Label() string {
	switch m {
	case MetricNewPositives:
		return "New Positives"
	case MetricCumulativePositives:
		return "Cumulative Number of Positives"
	case MetricTotalTests:
		return "Total Number of Tests"
	case MetricCumulativeTests:
		return "Cumulative Number of Tests"
	}

	return string(m)
}

// SeriesPoint is one day of data for a county, counters plus derived values.
type SeriesPoint struct {
	Date                time.Time `json:"date"`
	NewPositives        int       `json:"newPositives"`
	CumulativePositives int       `json:"cumulativePositives"`
	TotalTests          int       `json:"totalTests"`
	CumulativeTests     int       `json:"cumulativeTests"`
	// Delta is the day-over-day change of the cumulative positive count.
	// The first point of a series carries its own cumulative value.
	Delta int `json:"delta"`
	// Avg7 is the trailing rolling mean of NewPositives.
	Avg7 float64 `json:"avg7"`
}

// Value returns the counter selected by metric.
func (p SeriesPoint) Value(m Metric) int {
	switch m {
	case MetricNewPositives:
		return p.NewPositives
	case MetricCumulativePositives:
		return p.CumulativePositives
	case MetricTotalTests:
		return p.TotalTests
	case MetricCumulativeTests:
		return p.CumulativeTests
	}

	return 0
}

// Series is a county's points ordered by date ascending.
type Series []SeriesPoint

// Latest returns the most recent point of the series.
func (s Series) Latest() SeriesPoint {
	if len(s) == 0 {
		return SeriesPoint{}
	}

	return s[len(s)-1]
}

// SeriesTable maps a county name to its ordered series. Counties with zero
// well-formed rows never appear in the table.
type SeriesTable map[string]Series

// IsEmpty reports whether the table has no counties.
func (t SeriesTable) IsEmpty() bool {
	return len(t) == 0
}

// Counties returns the county names in sorted order.
func (t SeriesTable) Counties() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// DateRange returns the earliest and latest dates present across all series.
func (t SeriesTable) DateRange() (time.Time, time.Time) {
	var start, end time.Time

	for _, series := range t {
		if len(series) == 0 {
			continue
		}

		first := series[0].Date
		last := series[len(series)-1].Date

		if start.IsZero() || first.Before(start) {
			start = first
		}

		if end.IsZero() || last.After(end) {
			end = last
		}
	}

	return start, end
}
