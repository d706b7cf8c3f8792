// Package transform reshapes the raw dataset into per-county time series and
// derives the display metrics.
package transform

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"nycovid/internal/models"
)

// ErrNilDataset is returned when the transformer receives no dataset.
var ErrNilDataset = errors.New("nil dataset")

// Socrata floating timestamps look like "2020-03-01T00:00:00.000"; some
// exports carry the bare date.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Transformer converts a RawDataset into a SeriesTable. The same input always
// yields the same table.
type Transformer struct {
	windowDays int
}

// NewTransformer creates a transformer with the given rolling window size.
func NewTransformer(windowDays int) *Transformer {
	if windowDays < 1 {
		windowDays = 1
	}

	return &Transformer{windowDays: windowDays}
}

// row is a parsed record awaiting series assembly.
type row struct {
	index               int
	date                time.Time
	newPositives        int
	cumulativePositives int
	totalTests          int
	cumulativeTests     int
}

// Transform groups rows by county, sorts each county by date ascending and
// derives the delta and rolling-average metrics. Malformed rows are skipped
// and recorded in the diagnostics, never fatal.
func (t *Transformer) Transform(ds *models.RawDataset) (models.SeriesTable, *Diagnostics, error) {
	if ds == nil {
		return nil, nil, ErrNilDataset
	}

	diags := NewDiagnostics()
	grouped := make(map[string][]row)

	for i, rec := range ds.Records {
		county := strings.TrimSpace(rec.County)
		if county == "" {
			diags.Skip(i, "", "missing county")

			continue
		}

		date, err := parseDate(rec.TestDate)
		if err != nil {
			diags.Skip(i, county, fmt.Sprintf("bad test_date %q", rec.TestDate))

			continue
		}

		newPositives, err := parseCounter(rec.NewPositives)
		if err != nil {
			diags.Skip(i, county, fmt.Sprintf("bad new_positives %q", rec.NewPositives))

			continue
		}

		cumulativePositives, err := parseCounter(rec.CumulativePositives)
		if err != nil {
			diags.Skip(i, county, fmt.Sprintf("bad cumulative_number_of_positives %q", rec.CumulativePositives))

			continue
		}

		totalTests, err := parseCounter(rec.TotalTests)
		if err != nil {
			diags.Skip(i, county, fmt.Sprintf("bad total_number_of_tests %q", rec.TotalTests))

			continue
		}

		cumulativeTests, err := parseCounter(rec.CumulativeTests)
		if err != nil {
			diags.Skip(i, county, fmt.Sprintf("bad cumulative_number_of_tests %q", rec.CumulativeTests))

			continue
		}

		grouped[county] = append(grouped[county], row{
			index:               i,
			date:                date,
			newPositives:        newPositives,
			cumulativePositives: cumulativePositives,
			totalTests:          totalTests,
			cumulativeTests:     cumulativeTests,
		})
	}

	table := make(models.SeriesTable, len(grouped))

	for county, rows := range grouped {
		// Stable sort keyed on source order keeps the result deterministic
		// when a county reports the same date twice.
		sort.SliceStable(rows, func(a, b int) bool {
			if rows[a].date.Equal(rows[b].date) {
				return rows[a].index < rows[b].index
			}

			return rows[a].date.Before(rows[b].date)
		})

		table[county] = buildSeries(rows, t.windowDays)
	}

	return table, diags, nil
}

// buildSeries assembles the ordered points and computes derived metrics.
func buildSeries(rows []row, windowDays int) models.Series {
	series := make(models.Series, 0, len(rows))
	windowSum := 0

	for i, r := range rows {
		point := models.SeriesPoint{
			Date:                r.date,
			NewPositives:        r.newPositives,
			CumulativePositives: r.cumulativePositives,
			TotalTests:          r.totalTests,
			CumulativeTests:     r.cumulativeTests,
		}

		if i == 0 {
			// Everything before the first reported day counts as zero.
			point.Delta = r.cumulativePositives
		} else {
			point.Delta = r.cumulativePositives - rows[i-1].cumulativePositives
		}

		windowSum += r.newPositives
		if i >= windowDays {
			windowSum -= rows[i-windowDays].newPositives
		}

		windowLen := i + 1
		if windowLen > windowDays {
			windowLen = windowDays
		}

		point.Avg7 = float64(windowSum) / float64(windowLen)

		series = append(series, point)
	}

	return series
}

// parseDate parses a Socrata timestamp or bare date.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseCounter parses a non-negative integer counter.
func parseCounter(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty counter")
	}

	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if val < 0 {
		return 0, fmt.Errorf("negative counter %d", val)
	}

	return val, nil
}
