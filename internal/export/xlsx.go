// Package export writes secondary artifacts (XLSX workbook, JSON summary)
// derived from the series table.
package export

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"nycovid/internal/models"
	"nycovid/pkg/fsutil"
)

// ErrNoSeries is returned when there is nothing to export.
var ErrNoSeries = errors.New("series table is empty, nothing to export")

const (
	timeseriesSheet = "Timeseries"
	summarySheet    = "Summary"
)

// WriteXLSX writes the full series table into a two-sheet workbook: every
// point on Timeseries, per-county latest values on Summary.
func WriteXLSX(path string, table models.SeriesTable) error {
	if table.IsEmpty() {
		return ErrNoSeries
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", timeseriesSheet); err != nil {
		return fmt.Errorf("failed to name timeseries sheet: %w", err)
	}

	header := []interface{}{
		"County", "Date", "New Positives", "Cumulative Positives",
		"Total Tests", "Cumulative Tests", "Delta", "7-day Avg",
	}
	if err := f.SetSheetRow(timeseriesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	rowNum := 2

	for _, county := range table.Counties() {
		for _, p := range table[county] {
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}

			row := []interface{}{
				county,
				p.Date.Format("2006-01-02"),
				p.NewPositives,
				p.CumulativePositives,
				p.TotalTests,
				p.CumulativeTests,
				p.Delta,
				p.Avg7,
			}
			if err := f.SetSheetRow(timeseriesSheet, cell, &row); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowNum, err)
			}

			rowNum++
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summaryHeader := []interface{}{
		"County", "Latest Date", "New Positives", "Cumulative Positives",
		"Total Tests", "Cumulative Tests",
	}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	for i, county := range table.Counties() {
		latest := table[county].Latest()

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}

		row := []interface{}{
			county,
			latest.Date.Format("2006-01-02"),
			latest.NewPositives,
			latest.CumulativePositives,
			latest.TotalTests,
			latest.CumulativeTests,
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row for %s: %w", county, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to serialize workbook: %w", err)
	}

	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}
