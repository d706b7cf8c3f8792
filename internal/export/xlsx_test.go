package export

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"nycovid/internal/models"
)

func day(d int) time.Time {
	return time.Date(2020, 3, d, 0, 0, 0, 0, time.UTC)
}

func sampleTable() models.SeriesTable {
	return models.SeriesTable{
		"Albany": models.Series{
			{Date: day(1), NewPositives: 1, CumulativePositives: 1, TotalTests: 10, CumulativeTests: 10, Delta: 1, Avg7: 1},
			{Date: day(2), NewPositives: 2, CumulativePositives: 3, TotalTests: 12, CumulativeTests: 22, Delta: 2, Avg7: 1.5},
		},
		"Erie": models.Series{
			{Date: day(1), NewPositives: 4, CumulativePositives: 4, TotalTests: 8, CumulativeTests: 8, Delta: 4, Avg7: 4},
		},
	}
}

func TestWriteXLSX_EmptyTable(t *testing.T) {
	err := WriteXLSX(filepath.Join(t.TempDir(), "out.xlsx"), models.SeriesTable{})
	if !errors.Is(err, ErrNoSeries) {
		t.Fatalf("WriteXLSX error = %v, want ErrNoSeries", err)
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	if err := WriteXLSX(path, sampleTable()); err != nil {
		t.Fatalf("WriteXLSX returned unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(timeseriesSheet)
	if err != nil {
		t.Fatalf("Failed to read timeseries sheet: %v", err)
	}

	// Header plus one row per series point
	if len(rows) != 4 {
		t.Fatalf("timeseries rows = %d, want 4", len(rows))
	}

	if rows[0][0] != "County" {
		t.Errorf("header[0] = %s, want County", rows[0][0])
	}

	// Counties are written in sorted order
	if rows[1][0] != "Albany" || rows[3][0] != "Erie" {
		t.Errorf("row order = %s..%s, want Albany..Erie", rows[1][0], rows[3][0])
	}

	summary, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("Failed to read summary sheet: %v", err)
	}

	// Header plus one row per county
	if len(summary) != 3 {
		t.Fatalf("summary rows = %d, want 3", len(summary))
	}

	// Latest Albany values
	if summary[1][1] != "2020-03-02" {
		t.Errorf("Albany latest date = %s, want 2020-03-02", summary[1][1])
	}
}

func TestWriteJSONSummary_EmptyTable(t *testing.T) {
	err := WriteJSONSummary(filepath.Join(t.TempDir(), "out.json"), models.SeriesTable{})
	if !errors.Is(err, ErrNoSeries) {
		t.Fatalf("WriteJSONSummary error = %v, want ErrNoSeries", err)
	}
}
