package export

import (
	"encoding/json"
	"fmt"

	"nycovid/internal/models"
	"nycovid/pkg/fsutil"
)

// WriteJSONSummary writes per-county latest values plus statewide totals.
func WriteJSONSummary(path string, table models.SeriesTable) error {
	if table.IsEmpty() {
		return ErrNoSeries
	}

	start, end := table.DateRange()

	counties := make(map[string]models.SeriesPoint, len(table))
	totalNew := 0
	totalCumulative := 0

	for _, county := range table.Counties() {
		latest := table[county].Latest()
		counties[county] = latest
		totalNew += latest.NewPositives
		totalCumulative += latest.CumulativePositives
	}

	output := map[string]interface{}{
		"counties": counties,
		"summary": map[string]interface{}{
			"startDate":           start.Format("2006-01-02"),
			"endDate":             end.Format("2006-01-02"),
			"totalCounties":       len(table),
			"newPositives":        totalNew,
			"cumulativePositives": totalCumulative,
		},
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := fsutil.WriteFileAtomic(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
