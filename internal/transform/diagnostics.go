package transform

import (
	"fmt"

	"nycovid/internal/logger"
)

// SkippedRow records one row excluded from the series.
type SkippedRow struct {
	Index  int    `json:"index"`
	County string `json:"county"`
	Reason string `json:"reason"`
}

// Diagnostics collects non-fatal per-row transform issues for visibility.
type Diagnostics struct {
	Skipped []SkippedRow `json:"skipped"`
}

// NewDiagnostics creates an empty diagnostics collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Skip records a skipped row.
func (d *Diagnostics) Skip(index int, county, reason string) {
	d.Skipped = append(d.Skipped, SkippedRow{
		Index:  index,
		County: county,
		Reason: reason,
	})
}

// SkipCount returns the number of skipped rows.
func (d *Diagnostics) SkipCount() int {
	return len(d.Skipped)
}

// LogAll writes every skipped row to the logger at warn level.
func (d *Diagnostics) LogAll(log *logger.Logger) {
	for _, s := range d.Skipped {
		log.Warn("row skipped", "index", s.Index, "county", s.County, "reason", s.Reason)
	}
}

// String returns a summary line.
func (d *Diagnostics) String() string {
	return fmt.Sprintf("Diagnostics{Skipped: %d}", len(d.Skipped))
}
