// Package report renders a console summary table of the worst-hit counties.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"nycovid/internal/models"
)

// Render returns a display-width-aligned table of the top N counties by
// latest new positives. topN <= 0 includes every county.
func Render(table models.SeriesTable, topN int) string {
	if table.IsEmpty() {
		return ""
	}

	type entry struct {
		county string
		latest models.SeriesPoint
	}

	entries := make([]entry, 0, len(table))
	for _, county := range table.Counties() {
		entries = append(entries, entry{county: county, latest: table[county].Latest()})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].latest.NewPositives == entries[b].latest.NewPositives {
			return entries[a].county < entries[b].county
		}

		return entries[a].latest.NewPositives > entries[b].latest.NewPositives
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}

	rows := [][]string{
		{"County", "Date", "New Positives", "Cumulative", "7-day Avg"},
	}

	for _, e := range entries {
		rows = append(rows, []string{
			e.county,
			e.latest.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", e.latest.NewPositives),
			fmt.Sprintf("%d", e.latest.CumulativePositives),
			fmt.Sprintf("%.1f", e.latest.Avg7),
		})
	}

	return formatRows(rows)
}

// formatRows pads every cell to the column's max display width.
func formatRows(rows [][]string) string {
	colCount := len(rows[0])
	colWidths := make([]int, colCount)

	for _, row := range rows {
		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Min width for the separator dashes
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var result []string

	for i, row := range rows {
		var sb strings.Builder

		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			sb.WriteString(" ")

			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			padding := colWidths[j] - runewidth.StringWidth(content)
			if padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		result = append(result, sb.String())

		// Separator under the header row
		if i == 0 {
			var sep strings.Builder

			sep.WriteString("|")

			for j := 0; j < colCount; j++ {
				sep.WriteString(" ")
				sep.WriteString(strings.Repeat("-", colWidths[j]))
				sep.WriteString(" |")
			}

			result = append(result, sep.String())
		}
	}

	return strings.Join(result, "\n")
}
