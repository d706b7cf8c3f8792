package report

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"nycovid/internal/models"
)

func sampleTable() models.SeriesTable {
	day := func(d int) time.Time {
		return time.Date(2020, 3, d, 0, 0, 0, 0, time.UTC)
	}

	return models.SeriesTable{
		"Albany": models.Series{
			{Date: day(2), NewPositives: 2, CumulativePositives: 3, Avg7: 1.5},
		},
		"Erie": models.Series{
			{Date: day(2), NewPositives: 9, CumulativePositives: 12, Avg7: 4.5},
		},
		"Kings": models.Series{
			{Date: day(2), NewPositives: 5, CumulativePositives: 8, Avg7: 3},
		},
	}
}

func TestRender_EmptyTable(t *testing.T) {
	if got := Render(models.SeriesTable{}, 5); got != "" {
		t.Errorf("Render on empty table = %q, want empty string", got)
	}
}

func TestRender_SortedByNewPositives(t *testing.T) {
	out := Render(sampleTable(), 0)

	erieIdx := strings.Index(out, "Erie")
	kingsIdx := strings.Index(out, "Kings")
	albanyIdx := strings.Index(out, "Albany")

	if erieIdx == -1 || kingsIdx == -1 || albanyIdx == -1 {
		t.Fatalf("missing counties in output:\n%s", out)
	}

	if !(erieIdx < kingsIdx && kingsIdx < albanyIdx) {
		t.Errorf("counties not sorted by new positives desc:\n%s", out)
	}
}

func TestRender_TopN(t *testing.T) {
	out := Render(sampleTable(), 1)

	if !strings.Contains(out, "Erie") {
		t.Error("top county missing from truncated output")
	}

	if strings.Contains(out, "Albany") {
		t.Error("truncated output must not contain the lowest county")
	}
}

func TestRender_Aligned(t *testing.T) {
	out := Render(sampleTable(), 0)

	lines := strings.Split(out, "\n")
	if len(lines) != 5 { // header + separator + 3 counties
		t.Fatalf("line count = %d, want 5", len(lines))
	}

	width := runewidth.StringWidth(lines[0])
	for i, line := range lines {
		if runewidth.StringWidth(line) != width {
			t.Errorf("line %d width = %d, want %d:\n%s", i, runewidth.StringWidth(line), width, out)
		}
	}
}
