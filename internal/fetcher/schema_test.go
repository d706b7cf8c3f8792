package fetcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleBody = `[
  {"test_date":"2020-03-01T00:00:00.000","county":"Albany","new_positives":"1","cumulative_number_of_positives":"1","total_number_of_tests":"10","cumulative_number_of_tests":"10"},
  {"test_date":"2020-03-02T00:00:00.000","county":"Albany","new_positives":"2","cumulative_number_of_positives":"3","total_number_of_tests":"12","cumulative_number_of_tests":"22"}
]`

func TestDecodeDataset_Valid(t *testing.T) {
	dataset, err := DecodeDataset([]byte(sampleBody), "http://example.com", false)
	if err != nil {
		t.Fatalf("DecodeDataset returned unexpected error: %v", err)
	}

	if dataset.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", dataset.Len())
	}

	if dataset.Records[0].County != "Albany" {
		t.Errorf("County = %s, want Albany", dataset.Records[0].County)
	}

	if dataset.Records[1].CumulativePositives != "3" {
		t.Errorf("CumulativePositives = %s, want 3", dataset.Records[1].CumulativePositives)
	}

	if dataset.FromCache {
		t.Error("FromCache = true, want false")
	}

	if dataset.Source != "http://example.com" {
		t.Errorf("Source = %s, want http://example.com", dataset.Source)
	}
}

func TestDecodeDataset_NotAnArray(t *testing.T) {
	_, err := DecodeDataset([]byte(`{"error":"not found"}`), "src", false)
	if !errors.Is(err, ErrBadPayload) {
		t.Fatalf("DecodeDataset error = %v, want ErrBadPayload", err)
	}
}

func TestDecodeDataset_NotJSON(t *testing.T) {
	_, err := DecodeDataset([]byte(`<html>gateway error</html>`), "src", false)
	if !errors.Is(err, ErrBadPayload) {
		t.Fatalf("DecodeDataset error = %v, want ErrBadPayload", err)
	}
}

func TestDecodeDataset_Empty(t *testing.T) {
	_, err := DecodeDataset([]byte(`[]`), "src", false)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("DecodeDataset error = %v, want ErrEmptyDataset", err)
	}
}

func TestSaveCache(t *testing.T) {
	tmpDir := t.TempDir()
	cachePath := filepath.Join(tmpDir, "nested", "cache.json")

	if err := SaveCache(cachePath, []byte(sampleBody)); err != nil {
		t.Fatalf("SaveCache returned unexpected error: %v", err)
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		t.Fatalf("Failed to read saved cache: %v", err)
	}

	if string(data) != sampleBody {
		t.Error("cache content does not match saved body")
	}
}
