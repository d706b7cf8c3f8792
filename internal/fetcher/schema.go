package fetcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nycovid/internal/models"
	"nycovid/pkg/fsutil"
)

// Schema errors.
var (
	// ErrBadPayload indicates the response body is not the expected JSON
	// array of row objects.
	ErrBadPayload = errors.New("response is not a JSON array of dataset rows")
	// ErrEmptyDataset indicates the source returned zero rows.
	ErrEmptyDataset = errors.New("dataset contains no rows")
)

// DecodeDataset decodes a Socrata JSON body into a RawDataset. The schema
// contract is checked here: the body must be an array of objects whose fields
// are strings. Per-row counter problems are left to the transformer, which
// skips bad rows instead of failing the run.
func DecodeDataset(body []byte, source string, fromCache bool) (*models.RawDataset, error) {
	var records []models.RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	return &models.RawDataset{
		FetchedAt: time.Now(),
		Source:    source,
		FromCache: fromCache,
		Records:   records,
	}, nil
}

// SaveCache writes the raw response body to the cache path so later runs and
// the exporter tool can work offline.
func SaveCache(path string, body []byte) error {
	if err := fsutil.WriteFileAtomic(path, body, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}
