package models

import "time"

// RawRecord is one row of the NYS DOH testing dataset as it appears on the
// wire. Socrata serves every value as a string, including the counters;
// conversion to integers happens during transformation so a single bad row
// cannot fail the decode.
type RawRecord struct {
	TestDate            string `json:"test_date"`
	County              string `json:"county"`
	NewPositives        string `json:"new_positives"`
	CumulativePositives string `json:"cumulative_number_of_positives"`
	TotalTests          string `json:"total_number_of_tests"`
	CumulativeTests     string `json:"cumulative_number_of_tests"`
}

// RawDataset is the ordered table of rows retrieved from the remote source
// (or the local cache). It is created fresh on every run and discarded after
// transformation.
type RawDataset struct {
	FetchedAt time.Time   `json:"fetchedAt"`
	Source    string      `json:"source"`
	FromCache bool        `json:"fromCache"`
	Records   []RawRecord `json:"records"`
}

// Len returns the number of rows in the dataset.
func (d *RawDataset) Len() int {
	if d == nil {
		return 0
	}

	return len(d.Records)
}
