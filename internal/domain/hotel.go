package domain

import "strings"

// RawRecord is a candidate hotel as produced by a RecordSource.
type RawRecord struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	Rating      *float64 `yaml:"rating"` // nil when the source had no rating
	Project     string   `yaml:"project"`
}

// EnrichedRecord is a RawRecord carrying its summary. Build it with Enrich.
type EnrichedRecord struct {
	RawRecord
	Summary string
}

// Enrich attaches a summary, falling back to the raw description when empty.
func Enrich(r RawRecord, summary string) EnrichedRecord {
	if strings.TrimSpace(summary) == "" {
		summary = r.Description
	}
	return EnrichedRecord{RawRecord: r, Summary: summary}
}

// ProjectedRecord is a stored hotel decoded back from the document store.
type ProjectedRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	URL         string  `json:"url"`
	Project     string  `json:"project"`
}

type HotelsResponse struct {
	Project string            `json:"project"`
	Hotels  []ProjectedRecord `json:"hotels"`
	Count   int               `json:"count"`
}
