package domain

import "time"

const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// RunResult summarizes one execution of the ingestion pipeline.
type RunResult struct {
	RunID            string    `json:"run_id"`
	Status           string    `json:"status"`
	HotelsProcessed  int       `json:"hotels_processed"`
	Summarized       int       `json:"summarized"`
	SummaryFallbacks int       `json:"summary_fallbacks"`
	Written          int       `json:"written"`
	WriteFailures    int       `json:"write_failures"`
	Error            string    `json:"error,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

// WriteFailure is one record the store rejected during a run.
type WriteFailure struct {
	RunID  string
	Hotel  string
	Reason string
}
