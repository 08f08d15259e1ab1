package domain

import (
	"context"
	"time"
)

// RecordSource yields a fresh batch of raw hotels on every call.
type RecordSource interface {
	Produce(ctx context.Context) ([]RawRecord, error)
}

// TextGenerator is a chat-style completion backend.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string, maxTokens int) (string, error)
}

type HotelWriter interface {
	// CreateHotel always creates a new entity; there is no upsert key.
	CreateHotel(ctx context.Context, r EnrichedRecord) (string, error)
}

type HotelReader interface {
	// QueryHotels returns every stored hotel whose project tag contains project.
	QueryHotels(ctx context.Context, project string) ([]ProjectedRecord, error)
}

// HealthProber pings the acquisition target before a run. Advisory only.
type HealthProber interface {
	Probe(ctx context.Context) (int, error)
}

type RunJournal interface {
	// Write paths
	StartRun(ctx context.Context, runID string, startedAt time.Time) error
	FinishRun(ctx context.Context, r RunResult) error
	LogWriteFailure(ctx context.Context, f WriteFailure) error

	// Read paths
	ListRuns(ctx context.Context, limit int) ([]RunResult, error)
}

// Locker guards a job identity so that only one firing runs at a time.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}
