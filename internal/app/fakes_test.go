package app_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"eco_hotels/internal/domain"
)

// ---- fakes ----

type fakeSource struct {
	recs []domain.RawRecord
	err  error
}

func (f *fakeSource) Produce(ctx context.Context) ([]domain.RawRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.RawRecord, len(f.recs))
	copy(out, f.recs)
	return out, nil
}

type genCall struct {
	system, user string
	maxTokens    int
}

type fakeGen struct {
	mu    sync.Mutex
	calls []genCall
	out   func(user string) (string, error)
}

func (f *fakeGen) Generate(ctx context.Context, system, user string, maxTokens int) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, genCall{system, user, maxTokens})
	f.mu.Unlock()
	return f.out(user)
}

func failingGen() *fakeGen {
	return &fakeGen{out: func(string) (string, error) { return "", errors.New("quota exceeded") }}
}

type storedPage struct {
	id  string
	rec domain.EnrichedRecord
}

// fakeStore behaves like the document store: every create appends, queries match
// the project tag with a case-insensitive contains.
type fakeStore struct {
	mu       sync.Mutex
	pages    []storedPage
	failFor  map[string]bool
	queryErr error
	queries  int
}

func (f *fakeStore) CreateHotel(ctx context.Context, r domain.EnrichedRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[r.Name] {
		return "", errors.New("notion: validation_error (400): bad property")
	}
	id := "page-" + string(rune('a'+len(f.pages)))
	f.pages = append(f.pages, storedPage{id: id, rec: r})
	return id, nil
}

func (f *fakeStore) QueryHotels(ctx context.Context, project string) ([]domain.ProjectedRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []domain.ProjectedRecord
	for _, p := range f.pages {
		if strings.Contains(strings.ToLower(p.rec.Project), strings.ToLower(project)) {
			rating := 0.0
			if p.rec.Rating != nil {
				rating = *p.rec.Rating
			}
			out = append(out, domain.ProjectedRecord{
				ID: p.id, Name: p.rec.Name, Description: p.rec.Summary,
				Rating: rating, URL: p.rec.URL, Project: p.rec.Project,
			})
		}
	}
	return out, nil
}

func (f *fakeStore) byName(name string) []domain.EnrichedRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.EnrichedRecord
	for _, p := range f.pages {
		if p.rec.Name == name {
			out = append(out, p.rec)
		}
	}
	return out
}

type fakeProbe struct {
	status int
	err    error
	calls  int
}

func (f *fakeProbe) Probe(ctx context.Context) (int, error) {
	f.calls++
	return f.status, f.err
}

type fakeJournal struct {
	mu       sync.Mutex
	started  []string
	finished []domain.RunResult
	failures []domain.WriteFailure
}

func (f *fakeJournal) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, runID)
	return nil
}

func (f *fakeJournal) FinishRun(ctx context.Context, r domain.RunResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, r)
	return nil
}

func (f *fakeJournal) LogWriteFailure(ctx context.Context, w domain.WriteFailure) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, w)
	return nil
}

func (f *fakeJournal) ListRuns(ctx context.Context, limit int) ([]domain.RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finished, nil
}

func ptr[T any](v T) *T { return &v }

func vallartaFixtures() []domain.RawRecord {
	return []domain.RawRecord{
		{
			Name: "Casa Eco Resort", Description: "Beachfront eco-resort with sustainable practices",
			URL: "https://example.com/casa-eco", Rating: ptr(4.8), Project: "vallarta",
		},
		{
			Name: "Green Bay Hotel", Description: "Boutique hotel committed to environmental conservation",
			URL: "https://example.com/greenbay", Rating: ptr(4.6), Project: "vallarta",
		},
	}
}
