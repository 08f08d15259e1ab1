package app_test

import (
	"context"
	"errors"
	"testing"

	"eco_hotels/internal/app"
	"eco_hotels/internal/domain"
)

func TestHotels_SubstringMatch(t *testing.T) {
	store := &fakeStore{}
	_, _ = store.CreateHotel(context.Background(), domain.Enrich(vallartaFixtures()[0], "Solar powered and plastic free."))
	q := app.NewQueryService(store, nil)

	for _, project := range []string{"val", "VALL", "vallarta"} {
		out, err := q.Hotels(context.Background(), project)
		if err != nil {
			t.Fatalf("%s: err: %v", project, err)
		}
		if out.Project != project || out.Count != 1 || len(out.Hotels) != 1 {
			t.Fatalf("%s: unexpected response: %+v", project, out)
		}
		h := out.Hotels[0]
		if h.Name != "Casa Eco Resort" || h.Rating != 4.8 || h.Description != "Solar powered and plastic free." {
			t.Fatalf("%s: unexpected hotel: %+v", project, h)
		}
	}
}

func TestHotels_NoMatchIsEmptyList(t *testing.T) {
	store := &fakeStore{}
	_, _ = store.CreateHotel(context.Background(), domain.Enrich(vallartaFixtures()[0], ""))
	q := app.NewQueryService(store, nil)

	out, err := q.Hotels(context.Background(), "tulum")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.Hotels == nil || out.Count != 0 {
		t.Fatalf("want empty non-nil list, got %+v", out)
	}
}

func TestHotels_ReaderFailureHasNoPartialList(t *testing.T) {
	store := &fakeStore{queryErr: errors.New("notion: status 502: bad gateway")}
	q := app.NewQueryService(store, nil)

	out, err := q.Hotels(context.Background(), "vallarta")
	if err == nil {
		t.Fatal("expected error")
	}
	if out.Hotels != nil || out.Count != 0 {
		t.Fatalf("expected zero response on failure, got %+v", out)
	}
}

func TestRecentRuns(t *testing.T) {
	q := app.NewQueryService(&fakeStore{}, nil)
	if _, err := q.RecentRuns(context.Background(), 10); !errors.Is(err, domain.ErrJournalDisabled) {
		t.Fatalf("want ErrJournalDisabled, got %v", err)
	}

	j := &fakeJournal{finished: []domain.RunResult{{RunID: "r1", Status: domain.RunStatusSuccess}}}
	q = app.NewQueryService(&fakeStore{}, j)
	runs, err := q.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "r1" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}
