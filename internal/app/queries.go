package app

import (
	"context"

	"eco_hotels/internal/domain"
)

// QueryService serves the read side. It holds no state between requests.
type QueryService struct {
	reader  domain.HotelReader
	journal domain.RunJournal // optional
}

func NewQueryService(r domain.HotelReader, j domain.RunJournal) *QueryService {
	return &QueryService{reader: r, journal: j}
}

// Hotels returns every stored hotel whose project tag contains project (case-insensitive).
// A reader failure is returned as is, with no partial list.
func (s *QueryService) Hotels(ctx context.Context, project string) (domain.HotelsResponse, error) {
	hotels, err := s.reader.QueryHotels(ctx, project)
	if err != nil {
		return domain.HotelsResponse{}, err
	}
	if hotels == nil {
		hotels = []domain.ProjectedRecord{}
	}
	return domain.HotelsResponse{Project: project, Hotels: hotels, Count: len(hotels)}, nil
}

// RecentRuns lists the newest journaled runs.
func (s *QueryService) RecentRuns(ctx context.Context, limit int) ([]domain.RunResult, error) {
	if s.journal == nil {
		return nil, domain.ErrJournalDisabled
	}
	return s.journal.ListRuns(ctx, limit)
}
