package notion

import (
	"context"
	"fmt"
	"strings"

	"eco_hotels/internal/domain"
)

const pageSize = 100

// Store persists and queries hotels in one Notion database.
type Store struct {
	c              *Client
	databaseID     string
	defaultProject string
}

func NewStore(c *Client, databaseID, defaultProject string) *Store {
	return &Store{c: c, databaseID: databaseID, defaultProject: defaultProject}
}

var (
	_ domain.HotelWriter = (*Store)(nil)
	_ domain.HotelReader = (*Store)(nil)
)

// CreateHotel creates a new page per call; repeated calls duplicate the hotel.
func (s *Store) CreateHotel(ctx context.Context, r domain.EnrichedRecord) (string, error) {
	return s.c.CreatePage(ctx, s.databaseID, encodeProperties(r, s.defaultProject))
}

// QueryHotels lowercases project and matches it as a substring of the stored tag.
// Any page-level failure discards what was fetched so far.
func (s *Store) QueryHotels(ctx context.Context, project string) ([]domain.ProjectedRecord, error) {
	q := queryRequest{
		Filter: map[string]any{
			"property":  propProject,
			"rich_text": map[string]any{"contains": strings.ToLower(project)},
		},
		PageSize: pageSize,
	}

	out := []domain.ProjectedRecord{}
	for {
		resp, err := s.c.QueryDatabase(ctx, s.databaseID, q)
		if err != nil {
			return nil, fmt.Errorf("query hotels: %w", err)
		}
		for _, page := range resp.Results {
			out = append(out, projectPage(page))
		}
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return out, nil
		}
		q.StartCursor = *resp.NextCursor
	}
}
