// internal/adapters/notion/client.go
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"eco_hotels/internal/adapters/observability"
	"eco_hotels/internal/domain"
)

const defaultVersion = "2022-06-28"

// Client is a minimal Notion REST client covering page creation and database queries.
// Calls are single-attempt; callers decide what a failure means.
type Client struct {
	base    string
	hc      *http.Client
	key     string
	version string
	rl      *rate.Limiter
}

func New(base, key, version string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("notion API key is required")
	}
	if rps <= 0 {
		rps = 3
	}
	if version == "" {
		version = defaultVersion
	}
	return &Client{
		base:    strings.TrimSuffix(base, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
		key:     key,
		version: version,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// APIError is a non-2xx Notion response.
type APIError struct {
	Status  int
	Code    string
	Message string
	err     error // sentinel for errors.Is, may be nil
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion: %s (%d): %s", e.Code, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.err }

type createPageRequest struct {
	Parent     parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

type queryRequest struct {
	Filter      any    `json:"filter,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// queryResponse keeps pages loosely typed; decoding happens field by field.
type queryResponse struct {
	Results    []map[string]any `json:"results"`
	HasMore    bool             `json:"has_more"`
	NextCursor *string          `json:"next_cursor"`
}

// CreatePage creates a page under databaseID and returns the new page id.
func (c *Client) CreatePage(ctx context.Context, databaseID string, props map[string]any) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	req := createPageRequest{Parent: parent{DatabaseID: databaseID}, Properties: props}
	if err := c.do(ctx, http.MethodPost, "/pages", "pages.create", req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// QueryDatabase fetches one page of results.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q queryRequest) (queryResponse, error) {
	var out queryResponse
	err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", "databases.query", q, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path, endpoint string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("notion: encode %s: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "eco-hotels/1.0")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("notion", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("notion: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("notion", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("notion: decode %s: %w", endpoint, err)
		}
		return nil
	}
	return apiError(resp)
}

// apiError reads a small error body for diagnostics and maps auth/404 statuses to sentinels.
func apiError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	e := &APIError{Status: resp.StatusCode}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &payload) == nil && payload.Message != "" {
		e.Code, e.Message = payload.Code, payload.Message
	} else {
		e.Message = strings.TrimSpace(string(b))
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		e.err = domain.ErrNotFound
	case http.StatusUnauthorized:
		e.err = domain.ErrUnauthorized
	case http.StatusForbidden:
		e.err = domain.ErrForbidden
	}
	return e
}

