package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "eco_hotels/internal/adapters/http_server"
	"eco_hotels/internal/app"
	"eco_hotels/internal/domain"
)

type fakeReader struct {
	hotels []domain.ProjectedRecord
	err    error
	calls  []string
}

func (f *fakeReader) QueryHotels(ctx context.Context, project string) ([]domain.ProjectedRecord, error) {
	f.calls = append(f.calls, project)
	return f.hotels, f.err
}

type fakeJournal struct{ runs []domain.RunResult }

func (f *fakeJournal) StartRun(context.Context, string, time.Time) error         { return nil }
func (f *fakeJournal) FinishRun(context.Context, domain.RunResult) error         { return nil }
func (f *fakeJournal) LogWriteFailure(context.Context, domain.WriteFailure) error { return nil }
func (f *fakeJournal) ListRuns(ctx context.Context, limit int) ([]domain.RunResult, error) {
	return f.runs, nil
}

func newServer(r domain.HotelReader, j domain.RunJournal) http.Handler {
	s := httpserver.New([]string{"http://localhost:3000"})
	s.MountHandlers(&httpserver.Handlers{Q: app.NewQueryService(r, j)})
	return s.Mux()
}

func get(t *testing.T, h http.Handler, target string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newServer(&fakeReader{}, nil), "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Fatalf("body %q err=%v", rec.Body.String(), err)
	}
}

func TestGetHotels_OK(t *testing.T) {
	r := &fakeReader{hotels: []domain.ProjectedRecord{
		{ID: "p1", Name: "Casa Eco Resort", Description: "Solar powered.", Rating: 4.8, URL: "https://example.com/casa-eco", Project: "vallarta"},
	}}
	rec := get(t, newServer(r, nil), "/api?project=val", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Project string           `json:"project"`
		Hotels  []map[string]any `json:"hotels"`
		Count   int              `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Project != "val" || out.Count != 1 || len(out.Hotels) != 1 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	h := out.Hotels[0]
	for _, k := range []string{"id", "name", "description", "rating", "url", "project"} {
		if _, ok := h[k]; !ok {
			t.Fatalf("hotel missing %q: %v", k, h)
		}
	}
	if len(r.calls) != 1 || r.calls[0] != "val" {
		t.Fatalf("reader calls: %v", r.calls)
	}
	if rec.Header().Get("ETag") == "" {
		t.Fatal("missing ETag")
	}
}

func TestGetHotels_EmptyIsArray(t *testing.T) {
	rec := get(t, newServer(&fakeReader{}, nil), "/api?project=tulum", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"hotels":[]`) || !strings.Contains(rec.Body.String(), `"count":0`) {
		t.Fatalf("body %s", rec.Body.String())
	}
}

func TestGetHotels_MissingProject(t *testing.T) {
	for _, target := range []string{"/api", "/api?project=", "/api?project=%20%20"} {
		r := &fakeReader{}
		rec := get(t, newServer(r, nil), target, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d", target, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Fatalf("%s: content type %q", target, ct)
		}
		if len(r.calls) != 0 {
			t.Fatalf("%s: reader must not be called", target)
		}
	}
}

func TestGetHotels_StoreFailure(t *testing.T) {
	r := &fakeReader{err: errors.New("notion: unauthorized (401): API token is invalid.")}
	rec := get(t, newServer(r, nil), "/api?project=vallarta", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["detail"] != "notion: unauthorized (401): API token is invalid." {
		t.Fatalf("body %v", body)
	}
	if _, ok := body["hotels"]; ok {
		t.Fatal("failure must not carry a hotel list")
	}
}

func TestGetHotels_NotModified(t *testing.T) {
	h := newServer(&fakeReader{}, nil)
	first := get(t, h, "/api?project=vallarta", nil)
	etag := first.Header().Get("ETag")
	second := get(t, h, "/api?project=vallarta", map[string]string{"If-None-Match": etag})
	if second.Code != http.StatusNotModified {
		t.Fatalf("status %d", second.Code)
	}
}

func TestCORS(t *testing.T) {
	h := newServer(&fakeReader{}, nil)

	rec := get(t, h, "/health", map[string]string{"Origin": "http://localhost:3000"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow credentials %q", got)
	}

	rec = get(t, h, "/health", map[string]string{"Origin": "http://evil.example"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestListRuns(t *testing.T) {
	rec := get(t, newServer(&fakeReader{}, nil), "/v1/runs", nil)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("no journal: status %d", rec.Code)
	}

	j := &fakeJournal{runs: []domain.RunResult{{RunID: "r1", Status: domain.RunStatusSuccess, HotelsProcessed: 2}}}
	h := newServer(&fakeReader{}, j)

	rec = get(t, h, "/v1/runs?limit=0", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: status %d", rec.Code)
	}

	rec = get(t, h, "/v1/runs?limit=5", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"run_id":"r1"`) {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
}
