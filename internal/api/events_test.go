package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eosarchive/eoscal/internal/calendar"
	"github.com/eosarchive/eoscal/internal/google"
	"github.com/eosarchive/eoscal/internal/records"
)

type fakeSource struct {
	events map[string]calendar.Event
	err    error
}

func (f *fakeSource) Get(ctx context.Context, id string) (calendar.Event, error) {
	if f.err != nil {
		return calendar.Event{}, f.err
	}
	ev, ok := f.events[id]
	if !ok {
		return calendar.Event{}, records.ErrNotFound
	}
	return ev, nil
}

func (f *fakeSource) ListUpcoming(ctx context.Context, limit int) ([]calendar.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []calendar.Event
	for _, ev := range f.events {
		out = append(out, ev)
	}
	return out, nil
}

type fakePublisher struct {
	lastOverride *calendar.Override
	result       *google.PublishResult
	err          error
}

func (f *fakePublisher) Publish(ctx context.Context, event calendar.Event, override *calendar.Override) (*google.PublishResult, bool, error) {
	f.lastOverride = override
	if f.err != nil {
		return nil, true, f.err
	}
	if event.Start == "" {
		return nil, false, nil
	}
	return f.result, true, nil
}

func testHandler(publisher Publisher) (*Handler, *fakeSource) {
	source := &fakeSource{events: map[string]calendar.Event{
		"evt42": {
			ID:        "evt42",
			Title:     "Open Studio",
			City:      "Berlin",
			Start:     "2025-06-01",
			StartTime: "18-22",
		},
		"nodate": {
			ID:    "nodate",
			Title: "Someday",
		},
	}}
	builder := calendar.NewBuilder(calendar.BuilderConfig{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC) },
		NewUID:   func() string { return "f4llb4ck" },
	})
	return NewHandler(source, builder, publisher, 100), source
}

func doRequest(t *testing.T, h *Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error.Code
}

func TestDownloadICS(t *testing.T) {
	h, _ := testHandler(nil)
	rec := doRequest(t, h, http.MethodGet, "/api/events/evt42/calendar.ics", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="open-studio.ics"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "BEGIN:VCALENDAR\r\n") {
		t.Errorf("body does not start with VCALENDAR: %q", body[:40])
	}
	if !strings.Contains(body, "DTSTART:20250601T180000Z\r\n") {
		t.Errorf("missing DTSTART line in %q", body)
	}
}

func TestDownloadICSNotFound(t *testing.T) {
	h, _ := testHandler(nil)
	rec := doRequest(t, h, http.MethodGet, "/api/events/missing/calendar.ics", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "EVENT_NOT_FOUND" {
		t.Errorf("error code = %q", code)
	}
}

func TestDownloadICSNoStartDate(t *testing.T) {
	h, _ := testHandler(nil)
	rec := doRequest(t, h, http.MethodGet, "/api/events/nodate/calendar.ics", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "NO_START_DATE" {
		t.Errorf("error code = %q", code)
	}
}

func TestDownloadICSUpstreamError(t *testing.T) {
	h, source := testHandler(nil)
	source.err = errors.New("connection refused")
	rec := doRequest(t, h, http.MethodGet, "/api/events/evt42/calendar.ics", "")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "UPSTREAM_ERROR" {
		t.Errorf("error code = %q", code)
	}
}

func TestGoogleRedirect(t *testing.T) {
	h, _ := testHandler(nil)
	rec := doRequest(t, h, http.MethodGet, "/api/events/evt42/google", "")

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://calendar.google.com/calendar/render?") {
		t.Errorf("Location = %q", loc)
	}
	if !strings.Contains(loc, "dates=20250601T180000Z%2F20250601T220000Z") {
		t.Errorf("Location missing dates: %q", loc)
	}
}

func TestGetArtifacts(t *testing.T) {
	h, _ := testHandler(nil)
	rec := doRequest(t, h, http.MethodGet, "/api/events/evt42/artifacts", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var artifacts calendar.Artifacts
	if err := json.Unmarshal(rec.Body.Bytes(), &artifacts); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if artifacts.GoogleURL == "" || artifacts.ICS == "" {
		t.Errorf("artifacts incomplete: %+v", artifacts)
	}
	if !strings.Contains(artifacts.ICS, "LOCATION:Berlin") {
		t.Errorf("city fallback missing from ICS: %q", artifacts.ICS)
	}
}

func TestGetArtifactsWithOverride(t *testing.T) {
	h, _ := testHandler(nil)
	rec := doRequest(t, h, http.MethodPost, "/api/events/evt42/artifacts",
		`{"title": "Private View", "location": "Hamburg"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var artifacts calendar.Artifacts
	if err := json.Unmarshal(rec.Body.Bytes(), &artifacts); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !strings.Contains(artifacts.ICS, "SUMMARY:Private View") {
		t.Errorf("override title missing: %q", artifacts.ICS)
	}
	if !strings.Contains(artifacts.ICS, "LOCATION:Hamburg") {
		t.Errorf("override location missing: %q", artifacts.ICS)
	}
}

func TestGetArtifactsInvalidOverride(t *testing.T) {
	h, _ := testHandler(nil)
	rec := doRequest(t, h, http.MethodPost, "/api/events/evt42/artifacts", `{"title": 42}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q", code)
	}
}

func TestPublish(t *testing.T) {
	pub := &fakePublisher{result: &google.PublishResult{EventID: "gcal1", HTMLLink: "https://calendar.google.com/event?eid=abc"}}
	h, _ := testHandler(pub)
	rec := doRequest(t, h, http.MethodPost, "/api/events/evt42/publish", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result google.PublishResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if result.EventID != "gcal1" {
		t.Errorf("EventID = %q", result.EventID)
	}
}

func TestPublishNotConfigured(t *testing.T) {
	h, _ := testHandler(nil)
	rec := doRequest(t, h, http.MethodPost, "/api/events/evt42/publish", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "NOT_CONFIGURED" {
		t.Errorf("error code = %q", code)
	}
}

func TestPublishGoogleError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("insufficient scope")}
	h, _ := testHandler(pub)
	rec := doRequest(t, h, http.MethodPost, "/api/events/evt42/publish", "")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "GOOGLE_API_ERROR" {
		t.Errorf("error code = %q", code)
	}
}

func TestFeed(t *testing.T) {
	h, _ := testHandler(nil)
	rec := doRequest(t, h, http.MethodGet, "/api/feed.ics", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Count(body, "BEGIN:VEVENT") != 1 {
		t.Errorf("expected one VEVENT (dateless record skipped), got %d", strings.Count(body, "BEGIN:VEVENT"))
	}
	if !strings.HasSuffix(body, "END:VCALENDAR\r\n") {
		t.Errorf("feed does not end with VCALENDAR terminator: %q", body[len(body)-30:])
	}
}

func TestHealth(t *testing.T) {
	h, _ := testHandler(nil)
	rec := doRequest(t, h, http.MethodGet, "/api/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}
