// Package api provides REST API handlers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eosarchive/eoscal/internal/calendar"
	"github.com/eosarchive/eoscal/internal/google"
	"github.com/eosarchive/eoscal/internal/response"
)

// EventSource supplies event records, typically the record store client.
type EventSource interface {
	Get(ctx context.Context, id string) (calendar.Event, error)
	ListUpcoming(ctx context.Context, limit int) ([]calendar.Event, error)
}

// Publisher pushes a resolved event into Google Calendar.
type Publisher interface {
	Publish(ctx context.Context, event calendar.Event, override *calendar.Override) (*google.PublishResult, bool, error)
}

// Handler provides REST API handlers.
type Handler struct {
	source    EventSource
	builder   *calendar.Builder
	publisher Publisher // nil when the integration is not configured
	feedLimit int
}

// NewHandler creates a new API handler. publisher may be nil.
func NewHandler(source EventSource, builder *calendar.Builder, publisher Publisher, feedLimit int) *Handler {
	return &Handler{
		source:    source,
		builder:   builder,
		publisher: publisher,
		feedLimit: feedLimit,
	}
}

// RegisterRoutes registers API routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("GET /api/events/{id}/calendar.ics", h.DownloadICS)
	mux.HandleFunc("GET /api/events/{id}/google", h.GoogleRedirect)
	mux.HandleFunc("GET /api/events/{id}/artifacts", h.GetArtifacts)
	mux.HandleFunc("POST /api/events/{id}/artifacts", h.GetArtifacts)
	mux.HandleFunc("POST /api/events/{id}/publish", h.Publish)

	mux.HandleFunc("GET /api/feed.ics", h.Feed)
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
	})
}

// parseJSON decodes a JSON request body.
func parseJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
