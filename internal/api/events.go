package api

import (
	"errors"
	"net/http"

	"github.com/eosarchive/eoscal/internal/calendar"
	"github.com/eosarchive/eoscal/internal/records"
	"github.com/eosarchive/eoscal/internal/response"
	"github.com/eosarchive/eoscal/internal/util"
)

// fetchEvent loads the record behind the request, writing the error response
// itself on failure.
func (h *Handler) fetchEvent(w http.ResponseWriter, r *http.Request) (calendar.Event, string, bool) {
	id := r.PathValue("id")
	if id == "" {
		response.WriteValidationError(w, "event ID required", nil)
		return calendar.Event{}, "", false
	}

	event, err := h.source.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			response.WriteEventNotFound(w, id)
		} else {
			util.Error("Record store lookup failed", "event_id", id, "error", err)
			response.WriteUpstreamError(w, "Failed to load event record")
		}
		return calendar.Event{}, "", false
	}
	return event, id, true
}

// parseOverride reads the optional override body on POST requests.
func parseOverride(w http.ResponseWriter, r *http.Request) (*calendar.Override, bool) {
	if r.Method != http.MethodPost || r.ContentLength == 0 {
		return nil, true
	}
	var override calendar.Override
	if err := parseJSON(r, &override); err != nil {
		response.WriteValidationError(w, "invalid override body", map[string]any{"error": err.Error()})
		return nil, false
	}
	return &override, true
}

// DownloadICS serves the event as an .ics attachment.
func (h *Handler) DownloadICS(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.fetchEvent(w, r)
	if !ok {
		return
	}

	artifacts := h.builder.Build(event, nil)
	if artifacts == nil {
		response.WriteNoStartDate(w, id)
		return
	}

	filename := calendar.Slug(event.Title) + ".ics"
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write([]byte(artifacts.ICS + "\r\n"))
}

// GoogleRedirect sends the client to the prefilled Google Calendar form.
func (h *Handler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.fetchEvent(w, r)
	if !ok {
		return
	}

	artifacts := h.builder.Build(event, nil)
	if artifacts == nil {
		response.WriteNoStartDate(w, id)
		return
	}

	http.Redirect(w, r, artifacts.GoogleURL, http.StatusFound)
}

// GetArtifacts returns both artifacts as JSON. POST accepts an override body
// applied on top of the stored record.
func (h *Handler) GetArtifacts(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.fetchEvent(w, r)
	if !ok {
		return
	}
	override, ok := parseOverride(w, r)
	if !ok {
		return
	}

	artifacts := h.builder.Build(event, override)
	if artifacts == nil {
		response.WriteNoStartDate(w, id)
		return
	}

	response.JSON(w, http.StatusOK, artifacts)
}

// Publish inserts the event into the configured Google Calendar.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		response.WriteNotConfigured(w, "Google Calendar publishing is not configured")
		return
	}

	event, id, ok := h.fetchEvent(w, r)
	if !ok {
		return
	}
	override, ok := parseOverride(w, r)
	if !ok {
		return
	}

	result, resolvable, err := h.publisher.Publish(r.Context(), event, override)
	if err != nil {
		util.Error("Google Calendar publish failed", "event_id", id, "error", err)
		response.WriteGoogleAPIError(w, "Failed to publish event to Google Calendar")
		return
	}
	if !resolvable {
		response.WriteNoStartDate(w, id)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// Feed serves all upcoming events as one ICS document.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	events, err := h.source.ListUpcoming(r.Context(), h.feedLimit)
	if err != nil {
		util.Error("Record store list failed", "error", err)
		response.WriteUpstreamError(w, "Failed to load event records")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Write([]byte(h.builder.BuildFeed(events) + "\r\n"))
}
