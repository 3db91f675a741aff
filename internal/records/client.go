// Package records provides a read-only client for the managed event record
// store REST API.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eosarchive/eoscal/internal/calendar"
	"github.com/eosarchive/eoscal/internal/config"
)

// ErrNotFound is returned when the store has no record for the requested ID.
var ErrNotFound = errors.New("event record not found")

// Record is the loose JSON shape the store returns. Older records use the
// date/end_date/start_time/end_time aliases, newer ones the camelCase names.
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	City        string `json:"city"`
	URL         string `json:"url"`
	Website     string `json:"website"`

	Start     string `json:"start"`
	End       string `json:"end"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`

	Date         string `json:"date"`
	EndDate      string `json:"end_date"`
	StartTimeAlt string `json:"start_time"`
	EndTimeAlt   string `json:"end_time"`
}

// Event converts a record into builder input, preferring the canonical field
// names over their aliases.
func (rec Record) Event() calendar.Event {
	ev := calendar.Event{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Location:    rec.Location,
		City:        rec.City,
		URL:         rec.URL,
		Website:     rec.Website,
		Start:       rec.Start,
		End:         rec.End,
		StartTime:   rec.StartTime,
		EndTime:     rec.EndTime,
	}
	if ev.Start == "" {
		ev.Start = rec.Date
	}
	if ev.End == "" {
		ev.End = rec.EndDate
	}
	if ev.StartTime == "" {
		ev.StartTime = rec.StartTimeAlt
	}
	if ev.EndTime == "" {
		ev.EndTime = rec.EndTimeAlt
	}
	return ev
}

// Client talks to the event record store.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an event store client from configuration.
func NewClient(cfg config.RecordsConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Get fetches a single event record. Returns ErrNotFound for unknown IDs.
func (c *Client) Get(ctx context.Context, id string) (calendar.Event, error) {
	var rec Record
	path := "/api/events/" + url.PathEscape(id)
	if err := c.getJSON(ctx, path, &rec); err != nil {
		return calendar.Event{}, err
	}
	ev := rec.Event()
	if ev.ID == "" {
		ev.ID = id
	}
	return ev, nil
}

// ListUpcoming fetches upcoming event records, at most limit of them.
func (c *Client) ListUpcoming(ctx context.Context, limit int) ([]calendar.Event, error) {
	var recs []Record
	path := "/api/events?upcoming=true&limit=" + strconv.Itoa(limit)
	if err := c.getJSON(ctx, path, &recs); err != nil {
		return nil, err
	}
	events := make([]calendar.Event, 0, len(recs))
	for _, rec := range recs {
		events = append(events, rec.Event())
	}
	return events, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("record store request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("record store returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode record store response: %w", err)
	}
	return nil
}

// Healthy probes the store with a cheap list request.
func (c *Client) Healthy(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var recs []Record
	return c.getJSON(ctx, "/api/events?upcoming=true&limit=1", &recs)
}
