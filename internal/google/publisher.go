// Package google pushes resolved events into a Google Calendar via the
// official Calendar API.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/eosarchive/eoscal/internal/calendar"
	"github.com/eosarchive/eoscal/internal/config"
)

// Publisher inserts archive events into a Google Calendar. The OAuth token
// is read once from a file; there is no interactive authorization flow, the
// token is provisioned out of band.
type Publisher struct {
	builder    *calendar.Builder
	calendarID string
	oauth      *oauth2.Config
	tokenFile  string

	mu      sync.Mutex
	service *gcal.Service
}

// PublishResult describes the Google-side event after a publish.
type PublishResult struct {
	EventID  string `json:"event_id"`
	HTMLLink string `json:"html_link"`
}

// NewPublisher creates a publisher from configuration. The caller is
// expected to check cfg.Enabled() first.
func NewPublisher(cfg config.GoogleConfig, builder *calendar.Builder) *Publisher {
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Publisher{
		builder:    builder,
		calendarID: calendarID,
		tokenFile:  cfg.TokenFile,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcal.CalendarEventsScope},
		},
	}
}

// getService lazily builds the Calendar API service. The oauth2 token source
// handles refresh transparently once the stored token carries a refresh token.
func (p *Publisher) getService(ctx context.Context) (*gcal.Service, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.service != nil {
		return p.service, nil
	}

	data, err := os.ReadFile(p.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	service, err := gcal.NewService(ctx, option.WithTokenSource(p.oauth.TokenSource(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	p.service = service
	return service, nil
}

// Publish resolves the event the same way the artifact builder does and
// inserts it into the configured calendar. Returns false when the event has
// no usable start date.
func (p *Publisher) Publish(ctx context.Context, event calendar.Event, override *calendar.Override) (*PublishResult, bool, error) {
	r, w, ok := p.builder.Resolve(event, override)
	if !ok {
		return nil, false, nil
	}

	service, err := p.getService(ctx)
	if err != nil {
		return nil, true, err
	}

	inserted, err := service.Events.Insert(p.calendarID, buildCalendarEvent(r, w)).Context(ctx).Do()
	if err != nil {
		return nil, true, fmt.Errorf("failed to insert event: %w", err)
	}

	return &PublishResult{
		EventID:  inserted.Id,
		HTMLLink: inserted.HtmlLink,
	}, true, nil
}

// buildCalendarEvent maps a resolved event onto the API event shape. All-day
// events use civil dates with the exclusive end the window already carries.
func buildCalendarEvent(r calendar.Resolved, w calendar.Window) *gcal.Event {
	ev := &gcal.Event{
		Summary:     r.Title,
		Description: r.Description,
		Location:    r.Location,
	}
	if r.URL != "" {
		ev.Source = &gcal.EventSource{
			Title: r.Title,
			Url:   r.URL,
		}
	}

	if w.AllDay {
		ev.Start = &gcal.EventDateTime{Date: w.Start.Format("2006-01-02")}
		ev.End = &gcal.EventDateTime{Date: w.End.Format("2006-01-02")}
		return ev
	}

	ev.Start = &gcal.EventDateTime{DateTime: w.Start.UTC().Format(time.RFC3339)}
	ev.End = &gcal.EventDateTime{DateTime: w.End.UTC().Format(time.RFC3339)}
	return ev
}
