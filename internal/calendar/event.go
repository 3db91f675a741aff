// Package calendar builds shareable calendar artifacts (Google Calendar deep
// links and RFC 5545 ICS documents) from archive event records.
package calendar

import "strings"

// Event is the loosely-typed event record shape as stored in the archive
// backend. All fields are optional strings; Start/End hold a calendar date
// (YYYY-MM-DD) or a full date-time string, StartTime/EndTime hold informal
// time strings which may themselves encode a range (e.g. "18-22").
type Event struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	City        string `json:"city,omitempty"`
	URL         string `json:"url,omitempty"`
	Website     string `json:"website,omitempty"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
}

// Override is a partial Event applied on top of a base record at build time.
// Only provided fields take precedence (PATCH semantics).
type Override struct {
	ID          *string `json:"id,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	City        *string `json:"city,omitempty"`
	URL         *string `json:"url,omitempty"`
	Website     *string `json:"website,omitempty"`
	Start       *string `json:"start,omitempty"`
	End         *string `json:"end,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
}

// Resolved is the merged, fallback-applied view of an event that the builder
// operates on.
type Resolved struct {
	ID          string
	Title       string
	Description string
	Location    string
	URL         string
	Start       string
	End         string
	StartTime   string
	EndTime     string
}

// Merge applies an optional override onto a base event and resolves the
// documented fallback chains: location falls back to city, url falls back to
// website, title falls back to "Event".
func Merge(event Event, override *Override) Resolved {
	merged := event
	if override != nil {
		if override.ID != nil {
			merged.ID = *override.ID
		}
		if override.Title != nil {
			merged.Title = *override.Title
		}
		if override.Description != nil {
			merged.Description = *override.Description
		}
		if override.Location != nil {
			merged.Location = *override.Location
		}
		if override.City != nil {
			merged.City = *override.City
		}
		if override.URL != nil {
			merged.URL = *override.URL
		}
		if override.Website != nil {
			merged.Website = *override.Website
		}
		if override.Start != nil {
			merged.Start = *override.Start
		}
		if override.End != nil {
			merged.End = *override.End
		}
		if override.StartTime != nil {
			merged.StartTime = *override.StartTime
		}
		if override.EndTime != nil {
			merged.EndTime = *override.EndTime
		}
	}

	r := Resolved{
		ID:          merged.ID,
		Title:       merged.Title,
		Description: merged.Description,
		Location:    merged.Location,
		URL:         merged.URL,
		Start:       strings.TrimSpace(merged.Start),
		End:         strings.TrimSpace(merged.End),
		StartTime:   strings.TrimSpace(merged.StartTime),
		EndTime:     strings.TrimSpace(merged.EndTime),
	}

	if r.Title == "" {
		r.Title = "Event"
	}
	if r.Location == "" {
		r.Location = merged.City
	}
	if r.URL == "" {
		r.URL = merged.Website
	}

	return r
}
