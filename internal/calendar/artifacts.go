package calendar

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	googleCalendarBase = "https://calendar.google.com/calendar/render"

	utcStampLayout = "20060102T150405Z"
	dateOnlyLayout = "20060102"
)

// Artifacts holds the two calendar outputs for one resolved event. They are
// always produced together: a nil *Artifacts means no usable start date.
type Artifacts struct {
	GoogleURL string `json:"google_url"`
	ICS       string `json:"ics"`
}

// Builder converts event records into calendar artifacts. It is stateless and
// safe for concurrent use; the clock and UID source are injectable so output
// is deterministic under test.
type Builder struct {
	loc             *time.Location
	displayTimezone string
	prodID          string
	uidDomain       string
	defaultDuration time.Duration
	now             func() time.Time
	newUID          func() string
}

// BuilderConfig holds the builder tunables. Zero values fall back to the
// archive defaults.
type BuilderConfig struct {
	// Location interprets naive local dates and times before conversion to
	// UTC. Defaults to UTC.
	Location *time.Location
	// DisplayTimezone is the ctz parameter pinned on Google Calendar links.
	// It only affects rendering in Google's UI, not the encoded instants.
	DisplayTimezone string
	// ProdID is the ICS product identifier line value.
	ProdID string
	// UIDDomain is the domain tag suffixed onto every event UID.
	UIDDomain string
	// DefaultDuration is applied to timed events with no recoverable end.
	DefaultDuration time.Duration
	// Now supplies the DTSTAMP instant. Defaults to time.Now.
	Now func() time.Time
	// NewUID supplies the fallback UID token for events without an ID.
	NewUID func() string
}

// NewBuilder creates a Builder, applying defaults for unset config fields.
func NewBuilder(cfg BuilderConfig) *Builder {
	b := &Builder{
		loc:             cfg.Location,
		displayTimezone: cfg.DisplayTimezone,
		prodID:          cfg.ProdID,
		uidDomain:       cfg.UIDDomain,
		defaultDuration: cfg.DefaultDuration,
		now:             cfg.Now,
		newUID:          cfg.NewUID,
	}
	if b.loc == nil {
		b.loc = time.UTC
	}
	if b.displayTimezone == "" {
		b.displayTimezone = "Europe/Berlin"
	}
	if b.prodID == "" {
		b.prodID = "-//eos archive//event calendar//EN"
	}
	if b.uidDomain == "" {
		b.uidDomain = "eosarchive.app"
	}
	if b.defaultDuration <= 0 {
		b.defaultDuration = 2 * time.Hour
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.newUID == nil {
		b.newUID = func() string { return uuid.NewString() }
	}
	return b
}

// Window is the resolved time span of an event. For timed events Start and
// End are instants; for all-day events they are civil dates in the builder's
// location, with End already exclusive per RFC 5545.
type Window struct {
	AllDay bool
	Start  time.Time
	End    time.Time
}

// Build merges the event with the optional override and produces both
// artifacts. It returns nil when no start date is resolvable; that is a
// normal "not enough information" outcome, not an error.
func (b *Builder) Build(event Event, override *Override) *Artifacts {
	r, w, ok := b.Resolve(event, override)
	if !ok {
		return nil
	}

	return &Artifacts{
		GoogleURL: b.googleURL(r, w),
		ICS:       b.icsDocument(b.eventLines(r, w)),
	}
}

// Resolve merges the event with the optional override and resolves its time
// window. ok is false when no start date is recoverable.
func (b *Builder) Resolve(event Event, override *Override) (Resolved, Window, bool) {
	r := Merge(event, override)
	w, ok := b.resolveWindow(r)
	return r, w, ok
}

// resolveWindow applies the timed/all-day decision and end-time precedence
// rules to a resolved event.
func (b *Builder) resolveWindow(r Resolved) (Window, bool) {
	if r.Start == "" {
		return Window{}, false
	}

	startDate, ok := b.parseDate(r.Start)
	if !ok {
		return Window{}, false
	}

	var rangeStart, rangeEnd *Clock
	if r.StartTime != "" {
		rangeStart, rangeEnd = ParseTimeRange(r.StartTime)
	}
	var endClock *Clock
	if r.EndTime != "" {
		endClock, _ = ParseTimeRange(r.EndTime)
	}

	startInstant, timed := b.parseDateTime(r.Start)
	if !timed && rangeStart != nil {
		startInstant = combine(startDate, rangeStart)
		timed = true
	}

	endDate := startDate
	endDateGiven := false
	if r.End != "" {
		if d, ok := b.parseDate(r.End); ok {
			endDate = d
			endDateGiven = true
		}
	}

	if !timed {
		// All-day: DTEND is exclusive, one calendar day past the end date.
		return Window{
			AllDay: true,
			Start:  startDate,
			End:    endDate.AddDate(0, 0, 1),
		}, true
	}

	var endInstant time.Time
	switch {
	case endClock != nil:
		endInstant = combine(endDate, endClock)
	case rangeEnd != nil:
		endInstant = combine(endDate, rangeEnd)
	default:
		if endDateGiven {
			if dt, hasTime := b.parseDateTime(r.End); hasTime {
				endInstant = dt
				break
			}
		}
		endInstant = startInstant.Add(b.defaultDuration)
	}

	return Window{Start: startInstant, End: endInstant}, true
}

// parseDate extracts the calendar date part of a date or date-time string as
// midnight in the builder's location.
func (b *Builder) parseDate(s string) (time.Time, bool) {
	if len(s) < 10 {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", s[:10], b.loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// dateTimeLayouts are the full date-time shapes accepted for Start/End.
// Naive layouts are interpreted in the builder's location.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseDateTime reports whether the value carries a time component, and if
// so, the instant it denotes.
func (b *Builder) parseDateTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, b.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// combine attaches a clock time to a civil date, seconds fixed at zero.
func combine(date time.Time, c *Clock) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// googleURL assembles the Google Calendar render deep link.
func (b *Builder) googleURL(r Resolved, w Window) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", r.Title)
	q.Set("dates", datesParam(w))
	q.Set("ctz", b.displayTimezone)
	if r.Description != "" {
		q.Set("details", r.Description)
	}
	if r.Location != "" {
		q.Set("location", r.Location)
	}
	if r.URL != "" {
		q.Set("sprop", r.URL)
	}
	return googleCalendarBase + "?" + q.Encode()
}

// datesParam formats the start/end pair for the Google Calendar dates query
// parameter.
func datesParam(w Window) string {
	if w.AllDay {
		return w.Start.Format(dateOnlyLayout) + "/" + w.End.Format(dateOnlyLayout)
	}
	return w.Start.UTC().Format(utcStampLayout) + "/" + w.End.UTC().Format(utcStampLayout)
}

// eventLines emits the VEVENT block for one resolved event.
func (b *Builder) eventLines(r Resolved, w Window) []string {
	uid := r.ID
	if uid == "" {
		uid = b.newUID()
	}

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + uid + "@" + b.uidDomain,
		"DTSTAMP:" + b.now().UTC().Format(utcStampLayout),
	}

	if w.AllDay {
		lines = append(lines,
			"DTSTART;VALUE=DATE:"+w.Start.Format(dateOnlyLayout),
			"DTEND;VALUE=DATE:"+w.End.Format(dateOnlyLayout),
		)
	} else {
		lines = append(lines,
			"DTSTART:"+w.Start.UTC().Format(utcStampLayout),
			"DTEND:"+w.End.UTC().Format(utcStampLayout),
		)
	}

	lines = append(lines, "SUMMARY:"+escapeText(r.Title))
	if r.Description != "" {
		lines = append(lines, "DESCRIPTION:"+escapeText(r.Description))
	}
	if r.Location != "" {
		lines = append(lines, "LOCATION:"+escapeText(r.Location))
	}
	if r.URL != "" {
		lines = append(lines, "URL:"+r.URL)
	}

	return append(lines, "END:VEVENT")
}

// icsDocument wraps VEVENT lines in the calendar preamble and joins with
// CRLF per RFC 5545.
func (b *Builder) icsDocument(eventLines []string) string {
	lines := make([]string, 0, len(eventLines)+6)
	lines = append(lines,
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:"+b.prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	)
	lines = append(lines, eventLines...)
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

// escapeReplacer applies RFC 5545 TEXT escaping. Backslash must be first so
// later escapes are not doubled.
var escapeReplacer = strings.NewReplacer(
	"\\", "\\\\",
	"\r\n", "\\n",
	"\n", "\\n",
	"\r", "\\n",
	",", "\\,",
	";", "\\;",
)

func escapeText(s string) string {
	return escapeReplacer.Replace(s)
}
