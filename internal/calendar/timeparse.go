package calendar

import (
	"regexp"
	"strconv"
	"strings"
)

// Clock is a parsed time of day.
type Clock struct {
	Hour   int
	Minute int
}

// rangeSplitRe separates the two halves of an informal time range such as
// "18-22", "18:00–22:30" or "6pm to 10pm".
var rangeSplitRe = regexp.MustCompile(`\s*(?:[-–—]|[Tt][Oo]\b)\s*`)

// clockRe extracts a one-or-two-digit hour and optional up-to-two-digit
// minute from the front of a normalized token.
var clockRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{1,2}))?`)

// ParseClock normalizes a single informal time token ("18", "6pm", "18.30",
// "9:15 am") into a Clock. It returns nil when no hour can be recovered;
// malformed input is never an error.
func ParseClock(token string) *Clock {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.ReplaceAll(t, " ", "")
	t = strings.ReplaceAll(t, ".", ":")

	meridiem := ""
	switch {
	case strings.HasSuffix(t, "am"):
		meridiem = "am"
		t = strings.TrimSuffix(t, "am")
	case strings.HasSuffix(t, "pm"):
		meridiem = "pm"
		t = strings.TrimSuffix(t, "pm")
	}

	m := clockRe.FindStringSubmatch(t)
	if m == nil {
		return nil
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch meridiem {
	case "pm":
		if hour >= 1 && hour <= 11 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 {
		return nil
	}

	return &Clock{Hour: hour, Minute: minute}
}

// ParseTimeRange parses an informal time string that may encode a range. When
// a range separator is present both halves are normalized independently;
// otherwise the whole string is a single start time with no end. Either
// result may be nil when its half cannot be parsed.
func ParseTimeRange(raw string) (start, end *Clock) {
	parts := rangeSplitRe.Split(raw, 2)
	if len(parts) == 2 {
		return ParseClock(parts[0]), ParseClock(parts[1])
	}
	return ParseClock(raw), nil
}
