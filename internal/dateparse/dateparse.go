// Package dateparse parses the due dates accepted by `tmc add --due`:
// absolute timestamps, dates, and relative expressions like "+3d" or
// "friday 09:30".
package dateparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// A date given without a clock time is due at the end of that day.
const (
	endOfDayHour   = 23
	endOfDayMinute = 59
)

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseDue parses input relative to time.Now().
func ParseDue(input string) (time.Time, error) {
	return ParseDueFrom(input, time.Now())
}

// ParseDueFrom parses a due date relative to now. Times without a zone are
// taken in now's location.
//
// Supported formats:
//   - Timestamps: "2026-03-01T17:00:00Z", "2026-03-01T17:00", "2026-03-01 17:00"
//   - Dates: "2026-03-01"
//   - Relative: "+3h", "+7d", "+2w", "+1m"
//   - Day names: "monday", "tuesday", etc. (next occurrence)
//   - Keywords: "today", "tomorrow", "next-week", "next-month"
//
// Dates, day names and keywords accept a trailing clock time, as in
// "tomorrow 09:30"; without one they mean 23:59 that day.
func ParseDueFrom(input string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date input")
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return t, nil
		}
	}

	input = strings.ToLower(raw)

	// Relative offsets: +Nh, +Nd, +Nw, +Nm
	if strings.HasPrefix(input, "+") {
		return parseOffset(input, now)
	}

	day, clock := input, ""
	if i := strings.LastIndexByte(input, ' '); i > 0 {
		day, clock = strings.TrimSpace(input[:i]), input[i+1:]
	}
	hour, minute := endOfDayHour, endOfDayMinute
	if clock != "" {
		t, err := time.Parse("15:04", clock)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q in %q (use HH:MM)", clock, input)
		}
		hour, minute = t.Hour(), t.Minute()
	}

	date, err := parseDay(day, now)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, now.Location()), nil
}

func parseOffset(input string, now time.Time) (time.Time, error) {
	if len(input) < 3 {
		return time.Time{}, fmt.Errorf("unrecognized date format: %q", input)
	}
	suffix := input[len(input)-1]
	n, err := strconv.Atoi(input[1 : len(input)-1])
	if err != nil || n < 0 {
		return time.Time{}, fmt.Errorf("unrecognized date format: %q", input)
	}
	switch suffix {
	case 'h':
		return now.Add(time.Duration(n) * time.Hour), nil
	case 'd':
		return now.AddDate(0, 0, n), nil
	case 'w':
		return now.AddDate(0, 0, n*7), nil
	case 'm':
		return now.AddDate(0, n, 0), nil
	}
	return time.Time{}, fmt.Errorf("unknown relative unit %q in %q (use h, d, w, or m)", string(suffix), input)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseDay resolves the calendar day part of input.
func parseDay(day string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", day, now.Location()); err == nil {
		return t, nil
	}

	switch day {
	case "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "next-week":
		// Next Monday
		daysUntilMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7
		if daysUntilMonday == 0 {
			daysUntilMonday = 7
		}
		return now.AddDate(0, 0, daysUntilMonday), nil
	case "next-month":
		year, month, _ := now.Date()
		return time.Date(year, month+1, 1, 0, 0, 0, 0, now.Location()), nil
	}

	if target, ok := weekdays[day]; ok {
		daysAhead := (int(target) - int(now.Weekday()) + 7) % 7
		if daysAhead == 0 {
			daysAhead = 7
		}
		return now.AddDate(0, 0, daysAhead), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", day)
}
