package dateparse

import (
	"strings"
	"testing"
	"time"
)

// Fixed reference time: Wednesday, 2026-02-18 12:00:00 UTC
var testNow = time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestParseDue_Absolute(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-03-01T17:00:00Z", at(2026, 3, 1, 17, 0)},
		{"2026-03-01T17:00", at(2026, 3, 1, 17, 0)},
		{"2026-03-01T17:00:30", time.Date(2026, 3, 1, 17, 0, 30, 0, time.UTC)},
		{"2026-03-01 08:15", at(2026, 3, 1, 8, 15)},
		{"2026-03-01", at(2026, 3, 1, 23, 59)},
		{"2026-03-01 09:30", at(2026, 3, 1, 9, 30)},
	}
	for _, tt := range tests {
		got, err := ParseDueFrom(tt.input, testNow)
		if err != nil {
			t.Errorf("ParseDueFrom(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDueFrom(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDue_OffsetZone(t *testing.T) {
	got, err := ParseDueFrom("2026-03-01T17:00:00+02:00", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if want := at(2026, 3, 1, 15, 0); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDue_Relative(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"+0d", testNow},
		{"+3h", at(2026, 2, 18, 15, 0)},
		{"+1d", at(2026, 2, 19, 12, 0)},
		{"+10d", at(2026, 2, 28, 12, 0)},
		{"+2w", at(2026, 3, 4, 12, 0)},
		{"+1m", at(2026, 3, 18, 12, 0)},
	}
	for _, tt := range tests {
		got, err := ParseDueFrom(tt.input, testNow)
		if err != nil {
			t.Errorf("ParseDueFrom(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDueFrom(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDue_Keywords(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"today", at(2026, 2, 18, 23, 59)},
		{"Tomorrow", at(2026, 2, 19, 23, 59)},
		{"tomorrow 09:30", at(2026, 2, 19, 9, 30)},
		{"next-week", at(2026, 2, 23, 23, 59)},
		{"next-month", at(2026, 3, 1, 23, 59)},
		{"  today 18:00  ", at(2026, 2, 18, 18, 0)},
	}
	for _, tt := range tests {
		got, err := ParseDueFrom(tt.input, testNow)
		if err != nil {
			t.Errorf("ParseDueFrom(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDueFrom(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDue_DayNames(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"thursday", at(2026, 2, 19, 23, 59)},
		{"friday 17:00", at(2026, 2, 20, 17, 0)},
		{"monday", at(2026, 2, 23, 23, 59)},
		// Same weekday advances a full week.
		{"wednesday", at(2026, 2, 25, 23, 59)},
	}
	for _, tt := range tests {
		got, err := ParseDueFrom(tt.input, testNow)
		if err != nil {
			t.Errorf("ParseDueFrom(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDueFrom(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDue_Errors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"", "empty"},
		{"   ", "empty"},
		{"someday", "unrecognized"},
		{"+5x", "unknown relative unit"},
		{"+d", "unrecognized"},
		{"+-1d", "unrecognized"},
		{"tomorrow noon", "invalid time"},
		{"2026-13-45", "unrecognized"},
	}
	for _, tt := range tests {
		_, err := ParseDueFrom(tt.input, testNow)
		if err == nil {
			t.Errorf("ParseDueFrom(%q): expected error", tt.input)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("ParseDueFrom(%q) error = %q, want it to contain %q", tt.input, err, tt.wantErr)
		}
	}
}

func TestParseDue_UsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2026, 2, 18, 12, 0, 0, 0, loc)
	got, err := ParseDueFrom("2026-02-20 09:00", now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Location() != loc || got.Hour() != 9 {
		t.Errorf("got %v, want 09:00 in %v", got, loc)
	}
}
