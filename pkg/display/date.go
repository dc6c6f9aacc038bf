package display

import (
	"strings"
	"time"
)

// Placeholder is rendered in place of a missing or unparseable date.
const Placeholder = "—"

// DateLayout is the canonical calendar-date layout used on the wire.
const DateLayout = "2006-01-02"

const displayLayout = "02 Jan 2006"

var dateLayouts = []string{
	DateLayout,
	"2006-1-2",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses raw as a calendar date and returns midnight UTC of that
// day. Timestamps are reduced to the calendar day in their own offset. The
// second return value is false when raw is blank or matches no layout.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return StartOfDay(t), true
		}
	}
	return time.Time{}, false
}

// CanonicalDate normalises raw to YYYY-MM-DD.
func CanonicalDate(raw string) (string, bool) {
	t, ok := ParseDate(raw)
	if !ok {
		return "", false
	}
	return t.Format(DateLayout), true
}

// StartOfDay drops the time of day, keeping the calendar day of t in its own
// location, and returns it as midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders raw as "02 Jan 2006", or Placeholder when raw is absent
// or does not parse.
func FormatDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return Placeholder
	}
	return t.Format(displayLayout)
}

// FormatTime renders the calendar day of t, or Placeholder for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return StartOfDay(t).Format(displayLayout)
}

// PartitionByDate splits items into those dated strictly before the calendar
// day of ref and the rest. A visit dated today, or with a date that does not
// parse, is future. Both slices keep the input order.
func PartitionByDate[T any](items []T, dateOf func(T) string, ref time.Time) (past, future []T) {
	today := StartOfDay(ref)
	for _, it := range items {
		if d, ok := ParseDate(dateOf(it)); ok && d.Before(today) {
			past = append(past, it)
			continue
		}
		future = append(future, it)
	}
	return past, future
}

// BirthYear estimates the year of birth from an age in years.
func BirthYear(age int, now time.Time) int {
	return now.Year() - age
}
