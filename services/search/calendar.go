package search

import (
	"strings"
	"time"

	"slotcal/models"
)

// DateLayout is the only date string format exchanged with callers.
const DateLayout = "2006-01-02"

var weekdayLookup = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var monthLookup = buildMonthLookup()

// buildMonthLookup maps full names and three-letter abbreviations, plus "sept".
func buildMonthLookup() map[string]time.Month {
	m := map[string]time.Month{"sept": time.September}
	for month := time.January; month <= time.December; month++ {
		name := strings.ToLower(month.String())
		m[name] = month
		m[name[:3]] = month
	}
	return m
}

const (
	weekdayPattern = `sunday|sun|monday|mon|tuesday|tue|wednesday|wed|thursday|thu|friday|fri|saturday|sat`
	monthPattern   = `january|february|march|april|may|june|july|august|september|october|november|december`
	monthAbbrev    = `jan|feb|mar|apr|may|jun|jul|aug|sept|sep|oct|nov|dec`
)

func dayName(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func addDays(t time.Time, days int) time.Time {
	return midnight(t).AddDate(0, 0, days)
}

// weekStart returns the Sunday that opens t's week.
func weekStart(t time.Time) time.Time {
	return addDays(t, -int(t.Weekday()))
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// timeOfDay buckets an hour: lower bound inclusive, upper bound exclusive, night wraps midnight.
func timeOfDay(hour int) models.TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return models.Morning
	case hour >= 12 && hour < 18:
		return models.Afternoon
	case hour >= 18 && hour < 22:
		return models.Evening
	default:
		return models.Night
	}
}

// parseCalendarValue accepts YYYY-MM-DD (midnight in loc) or RFC 3339.
func parseCalendarValue(value string, loc *time.Location) (time.Time, bool, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, true, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, true
	}
	return time.Time{}, false, false
}
