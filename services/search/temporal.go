package search

import (
	"regexp"
	"strings"
	"time"
)

// Temporal is the relative qualifier in phrases like "next friday".
type Temporal string

const (
	TemporalThis Temporal = "this"
	TemporalNext Temporal = "next"
	TemporalLast Temporal = "last"
)

// TemporalMatch is a resolved "this/next/last <weekday>" phrase.
type TemporalMatch struct {
	Temporal Temporal
	Weekday  time.Weekday
	Date     string // YYYY-MM-DD
	Phrase   string
}

var temporalRe = regexp.MustCompile(`(?i)\b(this|next|last)\s+(` + weekdayPattern + `)\b`)

// ResolveTemporalReference maps a relative weekday to a calendar date.
// Weeks run Sunday to Saturday; "this" stays inside the current week and may
// therefore land before today.
func ResolveTemporalReference(temporal Temporal, weekday time.Weekday, today time.Time) time.Time {
	current := int(today.Weekday())
	target := int(weekday)
	switch temporal {
	case TemporalNext:
		return addDays(today, (7-current)+target)
	case TemporalLast:
		return addDays(today, -(current + (7 - target)))
	default:
		return addDays(today, target-current)
	}
}

// ParseTemporalReference finds the first relative weekday phrase in text.
func ParseTemporalReference(text string, today time.Time) (TemporalMatch, bool) {
	m := temporalRe.FindStringSubmatch(text)
	if m == nil {
		return TemporalMatch{}, false
	}
	temporal := Temporal(strings.ToLower(m[1]))
	weekday := weekdayLookup[strings.ToLower(m[2])]
	return TemporalMatch{
		Temporal: temporal,
		Weekday:  weekday,
		Date:     formatDate(ResolveTemporalReference(temporal, weekday, today)),
		Phrase:   m[0],
	}, true
}
