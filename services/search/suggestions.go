package search

import (
	"time"

	"slotcal/models"
)

const (
	maxSuggestions       = 12
	maxSimpleSuggestions = 8
)

var (
	timeOfDayWords = []string{"morning", "afternoon", "evening"}
	statusWords    = map[string]bool{
		"available": true, "free": true, "open": true, "vacant": true, "empty": true,
		"booked": true, "busy": true, "reserved": true, "occupied": true, "taken": true,
	}
	orderedWeekdays = []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
	}
)

// suggestionSet keeps insertion order, drops duplicates and stops at its cap.
type suggestionSet struct {
	limit int
	seen  map[string]bool
	items []string
}

func newSuggestionSet(limit int) *suggestionSet {
	return &suggestionSet{limit: limit, seen: map[string]bool{}}
}

func (s *suggestionSet) add(values ...string) {
	for _, v := range values {
		if len(s.items) >= s.limit {
			return
		}
		if v == "" || s.seen[v] {
			continue
		}
		s.seen[v] = true
		s.items = append(s.items, v)
	}
}

// GenerateSuggestions proposes follow-up queries for the current slots. Suggestions
// chained from the last matched keywords come first, then the base set, day and
// temporal combinations, and finally terms that only make sense for this data.
// The data terms always keep their place under the cap.
func GenerateSuggestions(slots []models.Slot, lastMatched []string, now time.Time) []string {
	data := dataSuggestions(slots)
	set := newSuggestionSet(maxSuggestions - len(data))

	for _, token := range lastMatched {
		set.add(chainedSuggestions(token)...)
	}

	set.add("all", "available", "today", "tomorrow")
	set.add(timeOfDayWords...)

	today := dayName(now.Weekday())
	tomorrow := dayName(now.AddDate(0, 0, 1).Weekday())
	set.add(today+" morning", today+" afternoon")
	set.add("this "+today, "next "+tomorrow)

	set.limit = maxSuggestions
	set.add(data...)
	return set.items
}

// GenerateSimpleSuggestions is the short list used when a query fell back to basic search.
func GenerateSimpleSuggestions(slots []models.Slot, now time.Time) []string {
	set := newSuggestionSet(maxSimpleSuggestions)
	set.add("available", "today", "tomorrow", "morning", "afternoon")
	set.add(dataSuggestions(slots)...)
	set.add("this week", "next "+dayName(now.AddDate(0, 0, 1).Weekday()))
	return set.items
}

func dataSuggestions(slots []models.Slot) []string {
	var booked, weekend bool
	for _, s := range slots {
		if s.IsBooked {
			booked = true
		}
		if wd := s.StartTime.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = true
		}
	}
	var out []string
	if booked {
		out = append(out, "booked", "busy")
	}
	if weekend {
		out = append(out, "saturday", "sunday")
	}
	return out
}

func chainedSuggestions(token string) []string {
	var out []string
	switch {
	case isWeekdayToken(token):
		day := dayName(weekdayLookup[token])
		for _, tod := range timeOfDayWords {
			out = append(out, day+" "+tod)
		}
		out = append(out, "this "+day, "next "+day)
	case isTimeOfDayToken(token):
		tod := string(keywordTable[token].tod)
		out = append(out, "today "+tod, "tomorrow "+tod)
		for _, wd := range orderedWeekdays {
			out = append(out, dayName(wd)+" "+tod)
		}
	case statusWords[token]:
		out = append(out, token+" today", token+" tomorrow", token+" this week", token+" next week")
	}
	return out
}

func isWeekdayToken(token string) bool {
	_, ok := weekdayLookup[token]
	return ok
}

func isTimeOfDayToken(token string) bool {
	f, ok := keywordTable[token]
	return ok && f.kind == fragTimeOfDay
}
