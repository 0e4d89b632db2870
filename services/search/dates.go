package search

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"slotcal/models"
)

// DateMatch is an absolute date found in free text.
type DateMatch struct {
	Date    string // YYYY-MM-DD
	Phrase  string
	Subtype string // models.DateSubtypeMonth for month references
}

type datePattern struct {
	re                   *regexp.Regexp
	year, month, day     int // submatch indexes
	monthIsName, ordinal bool
}

// Tried in order; the first candidate that survives the round-trip check wins.
var specificDatePatterns = []datePattern{
	{re: regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`), month: 1, day: 2, year: 3},
	{re: regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`), year: 1, month: 2, day: 3},
	{re: regexp.MustCompile(`(?i)\b(` + monthPattern + `|` + monthAbbrev + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`), month: 1, day: 2, year: 3, monthIsName: true},
	{re: regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthPattern + `|` + monthAbbrev + `)\.?,?\s+(\d{4})\b`), day: 1, month: 2, year: 3, monthIsName: true},
}

var (
	monthYearRe     = regexp.MustCompile(`(?i)\b(` + monthPattern + `)\s+(\d{4})\b`)
	monthAbbrYearRe = regexp.MustCompile(`(?i)\b(` + monthAbbrev + `)\.?\s+(\d{4})\b`)
	bareMonthRe     = regexp.MustCompile(`(?i)\b(` + monthPattern + `)\b`)
	bareMonthAbbrRe = regexp.MustCompile(`(?i)\b(` + monthAbbrev + `)\b`)
	dayNumberRe     = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)\b`)
)

// ParseSpecificDate finds the first valid absolute date in text.
func ParseSpecificDate(text string) (DateMatch, bool) {
	for _, p := range specificDatePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			year, err := strconv.Atoi(m[p.year])
			if err != nil {
				continue
			}
			day, err := strconv.Atoi(m[p.day])
			if err != nil {
				continue
			}
			var month time.Month
			if p.monthIsName {
				month = monthLookup[strings.ToLower(m[p.month])]
			} else {
				n, err := strconv.Atoi(m[p.month])
				if err != nil {
					continue
				}
				month = time.Month(n)
			}
			if d, ok := validDate(year, month, day); ok {
				return DateMatch{Date: formatDate(d), Phrase: m[0]}, true
			}
		}
	}
	return DateMatch{}, false
}

// ParseMonthReference finds a whole-month reference ("October", "Oct 2025") and
// returns the first day of that month. A missing year defaults to now's year.
// Bare month names are ignored when the text also carries a day number like "9th".
func ParseMonthReference(text string, now time.Time) (DateMatch, bool) {
	for _, re := range []*regexp.Regexp{monthYearRe, monthAbbrYearRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			year, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			return monthMatch(year, monthLookup[strings.ToLower(m[1])], m[0]), true
		}
	}
	if dayNumberRe.MatchString(text) {
		return DateMatch{}, false
	}
	if name, ok := findBareMonth(text); ok {
		return monthMatch(now.Year(), monthLookup[strings.ToLower(name)], name), true
	}
	return DateMatch{}, false
}

// modalFollowers are words after which "may" is the verb, as in "may I book".
var modalFollowers = map[string]bool{
	"i": true, "we": true, "you": true, "he": true, "she": true, "they": true, "it": true,
	"be": true, "have": true, "not": true, "need": true, "also": true, "still": true,
}

var nextWordRe = regexp.MustCompile(`^\W+(\w+)`)

// findBareMonth returns the first month name in text that is not "may" used as a verb.
func findBareMonth(text string) (string, bool) {
	for _, re := range []*regexp.Regexp{bareMonthRe, bareMonthAbbrRe} {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			name := text[loc[2]:loc[3]]
			if strings.EqualFold(name, "may") {
				if next := nextWordRe.FindStringSubmatch(text[loc[1]:]); next != nil && modalFollowers[strings.ToLower(next[1])] {
					continue
				}
			}
			return name, true
		}
	}
	return "", false
}

// IsMonthReferenceQuery reports whether text reads as a whole-month query.
func IsMonthReferenceQuery(text string) bool {
	if monthYearRe.MatchString(text) || monthAbbrYearRe.MatchString(text) {
		return true
	}
	_, hasMonth := findBareMonth(text)
	return hasMonth && !dayNumberRe.MatchString(text)
}

func monthMatch(year int, month time.Month, phrase string) DateMatch {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return DateMatch{Date: formatDate(first), Phrase: phrase, Subtype: models.DateSubtypeMonth}
}

// validDate rejects values time.Date would normalise, e.g. February 30.
func validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
