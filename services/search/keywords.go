package search

import (
	"regexp"
	"strings"
	"time"

	"slotcal/models"
)

type fragmentKind int

const (
	fragStatus fragmentKind = iota
	fragTimeOfDay
	fragWeekday
	fragDate
	fragShowAll
)

type fragment struct {
	kind    fragmentKind
	status  models.StatusFilter
	tod     models.TimeOfDay
	weekday time.Weekday
	date    models.DateFilterKind
}

// KeywordMatch is the criteria fragment a query's known tokens map to.
type KeywordMatch struct {
	Criteria      models.FilterSpecification
	MatchedTokens []string
}

// Matched reports whether any known token was found.
func (k KeywordMatch) Matched() bool {
	return len(k.MatchedTokens) > 0
}

var keywordTable = buildKeywordTable()

// Checked by containment so "this week" and "thisweek" both resolve.
var phraseTable = []struct {
	phrase string
	date   models.DateFilterKind
}{
	{"this week", models.DateThisWeek},
	{"next week", models.DateNextWeek},
	{"last week", models.DateLastWeek},
}

func buildKeywordTable() map[string]fragment {
	t := map[string]fragment{
		"morning":   {kind: fragTimeOfDay, tod: models.Morning},
		"am":        {kind: fragTimeOfDay, tod: models.Morning},
		"afternoon": {kind: fragTimeOfDay, tod: models.Afternoon},
		"pm":        {kind: fragTimeOfDay, tod: models.Afternoon},
		"evening":   {kind: fragTimeOfDay, tod: models.Evening},
		"night":     {kind: fragTimeOfDay, tod: models.Night},

		"today":    {kind: fragDate, date: models.DateToday},
		"tomorrow": {kind: fragDate, date: models.DateTomorrow},
		"thisweek": {kind: fragDate, date: models.DateThisWeek},
		"nextweek": {kind: fragDate, date: models.DateNextWeek},
		"lastweek": {kind: fragDate, date: models.DateLastWeek},
		"week":     {kind: fragDate, date: models.DateThisWeek},

		"all": {kind: fragShowAll},
	}
	for _, w := range []string{"available", "free", "open", "vacant", "empty"} {
		t[w] = fragment{kind: fragStatus, status: models.StatusAvailable}
	}
	for _, w := range []string{"booked", "busy", "reserved", "occupied", "taken"} {
		t[w] = fragment{kind: fragStatus, status: models.StatusBooked}
	}
	for name, wd := range weekdayLookup {
		t[name] = fragment{kind: fragWeekday, weekday: wd}
	}
	return t
}

var (
	tokenSplitRe  = regexp.MustCompile(`[^a-z0-9]+`)
	digitLetterRe = regexp.MustCompile(`([0-9])([a-z])`)
	letterDigitRe = regexp.MustCompile(`([a-z])([0-9])`)
)

// tokenize lowercases text and splits it on punctuation, spaces and
// digit/letter boundaries, so "9am" yields "9" and "am".
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	lower = digitLetterRe.ReplaceAllString(lower, "$1 $2")
	lower = letterDigitRe.ReplaceAllString(lower, "$1 $2")

	var tokens []string
	for _, tok := range tokenSplitRe.Split(lower, -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// MatchKeywords maps the known tokens of text to filter fragments.
func MatchKeywords(text string) KeywordMatch {
	var out KeywordMatch
	seen := map[string]bool{}
	add := func(token string, f fragment) {
		applyFragment(&out.Criteria, f)
		if !seen[token] {
			seen[token] = true
			out.MatchedTokens = append(out.MatchedTokens, token)
		}
	}

	lower := strings.ToLower(text)
	phraseHit := false
	for _, p := range phraseTable {
		if strings.Contains(lower, p.phrase) {
			phraseHit = true
		}
	}

	for _, tok := range tokenize(text) {
		if tok == "week" && phraseHit {
			continue
		}
		if f, ok := keywordTable[tok]; ok {
			add(tok, f)
		}
	}

	for _, p := range phraseTable {
		if strings.Contains(lower, p.phrase) {
			add(p.phrase, fragment{kind: fragDate, date: p.date})
		}
	}
	return out
}

func applyFragment(spec *models.FilterSpecification, f fragment) {
	switch f.kind {
	case fragStatus:
		spec.Status = f.status
	case fragTimeOfDay:
		spec.TimeOfDay = f.tod
	case fragWeekday:
		wd := f.weekday
		spec.DayOfWeek = &wd
	case fragDate:
		spec.Date = &models.DateFilter{Kind: f.date}
	case fragShowAll:
		spec.ShowAll = true
	}
}

var complexQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(find|show|get|what|when|how|where)\b`),
	regexp.MustCompile(`(?i)\b(between|from|to|until|after|before)\b`),
	regexp.MustCompile(`(?i)\b\d+\s*(m|min|mins|minute|minutes|h|hr|hrs|hour|hours)\b`),
	regexp.MustCompile(`(?i)\b(long|longer|short|shorter|duration|lasting)\b`),
	regexp.MustCompile(`(?i)(conflict|overlap|double[- ]?book)`),
	regexp.MustCompile(`[?!]`),
	regexp.MustCompile(`(?i)\b(and|or|but|not|except)\b`),
}

// IsComplexQuery reports whether text needs the AI collaborator regardless of keyword hits.
func IsComplexQuery(text string) bool {
	for _, re := range complexQueryPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
