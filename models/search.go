package models

import "time"

// StatusFilter narrows slots by booking state.
type StatusFilter string

const (
	StatusAvailable StatusFilter = "available"
	StatusBooked    StatusFilter = "booked"
)

// TimeOfDay buckets a slot by its start hour.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"   // 06:00-11:59
	Afternoon TimeOfDay = "afternoon" // 12:00-17:59
	Evening   TimeOfDay = "evening"   // 18:00-21:59
	Night     TimeOfDay = "night"     // 22:00-05:59
	AllDay    TimeOfDay = "allday"
)

// DateFilterKind selects which calendar window a DateFilter describes.
type DateFilterKind string

const (
	DateToday    DateFilterKind = "today"
	DateTomorrow DateFilterKind = "tomorrow"
	DateThisWeek DateFilterKind = "thisweek"
	DateNextWeek DateFilterKind = "nextweek"
	DateLastWeek DateFilterKind = "lastweek"
	DateSpecific DateFilterKind = "specific"
	DateRange    DateFilterKind = "range"
)

// DateSubtypeMonth widens a specific date to its whole calendar month.
const DateSubtypeMonth = "month"

// DateFilter is a tagged variant; Date is used by "specific", Start/End by "range".
// Date, Start and End accept YYYY-MM-DD or RFC 3339.
type DateFilter struct {
	Kind    DateFilterKind `json:"type"`
	Date    string         `json:"date,omitempty"`
	Subtype string         `json:"subtype,omitempty"`
	Start   string         `json:"start,omitempty"`
	End     string         `json:"end,omitempty"`
}

// DurationFilter bounds the slot length in minutes. Nil bounds are open.
type DurationFilter struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// FilterSpecification is built per query. Every set field narrows the result (AND);
// Keywords are advisory and never empty a non-empty result.
type FilterSpecification struct {
	Status    StatusFilter    `json:"status,omitempty"`
	TimeOfDay TimeOfDay       `json:"timeFilter,omitempty"`
	DayOfWeek *time.Weekday   `json:"dayOfWeek,omitempty"`
	Date      *DateFilter     `json:"dateFilter,omitempty"`
	Duration  *DurationFilter `json:"durationFilter,omitempty"`
	Keywords  []string        `json:"keywords,omitempty"`
	ShowAll   bool            `json:"showAll,omitempty"`
}

// IsEmpty reports whether the specification constrains nothing.
func (f FilterSpecification) IsEmpty() bool {
	return f.Status == "" && f.TimeOfDay == "" && f.DayOfWeek == nil &&
		f.Date == nil && f.Duration == nil && len(f.Keywords) == 0
}

// Merge copies every field set on other into f; other wins on conflicts.
func (f *FilterSpecification) Merge(other FilterSpecification) {
	if other.Status != "" {
		f.Status = other.Status
	}
	if other.TimeOfDay != "" {
		f.TimeOfDay = other.TimeOfDay
	}
	if other.DayOfWeek != nil {
		wd := *other.DayOfWeek
		f.DayOfWeek = &wd
	}
	if other.Date != nil {
		d := *other.Date
		f.Date = &d
	}
	if other.Duration != nil {
		d := *other.Duration
		f.Duration = &d
	}
	if len(other.Keywords) > 0 {
		f.Keywords = append(f.Keywords, other.Keywords...)
	}
	if other.ShowAll {
		f.ShowAll = true
	}
}

// CalendarView is the density a calendar UI should switch to.
type CalendarView string

const (
	ViewDay   CalendarView = "day"
	ViewWeek  CalendarView = "week"
	ViewMonth CalendarView = "month"
)

// Navigation tells a calendar UI where to jump after a search.
type Navigation struct {
	Date string       `json:"date"`
	View CalendarView `json:"view"`
}

// SearchResult is what a slot search hands back to the caller.
type SearchResult struct {
	Results        []Slot      `json:"results"`
	Interpretation string      `json:"interpretation"`
	Suggestions    []string    `json:"suggestions"`
	Navigation     *Navigation `json:"navigation,omitempty"`
	MatchedTokens  []string    `json:"matchedTokens,omitempty"`
	Sequence       uint64      `json:"sequence"`
	Stale          bool        `json:"stale,omitempty"`
}

// SearchRequest is the payload of the slot search endpoint.
type SearchRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"sessionId,omitempty"`
}

// SearchContext is the per-session state kept between queries.
type SearchContext struct {
	LastQuery   string   `json:"lastQuery"`
	LastMatched []string `json:"lastMatched"`
}
