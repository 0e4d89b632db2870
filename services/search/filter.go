package search

import (
	"strings"
	"time"

	"slotcal/models"
)

// ApplyFilters narrows slots by every set field of spec, in order, and never
// reorders or mutates them. now anchors relative date filters and supplies the
// calendar location for date-only values.
func ApplyFilters(slots []models.Slot, spec models.FilterSpecification, now time.Time) []models.Slot {
	out := keep(slots, func(s models.Slot) bool { return true })

	switch spec.Status {
	case models.StatusAvailable:
		out = keep(out, func(s models.Slot) bool { return !s.IsBooked })
	case models.StatusBooked:
		out = keep(out, func(s models.Slot) bool { return s.IsBooked })
	}

	if spec.TimeOfDay != "" && spec.TimeOfDay != models.AllDay {
		tod := spec.TimeOfDay
		out = keep(out, func(s models.Slot) bool { return timeOfDay(s.StartTime.Hour()) == tod })
	}

	if spec.DayOfWeek != nil {
		wd := *spec.DayOfWeek
		out = keep(out, func(s models.Slot) bool { return s.StartTime.Weekday() == wd })
	}

	if spec.Date != nil {
		if match, ok := dateMatcher(*spec.Date, now); ok {
			out = keep(out, match)
		}
	}

	if spec.Duration != nil {
		bounds := *spec.Duration
		out = keep(out, func(s models.Slot) bool {
			minutes := s.ExactMinutes()
			if bounds.Min != nil && minutes < float64(*bounds.Min) {
				return false
			}
			if bounds.Max != nil && minutes > float64(*bounds.Max) {
				return false
			}
			return true
		})
	}

	return ApplyKeywordFilter(out, spec.Keywords)
}

// ApplyKeywordFilter keeps slots whose searchable text contains any keyword.
// Keywords are hints: if they would remove every slot, slots is returned unchanged.
func ApplyKeywordFilter(slots []models.Slot, keywords []string) []models.Slot {
	var needles []string
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			needles = append(needles, k)
		}
	}
	if len(needles) == 0 {
		return slots
	}

	filtered := keep(slots, func(s models.Slot) bool {
		haystack := searchableText(s)
		for _, n := range needles {
			if strings.Contains(haystack, n) {
				return true
			}
		}
		return false
	})
	if len(filtered) == 0 {
		return slots
	}
	return filtered
}

func searchableText(s models.Slot) string {
	status := "available"
	if s.IsBooked {
		status = "booked"
	}
	parts := []string{
		s.ID,
		status,
		dayName(s.StartTime.Weekday()),
		string(timeOfDay(s.StartTime.Hour())),
		s.StartTime.Format("Monday, January 2, 2006"),
		s.StartTime.Format(DateLayout),
		s.StartTime.Format("3:04 PM"),
		s.EndTime.Format("3:04 PM"),
		"slots",
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// dateMatcher builds the predicate for one DateFilter variant. Unknown kinds
// or unparseable dates impose no constraint.
func dateMatcher(f models.DateFilter, now time.Time) (func(models.Slot) bool, bool) {
	loc := now.Location()
	today := midnight(now)

	halfOpen := func(from time.Time, days int) func(models.Slot) bool {
		to := from.AddDate(0, 0, days)
		return func(s models.Slot) bool {
			return !s.StartTime.Before(from) && s.StartTime.Before(to)
		}
	}

	switch f.Kind {
	case models.DateToday:
		return halfOpen(today, 1), true
	case models.DateTomorrow:
		return halfOpen(addDays(today, 1), 1), true
	case models.DateThisWeek:
		return halfOpen(weekStart(today), 7), true
	case models.DateNextWeek:
		return halfOpen(weekStart(today).AddDate(0, 0, 7), 7), true
	case models.DateLastWeek:
		return halfOpen(weekStart(today).AddDate(0, 0, -7), 7), true
	case models.DateSpecific:
		day, _, ok := parseCalendarValue(f.Date, loc)
		if !ok {
			return nil, false
		}
		if f.Subtype == models.DateSubtypeMonth {
			return func(s models.Slot) bool {
				return s.StartTime.Year() == day.Year() && s.StartTime.Month() == day.Month()
			}, true
		}
		return halfOpen(midnight(day), 1), true
	case models.DateRange:
		start, _, okStart := parseCalendarValue(f.Start, loc)
		end, dateOnly, okEnd := parseCalendarValue(f.End, loc)
		if !okStart && !okEnd {
			return nil, false
		}
		if okEnd && dateOnly {
			// A bare end date covers that whole day.
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return func(s models.Slot) bool {
			if okStart && s.StartTime.Before(start) {
				return false
			}
			if okEnd && s.StartTime.After(end) {
				return false
			}
			return true
		}, true
	}
	return nil, false
}

func keep(slots []models.Slot, pred func(models.Slot) bool) []models.Slot {
	out := make([]models.Slot, 0, len(slots))
	for _, s := range slots {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}
