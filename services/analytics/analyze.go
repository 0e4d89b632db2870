// Package analytics derives scheduling state from a slot snapshot.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"slotcal/models"
)

const (
	peakHourLimit      = 3
	bookingWindowLimit = 5
)

// Analyze computes occupancy, conflicts, peak hours, booking windows and view
// hints for slots. It never fails; an empty input yields zero metrics.
func Analyze(slots []models.Slot) models.CalendarAnalytics {
	total := len(slots)
	booked := 0
	for _, s := range slots {
		if s.IsBooked {
			booked++
		}
	}

	a := models.CalendarAnalytics{
		TotalSlots:            total,
		BookedSlots:           booked,
		OccupancyRate:         OccupancyRate(booked, total),
		Conflicts:             DetectConflicts(slots),
		PeakHours:             PeakHours(slots, peakHourLimit),
		OptimalBookingWindows: BookingWindows(slots, bookingWindowLimit),
	}
	a.RecommendedView = RecommendView(len(a.Conflicts), a.OccupancyRate, total)
	a.DensityAdjustment = densityAdjustment(total)
	a.FilterSuggestions = filterSuggestions(booked, total, len(a.PeakHours) > 0)
	return a
}

// OccupancyRate is the booked share as a whole percentage, 0 for no slots.
func OccupancyRate(booked, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(booked) / float64(total) * 100))
}

// DetectConflicts reports every overlapping pair. Slots are swept in start
// order while tracking those still open, so a long slot is compared against
// every later slot it covers, not only its neighbour. First always starts no
// later than Second.
func DetectConflicts(slots []models.Slot) []models.Conflict {
	conflicts := make([]models.Conflict, 0)
	if len(slots) < 2 {
		return conflicts
	}

	sorted := append([]models.Slot(nil), slots...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].StartTime.Equal(sorted[j].StartTime) {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		}
		return sorted[i].EndTime.Before(sorted[j].EndTime)
	})

	var open []models.Slot
	for _, s := range sorted {
		still := open[:0]
		for _, o := range open {
			if o.EndTime.After(s.StartTime) {
				still = append(still, o)
			}
		}
		open = still

		for _, o := range open {
			end := o.EndTime
			if s.EndTime.Before(end) {
				end = s.EndTime
			}
			conflicts = append(conflicts, models.Conflict{
				First:          o,
				Second:         s,
				OverlapMinutes: int(math.Round(end.Sub(s.StartTime).Minutes())),
			})
		}
		open = append(open, s)
	}
	return conflicts
}

// PeakHours ranks start hours by slot count; ties go to the earlier hour.
func PeakHours(slots []models.Slot, limit int) []models.PeakHour {
	counts := map[int]int{}
	for _, s := range slots {
		counts[s.StartTime.Hour()]++
	}

	peaks := make([]models.PeakHour, 0, len(counts))
	for hour, n := range counts {
		peaks = append(peaks, models.PeakHour{
			Hour:  hour,
			Count: n,
			Label: fmt.Sprintf("%d:00 - %d:59", hour, hour),
		})
	}
	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].Count != peaks[j].Count {
			return peaks[i].Count > peaks[j].Count
		}
		return peaks[i].Hour < peaks[j].Hour
	})
	if len(peaks) > limit {
		peaks = peaks[:limit]
	}
	return peaks
}

// BookingWindows ranks (weekday, hour) pairs by slot count.
func BookingWindows(slots []models.Slot, limit int) []models.BookingWindow {
	type key struct{ day, hour int }
	counts := map[key]int{}
	for _, s := range slots {
		counts[key{int(s.StartTime.Weekday()), s.StartTime.Hour()}]++
	}

	windows := make([]models.BookingWindow, 0, len(counts))
	for k, n := range counts {
		windows = append(windows, models.BookingWindow{
			DayOfWeek: k.day,
			Hour:      k.hour,
			Count:     n,
			Label:     fmt.Sprintf("%s at %d:00", time.Weekday(k.day), k.hour),
		})
	}
	sort.Slice(windows, func(i, j int) bool {
		a, b := windows[i], windows[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		return a.Hour < b.Hour
	})
	if len(windows) > limit {
		windows = windows[:limit]
	}
	return windows
}

// RecommendView picks the calendar density. Rules are checked in order and
// the first match wins; a ">50 slots means month" rule would never fire
// after the ">20" rule, so it is left out.
func RecommendView(conflicts, occupancy, total int) models.CalendarView {
	switch {
	case conflicts > 5:
		return models.ViewDay
	case occupancy > 80 && total > 30:
		return models.ViewMonth
	case total > 20:
		return models.ViewWeek
	case total > 10:
		return models.ViewWeek
	default:
		return models.ViewDay
	}
}

func densityAdjustment(total int) string {
	if total > 30 {
		return "high"
	}
	return "medium"
}

func filterSuggestions(booked, total int, hasPeaks bool) []models.FilterSuggestion {
	out := make([]models.FilterSuggestion, 0, 3)
	if booked*2 > total {
		out = append(out, models.FilterSuggestion{Type: string(models.StatusBooked)})
	}
	if (total-booked)*2 > total {
		out = append(out, models.FilterSuggestion{Type: string(models.StatusAvailable)})
	}
	if hasPeaks {
		out = append(out, models.FilterSuggestion{MinDuration: 30, MaxDuration: 120})
	}
	return out
}
