package search

import (
	"fmt"
	"strings"
	"time"

	"slotcal/models"
)

// BuildDataContext summarises slots as plain text for the AI collaborator.
func BuildDataContext(slots []models.Slot, now time.Time) string {
	var b strings.Builder
	booked := 0
	buckets := map[models.TimeOfDay]int{}
	var first, last time.Time
	for i, s := range slots {
		if s.IsBooked {
			booked++
		}
		buckets[timeOfDay(s.StartTime.Hour())]++
		if i == 0 || s.StartTime.Before(first) {
			first = s.StartTime
		}
		if i == 0 || s.StartTime.After(last) {
			last = s.StartTime
		}
	}

	fmt.Fprintf(&b, "Today: %s (%s)\n", formatDate(now), now.Weekday())
	fmt.Fprintf(&b, "Total slots: %d\n", len(slots))
	fmt.Fprintf(&b, "Available: %d\n", len(slots)-booked)
	fmt.Fprintf(&b, "Booked: %d\n", booked)
	if len(slots) > 0 {
		fmt.Fprintf(&b, "Date range: %s to %s\n", formatDate(first), formatDate(last))
	}
	fmt.Fprintf(&b, "Time of day: morning=%d, afternoon=%d, evening=%d, night=%d",
		buckets[models.Morning], buckets[models.Afternoon], buckets[models.Evening], buckets[models.Night])
	return b.String()
}
