package availability

import (
	"fmt"
	"math"

	"slotcal/models"
	"slotcal/services/analytics"
)

// SlotConflictError rejects a publish whose slots collide with each other or
// with slots already on the calendar.
type SlotConflictError struct {
	Conflicts []models.Conflict
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%d slot overlap(s) with existing availability", len(e.Conflicts))
}

// FindOverlaps checks candidates against each other and against existing.
// Overlaps among existing slots are not reported.
func FindOverlaps(candidates, existing []models.Slot) []models.Conflict {
	conflicts := analytics.DetectConflicts(candidates)
	for _, c := range candidates {
		for _, e := range existing {
			if !c.StartTime.Before(e.EndTime) || !e.StartTime.Before(c.EndTime) {
				continue
			}
			first, second := e, c
			if c.StartTime.Before(e.StartTime) {
				first, second = c, e
			}
			end := first.EndTime
			if second.EndTime.Before(end) {
				end = second.EndTime
			}
			conflicts = append(conflicts, models.Conflict{
				First:          first,
				Second:         second,
				OverlapMinutes: int(math.Round(end.Sub(second.StartTime).Minutes())),
			})
		}
	}
	return conflicts
}
