// Package availability authors provider slots: it spreads a working day into
// evenly sized slots and publishes them without overlapping existing ones.
package availability

import (
	"errors"
	"fmt"
	"math"
	"time"

	"slotcal/models"
)

// MinSlotMinutes is the shortest slot Distribute will generate.
const MinSlotMinutes = 15

var ErrInvalidRequest = errors.New("invalid availability request")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// Distribute fills the window [DayStart, DayEnd) of req.Date with equally long
// slots separated by BreakMinutes. Windows too short for a single slot yield
// no slots. Returned slots carry no ID or provider.
func Distribute(req models.DistributeRequest, loc *time.Location) ([]models.Slot, error) {
	day, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return nil, invalid("date %q is not YYYY-MM-DD", req.Date)
	}
	start, err := clock(day, req.DayStart)
	if err != nil {
		return nil, err
	}
	end, err := clock(day, req.DayEnd)
	if err != nil {
		return nil, err
	}
	if req.BreakMinutes < 0 {
		return nil, invalid("breakMinutes must not be negative")
	}
	slotType := req.Type
	if slotType == "" {
		slotType = models.SlotOneOff
	}
	if slotType != models.SlotOneOff && slotType != models.SlotRecurring {
		return nil, invalid("unknown slot type %q", slotType)
	}

	working := end.Sub(start).Minutes()
	brk := float64(req.BreakMinutes)

	var count int
	switch req.Mode {
	case models.DistributeBySlots:
		if req.SlotCount <= 0 {
			return nil, invalid("slotCount must be positive")
		}
		count = req.SlotCount
	case models.DistributeByMinutes:
		if req.MinutesPerSlot <= 0 {
			return nil, invalid("minutesPerSlot must be positive")
		}
		count = slotsFitting(working, float64(req.MinutesPerSlot), brk)
	default:
		return nil, invalid("mode must be %q or %q", models.DistributeBySlots, models.DistributeByMinutes)
	}

	if working < MinSlotMinutes {
		return []models.Slot{}, nil
	}

	perSlot := slotMinutes(working, brk, count)
	if perSlot < MinSlotMinutes {
		count = slotsFitting(working, MinSlotMinutes, brk)
		perSlot = slotMinutes(working, brk, count)
	}

	// Truncating to whole seconds keeps the last slot inside the window.
	length := time.Duration(perSlot * float64(time.Minute)).Truncate(time.Second)
	gap := time.Duration(req.BreakMinutes) * time.Minute

	slots := make([]models.Slot, 0, count)
	cursor := start
	for i := 0; i < count; i++ {
		slots = append(slots, models.Slot{
			StartTime: cursor,
			EndTime:   cursor.Add(length),
			Type:      slotType,
		})
		cursor = cursor.Add(length + gap)
	}
	return slots, nil
}

// slotsFitting is how many slots of target minutes, with breaks between
// them, fit in working minutes. Never less than one.
func slotsFitting(working, target, brk float64) int {
	n := int(math.Floor((working + brk) / (target + brk)))
	if n < 1 {
		return 1
	}
	return n
}

func slotMinutes(working, brk float64, count int) float64 {
	return (working - float64(count-1)*brk) / float64(count)
}

// clock places an "HH:MM" wall time on day.
func clock(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, invalid("time %q is not HH:MM", hhmm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
