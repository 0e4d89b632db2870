package search

import (
	"time"

	"slotcal/models"
)

// fixedNow is Wednesday 2025-10-15 10:00 UTC.
var fixedNow = time.Date(2025, time.October, 15, 10, 0, 0, 0, time.UTC)

func slotAt(id, start string, minutes int, booked bool) models.Slot {
	st, err := time.Parse("2006-01-02T15:04", start)
	if err != nil {
		panic(err)
	}
	s := models.Slot{
		ID:         id,
		ProviderID: "prov-1",
		StartTime:  st,
		EndTime:    st.Add(time.Duration(minutes) * time.Minute),
		IsBooked:   booked,
		Type:       models.SlotOneOff,
	}
	if booked {
		s.BookingID = "bk-" + id
	}
	return s
}

func ids(slots []models.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.ID)
	}
	return out
}

func intPtr(n int) *int { return &n }

func weekdayPtr(wd time.Weekday) *time.Weekday { return &wd }
