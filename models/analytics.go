package models

// Conflict is a pair of slots whose intervals overlap.
type Conflict struct {
	First          Slot `json:"first"`
	Second         Slot `json:"second"`
	OverlapMinutes int  `json:"overlapMinutes"`
}

// PeakHour is an hour of day ranked by how many slots start in it.
type PeakHour struct {
	Hour  int    `json:"hour"`
	Count int    `json:"count"`
	Label string `json:"label"` // e.g. "9:00 - 9:59"
}

// BookingWindow is a weekday/hour pair ranked by slot concentration.
type BookingWindow struct {
	DayOfWeek int    `json:"dayOfWeek"`
	Hour      int    `json:"hour"`
	Count     int    `json:"count"`
	Label     string `json:"label"` // e.g. "Friday at 9:00"
}

// FilterSuggestion is a filter the UI may offer as a one-click refinement.
type FilterSuggestion struct {
	Type        string `json:"type,omitempty"`
	MinDuration int    `json:"minDuration,omitempty"`
	MaxDuration int    `json:"maxDuration,omitempty"`
}

// CalendarAnalytics is the derived scheduling state of one slot snapshot.
type CalendarAnalytics struct {
	TotalSlots            int                `json:"totalSlots"`
	BookedSlots           int                `json:"bookedSlots"`
	OccupancyRate         int                `json:"occupancyRate"`
	Conflicts             []Conflict         `json:"conflicts"`
	PeakHours             []PeakHour         `json:"peakHours"`
	OptimalBookingWindows []BookingWindow    `json:"optimalBookingWindows"`
	RecommendedView       CalendarView       `json:"recommendedView"`
	DensityAdjustment     string             `json:"densityAdjustment"`
	FilterSuggestions     []FilterSuggestion `json:"filterSuggestions"`
}
