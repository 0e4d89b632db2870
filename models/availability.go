package models

// DistributionMode picks whether the target is a slot count or a slot length.
type DistributionMode string

const (
	DistributeBySlots   DistributionMode = "slots"
	DistributeByMinutes DistributionMode = "minutes"
)

// DistributeRequest is the payload for spreading one working day into slots.
type DistributeRequest struct {
	Date           string           `json:"date" binding:"required"`     // e.g. "2025-10-17"
	DayStart       string           `json:"dayStart" binding:"required"` // "HH:MM"
	DayEnd         string           `json:"dayEnd" binding:"required"`   // "HH:MM"
	Mode           DistributionMode `json:"mode" binding:"required"`
	SlotCount      int              `json:"slotCount,omitempty"`
	MinutesPerSlot int              `json:"minutesPerSlot,omitempty"`
	BreakMinutes   int              `json:"breakMinutes,omitempty"`
	Type           SlotType         `json:"type,omitempty"`
}

// BookSlotRequest links a booking to an open slot.
type BookSlotRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

// ProviderSlotsDTO is the provider-facing view returned after availability changes.
type ProviderSlotsDTO struct {
	ProviderID string `json:"providerId"`
	Slots      []Slot `json:"slots"`
}
