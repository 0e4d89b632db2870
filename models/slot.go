package models

import (
	"encoding/json"
	"errors"
	"math"
	"time"
)

// SlotType tags how a slot was authored. It only affects display.
type SlotType string

const (
	SlotOneOff    SlotType = "one_off"
	SlotRecurring SlotType = "recurring"
)

// Slot is a bookable interval published by a provider.
type Slot struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	StartTime  time.Time `bson:"startTime" json:"startTime"`
	EndTime    time.Time `bson:"endTime" json:"endTime"`
	IsBooked   bool      `bson:"isBooked" json:"isBooked"`
	BookingID  string    `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Type       SlotType  `bson:"type" json:"type"`
}

// Duration returns the slot length in whole minutes, derived from the timestamps.
func (s Slot) Duration() int {
	return int(math.Round(s.EndTime.Sub(s.StartTime).Minutes()))
}

// ExactMinutes returns the unrounded slot length.
func (s Slot) ExactMinutes() float64 {
	return s.EndTime.Sub(s.StartTime).Minutes()
}

// Validate checks the invariants the store relies on.
func (s Slot) Validate() error {
	if !s.EndTime.After(s.StartTime) {
		return errors.New("slot end time must be after start time")
	}
	if s.IsBooked && s.BookingID == "" {
		return errors.New("booked slot requires a booking id")
	}
	if !s.IsBooked && s.BookingID != "" {
		return errors.New("open slot must not carry a booking id")
	}
	switch s.Type {
	case "", SlotOneOff, SlotRecurring:
	default:
		return errors.New("unknown slot type " + string(s.Type))
	}
	return nil
}

// MarshalJSON adds the derived duration so clients never compute it themselves.
func (s Slot) MarshalJSON() ([]byte, error) {
	type alias Slot
	return json.Marshal(struct {
		alias
		Duration int `json:"duration"`
	}{alias: alias(s), Duration: s.Duration()})
}
