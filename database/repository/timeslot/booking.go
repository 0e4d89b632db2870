package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// MarkBooked claims an open slot for bookingID. The filter on isBooked makes
// concurrent claims race safely: only one update matches.
func (r *mongoTimeSlotRepo) MarkBooked(ctx context.Context, providerID, slotID, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "providerId": providerID, "isBooked": false}
	update := bson.M{"$set": bson.M{"isBooked": true, "bookingId": bookingID}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to book slot: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(ctx, providerID, slotID, ErrSlotBooked)
	}
	return nil
}

// ReleaseBooking reopens a slot held by bookingID.
func (r *mongoTimeSlotRepo) ReleaseBooking(ctx context.Context, providerID, slotID, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "providerId": providerID, "isBooked": true, "bookingId": bookingID}
	update := bson.M{
		"$set":   bson.M{"isBooked": false},
		"$unset": bson.M{"bookingId": ""},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(ctx, providerID, slotID, ErrBookingMismatch)
	}
	return nil
}
