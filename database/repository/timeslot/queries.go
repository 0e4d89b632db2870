package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"slotcal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoTimeSlotRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Slot, error) {
	return r.find(ctx, bson.M{"providerId": providerID})
}

// ListInRange returns slots starting in [from, to).
func (r *mongoTimeSlotRepo) ListInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Slot, error) {
	return r.find(ctx, bson.M{
		"providerId": providerID,
		"startTime":  bson.M{"$gte": from, "$lt": to},
	})
}

func (r *mongoTimeSlotRepo) find(ctx context.Context, filter bson.M) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []models.Slot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return r.localize(slots), nil
}
