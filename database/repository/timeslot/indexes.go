package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the slots collection.
func (r *mongoTimeSlotRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// window listings
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("provider_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "isBooked", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("provider_booked_start_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}
	return nil
}
