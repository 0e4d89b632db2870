package timeslotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotcal/models"
)

func (r *mongoTimeSlotRepo) CreateMany(ctx context.Context, slots []models.Slot) ([]string, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(slots))
	ids := make([]string, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		ids[i] = slot.ID
		docs[i] = slot
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("failed to insert slots: %w", err)
	}
	return ids, nil
}

// DeleteByID removes an open slot; booked slots must be released first.
func (r *mongoTimeSlotRepo) DeleteByID(ctx context.Context, providerID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "providerId": providerID, "isBooked": false}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	if res.DeletedCount == 0 {
		return r.explainMiss(ctx, providerID, slotID, ErrSlotBooked)
	}
	return nil
}

func (r *mongoTimeSlotRepo) GetByID(ctx context.Context, providerID, slotID string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Slot
	err := r.coll.FindOne(ctx, bson.M{"id": slotID, "providerId": providerID}).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &r.localize([]models.Slot{slot})[0], nil
}

// explainMiss turns an unmatched conditional write into ErrSlotNotFound or ifExists.
func (r *mongoTimeSlotRepo) explainMiss(ctx context.Context, providerID, slotID string, ifExists error) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"id": slotID, "providerId": providerID})
	if err != nil {
		return fmt.Errorf("failed to look up slot: %w", err)
	}
	if n == 0 {
		return ErrSlotNotFound
	}
	return ifExists
}
