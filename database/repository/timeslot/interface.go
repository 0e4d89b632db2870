package timeslotRepo

import (
	"context"
	"errors"
	"time"

	"slotcal/config"
	"slotcal/database"
	"slotcal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrSlotNotFound    = errors.New("slot not found")
	ErrSlotBooked      = errors.New("slot is booked")
	ErrBookingMismatch = errors.New("slot is not held by this booking")
)

type TimeSlotRepository interface {
	CreateMany(ctx context.Context, slots []models.Slot) ([]string, error)
	DeleteByID(ctx context.Context, providerID, slotID string) error
	GetByID(ctx context.Context, providerID, slotID string) (*models.Slot, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Slot, error)
	ListInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Slot, error)
	MarkBooked(ctx context.Context, providerID, slotID, bookingID string) error
	ReleaseBooking(ctx context.Context, providerID, slotID, bookingID string) error
	EnsureIndexes() error
}

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
	loc  *time.Location
}

// NewMongoTimeSlotRepo constructs a new MongoDB TimeSlotRepository.
func NewMongoTimeSlotRepo() TimeSlotRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoTimeSlotRepo{
		coll: db.Collection("slots"),
		loc:  config.AppConfig.Location(),
	}
}

// Mongo hands times back in UTC; the calendar reads hours and weekdays in its own zone.
func (r *mongoTimeSlotRepo) localize(slots []models.Slot) []models.Slot {
	for i := range slots {
		slots[i].StartTime = slots[i].StartTime.In(r.loc)
		slots[i].EndTime = slots[i].EndTime.In(r.loc)
	}
	return slots
}
