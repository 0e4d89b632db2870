package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"slotcal/config"
	"slotcal/database"
	timeslotRepo "slotcal/database/repository/timeslot"
	"slotcal/models"
	"slotcal/services/availability"
	"slotcal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Seeds a week of demo availability for a few providers and books roughly a
// third of it, so search and analytics have something to work on.
func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	loc := config.AppConfig.Location()

	database.InitDB()
	defer database.CloseDB(context.Background())

	repo := timeslotRepo.NewMongoTimeSlotRepo()
	if err := repo.EnsureIndexes(); err != nil {
		logger.Fatal("seed: failed to ensure indexes", zap.Error(err))
	}
	svc := availability.NewAvailabilityService(repo, nil, logger, loc)

	providers := []string{"demo-provider-1", "demo-provider-2", "demo-provider-3"}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("slots")
	if _, err := coll.DeleteMany(ctx, bson.M{"providerId": bson.M{"$in": providers}}); err != nil {
		logger.Fatal("seed: failed to clear demo slots", zap.Error(err))
	}

	// Each provider gets a different working pattern.
	days := []models.DistributeRequest{
		{DayStart: "09:00", DayEnd: "17:00", Mode: models.DistributeBySlots, SlotCount: 8, BreakMinutes: 0},
		{DayStart: "08:00", DayEnd: "12:30", Mode: models.DistributeByMinutes, MinutesPerSlot: 45, BreakMinutes: 15},
		{DayStart: "13:00", DayEnd: "21:00", Mode: models.DistributeByMinutes, MinutesPerSlot: 60, BreakMinutes: 10, Type: models.SlotRecurring},
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	today := time.Now().In(loc)
	published, booked := 0, 0

	for i, providerID := range providers {
		for d := 0; d < 7; d++ {
			req := days[i]
			req.Date = today.AddDate(0, 0, d).Format("2006-01-02")

			dto, err := svc.Publish(ctx, providerID, req)
			if err != nil {
				logger.Warn("seed: skipping day", zap.String("provider", providerID), zap.String("date", req.Date), zap.Error(err))
				continue
			}
			published += len(dto.Slots)

			for _, slot := range dto.Slots {
				if rng.Intn(3) != 0 {
					continue
				}
				if _, err := svc.Book(ctx, providerID, slot.ID, uuid.New().String()); err != nil {
					logger.Warn("seed: failed to book slot", zap.String("slot", slot.ID), zap.Error(err))
					continue
				}
				booked++
			}
		}
	}

	fmt.Printf("Seeded %d slots for %d providers (%d booked)\n", published, len(providers), booked)
}
