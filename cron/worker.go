package cron

import (
	"context"
	"fmt"
	"time"

	"slotcal/config"
	"slotcal/models"
	"slotcal/services/tasks"
	"slotcal/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// SlotLister is the read side of the slot repository the worker needs.
type SlotLister interface {
	ListByProvider(ctx context.Context, providerID string) ([]models.Slot, error)
}

// AnalyticsWarmer precomputes analytics for a slot snapshot.
type AnalyticsWarmer interface {
	Warm(ctx context.Context, slots []models.Slot) error
}

// QueueRedisOpt is the asynq connection shared by the worker and the enqueuing client.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitAnalyticsWorker runs the analytics warm-up worker in background.
func InitAnalyticsWorker(repo SlotLister, warmer AnalyticsWarmer) *asynq.Server {
	logger := utils.GetLogger()
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAnalyticsRefresh, HandleAnalyticsRefresh(repo, warmer, logger))

	go func() {
		logger.Info("Starting analytics worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("analytics worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Error("analytics worker gave up; analytics will be computed on demand")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleAnalyticsRefresh loads a provider's slots and warms the analytics cache.
func HandleAnalyticsRefresh(repo SlotLister, warmer AnalyticsWarmer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseAnalyticsRefresh(task)
		if err != nil {
			logger.Warn("dropping analytics refresh", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		slots, err := repo.ListByProvider(ctx, p.ProviderID)
		if err != nil {
			return fmt.Errorf("load slots for %s: %w", p.ProviderID, err)
		}
		if err := warmer.Warm(ctx, slots); err != nil {
			return fmt.Errorf("warm analytics for %s: %w", p.ProviderID, err)
		}
		logger.Debug("analytics warmed", zap.String("providerId", p.ProviderID), zap.Int("slots", len(slots)))
		return nil
	}
}
