package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	timeslotRepo "slotcal/database/repository/timeslot"
	"slotcal/models"
	"slotcal/services/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AvailabilityService manages a provider's published slots.
type AvailabilityService interface {
	Preview(req models.DistributeRequest) ([]models.Slot, error)
	Publish(ctx context.Context, providerID string, req models.DistributeRequest) (*models.ProviderSlotsDTO, error)
	List(ctx context.Context, providerID string, from, to *time.Time) ([]models.Slot, error)
	Delete(ctx context.Context, providerID, slotID string) error
	Book(ctx context.Context, providerID, slotID, bookingID string) (*models.Slot, error)
	Release(ctx context.Context, providerID, slotID, bookingID string) (*models.Slot, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

const refreshDelay = 2 * time.Second

type DefaultAvailabilityService struct {
	Repo     timeslotRepo.TimeSlotRepository
	Queue    TaskEnqueuer
	Logger   *zap.Logger
	Location *time.Location
}

func NewAvailabilityService(repo timeslotRepo.TimeSlotRepository, queue TaskEnqueuer, logger *zap.Logger, loc *time.Location) *DefaultAvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &DefaultAvailabilityService{Repo: repo, Queue: queue, Logger: logger, Location: loc}
}

// Preview distributes a day without saving anything.
func (s *DefaultAvailabilityService) Preview(req models.DistributeRequest) ([]models.Slot, error) {
	return Distribute(req, s.Location)
}

func (s *DefaultAvailabilityService) Publish(ctx context.Context, providerID string, req models.DistributeRequest) (*models.ProviderSlotsDTO, error) {
	slots, err := Distribute(req, s.Location)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, invalid("working window %s-%s is too short for a %d minute slot", req.DayStart, req.DayEnd, MinSlotMinutes)
	}

	dayStart := slots[0].StartTime
	day := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), 0, 0, 0, 0, dayStart.Location())
	// Slots starting the evening before may still run into this day.
	existing, err := s.Repo.ListInRange(ctx, providerID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load existing slots: %w", err)
	}
	if conflicts := FindOverlaps(slots, existing); len(conflicts) > 0 {
		return nil, &SlotConflictError{Conflicts: conflicts}
	}

	for i := range slots {
		slots[i].ID = uuid.New().String()
		slots[i].ProviderID = providerID
	}
	if _, err := s.Repo.CreateMany(ctx, slots); err != nil {
		return nil, fmt.Errorf("save slots: %w", err)
	}

	s.Logger.Info("Published slots",
		zap.String("providerId", providerID),
		zap.String("date", req.Date),
		zap.Int("count", len(slots)),
	)
	s.scheduleRefresh(ctx, providerID)
	return &models.ProviderSlotsDTO{ProviderID: providerID, Slots: slots}, nil
}

// List returns the provider's slots, narrowed to [from, to) when both are given.
func (s *DefaultAvailabilityService) List(ctx context.Context, providerID string, from, to *time.Time) ([]models.Slot, error) {
	if from != nil && to != nil {
		if !from.Before(*to) {
			return nil, invalid("from must be before to")
		}
		return s.Repo.ListInRange(ctx, providerID, *from, *to)
	}
	return s.Repo.ListByProvider(ctx, providerID)
}

func (s *DefaultAvailabilityService) Delete(ctx context.Context, providerID, slotID string) error {
	if err := s.Repo.DeleteByID(ctx, providerID, slotID); err != nil {
		return err
	}
	s.scheduleRefresh(ctx, providerID)
	return nil
}

func (s *DefaultAvailabilityService) Book(ctx context.Context, providerID, slotID, bookingID string) (*models.Slot, error) {
	if bookingID == "" {
		return nil, invalid("bookingId is required")
	}
	if err := s.Repo.MarkBooked(ctx, providerID, slotID, bookingID); err != nil {
		return nil, err
	}
	s.scheduleRefresh(ctx, providerID)
	return s.Repo.GetByID(ctx, providerID, slotID)
}

func (s *DefaultAvailabilityService) Release(ctx context.Context, providerID, slotID, bookingID string) (*models.Slot, error) {
	if bookingID == "" {
		return nil, invalid("bookingId is required")
	}
	if err := s.Repo.ReleaseBooking(ctx, providerID, slotID, bookingID); err != nil {
		return nil, err
	}
	s.scheduleRefresh(ctx, providerID)
	return s.Repo.GetByID(ctx, providerID, slotID)
}

// scheduleRefresh queues an analytics warm-up. Failing to queue only delays
// analytics until the next read, so it is logged and swallowed.
func (s *DefaultAvailabilityService) scheduleRefresh(ctx context.Context, providerID string) {
	if s.Queue == nil {
		return
	}
	task, opts, err := tasks.NewAnalyticsRefreshTask(providerID, refreshDelay)
	if err != nil {
		s.Logger.Error("failed to build analytics refresh task", zap.Error(err))
		return
	}
	if _, err := s.Queue.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		s.Logger.Warn("failed to enqueue analytics refresh", zap.String("providerId", providerID), zap.Error(err))
	}
}
