package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeAnalyticsRefresh = "analytics:refresh"

// Bursts of slot edits for one provider collapse into a single refresh.
const refreshUniqueWindow = 30 * time.Second

type AnalyticsRefreshPayload struct {
	ProviderID string `json:"providerId"`
}

func NewAnalyticsRefreshTask(providerID string, delay time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(AnalyticsRefreshPayload{ProviderID: providerID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAnalyticsRefresh, b)
	opts := []asynq.Option{
		asynq.ProcessIn(delay),
		asynq.MaxRetry(3),
		asynq.Unique(refreshUniqueWindow),
	}
	return task, opts, nil
}

func ParseAnalyticsRefresh(task *asynq.Task) (AnalyticsRefreshPayload, error) {
	var p AnalyticsRefreshPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid analytics refresh payload: %w", err)
	}
	if p.ProviderID == "" {
		return p, fmt.Errorf("analytics refresh payload has no provider")
	}
	return p, nil
}
