package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"roamly/config"

	"github.com/hibiken/asynq"
)

// TypeProfileSync is the task type for best-effort profile synchronization.
const TypeProfileSync = "profile:sync"

// ProfileSyncPayload carries the form values that differed from the stored
// profile when the traveller completed the user-info step.
type ProfileSyncPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

// NewProfileSyncTask builds the asynq task for a payload.
func NewProfileSyncTask(p ProfileSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile sync payload: %w", err)
	}
	return asynq.NewTask(TypeProfileSync, data), nil
}

// Enqueuer enqueues background tasks from the wizard without binding it to a
// concrete queue client.
type Enqueuer interface {
	EnqueueProfileSync(ctx context.Context, p ProfileSyncPayload) error
}

// AsynqEnqueuer implements Enqueuer on top of an asynq client.
type AsynqEnqueuer struct {
	client *asynq.Client
}

// NewAsynqEnqueuer builds the enqueuer from app config.
func NewAsynqEnqueuer() *AsynqEnqueuer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	return &AsynqEnqueuer{client: client}
}

// EnqueueProfileSync queues one sync attempt. Failures are the caller's to
// log; the booking flow never waits on the outcome.
func (e *AsynqEnqueuer) EnqueueProfileSync(ctx context.Context, p ProfileSyncPayload) error {
	task, err := NewProfileSyncTask(p)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(0)); err != nil {
		return fmt.Errorf("failed to enqueue profile sync: %w", err)
	}
	return nil
}

// Close releases the underlying queue connection.
func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
