package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"roamly/config"
	"roamly/models"
	"roamly/services/tasks"
	"roamly/services/user"

	"github.com/hibiken/asynq"
)

// InitProfileSyncWorker runs the async worker in background.
func InitProfileSyncWorker(userSvc user.UserService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeProfileSync, handleProfileSyncTask(userSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[ProfileSyncWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ProfileSyncWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ProfileSyncWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleProfileSyncTask(userSvc user.UserService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ProfileSyncPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ProfileSync] invalid payload: %v", err)
			return err
		}

		update := models.ProfileUpdate{}
		if p.Name != "" {
			update.Name = &p.Name
		}
		if p.Phone != "" {
			update.Phone = &p.Phone
		}

		// The sync is best-effort: log and swallow failures so asynq does not
		// retry an update the booking flow has already moved past.
		if err := userSvc.UpdateProfile(p.UserID, update); err != nil {
			log.Printf("[ProfileSync] update failed for user %s: %v", p.UserID, err)
		}
		return nil
	}
}
