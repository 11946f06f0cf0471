package cron

import (
	"context"
	"log"
	"time"

	"tutorlink/config"
	"tutorlink/services/tuition"

	"github.com/hibiken/asynq"
)

const TypeTuitionExpire = "tuition:expire"

// How often the stale-open sweep is enqueued.
const sweepInterval = time.Hour

// InitExpiryWorker runs the async worker in background. It periodically
// enqueues a sweep task that cancels open tuitions whose TTL has lapsed.
func InitExpiryWorker(svc tuition.TuitionService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeTuitionExpire, handleExpireTask(svc))

	go enqueueSweeps(redisOpts)

	go func() {
		log.Println("[ExpiryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleExpireTask(svc tuition.TuitionService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		swept, err := svc.ExpireStaleTuitions(ctx)
		if err != nil {
			log.Printf("[ExpiryWorker] sweep failed: %v", err)
			return err
		}
		if swept > 0 {
			log.Printf("[ExpiryWorker] cancelled %d stale tuitions", swept)
		}
		return nil
	}
}

// enqueueSweeps drops a sweep task on the queue once per interval. The
// task itself is idempotent, so a duplicate enqueue after a restart is
// harmless.
func enqueueSweeps(redisOpts asynq.RedisClientOpt) {
	client := asynq.NewClient(redisOpts)
	defer client.Close()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		task := asynq.NewTask(TypeTuitionExpire, nil)
		if _, err := client.Enqueue(task, asynq.MaxRetry(3)); err != nil {
			log.Printf("[ExpiryWorker] failed to enqueue sweep: %v", err)
		}
		<-ticker.C
	}
}
