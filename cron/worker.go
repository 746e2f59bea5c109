package cron

import (
	"context"
	"fmt"
	"time"

	"apptbot/config"
	"apptbot/services/booking"
	"apptbot/services/tasks"
	"apptbot/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitScheduleWorker runs the async scheduling worker in background.
func InitScheduleWorker(scheduler booking.AppointmentScheduler, outcomes tasks.OutcomeStore) *asynq.Server {
	logger := utils.GetLogger().With(zap.String("component", "scheduleWorker"))

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: config.AppConfig.WorkerConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeScheduleAppointment, HandleScheduleTask(scheduler, outcomes, logger))

	go monitorRedisConnection(logger)

	go func() {
		logger.Info("starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				break
			}
			logger.Error("failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("max worker start attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}

// HandleScheduleTask runs one request through the scheduler and stores its outcome.
// A failed booking is a recorded outcome, not a task failure.
func HandleScheduleTask(scheduler booking.AppointmentScheduler, outcomes tasks.OutcomeStore, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseSchedulePayload(task)
		if err != nil {
			logger.Error("invalid schedule payload", zap.Error(err))
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}

		conf, err := scheduler.Schedule(ctx, p.Text)
		out := booking.Outcome(conf, err)
		out.JobID = p.JobID

		if err := outcomes.Set(ctx, &out); err != nil {
			logger.Error("failed to store outcome", zap.String("jobID", p.JobID), zap.Error(err))
			return err
		}
		logger.Info("schedule job finished",
			zap.String("jobID", p.JobID), zap.String("status", string(out.Status)), zap.String("code", out.Code))
		return nil
	}
}

// monitorRedisConnection pings the queue Redis periodically to detect failures at runtime.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("queue redis connection lost", zap.Error(err))
		}
	}
}
