package cron

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"ototakibim/config"
	bookingRepo "ototakibim/database/repository/booking"
	"ototakibim/services/scheduling"
	"ototakibim/utils"
)

const TypeBookingSweep = "booking:sweep"

// InitLifecycleSweeper runs the booking lifecycle sweeper in background:
// pending bookings left unconfirmed past their TTL are cancelled, and
// pending/confirmed bookings whose date has elapsed are marked no_show.
// Transitions go through the coordinator so the state machine stays the
// single authority.
func InitLifecycleSweeper(coordinator *scheduling.Coordinator, repo bookingRepo.BookingRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	interval := config.AppConfig.SweepIntervalMin
	if interval <= 0 {
		interval = 10
	}

	scheduler := asynq.NewScheduler(redisOpts, nil)
	entrySpec := time.Duration(interval) * time.Minute
	if _, err := scheduler.Register("@every "+entrySpec.String(), asynq.NewTask(TypeBookingSweep, nil)); err != nil {
		log.Fatalf("[LifecycleSweeper] failed to register sweep task: %v", err)
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingSweep, handleBookingSweep(coordinator, repo))

	go func() {
		log.Println("[LifecycleSweeper] Starting scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[LifecycleSweeper] scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic
	go func() {
		log.Println("[LifecycleSweeper] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[LifecycleSweeper] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[LifecycleSweeper] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleBookingSweep(coordinator *scheduling.Coordinator, repo bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		SweepOnce(ctx, coordinator, repo, time.Now())
		return nil
	}
}

// SweepOnce performs a single sweep pass at the given instant. Split out of
// the asynq handler so it can be driven directly in tests.
func SweepOnce(ctx context.Context, coordinator *scheduling.Coordinator, repo bookingRepo.BookingRepository, now time.Time) {
	pendingTTL := time.Duration(config.AppConfig.PendingTTLMin) * time.Minute
	if pendingTTL <= 0 {
		pendingTTL = 30 * time.Minute
	}

	stale, err := repo.ListStalePending(ctx, now.Add(-pendingTTL))
	if err != nil {
		log.Printf("[LifecycleSweeper] failed to list stale pending bookings: %v", err)
	}
	for i := range stale {
		b := &stale[i]
		if _, err := coordinator.Cancel(ctx, b.TenantID, b.ID); err != nil {
			var invalid *scheduling.InvalidTransitionError
			if errors.As(err, &invalid) {
				continue // confirmed or already terminal since the query
			}
			log.Printf("[LifecycleSweeper] failed to expire pending booking %s: %v", b.ID, err)
		}
	}

	elapsed, err := repo.ListElapsed(ctx, today(now))
	if err != nil {
		log.Printf("[LifecycleSweeper] failed to list elapsed bookings: %v", err)
	}
	for i := range elapsed {
		b := &elapsed[i]
		if _, err := coordinator.MarkNoShow(ctx, b.TenantID, b.ID); err != nil {
			var invalid *scheduling.InvalidTransitionError
			if errors.As(err, &invalid) {
				continue
			}
			log.Printf("[LifecycleSweeper] failed to mark booking %s no_show: %v", b.ID, err)
		}
	}
}

// today resolves "today" in the default calendar timezone. Per-tenant
// timezones only shift the boundary by hours; a booking dated strictly before
// today is elapsed in every zone the day after.
func today(now time.Time) string {
	loc, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return now.In(loc).Format(utils.DateLayout)
}
