package scheduler

import (
	"context"
	"fmt"

	"estate_portal_backend/platform/config"
	"estate_portal_backend/platform/logger"
	"estate_portal_backend/platform/metrics"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TourReminderHandler re-checks a tour when its reminder fires. sent is
// false when the tour is no longer scheduled.
type TourReminderHandler interface {
	HandleTourReminder(ctx context.Context, tourID uuid.UUID) (sent bool, err error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	tours  TourReminderHandler
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		log:    log,
	}

	mux.HandleFunc(TaskTourReminder, w.handleTourReminder)

	return w, nil
}

// SetTourReminderHandler wires the tours service.
func (w *Worker) SetTourReminderHandler(tours TourReminderHandler) {
	w.tours = tours
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleTourReminder(ctx context.Context, task *asynq.Task) error {
	return processTourReminder(ctx, w.tours, task)
}

func processTourReminder(ctx context.Context, tours TourReminderHandler, task *asynq.Task) error {
	payload, err := ParseTourReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	tourID, err := uuid.Parse(payload.TourID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if tours == nil {
		return fmt.Errorf("tour reminder handler not configured")
	}

	sent, err := tours.HandleTourReminder(ctx, tourID)
	if err != nil {
		metrics.ObserveTourReminder(metrics.ReminderFailed)
		return err
	}
	if !sent {
		metrics.ObserveTourReminder(metrics.ReminderSkipped)
		return nil
	}
	metrics.ObserveTourReminder(metrics.ReminderSent)
	return nil
}
