package scheduler

import (
	"context"
	"fmt"
	"time"

	leadsservice "callcenter_backend/internal/leads/service"
	"callcenter_backend/platform/config"
	"callcenter_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	leads  *leadsservice.Service
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads *leadsservice.Service, log *logger.Logger) (*Worker, error) {
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
		leads:  leads,
		log:    log,
	}

	mux.HandleFunc(TaskSweepStale, w.handleSweepStale)
	mux.HandleFunc(TaskRecycleBatch, w.handleRecycleBatch)

	return w, nil
}

func (w *Worker) handleSweepStale(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSweepStalePayload(task)
	if err != nil {
		return err
	}

	threshold := time.Duration(payload.ThresholdMinutes) * time.Minute
	_, err = w.leads.SweepStale(ctx, threshold)
	return err
}

func (w *Worker) handleRecycleBatch(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRecycleBatchPayload(task)
	if err != nil {
		return err
	}

	batchID, err := uuid.Parse(payload.BatchID)
	if err != nil {
		return err
	}

	_, err = w.leads.RecycleBatch(ctx, batchID)
	return err
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
