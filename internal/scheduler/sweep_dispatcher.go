package scheduler

import (
	"context"
	"time"

	"callcenter_backend/platform/config"
	"callcenter_backend/platform/logger"
)

// SweepDispatcher periodically enqueues the stale-lead sweep. It only
// enqueues; the worker owns the actual release so the sweep runs with the
// same code path as the manual admin trigger.
type SweepDispatcher struct {
	client    *Client
	interval  time.Duration
	threshold time.Duration
	log       *logger.Logger
}

func NewSweepDispatcher(cfg config.SchedulerConfig, callCfg config.CallCenterConfig, log *logger.Logger) (*SweepDispatcher, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	interval := cfg.GetSweepInterval()
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &SweepDispatcher{
		client:    client,
		interval:  interval,
		threshold: callCfg.GetStaleLeadThreshold(),
		log:       log,
	}, nil
}

func (d *SweepDispatcher) Close() error {
	if d == nil {
		return nil
	}
	return d.client.Close()
}

func (d *SweepDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := d.client.EnqueueSweep(ctx, int(d.threshold.Minutes())); err != nil {
			d.log.Warn("sweep enqueue failed", "error", err)
		}
	}
}
