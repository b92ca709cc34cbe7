package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callcenter_backend/internal/agents"
	"callcenter_backend/internal/agents/presence"
	"callcenter_backend/internal/appointments"
	"callcenter_backend/internal/events"
	apphttp "callcenter_backend/internal/http"
	"callcenter_backend/internal/http/router"
	"callcenter_backend/internal/leads"
	leadshandler "callcenter_backend/internal/leads/handler"
	"callcenter_backend/internal/notification"
	"callcenter_backend/internal/scheduler"
	"callcenter_backend/platform/config"
	"callcenter_backend/platform/db"
	"callcenter_backend/platform/logger"
	"callcenter_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	presenceStore := initPresence(cfg, log)
	if presenceStore != nil {
		defer presenceStore.Close()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(log)
	notificationModule.RegisterHandlers(eventBus)

	// Background scheduler client is optional: without Redis, batch
	// recycles run inline in the request.
	var recycleSched leadshandler.RecycleScheduler
	if cfg.GetRedisURL() != "" {
		schedClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Warn("scheduler client unavailable, recycles run inline", "error", err)
		} else {
			defer schedClient.Close()
			recycleSched = schedClient
		}
	}

	leadsModule := leads.NewModule(pool, val, eventBus, log, cfg, recycleSched)
	agentsModule := agents.NewModule(pool, val, eventBus, log, leadsModule.Repository(), presenceStore)

	// Agents gate the claim path; the gate arrives by setter to break the
	// leads <-> agents construction cycle.
	leadsModule.Service.SetGate(agentsModule.Service)

	appointmentsModule := appointments.NewModule(pool, val, cfg.GetAgentTimezone())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			agentsModule,
			appointmentsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initPresence(cfg config.PresenceConfig, log *logger.Logger) *presence.Store {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; agent presence tracking disabled")
		return nil
	}

	store, err := presence.New(cfg)
	if err != nil {
		log.Error("failed to initialize presence store", "error", err)
		return nil
	}
	return store
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
