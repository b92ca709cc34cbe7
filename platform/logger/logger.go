// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// AgentIDKey is the context key for the acting agent ID
	AgentIDKey contextKey = "agent_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with request-scoped values extracted.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = &Logger{Logger: newLogger.With(slog.String("request_id", requestID))}
	}

	if agentID, ok := ctx.Value(AgentIDKey).(string); ok && agentID != "" {
		newLogger = &Logger{Logger: newLogger.With(slog.String("agent_id", agentID))}
	}

	return newLogger
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// LeadClaimed logs a successful lead claim.
func (l *Logger) LeadClaimed(leadID, agentID string, attempt int) {
	l.Info("lead_claimed",
		slog.String("lead_id", leadID),
		slog.String("agent_id", agentID),
		slog.Int("attempt", attempt),
	)
}

// DispositionRecorded logs a committed disposition.
func (l *Logger) DispositionRecorded(leadID, agentID, outcome string, appointmentCreated bool) {
	l.Info("disposition_recorded",
		slog.String("lead_id", leadID),
		slog.String("agent_id", agentID),
		slog.String("outcome", outcome),
		slog.Bool("appointment_created", appointmentCreated),
	)
}

// LeadsSwept logs the result of a stale-lead sweep.
func (l *Logger) LeadsSwept(released int, thresholdMinutes int) {
	l.Info("stale_leads_swept",
		slog.Int("released", released),
		slog.Int("threshold_minutes", thresholdMinutes),
	)
}

// AgentStateChanged logs an operational state transition.
func (l *Logger) AgentStateChanged(agentID, state string, releasedLead bool) {
	l.Info("agent_state_changed",
		slog.String("agent_id", agentID),
		slog.String("state", state),
		slog.Bool("released_lead", releasedLead),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
