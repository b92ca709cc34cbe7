package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"callcenter_backend/internal/leads/domain"
	"callcenter_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DispositionParams carries one validated disposition to be committed.
type DispositionParams struct {
	LeadID      uuid.UUID
	AgentID     uuid.UUID
	Outcome     domain.Disposition
	Comment     *string
	ScheduledAt *time.Time // required by the service for scheduling outcomes
	Location    *string    // required by the service for scheduling outcomes
}

// DispositionResult reports what the atomic unit committed.
type DispositionResult struct {
	AttemptNumber int
	AppointmentID *uuid.UUID
}

// DailySummary is the per-agent summary derived from the disposition log.
type DailySummary struct {
	TotalDispositions int `db:"total"`
	TotalAppointments int `db:"appointments"`
	TotalCallbacks    int `db:"callbacks"`
}

// RecordDisposition applies a disposition as a single transaction: the lead
// state transition, the conditional appointment insert, and the append-only
// log entry either all commit or none do. A crash or failed sub-step can
// never leave a lead marked scheduled without its appointment row.
func (r *Repository) RecordDisposition(ctx context.Context, params DispositionParams) (*DispositionResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to start disposition", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	attemptNumber, err := r.applyDisposition(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	result := &DispositionResult{AttemptNumber: attemptNumber}

	if params.Outcome.CreatesAppointment() {
		appointmentID, err := insertAppointment(ctx, tx, params)
		if err != nil {
			return nil, err
		}
		result.AppointmentID = &appointmentID
	}

	if err := appendLogEntry(ctx, tx, params, attemptNumber); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to commit disposition", err)
	}
	return result, nil
}

// applyDisposition transitions in_progress -> outcome state, conditioned on
// the calling agent still owning the lead. Distinguishes a missing lead from
// a stale-client double submit.
func (r *Repository) applyDisposition(ctx context.Context, tx pgx.Tx, params DispositionParams) (int, error) {
	query := `UPDATE leads SET
			state = $3,
			owning_agent_id = NULL,
			last_state_change_at = now()
		WHERE id = $1
		  AND state = $4
		  AND owning_agent_id = $2
		RETURNING attempt_count`

	var attemptNumber int
	err := tx.QueryRow(ctx, query,
		params.LeadID, params.AgentID, string(params.Outcome.TargetState()),
		string(domain.StateInProgress),
	).Scan(&attemptNumber)
	if err == nil {
		return attemptNumber, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to apply disposition: %w", err)
	}

	// 0 rows: either the lead does not exist, or it is not in progress for
	// this agent (invalid transition).
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE id = $1)`, params.LeadID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check lead existence: %w", err)
	}
	if !exists {
		return 0, apperr.NotFound(leadNotFoundMsg)
	}
	return 0, apperr.Conflict("lead is not in progress for this agent")
}

func insertAppointment(ctx context.Context, tx pgx.Tx, params DispositionParams) (uuid.UUID, error) {
	appointmentID := uuid.New()
	query := `INSERT INTO appointments (id, lead_id, agent_id, scheduled_at, location, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'scheduled', now())`

	_, err := tx.Exec(ctx, query,
		appointmentID, params.LeadID, params.AgentID,
		params.ScheduledAt, params.Location, params.Comment,
	)
	if err != nil {
		return uuid.UUID{}, apperr.Wrap(apperr.KindInternal, "failed to create appointment", err)
	}
	return appointmentID, nil
}

func appendLogEntry(ctx context.Context, tx pgx.Tx, params DispositionParams, attemptNumber int) error {
	query := `INSERT INTO lead_dispositions (id, lead_id, agent_id, attempt_number, outcome, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`

	_, err := tx.Exec(ctx, query,
		uuid.New(), params.LeadID, params.AgentID,
		attemptNumber, string(params.Outcome), params.Comment,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to append disposition log", err)
	}
	return nil
}

// Summary derives the per-agent counts from the disposition log alone for
// the half-open window [from, to). No separately mutated counters exist, so
// the log stays the single source of truth.
func (r *Repository) Summary(ctx context.Context, agentID uuid.UUID, from, to time.Time) (*DailySummary, error) {
	query := `SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE outcome = $2) AS appointments,
			COUNT(*) FILTER (WHERE outcome = $3) AS callbacks
		FROM lead_dispositions
		WHERE agent_id = $1 AND created_at >= $4 AND created_at < $5`

	var summary DailySummary
	err := r.pool.QueryRow(ctx, query,
		agentID,
		string(domain.DispositionAppointmentScheduled),
		string(domain.DispositionCallbackRequested),
		from, to,
	).Scan(&summary.TotalDispositions, &summary.TotalAppointments, &summary.TotalCallbacks)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to query disposition summary", err)
	}
	return &summary, nil
}
