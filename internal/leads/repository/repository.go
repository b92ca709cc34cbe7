// Package repository implements the durable Lead Store on Postgres.
// All state transitions are single conditional UPDATEs keyed by lead id, so
// at-most-one-winner semantics come from the database rather than from any
// application-level lock.
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
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lead represents the lead database model.
type Lead struct {
	ID                uuid.UUID    `db:"id"`
	CampaignID        uuid.UUID    `db:"campaign_id"`
	ImportBatchID     uuid.UUID    `db:"import_batch_id"`
	FullName          string       `db:"full_name"`
	PhoneNumbers      []string     `db:"phone_numbers"`
	VehicleMake       *string      `db:"vehicle_make"`
	VehicleModel      *string      `db:"vehicle_model"`
	VehicleYear       *int         `db:"vehicle_year"`
	VehicleNotes      *string      `db:"vehicle_notes"`
	State             domain.State `db:"state"`
	PreviousState     domain.State `db:"previous_state"`
	PoolActive        bool         `db:"pool_active"`
	OwningAgentID     *uuid.UUID   `db:"owning_agent_id"`
	AttemptCount      int          `db:"attempt_count"`
	LastStateChangeAt time.Time    `db:"last_state_change_at"`
	CreatedAt         time.Time    `db:"created_at"`
}

const leadNotFoundMsg = "lead not found"

const leadColumns = `id, campaign_id, import_batch_id, full_name, phone_numbers,
	vehicle_make, vehicle_model, vehicle_year, vehicle_notes,
	state, previous_state, pool_active, owning_agent_id,
	attempt_count, last_state_change_at, created_at`

// Repository provides database operations for leads.
type Repository struct {
	pool        *pgxpool.Pool
	maxAttempts int
}

// New creates a new leads repository. maxAttempts is the attempt ceiling
// beyond which a lead is excluded from eligibility and recycling.
func New(pool *pgxpool.Pool, maxAttempts int) *Repository {
	return &Repository{pool: pool, maxAttempts: maxAttempts}
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.CampaignID, &lead.ImportBatchID, &lead.FullName, &lead.PhoneNumbers,
		&lead.VehicleMake, &lead.VehicleModel, &lead.VehicleYear, &lead.VehicleNotes,
		&lead.State, &lead.PreviousState, &lead.PoolActive, &lead.OwningAgentID,
		&lead.AttemptCount, &lead.LastStateChangeAt, &lead.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetByID retrieves a lead by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(leadNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// FindNextEligible returns the best-candidate lead for assignment: active
// pool, re-workable state, unowned, under the attempt ceiling, ordered by
// ascending attempt count then insertion order. excludeIDs filters out leads
// the caller has just lost a claim race on.
// Returns apperr.NotFound when nothing matches.
func (r *Repository) FindNextEligible(ctx context.Context, excludeIDs []uuid.UUID) (*Lead, error) {
	if excludeIDs == nil {
		excludeIDs = []uuid.UUID{}
	}

	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE pool_active = TRUE
		  AND state = ANY($1)
		  AND owning_agent_id IS NULL
		  AND attempt_count < $2
		  AND NOT (id = ANY($3))
		ORDER BY attempt_count ASC, seq ASC
		LIMIT 1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, eligibleStateStrings(), r.maxAttempts, excludeIDs))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("no eligible leads")
		}
		return nil, fmt.Errorf("failed to find next eligible lead: %w", err)
	}
	return lead, nil
}

// Claim atomically transitions an eligible lead to in_progress for the given
// agent, capturing the pre-claim state and incrementing the attempt count.
// The WHERE clause re-checks eligibility so a concurrent claim loses with
// apperr.Conflict instead of double-assigning.
func (r *Repository) Claim(ctx context.Context, leadID, agentID uuid.UUID) (*Lead, error) {
	query := `UPDATE leads SET
			previous_state = state,
			state = $3,
			owning_agent_id = $2,
			attempt_count = attempt_count + 1,
			last_state_change_at = now()
		WHERE id = $1
		  AND pool_active = TRUE
		  AND state = ANY($4)
		  AND owning_agent_id IS NULL
		  AND attempt_count < $5
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		leadID, agentID, string(domain.StateInProgress), eligibleStateStrings(), r.maxAttempts,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Conflict("lead already claimed")
		}
		return nil, fmt.Errorf("failed to claim lead: %w", err)
	}
	return lead, nil
}

// Release returns an in_progress lead to its pre-claim re-workable state,
// clearing the owner and leaving attempt_count untouched. Used by the
// sweeper and administrative paths; it does not check ownership. Returns
// false when the lead was not in progress (already released or disposed),
// which makes the operation idempotent.
func (r *Repository) Release(ctx context.Context, leadID uuid.UUID) (bool, error) {
	return r.release(ctx, leadID, nil)
}

// ReleaseOwned releases a lead only if the given agent currently holds it.
// Used by the pause and block paths of the operational state tracker.
func (r *Repository) ReleaseOwned(ctx context.Context, leadID, agentID uuid.UUID) (bool, error) {
	return r.release(ctx, leadID, &agentID)
}

func (r *Repository) release(ctx context.Context, leadID uuid.UUID, owner *uuid.UUID) (bool, error) {
	// previous_state is restored only when re-workable; anything else falls
	// back to pending (mirrors domain.ReleaseTarget).
	query := `UPDATE leads SET
			state = CASE WHEN previous_state = ANY($2) THEN previous_state ELSE $3 END,
			owning_agent_id = NULL,
			last_state_change_at = now()
		WHERE id = $1
		  AND state = $4
		  AND ($5::uuid IS NULL OR owning_agent_id = $5)`

	tag, err := r.pool.Exec(ctx, query,
		leadID, eligibleStateStrings(), string(domain.StatePending),
		string(domain.StateInProgress), owner,
	)
	if err != nil {
		return false, fmt.Errorf("failed to release lead: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SweepStale releases every in_progress lead whose last state change is older
// than the threshold. One conditional UPDATE, safe to run concurrently with
// claim and disposition traffic, and idempotent: a second run with no
// intervening claims matches zero rows.
func (r *Repository) SweepStale(ctx context.Context, threshold time.Duration) ([]uuid.UUID, error) {
	query := `UPDATE leads SET
			state = CASE WHEN previous_state = ANY($1) THEN previous_state ELSE $2 END,
			owning_agent_id = NULL,
			last_state_change_at = now()
		WHERE state = $3
		  AND last_state_change_at < now() - $4::interval
		RETURNING id`

	interval := fmt.Sprintf("%f seconds", threshold.Seconds())
	rows, err := r.pool.Query(ctx, query,
		eligibleStateStrings(), string(domain.StatePending),
		string(domain.StateInProgress), interval,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep stale leads: %w", err)
	}
	defer rows.Close()

	var released []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan swept lead: %w", err)
		}
		released = append(released, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to sweep stale leads: %w", err)
	}
	return released, nil
}

// Recycle bulk-resets all reclaimable leads of a batch back to pending with a
// zeroed attempt count. Terminal scheduled/not-interested leads and leads at
// the attempt ceiling are untouched. Returns the number of rows affected.
func (r *Repository) Recycle(ctx context.Context, batchID uuid.UUID) (int64, error) {
	recyclable := make([]string, 0, len(domain.RecyclableStates()))
	for _, s := range domain.RecyclableStates() {
		recyclable = append(recyclable, string(s))
	}

	query := `UPDATE leads SET
			state = $2,
			previous_state = $2,
			attempt_count = 0,
			owning_agent_id = NULL,
			last_state_change_at = now()
		WHERE import_batch_id = $1
		  AND state = ANY($3)
		  AND attempt_count < $4`

	tag, err := r.pool.Exec(ctx, query,
		batchID, string(domain.StatePending), recyclable, r.maxAttempts,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to recycle batch: %w", err)
	}
	return tag.RowsAffected(), nil
}

func eligibleStateStrings() []string {
	states := domain.EligibleStates()
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, string(s))
	}
	return out
}
