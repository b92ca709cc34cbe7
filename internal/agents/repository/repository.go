// Package repository persists agent operational records.
package repository

import (
	"context"
	"errors"
	"time"

	"callcenter_backend/internal/agents/domain"
	"callcenter_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Agent is one operational record. Rows are created at provisioning and
// never deleted.
type Agent struct {
	ID               uuid.UUID               `db:"id"`
	FullName         string                  `db:"full_name"`
	OperationalState domain.OperationalState `db:"operational_state"`
	Blocked          bool                    `db:"blocked"`
	BlockedAt        *time.Time              `db:"blocked_at"`
	LastActivityAt   time.Time               `db:"last_activity_at"`
	CreatedAt        time.Time               `db:"created_at"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const agentColumns = `id, full_name, operational_state, blocked, blocked_at, last_activity_at, created_at`

func scanAgent(row pgx.Row) (*Agent, error) {
	var a Agent
	err := row.Scan(&a.ID, &a.FullName, &a.OperationalState, &a.Blocked,
		&a.BlockedAt, &a.LastActivityAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID fetches one agent record.
func (r *Repository) GetByID(ctx context.Context, agentID uuid.UUID) (*Agent, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = $1`, agentID)

	agent, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("agent not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to fetch agent", err)
	}
	return agent, nil
}

// SetOperationalState updates the agent's state and refreshes activity.
func (r *Repository) SetOperationalState(ctx context.Context, agentID uuid.UUID, state domain.OperationalState) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE agents
		    SET operational_state = $2, last_activity_at = now()
		  WHERE id = $1`,
		agentID, state)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update agent state", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("agent not found")
	}
	return nil
}

// SetBlocked flips the blocked flag. Blocking stamps blocked_at; unblocking
// clears it and returns the agent to available.
func (r *Repository) SetBlocked(ctx context.Context, agentID uuid.UUID, blocked bool) error {
	var tag pgconn.CommandTag
	var err error
	if blocked {
		tag, err = r.pool.Exec(ctx,
			`UPDATE agents
			    SET blocked = true, blocked_at = now(), last_activity_at = now()
			  WHERE id = $1`,
			agentID)
	} else {
		tag, err = r.pool.Exec(ctx,
			`UPDATE agents
			    SET blocked = false, blocked_at = NULL,
			        operational_state = $2, last_activity_at = now()
			  WHERE id = $1`,
			agentID, domain.StateAvailable)
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update blocked flag", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("agent not found")
	}
	return nil
}

// IsBlocked reports the agent's blocked flag.
func (r *Repository) IsBlocked(ctx context.Context, agentID uuid.UUID) (bool, error) {
	var blocked bool
	err := r.pool.QueryRow(ctx,
		`SELECT blocked FROM agents WHERE id = $1`, agentID).Scan(&blocked)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, apperr.NotFound("agent not found")
	}
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "failed to fetch blocked flag", err)
	}
	return blocked, nil
}

// TouchActivity refreshes last_activity_at. Missing rows are ignored: the
// record is provisioned externally and activity is advisory.
func (r *Repository) TouchActivity(ctx context.Context, agentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE agents SET last_activity_at = now() WHERE id = $1`, agentID)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to touch activity", err)
	}
	return nil
}
