// Package repository reads appointment rows. Appointments are written only
// by the disposition path in the leads module; this side is read-only apart
// from status transitions.
package repository

import (
	"context"
	"errors"
	"time"

	"callcenter_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Status is an appointment lifecycle status.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

var validStatuses = map[Status]struct{}{
	StatusScheduled: {},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := validStatuses[s]
	return ok
}

// Appointment is one scheduled dealership visit.
type Appointment struct {
	ID          uuid.UUID `db:"id"`
	LeadID      uuid.UUID `db:"lead_id"`
	AgentID     uuid.UUID `db:"agent_id"`
	ScheduledAt time.Time `db:"scheduled_at"`
	Location    string    `db:"location"`
	Notes       *string   `db:"notes"`
	Status      Status    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `id, lead_id, agent_id, scheduled_at, location, notes, status, created_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.LeadID, &a.AgentID, &a.ScheduledAt,
		&a.Location, &a.Notes, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID fetches one appointment.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)

	appt, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to fetch appointment", err)
	}
	return appt, nil
}

// ListByDay returns appointments scheduled within [from, to), newest first.
func (r *Repository) ListByDay(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentColumns+`
		   FROM appointments
		  WHERE scheduled_at >= $1 AND scheduled_at < $2
		  ORDER BY scheduled_at`,
		from, to)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list appointments", err)
	}
	defer rows.Close()

	return collect(rows)
}

// ListByLead returns every appointment created for a lead.
func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentColumns+`
		   FROM appointments
		  WHERE lead_id = $1
		  ORDER BY created_at DESC`,
		leadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list lead appointments", err)
	}
	defer rows.Close()

	return collect(rows)
}

// ListByAgent returns an agent's appointments scheduled within [from, to).
func (r *Repository) ListByAgent(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentColumns+`
		   FROM appointments
		  WHERE agent_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3
		  ORDER BY scheduled_at`,
		agentID, from, to)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list agent appointments", err)
	}
	defer rows.Close()

	return collect(rows)
}

// UpdateStatus applies a supervisor status transition.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update appointment status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment not found")
	}
	return nil
}

func collect(rows pgx.Rows) ([]Appointment, error) {
	var out []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan appointment", err)
		}
		out = append(out, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to read appointments", err)
	}
	return out, nil
}
