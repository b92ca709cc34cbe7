// Package service exposes read access and status transitions for appointments.
package service

import (
	"context"
	"time"

	"callcenter_backend/internal/appointments/repository"
	"callcenter_backend/platform/apperr"

	"github.com/google/uuid"
)

// Store is the subset of the appointments repository the service needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Appointment, error)
	ListByDay(ctx context.Context, from, to time.Time) ([]repository.Appointment, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]repository.Appointment, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]repository.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status repository.Status) error
}

// Service reads appointments created by the disposition flow. Creation never
// happens here: an appointment exists only as the side effect of a scheduled
// disposition.
type Service struct {
	store Store
	zone  *time.Location
}

func New(store Store, zone *time.Location) *Service {
	if zone == nil {
		zone = time.UTC
	}
	return &Service{store: store, zone: zone}
}

// Get fetches one appointment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*repository.Appointment, error) {
	return s.store.GetByID(ctx, id)
}

// ListDay returns all appointments for one calendar day in the reporting zone.
func (s *Service) ListDay(ctx context.Context, day time.Time) ([]repository.Appointment, error) {
	from, to := dayBounds(day, s.zone)
	return s.store.ListByDay(ctx, from, to)
}

// ListForLead returns every appointment created for a lead.
func (s *Service) ListForLead(ctx context.Context, leadID uuid.UUID) ([]repository.Appointment, error) {
	return s.store.ListByLead(ctx, leadID)
}

// ListForAgent returns an agent's appointments for one calendar day.
func (s *Service) ListForAgent(ctx context.Context, agentID uuid.UUID, day time.Time) ([]repository.Appointment, error) {
	from, to := dayBounds(day, s.zone)
	return s.store.ListByAgent(ctx, agentID, from, to)
}

// UpdateStatus applies a supervisor status transition. Scheduled values and
// locations never change after creation.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status repository.Status) error {
	if !status.IsValid() {
		return apperr.Validation("unknown appointment status")
	}
	return s.store.UpdateStatus(ctx, id, status)
}

func dayBounds(day time.Time, zone *time.Location) (time.Time, time.Time) {
	local := day.In(zone)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
	return from, from.Add(24 * time.Hour)
}
