// Package service implements the assignment engine and the outcome recorder
// on top of the Lead Store.
package service

import (
	"context"
	"time"

	"callcenter_backend/internal/events"
	"callcenter_backend/internal/leads/domain"
	"callcenter_backend/internal/leads/repository"
	"callcenter_backend/platform/apperr"
	"callcenter_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the Lead Store surface the engine depends on. The production
// implementation is the pgx repository; tests use an in-memory fake with the
// same compare-and-swap semantics.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Lead, error)
	FindNextEligible(ctx context.Context, excludeIDs []uuid.UUID) (*repository.Lead, error)
	Claim(ctx context.Context, leadID, agentID uuid.UUID) (*repository.Lead, error)
	RecordDisposition(ctx context.Context, params repository.DispositionParams) (*repository.DispositionResult, error)
	Release(ctx context.Context, leadID uuid.UUID) (bool, error)
	SweepStale(ctx context.Context, threshold time.Duration) ([]uuid.UUID, error)
	Recycle(ctx context.Context, batchID uuid.UUID) (int64, error)
	Summary(ctx context.Context, agentID uuid.UUID, from, to time.Time) (*repository.DailySummary, error)
}

// AgentGate answers whether an agent may receive leads. Implemented by the
// agents module; checked upstream of any claim attempt.
type AgentGate interface {
	IsBlocked(ctx context.Context, agentID uuid.UUID) (bool, error)
	TouchActivity(ctx context.Context, agentID uuid.UUID)
}

// Config carries the engine's business settings.
type Config struct {
	// ClaimRetries bounds the select-claim retry loop under contention.
	ClaimRetries int
	// StaleThreshold is the default sweeper threshold.
	StaleThreshold time.Duration
	// ReportingZone is the agents' reporting timezone for daily summaries.
	ReportingZone *time.Location
}

// Service provides lead assignment, disposition recording, and reclamation.
type Service struct {
	store Store
	gate  AgentGate
	bus   events.Bus
	log   *logger.Logger
	cfg   Config
}

// New creates a new leads service.
func New(store Store, gate AgentGate, bus events.Bus, log *logger.Logger, cfg Config) *Service {
	if cfg.ClaimRetries < 1 {
		cfg.ClaimRetries = 3
	}
	if cfg.ReportingZone == nil {
		cfg.ReportingZone = time.UTC
	}
	return &Service{store: store, gate: gate, bus: bus, log: log, cfg: cfg}
}

// NextLead atomically hands the next eligible lead to the requesting agent.
// Blocked agents are refused before any claim attempt. A lost claim race is
// retried against the next candidate a bounded number of times; exhaustion
// and an empty pool both surface as NotFound ("no leads available"), which
// is a normal empty result for the caller, not a failure.
func (s *Service) NextLead(ctx context.Context, agentID uuid.UUID) (*repository.Lead, error) {
	if s.gate != nil {
		blocked, err := s.gate.IsBlocked(ctx, agentID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, apperr.Forbidden("agent is blocked")
		}
	}

	var exclude []uuid.UUID
	for attempt := 0; attempt < s.cfg.ClaimRetries; attempt++ {
		candidate, err := s.store.FindNextEligible(ctx, exclude)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, apperr.NotFound("no leads available")
			}
			return nil, err
		}

		claimed, err := s.store.Claim(ctx, candidate.ID, agentID)
		if err != nil {
			if apperr.Is(err, apperr.KindConflict) {
				// Lost the race; exclude this lead and pick the next one.
				exclude = append(exclude, candidate.ID)
				continue
			}
			return nil, err
		}

		if s.gate != nil {
			s.gate.TouchActivity(ctx, agentID)
		}
		if s.log != nil {
			s.log.LeadClaimed(claimed.ID.String(), agentID.String(), claimed.AttemptCount)
		}
		if s.bus != nil {
			s.bus.Publish(ctx, events.LeadClaimed{
				BaseEvent:    events.NewBaseEvent(),
				LeadID:       claimed.ID,
				AgentID:      agentID,
				AttemptCount: claimed.AttemptCount,
			})
		}
		return claimed, nil
	}

	return nil, apperr.NotFound("no leads available")
}

// SetGate injects the agent gate after construction. The agents module needs
// the lead releaser from this module, so the gate arrives by setter to break
// the cycle. Must be called before the server starts handling requests.
func (s *Service) SetGate(gate AgentGate) {
	s.gate = gate
}

// ReportingZone returns the timezone used for day-window reporting and for
// interpreting local appointment times.
func (s *Service) ReportingZone() *time.Location {
	return s.cfg.ReportingZone
}

// OutcomeRequest is one contact-attempt outcome to record.
type OutcomeRequest struct {
	LeadID      uuid.UUID
	Outcome     domain.Disposition
	Comment     *string
	ScheduledAt *time.Time
	Location    *string
}

// OutcomeResult reports the committed disposition plus the agent's refreshed
// daily summary.
type OutcomeResult struct {
	AppointmentCreated bool
	AppointmentID      *uuid.UUID
	Summary            *repository.DailySummary
}

// RecordOutcome validates and commits a disposition as one atomic unit:
// lead transition, conditional appointment insert, and audit log append.
func (s *Service) RecordOutcome(ctx context.Context, agentID uuid.UUID, req OutcomeRequest) (*OutcomeResult, error) {
	if !req.Outcome.IsValid() {
		return nil, apperr.Validation("unknown disposition code")
	}
	if req.Outcome.CreatesAppointment() {
		if req.ScheduledAt == nil || req.ScheduledAt.IsZero() {
			return nil, apperr.Validation("scheduling outcome requires an appointment date")
		}
		if req.Location == nil || *req.Location == "" {
			return nil, apperr.Validation("scheduling outcome requires an appointment location")
		}
	}

	result, err := s.store.RecordDisposition(ctx, repository.DispositionParams{
		LeadID:      req.LeadID,
		AgentID:     agentID,
		Outcome:     req.Outcome,
		Comment:     req.Comment,
		ScheduledAt: req.ScheduledAt,
		Location:    req.Location,
	})
	if err != nil {
		return nil, err
	}

	if s.gate != nil {
		s.gate.TouchActivity(ctx, agentID)
	}
	if s.log != nil {
		s.log.DispositionRecorded(req.LeadID.String(), agentID.String(),
			string(req.Outcome), result.AppointmentID != nil)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.DispositionRecorded{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        req.LeadID,
			AgentID:       agentID,
			Outcome:       string(req.Outcome),
			AttemptNumber: result.AttemptNumber,
			Terminal:      req.Outcome.TargetState().IsTerminal(),
		})
		if result.AppointmentID != nil {
			var location string
			if req.Location != nil {
				location = *req.Location
			}
			s.bus.Publish(ctx, events.AppointmentScheduled{
				BaseEvent:     events.NewBaseEvent(),
				AppointmentID: *result.AppointmentID,
				LeadID:        req.LeadID,
				AgentID:       agentID,
				ScheduledAt:   *req.ScheduledAt,
				Location:      location,
			})
		}
	}

	summary, err := s.DailySummary(ctx, agentID)
	if err != nil {
		return nil, err
	}

	return &OutcomeResult{
		AppointmentCreated: result.AppointmentID != nil,
		AppointmentID:      result.AppointmentID,
		Summary:            summary,
	}, nil
}

// DailySummary derives the agent's counts for the current calendar day in
// the reporting timezone.
func (s *Service) DailySummary(ctx context.Context, agentID uuid.UUID) (*repository.DailySummary, error) {
	from, to := dayWindow(time.Now(), s.cfg.ReportingZone)
	return s.store.Summary(ctx, agentID, from, to)
}

// SweepStale releases every lead stuck in progress longer than the given
// threshold (the configured default when zero). The safety net for agent
// sessions that crashed without a disposition or an explicit block.
func (s *Service) SweepStale(ctx context.Context, threshold time.Duration) ([]uuid.UUID, error) {
	if threshold <= 0 {
		threshold = s.cfg.StaleThreshold
	}

	released, err := s.store.SweepStale(ctx, threshold)
	if err != nil {
		return nil, err
	}

	if s.log != nil {
		s.log.LeadsSwept(len(released), int(threshold.Minutes()))
	}
	if s.bus != nil && len(released) > 0 {
		s.bus.Publish(ctx, events.StaleLeadsReleased{
			BaseEvent: events.NewBaseEvent(),
			LeadIDs:   released,
			Threshold: threshold,
		})
	}
	return released, nil
}

// RecycleBatch bulk-resets the batch's reclaimable leads back to pending.
func (s *Service) RecycleBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	affected, err := s.store.Recycle(ctx, batchID)
	if err != nil {
		return 0, err
	}

	if s.bus != nil && affected > 0 {
		s.bus.Publish(ctx, events.BatchRecycled{
			BaseEvent: events.NewBaseEvent(),
			BatchID:   batchID,
			Affected:  affected,
		})
	}
	return affected, nil
}

// ReleaseLead is the administrative release path (no ownership check).
func (s *Service) ReleaseLead(ctx context.Context, leadID uuid.UUID) (bool, error) {
	return s.store.Release(ctx, leadID)
}

// dayWindow returns the half-open [midnight, midnight+24h) window containing
// now in the given zone.
func dayWindow(now time.Time, zone *time.Location) (time.Time, time.Time) {
	local := now.In(zone)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
	return from, from.Add(24 * time.Hour)
}
