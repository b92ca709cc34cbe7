// Package service implements the agent operational state tracker.
package service

import (
	"context"

	"callcenter_backend/internal/agents/domain"
	"callcenter_backend/internal/agents/repository"
	"callcenter_backend/internal/events"
	"callcenter_backend/platform/apperr"
	"callcenter_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the subset of the agents repository the tracker needs.
type Store interface {
	GetByID(ctx context.Context, agentID uuid.UUID) (*repository.Agent, error)
	SetOperationalState(ctx context.Context, agentID uuid.UUID, state domain.OperationalState) error
	SetBlocked(ctx context.Context, agentID uuid.UUID, blocked bool) error
	IsBlocked(ctx context.Context, agentID uuid.UUID) (bool, error)
	TouchActivity(ctx context.Context, agentID uuid.UUID) error
}

// LeadReleaser returns a held lead to the pool. Implemented by the leads
// repository; injected to keep the module dependency one-directional.
type LeadReleaser interface {
	ReleaseOwned(ctx context.Context, leadID, agentID uuid.UUID) (bool, error)
}

// Presence is the live-session tracker. Optional: a nil presence store
// disables heartbeats without disabling state tracking.
type Presence interface {
	Heartbeat(ctx context.Context, agentID uuid.UUID, state domain.OperationalState) error
	Drop(ctx context.Context, agentID uuid.UUID) error
	State(ctx context.Context, agentID uuid.UUID) (domain.OperationalState, bool, error)
	Online(ctx context.Context) (int, error)
}

// Service coordinates operational state changes with lead ownership. An
// agent on a pause or blocked must never keep a claimed lead.
type Service struct {
	store    Store
	leads    LeadReleaser
	presence Presence
	bus      events.Bus
	log      *logger.Logger
}

func New(store Store, leads LeadReleaser, presence Presence, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, leads: leads, presence: presence, bus: bus, log: log}
}

// StateChange reports the outcome of a state or block transition.
type StateChange struct {
	State        domain.OperationalState
	ReleasedLead bool
}

// SetOperationalState moves the agent to the given state. Pause states first
// release the agent's current lead, if one is provided and actually held, so
// the pool never loses a lead to someone at lunch.
func (s *Service) SetOperationalState(ctx context.Context, agentID uuid.UUID, state domain.OperationalState, currentLeadID *uuid.UUID) (*StateChange, error) {
	if !state.IsValid() {
		return nil, apperr.Validation("unknown operational state")
	}

	released := false
	if state.IsPause() && currentLeadID != nil {
		ok, err := s.leads.ReleaseOwned(ctx, *currentLeadID, agentID)
		if err != nil {
			return nil, err
		}
		released = ok
	}

	if err := s.store.SetOperationalState(ctx, agentID, state); err != nil {
		return nil, err
	}

	if s.presence != nil {
		if err := s.presence.Heartbeat(ctx, agentID, state); err != nil && s.log != nil {
			s.log.Warn("presence heartbeat failed", "agent_id", agentID, "error", err)
		}
	}
	if s.log != nil {
		s.log.AgentStateChanged(agentID.String(), string(state), released)
	}

	return &StateChange{State: state, ReleasedLead: released}, nil
}

// Block marks the agent blocked, releasing any held lead first. Used by the
// client-side inactivity timeout; the agent cannot claim again until an
// administrator unblocks them.
func (s *Service) Block(ctx context.Context, agentID uuid.UUID, currentLeadID *uuid.UUID) (*StateChange, error) {
	released := false
	if currentLeadID != nil {
		ok, err := s.leads.ReleaseOwned(ctx, *currentLeadID, agentID)
		if err != nil {
			return nil, err
		}
		released = ok
	}

	if err := s.store.SetBlocked(ctx, agentID, true); err != nil {
		return nil, err
	}

	if s.presence != nil {
		if err := s.presence.Drop(ctx, agentID); err != nil && s.log != nil {
			s.log.Warn("presence drop failed", "agent_id", agentID, "error", err)
		}
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.AgentBlocked{
			BaseEvent:    events.NewBaseEvent(),
			AgentID:      agentID,
			ReleasedLead: currentLeadID,
		})
	}
	if s.log != nil {
		s.log.AgentStateChanged(agentID.String(), "blocked", released)
	}

	return &StateChange{ReleasedLead: released}, nil
}

// Unblock clears the blocked flag and returns the agent to available.
// Administrative action only.
func (s *Service) Unblock(ctx context.Context, agentID uuid.UUID) error {
	return s.store.SetBlocked(ctx, agentID, false)
}

// Get fetches the agent's operational record.
func (s *Service) Get(ctx context.Context, agentID uuid.UUID) (*repository.Agent, error) {
	return s.store.GetByID(ctx, agentID)
}

// LiveState returns the agent's last heartbeat state. A false second return
// means no live session (expired or never started, or presence disabled).
func (s *Service) LiveState(ctx context.Context, agentID uuid.UUID) (domain.OperationalState, bool, error) {
	if s.presence == nil {
		return "", false, nil
	}
	return s.presence.State(ctx, agentID)
}

// OnlineCount counts agents with a live presence session. Zero when the
// presence store is disabled.
func (s *Service) OnlineCount(ctx context.Context) (int, error) {
	if s.presence == nil {
		return 0, nil
	}
	return s.presence.Online(ctx)
}

// IsBlocked implements the assignment engine's agent gate.
func (s *Service) IsBlocked(ctx context.Context, agentID uuid.UUID) (bool, error) {
	return s.store.IsBlocked(ctx, agentID)
}

// TouchActivity refreshes the agent's activity stamp. Failures are logged,
// never propagated: activity tracking must not break the claim path.
func (s *Service) TouchActivity(ctx context.Context, agentID uuid.UUID) {
	if err := s.store.TouchActivity(ctx, agentID); err != nil && s.log != nil {
		s.log.Warn("activity touch failed", "agent_id", agentID, "error", err)
	}
}
