// Package events defines the domain events published by the call-center
// modules. Event names are namespaced by module.
package events

import (
	"time"

	platformevents "callcenter_backend/platform/events"

	"github.com/google/uuid"
)

// Re-exported platform types so modules need a single import.
type (
	Event       = platformevents.Event
	BaseEvent   = platformevents.BaseEvent
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	Bus         = platformevents.Bus
)

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}

// LeadClaimed is published when the assignment engine hands a lead to an agent.
type LeadClaimed struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	AgentID      uuid.UUID `json:"agentId"`
	AttemptCount int       `json:"attemptCount"`
}

func (e LeadClaimed) EventName() string { return "leads.claimed" }

// DispositionRecorded is published after a disposition commits.
type DispositionRecorded struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	AgentID       uuid.UUID `json:"agentId"`
	Outcome       string    `json:"outcome"`
	AttemptNumber int       `json:"attemptNumber"`
	Terminal      bool      `json:"terminal"`
}

func (e DispositionRecorded) EventName() string { return "leads.disposition_recorded" }

// AppointmentScheduled is published when a scheduling disposition creates an
// appointment. Notification delivery subscribes to this.
type AppointmentScheduled struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	LeadID        uuid.UUID `json:"leadId"`
	AgentID       uuid.UUID `json:"agentId"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	Location      string    `json:"location"`
}

func (e AppointmentScheduled) EventName() string { return "appointments.scheduled" }

// AgentBlocked is published when an agent is blocked (inactivity or self).
type AgentBlocked struct {
	BaseEvent
	AgentID      uuid.UUID  `json:"agentId"`
	ReleasedLead *uuid.UUID `json:"releasedLead,omitempty"`
}

func (e AgentBlocked) EventName() string { return "agents.blocked" }

// StaleLeadsReleased is published after a reclamation sweep.
type StaleLeadsReleased struct {
	BaseEvent
	LeadIDs   []uuid.UUID   `json:"leadIds"`
	Threshold time.Duration `json:"threshold"`
}

func (e StaleLeadsReleased) EventName() string { return "leads.stale_released" }

// BatchRecycled is published after an administrative bulk recycle.
type BatchRecycled struct {
	BaseEvent
	BatchID  uuid.UUID `json:"batchId"`
	Affected int64     `json:"affected"`
}

func (e BatchRecycled) EventName() string { return "leads.batch_recycled" }
