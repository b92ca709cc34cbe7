// Package notification subscribes to domain events for the activity feed.
// Delivery channels (SMS, email, dialer pop) live outside this service; this
// module records what happened so supervisors can follow the floor in the logs.
package notification

import (
	"context"

	"callcenter_backend/internal/events"
	"callcenter_backend/platform/logger"
)

// Module is the event subscriber.
type Module struct {
	log *logger.Logger
}

func NewModule(log *logger.Logger) *Module {
	return &Module{log: log}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.LeadClaimed{}.EventName(), m)
	bus.Subscribe(events.DispositionRecorded{}.EventName(), m)
	bus.Subscribe(events.AppointmentScheduled{}.EventName(), m)
	bus.Subscribe(events.AgentBlocked{}.EventName(), m)
	bus.Subscribe(events.StaleLeadsReleased{}.EventName(), m)
	bus.Subscribe(events.BatchRecycled{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadClaimed:
		m.log.Info("notify: lead claimed",
			"lead_id", e.LeadID, "agent_id", e.AgentID, "attempt", e.AttemptCount)
	case events.DispositionRecorded:
		m.log.Info("notify: disposition recorded",
			"lead_id", e.LeadID, "agent_id", e.AgentID, "outcome", e.Outcome)
	case events.AppointmentScheduled:
		m.log.Info("notify: appointment scheduled",
			"appointment_id", e.AppointmentID, "lead_id", e.LeadID,
			"scheduled_at", e.ScheduledAt, "location", e.Location)
	case events.AgentBlocked:
		m.log.Warn("notify: agent blocked", "agent_id", e.AgentID)
	case events.StaleLeadsReleased:
		if len(e.LeadIDs) > 0 {
			m.log.Info("notify: stale leads released", "count", len(e.LeadIDs))
		}
	case events.BatchRecycled:
		m.log.Info("notify: batch recycled", "batch_id", e.BatchID, "affected", e.Affected)
	}
	return nil
}
