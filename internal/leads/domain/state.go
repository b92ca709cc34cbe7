// Package domain holds the lead state machine: the closed set of lead states,
// the disposition codes an agent can record, and the legal transitions
// between them. Repositories and services consult these tables instead of
// comparing raw strings so a newly added outcome cannot silently bypass the
// appointment-creation branch.
package domain

// State is the lifecycle state of a lead.
type State string

const (
	// StatePending is the initial state of every ingested lead.
	StatePending State = "pending"
	// StateInProgress means an agent currently holds the lead.
	StateInProgress State = "in_progress"

	// Re-workable outcomes: the lead returns to the eligibility pool.
	StateCallbackRequested State = "callback_requested"
	StateNoContact         State = "no_contact"
	StateWrongNumber       State = "wrong_number"

	// Terminal outcomes: the lead never re-enters the pool.
	StateNotInterested        State = "not_interested"
	StateAlreadyScheduled     State = "already_scheduled"
	StateUnreachable          State = "unreachable"
	StateAppointmentScheduled State = "appointment_scheduled"
)

// reWorkable are the states from which a lead may be claimed again.
var reWorkable = map[State]bool{
	StatePending:           true,
	StateCallbackRequested: true,
	StateNoContact:         true,
	StateWrongNumber:       true,
}

// terminal are the states a lead never leaves through normal agent flow.
var terminal = map[State]bool{
	StateNotInterested:        true,
	StateAlreadyScheduled:     true,
	StateUnreachable:          true,
	StateAppointmentScheduled: true,
}

// IsReWorkable reports whether a lead in this state is eligible for claiming.
func (s State) IsReWorkable() bool { return reWorkable[s] }

// IsTerminal reports whether this state ends the lead's working life.
func (s State) IsTerminal() bool { return terminal[s] }

// IsValid reports whether s is one of the defined lead states.
func (s State) IsValid() bool {
	return s == StateInProgress || reWorkable[s] || terminal[s]
}

// EligibleStates returns the states findNextEligible may select from,
// in a stable order suitable for SQL IN lists.
func EligibleStates() []State {
	return []State{StatePending, StateCallbackRequested, StateNoContact, StateWrongNumber}
}

// ReleaseTarget returns the state a released (pause/block/sweep) lead goes
// back to, given the state it was in before the claim. An unknown or
// non-re-workable prior state falls back to pending; release never lands a
// lead in a terminal or in-progress state.
func ReleaseTarget(previous State) State {
	if previous.IsReWorkable() {
		return previous
	}
	return StatePending
}

// RecyclableStates returns the states the bulk recycle operation may reset.
// Terminal "scheduled" and "not interested" outcomes are explicitly excluded;
// unreachable leads under the attempt ceiling are reclaimable.
func RecyclableStates() []State {
	return []State{
		StatePending,
		StateCallbackRequested,
		StateNoContact,
		StateWrongNumber,
		StateUnreachable,
	}
}

// Disposition is the recorded outcome of a contact attempt. The set of codes
// is closed; Apply is the single place that maps a code to its target state.
type Disposition string

const (
	DispositionCallbackRequested    Disposition = "callback_requested"
	DispositionNoContact            Disposition = "no_contact"
	DispositionWrongNumber          Disposition = "wrong_number"
	DispositionNotInterested        Disposition = "not_interested"
	DispositionAlreadyScheduled     Disposition = "already_scheduled"
	DispositionUnreachable          Disposition = "unreachable"
	DispositionAppointmentScheduled Disposition = "appointment_scheduled"
)

// Dispositions lists every valid disposition code.
func Dispositions() []Disposition {
	return []Disposition{
		DispositionCallbackRequested,
		DispositionNoContact,
		DispositionWrongNumber,
		DispositionNotInterested,
		DispositionAlreadyScheduled,
		DispositionUnreachable,
		DispositionAppointmentScheduled,
	}
}

// IsValid reports whether d is a defined disposition code.
func (d Disposition) IsValid() bool {
	switch d {
	case DispositionCallbackRequested, DispositionNoContact, DispositionWrongNumber,
		DispositionNotInterested, DispositionAlreadyScheduled, DispositionUnreachable,
		DispositionAppointmentScheduled:
		return true
	}
	return false
}

// TargetState returns the lead state this disposition transitions to.
// The switch is exhaustive over the closed code set; an unknown code maps to
// the empty state, which callers must reject before reaching the store.
func (d Disposition) TargetState() State {
	switch d {
	case DispositionCallbackRequested:
		return StateCallbackRequested
	case DispositionNoContact:
		return StateNoContact
	case DispositionWrongNumber:
		return StateWrongNumber
	case DispositionNotInterested:
		return StateNotInterested
	case DispositionAlreadyScheduled:
		return StateAlreadyScheduled
	case DispositionUnreachable:
		return StateUnreachable
	case DispositionAppointmentScheduled:
		return StateAppointmentScheduled
	}
	return ""
}

// CreatesAppointment reports whether recording this disposition must also
// insert an appointment row in the same transaction.
func (d Disposition) CreatesAppointment() bool {
	return d == DispositionAppointmentScheduled
}
