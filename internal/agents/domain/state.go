// Package domain holds the agent operational state machine.
package domain

// OperationalState is an agent's self-reported working status. Available
// means the agent may claim leads; every other state is a pause and forces
// any held lead back into the pool.
type OperationalState string

const (
	StateAvailable OperationalState = "available"
	StateLunch     OperationalState = "lunch"
	StateBreak     OperationalState = "break"
	StateBathroom  OperationalState = "bathroom"
	StateTraining  OperationalState = "training"
	StateMeeting   OperationalState = "meeting"
)

var operationalStates = map[OperationalState]struct{}{
	StateAvailable: {},
	StateLunch:     {},
	StateBreak:     {},
	StateBathroom:  {},
	StateTraining:  {},
	StateMeeting:   {},
}

// IsValid reports whether s is one of the fixed operational states.
func (s OperationalState) IsValid() bool {
	_, ok := operationalStates[s]
	return ok
}

// IsPause reports whether s suspends lead work. A paused agent must not hold
// a claimed lead.
func (s OperationalState) IsPause() bool {
	return s.IsValid() && s != StateAvailable
}

// States returns the fixed operational-state list.
func States() []OperationalState {
	return []OperationalState{
		StateAvailable, StateLunch, StateBreak,
		StateBathroom, StateTraining, StateMeeting,
	}
}
