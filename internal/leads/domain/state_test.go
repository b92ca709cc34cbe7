package domain

import "testing"

func TestReWorkableAndTerminalAreDisjoint(t *testing.T) {
	all := []State{
		StatePending, StateInProgress, StateCallbackRequested, StateNoContact,
		StateWrongNumber, StateNotInterested, StateAlreadyScheduled,
		StateUnreachable, StateAppointmentScheduled,
	}

	for _, s := range all {
		if s.IsReWorkable() && s.IsTerminal() {
			t.Fatalf("state %q is both re-workable and terminal", s)
		}
		if !s.IsValid() {
			t.Fatalf("state %q reported invalid", s)
		}
	}

	if StateInProgress.IsReWorkable() || StateInProgress.IsTerminal() {
		t.Fatalf("in_progress must be neither re-workable nor terminal")
	}
}

func TestEveryDispositionHasATargetState(t *testing.T) {
	for _, d := range Dispositions() {
		target := d.TargetState()
		if target == "" {
			t.Fatalf("disposition %q has no target state", d)
		}
		if !target.IsValid() {
			t.Fatalf("disposition %q targets invalid state %q", d, target)
		}
		if target == StateInProgress || target == StatePending {
			t.Fatalf("disposition %q must not target %q", d, target)
		}
	}

	if got := Disposition("made_up").TargetState(); got != "" {
		t.Fatalf("unknown disposition mapped to %q", got)
	}
	if Disposition("made_up").IsValid() {
		t.Fatalf("unknown disposition reported valid")
	}
}

func TestOnlySchedulingOutcomeCreatesAppointment(t *testing.T) {
	for _, d := range Dispositions() {
		want := d == DispositionAppointmentScheduled
		if got := d.CreatesAppointment(); got != want {
			t.Fatalf("CreatesAppointment(%q) = %v, want %v", d, got, want)
		}
	}
}

func TestReleaseTargetRestoresPriorReWorkableState(t *testing.T) {
	cases := map[State]State{
		StatePending:              StatePending,
		StateCallbackRequested:    StateCallbackRequested,
		StateNoContact:            StateNoContact,
		StateWrongNumber:          StateWrongNumber,
		StateInProgress:           StatePending,
		StateNotInterested:        StatePending,
		StateAppointmentScheduled: StatePending,
		State(""):                 StatePending,
	}

	for prior, want := range cases {
		if got := ReleaseTarget(prior); got != want {
			t.Fatalf("ReleaseTarget(%q) = %q, want %q", prior, got, want)
		}
	}
}

func TestRecyclableStatesExcludeScheduledAndNotInterested(t *testing.T) {
	for _, s := range RecyclableStates() {
		switch s {
		case StateAppointmentScheduled, StateNotInterested, StateAlreadyScheduled:
			t.Fatalf("state %q must not be recyclable", s)
		case StateInProgress:
			t.Fatalf("in_progress leads are reclaimed by the sweeper, not recycle")
		}
	}

	found := false
	for _, s := range RecyclableStates() {
		if s == StateUnreachable {
			found = true
		}
	}
	if !found {
		t.Fatalf("unreachable leads under the ceiling must be recyclable")
	}
}
