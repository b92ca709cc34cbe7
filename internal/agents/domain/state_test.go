package domain

import "testing"

func TestOperationalStateValidity(t *testing.T) {
	for _, s := range States() {
		if !s.IsValid() {
			t.Fatalf("state %q should be valid", s)
		}
	}
	for _, s := range []OperationalState{"", "offline", "Available", "almuerzo"} {
		if s.IsValid() {
			t.Fatalf("state %q should be invalid", s)
		}
	}
}

func TestIsPause(t *testing.T) {
	if StateAvailable.IsPause() {
		t.Fatalf("available is not a pause")
	}
	for _, s := range []OperationalState{StateLunch, StateBreak, StateBathroom, StateTraining, StateMeeting} {
		if !s.IsPause() {
			t.Fatalf("state %q should be a pause", s)
		}
	}
	if OperationalState("offline").IsPause() {
		t.Fatalf("invalid state must not count as a pause")
	}
}
