package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusDraft, StatusPending, true},
		{StatusDraft, StatusDraft, true},
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusDraft, false},
		{StatusConfirmed, StatusDraft, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCancelled, true},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Fatalf("%s.CanTransition(%s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStatusSets(t *testing.T) {
	for _, s := range BlockingStatuses {
		if !s.Blocks() || s.Terminal() {
			t.Fatalf("%s: Blocks=%v Terminal=%v", s, s.Blocks(), s.Terminal())
		}
	}
	for _, s := range TerminalStatuses {
		if s.Blocks() || !s.Terminal() {
			t.Fatalf("%s: Blocks=%v Terminal=%v", s, s.Blocks(), s.Terminal())
		}
	}
	for _, s := range []BookingStatus{StatusDraft, StatusReadyForPayment} {
		if s.Blocks() {
			t.Fatalf("%s should not block", s)
		}
	}
}
