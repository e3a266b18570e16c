package models

import "testing"

func TestBookingStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingNoShow, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingNoShow, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingNoShow, BookingCompleted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	terminal := []BookingStatus{BookingCompleted, BookingCancelled, BookingNoShow}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []BookingStatus{BookingPending, BookingConfirmed} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestBooking_Overlaps(t *testing.T) {
	b := Booking{Start: 540, End: 600} // [09:00, 10:00)

	tests := []struct {
		name       string
		start, end int
		want       bool
	}{
		{"identical", 540, 600, true},
		{"contained", 550, 590, true},
		{"straddles start", 500, 560, true},
		{"straddles end", 590, 650, true},
		{"abuts before", 480, 540, false},
		{"abuts after", 600, 660, false},
		{"disjoint", 700, 760, false},
	}
	for _, tt := range tests {
		if got := b.Overlaps(tt.start, tt.end); got != tt.want {
			t.Errorf("%s: Overlaps(%d, %d) = %v, want %v", tt.name, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestBooking_Active(t *testing.T) {
	for _, s := range []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted, BookingNoShow} {
		b := Booking{Status: s}
		if !b.Active() {
			t.Errorf("%s booking should still occupy its interval", s)
		}
	}
	cancelled := Booking{Status: BookingCancelled}
	if cancelled.Active() {
		t.Errorf("cancelled booking should release its interval")
	}
}
