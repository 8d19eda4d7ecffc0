package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"one night", date(2025, 7, 1), date(2025, 7, 2), 1},
		{"four nights", date(2025, 7, 1), date(2025, 7, 5), 4},
		{"partial day rounds up", date(2025, 7, 1), date(2025, 7, 2).Add(6 * time.Hour), 2},
		{"across month boundary", date(2025, 7, 30), date(2025, 8, 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nights(tt.checkIn, tt.checkOut); got != tt.want {
				t.Fatalf("Nights(%v, %v) = %d, want %d", tt.checkIn, tt.checkOut, got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 time.Time
		want           bool
	}{
		{"identical", date(2025, 7, 1), date(2025, 7, 5), date(2025, 7, 1), date(2025, 7, 5), true},
		{"partial overlap", date(2025, 7, 1), date(2025, 7, 5), date(2025, 7, 4), date(2025, 7, 6), true},
		{"contained", date(2025, 7, 1), date(2025, 7, 10), date(2025, 7, 3), date(2025, 7, 5), true},
		{"back to back does not conflict", date(2025, 7, 1), date(2025, 7, 5), date(2025, 7, 5), date(2025, 7, 7), false},
		{"disjoint", date(2025, 7, 1), date(2025, 7, 3), date(2025, 7, 10), date(2025, 7, 12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a1, tt.a2, tt.b1, tt.b2); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.b1, tt.b2, tt.a1, tt.a2); got != tt.want {
				t.Fatalf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingConfirmed, BookingCompleted, true},
		{BookingPending, BookingCompleted, false},
		{BookingCompleted, BookingConfirmed, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCompleted, BookingCompleted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Fatalf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestBooking_Blocks(t *testing.T) {
	for status, want := range map[BookingStatus]bool{
		BookingPending:   true,
		BookingConfirmed: true,
		BookingCompleted: false,
		BookingCancelled: false,
	} {
		b := Booking{Status: status}
		if got := b.Blocks(); got != want {
			t.Fatalf("Blocks() with status %s = %v, want %v", status, got, want)
		}
	}
}

func TestGuestCount_Total(t *testing.T) {
	g := GuestCount{Adults: 3, Children: 1, Infants: 0}
	if got := g.Total(); got != 4 {
		t.Fatalf("Total() = %d, want 4", got)
	}
}
