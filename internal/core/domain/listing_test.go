package domain

import (
	"testing"
	"time"
)

func TestAvailability_Allows(t *testing.T) {
	window := Availability{
		StartDate:    date(2030, 7, 1),
		EndDate:      date(2030, 8, 1),
		BlockedDates: []time.Time{date(2030, 7, 10)},
	}

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     bool
	}{
		{"inside window", date(2030, 7, 2), date(2030, 7, 5), true},
		{"exact window", date(2030, 7, 1), date(2030, 8, 1), false}, // spans the blocked date
		{"starts before window", date(2030, 6, 28), date(2030, 7, 3), false},
		{"ends after window", date(2030, 7, 28), date(2030, 8, 2), false},
		{"spans blocked date", date(2030, 7, 9), date(2030, 7, 11), false},
		{"checkout on blocked date", date(2030, 7, 8), date(2030, 7, 10), true},
		{"checkin on blocked date", date(2030, 7, 10), date(2030, 7, 12), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := window.Allows(tt.checkIn, tt.checkOut); got != tt.want {
				t.Fatalf("Allows(%v, %v) = %v, want %v", tt.checkIn, tt.checkOut, got, tt.want)
			}
		})
	}
}

func TestAvailability_Allows_ZeroWindowIsOpen(t *testing.T) {
	var unbounded Availability
	if !unbounded.Allows(date(2030, 7, 1), date(2031, 7, 1)) {
		t.Fatalf("zero window should allow any stay")
	}
}
