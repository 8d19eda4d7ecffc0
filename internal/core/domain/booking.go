package domain

import (
	"errors"
	"math"
	"time"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// PaymentStatus tracks the payment state of a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// validTransitions defines the allowed lifecycle transitions. Cancellation
// goes through the dedicated cancel operation, not a status update.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed},
	BookingConfirmed: {BookingCompleted},
}

var ErrBookingNotFound = errors.New("booking not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrCapacityExceeded = errors.New("guest count exceeds listing capacity")
var ErrInvalidDates = errors.New("invalid booking dates")
var ErrDatesUnavailable = errors.New("dates not available")
var ErrDuplicateSubmission = errors.New("duplicate booking submission")
var ErrAlreadyCancelled = errors.New("booking already cancelled")
var ErrCannotCancel = errors.New("completed booking cannot be cancelled")
var ErrAlreadyReviewed = errors.New("booking already reviewed")
var ErrReviewNotAllowed = errors.New("review allowed only on completed bookings")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidBookingStatus reports whether s is one of the known booking statuses.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// GuestCount is the breakdown of guests on a booking.
type GuestCount struct {
	Adults   int `json:"adults" bson:"adults"`
	Children int `json:"children" bson:"children"`
	Infants  int `json:"infants" bson:"infants"`
}

// Total returns the total number of guests.
func (g GuestCount) Total() int {
	return g.Adults + g.Children + g.Infants
}

// Review is the one-time guest review attached to a completed booking.
type Review struct {
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Booking is a date-ranged reservation of a listing by a guest.
// The [CheckIn, CheckOut) interval is half-open: back-to-back stays that
// share a boundary date do not conflict.
type Booking struct {
	ID                 string        `json:"id" bson:"_id,omitempty"`
	ListingID          string        `json:"listing_id" bson:"listing_id"`
	GuestID            string        `json:"guest_id" bson:"guest_id"`
	CheckIn            time.Time     `json:"check_in" bson:"check_in"`
	CheckOut           time.Time     `json:"check_out" bson:"check_out"`
	Guests             GuestCount    `json:"guests" bson:"guests"`
	TotalAmount        float64       `json:"total_amount" bson:"total_amount"`
	Status             BookingStatus `json:"status" bson:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status" bson:"payment_status"`
	SpecialRequests    string        `json:"special_requests,omitempty" bson:"special_requests,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	Review             *Review       `json:"review,omitempty" bson:"review,omitempty"`
	CreatedAt          time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" bson:"updated_at"`
}

// Blocks reports whether the booking's status makes its interval count
// against availability.
func (b *Booking) Blocks() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Overlaps reports whether [a1,a2) and [b1,b2) share at least one night.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// Nights returns the whole-day count between check-in and check-out,
// rounding partial days up.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}
