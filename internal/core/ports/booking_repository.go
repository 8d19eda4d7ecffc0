package ports

import (
	"context"
	"time"

	"github.com/stayhive/marketplace-api/internal/core/domain"
)

// ListBookingsFilter selects bookings for the list endpoints. Exactly one of
// GuestID or ListingIDs is set by the service layer.
type ListBookingsFilter struct {
	GuestID    string
	ListingIDs []string
	Status     domain.BookingStatus // optional
}

// BookingRepository defines persistence operations for bookings.
//
// CreateIfAvailable must treat the overlap check and the insert as one
// atomic operation against the listing: two concurrent creations with
// overlapping [check_in, check_out) intervals on the same listing must not
// both succeed.
type BookingRepository interface {
	// CreateIfAvailable inserts b unless an existing pending or confirmed
	// booking on the same listing overlaps its interval, in which case it
	// returns domain.ErrDatesUnavailable and writes nothing.
	CreateIfAvailable(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	// FindByID returns domain.ErrInvalidID on malformed identifiers and
	// domain.ErrBookingNotFound when no booking matches.
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// List returns bookings matching filter, newest-created first.
	List(ctx context.Context, filter ListBookingsFilter) ([]*domain.Booking, error)
	// UpdateStatus transitions the booking from the expected current status
	// in a single conditional write; domain.ErrInvalidTransition when the
	// stored status no longer matches from.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, updatedAt time.Time) error
	// Cancel sets the status to cancelled with the given reason, conditional
	// on the stored status still being pending or confirmed.
	Cancel(ctx context.Context, id, reason string, updatedAt time.Time) error
	// SetReview attaches the one-time review, conditional on the booking
	// being completed and not yet reviewed; domain.ErrAlreadyReviewed when
	// a review is already present.
	SetReview(ctx context.Context, id string, review *domain.Review) error
}
