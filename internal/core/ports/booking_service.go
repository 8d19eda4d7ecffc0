package ports

import (
	"context"
	"time"

	"github.com/stayhive/marketplace-api/internal/core/domain"
)

// List scope selectors for GET /bookings.
const (
	BookingScopeGuest = "guest"
	BookingScopeHost  = "host"
)

// GuestCountInput is the guest breakdown supplied on creation.
type GuestCountInput struct {
	Adults   int
	Children int
	Infants  int
}

// CreateBookingInput carries all data needed to create a booking.
// GuestID is the authenticated caller; it is never taken from the payload.
type CreateBookingInput struct {
	ListingID       string
	GuestID         string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          GuestCountInput
	SpecialRequests string
}

// ListBookingsInput selects bookings visible to the caller.
// Scope "guest" lists bookings the caller made; "host" lists bookings on
// any listing the caller owns.
type ListBookingsInput struct {
	CallerID string
	Scope    string
	Status   string // optional
}

// ListingSummary is the subset of listing fields joined into booking views.
type ListingSummary struct {
	ID           string
	Title        string
	City         string
	NightlyPrice float64
	HostID       string
}

// GuestIdentity is the subset of guest fields joined into booking views.
type GuestIdentity struct {
	ID    string
	Name  string
	Email string
}

// BookingDetail is a booking joined with its listing summary and guest identity.
type BookingDetail struct {
	Booking *domain.Booking
	Listing ListingSummary
	Guest   GuestIdentity
}

// BookingService defines use-case operations for the booking engine.
type BookingService interface {
	Create(ctx context.Context, input CreateBookingInput) (*BookingDetail, error)
	List(ctx context.Context, input ListBookingsInput) ([]*domain.Booking, error)
	// Get requires the caller to be the booking's guest or the listing's host.
	Get(ctx context.Context, id, callerID string) (*BookingDetail, error)
	// UpdateStatus moves the lifecycle forward (confirm, complete); only the
	// listing's host may call it.
	UpdateStatus(ctx context.Context, id, callerID string, next domain.BookingStatus) (*domain.Booking, error)
	Cancel(ctx context.Context, id, callerID, reason string) (*domain.Booking, error)
	Review(ctx context.Context, id, callerID string, rating int, comment string) (*domain.Booking, error)
}
