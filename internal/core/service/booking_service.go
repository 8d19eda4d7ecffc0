package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/ports"
)

const (
	maxCancellationReasonLen = 500
	maxReviewCommentLen      = 1000
	defaultCancellationNote  = "no reason provided"
)

// DedupChecker absorbs duplicate booking submissions (Redis-backed).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, guestID, listingID string, checkIn, checkOut time.Time) (bool, error)
	Mark(ctx context.Context, guestID, listingID string, checkIn, checkOut time.Time) error
}

// BookingService implements the booking engine: creation with availability
// enforcement, lifecycle transitions, cancellation and review rollup.
type BookingService struct {
	bookings ports.BookingRepository
	listings ports.ListingRepository
	users    ports.UserRepository
	dedup    DedupChecker
	logger   zerolog.Logger
}

func NewBookingService(
	bookings ports.BookingRepository,
	listings ports.ListingRepository,
	users ports.UserRepository,
	dedup DedupChecker,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		listings: listings,
		users:    users,
		dedup:    dedup,
		logger:   logger,
	}
}

// Create validates the request against the listing and persists a pending
// booking. Preconditions are checked in a fixed order so failures are
// deterministic: listing existence/activity, capacity, dates, the listing's
// availability window, overlap with existing bookings.
func (s *BookingService) Create(ctx context.Context, input ports.CreateBookingInput) (*ports.BookingDetail, error) {
	if errs := validateGuestBreakdown(input.Guests); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	// 1. The listing must exist and be active.
	listing, err := s.listings.FindByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Active {
		return nil, domain.ErrListingNotAvailable
	}

	// 2. The requested party must fit the listing.
	guests := domain.GuestCount{
		Adults:   input.Guests.Adults,
		Children: input.Guests.Children,
		Infants:  input.Guests.Infants,
	}
	if guests.Total() > listing.MaxGuests {
		return nil, domain.ErrCapacityExceeded
	}

	// 3. Check-in must not be in the past; check-out strictly after check-in.
	today := startOfDay(time.Now().UTC())
	if input.CheckIn.Before(today) || !input.CheckOut.After(input.CheckIn) {
		return nil, domain.ErrInvalidDates
	}

	// 4. The stay must fall inside the listing's availability window and
	// clear its blocked dates.
	if !listing.Availability.Allows(input.CheckIn, input.CheckOut) {
		return nil, domain.ErrDatesUnavailable
	}

	if s.dedup != nil {
		isDup, derr := s.dedup.IsDuplicate(ctx, input.GuestID, input.ListingID, input.CheckIn, input.CheckOut)
		if derr != nil {
			s.logger.Warn().Err(derr).Str("listing_id", input.ListingID).Msg("dedup check failed, processing anyway")
		} else if isDup {
			return nil, domain.ErrDuplicateSubmission
		}
	}

	nights := domain.Nights(input.CheckIn, input.CheckOut)
	now := time.Now().UTC()
	booking := &domain.Booking{
		ListingID:       listing.ID,
		GuestID:         input.GuestID,
		CheckIn:         input.CheckIn,
		CheckOut:        input.CheckOut,
		Guests:          guests,
		TotalAmount:     float64(nights) * listing.NightlyPrice,
		Status:          domain.BookingPending,
		PaymentStatus:   domain.PaymentPending,
		SpecialRequests: input.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// 5. The overlap check and the insert run as one atomic operation.
	created, err := s.bookings.CreateIfAvailable(ctx, booking)
	if err != nil {
		if errors.Is(err, domain.ErrDatesUnavailable) {
			s.logger.Info().
				Str("listing_id", input.ListingID).
				Time("check_in", input.CheckIn).
				Time("check_out", input.CheckOut).
				Msg("booking rejected: dates unavailable")
			return nil, err
		}
		s.logger.Error().Err(err).Str("listing_id", input.ListingID).Msg("failed to create booking")
		return nil, err
	}

	if s.dedup != nil {
		if merr := s.dedup.Mark(ctx, input.GuestID, input.ListingID, input.CheckIn, input.CheckOut); merr != nil {
			s.logger.Warn().Err(merr).Str("booking_id", created.ID).Msg("failed to set dedup key")
		}
	}

	s.logger.Info().
		Str("booking_id", created.ID).
		Str("listing_id", listing.ID).
		Str("guest_id", input.GuestID).
		Int("nights", nights).
		Float64("total_amount", created.TotalAmount).
		Msg("booking created")

	return s.buildDetail(ctx, created, listing)
}

// List returns the caller's bookings, newest-created first. Scope "guest"
// lists bookings the caller made; "host" lists bookings on listings the
// caller owns.
func (s *BookingService) List(ctx context.Context, input ports.ListBookingsInput) ([]*domain.Booking, error) {
	filter := ports.ListBookingsFilter{}

	if input.Status != "" {
		st := domain.BookingStatus(input.Status)
		if !domain.ValidBookingStatus(st) {
			return nil, NewValidationError("status must be one of: pending, confirmed, completed, cancelled")
		}
		filter.Status = st
	}

	switch input.Scope {
	case ports.BookingScopeHost:
		listings, err := s.listings.ListByHost(ctx, input.CallerID)
		if err != nil {
			return nil, err
		}
		if len(listings) == 0 {
			return []*domain.Booking{}, nil
		}
		ids := make([]string, 0, len(listings))
		for _, l := range listings {
			ids = append(ids, l.ID)
		}
		filter.ListingIDs = ids
	case ports.BookingScopeGuest, "":
		filter.GuestID = input.CallerID
	default:
		return nil, NewValidationError("type must be one of: guest, host")
	}

	return s.bookings.List(ctx, filter)
}

// Get returns a single booking joined with listing and guest fields. The
// caller must be the booking's guest or the host of its listing.
func (s *BookingService) Get(ctx context.Context, id, callerID string) (*ports.BookingDetail, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.FindByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}
	if callerID != booking.GuestID && callerID != listing.HostID {
		return nil, domain.ErrForbidden
	}

	return s.buildDetail(ctx, booking, listing)
}

// UpdateStatus moves the booking lifecycle forward. Only the listing's host
// may confirm or complete a booking.
func (s *BookingService) UpdateStatus(ctx context.Context, id, callerID string, next domain.BookingStatus) (*domain.Booking, error) {
	if next != domain.BookingConfirmed && next != domain.BookingCompleted {
		return nil, NewValidationError("status must be one of: confirmed, completed")
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, booking.Status, next)
	}

	listing, err := s.listings.FindByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}
	if callerID != listing.HostID {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	if err := s.bookings.UpdateStatus(ctx, id, booking.Status, next, now); err != nil {
		return nil, err
	}

	booking.Status = next
	booking.UpdatedAt = now

	s.logger.Info().Str("booking_id", id).Str("status", string(next)).Msg("booking status updated")
	return booking, nil
}

// Cancel sets the booking to cancelled. Guests and the listing's host may
// cancel; cancelled and completed bookings may not be cancelled again.
func (s *BookingService) Cancel(ctx context.Context, id, callerID, reason string) (*domain.Booking, error) {
	if len(reason) > maxCancellationReasonLen {
		return nil, NewValidationError(fmt.Sprintf("reason must not exceed %d characters", maxCancellationReasonLen))
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case domain.BookingCancelled:
		return nil, domain.ErrAlreadyCancelled
	case domain.BookingCompleted:
		return nil, domain.ErrCannotCancel
	}

	listing, err := s.listings.FindByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}
	if callerID != booking.GuestID && callerID != listing.HostID {
		return nil, domain.ErrForbidden
	}

	if reason == "" {
		reason = defaultCancellationNote
	}

	now := time.Now().UTC()
	if err := s.bookings.Cancel(ctx, id, reason, now); err != nil {
		return nil, err
	}

	booking.Status = domain.BookingCancelled
	booking.CancellationReason = reason
	booking.UpdatedAt = now

	s.logger.Info().Str("booking_id", id).Str("caller_id", callerID).Msg("booking cancelled")
	return booking, nil
}

// Review attaches the guest's one-time review to a completed booking, then
// folds the rating into the listing aggregate as a single conditional
// update so concurrent reviews on the same listing cannot lose updates.
func (s *BookingService) Review(ctx context.Context, id, callerID string, rating int, comment string) (*domain.Booking, error) {
	var errs []string
	if rating < 1 || rating > 5 {
		errs = append(errs, "rating must be an integer between 1 and 5")
	}
	if len(comment) > maxReviewCommentLen {
		errs = append(errs, fmt.Sprintf("comment must not exceed %d characters", maxReviewCommentLen))
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingCompleted {
		return nil, domain.ErrReviewNotAllowed
	}
	if callerID != booking.GuestID {
		return nil, domain.ErrForbidden
	}
	if booking.Review != nil {
		return nil, domain.ErrAlreadyReviewed
	}

	// The rollup target must resolve before the review is stored.
	listing, err := s.listings.FindByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.bookings.SetReview(ctx, id, review); err != nil {
		return nil, err
	}

	if err := s.listings.ApplyReviewRating(ctx, listing.ID, rating); err != nil {
		s.logger.Error().Err(err).
			Str("booking_id", id).
			Str("listing_id", listing.ID).
			Msg("review stored but rating rollup failed")
		return nil, err
	}

	booking.Review = review

	s.logger.Info().
		Str("booking_id", id).
		Str("listing_id", booking.ListingID).
		Int("rating", rating).
		Msg("review submitted")
	return booking, nil
}

func (s *BookingService) buildDetail(ctx context.Context, b *domain.Booking, l *domain.Listing) (*ports.BookingDetail, error) {
	guest, err := s.users.FindByID(ctx, b.GuestID)
	if err != nil {
		return nil, err
	}

	return &ports.BookingDetail{
		Booking: b,
		Listing: ports.ListingSummary{
			ID:           l.ID,
			Title:        l.Title,
			City:         l.Address.City,
			NightlyPrice: l.NightlyPrice,
			HostID:       l.HostID,
		},
		Guest: ports.GuestIdentity{
			ID:    guest.ID,
			Name:  guest.Name,
			Email: guest.Email,
		},
	}, nil
}

func validateGuestBreakdown(g ports.GuestCountInput) []string {
	var errs []string
	if g.Adults < 1 {
		errs = append(errs, "guests.adults must be at least 1")
	}
	if g.Children < 0 {
		errs = append(errs, "guests.children must not be negative")
	}
	if g.Infants < 0 {
		errs = append(errs, "guests.infants must not be negative")
	}
	return errs
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
