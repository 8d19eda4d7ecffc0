package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/ports"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

// ListingService implements the listing catalog use cases.
type ListingService struct {
	repo   ports.ListingRepository
	logger zerolog.Logger
}

func NewListingService(repo ports.ListingRepository, logger zerolog.Logger) *ListingService {
	return &ListingService{repo: repo, logger: logger}
}

// Search returns a page of active listings matching the filters.
func (s *ListingService) Search(ctx context.Context, input ports.SearchListingsInput) (*ports.SearchListingsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := ports.SearchListingsFilter{
		City:     input.City,
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		Guests:   input.Guests,
		Page:     page,
		Limit:    limit,
	}
	if input.PropertyType != "" {
		pt := domain.PropertyType(input.PropertyType)
		if !domain.ValidPropertyType(pt) {
			return nil, NewValidationError("property_type must be one of: apartment, house, cabin, villa, studio")
		}
		filter.PropertyType = pt
	}

	items, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("city", input.City).Msg("listing search failed")
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &ports.SearchListingsResult{
		Items:           items,
		Total:           total,
		Page:            page,
		Limit:           limit,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1 && total > 0,
	}, nil
}

// Get returns a listing for public view. Inactive listings are hidden.
func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.Active {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

// MyListings returns every listing owned by the host, active or not.
func (s *ListingService) MyListings(ctx context.Context, hostID string) ([]*domain.Listing, error) {
	return s.repo.ListByHost(ctx, hostID)
}

func (s *ListingService) Create(ctx context.Context, input ports.CreateListingInput) (*domain.Listing, error) {
	if errs := validateListingInput(input); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	now := time.Now().UTC()
	listing := &domain.Listing{
		HostID:       input.HostID,
		Title:        input.Title,
		Description:  input.Description,
		NightlyPrice: input.NightlyPrice,
		Address:      input.Address,
		Images:       input.Images,
		Amenities:    input.Amenities,
		PropertyType: input.PropertyType,
		RoomType:     input.RoomType,
		MaxGuests:    input.MaxGuests,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		Availability: input.Availability,
		HouseRules:   input.HouseRules,
		Rating:       domain.Rating{},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		s.logger.Error().Err(err).Str("host_id", input.HostID).Msg("failed to create listing")
		return nil, err
	}

	s.logger.Info().Str("listing_id", created.ID).Str("host_id", created.HostID).Msg("listing created")
	return created, nil
}

// Update merges the supplied fields into the listing. Only the owning host
// may update; new images append to the existing sequence.
func (s *ListingService) Update(ctx context.Context, id, callerID string, update ports.ListingUpdate) (*domain.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.HostID != callerID {
		return nil, domain.ErrForbidden
	}
	if errs := validateListingUpdate(update); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	updated, err := s.repo.Update(ctx, id, update, time.Now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("listing_id", id).Msg("failed to update listing")
		return nil, err
	}
	return updated, nil
}

// Delete deactivates the listing. It disappears from public reads while
// bookings made against it stay reachable.
func (s *ListingService) Delete(ctx context.Context, id, callerID string) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.HostID != callerID {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("listing_id", id).Msg("failed to delete listing")
		return err
	}

	s.logger.Info().Str("listing_id", id).Str("host_id", callerID).Msg("listing deleted")
	return nil
}

// validateListingInput enumerates every failing field, not just the first.
func validateListingInput(input ports.CreateListingInput) []string {
	var errs []string
	if input.Title == "" {
		errs = append(errs, "title is required")
	}
	if input.NightlyPrice < 0 {
		errs = append(errs, "nightly_price must not be negative")
	}
	if input.MaxGuests < 1 {
		errs = append(errs, "max_guests must be at least 1")
	}
	if !domain.ValidPropertyType(input.PropertyType) {
		errs = append(errs, "property_type is not a known property type")
	}
	if !domain.ValidRoomType(input.RoomType) {
		errs = append(errs, "room_type is not a known room type")
	}
	for _, a := range input.Amenities {
		if !domain.ValidAmenity(a) {
			errs = append(errs, "amenities contains unknown tag: "+string(a))
		}
	}
	if !input.Availability.EndDate.IsZero() && !input.Availability.EndDate.After(input.Availability.StartDate) {
		errs = append(errs, "availability end_date must be after start_date")
	}
	return errs
}

func validateListingUpdate(update ports.ListingUpdate) []string {
	var errs []string
	if update.Title != nil && *update.Title == "" {
		errs = append(errs, "title must not be empty")
	}
	if update.NightlyPrice != nil && *update.NightlyPrice < 0 {
		errs = append(errs, "nightly_price must not be negative")
	}
	if update.MaxGuests != nil && *update.MaxGuests < 1 {
		errs = append(errs, "max_guests must be at least 1")
	}
	if update.PropertyType != nil && !domain.ValidPropertyType(*update.PropertyType) {
		errs = append(errs, "property_type is not a known property type")
	}
	if update.RoomType != nil && !domain.ValidRoomType(*update.RoomType) {
		errs = append(errs, "room_type is not a known room type")
	}
	for _, a := range update.Amenities {
		if !domain.ValidAmenity(a) {
			errs = append(errs, "amenities contains unknown tag: "+string(a))
		}
	}
	return errs
}

// ValidationError carries every failing field of a request.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msg := e.Fields[0]
	for _, f := range e.Fields[1:] {
		msg += "; " + f
	}
	return msg
}

// IsValidationError reports whether err is a ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
