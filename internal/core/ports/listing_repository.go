package ports

import (
	"context"
	"time"

	"github.com/stayhive/marketplace-api/internal/core/domain"
)

// SearchListingsFilter carries all query parameters for the public search.
// Only active listings are ever returned by Search.
type SearchListingsFilter struct {
	City         string  // case-insensitive partial match
	MinPrice     float64 // 0 = no lower bound
	MaxPrice     float64 // 0 = no upper bound
	Guests       int     // minimum capacity, 0 = any
	PropertyType domain.PropertyType
	Page         int // 1-based
	Limit        int // rows per page, capped at 50 by the service
}

// ListingUpdate carries the client-mutable listing fields. Nil fields are
// left untouched; Images are appended to the existing sequence, never
// replacing it. Host and rating fields are deliberately absent.
type ListingUpdate struct {
	Title        *string
	Description  *string
	NightlyPrice *float64
	Address      *domain.Address
	Images       []string
	Amenities    []domain.Amenity
	PropertyType *domain.PropertyType
	RoomType     *domain.RoomType
	MaxGuests    *int
	Bedrooms     *int
	Bathrooms    *int
	Availability *domain.Availability
	HouseRules   *string
	Active       *bool
}

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error)
	// FindByID retrieves a listing regardless of its active flag.
	// Returns domain.ErrInvalidID on malformed identifiers.
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	ListByHost(ctx context.Context, hostID string) ([]*domain.Listing, error)
	// Search returns a page of active listings matching filter plus the total count.
	Search(ctx context.Context, filter SearchListingsFilter) ([]*domain.Listing, int64, error)
	Update(ctx context.Context, id string, update ListingUpdate, updatedAt time.Time) (*domain.Listing, error)
	// Delete deactivates the listing. The document is kept so existing
	// bookings keep resolving their listing.
	Delete(ctx context.Context, id string) error
	// ApplyReviewRating folds one review rating into the listing's aggregate
	// as a single conditional update: average and count move together, so
	// concurrent reviews on the same listing cannot lose updates.
	ApplyReviewRating(ctx context.Context, listingID string, rating int) error
}
