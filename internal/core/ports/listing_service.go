package ports

import (
	"context"

	"github.com/stayhive/marketplace-api/internal/core/domain"
)

// CreateListingInput carries all data needed to publish a listing.
type CreateListingInput struct {
	HostID       string
	Title        string
	Description  string
	NightlyPrice float64
	Address      domain.Address
	Images       []string
	Amenities    []domain.Amenity
	PropertyType domain.PropertyType
	RoomType     domain.RoomType
	MaxGuests    int
	Bedrooms     int
	Bathrooms    int
	Availability domain.Availability
	HouseRules   string
}

// SearchListingsInput carries all parameters for the public search endpoint.
type SearchListingsInput struct {
	City         string
	MinPrice     float64
	MaxPrice     float64
	Guests       int
	PropertyType string
	Page         int
	Limit        int
}

// SearchListingsResult is a page of listings plus pagination metadata.
type SearchListingsResult struct {
	Items           []*domain.Listing
	Total           int64
	Page            int
	Limit           int
	TotalPages      int
	HasNextPage     bool
	HasPreviousPage bool
}

// ListingService defines use-case operations for the listing catalog.
type ListingService interface {
	Search(ctx context.Context, input SearchListingsInput) (*SearchListingsResult, error)
	// Get returns a listing for public view; inactive listings read as not found.
	Get(ctx context.Context, id string) (*domain.Listing, error)
	// MyListings returns all listings owned by the host, including inactive ones.
	MyListings(ctx context.Context, hostID string) ([]*domain.Listing, error)
	Create(ctx context.Context, input CreateListingInput) (*domain.Listing, error)
	Update(ctx context.Context, id, callerID string, update ListingUpdate) (*domain.Listing, error)
	Delete(ctx context.Context, id, callerID string) error
}
