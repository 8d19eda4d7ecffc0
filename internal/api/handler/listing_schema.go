package handler

import "time"

// --- Request types ---

type coordinatesRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type addressRequest struct {
	Line        string             `json:"line"     validate:"required"`
	City        string             `json:"city"     validate:"required"`
	Country     string             `json:"country"  validate:"required"`
	ZipCode     string             `json:"zip_code"`
	Coordinates coordinatesRequest `json:"coordinates"`
}

type availabilityRequest struct {
	StartDate    string   `json:"start_date" validate:"required"`
	EndDate      string   `json:"end_date"   validate:"required"`
	BlockedDates []string `json:"blocked_dates,omitempty"`
}

type createListingRequest struct {
	Title        string               `json:"title"         validate:"required,max=200"`
	Description  string               `json:"description"   validate:"max=5000"`
	NightlyPrice float64              `json:"nightly_price" validate:"gte=0"`
	Address      addressRequest       `json:"address"       validate:"required"`
	Images       []string             `json:"images,omitempty"`
	Amenities    []string             `json:"amenities,omitempty"`
	PropertyType string               `json:"property_type" validate:"required,oneof=apartment house cabin villa studio"`
	RoomType     string               `json:"room_type"     validate:"required,oneof=entire_place private_room shared_room"`
	MaxGuests    int                  `json:"max_guests"    validate:"required,gte=1"`
	Bedrooms     int                  `json:"bedrooms"      validate:"gte=0"`
	Bathrooms    int                  `json:"bathrooms"     validate:"gte=0"`
	Availability availabilityRequest  `json:"availability"  validate:"required"`
	HouseRules   string               `json:"house_rules,omitempty" validate:"max=2000"`
}

// updateListingRequest merges into the stored listing; nil means untouched.
// Images append to the existing sequence.
type updateListingRequest struct {
	Title        *string              `json:"title,omitempty"         validate:"omitempty,max=200"`
	Description  *string              `json:"description,omitempty"   validate:"omitempty,max=5000"`
	NightlyPrice *float64             `json:"nightly_price,omitempty" validate:"omitempty,gte=0"`
	Address      *addressRequest      `json:"address,omitempty"`
	Images       []string             `json:"images,omitempty"`
	Amenities    []string             `json:"amenities,omitempty"`
	PropertyType *string              `json:"property_type,omitempty" validate:"omitempty,oneof=apartment house cabin villa studio"`
	RoomType     *string              `json:"room_type,omitempty"     validate:"omitempty,oneof=entire_place private_room shared_room"`
	MaxGuests    *int                 `json:"max_guests,omitempty"    validate:"omitempty,gte=1"`
	Bedrooms     *int                 `json:"bedrooms,omitempty"      validate:"omitempty,gte=0"`
	Bathrooms    *int                 `json:"bathrooms,omitempty"     validate:"omitempty,gte=0"`
	Availability *availabilityRequest `json:"availability,omitempty"`
	HouseRules   *string              `json:"house_rules,omitempty"   validate:"omitempty,max=2000"`
	Active       *bool                `json:"active,omitempty"`
}

// --- Response types ---

type ratingResponse struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type coordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type addressResponse struct {
	Line        string              `json:"line"`
	City        string              `json:"city"`
	Country     string              `json:"country"`
	ZipCode     string              `json:"zip_code,omitempty"`
	Coordinates coordinatesResponse `json:"coordinates"`
}

type availabilityResponse struct {
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	BlockedDates []time.Time `json:"blocked_dates,omitempty"`
}

type listingResponse struct {
	ID           string               `json:"id"`
	HostID       string               `json:"host_id"`
	Title        string               `json:"title"`
	Description  string               `json:"description,omitempty"`
	NightlyPrice float64              `json:"nightly_price"`
	Address      addressResponse      `json:"address"`
	Images       []string             `json:"images"`
	Amenities    []string             `json:"amenities"`
	PropertyType string               `json:"property_type"`
	RoomType     string               `json:"room_type"`
	MaxGuests    int                  `json:"max_guests"`
	Bedrooms     int                  `json:"bedrooms"`
	Bathrooms    int                  `json:"bathrooms"`
	Availability availabilityResponse `json:"availability"`
	HouseRules   string               `json:"house_rules,omitempty"`
	Rating       ratingResponse       `json:"rating"`
	Active       bool                 `json:"active"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type paginationResponse struct {
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

type listListingsResponse struct {
	Data       []listingResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
