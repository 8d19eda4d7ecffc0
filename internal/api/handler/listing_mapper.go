package handler

import (
	"time"

	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/ports"
	"github.com/stayhive/marketplace-api/internal/core/service"
)

// --- Request to service input ---

func toCreateListingInput(req createListingRequest, hostID string) (ports.CreateListingInput, error) {
	availability, err := toAvailability(req.Availability)
	if err != nil {
		return ports.CreateListingInput{}, err
	}

	return ports.CreateListingInput{
		HostID:       hostID,
		Title:        req.Title,
		Description:  req.Description,
		NightlyPrice: req.NightlyPrice,
		Address:      toAddress(req.Address),
		Images:       req.Images,
		Amenities:    toAmenities(req.Amenities),
		PropertyType: domain.PropertyType(req.PropertyType),
		RoomType:     domain.RoomType(req.RoomType),
		MaxGuests:    req.MaxGuests,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Availability: availability,
		HouseRules:   req.HouseRules,
	}, nil
}

func toListingUpdate(req updateListingRequest) (ports.ListingUpdate, error) {
	update := ports.ListingUpdate{
		Title:        req.Title,
		Description:  req.Description,
		NightlyPrice: req.NightlyPrice,
		Images:       req.Images,
		Amenities:    toAmenities(req.Amenities),
		MaxGuests:    req.MaxGuests,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		HouseRules:   req.HouseRules,
		Active:       req.Active,
	}
	if req.Address != nil {
		addr := toAddress(*req.Address)
		update.Address = &addr
	}
	if req.PropertyType != nil {
		pt := domain.PropertyType(*req.PropertyType)
		update.PropertyType = &pt
	}
	if req.RoomType != nil {
		rt := domain.RoomType(*req.RoomType)
		update.RoomType = &rt
	}
	if req.Availability != nil {
		availability, err := toAvailability(*req.Availability)
		if err != nil {
			return ports.ListingUpdate{}, err
		}
		update.Availability = &availability
	}
	return update, nil
}

func toAddress(a addressRequest) domain.Address {
	return domain.Address{
		Line:    a.Line,
		City:    a.City,
		Country: a.Country,
		ZipCode: a.ZipCode,
		Coordinates: domain.Coordinates{
			Lat: a.Coordinates.Lat,
			Lng: a.Coordinates.Lng,
		},
	}
}

func toAmenities(tags []string) []domain.Amenity {
	if tags == nil {
		return nil
	}
	out := make([]domain.Amenity, 0, len(tags))
	for _, t := range tags {
		out = append(out, domain.Amenity(t))
	}
	return out
}

// toAvailability parses the date-only availability window.
func toAvailability(a availabilityRequest) (domain.Availability, error) {
	start, err := parseDate(a.StartDate)
	if err != nil {
		return domain.Availability{}, service.NewValidationError("availability.start_date must be a date (YYYY-MM-DD)")
	}
	end, err := parseDate(a.EndDate)
	if err != nil {
		return domain.Availability{}, service.NewValidationError("availability.end_date must be a date (YYYY-MM-DD)")
	}

	availability := domain.Availability{StartDate: start, EndDate: end}
	for _, d := range a.BlockedDates {
		blocked, err := parseDate(d)
		if err != nil {
			return domain.Availability{}, service.NewValidationError("availability.blocked_dates must contain dates (YYYY-MM-DD)")
		}
		availability.BlockedDates = append(availability.BlockedDates, blocked)
	}
	return availability, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

// --- Domain to HTTP response ---

func toListingResponse(l *domain.Listing) listingResponse {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	amenities := make([]string, 0, len(l.Amenities))
	for _, a := range l.Amenities {
		amenities = append(amenities, string(a))
	}

	return listingResponse{
		ID:           l.ID,
		HostID:       l.HostID,
		Title:        l.Title,
		Description:  l.Description,
		NightlyPrice: l.NightlyPrice,
		Address: addressResponse{
			Line:    l.Address.Line,
			City:    l.Address.City,
			Country: l.Address.Country,
			ZipCode: l.Address.ZipCode,
			Coordinates: coordinatesResponse{
				Lat: l.Address.Coordinates.Lat,
				Lng: l.Address.Coordinates.Lng,
			},
		},
		Images:       images,
		Amenities:    amenities,
		PropertyType: string(l.PropertyType),
		RoomType:     string(l.RoomType),
		MaxGuests:    l.MaxGuests,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Availability: availabilityResponse{
			StartDate:    l.Availability.StartDate,
			EndDate:      l.Availability.EndDate,
			BlockedDates: l.Availability.BlockedDates,
		},
		HouseRules: l.HouseRules,
		Rating: ratingResponse{
			Average: l.Rating.Average,
			Count:   l.Rating.Count,
		},
		Active:    l.Active,
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
	}
}

func toListListingsResponse(result *ports.SearchListingsResult) listListingsResponse {
	data := make([]listingResponse, 0, len(result.Items))
	for _, l := range result.Items {
		data = append(data, toListingResponse(l))
	}
	return listListingsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:           result.Total,
			Page:            result.Page,
			Limit:           result.Limit,
			TotalPages:      result.TotalPages,
			HasNextPage:     result.HasNextPage,
			HasPreviousPage: result.HasPreviousPage,
		},
	}
}
