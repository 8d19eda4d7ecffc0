package handler

import (
	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/ports"
)

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:        b.ID,
		ListingID: b.ListingID,
		GuestID:   b.GuestID,
		CheckIn:   b.CheckIn.UTC(),
		CheckOut:  b.CheckOut.UTC(),
		Guests: guestCountResponse{
			Adults:   b.Guests.Adults,
			Children: b.Guests.Children,
			Infants:  b.Guests.Infants,
		},
		TotalAmount:        b.TotalAmount,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		SpecialRequests:    b.SpecialRequests,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.UTC(),
		UpdatedAt:          b.UpdatedAt.UTC(),
	}
	if b.Review != nil {
		resp.Review = &reviewResponse{
			Rating:    b.Review.Rating,
			Comment:   b.Review.Comment,
			CreatedAt: b.Review.CreatedAt.UTC(),
		}
	}
	return resp
}

func toBookingDetailResponse(d *ports.BookingDetail) bookingDetailResponse {
	return bookingDetailResponse{
		bookingResponse: toBookingResponse(d.Booking),
		Listing: listingSummaryResponse{
			ID:           d.Listing.ID,
			Title:        d.Listing.Title,
			City:         d.Listing.City,
			NightlyPrice: d.Listing.NightlyPrice,
		},
		Guest: guestIdentityResponse{
			ID:    d.Guest.ID,
			Name:  d.Guest.Name,
			Email: d.Guest.Email,
		},
	}
}
