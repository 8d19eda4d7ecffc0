package handler

import "time"

// --- Request types ---

type guestCountRequest struct {
	Adults   int `json:"adults"   validate:"required,gte=1"`
	Children int `json:"children" validate:"gte=0"`
	Infants  int `json:"infants"  validate:"gte=0"`
}

type createBookingRequest struct {
	ListingID       string            `json:"listingId"       validate:"required"`
	CheckIn         string            `json:"checkIn"         validate:"required"`
	CheckOut        string            `json:"checkOut"        validate:"required"`
	Guests          guestCountRequest `json:"guests"          validate:"required"`
	SpecialRequests string            `json:"specialRequests,omitempty" validate:"max=1000"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

type reviewBookingRequest struct {
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment,omitempty" validate:"max=1000"`
}

// --- Response types ---

type guestCountResponse struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

type reviewResponse struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type bookingResponse struct {
	ID                 string             `json:"id"`
	ListingID          string             `json:"listing_id"`
	GuestID            string             `json:"guest_id"`
	CheckIn            time.Time          `json:"check_in"`
	CheckOut           time.Time          `json:"check_out"`
	Guests             guestCountResponse `json:"guests"`
	TotalAmount        float64            `json:"total_amount"`
	Status             string             `json:"status"`
	PaymentStatus      string             `json:"payment_status"`
	SpecialRequests    string             `json:"special_requests,omitempty"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
	Review             *reviewResponse    `json:"review,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// listingSummaryResponse is the listing subset joined into booking views.
type listingSummaryResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	City         string  `json:"city"`
	NightlyPrice float64 `json:"nightly_price"`
}

// guestIdentityResponse is the guest subset joined into booking views.
type guestIdentityResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// bookingDetailResponse is a booking joined with listing and guest fields.
type bookingDetailResponse struct {
	bookingResponse
	Listing listingSummaryResponse `json:"listing"`
	Guest   guestIdentityResponse  `json:"guest"`
}
