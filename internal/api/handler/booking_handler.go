package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stayhive/marketplace-api/internal/api/metrics"
	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/ports"
	"github.com/stayhive/marketplace-api/internal/core/service"
)

// BookingHandler handles HTTP requests for the booking engine.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /bookings.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking details"
// @Success      201   {object}  bookingDetailResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return service.NewValidationError("checkIn must be a date (YYYY-MM-DD)")
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return service.NewValidationError("checkOut must be a date (YYYY-MM-DD)")
	}

	detail, err := h.service.Create(c.Request().Context(), ports.CreateBookingInput{
		ListingID: req.ListingID,
		GuestID:   callerID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests: ports.GuestCountInput{
			Adults:   req.Guests.Adults,
			Children: req.Guests.Children,
			Infants:  req.Guests.Infants,
		},
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDatesUnavailable) {
			metrics.BookingConflictsTotal.Inc()
		}
		return err
	}

	metrics.BookingsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toBookingDetailResponse(detail))
}

// List handles GET /bookings?type=guest|host&status=.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        type    query     string  false  "Scope"  Enums(guest, host)
// @Param        status  query     string  false  "Status filter"  Enums(pending, confirmed, completed, cancelled)
// @Success      200     {array}   bookingResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	bookings, err := h.service.List(c.Request().Context(), ports.ListBookingsInput{
		CallerID: callerID,
		Scope:    c.QueryParam("type"),
		Status:   c.QueryParam("status"),
	})
	if err != nil {
		return err
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /bookings/:id.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking identifier"
// @Success      200  {object}  bookingDetailResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), c.Param("id"), callerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingDetailResponse(detail))
}

// UpdateStatus handles PUT /bookings/:id/status. Only the listing's host
// may confirm or complete a booking.
//
// @Summary      Advance the booking lifecycle
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "Booking identifier"
// @Param        body  body      updateBookingStatusRequest  true  "Next status"
// @Success      200   {object}  bookingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /bookings/{id}/status [put]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateBookingStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), callerID, domain.BookingStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(booking))
}

// Cancel handles PUT /bookings/:id/cancel.
//
// @Summary      Cancel a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Booking identifier"
// @Param        body  body      cancelBookingRequest  false "Optional reason"
// @Success      200   {object}  bookingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /bookings/{id}/cancel [put]
func (h *BookingHandler) Cancel(c echo.Context) error {
	callerID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req cancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.service.Cancel(c.Request().Context(), c.Param("id"), callerID, req.Reason)
	if err != nil {
		return err
	}

	metrics.BookingsCancelledTotal.WithLabelValues(role).Inc()
	return c.JSON(http.StatusOK, toBookingResponse(booking))
}

// Review handles PUT /bookings/:id/review.
//
// @Summary      Review a completed booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Booking identifier"
// @Param        body  body      reviewBookingRequest  true  "Rating and optional comment"
// @Success      200   {object}  bookingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /bookings/{id}/review [put]
func (h *BookingHandler) Review(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req reviewBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.service.Review(c.Request().Context(), c.Param("id"), callerID, req.Rating, req.Comment)
	if err != nil {
		return err
	}

	metrics.ReviewsSubmittedTotal.WithLabelValues(strconv.Itoa(req.Rating)).Inc()
	return c.JSON(http.StatusOK, toBookingResponse(booking))
}
