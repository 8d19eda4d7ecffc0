package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stayhive/marketplace-api/internal/api/metrics"
	"github.com/stayhive/marketplace-api/internal/core/ports"
	"github.com/stayhive/marketplace-api/internal/core/service"
)

// ListingHandler handles HTTP requests for the listing catalog.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Search handles GET /listings, the public search with filters and pagination.
//
// @Summary      Search listings
// @Tags         listings
// @Produce      json
// @Param        city           query     string  false  "City, case-insensitive partial match"
// @Param        minPrice       query     number  false  "Minimum nightly price"
// @Param        maxPrice       query     number  false  "Maximum nightly price"
// @Param        guests         query     int     false  "Minimum guest capacity"
// @Param        propertyType   query     string  false  "Property type"  Enums(apartment, house, cabin, villa, studio)
// @Param        page           query     int     false  "Page, 1-based (default 1)"
// @Param        limit          query     int     false  "Page size, 1-50 (default 12)"
// @Success      200  {object}  listListingsResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /listings [get]
func (h *ListingHandler) Search(c echo.Context) error {
	var fieldErrs []string
	input := ports.SearchListingsInput{
		City:         c.QueryParam("city"),
		PropertyType: c.QueryParam("propertyType"),
		MinPrice:     queryFloat(c, "minPrice", &fieldErrs),
		MaxPrice:     queryFloat(c, "maxPrice", &fieldErrs),
		Guests:       queryInt(c, "guests", &fieldErrs),
		Page:         queryInt(c, "page", &fieldErrs),
		Limit:        queryInt(c, "limit", &fieldErrs),
	}
	if len(fieldErrs) > 0 {
		return &service.ValidationError{Fields: fieldErrs}
	}

	result, err := h.service.Search(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.ListingSearchesTotal.Inc()
	return c.JSON(http.StatusOK, toListListingsResponse(result))
}

// Get handles GET /listings/:id. Inactive listings read as 404.
//
// @Summary      Get a listing
// @Tags         listings
// @Produce      json
// @Param        id   path      string  true  "Listing identifier"
// @Success      200  {object}  listingResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	listing, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(listing))
}

// MyListings handles GET /listings/host/my-listings.
//
// @Summary      List own listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   listingResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /listings/host/my-listings [get]
func (h *ListingHandler) MyListings(c echo.Context) error {
	hostID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	listings, err := h.service.MyListings(c.Request().Context(), hostID)
	if err != nil {
		return err
	}

	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /listings.
//
// @Summary      Publish a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListingRequest  true  "Listing details"
// @Success      201   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	hostID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toCreateListingInput(req, hostID)
	if err != nil {
		return err
	}

	listing, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toListingResponse(listing))
}

// Update handles PUT /listings/:id with merge semantics. Owner only.
//
// @Summary      Update a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Listing identifier"
// @Param        body  body      updateListingRequest  true  "Fields to merge"
// @Success      200   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /listings/{id} [put]
func (h *ListingHandler) Update(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	update, err := toListingUpdate(req)
	if err != nil {
		return err
	}

	listing, err := h.service.Update(c.Request().Context(), c.Param("id"), callerID, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(listing))
}

// Delete handles DELETE /listings/:id. Owner only.
//
// @Summary      Delete a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing identifier"
// @Success      204  "No Content"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), callerID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// queryInt parses an optional integer query parameter; errs collects a
// message per malformed value so callers can enumerate every failing field.
func queryInt(c echo.Context, name string, errs *[]string) int {
	v := c.QueryParam(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, name+" must be an integer")
		return 0
	}
	return n
}

func queryFloat(c echo.Context, name string, errs *[]string) float64 {
	v := c.QueryParam(name)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, name+" must be a number")
		return 0
	}
	return f
}
