package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/ports"
)

type stubListingRepo struct {
	listings map[string]*domain.Listing
	order    []string // insertion order, newest last
	seq      int
}

func newStubListingRepo() *stubListingRepo {
	return &stubListingRepo{listings: make(map[string]*domain.Listing)}
}

func cloneListing(l *domain.Listing) *domain.Listing {
	if l == nil {
		return nil
	}
	clone := *l
	clone.Images = append([]string(nil), l.Images...)
	clone.Amenities = append([]domain.Amenity(nil), l.Amenities...)
	return &clone
}

func (r *stubListingRepo) Create(_ context.Context, l *domain.Listing) (*domain.Listing, error) {
	r.seq++
	created := cloneListing(l)
	created.ID = fmt.Sprintf("listing-%d", r.seq)
	r.listings[created.ID] = cloneListing(created)
	r.order = append(r.order, created.ID)
	return created, nil
}

func (r *stubListingRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneListing(l), nil
}

func (r *stubListingRepo) ListByHost(_ context.Context, hostID string) ([]*domain.Listing, error) {
	out := []*domain.Listing{}
	for _, id := range r.order {
		if l := r.listings[id]; l != nil && l.HostID == hostID {
			out = append(out, cloneListing(l))
		}
	}
	return out, nil
}

func (r *stubListingRepo) Search(_ context.Context, filter ports.SearchListingsFilter) ([]*domain.Listing, int64, error) {
	matched := []*domain.Listing{}
	for _, id := range r.order {
		l := r.listings[id]
		if l == nil || !l.Active {
			continue
		}
		if filter.City != "" && !strings.Contains(strings.ToLower(l.Address.City), strings.ToLower(filter.City)) {
			continue
		}
		if filter.MinPrice > 0 && l.NightlyPrice < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && l.NightlyPrice > filter.MaxPrice {
			continue
		}
		if filter.Guests > 0 && l.MaxGuests < filter.Guests {
			continue
		}
		if filter.PropertyType != "" && l.PropertyType != filter.PropertyType {
			continue
		}
		matched = append(matched, cloneListing(l))
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []*domain.Listing{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubListingRepo) Update(_ context.Context, id string, update ports.ListingUpdate, updatedAt time.Time) (*domain.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	if update.Title != nil {
		l.Title = *update.Title
	}
	if update.Description != nil {
		l.Description = *update.Description
	}
	if update.NightlyPrice != nil {
		l.NightlyPrice = *update.NightlyPrice
	}
	if update.Address != nil {
		l.Address = *update.Address
	}
	if len(update.Images) > 0 {
		l.Images = append(l.Images, update.Images...)
	}
	if len(update.Amenities) > 0 {
		l.Amenities = update.Amenities
	}
	if update.PropertyType != nil {
		l.PropertyType = *update.PropertyType
	}
	if update.RoomType != nil {
		l.RoomType = *update.RoomType
	}
	if update.MaxGuests != nil {
		l.MaxGuests = *update.MaxGuests
	}
	if update.Bedrooms != nil {
		l.Bedrooms = *update.Bedrooms
	}
	if update.Bathrooms != nil {
		l.Bathrooms = *update.Bathrooms
	}
	if update.Availability != nil {
		l.Availability = *update.Availability
	}
	if update.HouseRules != nil {
		l.HouseRules = *update.HouseRules
	}
	if update.Active != nil {
		l.Active = *update.Active
	}
	l.UpdatedAt = updatedAt
	return cloneListing(l), nil
}

func (r *stubListingRepo) Delete(_ context.Context, id string) error {
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Active = false
	return nil
}

func (r *stubListingRepo) ApplyReviewRating(_ context.Context, listingID string, rating int) error {
	l, ok := r.listings[listingID]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Rating.Average = (l.Rating.Average*float64(l.Rating.Count) + float64(rating)) / float64(l.Rating.Count+1)
	l.Rating.Count++
	return nil
}

func seedListing(t *testing.T, repo *stubListingRepo, mutate func(*domain.Listing)) *domain.Listing {
	t.Helper()
	l := &domain.Listing{
		HostID:       "host-1",
		Title:        "Sunny apartment",
		NightlyPrice: 150,
		Address:      domain.Address{City: "Lisbon", Country: "PT"},
		PropertyType: domain.PropertyApartment,
		RoomType:     domain.RoomEntirePlace,
		MaxGuests:    4,
		Active:       true,
	}
	if mutate != nil {
		mutate(l)
	}
	created, err := repo.Create(context.Background(), l)
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return created
}

func newListingService(repo *stubListingRepo) *ListingService {
	return NewListingService(repo, zerolog.Nop())
}

func TestListingService_Search_Pagination(t *testing.T) {
	repo := newStubListingRepo()
	for i := 0; i < 25; i++ {
		seedListing(t, repo, nil)
	}
	svc := newListingService(repo)

	page1, err := svc.Search(context.Background(), ports.SearchListingsInput{})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(page1.Items) != 12 {
		t.Fatalf("page 1 items = %d, want 12", len(page1.Items))
	}
	if page1.Total != 25 || page1.TotalPages != 3 {
		t.Fatalf("total = %d totalPages = %d, want 25 and 3", page1.Total, page1.TotalPages)
	}
	if !page1.HasNextPage || page1.HasPreviousPage {
		t.Fatalf("page 1 flags = next %v prev %v, want true false", page1.HasNextPage, page1.HasPreviousPage)
	}

	page3, err := svc.Search(context.Background(), ports.SearchListingsInput{Page: 3})
	if err != nil {
		t.Fatalf("Search page 3 returned error: %v", err)
	}
	if len(page3.Items) != 1 {
		t.Fatalf("page 3 items = %d, want 1", len(page3.Items))
	}
	if page3.HasNextPage || !page3.HasPreviousPage {
		t.Fatalf("page 3 flags = next %v prev %v, want false true", page3.HasNextPage, page3.HasPreviousPage)
	}
}

func TestListingService_Search_ClampsLimit(t *testing.T) {
	repo := newStubListingRepo()
	seedListing(t, repo, nil)
	svc := newListingService(repo)

	result, err := svc.Search(context.Background(), ports.SearchListingsInput{Limit: 500})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.Limit != maxPageSize {
		t.Fatalf("limit = %d, want %d", result.Limit, maxPageSize)
	}
}

func TestListingService_Search_HidesInactive(t *testing.T) {
	repo := newStubListingRepo()
	seedListing(t, repo, nil)
	seedListing(t, repo, func(l *domain.Listing) { l.Active = false })
	svc := newListingService(repo)

	result, err := svc.Search(context.Background(), ports.SearchListingsInput{})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("total = %d, want 1", result.Total)
	}
}

func TestListingService_Search_Filters(t *testing.T) {
	repo := newStubListingRepo()
	seedListing(t, repo, func(l *domain.Listing) {
		l.Address.City = "Lisbon"
		l.NightlyPrice = 90
	})
	seedListing(t, repo, func(l *domain.Listing) {
		l.Address.City = "Porto"
		l.NightlyPrice = 200
		l.MaxGuests = 8
		l.PropertyType = domain.PropertyVilla
	})
	svc := newListingService(repo)

	byCity, err := svc.Search(context.Background(), ports.SearchListingsInput{City: "lis"})
	if err != nil {
		t.Fatalf("Search by city returned error: %v", err)
	}
	if byCity.Total != 1 || byCity.Items[0].Address.City != "Lisbon" {
		t.Fatalf("city filter matched %d, want the Lisbon listing", byCity.Total)
	}

	byPrice, err := svc.Search(context.Background(), ports.SearchListingsInput{MinPrice: 100, MaxPrice: 250})
	if err != nil {
		t.Fatalf("Search by price returned error: %v", err)
	}
	if byPrice.Total != 1 || byPrice.Items[0].NightlyPrice != 200 {
		t.Fatalf("price filter matched %d, want the 200/night listing", byPrice.Total)
	}

	byGuests, err := svc.Search(context.Background(), ports.SearchListingsInput{Guests: 6})
	if err != nil {
		t.Fatalf("Search by guests returned error: %v", err)
	}
	if byGuests.Total != 1 || byGuests.Items[0].MaxGuests != 8 {
		t.Fatalf("guest filter matched %d, want the 8-guest listing", byGuests.Total)
	}

	if _, err := svc.Search(context.Background(), ports.SearchListingsInput{PropertyType: "castle"}); err == nil {
		t.Fatalf("expected validation error for unknown property type")
	}
}

func TestListingService_Get_HidesInactive(t *testing.T) {
	repo := newStubListingRepo()
	inactive := seedListing(t, repo, func(l *domain.Listing) { l.Active = false })
	svc := newListingService(repo)

	if _, err := svc.Get(context.Background(), inactive.ID); err != domain.ErrListingNotFound {
		t.Fatalf("expected ErrListingNotFound for inactive listing, got %v", err)
	}
}

func TestListingService_Create_EnumeratesValidationFailures(t *testing.T) {
	svc := newListingService(newStubListingRepo())

	_, err := svc.Create(context.Background(), ports.CreateListingInput{
		HostID:       "host-1",
		Title:        "",
		NightlyPrice: -10,
		MaxGuests:    0,
		PropertyType: "castle",
		RoomType:     domain.RoomEntirePlace,
	})
	ve, ok := IsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 4 {
		t.Fatalf("validation fields = %d (%v), want 4", len(ve.Fields), ve.Fields)
	}
}

func TestListingService_Update_OnlyOwner(t *testing.T) {
	repo := newStubListingRepo()
	listing := seedListing(t, repo, nil)
	svc := newListingService(repo)

	title := "Renamed"
	if _, err := svc.Update(context.Background(), listing.ID, "host-2", ports.ListingUpdate{Title: &title}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	updated, err := svc.Update(context.Background(), listing.ID, "host-1", ports.ListingUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("title = %q, want Renamed", updated.Title)
	}
}

func TestListingService_Update_AppendsImages(t *testing.T) {
	repo := newStubListingRepo()
	listing := seedListing(t, repo, func(l *domain.Listing) {
		l.Images = []string{"a.jpg"}
	})
	svc := newListingService(repo)

	updated, err := svc.Update(context.Background(), listing.ID, "host-1", ports.ListingUpdate{Images: []string{"b.jpg"}})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(updated.Images) != 2 || updated.Images[1] != "b.jpg" {
		t.Fatalf("images = %v, want [a.jpg b.jpg]", updated.Images)
	}
}

func TestListingService_Delete_OnlyOwner(t *testing.T) {
	repo := newStubListingRepo()
	listing := seedListing(t, repo, nil)
	svc := newListingService(repo)

	if err := svc.Delete(context.Background(), listing.ID, "host-2"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := svc.Delete(context.Background(), listing.ID, "host-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(context.Background(), listing.ID); err != domain.ErrListingNotFound {
		t.Fatalf("expected ErrListingNotFound after delete, got %v", err)
	}
}

func TestListingService_Delete_IsSoft(t *testing.T) {
	repo := newStubListingRepo()
	listing := seedListing(t, repo, nil)
	svc := newListingService(repo)

	if err := svc.Delete(context.Background(), listing.ID, "host-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	// The document is kept: direct lookups and the host's own view still
	// resolve it, just deactivated.
	stored, err := repo.FindByID(context.Background(), listing.ID)
	if err != nil {
		t.Fatalf("deleted listing no longer resolves: %v", err)
	}
	if stored.Active {
		t.Fatalf("deleted listing is still active")
	}

	mine, err := svc.MyListings(context.Background(), "host-1")
	if err != nil {
		t.Fatalf("MyListings returned error: %v", err)
	}
	if len(mine) != 1 || mine[0].Active {
		t.Fatalf("host view = %d listings (active %v), want the deactivated one", len(mine), len(mine) > 0 && mine[0].Active)
	}
}
