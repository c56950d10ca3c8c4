package service

import (
	"context"
	"errors"
	"testing"

	"github.com/LJablon/EduRent/internal/mapview"
	"github.com/LJablon/EduRent/internal/model"
)

type countingListings struct {
	*fakeListings
	calls int
	last  model.ListingFilter
}

func (c *countingListings) GetFiltered(ctx context.Context, f model.ListingFilter) ([]model.Listing, error) {
	c.calls++
	c.last = f
	return c.fakeListings.GetFiltered(ctx, f)
}

func TestHomeMissingKeyShortCircuits(t *testing.T) {
	store := &countingListings{fakeListings: newFakeListings(approvedListing("l1", "o", 1))}
	svc := NewHomeService(store, mapview.DefaultOptions(""))

	if _, err := svc.Home(context.Background(), model.ListingFilter{}); !errors.Is(err, mapview.ErrMissingCredential) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Map(context.Background(), model.ListingFilter{}); !errors.Is(err, mapview.ErrMissingCredential) {
		t.Fatalf("map err = %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("listings loaded %d times before the credential check", store.calls)
	}
}

func TestHomeClampsPaging(t *testing.T) {
	store := &countingListings{fakeListings: newFakeListings(approvedListing("l1", "o", 1))}
	svc := NewHomeService(store, mapview.DefaultOptions("key"))

	page, err := svc.Home(context.Background(), model.ListingFilter{Limit: -1, Offset: -5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.last.Limit != 10 || store.last.Offset != 0 {
		t.Fatalf("limit/offset = %d/%d, want 10/0", store.last.Limit, store.last.Offset)
	}
	if len(page.Listings) != 1 {
		t.Fatalf("got %d listings", len(page.Listings))
	}
}

func TestHomeEmpty(t *testing.T) {
	svc := NewHomeService(newFakeListings(), mapview.DefaultOptions("key"))
	page, err := svc.Home(context.Background(), model.ListingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if !page.Empty || page.Listings == nil || page.Map.Markers == nil {
		t.Fatalf("page = %+v", page)
	}
}

func TestHomeMarkers(t *testing.T) {
	lat, lng := 37.33, -121.89
	placed := approvedListing("l1", "o", 80)
	placed.Lat, placed.Lng = &lat, &lng
	unplaced := approvedListing("l2", "o", 60)
	hidden := model.Listing{ID: "l3", UserID: "o", Status: model.ListingPending, Lat: &lat, Lng: &lng}

	svc := NewHomeService(newFakeListings(placed, unplaced, hidden), mapview.DefaultOptions("key"))
	page, err := svc.Home(context.Background(), model.ListingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Empty || len(page.Listings) != 2 {
		t.Fatalf("listings = %+v", page.Listings)
	}
	if len(page.Map.Markers) != 1 || page.Map.Markers[0].ListingID != "l1" {
		t.Fatalf("markers = %+v", page.Map.Markers)
	}
	if page.Map.Zoom != mapview.DefaultZoom {
		t.Fatalf("zoom = %d", page.Map.Zoom)
	}
}
