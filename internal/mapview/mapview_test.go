package mapview

import (
	"errors"
	"testing"

	"github.com/LJablon/EduRent/internal/model"
)

func ptr(f float64) *float64 { return &f }

func TestBuildWithoutKey(t *testing.T) {
	_, err := Build(DefaultOptions(""), []model.Listing{{ID: "a", Lat: ptr(1), Lng: ptr(2)}})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestBuildOneMarkerPerPlacedListing(t *testing.T) {
	listings := []model.Listing{
		{ID: "a", Title: "Loft", Price: 90, Lat: ptr(37.35), Lng: ptr(-121.94)},
		{ID: "b", Title: "No coords"},
		{ID: "c", Title: "Studio", Price: 70, Lat: ptr(37.34), Lng: ptr(-121.93)},
	}
	v, err := Build(DefaultOptions("key"), listings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(v.Markers))
	}
	if v.Markers[0].ListingID != "a" || v.Markers[1].ListingID != "c" {
		t.Fatalf("unexpected marker order: %+v", v.Markers)
	}
	if v.Markers[1].Position.Lat != 37.34 {
		t.Fatalf("unexpected position: %+v", v.Markers[1].Position)
	}
	if v.Zoom != DefaultZoom || v.Center.Lat != DefaultLat || v.Center.Lng != DefaultLng {
		t.Fatalf("unexpected viewport: zoom=%d center=%+v", v.Zoom, v.Center)
	}
}

func TestBuildEmptyListings(t *testing.T) {
	v, err := Build(Options{APIKey: "key"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Markers == nil || len(v.Markers) != 0 {
		t.Fatalf("expected empty, non-nil markers, got %#v", v.Markers)
	}
	if v.Zoom != DefaultZoom {
		t.Fatalf("zero zoom should fall back to default, got %d", v.Zoom)
	}
}
