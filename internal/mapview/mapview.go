// Package mapview prepares what a map widget needs to show listings:
// the provider key, the viewport and one marker per listing.
package mapview

import (
	"errors"

	"github.com/LJablon/EduRent/internal/model"
)

// ErrMissingCredential means no map provider key is configured. Callers show
// MissingCredentialMessage instead of a map; the rest of the page still works.
var ErrMissingCredential = errors.New("mapview: map provider key is not configured")

const MissingCredentialMessage = "Google Maps API key is not provided."

const (
	DefaultZoom = 15
	DefaultLat  = 37.3489
	DefaultLng  = -121.9368
)

// Status is the load state reported by the map widget itself. It is passed
// through untouched.
type Status string

const (
	StatusLoading Status = "LOADING"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Options struct {
	APIKey string
	Zoom   int
	Center LatLng
}

// DefaultOptions returns the campus-centred viewport with the given key.
func DefaultOptions(apiKey string) Options {
	return Options{
		APIKey: apiKey,
		Zoom:   DefaultZoom,
		Center: LatLng{Lat: DefaultLat, Lng: DefaultLng},
	}
}

type Marker struct {
	ListingID string `json:"listingId"`
	Title     string `json:"title"`
	Price     int    `json:"price"`
	ImageSrc  string `json:"imageSrc,omitempty"`
	Position  LatLng `json:"position"`
	Category  string `json:"category,omitempty"`
}

type View struct {
	APIKey  string   `json:"apiKey"`
	Zoom    int      `json:"zoom"`
	Center  LatLng   `json:"center"`
	Markers []Marker `json:"markers"`
}

// Build returns the map view for listings. Listings without coordinates have
// nowhere to go and get no marker.
func Build(opts Options, listings []model.Listing) (View, error) {
	if opts.APIKey == "" {
		return View{}, ErrMissingCredential
	}
	if opts.Zoom <= 0 {
		opts.Zoom = DefaultZoom
	}

	markers := make([]Marker, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		if !l.HasCoordinates() {
			continue
		}
		markers = append(markers, Marker{
			ListingID: l.ID,
			Title:     l.Title,
			Price:     l.Price,
			ImageSrc:  l.ImageSrc,
			Position:  LatLng{Lat: *l.Lat, Lng: *l.Lng},
			Category:  l.Category,
		})
	}

	return View{
		APIKey:  opts.APIKey,
		Zoom:    opts.Zoom,
		Center:  opts.Center,
		Markers: markers,
	}, nil
}
