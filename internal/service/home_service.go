package service

import (
	"context"
	"fmt"

	"github.com/LJablon/EduRent/internal/mapview"
	"github.com/LJablon/EduRent/internal/model"
)

// HomePage is the payload of the landing page.
type HomePage struct {
	Listings []model.Listing `json:"listings"`
	Map      mapview.View    `json:"map"`
	Empty    bool            `json:"empty"`
}

type HomeService struct {
	listings ListingStore
	mapOpts  mapview.Options
}

func NewHomeService(ls ListingStore, opts mapview.Options) *HomeService {
	return &HomeService{listings: ls, mapOpts: opts}
}

// Home loads approved listings matching f together with their map. Without a
// maps key it returns mapview.ErrMissingCredential before touching storage.
func (s *HomeService) Home(ctx context.Context, f model.ListingFilter) (*HomePage, error) {
	if s.mapOpts.APIKey == "" {
		return nil, mapview.ErrMissingCredential
	}
	f.IncludeUnapproved = false
	f.Limit, f.Offset = pageBounds(f.Limit, f.Offset)
	list, err := s.listings.GetFiltered(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("HomeService.Home: %w", err)
	}
	if list == nil {
		list = []model.Listing{}
	}
	view, err := mapview.Build(s.mapOpts, list)
	if err != nil {
		return nil, err
	}
	return &HomePage{Listings: list, Map: view, Empty: len(list) == 0}, nil
}

// Map returns just the map view for the listings matching f.
func (s *HomeService) Map(ctx context.Context, f model.ListingFilter) (*mapview.View, error) {
	page, err := s.Home(ctx, f)
	if err != nil {
		return nil, err
	}
	return &page.Map, nil
}
