package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LJablon/EduRent/internal/model"
)

type fakeListings struct {
	mu   sync.Mutex
	byID map[string]model.Listing
}

func newFakeListings(ls ...model.Listing) *fakeListings {
	f := &fakeListings{byID: map[string]model.Listing{}}
	for _, l := range ls {
		f.byID[l.ID] = l
	}
	return f
}

func (f *fakeListings) Create(_ context.Context, l *model.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[l.ID] = *l
	return nil
}

func (f *fakeListings) GetByID(_ context.Context, id string) (*model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("fake: %w", sql.ErrNoRows)
	}
	return &l, nil
}

func (f *fakeListings) Update(_ context.Context, l *model.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[l.ID]; !ok {
		return sql.ErrNoRows
	}
	f.byID[l.ID] = *l
	return nil
}

func (f *fakeListings) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeListings) GetFiltered(_ context.Context, flt model.ListingFilter) ([]model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Listing
	for _, l := range f.byID {
		if !flt.IncludeUnapproved && l.Status != model.ListingApproved {
			continue
		}
		if flt.UserID != "" && l.UserID != flt.UserID {
			continue
		}
		if flt.Category != "" && l.Category != flt.Category {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeListings) GetPending(_ context.Context, _, _ int) ([]model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Listing
	for _, l := range f.byID {
		if l.Status == model.ListingPending {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListings) Approve(_ context.Context, id string) error {
	return f.setStatus(id, model.ListingApproved)
}

func (f *fakeListings) Reject(_ context.Context, id string) error {
	return f.setStatus(id, model.ListingRejected)
}

func (f *fakeListings) setStatus(id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	l.Status = status
	f.byID[id] = l
	return nil
}

type fakeReservations struct {
	mu   sync.Mutex
	byID map[string]model.Reservation
	// owners maps listing id to owner id for Find by owner.
	owners map[string]string
}

func newFakeReservations(rs ...model.Reservation) *fakeReservations {
	f := &fakeReservations{byID: map[string]model.Reservation{}, owners: map[string]string{}}
	for _, r := range rs {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeReservations) Create(_ context.Context, rv *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[rv.ID] = *rv
	return nil
}

func (f *fakeReservations) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (f *fakeReservations) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReservations) FindByListing(_ context.Context, listingID string) ([]model.Reservation, error) {
	return f.Find(context.Background(), model.ReservationFilter{ListingID: listingID})
}

func (f *fakeReservations) Find(_ context.Context, flt model.ReservationFilter) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Reservation
	for _, r := range f.byID {
		if flt.ListingID != "" && r.ListingID != flt.ListingID {
			continue
		}
		if flt.UserID != "" && r.UserID != flt.UserID {
			continue
		}
		if flt.OwnerID != "" && f.owners[r.ListingID] != flt.OwnerID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

type fakeUsers map[string]model.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

type fakeContacts struct {
	saved []model.ContactRequest
}

func (f *fakeContacts) Create(_ context.Context, c *model.ContactRequest) error {
	f.saved = append(f.saved, *c)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	days        map[string][]time.Time
	gets        int
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{days: map[string][]time.Time{}}
}

func (f *fakeCache) Get(_ context.Context, id string) ([]time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	d, ok := f.days[id]
	return d, ok, nil
}

func (f *fakeCache) Set(_ context.Context, id string, days []time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days[id] = days
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.days, id)
	f.invalidated = append(f.invalidated, id)
	return nil
}

type sentMail struct {
	owner, sender model.User
	listing       model.Listing
	req           model.ContactRequest
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendContactRequest(_ context.Context, owner, sender model.User, l model.Listing, req model.ContactRequest) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{owner: owner, sender: sender, listing: l, req: req})
	return nil
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func approvedListing(id, owner string, price int) model.Listing {
	return model.Listing{ID: id, UserID: owner, Title: "Room " + id, Price: price, Status: model.ListingApproved}
}
