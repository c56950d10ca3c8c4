package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/LJablon/EduRent/internal/availability"
	appLog "github.com/LJablon/EduRent/internal/log"
	"github.com/LJablon/EduRent/internal/model"
	"github.com/LJablon/EduRent/internal/pricing"
)

var (
	ErrLoginRequired = errors.New("client: login required")
	ErrBusy          = errors.New("client: another request is in flight")
)

// Messages shown through the Notifier.
const (
	MsgReservationCreated = "Reservation created successfully"
	MsgSomethingWentWrong = "Something went wrong."
	MsgContactSent        = "Message sent to the owner"
	MsgContactFailed      = "Could not contact the owner."
)

// Session exposes the signed-in user. CurrentUser returns nil when nobody is
// signed in.
type Session interface {
	CurrentUser() *model.User
	Token() string
}

type LoginPrompter interface {
	PromptLogin()
}

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Refresher reloads whatever shows the listing after a booking.
type Refresher interface {
	Refresh()
}

// RefresherFunc adapts a plain function to Refresher.
type RefresherFunc func()

func (f RefresherFunc) Refresh() { f() }

// ReservationIntent is the body of POST /api/reservations.
type ReservationIntent struct {
	TotalPrice int       `json:"totalPrice" validate:"gte=0"`
	StartDate  time.Time `json:"startDate" validate:"required"`
	EndDate    time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
	ListingID  string    `json:"listingId" validate:"required"`
}

// ContactIntent is the body of POST /api/listings/:id/contact.
type ContactIntent struct {
	Message   string     `json:"message" validate:"required,max=2000"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Options wires a ListingView to its collaborators. Session, Login, Notify
// and Refresh are required.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    Session
	Login      LoginPrompter
	Notify     Notifier
	Refresh    Refresher
	Now        func() time.Time
}

// ListingView holds the state of one listing page. It is safe for
// concurrent use; at most one submission runs at a time.
type ListingView struct {
	api      *api
	session  Session
	login    LoginPrompter
	notify   Notifier
	refresh  Refresher
	now      func() time.Time
	validate *validator.Validate

	mu           sync.Mutex
	listing      model.Listing
	reservations []model.Reservation
	disabled     *availability.Set
	dateRange    model.DateRange
	totalPrice   int
	busy         bool
}

func NewListingView(listing model.Listing, reservations []model.Reservation, opts Options) *ListingView {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	v := &ListingView{
		api:      &api{baseURL: opts.BaseURL, http: httpClient},
		session:  opts.Session,
		login:    opts.Login,
		notify:   opts.Notify,
		refresh:  opts.Refresh,
		now:      now,
		validate: validator.New(),
		listing:  listing,
	}
	v.dateRange = model.TodayRange(now())
	v.setReservationsLocked(reservations)
	v.recomputePriceLocked()
	return v
}

func (v *ListingView) SetDateRange(r model.DateRange) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if r.Key == "" {
		r.Key = model.SelectionKey
	}
	v.dateRange = r
	v.recomputePriceLocked()
}

func (v *ListingView) SetReservations(reservations []model.Reservation) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setReservationsLocked(reservations)
}

func (v *ListingView) SetListing(l model.Listing) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listing = l
	v.recomputePriceLocked()
}

func (v *ListingView) DateRange() model.DateRange {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dateRange
}

func (v *ListingView) TotalPrice() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPrice
}

// DisabledDates returns the booked days in ascending order.
func (v *ListingView) DisabledDates() []time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.disabled.Days()
}

func (v *ListingView) IsDisabled(day time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.disabled.Contains(day)
}

func (v *ListingView) Busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.busy
}

// SubmitReservation books the selected range. Without a signed-in user it
// prompts for login and sends nothing. On success the selection goes back to
// today and the page is refreshed once; on failure the selection is kept.
func (v *ListingView) SubmitReservation(ctx context.Context) error {
	token, err := v.begin()
	if err != nil {
		return err
	}
	defer v.end()

	v.mu.Lock()
	intent := ReservationIntent{
		TotalPrice: v.totalPrice,
		StartDate:  v.dateRange.StartDate,
		EndDate:    v.dateRange.EndDate,
		ListingID:  v.listing.ID,
	}
	v.mu.Unlock()

	if err := v.validate.Struct(intent); err != nil {
		v.notify.Error(MsgSomethingWentWrong)
		return fmt.Errorf("reservation: %w", err)
	}
	if err := v.api.do(ctx, http.MethodPost, "/api/reservations", token, intent, nil); err != nil {
		appLog.Debug("reservation request failed", "listing_id", intent.ListingID, "err", err)
		v.notify.Error(MsgSomethingWentWrong)
		return fmt.Errorf("reservation: %w", err)
	}

	v.notify.Success(MsgReservationCreated)
	v.mu.Lock()
	v.dateRange = model.TodayRange(v.now())
	v.recomputePriceLocked()
	v.mu.Unlock()
	v.refresh.Refresh()
	return nil
}

// ContactOwner sends msg to the listing owner along with the selected
// dates. It never books and never touches the selection.
func (v *ListingView) ContactOwner(ctx context.Context, msg string) error {
	token, err := v.begin()
	if err != nil {
		return err
	}
	defer v.end()

	v.mu.Lock()
	start, end := v.dateRange.StartDate, v.dateRange.EndDate
	listingID := v.listing.ID
	v.mu.Unlock()

	intent := ContactIntent{Message: msg, StartDate: &start, EndDate: &end}
	if err := v.validate.Struct(intent); err != nil {
		v.notify.Error(MsgContactFailed)
		return fmt.Errorf("contact: %w", err)
	}

	path := "/api/listings/" + url.PathEscape(listingID) + "/contact"
	if err := v.api.do(ctx, http.MethodPost, path, token, intent, nil); err != nil {
		appLog.Debug("contact request failed", "listing_id", listingID, "err", err)
		v.notify.Error(MsgContactFailed)
		return fmt.Errorf("contact: %w", err)
	}
	v.notify.Success(MsgContactSent)
	return nil
}

// Reload fetches the listing and its reservations from the API.
func (v *ListingView) Reload(ctx context.Context) error {
	v.mu.Lock()
	id := v.listing.ID
	v.mu.Unlock()

	var detail struct {
		Listing      model.Listing       `json:"listing"`
		Reservations []model.Reservation `json:"reservations"`
	}
	if err := v.api.do(ctx, http.MethodGet, "/api/listings/"+url.PathEscape(id), "", nil, &detail); err != nil {
		return fmt.Errorf("reload listing: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.listing = detail.Listing
	v.setReservationsLocked(detail.Reservations)
	v.recomputePriceLocked()
	return nil
}

// begin checks the session and takes the busy flag.
func (v *ListingView) begin() (string, error) {
	if v.session.CurrentUser() == nil {
		v.login.PromptLogin()
		return "", ErrLoginRequired
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.busy {
		return "", ErrBusy
	}
	v.busy = true
	return v.session.Token(), nil
}

func (v *ListingView) end() {
	v.mu.Lock()
	v.busy = false
	v.mu.Unlock()
}

func (v *ListingView) setReservationsLocked(reservations []model.Reservation) {
	v.reservations = append([]model.Reservation(nil), reservations...)
	v.disabled = availability.FromReservations(v.reservations)
}

func (v *ListingView) recomputePriceLocked() {
	v.totalPrice = pricing.Estimate(v.dateRange, v.listing.Price)
}
