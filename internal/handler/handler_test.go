package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/LJablon/EduRent/internal/mapview"
	"github.com/LJablon/EduRent/internal/model"
	"github.com/LJablon/EduRent/internal/service"
)

const testSecret = "handler-secret"

func token(t *testing.T, sub string, roles ...string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": sub, "exp": time.Now().Add(time.Hour).Unix()}
	if len(roles) > 0 {
		claims["roles"] = roles
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// --- fakes ---

type stubListings struct {
	detail     *service.ListingDetail
	lastFilter model.ListingFilter
	lastOwner  string
	lastPage   [2]int
	err        error
}

func (s *stubListings) Create(_ context.Context, owner string, in service.ListingInput) (*model.Listing, error) {
	s.lastOwner = owner
	return &model.Listing{ID: "new", UserID: owner, Title: in.Title, Price: in.Price, Status: model.ListingPending}, s.err
}

func (s *stubListings) Update(_ context.Context, owner, id string, in service.ListingInput) (*model.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Listing{ID: id, UserID: owner, Title: in.Title}, nil
}

func (s *stubListings) Delete(_ context.Context, _, _ string) error { return s.err }

func (s *stubListings) Search(_ context.Context, f model.ListingFilter) ([]model.Listing, error) {
	s.lastFilter = f
	return []model.Listing{}, s.err
}

func (s *stubListings) Detail(_ context.Context, id string) (*service.ListingDetail, error) {
	if s.detail == nil || s.detail.Listing.ID != id {
		return nil, fmt.Errorf("ListingService.Get: %w", service.ErrListingNotFound)
	}
	return s.detail, nil
}

func (s *stubListings) Availability(_ context.Context, _ string) ([]time.Time, error) {
	return []time.Time{time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)}, s.err
}

func (s *stubListings) Quote(_ context.Context, id string, r model.DateRange) (*service.Quote, error) {
	if r.EndDate.Before(r.StartDate) {
		return nil, service.ErrInvalidDateRange
	}
	return &service.Quote{ListingID: id, Nights: 2, NightlyPrice: 50, TotalPrice: 100}, nil
}

func (s *stubListings) Pending(_ context.Context, limit, offset int) ([]model.Listing, error) {
	s.lastPage = [2]int{limit, offset}
	return []model.Listing{{ID: "p1", Status: model.ListingPending}}, nil
}

func (s *stubListings) Approve(_ context.Context, _ string) error { return s.err }
func (s *stubListings) Reject(_ context.Context, _ string) error  { return s.err }

type stubReservations struct {
	created    []model.DateRange
	lastUser   string
	lastTotal  int
	lastFilter model.ReservationFilter
	err        error
}

func (s *stubReservations) Create(_ context.Context, userID, listingID string, r model.DateRange, total int) (*model.Reservation, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, r)
	s.lastUser, s.lastTotal = userID, total
	return &model.Reservation{ID: "r1", ListingID: listingID, UserID: userID, StartDate: r.StartDate, EndDate: r.EndDate, TotalPrice: 150}, nil
}

func (s *stubReservations) List(_ context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	s.lastFilter = f
	return []model.Reservation{}, nil
}

func (s *stubReservations) ListForListing(_ context.Context, _ string) ([]model.Reservation, error) {
	return []model.Reservation{}, nil
}

func (s *stubReservations) Cancel(_ context.Context, _, _ string) error { return s.err }

type stubContacts struct {
	calls int
	err   error
}

func (s *stubContacts) Create(_ context.Context, sender, listingID string, in service.ContactInput) (*model.ContactRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.calls++
	return &model.ContactRequest{ID: "c1", ListingID: listingID, SenderID: sender, Message: in.Message}, nil
}

type stubHome struct {
	key string
}

func (s *stubHome) Home(_ context.Context, _ model.ListingFilter) (*service.HomePage, error) {
	if s.key == "" {
		return nil, mapview.ErrMissingCredential
	}
	return &service.HomePage{Listings: []model.Listing{}, Map: mapview.View{APIKey: s.key, Markers: []mapview.Marker{}}, Empty: true}, nil
}

func (s *stubHome) Map(ctx context.Context, f model.ListingFilter) (*mapview.View, error) {
	p, err := s.Home(ctx, f)
	if err != nil {
		return nil, err
	}
	return &p.Map, nil
}

type stubPhotos struct {
	uploaded    []byte
	contentType string
}

func (s *stubPhotos) UploadPhoto(_ context.Context, file io.Reader, _, contentType string) (string, error) {
	b, err := io.ReadAll(file)
	s.uploaded, s.contentType = b, contentType
	return "photo1", err
}

func (s *stubPhotos) DownloadPhoto(_ context.Context, id string) ([]byte, string, error) {
	if id != "photo1" {
		return nil, "", fmt.Errorf("no such photo")
	}
	return s.uploaded, s.contentType, nil
}

type stubPhotoListings struct {
	listing model.Listing
}

func (s *stubPhotoListings) GetByID(_ context.Context, id string) (*model.Listing, error) {
	if id != s.listing.ID {
		return nil, fmt.Errorf("ListingRepository.GetByID: %w", sql.ErrNoRows)
	}
	l := s.listing
	return &l, nil
}

func (s *stubPhotoListings) UpdatePhotoFileID(_ context.Context, _, fileID string) error {
	s.listing.PhotoFileID = fileID
	return nil
}

// --- harness ---

type harness struct {
	router       *gin.Engine
	listings     *stubListings
	reservations *stubReservations
	contacts     *stubContacts
	home         *stubHome
	photos       *stubPhotos
	photoListing *stubPhotoListings
}

func newHarness(mapsKey string) *harness {
	gin.SetMode(gin.TestMode)
	h := &harness{
		listings:     &stubListings{},
		reservations: &stubReservations{},
		contacts:     &stubContacts{},
		home:         &stubHome{key: mapsKey},
		photos:       &stubPhotos{},
		photoListing: &stubPhotoListings{listing: model.Listing{ID: "l1", UserID: "owner"}},
	}
	h.router = gin.New()
	Handlers{
		Listings:     NewListingHandler(h.listings),
		Reservations: NewReservationHandler(h.reservations),
		Contact:      NewContactHandler(h.contacts),
		Home:         NewHomeHandler(h.home),
		Photos:       &PhotoHandler{Repo: h.photos, ListingRepo: h.photoListing},
	}.Mount(h.router, testSecret)
	return h
}

func (h *harness) do(method, path, tok string, body any) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body.Error
}

// --- tests ---

func TestHealth(t *testing.T) {
	h := newHarness("k")
	if w := h.do(http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestMapWithoutKey(t *testing.T) {
	h := newHarness("")
	for _, path := range []string{"/api/map", "/api/home"} {
		w := h.do(http.MethodGet, path, "", nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s status = %d", path, w.Code)
		}
		if got := errorBody(t, w); got != "Google Maps API key is not provided." {
			t.Fatalf("%s error = %q", path, got)
		}
	}
	// the rest of the API is unaffected
	if w := h.do(http.MethodGet, "/api/listings", "", nil); w.Code != http.StatusOK {
		t.Fatalf("listings status = %d", w.Code)
	}
}

func TestHomeWithKey(t *testing.T) {
	h := newHarness("k")
	w := h.do(http.MethodGet, "/api/home", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var page service.HomePage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if !page.Empty || page.Map.APIKey != "k" {
		t.Fatalf("page = %+v", page)
	}
}

func TestGetListingsFilter(t *testing.T) {
	h := newHarness("k")
	w := h.do(http.MethodGet, "/api/listings?category=Beach&guestCount=3&startDate=2024-06-01&endDate=2024-06-05T00:00:00Z&limit=5", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	f := h.listings.lastFilter
	if f.Category != "Beach" || f.GuestCount != 3 || f.Limit != 5 || f.StartDate == nil || f.EndDate == nil {
		t.Fatalf("filter = %+v", f)
	}

	if w := h.do(http.MethodGet, "/api/listings?roomCount=many", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad roomCount status = %d", w.Code)
	}
}

func TestGetListingDetail(t *testing.T) {
	h := newHarness("k")
	h.listings.detail = &service.ListingDetail{Listing: model.Listing{ID: "l1"}, DisabledDates: []string{"2024-06-10"}}

	if w := h.do(http.MethodGet, "/api/listings/l1", "", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	w := h.do(http.MethodGet, "/api/listings/l2", "", nil)
	if w.Code != http.StatusNotFound || errorBody(t, w) != "listing not found" {
		t.Fatalf("missing: %d %s", w.Code, w.Body.String())
	}
}

func TestAvailabilityAndQuote(t *testing.T) {
	h := newHarness("k")
	w := h.do(http.MethodGet, "/api/listings/l1/availability", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"2024-06-10"`) {
		t.Fatalf("availability: %d %s", w.Code, w.Body.String())
	}

	w = h.do(http.MethodPost, "/api/listings/l1/quote", "", map[string]string{
		"startDate": "2024-06-01T00:00:00Z", "endDate": "2024-05-01T00:00:00Z",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("reversed quote status = %d", w.Code)
	}
}

func TestCreateListingUsesTokenSubject(t *testing.T) {
	h := newHarness("k")
	body := map[string]any{
		"title": "Loft", "description": "Near campus", "category": "Modern",
		"guestCount": 2, "locationValue": "US", "price": 80, "lat": 37.3, "lng": -121.9,
	}
	if w := h.do(http.MethodPost, "/api/listings", "", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", w.Code)
	}
	w := h.do(http.MethodPost, "/api/listings", token(t, "owner"), body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if h.listings.lastOwner != "owner" {
		t.Fatalf("owner = %q", h.listings.lastOwner)
	}

	body["lat"] = 123.0
	if w := h.do(http.MethodPost, "/api/listings", token(t, "owner"), body); w.Code != http.StatusBadRequest {
		t.Fatalf("bad latitude status = %d", w.Code)
	}
}

func TestUpdateListingForbidden(t *testing.T) {
	h := newHarness("k")
	h.listings.err = fmt.Errorf("wrapped: %w", service.ErrForbidden)
	body := map[string]any{"title": "x", "description": "y", "category": "z", "guestCount": 1, "locationValue": "US", "price": 1}
	if w := h.do(http.MethodPut, "/api/listings/l1", token(t, "intruder"), body); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestModerationRequiresAdmin(t *testing.T) {
	h := newHarness("k")
	if w := h.do(http.MethodGet, "/api/admin/listings/pending", token(t, "u1"), nil); w.Code != http.StatusForbidden {
		t.Fatalf("user status = %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/api/admin/listings/pending", token(t, "a1", "ADMIN"), nil); w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}
	if w := h.do(http.MethodPut, "/api/admin/listings/l1/approve", token(t, "a1", "ADMIN"), nil); w.Code != http.StatusOK {
		t.Fatalf("approve status = %d", w.Code)
	}
}

func TestPendingPaging(t *testing.T) {
	admin := token(t, "a1", "ADMIN")
	cases := []struct {
		query string
		want  int
		page  [2]int
	}{
		{"", http.StatusOK, [2]int{10, 0}},
		{"?limit=5&offset=20", http.StatusOK, [2]int{5, 20}},
		{"?limit=abc", http.StatusBadRequest, [2]int{}},
		{"?offset=1.5", http.StatusBadRequest, [2]int{}},
	}
	for _, tc := range cases {
		h := newHarness("k")
		w := h.do(http.MethodGet, "/api/admin/listings/pending"+tc.query, admin, nil)
		if w.Code != tc.want {
			t.Fatalf("%q: status = %d, want %d", tc.query, w.Code, tc.want)
		}
		if h.listings.lastPage != tc.page {
			t.Fatalf("%q: page = %v, want %v", tc.query, h.listings.lastPage, tc.page)
		}
	}
}

func TestCreateReservation(t *testing.T) {
	body := map[string]any{
		"totalPrice": 150,
		"startDate":  "2024-06-01T00:00:00.000Z",
		"endDate":    "2024-06-04T00:00:00.000Z",
		"listingId":  "l1",
	}

	t.Run("anonymous", func(t *testing.T) {
		h := newHarness("k")
		if w := h.do(http.MethodPost, "/api/reservations", "", body); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", w.Code)
		}
		if len(h.reservations.created) != 0 {
			t.Fatal("reservation created without a user")
		}
	})

	t.Run("created", func(t *testing.T) {
		h := newHarness("k")
		w := h.do(http.MethodPost, "/api/reservations", token(t, "guest"), body)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		if h.reservations.lastUser != "guest" || h.reservations.lastTotal != 150 {
			t.Fatalf("user=%q total=%d", h.reservations.lastUser, h.reservations.lastTotal)
		}
		if got := h.reservations.created[0]; got.Key != model.SelectionKey || got.StartDate.Day() != 1 {
			t.Fatalf("range = %+v", got)
		}
	})

	t.Run("taken dates", func(t *testing.T) {
		h := newHarness("k")
		h.reservations.err = fmt.Errorf("ReservationService.Create: %w", service.ErrDatesUnavailable)
		w := h.do(http.MethodPost, "/api/reservations", token(t, "guest"), body)
		if w.Code != http.StatusConflict || errorBody(t, w) != service.ErrDatesUnavailable.Error() {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing listing id", func(t *testing.T) {
		h := newHarness("k")
		bad := map[string]any{"totalPrice": 1, "startDate": body["startDate"], "endDate": body["endDate"]}
		if w := h.do(http.MethodPost, "/api/reservations", token(t, "guest"), bad); w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("storage failure is opaque", func(t *testing.T) {
		h := newHarness("k")
		h.reservations.err = fmt.Errorf("ReservationService.Create: insert: %w", sql.ErrConnDone)
		w := h.do(http.MethodPost, "/api/reservations", token(t, "guest"), body)
		if w.Code != http.StatusInternalServerError || errorBody(t, w) != "internal error" {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestGetReservationsScope(t *testing.T) {
	h := newHarness("k")

	if w := h.do(http.MethodGet, "/api/reservations", token(t, "guest"), nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if h.reservations.lastFilter.UserID != "guest" {
		t.Fatalf("default filter = %+v", h.reservations.lastFilter)
	}

	if w := h.do(http.MethodGet, "/api/reservations?ownerId=owner", token(t, "owner"), nil); w.Code != http.StatusOK {
		t.Fatalf("own bookings status = %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/api/reservations?userId=other", token(t, "guest"), nil); w.Code != http.StatusForbidden {
		t.Fatalf("foreign trips status = %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/api/reservations?userId=other", token(t, "a1", "ADMIN"), nil); w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}
}

func TestCancelReservation(t *testing.T) {
	h := newHarness("k")
	if w := h.do(http.MethodDelete, "/api/reservations/r1", token(t, "guest"), nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	h.reservations.err = service.ErrReservationNotFound
	if w := h.do(http.MethodDelete, "/api/reservations/r9", token(t, "guest"), nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", w.Code)
	}
}

func TestContactOwner(t *testing.T) {
	h := newHarness("k")
	body := map[string]any{"message": "Is parking included?"}

	w := h.do(http.MethodPost, "/api/listings/l1/contact", token(t, "tenant"), body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if h.contacts.calls != 1 || len(h.reservations.created) != 0 {
		t.Fatalf("contacts=%d reservations=%d", h.contacts.calls, len(h.reservations.created))
	}

	h.contacts.err = service.ErrSelfContact
	if w := h.do(http.MethodPost, "/api/listings/l1/contact", token(t, "owner"), body); w.Code != http.StatusBadRequest {
		t.Fatalf("self contact status = %d", w.Code)
	}
	if w := h.do(http.MethodPost, "/api/listings/l1/contact", token(t, "tenant"), map[string]any{}); w.Code != http.StatusBadRequest {
		t.Fatalf("empty body status = %d", w.Code)
	}
}

func multipartPhoto(t *testing.T, data []byte, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="room.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestPhotoUploadAndDownload(t *testing.T) {
	h := newHarness("k")
	upload := func(tok string) *httptest.ResponseRecorder {
		body, ct := multipartPhoto(t, []byte("png-bytes"), "image/png")
		req := httptest.NewRequest(http.MethodPost, "/api/listings/l1/photo", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		h.router.ServeHTTP(w, req)
		return w
	}

	if w := upload(token(t, "someone")); w.Code != http.StatusForbidden {
		t.Fatalf("non-owner status = %d", w.Code)
	}
	if w := upload(token(t, "owner")); w.Code != http.StatusOK {
		t.Fatalf("owner status = %d: %s", w.Code, w.Body.String())
	}
	if h.photoListing.listing.PhotoFileID != "photo1" {
		t.Fatalf("photo id not linked: %+v", h.photoListing.listing)
	}

	w := h.do(http.MethodGet, "/api/listings/l1/photo", "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "png-bytes" || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("download: %d %q %q", w.Code, w.Body.String(), w.Header().Get("Content-Type"))
	}
	if w := h.do(http.MethodGet, "/api/listings/l2/photo", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing listing status = %d", w.Code)
	}
}

func TestOwnerSeesOwnDrafts(t *testing.T) {
	h := newHarness("k")

	h.do(http.MethodGet, "/api/listings?userId=owner", "", nil)
	if h.listings.lastFilter.IncludeUnapproved {
		t.Fatal("anonymous caller sees drafts")
	}
	h.do(http.MethodGet, "/api/listings?userId=owner", token(t, "someone"), nil)
	if h.listings.lastFilter.IncludeUnapproved {
		t.Fatal("other user sees drafts")
	}
	h.do(http.MethodGet, "/api/listings?userId=owner", token(t, "owner"), nil)
	if !h.listings.lastFilter.IncludeUnapproved {
		t.Fatal("owner does not see own drafts")
	}
	h.do(http.MethodGet, "/api/listings", token(t, "owner"), nil)
	if h.listings.lastFilter.IncludeUnapproved {
		t.Fatal("unfiltered search includes drafts")
	}
}
