package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LJablon/EduRent/internal/availability"
	"github.com/LJablon/EduRent/internal/middleware"
	"github.com/LJablon/EduRent/internal/model"
	"github.com/LJablon/EduRent/internal/service"
)

// ListingService is the part of service.ListingService the handler uses.
type ListingService interface {
	Create(ctx context.Context, ownerID string, in service.ListingInput) (*model.Listing, error)
	Update(ctx context.Context, ownerID, id string, in service.ListingInput) (*model.Listing, error)
	Delete(ctx context.Context, ownerID, id string) error
	Search(ctx context.Context, f model.ListingFilter) ([]model.Listing, error)
	Detail(ctx context.Context, id string) (*service.ListingDetail, error)
	Availability(ctx context.Context, id string) ([]time.Time, error)
	Quote(ctx context.Context, id string, r model.DateRange) (*service.Quote, error)
	Pending(ctx context.Context, limit, offset int) ([]model.Listing, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
}

// ListingHandler serves listing pages, moderation and price quotes.
type ListingHandler struct {
	svc ListingService
}

func NewListingHandler(svc ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

// RegisterPublic mounts the read-only routes.
func (h *ListingHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/listings", h.GetListings)
	rg.GET("/listings/:id", h.GetListingByID)
	rg.GET("/listings/:id/availability", h.GetAvailability)
	rg.POST("/listings/:id/quote", h.Quote)
}

// RegisterProtected mounts the owner routes; rg must carry JWT auth.
func (h *ListingHandler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/listings", h.CreateListing)
	rg.PUT("/listings/:id", h.UpdateListing)
	rg.DELETE("/listings/:id", h.DeleteListing)
}

// RegisterAdmin mounts moderation; rg must carry JWT auth and AdminOnly.
func (h *ListingHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/admin/listings/pending", h.GetPending)
	rg.PUT("/admin/listings/:id/approve", h.Approve)
	rg.PUT("/admin/listings/:id/reject", h.Reject)
}

// ListingRequestDTO is the body of create and update.
type ListingRequestDTO struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description" binding:"required"`
	ImageSrc      string     `json:"imageSrc"`
	Category      string     `json:"category" binding:"required"`
	RoomCount     int        `json:"roomCount" binding:"gte=0"`
	BathroomCount int        `json:"bathroomCount" binding:"gte=0"`
	GuestCount    int        `json:"guestCount" binding:"gte=1"`
	LocationValue string     `json:"locationValue" binding:"required"`
	Lat           *float64   `json:"lat" binding:"omitempty,latitude"`
	Lng           *float64   `json:"lng" binding:"omitempty,longitude"`
	LeaseStart    *time.Time `json:"leaseStartDate"`
	LeaseEnd      *time.Time `json:"leaseEndDate"`
	Price         int        `json:"price" binding:"required,gt=0"`
}

func (d ListingRequestDTO) input() service.ListingInput {
	return service.ListingInput{
		Title:         d.Title,
		Description:   d.Description,
		ImageSrc:      d.ImageSrc,
		Category:      d.Category,
		RoomCount:     d.RoomCount,
		BathroomCount: d.BathroomCount,
		GuestCount:    d.GuestCount,
		LocationValue: d.LocationValue,
		Lat:           d.Lat,
		Lng:           d.Lng,
		LeaseStart:    d.LeaseStart,
		LeaseEnd:      d.LeaseEnd,
		Price:         d.Price,
	}
}

// QuoteRequestDTO is the body of POST /listings/:id/quote.
type QuoteRequestDTO struct {
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// GET /api/listings?category=...&locationValue=...&guestCount=...&startDate=...&limit=...&offset=...
func (h *ListingHandler) GetListings(c *gin.Context) {
	f, err := listingFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// owners see their own drafts; everyone else only approved listings
	me := middleware.UserID(c)
	f.IncludeUnapproved = f.UserID != "" && (f.UserID == me || c.GetBool(middleware.IsAdminKey))

	list, err := h.svc.Search(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/listings/:id
func (h *ListingHandler) GetListingByID(c *gin.Context) {
	d, err := h.svc.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /api/listings/:id/availability
func (h *ListingHandler) GetAvailability(c *gin.Context) {
	id := c.Param("id")
	days, err := h.svc.Availability(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"listingId":     id,
		"disabledDates": availability.FormatDays(days),
	})
}

// POST /api/listings/:id/quote
func (h *ListingHandler) Quote(c *gin.Context) {
	var req QuoteRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	q, err := h.svc.Quote(c.Request.Context(), c.Param("id"), model.DateRange{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Key:       model.SelectionKey,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /api/listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req ListingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	l, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// PUT /api/listings/:id
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	var req ListingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	l, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// DELETE /api/listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GET /api/admin/listings/pending?limit=10&offset=0
func (h *ListingHandler) GetPending(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.svc.Pending(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PUT /api/admin/listings/:id/approve
func (h *ListingHandler) Approve(c *gin.Context) {
	if err := h.svc.Approve(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "approved"})
}

// PUT /api/admin/listings/:id/reject
func (h *ListingHandler) Reject(c *gin.Context) {
	if err := h.svc.Reject(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rejected"})
}
