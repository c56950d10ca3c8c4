package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LJablon/EduRent/internal/middleware"
	"github.com/LJablon/EduRent/internal/model"
)

type ReservationService interface {
	Create(ctx context.Context, userID, listingID string, r model.DateRange, clientTotal int) (*model.Reservation, error)
	List(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error)
	ListForListing(ctx context.Context, listingID string) ([]model.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID string) error
}

type ReservationHandler struct {
	svc ReservationService
}

func NewReservationHandler(svc ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/listings/:id/reservations", h.GetListingReservations)
}

func (h *ReservationHandler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/reservations", h.CreateReservation)
	rg.GET("/reservations", h.GetReservations)
	rg.DELETE("/reservations/:id", h.CancelReservation)
}

// ReservationRequestDTO is the body the listing page posts.
type ReservationRequestDTO struct {
	TotalPrice int       `json:"totalPrice" binding:"gte=0"`
	StartDate  time.Time `json:"startDate" binding:"required"`
	EndDate    time.Time `json:"endDate" binding:"required"`
	ListingID  string    `json:"listingId" binding:"required"`
}

// POST /api/reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req ReservationRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	r := model.DateRange{StartDate: req.StartDate, EndDate: req.EndDate, Key: model.SelectionKey}

	rv, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req.ListingID, r, req.TotalPrice)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// GET /api/reservations?userId=...&listingId=...&ownerId=...
//
// Without parameters the caller's own trips are returned. Other users'
// trips and other owners' bookings are visible to admins only.
func (h *ReservationHandler) GetReservations(c *gin.Context) {
	me := middleware.UserID(c)
	f := model.ReservationFilter{
		UserID:    c.Query("userId"),
		ListingID: c.Query("listingId"),
		OwnerID:   c.Query("ownerId"),
	}
	if f == (model.ReservationFilter{}) {
		f.UserID = me
	}
	if !c.GetBool(middleware.IsAdminKey) &&
		((f.UserID != "" && f.UserID != me) || (f.OwnerID != "" && f.OwnerID != me)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	list, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/listings/:id/reservations
func (h *ReservationHandler) GetListingReservations(c *gin.Context) {
	list, err := h.svc.ListForListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DELETE /api/reservations/:id
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	if err := h.svc.Cancel(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cancelled"})
}
