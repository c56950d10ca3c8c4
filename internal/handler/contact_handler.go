package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LJablon/EduRent/internal/middleware"
	"github.com/LJablon/EduRent/internal/model"
	"github.com/LJablon/EduRent/internal/service"
)

type ContactService interface {
	Create(ctx context.Context, senderID, listingID string, in service.ContactInput) (*model.ContactRequest, error)
}

// ContactHandler lets a prospective tenant message a listing owner.
type ContactHandler struct {
	svc ContactService
}

func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/listings/:id/contact", h.ContactOwner)
}

type ContactRequestDTO struct {
	Message   string     `json:"message" binding:"required,max=2000"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// POST /api/listings/:id/contact
func (h *ContactHandler) ContactOwner(c *gin.Context) {
	var req ContactRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	cr, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.ContactInput{
		Message:   req.Message,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cr)
}
