package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LJablon/EduRent/internal/mapview"
	"github.com/LJablon/EduRent/internal/model"
	"github.com/LJablon/EduRent/internal/service"
)

type HomeService interface {
	Home(ctx context.Context, f model.ListingFilter) (*service.HomePage, error)
	Map(ctx context.Context, f model.ListingFilter) (*mapview.View, error)
}

// HomeHandler serves the landing page payload and the standalone map.
type HomeHandler struct {
	svc HomeService
}

func NewHomeHandler(svc HomeService) *HomeHandler {
	return &HomeHandler{svc: svc}
}

func (h *HomeHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/home", h.GetHome)
	rg.GET("/map", h.GetMap)
}

// GET /api/home
func (h *HomeHandler) GetHome(c *gin.Context) {
	f, err := listingFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := h.svc.Home(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/map
func (h *HomeHandler) GetMap(c *gin.Context) {
	f, err := listingFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.svc.Map(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
