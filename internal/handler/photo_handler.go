package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LJablon/EduRent/internal/middleware"
	"github.com/LJablon/EduRent/internal/model"
)

type PhotoStore interface {
	UploadPhoto(ctx context.Context, file io.Reader, filename, contentType string) (string, error)
	DownloadPhoto(ctx context.Context, photoID string) ([]byte, string, error)
}

// PhotoListings is satisfied by repository.ListingRepository.
type PhotoListings interface {
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	UpdatePhotoFileID(ctx context.Context, listingID, fileID string) error
}

type PhotoHandler struct {
	Repo        PhotoStore
	ListingRepo PhotoListings
}

func (h *PhotoHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/listings/:id/photo", h.DownloadPhoto)
}

func (h *PhotoHandler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/listings/:id/photo", h.UploadPhoto)
}

// POST /api/listings/:id/photo (multipart field "file"), owner only.
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	listingID := c.Param("id")
	listing, err := h.ListingRepo.GetByID(c.Request.Context(), listingID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	if listing.UserID != middleware.UserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot open file"})
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("listing_%s_%s", listingID, fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	photoID, err := h.Repo.UploadPhoto(c.Request.Context(), file, filename, contentType)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.ListingRepo.UpdatePhotoFileID(c.Request.Context(), listingID, photoID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo_id": photoID})
}

// GET /api/listings/:id/photo
func (h *PhotoHandler) DownloadPhoto(c *gin.Context) {
	listing, err := h.ListingRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	if listing.PhotoFileID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found for this listing"})
		return
	}

	data, contentType, err := h.Repo.DownloadPhoto(c.Request.Context(), listing.PhotoFileID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, contentType, data)
}
