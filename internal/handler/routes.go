package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LJablon/EduRent/internal/middleware"
)

// Handlers groups everything mounted under /api. Photos is nil when no
// MongoDB is configured.
type Handlers struct {
	Listings     *ListingHandler
	Reservations *ReservationHandler
	Contact      *ContactHandler
	Home         *HomeHandler
	Photos       *PhotoHandler
}

// Mount registers /health and the /api routes on r.
func (hs Handlers) Mount(r *gin.Engine, jwtSecret string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// 1. open routes; a token, if sent, identifies the caller
	public := api.Group("/")
	public.Use(middleware.OptionalJWTAuth(jwtSecret))
	hs.Home.RegisterPublic(public)
	hs.Listings.RegisterPublic(public)
	hs.Reservations.RegisterPublic(public)
	if hs.Photos != nil {
		hs.Photos.RegisterPublic(public)
	}

	// 2. JWT required
	protected := api.Group("/")
	protected.Use(middleware.JWTAuth(jwtSecret))
	{
		hs.Listings.RegisterProtected(protected)
		hs.Reservations.RegisterProtected(protected)
		hs.Contact.RegisterProtected(protected)
		if hs.Photos != nil {
			hs.Photos.RegisterProtected(protected)
		}
	}

	// 3. moderation
	admin := api.Group("/")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.AdminOnly())
	hs.Listings.RegisterAdmin(admin)
}
