package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appLog "github.com/LJablon/EduRent/internal/log"
	"github.com/LJablon/EduRent/internal/mapview"
	"github.com/LJablon/EduRent/internal/service"
)

// statusFor maps service errors to HTTP statuses. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrListingNotFound),
		errors.Is(err, service.ErrReservationNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrSelfContact):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDatesUnavailable),
		errors.Is(err, service.ErrListingNotBookable):
		return http.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, mapview.ErrMissingCredential):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	var msg string
	switch {
	case errors.Is(err, mapview.ErrMissingCredential):
		msg = mapview.MissingCredentialMessage
	case status == http.StatusInternalServerError:
		appLog.Error("request failed", err, "method", c.Request.Method, "path", c.FullPath())
		msg = "internal error"
	default:
		msg = rootMessage(err)
	}
	c.JSON(status, gin.H{"error": msg})
}

// rootMessage strips the "Type.Method: " prefixes added while wrapping.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
