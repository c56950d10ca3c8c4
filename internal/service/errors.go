package service

import "errors"

var (
	ErrListingNotFound     = errors.New("listing not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidDateRange    = errors.New("end date must not be before start date")
	ErrDatesUnavailable    = errors.New("selected dates are not available")
	ErrListingNotBookable  = errors.New("listing is not open for reservations")
	ErrForbidden           = errors.New("permission denied")
	ErrSelfContact         = errors.New("owners cannot contact themselves")
	ErrEmptyMessage        = errors.New("message must not be empty")
)
