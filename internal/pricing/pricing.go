// Package pricing turns a selected date range and a nightly rate into a
// total price.
package pricing

import (
	"time"

	"github.com/LJablon/EduRent/internal/availability"
	"github.com/LJablon/EduRent/internal/model"
)

// Estimator computes the total for a stay.
type Estimator interface {
	Estimate(r model.DateRange, nightly int) int
}

// NightlyEstimator charges the nightly rate per night, with a one-night minimum.
type NightlyEstimator struct{}

func (NightlyEstimator) Estimate(r model.DateRange, nightly int) int {
	return Estimate(r, nightly)
}

// NightsBetween counts whole calendar days from start to end. Same-day ranges
// are zero nights; the result is negative when end is before start.
func NightsBetween(start, end time.Time) int {
	s, e := availability.Day(start), availability.Day(end)
	return int(e.Sub(s).Hours() / 24)
}

// Estimate returns nights * nightly. When the range has no nights, or the
// nightly price is missing, the nightly price itself is returned.
func Estimate(r model.DateRange, nightly int) int {
	nights := NightsBetween(r.StartDate, r.EndDate)
	if nights > 0 && nightly > 0 {
		return nights * nightly
	}
	return nightly
}
