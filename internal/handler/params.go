package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LJablon/EduRent/internal/model"
)

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

// queryLimit reads "limit", defaulting to 10 when absent.
func queryLimit(c *gin.Context) (int, error) {
	if c.Query("limit") == "" {
		return 10, nil
	}
	return queryInt(c, "limit")
}

func queryDate(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// listingFilter reads the query string of the listings and home pages:
// userId, category, locationValue, roomCount, guestCount, bathroomCount,
// minPrice, maxPrice, startDate, endDate, limit, offset.
func listingFilter(c *gin.Context) (model.ListingFilter, error) {
	f := model.ListingFilter{
		UserID:        c.Query("userId"),
		Category:      c.Query("category"),
		LocationValue: c.Query("locationValue"),
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"roomCount", &f.RoomCount},
		{"guestCount", &f.GuestCount},
		{"bathroomCount", &f.BathroomCount},
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
		{"offset", &f.Offset},
	}
	for _, p := range ints {
		n, err := queryInt(c, p.key)
		if err != nil {
			return f, err
		}
		*p.dst = n
	}

	limit, err := queryLimit(c)
	if err != nil {
		return f, err
	}
	f.Limit = limit

	if f.StartDate, err = queryDate(c, "startDate"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(c, "endDate"); err != nil {
		return f, err
	}
	return f, nil
}
