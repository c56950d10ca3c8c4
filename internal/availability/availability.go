// Package availability derives the calendar days a listing cannot be booked
// for from its existing reservations.
package availability

import (
	"sort"
	"time"

	"github.com/LJablon/EduRent/internal/model"
)

// Day truncates t to its calendar day. The year, month and day are read in
// t's own location and the result is midnight UTC, so two instants that fall
// on the same local date compare equal.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EachDay lists every calendar day from start to end, both inclusive.
// It returns nil when end is before start.
func EachDay(start, end time.Time) []time.Time {
	s, e := Day(start), Day(end)
	if e.Before(s) {
		return nil
	}
	var days []time.Time
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Set is a set of calendar days.
type Set struct {
	days map[int64]time.Time
}

func NewSet() *Set {
	return &Set{days: make(map[int64]time.Time)}
}

// FromReservations builds the union of every reservation's inclusive span.
func FromReservations(reservations []model.Reservation) *Set {
	s := NewSet()
	for _, r := range reservations {
		s.AddRange(r.StartDate, r.EndDate)
	}
	return s
}

func (s *Set) Add(t time.Time) {
	d := Day(t)
	s.days[d.Unix()] = d
}

func (s *Set) AddRange(start, end time.Time) {
	for _, d := range EachDay(start, end) {
		s.days[d.Unix()] = d
	}
}

func (s *Set) Contains(t time.Time) bool {
	_, ok := s.days[Day(t).Unix()]
	return ok
}

// Overlaps reports whether any day of r is already in the set.
func (s *Set) Overlaps(r model.DateRange) bool {
	for _, d := range EachDay(r.StartDate, r.EndDate) {
		if s.Contains(d) {
			return true
		}
	}
	return false
}

func (s *Set) Len() int {
	return len(s.days)
}

// Days returns the set in ascending order.
func (s *Set) Days() []time.Time {
	out := make([]time.Time, 0, len(s.days))
	for _, d := range s.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// DisabledDates is the sorted union of the reservations' day spans.
func DisabledDates(reservations []model.Reservation) []time.Time {
	return FromReservations(reservations).Days()
}

// FormatDays renders days as YYYY-MM-DD strings.
func FormatDays(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format(time.DateOnly))
	}
	return out
}
