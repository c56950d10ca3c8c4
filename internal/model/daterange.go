package model

import "time"

// SelectionKey is the key carried by the date picker's range.
const SelectionKey = "selection"

// DateRange is a start/end pair picked by a user. Both ends are calendar days;
// the time of day is ignored by availability and pricing.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Key       string    `json:"key"`
}

// TodayRange returns the default selection: today to today.
func TodayRange(now time.Time) DateRange {
	return DateRange{StartDate: now, EndDate: now, Key: SelectionKey}
}
