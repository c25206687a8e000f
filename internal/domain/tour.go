// Package domain contains the core data types for the tour allocation service.
// This package only depends on uuid and is imported by every other internal
// package (allocation, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tour is the top-level aggregate: a group trip with a departure and an
// optional return date. Rooms, vehicles and travelers all belong to a tour.
type Tour struct {
	ID            uuid.UUID
	Name          string
	DepartureDate time.Time
	ReturnDate    *time.Time // nil until the itinerary is fixed
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Nights returns the number of overnight stays, i.e. days - 1.
// A tour without a return date, or a same-day tour, has zero nights.
func (t Tour) Nights() int {
	if t.ReturnDate == nil {
		return 0
	}
	days := int(dateOnly(*t.ReturnDate).Sub(dateOnly(t.DepartureDate)).Hours()/24) + 1
	if days <= 1 {
		return 0
	}
	return days - 1
}

// ValidNight reports whether n is a night index inside 1..Nights().
func (t Tour) ValidNight(n int) bool {
	return n >= 1 && n <= t.Nights()
}

// NightDate returns the calendar date on which night n begins.
func (t Tour) NightDate(n int) time.Time {
	return dateOnly(t.DepartureDate).AddDate(0, 0, n-1)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Traveler is a person on the tour roster. Travelers are imported by other
// parts of the back office and are read-only here.
type Traveler struct {
	ID          uuid.UUID
	TourID      uuid.UUID
	DisplayName string
	CreatedAt   time.Time
}
