package domain

import (
	"fmt"
	"time"
)

// RosterStatus is the publication state of a roster period.
type RosterStatus string

const (
	RosterDraft     RosterStatus = "draft"
	RosterPublished RosterStatus = "published"
	RosterArchived  RosterStatus = "archived"
)

// IsValid checks if the status is known.
func (s RosterStatus) IsValid() bool {
	switch s {
	case RosterDraft, RosterPublished, RosterArchived:
		return true
	default:
		return false
	}
}

// RosterPeriod is a date range for which shifts are planned.
type RosterPeriod struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	StartDate  time.Time    `json:"start_date"`
	EndDate    time.Time    `json:"end_date"`
	Status     RosterStatus `json:"status"`
	ShiftCount int          `json:"shift_count"`
}

// Key returns the cache identity of the roster period.
func (r RosterPeriod) Key() ID {
	return IntID(r.ID)
}

// Validate validates the roster period.
func (r *RosterPeriod) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("%w: invalid roster ID: %d", ErrValidation, r.ID)
	}
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: roster %d ends before it starts", ErrValidation, r.ID)
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("%w: invalid roster status: %s", ErrValidation, r.Status)
	}
	return nil
}

// Contains reports whether t falls inside the period, both ends inclusive.
func (r RosterPeriod) Contains(t time.Time) bool {
	return !t.Before(r.StartDate) && !t.After(r.EndDate)
}

// CurrentRoster returns the first non-archived period covering the calendar
// day of now (UTC).
func CurrentRoster(rosters []RosterPeriod, now time.Time) (RosterPeriod, bool) {
	y, m, d := now.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for _, r := range rosters {
		if r.Status != RosterArchived && r.Contains(day) {
			return r, true
		}
	}
	return RosterPeriod{}, false
}
