package models

import (
	"time"
)

// HistoryEntry is an archived snapshot of a finished period's GoalSet.
// Entries are never edited; they are only created by archiving and removed whole.
type HistoryEntry struct {
	ID       string `json:"id" validate:"required"`
	Date     string `json:"date" validate:"required"` // RFC 3339 archive timestamp
	Month    string `json:"month" validate:"required,oneof=January February March April May June July August September October November December"`
	Year     int    `json:"year" validate:"gte=1"`
	Shifts   int    `json:"shifts"`
	Money    Goal   `json:"money"`
	Phone    Goal   `json:"phone"`
	Internet Goal   `json:"internet"`
}

// NewHistoryEntry snapshots gs as archived at the given time.
func NewHistoryEntry(id string, at time.Time, gs GoalSet) HistoryEntry {
	return HistoryEntry{
		ID:       id,
		Date:     at.Format(time.RFC3339),
		Month:    at.Month().String(),
		Year:     at.Year(),
		Shifts:   gs.Shifts,
		Money:    gs.Money,
		Phone:    gs.Phone,
		Internet: gs.Internet,
	}
}

// GoalSet returns the snapshot's goals as a GoalSet.
func (e HistoryEntry) GoalSet() GoalSet {
	return GoalSet{
		Shifts:   e.Shifts,
		Money:    e.Money,
		Phone:    e.Phone,
		Internet: e.Internet,
	}
}

// ArchivedAt parses Date. The zero time is returned if Date is unreadable.
func (e HistoryEntry) ArchivedAt() time.Time {
	t, err := time.Parse(time.RFC3339, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
