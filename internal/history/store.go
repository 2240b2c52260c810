// Package history holds the archive of finished periods and the read models
// derived from it (filters, distinct years and months, chart series, export).
package history

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/models"
)

// ChartPoint is one labelled value of a trend chart
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Store is the ordered collection of archived periods, most recent first.
//
// Store is not safe for concurrent use.
type Store struct {
	entries []models.HistoryEntry
}

// New returns a store holding entries in the given order. Entries whose id
// was already seen are dropped; the dropped ids are returned.
func New(entries []models.HistoryEntry) (*Store, []string) {
	s := &Store{entries: make([]models.HistoryEntry, 0, len(entries))}
	seen := make(map[string]bool, len(entries))
	var dropped []string
	for _, e := range entries {
		if seen[e.ID] {
			dropped = append(dropped, e.ID)
			continue
		}
		seen[e.ID] = true
		s.entries = append(s.entries, e)
	}
	return s, dropped
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns a copy of every entry in store order.
func (s *Store) Entries() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (models.HistoryEntry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.HistoryEntry{}, false
}

// Prepend adds e as the most recent entry. It fails if e.ID is already present.
func (s *Store) Prepend(e models.HistoryEntry) error {
	if e.ID == "" {
		return fmt.Errorf("history entry has no id")
	}
	if _, ok := s.Get(e.ID); ok {
		return fmt.Errorf("history entry %s already exists", e.ID)
	}
	s.entries = append([]models.HistoryEntry{e}, s.entries...)
	return nil
}

// Delete removes the entry with the given id. It reports false when no such
// entry exists.
func (s *Store) Delete(id string) bool {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Filter returns the entries matching year and month in store order.
// A zero year matches every year and an empty month matches every month.
func (s *Store) Filter(year int, month string) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if year != 0 && e.Year != year {
			continue
		}
		if month != "" && e.Month != month {
			continue
		}
		out = append(out, e)
	}
	return out
}

// DistinctYears returns each year present, in the order first seen.
func (s *Store) DistinctYears() []int {
	seen := make(map[int]bool)
	var years []int
	for _, e := range s.entries {
		if !seen[e.Year] {
			seen[e.Year] = true
			years = append(years, e.Year)
		}
	}
	return years
}

// DistinctMonths returns each month present within year, in the order first seen.
func (s *Store) DistinctMonths(year int) []string {
	seen := make(map[string]bool)
	var months []string
	for _, e := range s.entries {
		if e.Year != year || seen[e.Month] {
			continue
		}
		seen[e.Month] = true
		months = append(months, e.Month)
	}
	return months
}

// ChartSeries maps entries to (month label, percent complete) points for
// metric m, keeping the order of entries.
func ChartSeries(entries []models.HistoryEntry, m constants.Metric) []ChartPoint {
	points := make([]ChartPoint, 0, len(entries))
	for _, e := range entries {
		g, _ := e.GoalSet().Goal(m)
		points = append(points, ChartPoint{
			Label: chartLabel(e.Month),
			Value: g.PercentComplete(),
		})
	}
	return points
}

func chartLabel(month string) string {
	if utf8.RuneCountInString(month) <= constants.ChartLabelLen {
		return month
	}
	return string([]rune(month)[:constants.ChartLabelLen])
}

// ExportText encodes entries as an indented JSON array carrying every field.
func ExportText(entries []models.HistoryEntry) (string, error) {
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode history: %w", err)
	}
	return string(data), nil
}
