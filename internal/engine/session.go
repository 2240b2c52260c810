// Package engine owns the live goal set and history for one run of the app
// and writes every change through to storage.
package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/history"
	"github.com/julianstephens/quotapace/internal/logger"
	"github.com/julianstephens/quotapace/internal/models"
	"github.com/julianstephens/quotapace/internal/persistence"
	"github.com/julianstephens/quotapace/internal/share"
)

const maxIDAttempts = 5

// SaveWarning reports that a change was applied in memory but could not be
// written. The session stays usable; the next successful write catches up.
type SaveWarning struct {
	Key string
	Err error
}

func (w *SaveWarning) Error() string {
	return fmt.Sprintf("change kept for this session but not saved (%s): %v", w.Key, w.Err)
}

func (w *SaveWarning) Unwrap() error {
	return w.Err
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator replaces the UUIDv7 id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Session) { s.newID = gen }
}

// Session is not safe for concurrent use.
type Session struct {
	adapter *persistence.Adapter
	goals   models.GoalSet
	history *history.Store
	now     func() time.Time
	newID   func() string
}

// Open hydrates a session from the adapter's store.
func Open(adapter *persistence.Adapter, opts ...Option) *Session {
	s := &Session{
		adapter: adapter,
		now:     time.Now,
		newID:   newUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.goals = adapter.LoadGoalSet()
	s.history = adapter.LoadHistory()
	logger.Debug("session loaded", "shifts", s.goals.Shifts, "history", s.history.Len())
	return s
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Goals returns a copy of the live goal set.
func (s *Session) Goals() models.GoalSet {
	return s.goals
}

// History gives read access to the archive. Callers must not mutate it.
func (s *Session) History() *history.Store {
	return s.history
}

func (s *Session) saveGoals() error {
	if err := s.adapter.SaveGoalSet(s.goals); err != nil {
		return &SaveWarning{Key: constants.GoalStateKey, Err: err}
	}
	return nil
}

// SetField stores raw (parsed leniently, bad input becomes 0) into one
// field of one metric.
func (s *Session) SetField(m constants.Metric, field constants.GoalField, raw string) (models.GoalSet, error) {
	if !s.goals.SetField(m, field, raw) {
		return s.goals, fmt.Errorf("unknown metric %q or field %q", m, field)
	}
	return s.goals, s.saveGoals()
}

// SetShifts stores raw as the remaining shift count.
func (s *Session) SetShifts(raw string) (models.GoalSet, error) {
	s.goals.SetShifts(raw)
	return s.goals, s.saveGoals()
}

func (s *Session) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if _, taken := s.history.Get(id); id != "" && !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique history id")
}

// Archive snapshots the current period into history and zeroes progress.
// Targets and shifts carry over.
func (s *Session) Archive() (models.HistoryEntry, error) {
	id, err := s.uniqueID()
	if err != nil {
		return models.HistoryEntry{}, err
	}

	entry := models.NewHistoryEntry(id, s.now(), s.goals)
	if err := s.history.Prepend(entry); err != nil {
		return models.HistoryEntry{}, err
	}
	s.goals.ResetProgress()
	logger.Info("archived period", "id", entry.ID, "month", entry.Month, "year", entry.Year)

	if err := s.adapter.SaveArchive(s.goals, s.history); err != nil {
		return entry, &SaveWarning{Key: constants.HistoryKey, Err: err}
	}
	return entry, nil
}

// Delete removes a history entry. A missing id reports false and writes nothing.
func (s *Session) Delete(id string) (bool, error) {
	if !s.history.Delete(id) {
		return false, nil
	}
	logger.Info("deleted history entry", "id", id)
	if err := s.adapter.SaveHistory(s.history); err != nil {
		return true, &SaveWarning{Key: constants.HistoryKey, Err: err}
	}
	return true, nil
}

func (s *Session) Filter(year int, month string) []models.HistoryEntry {
	return s.history.Filter(year, month)
}

func (s *Session) DistinctYears() []int {
	return s.history.DistinctYears()
}

func (s *Session) DistinctMonths(year int) []string {
	return s.history.DistinctMonths(year)
}

// ChartSeries returns chart points for metric m over the filtered history.
func (s *Session) ChartSeries(year int, month string, m constants.Metric) []history.ChartPoint {
	return history.ChartSeries(s.Filter(year, month), m)
}

// Export sends the filtered history as indented JSON to sharer. Failures
// are logged and returned; the session is unaffected.
func (s *Session) Export(ctx context.Context, sharer share.Sharer, year int, month string) error {
	payload, err := history.ExportText(s.Filter(year, month))
	if err != nil {
		logger.Error("export failed", "error", err)
		return err
	}
	if err := sharer.Share(ctx, constants.ExportTitle, payload); err != nil {
		logger.Error("export failed", "error", err)
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}

// ExportXLSX writes the filtered history as a spreadsheet to w.
func (s *Session) ExportXLSX(w io.Writer, year int, month string) error {
	if err := history.WriteXLSX(s.Filter(year, month), w); err != nil {
		logger.Error("xlsx export failed", "error", err)
		return err
	}
	return nil
}
