// Package persistence maps the goal set and the history archive onto the
// two fixed keys of a storage.Provider.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/history"
	"github.com/julianstephens/quotapace/internal/logger"
	"github.com/julianstephens/quotapace/internal/models"
	"github.com/julianstephens/quotapace/internal/storage"
	"github.com/julianstephens/quotapace/internal/validation"
)

type Adapter struct {
	store     storage.Provider
	validator *validation.Validator
}

func New(store storage.Provider) *Adapter {
	return &Adapter{
		store:     store,
		validator: validation.New(),
	}
}

// Store returns the underlying provider.
func (a *Adapter) Store() storage.Provider {
	return a.store
}

// storedGoalSet detects absent fields, which decode to nil.
type storedGoalSet struct {
	Shifts   *int         `json:"shifts"`
	Money    *models.Goal `json:"money"`
	Phone    *models.Goal `json:"phone"`
	Internet *models.Goal `json:"internet"`
}

// LoadGoalSet returns the saved goal set, or the seed defaults when nothing
// usable is stored.
func (a *Adapter) LoadGoalSet() models.GoalSet {
	raw, err := a.store.Get(constants.GoalStateKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("failed to read goals, using defaults", "error", err)
		}
		return models.DefaultGoalSet()
	}

	var doc storedGoalSet
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		logger.Warn("stored goals are malformed, using defaults", "error", err)
		return models.DefaultGoalSet()
	}
	if doc.Shifts == nil || doc.Money == nil || doc.Phone == nil || doc.Internet == nil {
		logger.Warn("stored goals are incomplete, using defaults")
		return models.DefaultGoalSet()
	}

	return models.GoalSet{
		Shifts:   *doc.Shifts,
		Money:    *doc.Money,
		Phone:    *doc.Phone,
		Internet: *doc.Internet,
	}
}

// LoadHistory returns the saved archive. A missing or malformed array gives
// an empty store; individual bad entries are dropped.
func (a *Adapter) LoadHistory() *history.Store {
	empty, _ := history.New(nil)

	raw, err := a.store.Get(constants.HistoryKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("failed to read history, starting empty", "error", err)
		}
		return empty
	}

	entries, err := a.decodeHistory(raw)
	if err != nil {
		logger.Warn("stored history is malformed, starting empty", "error", err)
		return empty
	}

	res := a.validator.History(entries)
	dropped := res.Dropped()
	kept := make([]models.HistoryEntry, 0, len(entries))
	for i, e := range entries {
		if dropped[i] {
			continue
		}
		kept = append(kept, e)
	}
	for _, is := range res.Issues {
		if is.Droppable() {
			logger.Warn("dropping stored history entry", "issue", is.Type, "detail", is.Description)
		} else {
			logger.Debug("stored history entry", "issue", is.Type, "detail", is.Description)
		}
	}

	store, dupes := history.New(kept)
	for _, id := range dupes {
		logger.Warn("dropping duplicate history entry", "id", id)
	}
	return store
}

// decodeHistory decodes each element separately so one bad element does
// not discard the rest.
func (a *Adapter) decodeHistory(raw string) ([]models.HistoryEntry, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, err
	}

	entries := make([]models.HistoryEntry, 0, len(elems))
	for i, elem := range elems {
		var e models.HistoryEntry
		if err := json.Unmarshal(elem, &e); err != nil {
			logger.Warn("dropping unreadable history entry", "index", i, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Validate reports every issue in the stored history without changing it.
func (a *Adapter) Validate() (validation.Result, error) {
	raw, err := a.store.Get(constants.HistoryKey)
	if errors.Is(err, storage.ErrNotFound) {
		return validation.Result{}, nil
	}
	if err != nil {
		return validation.Result{}, fmt.Errorf("failed to read history: %w", err)
	}
	entries, err := a.decodeHistory(raw)
	if err != nil {
		return validation.Result{}, fmt.Errorf("stored history is malformed: %w", err)
	}
	return a.validator.History(entries), nil
}

func encodeGoalSet(gs models.GoalSet) (string, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return "", fmt.Errorf("failed to encode goals: %w", err)
	}
	return string(data), nil
}

func encodeHistory(h *history.Store) (string, error) {
	entries := h.Entries()
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode history: %w", err)
	}
	return string(data), nil
}

// SaveGoalSet writes the goal set.
func (a *Adapter) SaveGoalSet(gs models.GoalSet) error {
	value, err := encodeGoalSet(gs)
	if err != nil {
		return err
	}
	if err := a.store.Set(constants.GoalStateKey, value); err != nil {
		logger.Error("failed to save goals", "error", err)
		return fmt.Errorf("failed to save goals: %w", err)
	}
	return nil
}

// SaveHistory writes the archive.
func (a *Adapter) SaveHistory(h *history.Store) error {
	value, err := encodeHistory(h)
	if err != nil {
		return err
	}
	if err := a.store.Set(constants.HistoryKey, value); err != nil {
		logger.Error("failed to save history", "error", err)
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// SaveArchive writes both keys in one batch.
func (a *Adapter) SaveArchive(gs models.GoalSet, h *history.Store) error {
	goals, err := encodeGoalSet(gs)
	if err != nil {
		return err
	}
	hist, err := encodeHistory(h)
	if err != nil {
		return err
	}
	err = a.store.SetMany(map[string]string{
		constants.GoalStateKey: goals,
		constants.HistoryKey:   hist,
	})
	if err != nil {
		logger.Error("failed to save archive", "error", err)
		return fmt.Errorf("failed to save archive: %w", err)
	}
	return nil
}
