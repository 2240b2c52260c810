package storage

import (
	"errors"
	"sort"
)

// ErrWriteFailed is returned by a MemoryStore whose writes have been disabled
var ErrWriteFailed = errors.New("storage unavailable")

// MemoryStore is an in-process Provider. It records every write so callers
// can assert on what was persisted, and can be told to fail writes.
type MemoryStore struct {
	values     map[string]string
	Writes     []map[string]string // one element per Set/SetMany call, in order
	FailWrites bool
	FailReads  bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(key string) (string, error) {
	if s.FailReads {
		return "", errors.New("storage unavailable")
	}
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

func (s *MemoryStore) SetMany(values map[string]string) error {
	if s.FailWrites {
		return ErrWriteFailed
	}
	write := make(map[string]string, len(values))
	for k, v := range values {
		s.values[k] = v
		write[k] = v
	}
	s.Writes = append(s.Writes, write)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	if s.FailWrites {
		return ErrWriteFailed
	}
	delete(s.values, key)
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *MemoryStore) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *MemoryStore) GetConfigPath() string {
	return ":memory:"
}
