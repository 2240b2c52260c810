package storage

import "errors"

// ErrNotFound is returned by Get when a key has never been written or was deleted
var ErrNotFound = errors.New("key not found")

// Provider is a durable string key-value store.
//
// Providers are not safe for concurrent use by multiple goroutines, and
// running several quotapace processes against the same store at once is not
// supported.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Values
	Get(key string) (string, error)
	Set(key, value string) error
	// SetMany writes every pair or none of them.
	SetMany(values map[string]string) error
	Delete(key string) error

	// Utils
	GetConfigPath() string
}
