package storage

import (
	"errors"
	"reflect"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if err := store.SetMany(map[string]string{"b": "2", "a": "1"}); err != nil {
		t.Fatalf("SetMany() failed: %v", err)
	}
	if err := store.Set("a", "3"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if got := store.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want [a b]", got)
	}
	if len(store.Writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(store.Writes))
	}
	if store.Writes[1]["a"] != "3" {
		t.Errorf("second write = %v", store.Writes[1])
	}
}

func TestMemoryStoreFailures(t *testing.T) {
	store := NewMemoryStore()
	store.FailWrites = true

	if err := store.Set("a", "1"); !errors.Is(err, ErrWriteFailed) {
		t.Errorf("Set() error = %v, want ErrWriteFailed", err)
	}
	if len(store.Writes) != 0 {
		t.Errorf("failed write was recorded")
	}

	store.FailReads = true
	if _, err := store.Get("a"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want read failure", err)
	}
}
