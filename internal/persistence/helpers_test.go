package persistence

import (
	"testing"
	"time"
)

func ptr(s string) *string { return &s }

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	at, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return at
}
