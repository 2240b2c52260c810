package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/quotapace/internal/constants"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	connStr := "redis://localhost:6379/0"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://user@localhost/db"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestResolve(t *testing.T) {
	t.Run("keyring wins", func(t *testing.T) {
		gokeyring.MockInit()
		t.Setenv(constants.EnvDBConnection, "postgres://env@localhost/db")
		if err := SetConnectionString("postgres://ring@localhost/db"); err != nil {
			t.Fatalf("SetConnectionString() failed: %v", err)
		}

		got, src, err := Resolve()
		if err != nil {
			t.Fatalf("Resolve() failed: %v", err)
		}
		if got != "postgres://ring@localhost/db" || src != SourceKeyring {
			t.Errorf("Resolve() = %q, %q, want keyring value", got, src)
		}
	})

	t.Run("environment fallback", func(t *testing.T) {
		gokeyring.MockInit()
		t.Setenv(constants.EnvDBConnection, "redis://localhost:6379")

		got, src, err := Resolve()
		if err != nil {
			t.Fatalf("Resolve() failed: %v", err)
		}
		if got != "redis://localhost:6379" || src != SourceEnv {
			t.Errorf("Resolve() = %q, %q, want environment value", got, src)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		gokeyring.MockInit()
		t.Setenv(constants.EnvDBConnection, "")

		if _, _, err := Resolve(); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve() error = %v, want %v", err, ErrNotFound)
		}
	})
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}
