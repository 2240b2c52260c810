package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/engine"
	"github.com/julianstephens/quotapace/internal/keyring"
	"github.com/julianstephens/quotapace/internal/storage"
	"github.com/julianstephens/quotapace/internal/storage/postgres"
	"github.com/julianstephens/quotapace/internal/storage/redis"
	"github.com/julianstephens/quotapace/internal/storage/sqlite"
)

func TestResolveConfig(t *testing.T) {
	home, _ := os.UserHomeDir()

	t.Run("explicit path", func(t *testing.T) {
		got, err := ResolveConfig("/tmp/q.db")
		if err != nil || got != "/tmp/q.db" {
			t.Errorf("ResolveConfig() = %q, %v", got, err)
		}
	})

	t.Run("tilde expanded", func(t *testing.T) {
		got, _ := ResolveConfig("~/q.json")
		if got != filepath.Join(home, "q.json") {
			t.Errorf("ResolveConfig() = %q", got)
		}
	})

	t.Run("embedded password rejected", func(t *testing.T) {
		for _, c := range []string{"postgres://u:p@h/db", "redis://:p@localhost:6379"} {
			if _, err := ResolveConfig(c); !errors.Is(err, ErrEmbeddedCredentials) {
				t.Errorf("ResolveConfig(%q) error = %v, want ErrEmbeddedCredentials", c, err)
			}
		}
	})

	t.Run("keyring used when no config", func(t *testing.T) {
		gokeyring.MockInit()
		t.Setenv(constants.EnvDBConnection, "")
		if err := keyring.SetConnectionString("redis://:secret@cache:6379"); err != nil {
			t.Fatal(err)
		}
		got, err := ResolveConfig("")
		if err != nil || got != "redis://:secret@cache:6379" {
			t.Errorf("ResolveConfig() = %q, %v", got, err)
		}
	})

	t.Run("default sqlite", func(t *testing.T) {
		gokeyring.MockInit()
		t.Setenv(constants.EnvDBConnection, "")
		got, err := ResolveConfig("")
		if err != nil || got != filepath.Join(home, ".config/quotapace/quotapace.db") {
			t.Errorf("ResolveConfig() = %q, %v", got, err)
		}
	})
}

func TestOpenStore(t *testing.T) {
	tests := []struct {
		config string
		check  func(storage.Provider) bool
	}{
		{"postgres://u@h/db", func(p storage.Provider) bool { _, ok := p.(*postgres.Store); return ok }},
		{"host=localhost dbname=q", func(p storage.Provider) bool { _, ok := p.(*postgres.Store); return ok }},
		{"redis://localhost:6379", func(p storage.Provider) bool { _, ok := p.(*redis.Store); return ok }},
		{"/tmp/q.json", func(p storage.Provider) bool { _, ok := p.(*storage.JSONStore); return ok }},
		{"/tmp/q.db", func(p storage.Provider) bool { _, ok := p.(*sqlite.Store); return ok }},
	}
	for _, tt := range tests {
		p, err := OpenStore(tt.config)
		if err != nil {
			t.Errorf("OpenStore(%q) failed: %v", tt.config, err)
			continue
		}
		if !tt.check(p) {
			t.Errorf("OpenStore(%q) = %T", tt.config, p)
		}
	}
}

func TestContextWarn(t *testing.T) {
	var out bytes.Buffer
	ctx := &Context{Out: &out}

	if err := ctx.Warn(&engine.SaveWarning{Key: "k", Err: errors.New("disk full")}); err != nil {
		t.Errorf("Warn(SaveWarning) = %v, want nil", err)
	}
	if !strings.HasPrefix(out.String(), "Warning: ") {
		t.Errorf("output = %q", out.String())
	}

	plain := errors.New("boom")
	if err := ctx.Warn(plain); err != plain {
		t.Errorf("Warn(plain) = %v, want passthrough", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"", false},
	}
	for _, tt := range tests {
		ctx := &Context{Out: &bytes.Buffer{}, In: strings.NewReader(tt.in)}
		got, err := ctx.Confirm("Archive?")
		if err != nil || got != tt.want {
			t.Errorf("Confirm(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestPerformAutomaticBackup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "quotapace.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	NewContext(store).PerformAutomaticBackup()

	entries, err := os.ReadDir(filepath.Join(filepath.Dir(dbPath), constants.BackupDirName))
	if err != nil || len(entries) != 1 {
		t.Errorf("backup dir entries = %d, %v, want 1", len(entries), err)
	}
}
