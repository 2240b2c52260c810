package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-ps"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/keyring"
	"github.com/julianstephens/quotapace/internal/storage"
	"github.com/julianstephens/quotapace/internal/storage/sqlite"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func newTestContext(t *testing.T, store storage.Provider) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &cli.Context{
		Store: store,
		Out:   &out,
		In:    strings.NewReader(""),
		Now:   func() time.Time { return testNow },
	}, &out
}

func setupSQLite(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "quotapace.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { store.Close() })
	ctx, out := newTestContext(t, store)
	return ctx, out, dbPath
}

type fakeProcess struct {
	pid  int
	exec string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.exec }

func stubProcesses(t *testing.T, procs ...ps.Process) {
	t.Helper()
	oldList, oldPID := listProcesses, currentPID
	listProcesses = func() ([]ps.Process, error) { return procs, nil }
	currentPID = func() int { return 100 }
	t.Cleanup(func() { listProcesses, currentPID = oldList, oldPID })
}

func TestInitCmd(t *testing.T) {
	ctx, out, dbPath := setupSQLite(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database not created: %v", err)
	}
	if !strings.Contains(out.String(), "Initialized quotapace storage at: "+dbPath) {
		t.Errorf("output = %q", out.String())
	}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("second init failed: %v", err)
	}
}

func TestInitCmdForce(t *testing.T) {
	ctx, _, _ := setupSQLite(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	ctx.Store.Set(constants.GoalStateKey, "{}")

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if _, err := ctx.Store.Get(constants.GoalStateKey); err == nil {
		t.Error("value survived --force")
	}
}

func TestInitCmdSource(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "old.json")
	src := storage.NewJSONStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatal(err)
	}
	src.SetMany(map[string]string{
		constants.GoalStateKey: `{"shifts":4}`,
		constants.HistoryKey:   `[]`,
	})

	ctx, out, _ := setupSQLite(t)
	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init --source failed: %v", err)
	}
	if got, _ := ctx.Store.Get(constants.GoalStateKey); got != `{"shifts":4}` {
		t.Errorf("copied goals = %q", got)
	}
	if !strings.Contains(out.String(), "Copied 2 keys.") {
		t.Errorf("output = %q", out.String())
	}

	if err := (&InitCmd{Force: true, Source: ctx.Store.GetConfigPath()}).Run(ctx); err == nil {
		t.Error("--force with same source should fail")
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx, out, _ := setupSQLite(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "up to date") {
		t.Errorf("output = %q", out.String())
	}

	jsonCtx, jsonOut := newTestContext(t, storage.NewMemoryStore())
	if err := (&MigrateCmd{}).Run(jsonCtx); err != nil {
		t.Errorf("migrate on schemaless store failed: %v", err)
	}
	if !strings.Contains(jsonOut.String(), "no schema") {
		t.Errorf("output = %q", jsonOut.String())
	}
}

func TestDoctorCmd(t *testing.T) {
	gokeyring.MockInit()

	t.Run("healthy", func(t *testing.T) {
		stubProcesses(t, fakeProcess{pid: 100, exec: "quotapace"}, fakeProcess{pid: 7, exec: "bash"})
		ctx, out, _ := setupSQLite(t)
		if err := (&InitCmd{}).Run(ctx); err != nil {
			t.Fatal(err)
		}
		out.Reset()

		if err := (&DoctorCmd{}).Run(ctx); err != nil {
			t.Fatalf("doctor failed on healthy store: %v\n%s", err, out.String())
		}
		for _, want := range []string{
			"✓ Store reachable: OK",
			"✓ Schema version: OK",
			"⚠ Goals readable: WARNING",
			"⚠ Backups present: WARNING",
			"✓ Other processes: OK",
			"All diagnostics passed!",
		} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("uninitialized store", func(t *testing.T) {
		stubProcesses(t)
		ctx, out, _ := setupSQLite(t)

		if err := (&DoctorCmd{}).Run(ctx); err == nil {
			t.Error("doctor should fail without a store")
		}
		if !strings.Contains(out.String(), "⊘ Schema version: SKIPPED (store not reachable)") {
			t.Errorf("output = %s", out.String())
		}
	})

	t.Run("other process and bad history", func(t *testing.T) {
		stubProcesses(t, fakeProcess{pid: 42, exec: "/usr/local/bin/quotapace"})
		store := storage.NewMemoryStore()
		store.Set(constants.HistoryKey, `[{"id":"","date":"x","month":"March","year":2024}]`)
		ctx, out := newTestContext(t, store)

		if err := (&DoctorCmd{}).Run(ctx); err == nil {
			t.Error("doctor should fail on invalid history")
		}
		for _, want := range []string{
			"⚠ Other processes: WARNING",
			"pid 42",
			"❌ History validation: FAIL",
			"⊘ Schema version: SKIPPED (store has no schema)",
		} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output missing %q:\n%s", want, out.String())
			}
		}
	})
}

func TestKeyringCmds(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(constants.EnvDBConnection, "")
	ctx, out := newTestContext(t, storage.NewMemoryStore())

	if err := (&KeyringSetCmd{ConnectionString: "mysql://x"}).Run(ctx); err == nil {
		t.Error("set should reject unsupported schemes")
	}
	if err := (&KeyringSetCmd{ConnectionString: "postgres://me:secret@db:5432/q"}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	out.Reset()
	if err := (&KeyringGetCmd{}).Run(ctx); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "postgres://me:****@db:5432/q" {
		t.Errorf("get output = %q", got)
	}

	out.Reset()
	if err := (&KeyringStatusCmd{}).Run(ctx); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out.String(), "stored in keyring") {
		t.Errorf("status output = %q", out.String())
	}

	if err := (&KeyringDeleteCmd{}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := keyring.GetConnectionString(); err == nil {
		t.Error("connection string still stored")
	}
	if err := (&KeyringGetCmd{}).Run(ctx); err == nil {
		t.Error("get should fail once deleted")
	}
}

func TestHasHostParam(t *testing.T) {
	if !hasHostParam("host=localhost user=me") {
		t.Error("DSN not detected")
	}
	if hasHostParam("redis://localhost") || hasHostParam("myhost=1") {
		t.Error("non-DSN detected as DSN")
	}
}

func TestValidateCmd(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx, out := newTestContext(t, store)

	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if out.String() != "No issues detected." {
		t.Errorf("output = %q", out.String())
	}

	store.Set(constants.HistoryKey, `[{"id":"a","date":"2024-03-01T00:00:00Z","month":"Smarch","year":2024}]`)
	if err := (&ValidateCmd{}).Run(ctx); err == nil {
		t.Error("validate should fail on a droppable entry")
	}
}
