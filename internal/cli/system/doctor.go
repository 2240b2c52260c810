package system

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/quotapace/internal/backup"
	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/keyring"
	"github.com/julianstephens/quotapace/internal/migration"
	"github.com/julianstephens/quotapace/internal/persistence"
	"github.com/julianstephens/quotapace/internal/storage"
	"github.com/julianstephens/quotapace/internal/storage/sqlite"
)

// migrator is implemented by the SQL-backed stores.
type migrator interface {
	Runner() *migration.Runner
	GetDB() *sql.DB
}

var (
	listProcesses = ps.Processes
	currentPID    = os.Getpid
)

type checkStatus int

const (
	statusOK checkStatus = iota
	statusWarn
	statusFail
	statusSkip
)

type check struct {
	name string
	// run returns the status and, for anything but OK, a detail line
	run func(ctx *cli.Context) (checkStatus, string)
	// needsStore marks checks that are skipped when the store is unreachable
	needsStore bool
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Store reachable", run: checkStoreReachable},
		{name: "Schema version", run: checkSchemaVersion, needsStore: true},
		{name: "Migrations complete", run: checkMigrationsComplete, needsStore: true},
		{name: "Goals readable", run: checkGoals, needsStore: true},
		{name: "History validation", run: checkHistory, needsStore: true},
		{name: "Backups present", run: checkBackupsPresent},
		{name: "Other processes", run: checkOtherProcesses},
		{name: "OS keyring", run: checkKeyring},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	hasError := false
	reachable := true
	for i, c := range checks {
		status, detail := statusSkip, "store not reachable"
		if !c.needsStore || reachable {
			status, detail = c.run(ctx)
		}
		if i == 0 && status == statusFail {
			reachable = false
		}

		switch status {
		case statusOK:
			ctx.Printf("✓ %s: OK\n", c.name)
		case statusWarn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
		case statusFail:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			hasError = true
		case statusSkip:
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", c.name, detail)
			continue
		}
		if detail != "" {
			for _, line := range strings.Split(strings.TrimRight(detail, "\n"), "\n") {
				ctx.Printf("   %s\n", line)
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) (checkStatus, string) {
	if err := ctx.Store.Load(); err != nil {
		return statusFail, fmt.Sprintf("Error: %v", err)
	}
	if m, ok := ctx.Store.(migrator); ok {
		db := m.GetDB()
		if db == nil {
			return statusFail, "Error: database connection is nil"
		}
		if err := db.Ping(); err != nil {
			return statusFail, fmt.Sprintf("Error: %v", err)
		}
	}
	return statusOK, ""
}

func checkSchemaVersion(ctx *cli.Context) (checkStatus, string) {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return statusSkip, "store has no schema"
	}
	if err := m.Runner().Validate(); err != nil {
		return statusFail, fmt.Sprintf("Error: %v", err)
	}
	return statusOK, ""
}

func checkMigrationsComplete(ctx *cli.Context) (checkStatus, string) {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return statusSkip, "store has no schema"
	}
	pending, err := m.Runner().Pending()
	if err != nil {
		return statusFail, fmt.Sprintf("Error: %v", err)
	}
	if pending > 0 {
		return statusFail, fmt.Sprintf("%d migration(s) pending, run '%s migrate'", pending, constants.AppName)
	}
	return statusOK, ""
}

func checkGoals(ctx *cli.Context) (checkStatus, string) {
	_, err := ctx.Store.Get(constants.GoalStateKey)
	if errors.Is(err, storage.ErrNotFound) {
		return statusWarn, "no goals saved yet, defaults will be used"
	}
	if err != nil {
		return statusFail, fmt.Sprintf("Error: %v", err)
	}
	return statusOK, ""
}

func checkHistory(ctx *cli.Context) (checkStatus, string) {
	res, err := persistence.New(ctx.Store).Validate()
	if err != nil {
		return statusFail, fmt.Sprintf("Error: %v", err)
	}
	if !res.HasIssues() {
		return statusOK, ""
	}
	if len(res.Dropped()) > 0 {
		return statusFail, res.FormatReport()
	}
	return statusWarn, res.FormatReport()
}

func checkBackupsPresent(ctx *cli.Context) (checkStatus, string) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return statusSkip, "backups only apply to SQLite stores"
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return statusWarn, fmt.Sprintf("failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		return statusWarn, fmt.Sprintf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return statusOK, ""
}

// checkOtherProcesses warns when another quotapace is running, since the
// stores do not coordinate between processes.
func checkOtherProcesses(ctx *cli.Context) (checkStatus, string) {
	procs, err := listProcesses()
	if err != nil {
		return statusWarn, fmt.Sprintf("failed to list processes: %v", err)
	}
	self := currentPID()
	var others []string
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(p.Executable()), ".exe")
		if name == constants.AppName {
			others = append(others, fmt.Sprintf("pid %d", p.Pid()))
		}
	}
	if len(others) > 0 {
		return statusWarn, fmt.Sprintf("another %s is running (%s); concurrent writes can overwrite each other", constants.AppName, strings.Join(others, ", "))
	}
	return statusOK, ""
}

func checkKeyring(ctx *cli.Context) (checkStatus, string) {
	if !keyring.IsAvailable() {
		return statusWarn, "OS keyring is not available; use " + constants.EnvDBConnection + " for remote stores"
	}
	return statusOK, ""
}

func checkClockTimezone(ctx *cli.Context) (checkStatus, string) {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return statusFail, fmt.Sprintf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return statusOK, ""
}
