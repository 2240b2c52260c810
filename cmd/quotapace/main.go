package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/cli/backups"
	"github.com/julianstephens/quotapace/internal/cli/goals"
	"github.com/julianstephens/quotapace/internal/cli/history"
	"github.com/julianstephens/quotapace/internal/cli/system"
	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/errors"
	"github.com/julianstephens/quotapace/internal/logger"
	"github.com/julianstephens/quotapace/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite path, JSON file, or PostgreSQL/Redis connection string. Credentials must NOT be embedded; use the OS keyring or QUOTAPACE_DB_CONNECTION instead." env:"QUOTAPACE_CONFIG" type:"string"`
	Debug   bool   `help:"Log at debug level and mirror logs to stderr." env:"QUOTAPACE_DEBUG"`

	Init     system.InitCmd     `cmd:"" help:"Initialize quotapace storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored history for problems."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Goals    struct {
		Show goals.GoalsShowCmd `cmd:"" help:"Show progress toward each goal." default:"1"`
		Set  goals.GoalsSetCmd  `cmd:"" help:"Set a goal's target or current amount."`
	} `cmd:"" help:"View and edit the current period's goals."`
	Shifts struct {
		Set goals.ShiftsSetCmd `cmd:"" help:"Set the number of remaining shifts."`
	} `cmd:"" help:"Manage remaining shifts."`
	Archive goals.ArchiveCmd `cmd:"" help:"Archive the current period and reset progress."`
	Report  goals.ReportCmd  `cmd:"" help:"Render a markdown report of goals and history."`
	History struct {
		List   history.HistoryListCmd   `cmd:"" help:"List archived periods." default:"1"`
		Delete history.HistoryDeleteCmd `cmd:"" help:"Delete an archived period."`
		Years  history.HistoryYearsCmd  `cmd:"" help:"List years with archived periods."`
		Months history.HistoryMonthsCmd `cmd:"" help:"List months with archived periods in a year."`
		Chart  history.HistoryChartCmd  `cmd:"" help:"Chart percent complete across archived periods."`
		Export history.HistoryExportCmd `cmd:"" help:"Export archived periods."`
	} `cmd:"" help:"Browse archived periods."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

// skipLoad lists commands that open or check the store themselves.
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	// .env values never override the real environment
	_ = godotenv.Load(constants.DotEnvFile)

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Sales quota pacing and monthly history"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configDir := filepath.Dir(cli.ExpandHome(constants.DefaultConfigPath))
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	config, err := cli.ResolveConfig(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	store, err := cli.OpenStore(config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()
	logger.Debug("store selected", "config", storage.MaskPassword(store.GetConfigPath()))

	if !skipLoad[topCommand(ctx.Command())] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(cli.NewContext(store)); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func topCommand(command string) string {
	if fields := strings.Fields(command); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
