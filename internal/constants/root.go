package constants

import (
	tea "github.com/charmbracelet/bubbletea"
)

// SessionState represents the current state of the TUI application
type SessionState int

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

// StatusMsg sets the one-line status shown under the active tab
type StatusMsg struct {
	Text    string
	IsError bool
}

const (
	AppName            = "quotapace"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/quotapace/quotapace.db"
	Version            = "v0.3.0"

	// Environment variables
	EnvConfig           = "QUOTAPACE_CONFIG"
	EnvDebug            = "QUOTAPACE_DEBUG"
	EnvDBConnection     = "QUOTAPACE_DB_CONNECTION"
	EnvTestPostgres     = "QUOTAPACE_TEST_POSTGRES"
	DotEnvFile          = ".env"
	ExportTitle         = "Goals History Export"
	DefaultExportFormat = "json"

	// Key-value store keys. Both are fixed for the lifetime of a store.
	GoalStateKey = "quotapace_sales_goals"
	HistoryKey   = "quotapace_sales_history"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "quotapace-"
	BackupFileSuffix = ".db"
)

// Session states. The main tabs come first so tab cycling can wrap on NumMainTabs.
const (
	StateGoals SessionState = iota
	StateHistory
	StateEditGoal
	StateEditShifts
	StateConfirm

	NumMainTabs = 2
)
