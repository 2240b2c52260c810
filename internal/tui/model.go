package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/engine"
	"github.com/julianstephens/quotapace/internal/share"
	"github.com/julianstephens/quotapace/internal/tui/components/goals"
	"github.com/julianstephens/quotapace/internal/tui/components/history"
	"github.com/julianstephens/quotapace/internal/tui/state"
)

type Model struct {
	session       *engine.Session
	now           func() time.Time
	sharer        share.Sharer
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	goalsModel    goals.Model
	historyModel  history.Model
	form          *huh.Form
	goalForm      *state.GoalFormModel
	shiftsForm    *state.ShiftsFormModel
	confirm       *constants.ConfirmationMsg
	status        constants.StatusMsg
	quitting      bool
	width         int
	height        int
}

// NewModel builds the TUI over an open session. The history tab starts
// filtered to the current year.
func NewModel(session *engine.Session, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		session:      session,
		now:          now,
		sharer:       share.Clipboard{},
		state:        constants.StateGoals,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		goalsModel:   goals.New(session.Goals(), 0, 0),
		historyModel: history.New(session, now().Year(), 0, 0),
	}
}

// WithSharer replaces the export destination.
func (m Model) WithSharer(s share.Sharer) Model {
	m.sharer = s
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateGoals:
		keys = append(keys, m.keys.Edit, m.keys.Shifts, m.keys.Archive)
	case constants.StateHistory:
		keys = append(keys, m.keys.Year, m.keys.Month, m.keys.Chart, m.keys.Export)
	case constants.StateConfirm:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Left, m.keys.Right, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case constants.StateGoals:
		actions = []key.Binding{m.keys.Edit, m.keys.Shifts, m.keys.Archive}
	case constants.StateHistory:
		actions = []key.Binding{m.keys.Year, m.keys.Month, m.keys.Chart, m.keys.Metric, m.keys.Delete, m.keys.Export}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// statusCmd turns a mutation result into a status line. Save warnings are
// shown but the change itself has already happened.
func statusCmd(ok string, err error) tea.Cmd {
	return func() tea.Msg {
		if err != nil {
			return constants.StatusMsg{Text: "Warning: " + err.Error(), IsError: true}
		}
		return constants.StatusMsg{Text: ok}
	}
}
