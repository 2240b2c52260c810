package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/engine"
	"github.com/julianstephens/quotapace/internal/models"
	"github.com/julianstephens/quotapace/internal/tui/components/goals"
	"github.com/julianstephens/quotapace/internal/tui/components/history"
	"github.com/julianstephens/quotapace/internal/tui/handlers"
	"github.com/julianstephens/quotapace/internal/tui/state"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle form states
	if m.state == constants.StateEditGoal || m.state == constants.StateEditShifts {
		return m.updateForm(msg)
	}

	if m.state == constants.StateConfirm {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, m.keys.Confirm):
				cmd := m.confirm.Action()
				m.confirm = nil
				m.state = m.previousState
				m.refresh()
				return m, cmd
			case key.Matches(msg, m.keys.Cancel):
				m.confirm = nil
				m.state = m.previousState
				return m, nil
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.goalsModel.SetSize(msg.Width-h, msg.Height-v-4)
		m.historyModel.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case constants.StatusMsg:
		m.status = msg
		return m, nil

	case constants.ConfirmationMsg:
		m.confirm = &msg
		m.previousState = m.state
		m.state = constants.StateConfirm
		return m, nil

	case goals.EditGoalMsg:
		g, _ := m.session.Goals().Goal(msg.Metric)
		m.goalForm = &state.GoalFormModel{
			Metric:  msg.Metric,
			Target:  handlers.FormatValue(g.Target),
			Current: handlers.FormatValue(g.Current),
		}
		m.form = handlers.NewGoalForm(m.goalForm)
		m.state = constants.StateEditGoal
		return m, m.form.Init()

	case goals.EditShiftsMsg:
		m.shiftsForm = &state.ShiftsFormModel{Shifts: fmt.Sprint(m.session.Goals().Shifts)}
		m.form = handlers.NewShiftsForm(m.shiftsForm)
		m.state = constants.StateEditShifts
		return m, m.form.Init()

	case goals.ArchiveMsg:
		return m, confirmCmd("Archive this period and reset progress to zero?", archiveAction(m.session))

	case history.DeleteEntryMsg:
		prompt := fmt.Sprintf("Delete %s %d from history?", msg.Entry.Month, msg.Entry.Year)
		return m, confirmCmd(prompt, deleteAction(m.session, msg.Entry.ID))

	case history.ExportMsg:
		err := m.session.Export(context.Background(), m.sharer, msg.Year, msg.Month)
		if err != nil {
			return m, func() tea.Msg { return constants.StatusMsg{Text: err.Error(), IsError: true} }
		}
		n := len(m.session.Filter(msg.Year, msg.Month))
		return m, statusCmd(fmt.Sprintf("Exported %d entries (%s)", n, constants.ExportTitle), nil)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab, m.keys.Right):
			m.state = (m.state + 1) % constants.NumMainTabs
			m.status = constants.StatusMsg{}
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab, m.keys.Left):
			m.state = (m.state - 1 + constants.NumMainTabs) % constants.NumMainTabs
			m.status = constants.StatusMsg{}
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateGoals:
		m.goalsModel, cmd = m.goalsModel.Update(msg)
	case constants.StateHistory:
		m.historyModel, cmd = m.historyModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateGoals
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == constants.StateEditGoal {
			cmds = append(cmds, m.saveGoalForm())
		} else {
			gs, err := m.session.SetShifts(m.shiftsForm.Shifts)
			m.goalsModel.SetGoals(gs)
			cmds = append(cmds, statusCmd(fmt.Sprintf("Shifts remaining set to %d", gs.Shifts), err))
		}
		m.state = constants.StateGoals
	case huh.StateAborted:
		m.state = constants.StateGoals
	}
	return m, tea.Batch(cmds...)
}

// saveGoalForm applies both fields. Only the last save warning is kept;
// both writes go to the same key.
func (m *Model) saveGoalForm() tea.Cmd {
	fm := m.goalForm
	_, err := m.session.SetField(fm.Metric, constants.FieldTarget, fm.Target)
	gs, err2 := m.session.SetField(fm.Metric, constants.FieldCurrent, fm.Current)
	if err2 != nil {
		err = err2
	}
	m.goalsModel.SetGoals(gs)
	info, _ := models.Info(fm.Metric)
	return statusCmd(info.Label+" updated", err)
}

// refresh re-reads component data after a confirmed action ran.
func (m *Model) refresh() {
	m.goalsModel.SetGoals(m.session.Goals())
	m.historyModel.Refresh()
}

func archiveAction(s *engine.Session) func() tea.Cmd {
	return func() tea.Cmd {
		entry, err := s.Archive()
		if entry.ID == "" {
			return func() tea.Msg { return constants.StatusMsg{Text: err.Error(), IsError: true} }
		}
		return statusCmd(fmt.Sprintf("Archived %s %d", entry.Month, entry.Year), err)
	}
}

func deleteAction(s *engine.Session, id string) func() tea.Cmd {
	return func() tea.Cmd {
		_, err := s.Delete(id)
		return statusCmd("Entry deleted", err)
	}
}

func confirmCmd(prompt string, action func() tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return constants.ConfirmationMsg{Message: prompt, Action: action}
	}
}
