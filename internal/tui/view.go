package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/quotapace/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateGoals:
		content = docStyle.Render(m.goalsModel.View())
	case constants.StateHistory:
		content = docStyle.Render(m.historyModel.View())
	case constants.StateEditGoal, constants.StateEditShifts:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirm:
		content = m.viewConfirm()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= constants.NumMainTabs {
		active = m.previousState
		if m.state != constants.StateConfirm {
			active = constants.StateGoals
		}
	}

	var tabs []string
	for i, title := range []string{"Goals", "History"} {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.status.Text == "" {
		return ""
	}
	if m.status.IsError {
		return warningStyle.Render(m.status.Text)
	}
	return statusStyle.Render(m.status.Text)
}

func (m Model) viewConfirm() string {
	msg := ""
	if m.confirm != nil {
		msg = m.confirm.Message
	}
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(msg),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
