// Package goals renders the live goal set with per-metric progress bars.
package goals

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/models"
)

var bandColors = map[constants.ProgressBand]string{
	constants.BandBehind: "#ef4444",
	constants.BandOnPace: "#f97316",
	constants.BandAhead:  "#22c55e",
}

var (
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	shiftsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).MarginTop(1)
)

// EditGoalMsg asks the parent to open the edit form for Metric.
type EditGoalMsg struct {
	Metric constants.Metric
}

type EditShiftsMsg struct{}

type ArchiveMsg struct{}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Edit    key.Binding
	Shifts  key.Binding
	Archive key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Edit:    key.NewBinding(key.WithKeys("e", "enter")),
	Shifts:  key.NewBinding(key.WithKeys("s")),
	Archive: key.NewBinding(key.WithKeys("a")),
}

type Model struct {
	goals  models.GoalSet
	cursor int
	width  int
	height int
}

func New(gs models.GoalSet, width, height int) Model {
	return Model{goals: gs, width: width, height: height}
}

func (m *Model) SetGoals(gs models.GoalSet) {
	m.goals = gs
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the metric under the cursor.
func (m Model) Selected() constants.Metric {
	return models.Metrics()[m.cursor].Key
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(models.Metrics())-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Edit):
		metric := m.Selected()
		return m, func() tea.Msg { return EditGoalMsg{Metric: metric} }
	case key.Matches(keyMsg, keys.Shifts):
		return m, func() tea.Msg { return EditShiftsMsg{} }
	case key.Matches(keyMsg, keys.Archive):
		return m, func() tea.Msg { return ArchiveMsg{} }
	}
	return m, nil
}

func (m Model) barWidth() int {
	w := m.width - 12
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) View() string {
	var b strings.Builder
	for i, p := range m.goals.Progress() {
		info, _ := models.Info(p.Metric)

		title := labelStyle
		marker := "  "
		if i == m.cursor {
			title = selectedStyle
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s  %s / %s\n", marker, title.Render(info.Label),
			info.FormatAmount(p.Goal.Current), info.FormatAmount(p.Goal.Target))

		bar := progress.New(
			progress.WithSolidFill(bandColors[p.Band]),
			progress.WithWidth(m.barWidth()),
		)
		fmt.Fprintf(&b, "  %s\n", bar.ViewAs(math.Max(0, math.Min(p.Percent, 100))/100))

		line := fmt.Sprintf("%s %s remaining", info.FormatAmount(p.Remaining), info.Noun)
		if p.Applicable {
			line += fmt.Sprintf(" · Need %s per shift", info.FormatPace(p.Pace))
		}
		fmt.Fprintf(&b, "  %s\n\n", detailStyle.Render(line))
	}
	b.WriteString(shiftsStyle.Render(fmt.Sprintf("Shifts remaining: %d", m.goals.Shifts)))
	return b.String()
}
