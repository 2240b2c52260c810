// Package history is the TUI tab for browsing, charting and exporting
// archived periods.
package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/quotapace/internal/engine"
	"github.com/julianstephens/quotapace/internal/models"
	"github.com/julianstephens/quotapace/internal/report"
	"github.com/julianstephens/quotapace/internal/tui/components/chart"
)

var (
	filterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	selectedCard = cardStyle.BorderForeground(lipgloss.Color("205"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	chartTitle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

// DeleteEntryMsg asks the parent to confirm deletion of an entry.
type DeleteEntryMsg struct {
	Entry models.HistoryEntry
}

// ExportMsg asks the parent to export the current filter.
type ExportMsg struct {
	Year  int
	Month string
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Year   key.Binding
	Month  key.Binding
	Chart  key.Binding
	Metric key.Binding
	Delete key.Binding
	Export key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Year:   key.NewBinding(key.WithKeys("y")),
	Month:  key.NewBinding(key.WithKeys("m")),
	Chart:  key.NewBinding(key.WithKeys("c")),
	Metric: key.NewBinding(key.WithKeys("n")),
	Delete: key.NewBinding(key.WithKeys("d")),
	Export: key.NewBinding(key.WithKeys("x")),
}

// Model reads history through the session; it never mutates it.
type Model struct {
	session   *engine.Session
	year      int    // 0 = all years
	month     string // "" = all months
	cursor    int
	showChart bool
	metric    int // index into models.Metrics()
	width     int
	height    int
}

// New starts filtered to defaultYear.
func New(session *engine.Session, defaultYear, width, height int) Model {
	return Model{session: session, year: defaultYear, width: width, height: height}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Filter returns the active year and month.
func (m Model) Filter() (int, string) {
	return m.year, m.month
}

func (m Model) entries() []models.HistoryEntry {
	return m.session.Filter(m.year, m.month)
}

// Refresh keeps the cursor in range after the history changed.
func (m *Model) Refresh() {
	if n := len(m.entries()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// yearOptions lists 0 (all) followed by every archived year, with the
// active year kept even when nothing was archived in it.
func (m Model) yearOptions() []int {
	opts := []int{0}
	found := m.year == 0
	for _, y := range m.session.DistinctYears() {
		opts = append(opts, y)
		found = found || y == m.year
	}
	if !found {
		opts = append(opts, m.year)
	}
	return opts
}

func (m Model) monthOptions() []string {
	opts := []string{""}
	if m.year != 0 {
		return append(opts, m.session.DistinctMonths(m.year)...)
	}
	seen := make(map[string]bool)
	for _, e := range m.session.Filter(0, "") {
		if !seen[e.Month] {
			seen[e.Month] = true
			opts = append(opts, e.Month)
		}
	}
	return opts
}

func (m *Model) cycleYear() {
	opts := m.yearOptions()
	for i, y := range opts {
		if y == m.year {
			m.year = opts[(i+1)%len(opts)]
			break
		}
	}
	m.month = ""
	m.cursor = 0
}

func (m *Model) cycleMonth() {
	opts := m.monthOptions()
	next := opts[0]
	for i, mo := range opts {
		if mo == m.month {
			next = opts[(i+1)%len(opts)]
			break
		}
	}
	m.month = next
	m.cursor = 0
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	entries := m.entries()

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Year):
		m.cycleYear()
	case key.Matches(keyMsg, keys.Month):
		m.cycleMonth()
	case key.Matches(keyMsg, keys.Chart):
		m.showChart = !m.showChart
	case key.Matches(keyMsg, keys.Metric):
		m.metric = (m.metric + 1) % len(models.Metrics())
	case key.Matches(keyMsg, keys.Delete):
		if m.cursor < len(entries) {
			e := entries[m.cursor]
			return m, func() tea.Msg { return DeleteEntryMsg{Entry: e} }
		}
	case key.Matches(keyMsg, keys.Export):
		year, month := m.year, m.month
		return m, func() tea.Msg { return ExportMsg{Year: year, Month: month} }
	}
	return m, nil
}

func (m Model) View() string {
	header := filterStyle.Render("History: " + report.FilterLabel(m.year, m.month))
	if m.showChart {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", m.viewChart())
	}

	entries := m.entries()
	if len(entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", emptyStyle.Render("No archived periods. Press y or m to change the filter."))
	}

	// keep the cursor's card on screen
	perScreen := max((m.height-4)/7, 1)
	start := 0
	if m.cursor >= perScreen {
		start = m.cursor - perScreen + 1
	}
	end := min(start+perScreen, len(entries))

	cards := []string{header, ""}
	for i := start; i < end; i++ {
		style := cardStyle
		if i == m.cursor {
			style = selectedCard
		}
		cards = append(cards, style.Render(Card(entries[i])))
	}
	if end < len(entries) {
		cards = append(cards, emptyStyle.Render(fmt.Sprintf("… %d more", len(entries)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m Model) viewChart() string {
	info := models.Metrics()[m.metric]
	points := m.session.ChartSeries(m.year, m.month, info.Key)
	return lipgloss.JoinVertical(lipgloss.Left,
		chartTitle.Render(info.Label+" (n: next metric)"),
		chart.Render(points, min(m.width-4, 80)),
	)
}

// Card renders one entry's summary lines.
func Card(e models.HistoryEntry) string {
	lines := []string{fmt.Sprintf("%s %d", e.Month, e.Year)}
	gs := e.GoalSet()
	for _, info := range models.Metrics() {
		g, _ := gs.Goal(info.Key)
		lines = append(lines, fmt.Sprintf("%s: %s/%s", info.Short, info.FormatAmount(g.Current), info.FormatAmount(g.Target)))
	}
	lines = append(lines, "Shifts: "+strconv.Itoa(e.Shifts))
	return strings.Join(lines, "\n")
}

// Selected returns the entry under the cursor, if any.
func (m Model) Selected() (models.HistoryEntry, bool) {
	entries := m.entries()
	if m.cursor >= len(entries) {
		return models.HistoryEntry{}, false
	}
	return entries[m.cursor], true
}
