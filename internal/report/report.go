// Package report renders the current goals and archived history as markdown.
package report

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/models"
)

//go:embed templates/*.md
var templates embed.FS

// GoalLine is one metric row of the goals table
type GoalLine struct {
	Label     string
	Current   string
	Target    string
	Percent   string
	Remaining string
	Pace      string
	Band      constants.ProgressBand
}

// HistoryLine is one archived period
type HistoryLine struct {
	Period   string
	Money    string
	Phones   string
	Internet string
	Shifts   int
	Percent  string
}

// Report is the data behind the markdown template
type Report struct {
	Generated string
	Shifts    int
	Goals     []GoalLine
	Filter    string
	History   []HistoryLine
}

// FilterLabel describes a year/month history filter.
func FilterLabel(year int, month string) string {
	switch {
	case year == 0 && month == "":
		return "all periods"
	case year == 0:
		return month + ", all years"
	case month == "":
		return strconv.Itoa(year)
	default:
		return fmt.Sprintf("%s %d", month, year)
	}
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// New assembles a report from the live goals and an already filtered slice
// of history.
func New(gs models.GoalSet, entries []models.HistoryEntry, year int, month string, at time.Time) *Report {
	r := &Report{
		Generated: at.Format(constants.DateFormat),
		Shifts:    gs.Shifts,
		Filter:    FilterLabel(year, month),
	}

	for _, p := range gs.Progress() {
		info, _ := models.Info(p.Metric)
		pace := "n/a"
		if p.Applicable {
			pace = info.FormatPace(p.Pace)
		}
		r.Goals = append(r.Goals, GoalLine{
			Label:     info.Label,
			Current:   info.FormatAmount(p.Goal.Current),
			Target:    info.FormatAmount(p.Goal.Target),
			Percent:   percent(p.Percent),
			Remaining: info.FormatAmount(p.Remaining),
			Pace:      pace,
			Band:      p.Band,
		})
	}

	moneyInfo, _ := models.Info(constants.MetricMoney)
	for _, e := range entries {
		r.History = append(r.History, HistoryLine{
			Period:   fmt.Sprintf("%s %d", e.Month, e.Year),
			Money:    moneyInfo.FormatAmount(e.Money.Current) + " / " + moneyInfo.FormatAmount(e.Money.Target),
			Phones:   fmt.Sprintf("%g / %g", e.Phone.Current, e.Phone.Target),
			Internet: fmt.Sprintf("%g / %g", e.Internet.Current, e.Internet.Target),
			Shifts:   e.Shifts,
			Percent:  percent(e.Money.PercentComplete()),
		})
	}
	return r
}

// Markdown executes the report template.
func (r *Report) Markdown() (string, error) {
	tmpl, err := template.ParseFS(templates, "templates/report.md")
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, r); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return b.String(), nil
}

// Render formats markdown for a terminal. style is a glamour standard
// style name ("dark", "light", "notty", ...) or "auto".
func Render(markdown, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
