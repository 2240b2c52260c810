// Package chart draws horizontal percent-complete bars for history trends.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/history"
	"github.com/julianstephens/quotapace/internal/models"
)

const (
	labelWidth = constants.ChartLabelLen + 1
	valueWidth = 8
	minBar     = 10
)

// BandStyles colour a bar by its progress band.
var BandStyles = map[constants.ProgressBand]lipgloss.Style{
	constants.BandBehind: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	constants.BandOnPace: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	constants.BandAhead:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
}

var emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

// BarWidth returns how many cells of a width-cell bar value fills.
// Values are clamped to [0, 100].
func BarWidth(value float64, width int) int {
	v := math.Max(0, math.Min(value, 100))
	return int(math.Round(v / 100 * float64(width)))
}

// Render draws one row per point, in the given order. width is the total
// line width; bars shrink to fit but never below a minimum.
func Render(points []history.ChartPoint, width int) string {
	if len(points) == 0 {
		return "No data to chart."
	}
	barWidth := width - labelWidth - valueWidth - 2
	if barWidth < minBar {
		barWidth = minBar
	}

	var b strings.Builder
	for i, p := range points {
		filled := BarWidth(p.Value, barWidth)
		style := BandStyles[models.BandFor(p.Value)]
		fmt.Fprintf(&b, "%-*s %s%s %*s",
			labelWidth, p.Label,
			style.Render(strings.Repeat("█", filled)),
			emptyStyle.Render(strings.Repeat("░", barWidth-filled)),
			valueWidth, fmt.Sprintf("%.1f%%", p.Value))
		if i < len(points)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
