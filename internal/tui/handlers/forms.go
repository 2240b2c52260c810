package handlers

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/quotapace/internal/models"
	"github.com/julianstephens/quotapace/internal/tui/state"
)

// FormatValue renders a number for pre-filling an input.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewGoalForm creates the form for editing one metric's target and current amount
func NewGoalForm(fm *state.GoalFormModel) *huh.Form {
	info, _ := models.Info(fm.Metric)
	hint := "Unreadable input is saved as 0"
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(info.Label),
			huh.NewInput().
				Title("Target").
				Description(hint).
				Value(&fm.Target),
			huh.NewInput().
				Title("Current").
				Description(hint).
				Value(&fm.Current),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewShiftsForm creates the form for the remaining shift count
func NewShiftsForm(fm *state.ShiftsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Shifts remaining").
				Description("Negative or unreadable input is saved as 0").
				Value(&fm.Shifts),
		),
	).WithTheme(huh.ThemeDracula())
}
