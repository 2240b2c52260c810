package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Session(), ctx.Now), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
