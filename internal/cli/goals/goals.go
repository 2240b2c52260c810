package goals

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/models"
)

type GoalsShowCmd struct {
	JSON bool `help:"Print the stored goal set as JSON."`
}

func (c *GoalsShowCmd) Run(ctx *cli.Context) error {
	gs := ctx.Session().Goals()
	if c.JSON {
		data, err := json.MarshalIndent(gs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode goals: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}
	printGoals(ctx, gs)
	return nil
}

// printGoals writes one block per metric followed by the shift count.
func printGoals(ctx *cli.Context, gs models.GoalSet) {
	for _, p := range gs.Progress() {
		info, _ := models.Info(p.Metric)
		ctx.Printf("%-15s %s / %s  %.1f%% [%s]\n",
			info.Label, info.FormatAmount(p.Goal.Current), info.FormatAmount(p.Goal.Target), p.Percent, p.Band)
		ctx.Printf("  %s %s remaining\n", info.FormatAmount(p.Remaining), info.Noun)
		if p.Applicable {
			ctx.Printf("  Need %s per shift\n", info.FormatPace(p.Pace))
		}
	}
	ctx.Printf("Shifts remaining: %d\n", gs.Shifts)
}

type GoalsSetCmd struct {
	Metric string `arg:"" help:"Metric to change: money, phone or internet."`
	Field  string `arg:"" help:"Field to change: target or current."`
	Value  string `arg:"" help:"New value. Currency symbols and separators are ignored; unreadable input becomes 0."`
}

func (c *GoalsSetCmd) Run(ctx *cli.Context) error {
	m, err := models.ParseMetric(c.Metric)
	if err != nil {
		return err
	}
	field, err := models.ParseField(c.Field)
	if err != nil {
		return err
	}

	gs, err := ctx.Session().SetField(m, field, c.Value)
	if err := ctx.Warn(err); err != nil {
		return err
	}

	g, _ := gs.Goal(m)
	info, _ := models.Info(m)
	value := g.Current
	if field == constants.FieldTarget {
		value = g.Target
	}
	ctx.Printf("✓ %s %s set to %s\n", info.Label, field, info.FormatAmount(value))
	return nil
}

type ShiftsSetCmd struct {
	Value string `arg:"" help:"Remaining scheduled shifts. Negative or unreadable input becomes 0."`
}

func (c *ShiftsSetCmd) Run(ctx *cli.Context) error {
	gs, err := ctx.Session().SetShifts(c.Value)
	if err := ctx.Warn(err); err != nil {
		return err
	}
	ctx.Printf("✓ Shifts remaining set to %d\n", gs.Shifts)
	return nil
}

type ArchiveCmd struct {
	Yes bool `short:"y" help:"Archive without asking for confirmation."`
}

func (c *ArchiveCmd) Run(ctx *cli.Context) error {
	s := ctx.Session()
	if !c.Yes {
		printGoals(ctx, s.Goals())
		ctx.Println()
		ok, err := ctx.Confirm("Archive this period and reset progress to zero?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Archive cancelled.")
			return nil
		}
	}

	entry, err := s.Archive()
	if err := ctx.Warn(err); err != nil {
		return err
	}
	ctx.Printf("✓ Archived %s %d (id %s)\n", entry.Month, entry.Year, entry.ID)
	ctx.Println("Progress reset; targets and shifts carried over.")
	return nil
}
