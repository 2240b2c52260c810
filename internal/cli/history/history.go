package history

import (
	"strconv"
	"strings"

	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/history"
	"github.com/julianstephens/quotapace/internal/models"
	"github.com/julianstephens/quotapace/internal/report"
	"github.com/julianstephens/quotapace/internal/tui/components/chart"
)

// FilterFlags selects a slice of history. Zero values select everything.
type FilterFlags struct {
	Year  int    `help:"Only include this year (0 for all)."`
	Month string `help:"Only include this month (name or number)."`
}

func (f FilterFlags) resolve() (int, string, error) {
	month, err := cli.ParseMonth(f.Month)
	return f.Year, month, err
}

type HistoryListCmd struct {
	FilterFlags `embed:""`
	JSON bool `help:"Print the entries as a JSON array."`
}

func (c *HistoryListCmd) Run(ctx *cli.Context) error {
	year, month, err := c.FilterFlags.resolve()
	if err != nil {
		return err
	}
	entries := ctx.Session().Filter(year, month)

	if c.JSON {
		text, err := history.ExportText(entries)
		if err != nil {
			return err
		}
		ctx.Println(text)
		return nil
	}

	if len(entries) == 0 {
		ctx.Printf("No archived periods (%s).\n", report.FilterLabel(year, month))
		return nil
	}
	for i, e := range entries {
		if i > 0 {
			ctx.Println()
		}
		printCard(ctx, e)
	}
	return nil
}

// printCard writes one entry in the history card layout.
func printCard(ctx *cli.Context, e models.HistoryEntry) {
	ctx.Printf("%s %d  (%s)\n", e.Month, e.Year, e.ID)
	gs := e.GoalSet()
	for _, info := range models.Metrics() {
		g, _ := gs.Goal(info.Key)
		ctx.Printf("  %-9s %s/%s\n", info.Short+":", info.FormatAmount(g.Current), info.FormatAmount(g.Target))
	}
	ctx.Printf("  %-9s %d\n", "Shifts:", e.Shifts)
}

type HistoryDeleteCmd struct {
	ID  string `arg:"" help:"Id of the history entry to delete."`
	Yes bool   `short:"y" help:"Delete without asking for confirmation."`
}

func (c *HistoryDeleteCmd) Run(ctx *cli.Context) error {
	s := ctx.Session()
	entry, ok := s.History().Get(c.ID)
	if !ok {
		ctx.Printf("History entry not found: %s\n", c.ID)
		return nil
	}

	if !c.Yes {
		printCard(ctx, entry)
		confirmed, err := ctx.Confirm("Delete this entry?")
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	_, err := s.Delete(c.ID)
	if err := ctx.Warn(err); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted %s %d\n", entry.Month, entry.Year)
	return nil
}

type HistoryYearsCmd struct{}

func (c *HistoryYearsCmd) Run(ctx *cli.Context) error {
	years := ctx.Session().DistinctYears()
	if len(years) == 0 {
		ctx.Println("No archived periods.")
		return nil
	}
	for _, y := range years {
		ctx.Println(strconv.Itoa(y))
	}
	return nil
}

type HistoryMonthsCmd struct {
	Year int `required:"" help:"Year to list months for."`
}

func (c *HistoryMonthsCmd) Run(ctx *cli.Context) error {
	months := ctx.Session().DistinctMonths(c.Year)
	if len(months) == 0 {
		ctx.Printf("No archived periods in %d.\n", c.Year)
		return nil
	}
	ctx.Println(strings.Join(months, "\n"))
	return nil
}

type HistoryChartCmd struct {
	FilterFlags `embed:""`
	Metric string `default:"money" help:"Metric to chart: money, phone or internet."`
	Width  int    `default:"60" help:"Chart width in columns."`
}

func (c *HistoryChartCmd) Run(ctx *cli.Context) error {
	year, month, err := c.FilterFlags.resolve()
	if err != nil {
		return err
	}
	m, err := models.ParseMetric(c.Metric)
	if err != nil {
		return err
	}
	info, _ := models.Info(m)

	ctx.Printf("%s, %s\n\n", info.Label, report.FilterLabel(year, month))
	ctx.Println(chart.Render(ctx.Session().ChartSeries(year, month, m), c.Width))
	return nil
}
