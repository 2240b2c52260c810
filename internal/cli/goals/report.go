package goals

import (
	"fmt"
	"os"

	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/report"
)

// ReportCmd prints the goals and a filtered history as a markdown report.
type ReportCmd struct {
	Year  int    `help:"Only include history from this year (0 for all)."`
	Month string `help:"Only include history from this month (name or number)."`
	Style string `default:"auto" help:"Glamour style: auto, dark, light, notty, ..."`
	Width int    `default:"100" help:"Word wrap width."`
	Raw   bool   `help:"Print the markdown source instead of rendering it."`
	Out   string `type:"path" help:"Write the markdown to this file instead of printing it."`
}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	month, err := cli.ParseMonth(c.Month)
	if err != nil {
		return err
	}
	s := ctx.Session()
	md, err := report.New(s.Goals(), s.Filter(c.Year, month), c.Year, month, ctx.Now()).Markdown()
	if err != nil {
		return err
	}

	if c.Out != "" {
		if err := os.WriteFile(c.Out, []byte(md), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		ctx.Printf("✓ Report written to %s\n", c.Out)
		return nil
	}
	if c.Raw {
		ctx.Printf("%s", md)
		return nil
	}

	out, err := report.Render(md, c.Style, c.Width)
	if err != nil {
		return err
	}
	ctx.Printf("%s", out)
	return nil
}
