package history

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/share"
)

// HistoryExportCmd sends the filtered history to the clipboard, stdout or a
// file. XLSX output always goes to a file.
type HistoryExportCmd struct {
	FilterFlags `embed:""`
	To     string `default:"clipboard" enum:"clipboard,stdout,file" help:"Destination: clipboard, stdout or file."`
	Format string `default:"json" enum:"json,xlsx" help:"Output format: json or xlsx."`
	Out    string `type:"path" help:"Output file for --to file or --format xlsx."`
}

func (c *HistoryExportCmd) sharer(ctx *cli.Context) (share.Sharer, error) {
	switch c.To {
	case "stdout":
		return share.Writer{W: ctx.Out, Header: false}, nil
	case "file":
		if c.Out == "" {
			return nil, errors.New("--out is required with --to file")
		}
		return share.File{Path: c.Out}, nil
	default:
		if !share.ClipboardAvailable() {
			return nil, errors.New("clipboard is not available, use --to stdout or --to file")
		}
		return share.Clipboard{}, nil
	}
}

func (c *HistoryExportCmd) Run(ctx *cli.Context) error {
	year, month, err := c.FilterFlags.resolve()
	if err != nil {
		return err
	}
	s := ctx.Session()

	if c.Format == "xlsx" {
		if c.Out == "" {
			return errors.New("--out is required with --format xlsx")
		}
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Out, err)
		}
		defer f.Close()
		if err := s.ExportXLSX(f, year, month); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		ctx.Printf("✓ Exported %d entries to %s\n", len(s.Filter(year, month)), c.Out)
		return nil
	}

	sharer, err := c.sharer(ctx)
	if err != nil {
		return err
	}
	if err := s.Export(context.Background(), sharer, year, month); err != nil {
		return err
	}
	switch c.To {
	case "clipboard":
		ctx.Printf("✓ Copied %d entries to clipboard\n", len(s.Filter(year, month)))
	case "file":
		ctx.Printf("✓ Exported %d entries to %s\n", len(s.Filter(year, month)), c.Out)
	}
	return nil
}
