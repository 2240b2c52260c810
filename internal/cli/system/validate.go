package system

import (
	"fmt"

	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/persistence"
)

// ValidateCmd reports problems in the stored history without changing it.
type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	res, err := persistence.New(ctx.Store).Validate()
	if err != nil {
		return err
	}
	ctx.Printf("%s", res.FormatReport())
	if len(res.Dropped()) > 0 {
		return fmt.Errorf("%d history entries will be ignored on load", len(res.Dropped()))
	}
	return nil
}
