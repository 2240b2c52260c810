package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing SQLite or JSON store before initializing."`
	Source string `help:"Store path or connection string to copy goals and history from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", storage.MaskPassword(c.Source))
		n, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Printf("Copied %d keys.\n", n)
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if storage.IsPostgres(path) || storage.IsRedis(path) || path == "postgresql" || path == "redis" {
		return errors.New("--force only applies to file-based stores")
	}
	if c.Source != "" {
		absPath, _ := filepath.Abs(path)
		absSource, _ := filepath.Abs(cli.ExpandHome(c.Source))
		if absPath == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		ctx.Printf("Deleted existing store at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}

// copyFrom moves both keys from the source store in one batch.
func (c *InitCmd) copyFrom(ctx *cli.Context) (int, error) {
	src, err := cli.OpenStore(cli.ExpandHome(c.Source))
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	values := make(map[string]string)
	for _, key := range []string{constants.GoalStateKey, constants.HistoryKey} {
		v, err := src.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		values[key] = v
	}
	if len(values) == 0 {
		return 0, nil
	}
	if err := ctx.Store.SetMany(values); err != nil {
		return 0, fmt.Errorf("failed to write destination: %w", err)
	}
	return len(values), nil
}

// MigrateCmd applies pending schema migrations to a SQL store.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		ctx.Println("This store has no schema to migrate.")
		return nil
	}
	// a pending migration makes Load fail its version check but leaves the
	// connection open
	if err := ctx.Store.Load(); err != nil && m.GetDB() == nil {
		return err
	}
	applied, err := m.Runner().Apply(func(msg string) { ctx.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if applied == 0 {
		ctx.Println("✓ Schema is up to date")
		return nil
	}
	ctx.Printf("✓ Applied %d migration(s)\n", applied)
	return nil
}
