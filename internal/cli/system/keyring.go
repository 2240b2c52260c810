package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/quotapace/internal/cli"
	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/keyring"
	"github.com/julianstephens/quotapace/internal/storage"
	"github.com/julianstephens/quotapace/internal/storage/postgres"
)

// KeyringSetCmd stores a Postgres or Redis connection string in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL or Redis connection string to store."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	connStr := cmd.ConnectionString
	switch {
	case storage.IsRedis(connStr):
	case storage.IsPostgres(connStr) || hasHostParam(connStr):
		if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
	default:
		return errors.New("connection string must be a PostgreSQL or Redis URL")
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return err
	}

	ctx.Println("✓ Connection string stored in OS keyring")
	ctx.Printf("  %s will use it whenever --config is not given\n", constants.AppName)
	return nil
}

// KeyringGetCmd prints the stored connection string with any password masked
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no connection string found in keyring. Use '%s keyring set' to store one", constants.AppName)
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	ctx.Println(storage.MaskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			ctx.Println("ℹ No connection string stored in keyring")
			return nil
		}
		return err
	}
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	ctx.Println("✓ OS keyring is available")

	_, src, err := keyring.Resolve()
	switch {
	case err == nil && src == keyring.SourceKeyring:
		ctx.Println("✓ Connection string is stored in keyring")
	case err == nil:
		ctx.Printf("ℹ Using connection string from %s\n", constants.EnvDBConnection)
	default:
		ctx.Println("ℹ No connection string stored in keyring")
	}
	return nil
}

// hasHostParam reports whether connStr looks like a key=value Postgres DSN.
func hasHostParam(connStr string) bool {
	for _, part := range strings.Fields(connStr) {
		if strings.HasPrefix(part, "host=") || strings.HasPrefix(part, "dbname=") {
			return true
		}
	}
	return false
}
