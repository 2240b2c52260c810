package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/keyring"
	"github.com/julianstephens/quotapace/internal/logger"
	"github.com/julianstephens/quotapace/internal/storage"
	"github.com/julianstephens/quotapace/internal/storage/postgres"
	"github.com/julianstephens/quotapace/internal/storage/redis"
	"github.com/julianstephens/quotapace/internal/storage/sqlite"
)

// ErrEmbeddedCredentials is returned when --config carries a password.
var ErrEmbeddedCredentials = errors.New("connection strings with embedded passwords are not allowed on the command line; store them with 'quotapace keyring set' or " + constants.EnvDBConnection)

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ResolveConfig picks the store location. An explicit config wins; with
// none, a connection string from the keyring or environment is used, then
// the default SQLite file.
func ResolveConfig(config string) (string, error) {
	if config != "" {
		if (storage.IsPostgres(config) || storage.IsRedis(config)) && storage.HasEmbeddedCredentials(config) {
			return "", ErrEmbeddedCredentials
		}
		return ExpandHome(config), nil
	}

	connStr, src, err := keyring.Resolve()
	switch {
	case err == nil:
		logger.Debug("using stored connection string", "source", src)
		return connStr, nil
	case errors.Is(err, keyring.ErrKeyringUnavailable):
		logger.Debug("keyring unavailable", "error", err)
	}
	return ExpandHome(constants.DefaultConfigPath), nil
}

// OpenStore returns the provider for a resolved config without connecting.
func OpenStore(config string) (storage.Provider, error) {
	switch {
	case storage.IsPostgres(config) || strings.Contains(config, "host="):
		if _, err := postgres.ValidateConnString(config); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		return postgres.New(config), nil
	case storage.IsRedis(config):
		return redis.New(config), nil
	case storage.IsJSON(config):
		return storage.NewJSONStore(config), nil
	case config == "":
		return nil, fmt.Errorf("no store configured")
	default:
		return sqlite.NewStore(config), nil
	}
}
