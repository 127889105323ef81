package history

import (
	"os"
	"path/filepath"

	"codeberg.org/mutker/laserscanqa/internal/errors"
)

const (
	defaultDirPerm   = 0o755
	defaultBatchSize = 16
	defaultDBName    = "history.db"
)

type Config struct {
	DBPath    string
	BatchSize int
	Enabled   bool
}

func DefaultConfig() Config {
	return Config{
		DBPath:    DefaultDBPath(),
		BatchSize: defaultBatchSize,
		Enabled:   false, // Disabled by default
	}
}

// DefaultDBPath returns the per-user history database location, falling
// back to the working directory when no home directory is known.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return defaultDBName
	}
	return filepath.Join(home, ".local", "share", "laserscanqa", defaultDBName)
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate storage settings if history is enabled
	if !c.Enabled {
		return nil
	}
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize < 0 {
		return errFactory.WithData(ErrInvalidConfig, struct {
			Field string
			Value int
		}{
			Field: "batch_size",
			Value: c.BatchSize,
		})
	}
	return nil
}
