// Package common holds helpers shared by the CLI commands and the
// interactive shell: logger construction, config resolution, and data-root
// path lookup.
package common

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aASDa213ASD/noiseless/models"
	"github.com/aASDa213ASD/noiseless/pkg/db"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the process logger writing JSON to stderr, keeping stdout
// free for command payloads. Quiet wins over verbose.
func NewLogger(quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// LoadConfig reads the config file named by the --config flag and applies
// flag overrides on top.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("data-root") {
		cfg.DataRoot = c.String("data-root")
	}
	if c.Bool("quiet") {
		cfg.Quiet = true
	}
	return cfg, nil
}

// OpenHistory opens the run history database, honoring the history_db config
// override.
func OpenHistory(cfg *models.Config) (*db.DB, error) {
	if cfg.HistoryDB != "" {
		return db.OpenAt(cfg.HistoryDB)
	}
	return db.Open()
}

// ResolveLogPath turns a bare log name into a path under the data root's
// logs directory. Names carrying a path separator, or that already point at
// an existing file, pass through untouched.
func ResolveLogPath(cfg *models.Config, name string) string {
	return resolvePath(cfg.LogsDir(), name)
}

// ResolveFilterPath does the same for filter specs under the filters
// directory.
func ResolveFilterPath(cfg *models.Config, name string) string {
	return resolvePath(cfg.FiltersDir(), name)
}

func resolvePath(dir, name string) string {
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(dir, name)
}

// Elapsed formats the time since start the way command output reports
// timings.
func Elapsed(start time.Time) string {
	return fmt.Sprintf("%.4f", time.Since(start).Seconds())
}
