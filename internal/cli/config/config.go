// Package config loads the tool configuration from file, environment and
// flags, and carries it to the commands.
package config

import (
	"context"
	"io"
	"log/slog"
)

// Defaults.
const (
	DefaultSavesDir    = "saves"
	DefaultOutputDir   = "datasets"
	DefaultHistoryFile = ".tidata/history.db"
)

// Config is the full tool configuration.
type Config struct {
	// SavePath is an explicit save document to extract. When empty, the
	// most recent save in SavesDir is used.
	SavePath string `koanf:"save_path"`

	// SavesDir is scanned for save files when SavePath is not set.
	SavesDir string `koanf:"saves_dir"`

	// OutputDir receives the extracted tables.
	OutputDir string `koanf:"output_dir"`

	// TrackedEntities is the optional nation allow-list applied to the
	// economy table.
	TrackedEntities []string `koanf:"tracked_entities"`

	// Collections overrides the default record-kind → save-collection map.
	Collections map[string]string `koanf:"collections"`

	// HistoryPath is the campaign history database. NoHistory disables it.
	HistoryPath string `koanf:"history_path"`
	NoHistory   bool   `koanf:"no_history"`

	Verbose bool `koanf:"verbose"`
}

// loggerKey stores the logger in the command context.
type loggerKey struct{}

// WithLogger returns a context carrying the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns the context's logger, or a discard logger when unset.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
