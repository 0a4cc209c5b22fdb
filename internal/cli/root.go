// Package cli provides the command-line interface for the savegame
// extraction tool.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MartinUnity/games-terra-invicta/internal/cli/commands"
	"github.com/MartinUnity/games-terra-invicta/internal/cli/config"
	"github.com/MartinUnity/games-terra-invicta/internal/engine"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tidata",
		Short: "Terra Invicta savegame extraction engine",
		Long: `tidata converts Terra Invicta save snapshots into flat, analysis-ready
tables. It indexes every record in a save, resolves the cross-references
between nations, factions, orbital assets and missions, and writes one CSV
and one JSON Lines file per table.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if cfg.Verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
				if used := config.GetConfigFileUsed(); used != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", used)
				}
			}
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./tidata.yaml)")
	rootCmd.PersistentFlags().String("save", "", "Path to the save file to extract (default: latest in saves dir)")
	rootCmd.PersistentFlags().String("saves-dir", "", "Directory scanned for save files")
	rootCmd.PersistentFlags().String("output-dir", "", "Directory the extracted tables are written to")
	rootCmd.PersistentFlags().StringSlice("tracked-entities", nil, "Nation allow-list for the economy table")
	rootCmd.PersistentFlags().String("history", "", "Path to the campaign history database")
	rootCmd.PersistentFlags().Bool("no-history", false, "Disable campaign history recording")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewExtractCommand())
	rootCmd.AddCommand(commands.NewSavesCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the CLI and returns the process exit code. A load failure
// (no tables produced) exits distinctly from a degraded run (some tables
// failed, at least one written).
func Execute() int {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err == nil {
		return engine.ExitOK
	}

	if errors.Is(err, commands.ErrDegraded) {
		// The extract command already printed the degradation summary.
		return engine.ExitDegraded
	}

	// Load failures and other hard errors produced no tables at all.
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return engine.ExitLoadFailed
}
