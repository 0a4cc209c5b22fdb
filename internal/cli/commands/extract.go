package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/MartinUnity/games-terra-invicta/internal/cli/config"
	"github.com/MartinUnity/games-terra-invicta/internal/engine"
	"github.com/MartinUnity/games-terra-invicta/internal/save"
	"github.com/MartinUnity/games-terra-invicta/internal/state"
)

// ErrDegraded signals that the run wrote at least one table but some table
// failed; Execute maps it to the degraded exit code. The summary has
// already been printed when this is returned.
var ErrDegraded = errors.New("extraction degraded")

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract flat tables from a save file",
		Long: `Load a save document, resolve cross-references between its records and
write one CSV and one JSON Lines file per table.

With no --save flag, the most recently modified save in the saves directory
is used. The nations table of each run is appended to the campaign history
database unless --no-history is given.`,
		Example: `  # Extract the latest save
  tidata extract

  # Extract a specific save into a custom directory
  tidata extract --save saves/autosave_294.gz --output-dir out

  # Track only your own nations in the economy table
  tidata extract --tracked-entities Germany,Mauritius`,
		Args: cobra.NoArgs,
		RunE: runExtract,
	}
	return cmd
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg := config.GetCurrentConfig()
	logger := config.GetLogger(cmd.Context())

	savePath := cfg.SavePath
	if savePath == "" {
		latest, err := save.Latest(cfg.SavesDir)
		if err != nil {
			return err
		}
		savePath = latest
		logger.Debug("using latest save", "path", savePath)
	}

	var history *state.Store
	if !cfg.NoHistory {
		if dir := filepath.Dir(cfg.HistoryPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		history = state.NewStore(logger)
		if err := history.Open(cfg.HistoryPath); err != nil {
			return err
		}
		defer history.Close()
		if err := history.InitSchema(); err != nil {
			return err
		}
	}

	eng := engine.New(engine.Config{
		SavePath:        savePath,
		OutputDir:       cfg.OutputDir,
		Collections:     cfg.Collections,
		TrackedEntities: cfg.TrackedEntities,
		History:         history,
		Logger:          logger,
	})

	summary, err := eng.Run()
	if err != nil {
		return err
	}

	renderSummary(cmd, summary)

	if summary.Degraded() {
		return ErrDegraded
	}
	return nil
}

func renderSummary(cmd *cobra.Command, summary *engine.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Save:      %s\n", summary.SavePath)
	if summary.GameDate != "" {
		fmt.Fprintf(out, "Game date: %s\n", summary.GameDate)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Rows", "Unresolved", "Status"})
	for _, tr := range summary.Tables {
		status := "written"
		if tr.Err != nil {
			status = fmt.Sprintf("skipped: %v", tr.Err)
		}
		t.AppendRow(table.Row{tr.Name, tr.Rows, tr.Unresolved, status})
	}
	t.Render()

	if summary.Collisions > 0 {
		fmt.Fprintf(out, "Duplicate identifiers: %d (later record kept)\n", summary.Collisions)
	}
	if summary.HistoryErr != nil {
		fmt.Fprintf(out, "History append failed: %v\n", summary.HistoryErr)
	}
	fmt.Fprintf(out, "%d table(s), %d row(s) in %s\n",
		summary.TablesWritten(), summary.RowsWritten(), summary.Duration.Round(time.Millisecond))
}
