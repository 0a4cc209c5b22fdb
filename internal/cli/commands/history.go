package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/MartinUnity/games-terra-invicta/internal/cli/config"
	"github.com/MartinUnity/games-terra-invicta/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent extraction runs from the campaign history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetCurrentConfig()
			logger := config.GetLogger(cmd.Context())

			store := state.NewStore(logger)
			if err := store.Open(cfg.HistoryPath); err != nil {
				return err
			}
			defer store.Close()
			if err := store.InitSchema(); err != nil {
				return err
			}

			runs, err := store.RecentRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Run", "Game date", "Status", "Tables", "Rows", "Recorded at"})
			for _, run := range runs {
				t.AppendRow(table.Row{
					run.ID[:8], run.GameDate, run.Status,
					run.TablesWritten, run.RowsWritten,
					run.CreatedAt.Format("2006-01-02 15:04:05"),
				})
			}
			t.Render()

			total, err := store.NationHistoryCount()
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%d nation snapshot(s) accumulated\n", total)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}
