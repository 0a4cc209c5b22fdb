package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/MartinUnity/games-terra-invicta/internal/cli/config"
	"github.com/MartinUnity/games-terra-invicta/internal/save"
)

// NewSavesCommand creates the saves command.
func NewSavesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "saves",
		Short: "List save files in the saves directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetCurrentConfig()

			saves, err := save.List(cfg.SavesDir)
			if err != nil {
				return err
			}
			if len(saves) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No save files in %s\n", cfg.SavesDir)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Save", "Size", "Modified", ""})
			for i, s := range saves {
				marker := ""
				if i == 0 {
					marker = "latest"
				}
				t.AppendRow(table.Row{s.Name, s.Size, s.Modified.Format("2006-01-02 15:04:05"), marker})
			}
			t.Render()
			return nil
		},
	}
}
