package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"car-dashboard/storage"
)

func newModelsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the model folders in the data directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			available, err := storage.ListModels(a.cfg.DataDir)
			if err != nil {
				return err
			}
			if len(available) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No model folders under %s\n", a.cfg.DataDir)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Model", "Files"})
			for _, m := range available {
				files, err := storage.ModelFiles(a.cfg.DataDir, m)
				if err != nil {
					a.logger.Warn("[cli] %v", err)
				}
				t.AppendRow(table.Row{m, len(files)})
			}
			t.Render()
			return nil
		},
	}
}
