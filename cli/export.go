package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"car-dashboard/models"
	"car-dashboard/services"
	"car-dashboard/storage"
)

func newExportCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "export [path.csv|path.xlsx]",
		Short: "Export the filtered listings to CSV or Excel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.ExportPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("export: no output path given")
			}

			pipeline := services.NewPipeline(a.logger)
			dataset, err := a.loadDataset(cmd.Context(), pipeline)
			if err != nil {
				return err
			}

			subset := dataset
			var result models.AggregationResult
			if all {
				result = services.NewInsightService(a.logger).Generate(dataset)
			} else {
				spec, err := a.filterSpec(dataset, false)
				if err != nil {
					return err
				}
				subset, result = pipeline.Recompute(dataset, spec)
			}

			w, err := newExportWriter(path, result)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Write(subset); err != nil {
				return err
			}
			a.logger.Info("[cli] Exported %d records to %s", len(subset), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "export the whole dataset, ignoring filters")
	return cmd
}

func newExportWriter(path string, summary models.AggregationResult) (storage.VehicleWriter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return storage.NewCSVWriter(path)
	case ".xlsx":
		w, err := storage.NewXLSXWriter(path)
		if err != nil {
			return nil, err
		}
		return w.WithSummary(summary), nil
	}
	return nil, fmt.Errorf("export: unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
}
