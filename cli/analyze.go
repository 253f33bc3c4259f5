package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"car-dashboard/services"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	var (
		asJSON        bool
		panelDefaults bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Load, filter and aggregate one model's listings",
		Example: `  car-dashboard analyze --model GR86
  car-dashboard analyze --model GR86 --filter presets/mt_only.yaml --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline := services.NewPipeline(a.logger)
			dataset, err := a.loadDataset(cmd.Context(), pipeline)
			if err != nil {
				return err
			}
			spec, err := a.filterSpec(dataset, panelDefaults)
			if err != nil {
				return err
			}

			_, result := pipeline.Recompute(dataset, spec)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			services.NewInsightService(a.logger).Print(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the aggregation result as JSON")
	cmd.Flags().BoolVar(&panelDefaults, "panel-defaults", false,
		"start from the observed year/price/mileage ranges instead of the open filter")
	return cmd
}
