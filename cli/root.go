// Package cli provides the car-dashboard command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"car-dashboard/config"
	"car-dashboard/utils"
)

// app carries the loaded configuration and logger into every subcommand.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	a := &app{}
	var (
		dataDir     string
		model       string
		filterFile  string
		excludeFile string
		logLevel    string
	)

	rootCmd := &cobra.Command{
		Use:   "car-dashboard",
		Short: "Used-car listing analysis",
		Long: `car-dashboard loads scraped used-car listings for one model, normalizes and
deduplicates them, applies a filter and prints dashboard statistics.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			overrides := map[*string]string{
				&cfg.DataDir:             dataDir,
				&cfg.CarModel:            model,
				&cfg.FilterFile:          filterFile,
				&cfg.ExcludeKeywordsFile: excludeFile,
				&cfg.LogLevel:            logLevel,
			}
			for field, flag := range overrides {
				if flag != "" {
					*field = flag
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = utils.NewLoggerWithWriter(cmd.ErrOrStderr())
			a.logger.SetLevel(cfg.LogLevel)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", "", "data directory holding one folder per model (env DATA_DIR)")
	pf.StringVarP(&model, "model", "m", "", "car model folder to load (env CAR_MODEL)")
	pf.StringVarP(&filterFile, "filter", "f", "", "YAML filter preset (env FILTER_FILE)")
	pf.StringVar(&excludeFile, "exclude", "", "exclude keywords file, one per line (env EXCLUDE_KEYWORDS_FILE)")
	pf.StringVar(&logLevel, "log-level", "", "debug|info|warn|error (env LOG_LEVEL)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newModelsCommand(a))
	rootCmd.AddCommand(newAnalyzeCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newStoreCommand(a))
	rootCmd.AddCommand(newScrapeCommand(a))

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
