package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"car-dashboard/scraper/carsensor"
	"car-dashboard/storage"
)

func newScrapeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Collect today's listings for the model into the data directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.CarModel == "" {
				return fmt.Errorf("scrape: --model is required")
			}

			records, err := carsensor.New(a.cfg, a.logger).Scrape(cmd.Context())
			if err != nil {
				a.logger.Error("[cli] Scrape stopped early: %v", err)
			}
			if len(records) == 0 {
				return fmt.Errorf("scrape: no listings were collected")
			}

			path := batchPath(a.cfg.DataDir, a.cfg.CarModel, time.Now())
			w, err := storage.NewRawCSVWriter(path)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.WriteRaw(records); err != nil {
				return err
			}
			a.logger.Info("[cli] Saved %d raw listings to %s", len(records), path)
			return nil
		},
	}
}

// batchPath returns <data>/<model>/<YYYY_MM_DD>/<YYYY_MM_DD>_<model>.csv, the
// layout the loader discovers and dates batches by.
func batchPath(dataDir, model string, day time.Time) string {
	stamp := day.Format("2006_01_02")
	file := stamp + "_" + strings.ToLower(model) + ".csv"
	return filepath.Join(dataDir, model, stamp, file)
}
