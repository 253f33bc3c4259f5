package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"car-dashboard/services"
	"car-dashboard/storage"
	"car-dashboard/utils"
)

// snapshotStore is a backend that can both persist and reload a dataset.
type snapshotStore interface {
	storage.VehicleWriter
	storage.VehicleReader
}

func newStoreCommand(a *app) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save the dataset snapshot to PostgreSQL or SQLite and report on the stored rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline := services.NewPipeline(a.logger)
			dataset, err := a.loadDataset(cmd.Context(), pipeline)
			if err != nil {
				return err
			}

			store, err := a.openStore(cmd.Context(), backend)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Write(dataset); err != nil {
				return err
			}
			a.logger.Info("[cli] Stored %d records in %s", len(dataset), backend)

			stored, err := store.FetchAll()
			if err != nil {
				a.logger.Error("[cli] Failed to reload snapshot, using in-memory dataset: %v", err)
				stored = dataset
			}

			spec, err := a.filterSpec(stored, false)
			if err != nil {
				return err
			}
			_, result := pipeline.Recompute(stored, spec)
			services.NewInsightService(a.logger).Print(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "sqlite", "snapshot backend: postgres|sqlite")
	_ = cmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"postgres", "sqlite"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (a *app) openStore(ctx context.Context, backend string) (snapshotStore, error) {
	switch backend {
	case "sqlite":
		return storage.NewSQLiteWriter(a.cfg.SQLitePath)
	case "postgres":
		retry := &utils.RetryConfig{
			MaxAttempts: a.cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      a.logger,
		}
		pw, err := storage.NewPostgresWriter(ctx, a.cfg.DSN(), retry)
		if err != nil {
			a.logger.Error("[cli] Make sure PostgreSQL is running: docker compose up -d")
			return nil, err
		}
		return pw, nil
	}
	return nil, fmt.Errorf("store: unknown backend %q", backend)
}
