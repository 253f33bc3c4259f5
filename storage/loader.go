package storage

import (
	"context"
	"fmt"
	"os"

	"car-dashboard/models"
	"car-dashboard/utils"
)

// Loader reads a model's CSV batches from disk.
type Loader struct {
	logger  *utils.Logger
	workers int
}

// NewLoader creates a Loader reading up to workers files at once.
func NewLoader(logger *utils.Logger, workers int) *Loader {
	return &Loader{logger: logger, workers: workers}
}

// LoadModel reads every CSV file of one model folder under root.
func (l *Loader) LoadModel(ctx context.Context, root, model string) ([]models.RawBatch, error) {
	files, err := ModelFiles(root, model)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("loader: no csv files for model %q", model)
	}
	l.logger.Info("[loader] %s: found %d files", model, len(files))
	return l.LoadFiles(ctx, files, model)
}

// LoadFiles reads files concurrently and returns their batches in the order
// of files. Unreadable files are logged and skipped.
func (l *Loader) LoadFiles(ctx context.Context, files []string, group string) ([]models.RawBatch, error) {
	results := make([]*models.RawBatch, len(files))
	pool := utils.NewWorkerPool(l.workers, 0)

	for i, path := range files {
		i, path := i, path // per-iteration copy; module targets go 1.21 loop semantics
		if ctx.Err() != nil {
			break
		}
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			batch, err := readBatch(path, group)
			if err != nil {
				l.logger.Warn("[loader] skipping %s: %v", path, err)
				return
			}
			l.logger.Debug("[loader] %s: %d records", path, len(batch.Records))
			results[i] = batch
		})
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	batches := make([]models.RawBatch, 0, len(files))
	records := 0
	for _, b := range results {
		if b != nil {
			batches = append(batches, *b)
			records += len(b.Records)
		}
	}
	l.logger.Info("[loader] %s: loaded %d records from %d/%d files", group, records, len(batches), len(files))
	return batches, nil
}

func readBatch(path, group string) (*models.RawBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ReadRawCSV(f)
	if err != nil {
		return nil, err
	}
	return &models.RawBatch{
		Path: path,
		Provenance: models.Provenance{
			BatchDate:   BatchDateFromPath(path),
			SourceGroup: group,
		},
		Records: records,
	}, nil
}
