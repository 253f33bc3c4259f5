package cli

import (
	"context"
	"fmt"

	"car-dashboard/config"
	"car-dashboard/models"
	"car-dashboard/services"
	"car-dashboard/storage"
)

// loadDataset reads the configured model and builds the canonical dataset.
func (a *app) loadDataset(ctx context.Context, pipeline *services.Pipeline) (models.Dataset, error) {
	model, err := a.resolveModel()
	if err != nil {
		return nil, err
	}

	loader := storage.NewLoader(a.logger, a.cfg.LoadConcurrency)
	batches, err := loader.LoadModel(ctx, a.cfg.DataDir, model)
	if err != nil {
		return nil, err
	}

	dataset, diags := pipeline.BuildDataset(batches)
	for _, d := range diags {
		a.logger.Debug("[cli] %s: %s %q: %s", d.RecordID, d.Field, d.OriginalText, d.Reason)
	}
	return dataset, nil
}

// resolveModel returns the configured model, or the only model folder present.
func (a *app) resolveModel() (string, error) {
	if a.cfg.CarModel != "" {
		return a.cfg.CarModel, nil
	}
	available, err := storage.ListModels(a.cfg.DataDir)
	if err != nil {
		return "", err
	}
	switch len(available) {
	case 0:
		return "", fmt.Errorf("no model folders under %q", a.cfg.DataDir)
	case 1:
		return available[0], nil
	}
	return "", fmt.Errorf("several models under %q, pick one with --model: %v", a.cfg.DataDir, available)
}

// filterSpec builds the active filter: the base range, the exclude keywords
// file and then the YAML preset, in that order.
func (a *app) filterSpec(dataset models.Dataset, panelDefaults bool) (models.FilterSpec, error) {
	spec := services.OpenFilterSpec()
	if panelDefaults {
		spec = services.DefaultFilterSpec(services.DeriveBounds(dataset))
	}

	keywords, err := storage.LoadExcludeKeywords(a.cfg.ExcludeKeywordsFile)
	if err != nil {
		return spec, err
	}
	spec.ExcludeKeywords = keywords
	if len(keywords) > 0 {
		a.logger.Info("[cli] Loaded %d exclude keywords", len(keywords))
	}

	if a.cfg.FilterFile == "" {
		return spec, nil
	}
	return config.LoadFilterFile(a.cfg.FilterFile, spec)
}
