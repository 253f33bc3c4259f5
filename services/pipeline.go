package services

import (
	"car-dashboard/models"
	"car-dashboard/utils"
)

// Pipeline wires the normalizer, deduplicator, filter and aggregator together.
// It holds no dataset state; callers keep the canonical dataset and pass it in
// on every recomputation.
type Pipeline struct {
	logger     *utils.Logger
	normalizer *Normalizer
	insights   *InsightService
}

// NewPipeline creates a Pipeline with the given logger.
func NewPipeline(logger *utils.Logger) *Pipeline {
	return &Pipeline{
		logger:     logger,
		normalizer: NewNormalizer(logger),
		insights:   NewInsightService(logger),
	}
}

// BuildDataset normalizes fully loaded batches and removes duplicates,
// producing the canonical dataset.
func (p *Pipeline) BuildDataset(batches []models.RawBatch) (models.Dataset, []models.Diagnostic) {
	normalized, diags := p.normalizer.NormalizeBatches(batches)
	dataset := Dedupe(normalized)

	p.logger.Info("[pipeline] Built dataset %d → %d records (dropped %d duplicates)",
		len(normalized), len(dataset), len(normalized)-len(dataset))
	return dataset, diags
}

// Recompute filters the canonical dataset and aggregates the result from scratch.
func (p *Pipeline) Recompute(dataset models.Dataset, spec models.FilterSpec) (models.Dataset, models.AggregationResult) {
	subset := Filter(dataset, spec)
	p.logger.Info("[pipeline] Showing %d of %d records", len(subset), len(dataset))
	return subset, p.insights.Generate(subset)
}
