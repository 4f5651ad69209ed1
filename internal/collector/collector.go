// Package collector assembles raw lookups for the pipeline: it enumerates
// region candidates, queries the solar-data provider, and fetches aerial
// imagery. Every upstream failure degrades to a data gap on the lookup;
// the collector itself only fails when it cannot enumerate at all.
package collector

import (
	"context"
	"log/slog"

	"github.com/rooftopdata/solar-survey/internal/domain"
	"github.com/rooftopdata/solar-survey/internal/observability"
	"github.com/rooftopdata/solar-survey/internal/region"
)

// ImageFetcher downloads an aerial image for an address and returns its
// relative path, or "" when no image could be retrieved.
type ImageFetcher interface {
	Fetch(ctx context.Context, address string, geo domain.Geo) (string, error)
}

// Collector implements pipeline.BatchExtractor over a fixed candidate list.
type Collector struct {
	candidates []region.Candidate
	offset     int
	provider   domain.PropertyProvider
	imagery    ImageFetcher // nil disables imagery
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Collector surveying up to maxProperties candidates of a region.
func New(r region.Region, maxProperties int, provider domain.PropertyProvider, imagery ImageFetcher, logger *slog.Logger, metrics *observability.Metrics) *Collector {
	return &Collector{
		candidates: r.Candidates(maxProperties),
		provider:   provider,
		imagery:    imagery,
		logger:     logger,
		metrics:    metrics,
	}
}

// ExtractBatch returns the next batch of assembled lookups, one per
// candidate, in enumeration order. An empty batch means the candidate list
// is exhausted.
func (c *Collector) ExtractBatch(ctx context.Context, batchSize int) ([]domain.Lookup, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if batchSize <= 0 || c.offset >= len(c.candidates) {
		return nil, nil
	}

	end := min(c.offset+batchSize, len(c.candidates))
	batch := make([]domain.Lookup, 0, end-c.offset)
	for _, cand := range c.candidates[c.offset:end] {
		batch = append(batch, c.assemble(ctx, cand))
	}
	c.offset = end
	return batch, nil
}

// assemble runs the provider and imagery lookups for one candidate. Failures
// leave the corresponding payload empty; the record still gets emitted.
func (c *Collector) assemble(ctx context.Context, cand region.Candidate) domain.Lookup {
	lk := domain.Lookup{Address: cand.Address, Geo: cand.Geo}

	result, err := c.provider.Lookup(ctx, cand.Address, cand.Geo)
	switch {
	case err != nil:
		c.logger.Warn("property lookup failed", "address", cand.Address, "error", err)
		c.metrics.ProviderRequests.WithLabelValues("error").Inc()
	case result.Empty():
		c.logger.Debug("no provider coverage", "address", cand.Address)
		c.metrics.ProviderRequests.WithLabelValues("no_coverage").Inc()
	default:
		c.metrics.ProviderRequests.WithLabelValues("success").Inc()
		lk.Owner = result.Owner
		lk.Solar = result.Solar
	}

	if lk.Owner == nil {
		c.metrics.DataGaps.WithLabelValues("owner").Inc()
	}
	if lk.Solar == nil {
		c.metrics.DataGaps.WithLabelValues("solar").Inc()
	}

	if c.imagery != nil {
		path, err := c.imagery.Fetch(ctx, cand.Address, cand.Geo)
		if err != nil {
			c.logger.Warn("imagery download failed", "address", cand.Address, "error", err)
		}
		lk.ImagePath = path
	}
	if lk.ImagePath == "" {
		c.metrics.DataGaps.WithLabelValues("imagery").Inc()
	}

	return lk
}
