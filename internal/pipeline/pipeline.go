package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rooftopdata/solar-survey/internal/domain"
	"github.com/rooftopdata/solar-survey/internal/observability"
)

// BatchExtractor yields raw lookups from the collector. An empty batch with
// a nil error means the source is exhausted and the survey is complete.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.Lookup, error)
}

// Builder turns a raw lookup into a finished record. Building never fails;
// missing data degrades to defaults.
type Builder interface {
	Build(lk domain.Lookup) domain.PropertyRecord
}

// BatchSink receives finished records. Close flushes any buffered output
// (the CSV trailer, the rendered map, the report) and must be idempotent.
type BatchSink interface {
	WriteBatch(ctx context.Context, records []domain.PropertyRecord) error
	Close() error
}

// Pipeline orchestrates the extract-build-write loop for one survey run.
type Pipeline struct {
	extractor BatchExtractor
	builder   Builder
	sinks     []BatchSink
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	emitted   atomic.Int64
	batchSize int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, b Builder, sinks []BatchSink, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		builder:   b,
		sinks:     sinks,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has emitted at least one
// record, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not emitted any records yet")
	}
	return nil
}

// Emitted returns the number of records written so far.
func (p *Pipeline) Emitted() int64 {
	return p.emitted.Load()
}

// Run drains the extractor batch-by-batch until it is exhausted or the
// context is cancelled. An extractor error is the only fatal input
// condition; individual records always come out fully populated. Sinks are
// closed on every exit path.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("survey started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	defer p.closeSinks()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("survey stopping", "reason", ctx.Err())
			return nil
		default:
		}

		done, err := p.processBatch(ctx)
		if err != nil {
			return err
		}
		if done {
			p.logger.Info("survey complete", "records", p.emitted.Load())
			return nil
		}
	}
}

// processBatch runs one extract-build-write cycle. Returns true when the
// source is exhausted.
func (p *Pipeline) processBatch(ctx context.Context) (bool, error) {
	start := time.Now()

	batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return true, nil
		}
		return false, fmt.Errorf("enumerate properties: %w", err)
	}
	if len(batch) == 0 {
		return true, nil
	}

	p.metrics.PropertiesSurveyed.Add(float64(len(batch)))
	p.metrics.BatchSize.Observe(float64(len(batch)))

	records := make([]domain.PropertyRecord, len(batch))
	for i, lk := range batch {
		records[i] = p.builder.Build(lk)
	}

	for _, sink := range p.sinks {
		if err := sink.WriteBatch(ctx, records); err != nil {
			return false, fmt.Errorf("write records: %w", err)
		}
	}

	p.emitted.Add(int64(len(records)))
	p.metrics.RecordsEmitted.Add(float64(len(records)))
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return false, nil
}

func (p *Pipeline) closeSinks() {
	for _, sink := range p.sinks {
		if err := sink.Close(); err != nil {
			p.logger.Error("sink close failed", "error", err)
		}
	}
}
