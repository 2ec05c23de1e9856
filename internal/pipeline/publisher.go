// Package pipeline publishes a loaded earthquake catalog to a downstream sink.
package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

const (
	defaultInitialBackoff = 200 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
)

// Catalog is the ordered record source being published.
type Catalog interface {
	Count() int
	ByIndex(i int) (domain.Earthquake, error)
}

// BatchLoader writes multiple records to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, quakes []domain.Earthquake) error
}

// Publisher copies every catalog record to a loader in fixed-size batches,
// retrying a failed batch until it succeeds or the context ends.
type Publisher struct {
	catalog   Catalog
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int
	published atomic.Int64

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// New creates a Publisher over the given catalog and loader.
func New(c Catalog, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Publisher {
	return &Publisher{
		catalog:        c,
		loader:         l,
		logger:         logger,
		metrics:        metrics,
		batchSize:      max(batchSize, 1),
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
	}
}

// Published returns how many records have been written so far.
func (p *Publisher) Published() int {
	return int(p.published.Load())
}

// Run publishes the whole catalog once. It returns nil when every record has
// been written or when ctx is cancelled first.
func (p *Publisher) Run(ctx context.Context) error {
	total := p.catalog.Count()
	p.logger.Info("catalog publish started", "records", total, "batch_size", p.batchSize)
	p.metrics.PublishRunning.Set(1)
	defer p.metrics.PublishRunning.Set(0)

	for start := 0; start < total; start += p.batchSize {
		batch, err := p.collect(start, min(start+p.batchSize, total))
		if err != nil {
			return err
		}
		if !p.loadWithRetry(ctx, batch) {
			p.logger.Info("catalog publish stopping", "reason", ctx.Err(), "published", p.Published())
			return nil
		}
	}

	p.logger.Info("catalog publish complete", "published", p.Published())
	return nil
}

func (p *Publisher) collect(from, to int) ([]domain.Earthquake, error) {
	batch := make([]domain.Earthquake, 0, to-from)
	for i := from; i < to; i++ {
		q, err := p.catalog.ByIndex(i)
		if err != nil {
			return nil, err
		}
		batch = append(batch, q)
	}
	return batch, nil
}

// loadWithRetry writes one batch, backing off between failures. Returns false
// if the context ended before the batch was written.
func (p *Publisher) loadWithRetry(ctx context.Context, batch []domain.Earthquake) bool {
	backoff := p.initialBackoff
	for {
		if ctx.Err() != nil {
			return false
		}
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.published.Add(int64(len(batch)))
			p.metrics.MessagesProduced.Add(float64(len(batch)))
			return true
		}

		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish batch failed", "error", err, "batch_size", len(batch), "retry_in", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			return false
		}
		backoff = retry.NextBackoff(backoff, p.maxBackoff)
	}
}
