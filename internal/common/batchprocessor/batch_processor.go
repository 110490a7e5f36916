package batchprocessor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// BatchProcessorConfig holds configuration for batch processing
type BatchProcessorConfig struct {
	MaxConcurrent int           // Max items processed at once (default: 4)
	ItemTimeout   time.Duration // Timeout per item, zero disables it
}

// DefaultBatchProcessorConfig returns default configuration
func DefaultBatchProcessorConfig() BatchProcessorConfig {
	return BatchProcessorConfig{
		MaxConcurrent: 4,
	}
}

// ItemResult holds the outcome of one item.
type ItemResult struct {
	Index    int
	Item     string
	Error    error
	Duration time.Duration
}

// BatchProcessor runs a function over a list of inputs with bounded
// concurrency. A failing item does not stop the others.
type BatchProcessor struct {
	config BatchProcessorConfig
	logger zerolog.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(config BatchProcessorConfig, logger zerolog.Logger) *BatchProcessor {
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 1
	}
	return &BatchProcessor{
		config: config,
		logger: logger.With().Str("component", "BatchProcessor").Logger(),
	}
}

// ProcessFunc processes one item.
type ProcessFunc func(ctx context.Context, index int, item string) error

// Process runs fn for every item and returns one result per item in input
// order. Items not started before ctx is cancelled carry ctx.Err(); the
// returned error is ctx.Err() in that case and nil otherwise.
func (bp *BatchProcessor) Process(ctx context.Context, items []string, fn ProcessFunc) ([]ItemResult, error) {
	results := make([]ItemResult, len(items))
	for i, item := range items {
		results[i] = ItemResult{Index: i, Item: item}
	}

	bp.logger.Debug().
		Int("items", len(items)).
		Int("concurrency", bp.config.MaxConcurrent).
		Msg("Starting batch processing")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.config.MaxConcurrent)

	for i, item := range items {
		if gctx.Err() != nil {
			for j := i; j < len(items); j++ {
				results[j].Error = gctx.Err()
			}
			break
		}

		g.Go(func() error {
			itemCtx := gctx
			if bp.config.ItemTimeout > 0 {
				var cancel context.CancelFunc
				itemCtx, cancel = context.WithTimeout(gctx, bp.config.ItemTimeout)
				defer cancel()
			}

			start := time.Now()
			err := fn(itemCtx, i, item)
			results[i].Error = err
			results[i].Duration = time.Since(start)

			if err != nil {
				bp.logger.Error().Err(err).Str("item", item).Msg("Item processing failed")
			}
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		bp.logger.Info().Msg("Batch processing interrupted by context cancellation")
		return results, err
	}
	return results, nil
}

// Failed returns the results that carry an error.
func Failed(results []ItemResult) []ItemResult {
	var out []ItemResult
	for _, r := range results {
		if r.Error != nil {
			out = append(out, r)
		}
	}
	return out
}
