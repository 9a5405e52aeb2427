package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Relay drains unpublished changes from the outbox and hands them to the
// publisher in insertion order. Publishing happens before marking, so a
// crash between the two replays the change: delivery is at-least-once.
type Relay struct {
	outbox    Outbox
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewRelay returns a relay that polls outbox every interval, batchSize
// changes at a time.
func NewRelay(outbox Outbox, publisher Publisher, logger *slog.Logger, interval time.Duration, batchSize int) *Relay {
	return &Relay{
		outbox:    outbox,
		publisher: publisher,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run polls until ctx is cancelled. Only one relay may run at a time;
// callers gate it behind leader election when replicas exist.
func (r *Relay) Run(ctx context.Context) {
	r.logger.InfoContext(ctx, "feed relay started",
		"interval", r.interval.String(), "batch_size", r.batchSize)

	if err := r.drain(ctx); err != nil && ctx.Err() == nil {
		r.logger.ErrorContext(ctx, "feed relay drain failed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "feed relay stopped")
			return
		case <-ticker.C:
			if err := r.drain(ctx); err != nil && ctx.Err() == nil {
				r.logger.ErrorContext(ctx, "feed relay drain failed", "error", err)
			}
		}
	}
}

// drain publishes pending changes batch by batch. It stops at the first
// publish failure so the failed change is retried first on the next tick,
// preserving order.
func (r *Relay) drain(ctx context.Context) error {
	for {
		changes, err := r.outbox.NextUnpublished(ctx, r.batchSize)
		if err != nil {
			return fmt.Errorf("reading outbox: %w", err)
		}
		if len(changes) == 0 {
			return nil
		}

		published := make([]int64, 0, len(changes))
		var publishErr error
		for _, ch := range changes {
			if err := r.publisher.Publish(ctx, ch); err != nil {
				publishErr = fmt.Errorf("publishing change %d: %w", ch.ID, err)
				break
			}
			published = append(published, ch.ID)
		}

		if len(published) > 0 {
			if err := r.outbox.MarkPublished(ctx, published); err != nil {
				return fmt.Errorf("marking %d changes published: %w", len(published), err)
			}
		}
		if publishErr != nil {
			return publishErr
		}
		if len(changes) < r.batchSize {
			return nil
		}
	}
}
