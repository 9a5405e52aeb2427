package feed

import (
	"context"
	"log/slog"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/config"
)

func init() {
	Register("log", func(cfg config.FeedConfig, logger *slog.Logger) (Publisher, error) {
		return NewLogPublisher(logger), nil
	})
}

// LogPublisher writes changes to the structured log. It is the default
// driver for environments without a Redis to broadcast on.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher returns a publisher backed by logger.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, ch Change) error {
	p.logger.InfoContext(ctx, "change published",
		"change_id", ch.ID,
		"auction_event_id", ch.AuctionEventID.String(),
		"entity", string(ch.Entity),
		"entity_id", ch.EntityID.String(),
		"type", string(ch.Type),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
