package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/config"
)

func init() {
	Register("redis", func(cfg config.FeedConfig, logger *slog.Logger) (Publisher, error) {
		return NewRedisPublisher(cfg, logger)
	})
}

// RedisPublisher broadcasts changes over Redis pub/sub, one channel per
// auction event so viewers subscribe only to the event they watch.
type RedisPublisher struct {
	rdb    *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisPublisher connects to Redis and verifies the connection before
// returning.
func NewRedisPublisher(cfg config.FeedConfig, logger *slog.Logger) (*RedisPublisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("connected to redis feed backend", "addr", cfg.RedisAddr)

	return &RedisPublisher{rdb: rdb, prefix: cfg.ChannelPrefix, logger: logger}, nil
}

// Publish sends the change as JSON on the owning auction event's channel.
func (p *RedisPublisher) Publish(ctx context.Context, ch Change) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshaling change %d: %w", ch.ID, err)
	}
	channel := fmt.Sprintf("%s:%s", p.prefix, ch.AuctionEventID)
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publishing change %d to %s: %w", ch.ID, channel, err)
	}
	return nil
}

// Close releases the underlying connection.
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
