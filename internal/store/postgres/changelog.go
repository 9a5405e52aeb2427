package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/clock"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/feed"
)

// ChangeLog implements feed.Outbox backed by the changes table.
type ChangeLog struct {
	db  *sqlx.DB
	clk clock.Clock
}

// NewChangeLog returns a new ChangeLog.
func NewChangeLog(db *sqlx.DB, clk clock.Clock) *ChangeLog {
	return &ChangeLog{db: db, clk: clk}
}

func (c *ChangeLog) NextUnpublished(ctx context.Context, limit int) ([]feed.Change, error) {
	var changes []feed.Change
	err := c.db.SelectContext(ctx, &changes,
		`SELECT * FROM changes WHERE published_at IS NULL ORDER BY id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading unpublished changes: %w", err)
	}
	return changes, nil
}

func (c *ChangeLog) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.db.ExecContext(ctx,
		`UPDATE changes SET published_at = $1 WHERE id = ANY($2)`,
		c.clk.Now().UTC(), pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("marking changes published: %w", err)
	}
	return nil
}
