package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

// AuctionEventRepo implements store.AuctionEventRepository with sqlx.
type AuctionEventRepo struct {
	db *sqlx.DB
}

// NewAuctionEventRepo returns a new AuctionEventRepo.
func NewAuctionEventRepo(db *sqlx.DB) *AuctionEventRepo {
	return &AuctionEventRepo{db: db}
}

func (r *AuctionEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*store.AuctionEvent, error) {
	var e store.AuctionEvent
	err := r.db.GetContext(ctx, &e, `SELECT * FROM auction_events WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auction event %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting auction event: %w", err)
	}
	return &e, nil
}

func (r *AuctionEventRepo) List(ctx context.Context) ([]store.AuctionEvent, error) {
	var events []store.AuctionEvent
	err := r.db.SelectContext(ctx, &events, `SELECT * FROM auction_events ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing auction events: %w", err)
	}
	return events, nil
}
