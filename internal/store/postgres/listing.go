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

// ListingRepo implements store.ListingRepository with sqlx.
type ListingRepo struct {
	db *sqlx.DB
}

// NewListingRepo returns a new ListingRepo.
func NewListingRepo(db *sqlx.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

func (r *ListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*store.Listing, error) {
	var l store.Listing
	err := r.db.GetContext(ctx, &l, `SELECT * FROM listings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting listing: %w", err)
	}
	return &l, nil
}

func (r *ListingRepo) ActiveByEvent(ctx context.Context, auctionEventID uuid.UUID) (*store.Listing, error) {
	var l store.Listing
	err := r.db.GetContext(ctx, &l,
		`SELECT * FROM listings WHERE auction_event_id = $1 AND active`, auctionEventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no active listing in event %s: %w", auctionEventID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting active listing: %w", err)
	}
	return &l, nil
}

func (r *ListingRepo) ListByEvent(ctx context.Context, auctionEventID uuid.UUID) ([]store.Listing, error) {
	var listings []store.Listing
	err := r.db.SelectContext(ctx, &listings,
		`SELECT * FROM listings WHERE auction_event_id = $1 ORDER BY created_at DESC`, auctionEventID)
	if err != nil {
		return nil, fmt.Errorf("listing event listings: %w", err)
	}
	return listings, nil
}
