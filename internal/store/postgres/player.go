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

// PlayerRepo implements store.PlayerRepository with sqlx.
type PlayerRepo struct {
	db *sqlx.DB
}

// NewPlayerRepo returns a new PlayerRepo.
func NewPlayerRepo(db *sqlx.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

func (r *PlayerRepo) GetByID(ctx context.Context, id uuid.UUID) (*store.Player, error) {
	var p store.Player
	err := r.db.GetContext(ctx, &p, `SELECT * FROM players WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting player: %w", err)
	}
	return &p, nil
}

func (r *PlayerRepo) ListByEvent(ctx context.Context, auctionEventID uuid.UUID, filter store.PlayerFilter) ([]store.Player, error) {
	query := `SELECT * FROM players WHERE auction_event_id = $1`
	switch filter {
	case store.PlayersSold:
		query += ` AND sold`
	case store.PlayersUnsold:
		query += ` AND NOT sold`
	}
	query += ` ORDER BY name ASC`

	var players []store.Player
	if err := r.db.SelectContext(ctx, &players, query, auctionEventID); err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	return players, nil
}
