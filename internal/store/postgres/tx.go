package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/clock"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/feed"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

// LedgerStore implements store.Ledger with explicit row-lock transactions.
type LedgerStore struct {
	db          *sqlx.DB
	clk         clock.Clock
	lockTimeout time.Duration
}

// NewLedgerStore returns a new LedgerStore.
func NewLedgerStore(db *sqlx.DB, clk clock.Clock, lockTimeout time.Duration) *LedgerStore {
	return &LedgerStore{db: db, clk: clk, lockTimeout: lockTimeout}
}

// Atomic runs fn inside one transaction. FOR UPDATE reads inside fn wait at
// most the configured lock timeout; timeouts, deadlocks and serialization
// failures surface as store.ErrContention.
func (l *LedgerStore) Atomic(ctx context.Context, fn func(tx store.Tx) error) error {
	txx, err := l.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = txx.Rollback() }()

	// lock_timeout takes a millisecond integer and cannot be parameterized.
	if _, err := txx.ExecContext(ctx,
		fmt.Sprintf("SET LOCAL lock_timeout = %d", l.lockTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("setting lock timeout: %w", err)
	}

	if err := fn(&ledgerTx{tx: txx, clk: l.clk}); err != nil {
		return err
	}

	if err := txx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", translateError(err))
	}
	return nil
}

// translateError maps PostgreSQL error codes onto store sentinels so callers
// can branch with errors.Is.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "55P03", "40P01", "40001":
		// lock_not_available, deadlock_detected, serialization_failure
		return fmt.Errorf("%s: %w", pqErr.Code.Name(), store.ErrContention)
	case "23505":
		switch pqErr.Constraint {
		case "listings_one_active_per_player", "listings_one_active_per_event":
			return fmt.Errorf("%s: %w", pqErr.Constraint, store.ErrListingAlreadyActive)
		default:
			return fmt.Errorf("%s: %w", pqErr.Constraint, store.ErrDuplicateName)
		}
	case "23514":
		// The purse CHECK is a backstop; the ledger verifies purse on the
		// locked row before writing.
		if pqErr.Constraint == "teams_purse_within_total" {
			return fmt.Errorf("%s: %w", pqErr.Constraint, store.ErrInsufficientPurse)
		}
	}
	return err
}

// ledgerTx implements store.Tx on one open sqlx transaction.
type ledgerTx struct {
	tx  *sqlx.Tx
	clk clock.Clock
}

func (t *ledgerTx) AuctionEventByID(ctx context.Context, id uuid.UUID) (*store.AuctionEvent, error) {
	var e store.AuctionEvent
	err := t.tx.GetContext(ctx, &e, `SELECT * FROM auction_events WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auction event %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting auction event: %w", err)
	}
	return &e, nil
}

func (t *ledgerTx) PlayerByID(ctx context.Context, id uuid.UUID) (*store.Player, error) {
	var p store.Player
	err := t.tx.GetContext(ctx, &p, `SELECT * FROM players WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting player: %w", err)
	}
	return &p, nil
}

func (t *ledgerTx) TeamForUpdate(ctx context.Context, id uuid.UUID) (*store.Team, error) {
	var tm store.Team
	err := t.tx.GetContext(ctx, &tm, `SELECT * FROM teams WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("locking team: %w", translateError(err))
	}
	return &tm, nil
}

func (t *ledgerTx) PlayerForUpdate(ctx context.Context, id uuid.UUID) (*store.Player, error) {
	var p store.Player
	err := t.tx.GetContext(ctx, &p, `SELECT * FROM players WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("locking player: %w", translateError(err))
	}
	return &p, nil
}

func (t *ledgerTx) ListingForUpdate(ctx context.Context, id uuid.UUID) (*store.Listing, error) {
	var l store.Listing
	err := t.tx.GetContext(ctx, &l, `SELECT * FROM listings WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("locking listing: %w", translateError(err))
	}
	return &l, nil
}

func (t *ledgerTx) PlayersByTeamForUpdate(ctx context.Context, teamID uuid.UUID) ([]store.Player, error) {
	var players []store.Player
	err := t.tx.SelectContext(ctx, &players,
		`SELECT * FROM players WHERE team_id = $1 ORDER BY id ASC FOR UPDATE`, teamID)
	if err != nil {
		return nil, fmt.Errorf("locking team players: %w", translateError(err))
	}
	return players, nil
}

func (t *ledgerTx) ActiveListingByEvent(ctx context.Context, auctionEventID uuid.UUID) (*store.Listing, error) {
	var l store.Listing
	err := t.tx.GetContext(ctx, &l,
		`SELECT * FROM listings WHERE auction_event_id = $1 AND active`, auctionEventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no active listing in event %s: %w", auctionEventID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting active listing: %w", err)
	}
	return &l, nil
}

func (t *ledgerTx) InsertAuctionEvent(ctx context.Context, e *store.AuctionEvent) error {
	e.CreatedAt = t.clk.Now().UTC()
	err := t.tx.QueryRowContext(ctx,
		`INSERT INTO auction_events (name, created_at) VALUES ($1, $2) RETURNING id`,
		e.Name, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("inserting auction event: %w", translateError(err))
	}
	return nil
}

func (t *ledgerTx) DeleteAuctionEvent(ctx context.Context, id uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM auction_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting auction event: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("auction event %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (t *ledgerTx) InsertTeam(ctx context.Context, tm *store.Team) error {
	now := t.clk.Now().UTC()
	tm.CreatedAt = now
	tm.UpdatedAt = now
	query := `INSERT INTO teams (auction_event_id, name, short_code, total_purse, purse_remaining, player_count, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	           RETURNING id`
	err := t.tx.QueryRowContext(ctx, query,
		tm.AuctionEventID, tm.Name, tm.ShortCode, tm.TotalPurse, tm.PurseRemaining,
		tm.PlayerCount, tm.CreatedAt, tm.UpdatedAt,
	).Scan(&tm.ID)
	if err != nil {
		return fmt.Errorf("inserting team: %w", translateError(err))
	}
	return nil
}

func (t *ledgerTx) InsertPlayer(ctx context.Context, p *store.Player) error {
	now := t.clk.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	query := `INSERT INTO players (auction_event_id, name, role, country, base_price, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7)
	           RETURNING id`
	err := t.tx.QueryRowContext(ctx, query,
		p.AuctionEventID, p.Name, p.Role, p.Country, p.BasePrice, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("inserting player: %w", translateError(err))
	}
	return nil
}

func (t *ledgerTx) InsertListing(ctx context.Context, l *store.Listing) error {
	now := t.clk.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	l.Active = true
	query := `INSERT INTO listings (auction_event_id, player_id, current_bid, active, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6)
	           RETURNING id`
	err := t.tx.QueryRowContext(ctx, query,
		l.AuctionEventID, l.PlayerID, l.CurrentBid, l.Active, l.CreatedAt, l.UpdatedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("inserting listing: %w", translateError(err))
	}
	return nil
}

func (t *ledgerTx) SetListingBid(ctx context.Context, id uuid.UUID, amount int64) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE listings SET current_bid = $1, updated_at = $2 WHERE id = $3 AND active AND current_bid < $1`,
		amount, t.clk.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("raising bid: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("listing %s: %w", id, store.ErrBidNotIncreasing)
	}
	return nil
}

func (t *ledgerTx) CloseListing(ctx context.Context, id uuid.UUID, winningTeamID *uuid.UUID, finalBid int64) error {
	now := t.clk.Now().UTC()
	res, err := t.tx.ExecContext(ctx,
		`UPDATE listings SET active = FALSE, winning_team_id = $1, current_bid = $2, closed_at = $3, updated_at = $3
		 WHERE id = $4 AND active`,
		winningTeamID, finalBid, now, id,
	)
	if err != nil {
		return fmt.Errorf("closing listing: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("listing %s: %w", id, store.ErrListingNotActive)
	}
	return nil
}

func (t *ledgerTx) MarkPlayerSold(ctx context.Context, playerID, teamID uuid.UUID, price int64) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE players SET sold = TRUE, team_id = $1, current_price = $2, updated_at = $3
		 WHERE id = $4 AND NOT sold`,
		teamID, price, t.clk.Now().UTC(), playerID,
	)
	if err != nil {
		return fmt.Errorf("marking player sold: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player %s: %w", playerID, store.ErrPlayerAlreadySold)
	}
	return nil
}

func (t *ledgerTx) ClearPlayerSale(ctx context.Context, playerID uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE players SET sold = FALSE, team_id = NULL, current_price = NULL, updated_at = $1
		 WHERE id = $2 AND sold`,
		t.clk.Now().UTC(), playerID,
	)
	if err != nil {
		return fmt.Errorf("clearing player sale: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player %s: %w", playerID, store.ErrPlayerNotSold)
	}
	return nil
}

func (t *ledgerTx) AdjustTeamPurse(ctx context.Context, teamID uuid.UUID, purseDelta int64, countDelta int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE teams SET purse_remaining = purse_remaining + $1, player_count = player_count + $2, updated_at = $3
		 WHERE id = $4`,
		purseDelta, countDelta, t.clk.Now().UTC(), teamID,
	)
	if err != nil {
		return fmt.Errorf("adjusting team purse: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("team %s: %w", teamID, store.ErrNotFound)
	}
	return nil
}

func (t *ledgerTx) ResetTeamPurse(ctx context.Context, teamID uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE teams SET purse_remaining = total_purse, player_count = 0, updated_at = $1 WHERE id = $2`,
		t.clk.Now().UTC(), teamID,
	)
	if err != nil {
		return fmt.Errorf("resetting team purse: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("team %s: %w", teamID, store.ErrNotFound)
	}
	return nil
}

func (t *ledgerTx) UpdateTeam(ctx context.Context, tm *store.Team) error {
	tm.UpdatedAt = t.clk.Now().UTC()
	res, err := t.tx.ExecContext(ctx,
		`UPDATE teams SET name = $1, short_code = $2, total_purse = $3, purse_remaining = $4, updated_at = $5
		 WHERE id = $6`,
		tm.Name, tm.ShortCode, tm.TotalPurse, tm.PurseRemaining, tm.UpdatedAt, tm.ID,
	)
	if err != nil {
		return fmt.Errorf("updating team: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("team %s: %w", tm.ID, store.ErrNotFound)
	}
	return nil
}

func (t *ledgerTx) AppendChanges(ctx context.Context, changes ...feed.Change) error {
	if len(changes) == 0 {
		return nil
	}
	stmt, err := t.tx.PreparexContext(ctx,
		`INSERT INTO changes (auction_event_id, entity, entity_id, type, data, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("preparing change insert: %w", err)
	}
	defer stmt.Close()

	now := t.clk.Now().UTC()
	for _, ch := range changes {
		if _, err := stmt.ExecContext(ctx,
			ch.AuctionEventID, ch.Entity, ch.EntityID, ch.Type, string(ch.Data), now); err != nil {
			return fmt.Errorf("inserting change (%s %s): %w", ch.Type, ch.EntityID, err)
		}
	}
	return nil
}
