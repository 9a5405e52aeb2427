package store

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/feed"
)

// Role classifies a player in the auction pool.
type Role string

const (
	RoleBatter       Role = "BATTER"
	RoleBowler       Role = "BOWLER"
	RoleAllRounder   Role = "ALL_ROUNDER"
	RoleWicketkeeper Role = "WICKETKEEPER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBatter, RoleBowler, RoleAllRounder, RoleWicketkeeper:
		return true
	}
	return false
}

// Roles returns every valid role.
func Roles() []Role {
	return []Role{RoleBatter, RoleBowler, RoleAllRounder, RoleWicketkeeper}
}

// Scope is the caller's resolved auction-event scope. The identity layer
// resolves it once per request; the ledger re-verifies every referenced
// entity against it inside the transaction.
type Scope struct {
	AuctionEventID uuid.UUID
	Role           string
}

// Check returns ErrCrossEventReference unless the entity's event matches the
// caller's scope.
func (s Scope) Check(auctionEventID uuid.UUID) error {
	if auctionEventID != s.AuctionEventID {
		return ErrCrossEventReference
	}
	return nil
}

// AuctionEvent is the isolation boundary. Every other entity belongs to
// exactly one event and is never visible or mutable across events.
type AuctionEvent struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Team is a bidding franchise with a spending purse.
type Team struct {
	ID             uuid.UUID `json:"id" db:"id"`
	AuctionEventID uuid.UUID `json:"auction_event_id" db:"auction_event_id"`
	Name           string    `json:"name" db:"name"`
	ShortCode      string    `json:"short_code" db:"short_code"`
	TotalPurse     int64     `json:"total_purse" db:"total_purse"`
	PurseRemaining int64     `json:"purse_remaining" db:"purse_remaining"`
	PlayerCount    int       `json:"player_count" db:"player_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Spent returns how much of the total purse is committed to sold players.
func (t *Team) Spent() int64 { return t.TotalPurse - t.PurseRemaining }

// Player is a pool member. Sale state (team, price, sold flag) is written
// only by the settlement engine.
type Player struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	AuctionEventID uuid.UUID  `json:"auction_event_id" db:"auction_event_id"`
	Name           string     `json:"name" db:"name"`
	Role           Role       `json:"role" db:"role"`
	Country        string     `json:"country" db:"country"`
	BasePrice      int64      `json:"base_price" db:"base_price"`
	CurrentPrice   *int64     `json:"current_price" db:"current_price"`
	TeamID         *uuid.UUID `json:"team_id" db:"team_id"`
	Sold           bool       `json:"sold" db:"sold"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Listing is the live bidding state for one player. At most one listing is
// active per player, and at most one per event under the single-lane policy.
type Listing struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	AuctionEventID uuid.UUID  `json:"auction_event_id" db:"auction_event_id"`
	PlayerID       uuid.UUID  `json:"player_id" db:"player_id"`
	CurrentBid     int64      `json:"current_bid" db:"current_bid"`
	Active         bool       `json:"active" db:"active"`
	WinningTeamID  *uuid.UUID `json:"winning_team_id" db:"winning_team_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	ClosedAt       *time.Time `json:"closed_at" db:"closed_at"`
}

// PlayerFilter narrows player list queries.
type PlayerFilter string

const (
	PlayersAll    PlayerFilter = "all"
	PlayersSold   PlayerFilter = "sold"
	PlayersUnsold PlayerFilter = "unsold"
)

// AuctionEventRepository defines auction-event read operations.
type AuctionEventRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AuctionEvent, error)
	List(ctx context.Context) ([]AuctionEvent, error)
}

// TeamRepository defines team read operations. Mutations go through Ledger.
type TeamRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	ListByEvent(ctx context.Context, auctionEventID uuid.UUID) ([]Team, error)
}

// PlayerRepository defines player read operations. Mutations go through
// Ledger.
type PlayerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Player, error)
	ListByEvent(ctx context.Context, auctionEventID uuid.UUID, filter PlayerFilter) ([]Player, error)
}

// ListingRepository defines listing read operations.
type ListingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	ActiveByEvent(ctx context.Context, auctionEventID uuid.UUID) (*Listing, error)
	ListByEvent(ctx context.Context, auctionEventID uuid.UUID) ([]Listing, error)
}

// Tx is the mutation surface available inside a ledger transaction. ForUpdate
// reads take row locks held until commit; every check that gates a write must
// read through one of them.
type Tx interface {
	AuctionEventByID(ctx context.Context, id uuid.UUID) (*AuctionEvent, error)
	// PlayerByID reads without locking, for resolving the owning team before
	// locks are taken in team-then-player order.
	PlayerByID(ctx context.Context, id uuid.UUID) (*Player, error)

	TeamForUpdate(ctx context.Context, id uuid.UUID) (*Team, error)
	PlayerForUpdate(ctx context.Context, id uuid.UUID) (*Player, error)
	ListingForUpdate(ctx context.Context, id uuid.UUID) (*Listing, error)
	// PlayersByTeamForUpdate locks and returns every player the team owns,
	// ordered by ID.
	PlayersByTeamForUpdate(ctx context.Context, teamID uuid.UUID) ([]Player, error)
	// ActiveListingByEvent returns the event's live listing, or ErrNotFound.
	ActiveListingByEvent(ctx context.Context, auctionEventID uuid.UUID) (*Listing, error)

	InsertAuctionEvent(ctx context.Context, e *AuctionEvent) error
	DeleteAuctionEvent(ctx context.Context, id uuid.UUID) error
	InsertTeam(ctx context.Context, t *Team) error
	InsertPlayer(ctx context.Context, p *Player) error
	InsertListing(ctx context.Context, l *Listing) error

	// SetListingBid raises the bid under the caller's row lock. The update is
	// conditional on the listing still being active and the stored bid still
	// being below amount.
	SetListingBid(ctx context.Context, id uuid.UUID, amount int64) error
	CloseListing(ctx context.Context, id uuid.UUID, winningTeamID *uuid.UUID, finalBid int64) error
	MarkPlayerSold(ctx context.Context, playerID, teamID uuid.UUID, price int64) error
	ClearPlayerSale(ctx context.Context, playerID uuid.UUID) error
	// AdjustTeamPurse applies a purse delta and a player-count delta.
	AdjustTeamPurse(ctx context.Context, teamID uuid.UUID, purseDelta int64, countDelta int) error
	ResetTeamPurse(ctx context.Context, teamID uuid.UUID) error
	UpdateTeam(ctx context.Context, t *Team) error

	// AppendChanges records outbox rows in this transaction, so the change
	// feed sees a mutation only if it committed.
	AppendChanges(ctx context.Context, changes ...feed.Change) error
}

// Ledger runs fn inside one database transaction. Effects are all-or-nothing;
// lock-wait timeouts, deadlocks, and serialization failures roll back and
// surface ErrContention.
type Ledger interface {
	Atomic(ctx context.Context, fn func(tx Tx) error) error
}

// Repositories groups the repositories and the transactional ledger returned
// by the storage driver.
type Repositories struct {
	AuctionEvents AuctionEventRepository
	Teams         TeamRepository
	Players       PlayerRepository
	Listings      ListingRepository
	Ledger        Ledger
	Changes       feed.Outbox
	// Closer is called to release underlying resources (e.g. DB connection).
	Closer io.Closer
	// Ping checks the underlying connection health.
	Ping func(ctx context.Context) error
}
