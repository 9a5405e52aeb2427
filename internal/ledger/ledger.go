// Package ledger is the authoritative mutation path for auction state. Every
// operation runs inside one database transaction, re-verifies the caller's
// event scope on the rows it locked, and appends one change row per mutated
// entity so the feed sees exactly what committed.
package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/clock"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/feed"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

// Service exposes the listing and settlement operations.
type Service struct {
	ledger store.Ledger
	clk    clock.Clock
	logger *slog.Logger
	tracer trace.Tracer
}

// NewService returns a new ledger Service.
func NewService(l store.Ledger, clk clock.Clock, logger *slog.Logger, tp trace.TracerProvider) *Service {
	return &Service{
		ledger: l,
		clk:    clk,
		logger: logger,
		tracer: tp.Tracer("github.com/UdayKumar-git-hub/ipl-auction/internal/ledger"),
	}
}

// Sale is the committed outcome of a sold settlement.
type Sale struct {
	Listing *store.Listing `json:"listing"`
	Player  *store.Player  `json:"player"`
	Team    *store.Team    `json:"team"`
}

// UpdateTeamParams carries an admin team edit. Nil fields are left unchanged.
type UpdateTeamParams struct {
	Name       *string
	ShortCode  *string
	TotalPurse *int64
}

// verifyScope re-checks inside the transaction that the caller's auction
// event still exists, closing the race where an event is torn down while a
// request is in flight.
func verifyScope(ctx context.Context, tx store.Tx, scope store.Scope) error {
	_, err := tx.AuctionEventByID(ctx, scope.AuctionEventID)
	return err
}

// changeSet accumulates the change rows of one transaction so they are
// appended in a single batch.
type changeSet struct {
	auctionEventID uuid.UUID
	changes        []feed.Change
	err            error
}

func newChangeSet(auctionEventID uuid.UUID) *changeSet {
	return &changeSet{auctionEventID: auctionEventID}
}

func (cs *changeSet) add(entity feed.Entity, entityID uuid.UUID, typ feed.Type, state any) {
	if cs.err != nil {
		return
	}
	ch, err := feed.New(cs.auctionEventID, entity, entityID, typ, state)
	if err != nil {
		cs.err = err
		return
	}
	cs.changes = append(cs.changes, ch)
}

func (cs *changeSet) append(ctx context.Context, tx store.Tx) error {
	if cs.err != nil {
		return cs.err
	}
	return tx.AppendChanges(ctx, cs.changes...)
}
