package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/feed"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

// OpenListing opens the bidding lane for an unsold player at the player's
// base price. One listing may be active per auction event at a time.
func (s *Service) OpenListing(ctx context.Context, scope store.Scope, playerID uuid.UUID) (*store.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "Ledger.OpenListing",
		trace.WithAttributes(
			attribute.String("auction_event.id", scope.AuctionEventID.String()),
			attribute.String("player.id", playerID.String()),
		),
	)
	defer span.End()

	var listing *store.Listing
	err := s.ledger.Atomic(ctx, func(tx store.Tx) error {
		if err := verifyScope(ctx, tx, scope); err != nil {
			return err
		}

		p, err := tx.PlayerForUpdate(ctx, playerID)
		if err != nil {
			return err
		}
		if err := scope.Check(p.AuctionEventID); err != nil {
			return fmt.Errorf("player %s: %w", playerID, err)
		}
		if p.Sold {
			return fmt.Errorf("player %s: %w", playerID, store.ErrPlayerAlreadySold)
		}

		// The partial unique indexes close the race between this check and
		// the insert.
		if existing, err := tx.ActiveListingByEvent(ctx, scope.AuctionEventID); err == nil {
			return fmt.Errorf("listing %s is open: %w", existing.ID, store.ErrListingAlreadyActive)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		listing = &store.Listing{
			AuctionEventID: scope.AuctionEventID,
			PlayerID:       p.ID,
			CurrentBid:     p.BasePrice,
		}
		if err := tx.InsertListing(ctx, listing); err != nil {
			return err
		}

		cs := newChangeSet(scope.AuctionEventID)
		cs.add(feed.EntityListing, listing.ID, feed.ListingOpened, listing)
		return cs.append(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "listing opened",
		slog.String("listing_id", listing.ID.String()),
		slog.String("player_id", playerID.String()),
		slog.Int64("opening_bid", listing.CurrentBid),
	)
	return listing, nil
}

// RaiseBid raises the listing's bid to newAmount. The stored bid is
// re-validated at write time under the row lock, so racing raises converge
// on the maximum amount instead of the last write.
func (s *Service) RaiseBid(ctx context.Context, scope store.Scope, listingID uuid.UUID, newAmount int64) (*store.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "Ledger.RaiseBid",
		trace.WithAttributes(
			attribute.String("auction_event.id", scope.AuctionEventID.String()),
			attribute.String("listing.id", listingID.String()),
			attribute.Int64("bid.amount", newAmount),
		),
	)
	defer span.End()

	var listing *store.Listing
	err := s.ledger.Atomic(ctx, func(tx store.Tx) error {
		if err := verifyScope(ctx, tx, scope); err != nil {
			return err
		}

		l, err := tx.ListingForUpdate(ctx, listingID)
		if err != nil {
			return err
		}
		if err := scope.Check(l.AuctionEventID); err != nil {
			return fmt.Errorf("listing %s: %w", listingID, err)
		}
		if !l.Active {
			return fmt.Errorf("listing %s: %w", listingID, store.ErrListingNotActive)
		}
		if newAmount <= l.CurrentBid {
			return fmt.Errorf("bid %d does not raise %d: %w", newAmount, l.CurrentBid, store.ErrBidNotIncreasing)
		}

		if err := tx.SetListingBid(ctx, l.ID, newAmount); err != nil {
			return err
		}
		l.CurrentBid = newAmount
		l.UpdatedAt = s.clk.Now().UTC()
		listing = l

		cs := newChangeSet(scope.AuctionEventID)
		cs.add(feed.EntityListing, l.ID, feed.ListingBidRaised, l)
		return cs.append(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "bid raised",
		slog.String("listing_id", listingID.String()),
		slog.Int64("amount", newAmount),
	)
	return listing, nil
}

// CancelListing closes the listing with no effect on player or team. Meant
// for admin error recovery.
func (s *Service) CancelListing(ctx context.Context, scope store.Scope, listingID uuid.UUID) (*store.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "Ledger.CancelListing",
		trace.WithAttributes(
			attribute.String("auction_event.id", scope.AuctionEventID.String()),
			attribute.String("listing.id", listingID.String()),
		),
	)
	defer span.End()

	var listing *store.Listing
	err := s.ledger.Atomic(ctx, func(tx store.Tx) error {
		if err := verifyScope(ctx, tx, scope); err != nil {
			return err
		}

		l, err := tx.ListingForUpdate(ctx, listingID)
		if err != nil {
			return err
		}
		if err := scope.Check(l.AuctionEventID); err != nil {
			return fmt.Errorf("listing %s: %w", listingID, err)
		}
		if !l.Active {
			return fmt.Errorf("listing %s: %w", listingID, store.ErrListingNotActive)
		}

		if err := tx.CloseListing(ctx, l.ID, nil, l.CurrentBid); err != nil {
			return err
		}
		now := s.clk.Now().UTC()
		l.Active = false
		l.ClosedAt = &now
		l.UpdatedAt = now
		listing = l

		cs := newChangeSet(scope.AuctionEventID)
		cs.add(feed.EntityListing, l.ID, feed.ListingCancelled, l)
		return cs.append(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "listing cancelled",
		slog.String("listing_id", listingID.String()),
	)
	return listing, nil
}
