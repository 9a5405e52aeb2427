package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/feed"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

// SettleSold commits the sale of the listed player to winningTeamID at
// finalPrice. The listing, team, and player rows are locked in that order
// before any check runs; on any failure nothing is written.
func (s *Service) SettleSold(ctx context.Context, scope store.Scope, listingID, winningTeamID uuid.UUID, finalPrice int64) (*Sale, error) {
	ctx, span := s.tracer.Start(ctx, "Ledger.SettleSold",
		trace.WithAttributes(
			attribute.String("auction_event.id", scope.AuctionEventID.String()),
			attribute.String("listing.id", listingID.String()),
			attribute.String("team.id", winningTeamID.String()),
			attribute.Int64("final_price", finalPrice),
		),
	)
	defer span.End()

	var sale *Sale
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

		tm, err := tx.TeamForUpdate(ctx, winningTeamID)
		if err != nil {
			return err
		}
		if err := scope.Check(tm.AuctionEventID); err != nil {
			return fmt.Errorf("team %s: %w", winningTeamID, err)
		}

		p, err := tx.PlayerForUpdate(ctx, l.PlayerID)
		if err != nil {
			return err
		}
		if err := scope.Check(p.AuctionEventID); err != nil {
			return fmt.Errorf("player %s: %w", p.ID, err)
		}

		if p.Sold {
			return fmt.Errorf("player %s: %w", p.ID, store.ErrPlayerAlreadySold)
		}
		if tm.PurseRemaining < finalPrice {
			return fmt.Errorf("purse %d below price %d: %w", tm.PurseRemaining, finalPrice, store.ErrInsufficientPurse)
		}
		if !l.Active {
			return fmt.Errorf("listing %s: %w", listingID, store.ErrListingNotActive)
		}
		if finalPrice < l.CurrentBid {
			return fmt.Errorf("price %d below bid %d: %w", finalPrice, l.CurrentBid, store.ErrPriceBelowBid)
		}

		if err := tx.MarkPlayerSold(ctx, p.ID, tm.ID, finalPrice); err != nil {
			return err
		}
		if err := tx.AdjustTeamPurse(ctx, tm.ID, -finalPrice, 1); err != nil {
			return err
		}
		if err := tx.CloseListing(ctx, l.ID, &tm.ID, finalPrice); err != nil {
			return err
		}

		now := s.clk.Now().UTC()
		p.Sold = true
		p.TeamID = &tm.ID
		p.CurrentPrice = &finalPrice
		p.UpdatedAt = now
		tm.PurseRemaining -= finalPrice
		tm.PlayerCount++
		tm.UpdatedAt = now
		l.Active = false
		l.WinningTeamID = &tm.ID
		l.CurrentBid = finalPrice
		l.ClosedAt = &now
		l.UpdatedAt = now
		sale = &Sale{Listing: l, Player: p, Team: tm}

		cs := newChangeSet(scope.AuctionEventID)
		cs.add(feed.EntityListing, l.ID, feed.ListingSold, l)
		cs.add(feed.EntityPlayer, p.ID, feed.PlayerSold, p)
		cs.add(feed.EntityTeam, tm.ID, feed.TeamDebited, tm)
		return cs.append(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "listing settled sold",
		slog.String("listing_id", listingID.String()),
		slog.String("player_id", sale.Player.ID.String()),
		slog.String("team_id", winningTeamID.String()),
		slog.Int64("final_price", finalPrice),
	)
	return sale, nil
}

// SettleUnsold closes the listing with the player passing unsold. Retrying
// against an already-closed listing succeeds as a no-op to tolerate
// at-least-once callers.
func (s *Service) SettleUnsold(ctx context.Context, scope store.Scope, listingID uuid.UUID) (*store.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "Ledger.SettleUnsold",
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
			listing = l
			return nil
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
		cs.add(feed.EntityListing, l.ID, feed.ListingUnsold, l)
		return cs.append(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "listing settled unsold",
		slog.String("listing_id", listingID.String()),
	)
	return listing, nil
}
