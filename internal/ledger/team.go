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

// ResetTeam returns every player the team owns to the pool and restores the
// full purse. The team row and each owned player row are locked, so a sale
// settling into this team cannot interleave.
func (s *Service) ResetTeam(ctx context.Context, scope store.Scope, teamID uuid.UUID) (*store.Team, error) {
	ctx, span := s.tracer.Start(ctx, "Ledger.ResetTeam",
		trace.WithAttributes(
			attribute.String("auction_event.id", scope.AuctionEventID.String()),
			attribute.String("team.id", teamID.String()),
		),
	)
	defer span.End()

	var (
		team     *store.Team
		returned int
	)
	err := s.ledger.Atomic(ctx, func(tx store.Tx) error {
		if err := verifyScope(ctx, tx, scope); err != nil {
			return err
		}

		tm, err := tx.TeamForUpdate(ctx, teamID)
		if err != nil {
			return err
		}
		if err := scope.Check(tm.AuctionEventID); err != nil {
			return fmt.Errorf("team %s: %w", teamID, err)
		}

		players, err := tx.PlayersByTeamForUpdate(ctx, tm.ID)
		if err != nil {
			return err
		}

		now := s.clk.Now().UTC()
		cs := newChangeSet(scope.AuctionEventID)
		for i := range players {
			p := &players[i]
			if err := tx.ClearPlayerSale(ctx, p.ID); err != nil {
				return err
			}
			p.Sold = false
			p.TeamID = nil
			p.CurrentPrice = nil
			p.UpdatedAt = now
			cs.add(feed.EntityPlayer, p.ID, feed.PlayerReturned, p)
		}

		if err := tx.ResetTeamPurse(ctx, tm.ID); err != nil {
			return err
		}
		tm.PurseRemaining = tm.TotalPurse
		tm.PlayerCount = 0
		tm.UpdatedAt = now
		team = tm
		returned = len(players)

		cs.add(feed.EntityTeam, tm.ID, feed.TeamReset, tm)
		return cs.append(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "team reset",
		slog.String("team_id", teamID.String()),
		slog.Int("players_returned", returned),
	)
	return team, nil
}

// ReturnPlayer moves one sold player back to the pool and credits the sale
// price to the owning team's purse.
func (s *Service) ReturnPlayer(ctx context.Context, scope store.Scope, playerID uuid.UUID) (*store.Player, error) {
	ctx, span := s.tracer.Start(ctx, "Ledger.ReturnPlayer",
		trace.WithAttributes(
			attribute.String("auction_event.id", scope.AuctionEventID.String()),
			attribute.String("player.id", playerID.String()),
		),
	)
	defer span.End()

	var player *store.Player
	err := s.ledger.Atomic(ctx, func(tx store.Tx) error {
		if err := verifyScope(ctx, tx, scope); err != nil {
			return err
		}

		// Unlocked pre-read to learn the owning team, so locks are taken in
		// team-then-player order like settlement.
		pre, err := tx.PlayerByID(ctx, playerID)
		if err != nil {
			return err
		}
		if err := scope.Check(pre.AuctionEventID); err != nil {
			return fmt.Errorf("player %s: %w", playerID, err)
		}
		if !pre.Sold || pre.TeamID == nil {
			return fmt.Errorf("player %s: %w", playerID, store.ErrPlayerNotSold)
		}

		tm, err := tx.TeamForUpdate(ctx, *pre.TeamID)
		if err != nil {
			return err
		}
		p, err := tx.PlayerForUpdate(ctx, playerID)
		if err != nil {
			return err
		}
		if !p.Sold || p.TeamID == nil {
			return fmt.Errorf("player %s: %w", playerID, store.ErrPlayerNotSold)
		}
		if *p.TeamID != tm.ID {
			return fmt.Errorf("player %s changed owner during return: %w", playerID, store.ErrContention)
		}

		price := *p.CurrentPrice
		if err := tx.ClearPlayerSale(ctx, p.ID); err != nil {
			return err
		}
		if err := tx.AdjustTeamPurse(ctx, tm.ID, price, -1); err != nil {
			return err
		}

		now := s.clk.Now().UTC()
		p.Sold = false
		p.TeamID = nil
		p.CurrentPrice = nil
		p.UpdatedAt = now
		tm.PurseRemaining += price
		tm.PlayerCount--
		tm.UpdatedAt = now
		player = p

		cs := newChangeSet(scope.AuctionEventID)
		cs.add(feed.EntityPlayer, p.ID, feed.PlayerReturned, p)
		cs.add(feed.EntityTeam, tm.ID, feed.TeamCredited, tm)
		return cs.append(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "player returned to pool",
		slog.String("player_id", playerID.String()),
	)
	return player, nil
}

// UpdateTeam applies an admin edit to a team under the settlement lock, so
// a purse change cannot race an in-flight sale. Lowering the total purse
// below the amount already spent fails with ErrPurseBelowSpent.
func (s *Service) UpdateTeam(ctx context.Context, scope store.Scope, teamID uuid.UUID, params UpdateTeamParams) (*store.Team, error) {
	ctx, span := s.tracer.Start(ctx, "Ledger.UpdateTeam",
		trace.WithAttributes(
			attribute.String("auction_event.id", scope.AuctionEventID.String()),
			attribute.String("team.id", teamID.String()),
		),
	)
	defer span.End()

	var team *store.Team
	err := s.ledger.Atomic(ctx, func(tx store.Tx) error {
		if err := verifyScope(ctx, tx, scope); err != nil {
			return err
		}

		tm, err := tx.TeamForUpdate(ctx, teamID)
		if err != nil {
			return err
		}
		if err := scope.Check(tm.AuctionEventID); err != nil {
			return fmt.Errorf("team %s: %w", teamID, err)
		}

		if params.Name != nil {
			tm.Name = *params.Name
		}
		if params.ShortCode != nil {
			tm.ShortCode = *params.ShortCode
		}
		if params.TotalPurse != nil {
			spent := tm.Spent()
			if *params.TotalPurse < spent {
				return fmt.Errorf("total purse %d below spent %d: %w", *params.TotalPurse, spent, store.ErrPurseBelowSpent)
			}
			tm.TotalPurse = *params.TotalPurse
			tm.PurseRemaining = *params.TotalPurse - spent
		}

		if err := tx.UpdateTeam(ctx, tm); err != nil {
			return err
		}
		team = tm

		cs := newChangeSet(scope.AuctionEventID)
		cs.add(feed.EntityTeam, tm.ID, feed.TeamUpdated, tm)
		return cs.append(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "team updated",
		slog.String("team_id", teamID.String()),
	)
	return team, nil
}
