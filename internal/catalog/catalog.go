// Package catalog manages the entity records an auction runs over: auction
// events, teams, and the player pool. Mutations run through the ledger's
// transaction so each one lands in the change feed atomically; sale state is
// never touched here.
package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/feed"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

// Service exposes catalog reads and seeding operations.
type Service struct {
	repos  *store.Repositories
	logger *slog.Logger
	tracer trace.Tracer
}

// NewService returns a new catalog Service.
func NewService(repos *store.Repositories, logger *slog.Logger, tp trace.TracerProvider) *Service {
	return &Service{
		repos:  repos,
		logger: logger,
		tracer: tp.Tracer("github.com/UdayKumar-git-hub/ipl-auction/internal/catalog"),
	}
}

// CreateTeamParams seeds one team.
type CreateTeamParams struct {
	Name       string
	ShortCode  string
	TotalPurse int64
}

// CreatePlayerParams seeds one pool player.
type CreatePlayerParams struct {
	Name      string
	Role      store.Role
	Country   string
	BasePrice int64
}

// CreateAuctionEvent creates a new isolated auction event.
func (s *Service) CreateAuctionEvent(ctx context.Context, name string) (*store.AuctionEvent, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.CreateAuctionEvent",
		trace.WithAttributes(attribute.String("auction_event.name", name)),
	)
	defer span.End()

	e := &store.AuctionEvent{Name: name}
	err := s.repos.Ledger.Atomic(ctx, func(tx store.Tx) error {
		if err := tx.InsertAuctionEvent(ctx, e); err != nil {
			return err
		}
		ch, err := feed.New(e.ID, feed.EntityAuctionEvent, e.ID, feed.AuctionEventCreated, e)
		if err != nil {
			return err
		}
		return tx.AppendChanges(ctx, ch)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "auction event created",
		slog.String("auction_event_id", e.ID.String()),
		slog.String("name", name),
	)
	return e, nil
}

// DeleteAuctionEvent removes an auction event and everything it owns. The
// deletion change row survives the cascade because the change log does not
// reference the event table.
func (s *Service) DeleteAuctionEvent(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Catalog.DeleteAuctionEvent",
		trace.WithAttributes(attribute.String("auction_event.id", id.String())),
	)
	defer span.End()

	err := s.repos.Ledger.Atomic(ctx, func(tx store.Tx) error {
		e, err := tx.AuctionEventByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteAuctionEvent(ctx, id); err != nil {
			return err
		}
		ch, err := feed.New(id, feed.EntityAuctionEvent, id, feed.AuctionEventDeleted, e)
		if err != nil {
			return err
		}
		return tx.AppendChanges(ctx, ch)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "auction event deleted",
		slog.String("auction_event_id", id.String()),
	)
	return nil
}

// CreateTeam seeds a team into the caller's auction event with a full purse.
func (s *Service) CreateTeam(ctx context.Context, scope store.Scope, params CreateTeamParams) (*store.Team, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.CreateTeam",
		trace.WithAttributes(
			attribute.String("auction_event.id", scope.AuctionEventID.String()),
			attribute.String("team.name", params.Name),
		),
	)
	defer span.End()

	t := &store.Team{
		AuctionEventID: scope.AuctionEventID,
		Name:           params.Name,
		ShortCode:      params.ShortCode,
		TotalPurse:     params.TotalPurse,
		PurseRemaining: params.TotalPurse,
	}
	err := s.repos.Ledger.Atomic(ctx, func(tx store.Tx) error {
		if _, err := tx.AuctionEventByID(ctx, scope.AuctionEventID); err != nil {
			return err
		}
		if err := tx.InsertTeam(ctx, t); err != nil {
			return err
		}
		ch, err := feed.New(scope.AuctionEventID, feed.EntityTeam, t.ID, feed.TeamCreated, t)
		if err != nil {
			return err
		}
		return tx.AppendChanges(ctx, ch)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "team created",
		slog.String("team_id", t.ID.String()),
		slog.String("name", params.Name),
		slog.Int64("purse", params.TotalPurse),
	)
	return t, nil
}

// CreatePlayer seeds an unsold player into the caller's auction event.
func (s *Service) CreatePlayer(ctx context.Context, scope store.Scope, params CreatePlayerParams) (*store.Player, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.CreatePlayer",
		trace.WithAttributes(
			attribute.String("auction_event.id", scope.AuctionEventID.String()),
			attribute.String("player.name", params.Name),
		),
	)
	defer span.End()

	p := &store.Player{
		AuctionEventID: scope.AuctionEventID,
		Name:           params.Name,
		Role:           params.Role,
		Country:        params.Country,
		BasePrice:      params.BasePrice,
	}
	err := s.repos.Ledger.Atomic(ctx, func(tx store.Tx) error {
		if _, err := tx.AuctionEventByID(ctx, scope.AuctionEventID); err != nil {
			return err
		}
		if err := tx.InsertPlayer(ctx, p); err != nil {
			return err
		}
		ch, err := feed.New(scope.AuctionEventID, feed.EntityPlayer, p.ID, feed.PlayerCreated, p)
		if err != nil {
			return err
		}
		return tx.AppendChanges(ctx, ch)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "player created",
		slog.String("player_id", p.ID.String()),
		slog.String("name", params.Name),
		slog.Int64("base_price", params.BasePrice),
	)
	return p, nil
}
