package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

// GetAuctionEvent returns one auction event by ID.
func (s *Service) GetAuctionEvent(ctx context.Context, id uuid.UUID) (*store.AuctionEvent, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.GetAuctionEvent")
	defer span.End()

	return s.repos.AuctionEvents.GetByID(ctx, id)
}

// ListAuctionEvents returns all auction events.
func (s *Service) ListAuctionEvents(ctx context.Context) ([]store.AuctionEvent, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.ListAuctionEvents")
	defer span.End()

	return s.repos.AuctionEvents.List(ctx)
}

// GetTeam returns one team, verifying it belongs to the caller's event.
func (s *Service) GetTeam(ctx context.Context, scope store.Scope, id uuid.UUID) (*store.Team, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.GetTeam")
	defer span.End()

	t, err := s.repos.Teams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scope.Check(t.AuctionEventID); err != nil {
		return nil, fmt.Errorf("team %s: %w", id, err)
	}
	return t, nil
}

// ListTeams returns the caller's event's teams.
func (s *Service) ListTeams(ctx context.Context, scope store.Scope) ([]store.Team, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.ListTeams")
	defer span.End()

	return s.repos.Teams.ListByEvent(ctx, scope.AuctionEventID)
}

// GetPlayer returns one player, verifying it belongs to the caller's event.
func (s *Service) GetPlayer(ctx context.Context, scope store.Scope, id uuid.UUID) (*store.Player, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.GetPlayer")
	defer span.End()

	p, err := s.repos.Players.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scope.Check(p.AuctionEventID); err != nil {
		return nil, fmt.Errorf("player %s: %w", id, err)
	}
	return p, nil
}

// ListPlayers returns the caller's event's players, optionally filtered by
// sale state.
func (s *Service) ListPlayers(ctx context.Context, scope store.Scope, filter store.PlayerFilter) ([]store.Player, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.ListPlayers")
	defer span.End()

	return s.repos.Players.ListByEvent(ctx, scope.AuctionEventID, filter)
}

// GetListing returns one listing, verifying it belongs to the caller's event.
func (s *Service) GetListing(ctx context.Context, scope store.Scope, id uuid.UUID) (*store.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.GetListing")
	defer span.End()

	l, err := s.repos.Listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scope.Check(l.AuctionEventID); err != nil {
		return nil, fmt.Errorf("listing %s: %w", id, err)
	}
	return l, nil
}

// ActiveListing returns the caller's event's live listing, or ErrNotFound
// when no lane is open.
func (s *Service) ActiveListing(ctx context.Context, scope store.Scope) (*store.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.ActiveListing")
	defer span.End()

	return s.repos.Listings.ActiveByEvent(ctx, scope.AuctionEventID)
}

// ListListings returns the caller's event's listings, newest first.
func (s *Service) ListListings(ctx context.Context, scope store.Scope) ([]store.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.ListListings")
	defer span.End()

	return s.repos.Listings.ListByEvent(ctx, scope.AuctionEventID)
}
