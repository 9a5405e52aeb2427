package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/catalog"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

func TestCreateTeam_DuplicateNamePerEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedTeam(t, "Mumbai Indians", "MI", 1_000_000)

	_, err := env.catalog.CreateTeam(ctx, env.scope, catalog.CreateTeamParams{
		Name: "Mumbai Indians", ShortCode: "MI2", TotalPurse: 1_000_000,
	})
	if !errors.Is(err, store.ErrDuplicateName) {
		t.Fatalf("error = %v, want ErrDuplicateName", err)
	}

	// The same name in a different event is fine.
	other, err := env.catalog.CreateAuctionEvent(ctx, "Other League")
	if err != nil {
		t.Fatalf("creating second event: %v", err)
	}
	otherScope := store.Scope{AuctionEventID: other.ID, Role: "admin"}
	if _, err := env.catalog.CreateTeam(ctx, otherScope, catalog.CreateTeamParams{
		Name: "Mumbai Indians", ShortCode: "MI", TotalPurse: 1_000_000,
	}); err != nil {
		t.Fatalf("same name in other event: %v", err)
	}
}

func TestCreatePlayer_DuplicateNamePerEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedPlayer(t, "V Kohli", 200_000)

	_, err := env.catalog.CreatePlayer(ctx, env.scope, catalog.CreatePlayerParams{
		Name: "V Kohli", Role: store.RoleBatter, Country: "India", BasePrice: 200_000,
	})
	if !errors.Is(err, store.ErrDuplicateName) {
		t.Fatalf("error = %v, want ErrDuplicateName", err)
	}
}

func TestListPlayers_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tm := env.seedTeam(t, "Mumbai Indians", "MI", 1_000_000)
	sold := env.seedPlayer(t, "Sold Player", 100_000)
	env.seedPlayer(t, "Unsold Player", 100_000)

	l := env.openListing(t, sold.ID)
	if _, err := env.ledger.SettleSold(ctx, env.scope, l.ID, tm.ID, 100_000); err != nil {
		t.Fatalf("SettleSold: %v", err)
	}

	tests := []struct {
		filter store.PlayerFilter
		want   int
	}{
		{store.PlayersAll, 2},
		{store.PlayersSold, 1},
		{store.PlayersUnsold, 1},
	}
	for _, tt := range tests {
		players, err := env.catalog.ListPlayers(ctx, env.scope, tt.filter)
		if err != nil {
			t.Fatalf("ListPlayers(%s): %v", tt.filter, err)
		}
		if len(players) != tt.want {
			t.Errorf("ListPlayers(%s) = %d players, want %d", tt.filter, len(players), tt.want)
		}
	}
}

func TestGetTeam_CrossEventScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tm := env.seedTeam(t, "Mumbai Indians", "MI", 1_000_000)

	other, err := env.catalog.CreateAuctionEvent(ctx, "Other League")
	if err != nil {
		t.Fatalf("creating second event: %v", err)
	}
	otherScope := store.Scope{AuctionEventID: other.ID, Role: "admin"}

	_, err = env.catalog.GetTeam(ctx, otherScope, tm.ID)
	if !errors.Is(err, store.ErrCrossEventReference) {
		t.Fatalf("error = %v, want ErrCrossEventReference", err)
	}
}

func TestActiveListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.catalog.ActiveListing(ctx, env.scope); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("no lane open: error = %v, want ErrNotFound", err)
	}

	p := env.seedPlayer(t, "H Pandya", 300_000)
	l := env.openListing(t, p.ID)

	got, err := env.catalog.ActiveListing(ctx, env.scope)
	if err != nil {
		t.Fatalf("ActiveListing: %v", err)
	}
	if got.ID != l.ID {
		t.Errorf("active listing = %s, want %s", got.ID, l.ID)
	}
	if got.CurrentBid != 300_000 {
		t.Errorf("opening bid = %d, want base price 300000", got.CurrentBid)
	}
}

func TestDeleteAuctionEvent_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tm := env.seedTeam(t, "Mumbai Indians", "MI", 1_000_000)
	p := env.seedPlayer(t, "R Sharma", 200_000)
	env.openListing(t, p.ID)

	if err := env.catalog.DeleteAuctionEvent(ctx, env.scope.AuctionEventID); err != nil {
		t.Fatalf("DeleteAuctionEvent: %v", err)
	}

	if _, err := env.repos.Teams.GetByID(ctx, tm.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("team survived cascade: %v", err)
	}
	if _, err := env.repos.Players.GetByID(ctx, p.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("player survived cascade: %v", err)
	}
	if _, err := env.repos.AuctionEvents.GetByID(ctx, env.scope.AuctionEventID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("auction event survived delete: %v", err)
	}
}

func TestDeleteAuctionEvent_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.catalog.DeleteAuctionEvent(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}
