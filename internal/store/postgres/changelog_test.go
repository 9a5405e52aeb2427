package postgres_test

import (
	"context"
	"testing"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/feed"
)

// Every committed mutation appends a change row, in commit order, and only
// committed rows ever appear in the outbox.
func TestChangeLog_OutboxOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tm := env.seedTeam(t, "Mumbai Indians", "MI", 1_000_000)
	p := env.seedPlayer(t, "R Sharma", 200_000)
	l := env.openListing(t, p.ID)
	if _, err := env.ledger.RaiseBid(ctx, env.scope, l.ID, 250_000); err != nil {
		t.Fatalf("RaiseBid: %v", err)
	}
	if _, err := env.ledger.SettleSold(ctx, env.scope, l.ID, tm.ID, 250_000); err != nil {
		t.Fatalf("SettleSold: %v", err)
	}

	changes, err := env.repos.Changes.NextUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("NextUnpublished: %v", err)
	}

	wantTypes := []feed.Type{
		feed.AuctionEventCreated,
		feed.TeamCreated,
		feed.PlayerCreated,
		feed.ListingOpened,
		feed.ListingBidRaised,
		feed.ListingSold,
		feed.PlayerSold,
		feed.TeamDebited,
	}
	if len(changes) != len(wantTypes) {
		t.Fatalf("changes = %d, want %d", len(changes), len(wantTypes))
	}
	for i, want := range wantTypes {
		if changes[i].Type != want {
			t.Errorf("changes[%d].Type = %s, want %s", i, changes[i].Type, want)
		}
		if i > 0 && changes[i].ID <= changes[i-1].ID {
			t.Errorf("changes[%d].ID = %d not after %d", i, changes[i].ID, changes[i-1].ID)
		}
	}
}

// A rolled-back transaction must leave no change rows behind.
func TestChangeLog_NoRowsOnRollback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tm := env.seedTeam(t, "Rajasthan Royals", "RR", 100_000)
	p := env.seedPlayer(t, "S Samson", 50_000)
	l := env.openListing(t, p.ID)

	before, err := env.repos.Changes.NextUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("NextUnpublished: %v", err)
	}

	if _, err := env.ledger.SettleSold(ctx, env.scope, l.ID, tm.ID, 900_000); err == nil {
		t.Fatal("expected insufficient purse failure")
	}

	after, err := env.repos.Changes.NextUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("NextUnpublished: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("changes after failed settle = %d, want %d", len(after), len(before))
	}
}

func TestChangeLog_MarkPublished(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedTeam(t, "Delhi Capitals", "DC", 1_000_000)

	changes, err := env.repos.Changes.NextUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("NextUnpublished: %v", err)
	}
	if len(changes) == 0 {
		t.Fatal("expected unpublished changes after seeding")
	}

	ids := make([]int64, 0, len(changes))
	for _, ch := range changes[:1] {
		ids = append(ids, ch.ID)
	}
	if err := env.repos.Changes.MarkPublished(ctx, ids); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}

	remaining, err := env.repos.Changes.NextUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("NextUnpublished: %v", err)
	}
	if len(remaining) != len(changes)-1 {
		t.Fatalf("remaining = %d, want %d", len(remaining), len(changes)-1)
	}
	if remaining[0].ID == changes[0].ID {
		t.Error("published change still returned as unpublished")
	}
}
