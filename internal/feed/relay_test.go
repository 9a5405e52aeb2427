package feed_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/config"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/feed"
)

// memOutbox is an in-memory change log shared with a running relay.
type memOutbox struct {
	mu      sync.Mutex
	changes []feed.Change
}

func (o *memOutbox) NextUnpublished(_ context.Context, limit int) ([]feed.Change, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []feed.Change
	for _, ch := range o.changes {
		if ch.PublishedAt == nil {
			out = append(out, ch)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (o *memOutbox) MarkPublished(_ context.Context, ids []int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for _, id := range ids {
		for i := range o.changes {
			if o.changes[i].ID == id {
				o.changes[i].PublishedAt = &now
			}
		}
	}
	return nil
}

func (o *memOutbox) unpublishedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, ch := range o.changes {
		if ch.PublishedAt == nil {
			n++
		}
	}
	return n
}

// memPublisher records delivered change IDs and can fail selected IDs once.
type memPublisher struct {
	mu        sync.Mutex
	delivered []int64
	failOnce  map[int64]bool
}

func (p *memPublisher) Publish(_ context.Context, ch feed.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOnce[ch.ID] {
		delete(p.failOnce, ch.ID)
		return errors.New("publish failed")
	}
	p.delivered = append(p.delivered, ch.ID)
	return nil
}

func (p *memPublisher) Close() error { return nil }

func (p *memPublisher) deliveredIDs() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int64, len(p.delivered))
	copy(out, p.delivered)
	return out
}

func seedOutbox(n int) *memOutbox {
	o := &memOutbox{}
	eventID := uuid.New()
	for i := 1; i <= n; i++ {
		o.changes = append(o.changes, feed.Change{
			ID:             int64(i),
			AuctionEventID: eventID,
			Entity:         feed.EntityListing,
			EntityID:       uuid.New(),
			Type:           feed.ListingBidRaised,
		})
	}
	return o
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestRelay_DrainsInOrder(t *testing.T) {
	outbox := seedOutbox(5)
	pub := &memPublisher{}
	// Batch size below the backlog forces the drain loop to page.
	relay := feed.NewRelay(outbox, pub, slog.Default(), time.Hour, 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return outbox.unpublishedCount() == 0 })
	cancel()
	<-done

	got := pub.deliveredIDs()
	want := []int64{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("delivered = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivered = %v, want %v", got, want)
		}
	}
}

func TestRelay_RetriesFailedChange(t *testing.T) {
	outbox := seedOutbox(4)
	pub := &memPublisher{failOnce: map[int64]bool{3: true}}
	relay := feed.NewRelay(outbox, pub, slog.Default(), 10*time.Millisecond, 100)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return outbox.unpublishedCount() == 0 })
	cancel()
	<-done

	// The failed change is retried before anything after it, so delivery
	// order survives the failure.
	got := pub.deliveredIDs()
	want := []int64{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("delivered = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivered = %v, want %v", got, want)
		}
	}
}

func TestRelay_MarksBeforeFailurePoint(t *testing.T) {
	outbox := seedOutbox(4)
	pub := &memPublisher{failOnce: map[int64]bool{3: true}}
	// One-hour interval: only the initial drain runs before cancel.
	relay := feed.NewRelay(outbox, pub, slog.Default(), time.Hour, 100)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	// Changes 1 and 2 publish and get marked; 3 fails and stops the drain.
	waitFor(t, func() bool { return outbox.unpublishedCount() == 2 })
	cancel()
	<-done

	if got := pub.deliveredIDs(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("delivered = %v, want [1 2]", got)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := feed.Open(config.FeedConfig{Driver: "carrier-pigeon"}, slog.Default())
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpen_LogDriver(t *testing.T) {
	pub, err := feed.Open(config.FeedConfig{Driver: "log"}, slog.Default())
	if err != nil {
		t.Fatalf("Open(log) error = %v", err)
	}
	defer pub.Close()

	ch, err := feed.New(uuid.New(), feed.EntityTeam, uuid.New(), feed.TeamCreated, map[string]string{"name": "MI"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := pub.Publish(context.Background(), ch); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
}

func TestNew_SnapshotsState(t *testing.T) {
	eventID := uuid.New()
	entityID := uuid.New()
	ch, err := feed.New(eventID, feed.EntityPlayer, entityID, feed.PlayerSold, map[string]int64{"price": 500_000})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ch.AuctionEventID != eventID || ch.EntityID != entityID || ch.Type != feed.PlayerSold {
		t.Errorf("change = %+v", ch)
	}
	if want := `{"price":500000}`; string(ch.Data) != want {
		t.Errorf("data = %s, want %s", ch.Data, want)
	}
}
