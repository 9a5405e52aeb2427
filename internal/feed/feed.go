package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entity identifies which kind of record a change describes.
type Entity string

const (
	EntityAuctionEvent Entity = "auction_event"
	EntityTeam         Entity = "team"
	EntityPlayer       Entity = "player"
	EntityListing      Entity = "listing"
)

// Type identifies a change kind.
type Type string

const (
	AuctionEventCreated Type = "auction_event.created"
	AuctionEventDeleted Type = "auction_event.deleted"

	TeamCreated  Type = "team.created"
	TeamUpdated  Type = "team.updated"
	TeamDebited  Type = "team.debited"
	TeamCredited Type = "team.credited"
	TeamReset    Type = "team.reset"

	PlayerCreated  Type = "player.created"
	PlayerSold     Type = "player.sold"
	PlayerReturned Type = "player.returned"

	ListingOpened    Type = "listing.opened"
	ListingBidRaised Type = "listing.bid_raised"
	ListingCancelled Type = "listing.cancelled"
	ListingSold      Type = "listing.sold"
	ListingUnsold    Type = "listing.unsold"
)

// Change records one committed mutation: the entity that changed and a JSON
// snapshot of its new state. Rows are appended inside the mutating database
// transaction and published strictly after commit, in ID order.
type Change struct {
	ID             int64           `json:"id" db:"id"`
	AuctionEventID uuid.UUID       `json:"auction_event_id" db:"auction_event_id"`
	Entity         Entity          `json:"entity" db:"entity"`
	EntityID       uuid.UUID       `json:"entity_id" db:"entity_id"`
	Type           Type            `json:"type" db:"type"`
	Data           json.RawMessage `json:"data" db:"data"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	PublishedAt    *time.Time      `json:"published_at,omitempty" db:"published_at"`
}

// New builds a Change carrying the entity's post-mutation state.
func New(auctionEventID uuid.UUID, entity Entity, entityID uuid.UUID, typ Type, state any) (Change, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return Change{}, fmt.Errorf("marshal %s snapshot: %w", typ, err)
	}
	return Change{
		AuctionEventID: auctionEventID,
		Entity:         entity,
		EntityID:       entityID,
		Type:           typ,
		Data:           data,
	}, nil
}

// Outbox is the persisted change log drained by the Relay.
type Outbox interface {
	// NextUnpublished returns up to limit unpublished changes in ID order.
	NextUnpublished(ctx context.Context, limit int) ([]Change, error)
	// MarkPublished stamps the given changes as delivered.
	MarkPublished(ctx context.Context, ids []int64) error
}

// Publisher delivers committed changes to the external notification bus.
type Publisher interface {
	Publish(ctx context.Context, ch Change) error
	Close() error
}
