package store

import "errors"

var (
	// ErrNotFound is returned when a referenced ID does not exist at all.
	ErrNotFound = errors.New("not found")
	// ErrCrossEventReference is returned when an entity exists but belongs
	// to a different auction event than the caller's scope.
	ErrCrossEventReference = errors.New("entity belongs to a different auction event")
	// ErrDuplicateName is returned when a unique name is already taken.
	ErrDuplicateName = errors.New("name already in use")
	// ErrPlayerAlreadySold is returned when opening or settling against a
	// player whose sale has already committed.
	ErrPlayerAlreadySold = errors.New("player already sold")
	// ErrListingAlreadyActive is returned when the player, or the event
	// under the single-lane policy, already has a live listing.
	ErrListingAlreadyActive = errors.New("an active listing already exists")
	// ErrListingNotActive is returned when acting on a closed listing.
	ErrListingNotActive = errors.New("listing is not active")
	// ErrBidNotIncreasing is returned when a raise does not exceed the
	// stored bid.
	ErrBidNotIncreasing = errors.New("bid must exceed the current bid")
	// ErrPriceBelowBid is returned when settling below the current bid.
	ErrPriceBelowBid = errors.New("final price is below the current bid")
	// ErrInsufficientPurse is returned when the team cannot cover the price.
	ErrInsufficientPurse = errors.New("insufficient purse remaining")
	// ErrPlayerNotSold is returned when returning a player who is unsold.
	ErrPlayerNotSold = errors.New("player is not sold")
	// ErrPurseBelowSpent is returned when an edit would shrink a team's
	// total purse below what it has already spent.
	ErrPurseBelowSpent = errors.New("total purse below amount already spent")
	// ErrContention is returned on lock-wait timeout, deadlock, or
	// serialization failure. It is the only error callers should retry.
	ErrContention = errors.New("transaction contention")
)
