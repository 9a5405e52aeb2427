// Package handler implements the HTTP endpoints. Handlers parse and validate
// payloads, resolve the caller's event scope, call the catalog or ledger, and
// map domain errors onto stable response codes.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/middleware"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/response"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

// maxBodyBytes caps request bodies; payloads here are all small.
const maxBodyBytes = 1 << 20

// respondError maps domain sentinels onto stable error codes. Unrecognized
// errors are logged and reported as 500 without internals.
func respondError(w http.ResponseWriter, r *http.Request, err error, action string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "The referenced entity does not exist", requestID)
	case errors.Is(err, store.ErrCrossEventReference):
		// Cross-event probes are answered like missing entities so existence
		// does not leak across events.
		response.Err(w, http.StatusNotFound, "CROSS_EVENT_REFERENCE", "The referenced entity does not exist in this auction event", requestID)
	case errors.Is(err, store.ErrDuplicateName):
		response.Err(w, http.StatusConflict, "DUPLICATE_NAME", "A record with that name already exists", requestID)
	case errors.Is(err, store.ErrPlayerAlreadySold):
		response.Err(w, http.StatusConflict, "PLAYER_ALREADY_SOLD", "The player has already been sold", requestID)
	case errors.Is(err, store.ErrListingAlreadyActive):
		response.Err(w, http.StatusConflict, "LISTING_ALREADY_ACTIVE", "A listing is already open", requestID)
	case errors.Is(err, store.ErrListingNotActive):
		response.Err(w, http.StatusConflict, "LISTING_NOT_ACTIVE", "The listing is not active", requestID)
	case errors.Is(err, store.ErrBidNotIncreasing):
		response.Err(w, http.StatusConflict, "BID_NOT_INCREASING", "The bid must exceed the current bid", requestID)
	case errors.Is(err, store.ErrPriceBelowBid):
		response.Err(w, http.StatusConflict, "PRICE_BELOW_BID", "The final price is below the current bid", requestID)
	case errors.Is(err, store.ErrInsufficientPurse):
		response.Err(w, http.StatusConflict, "INSUFFICIENT_PURSE", "The team's remaining purse cannot cover the price", requestID)
	case errors.Is(err, store.ErrPlayerNotSold):
		response.Err(w, http.StatusConflict, "PLAYER_NOT_SOLD", "The player is not currently sold", requestID)
	case errors.Is(err, store.ErrPurseBelowSpent):
		response.Err(w, http.StatusConflict, "PURSE_BELOW_SPENT", "The total purse cannot drop below the amount already spent", requestID)
	case errors.Is(err, store.ErrContention):
		w.Header().Set("Retry-After", "1")
		response.Err(w, http.StatusServiceUnavailable, "CONTENTION", "The operation lost a lock race; retry", requestID)
	default:
		slog.Error(action, "error", err, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", requestID)
	}
}

// eventScope returns the caller's resolved scope, rejecting requests whose
// URL names a different auction event than the caller is scoped to.
func eventScope(w http.ResponseWriter, r *http.Request) (store.Scope, bool) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := middleware.GetScope(r.Context())
	if !ok {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "A valid X-Auction-Event header is required", requestID)
		return store.Scope{}, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "auctionID"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "auctionID must be a valid UUID", requestID)
		return store.Scope{}, false
	}
	if id != scope.AuctionEventID {
		response.Err(w, http.StatusNotFound, "CROSS_EVENT_REFERENCE", "The referenced entity does not exist in this auction event", requestID)
		return store.Scope{}, false
	}
	return scope, true
}

// parseID parses a UUID URL parameter, writing a 400 on failure.
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", fmt.Sprintf("%s must be a valid UUID", param), requestID)
		return uuid.Nil, false
	}
	return id, true
}
