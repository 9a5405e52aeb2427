package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/middleware"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/response"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/validation"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/catalog"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/ledger"
)

type openListingRequest struct {
	PlayerID string `json:"player_id"`
}

type raiseBidRequest struct {
	Amount int64 `json:"amount"`
}

type settleSoldRequest struct {
	TeamID     string `json:"team_id"`
	FinalPrice int64  `json:"final_price"`
}

// ListingHandler handles the bidding lane endpoints.
type ListingHandler struct {
	catalog *catalog.Service
	ledger  *ledger.Service
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(c *catalog.Service, l *ledger.Service) *ListingHandler {
	return &ListingHandler{catalog: c, ledger: l}
}

// Open handles POST /v1/auctions/{auctionID}/listings.
func (h *ListingHandler) Open(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req openListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
			[]validation.FieldError{{Field: "player_id", Message: "player_id must be a valid UUID"}}, requestID)
		return
	}

	listing, err := h.ledger.OpenListing(r.Context(), scope, playerID)
	if err != nil {
		respondError(w, r, err, "failed to open listing")
		return
	}

	response.Success(w, http.StatusCreated, listing, requestID)
}

// Active handles GET /v1/auctions/{auctionID}/listings/active.
func (h *ListingHandler) Active(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}

	listing, err := h.catalog.ActiveListing(r.Context(), scope)
	if err != nil {
		respondError(w, r, err, "failed to get active listing")
		return
	}

	response.Success(w, http.StatusOK, listing, requestID)
}

// List handles GET /v1/auctions/{auctionID}/listings.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}

	listings, err := h.catalog.ListListings(r.Context(), scope)
	if err != nil {
		respondError(w, r, err, "failed to list listings")
		return
	}

	response.Success(w, http.StatusOK, listings, requestID)
}

// GetByID handles GET /v1/auctions/{auctionID}/listings/{listingID}.
func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "listingID")
	if !ok {
		return
	}

	listing, err := h.catalog.GetListing(r.Context(), scope, id)
	if err != nil {
		respondError(w, r, err, "failed to get listing")
		return
	}

	response.Success(w, http.StatusOK, listing, requestID)
}

// Bid handles POST /v1/auctions/{auctionID}/listings/{listingID}/bid.
func (h *ListingHandler) Bid(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "listingID")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req raiseBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateRaiseBidRequest(validation.RaiseBidRequest{Amount: req.Amount})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	listing, err := h.ledger.RaiseBid(r.Context(), scope, id, req.Amount)
	if err != nil {
		respondError(w, r, err, "failed to raise bid")
		return
	}

	response.Success(w, http.StatusOK, listing, requestID)
}

// Cancel handles POST /v1/auctions/{auctionID}/listings/{listingID}/cancel.
func (h *ListingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "listingID")
	if !ok {
		return
	}

	listing, err := h.ledger.CancelListing(r.Context(), scope, id)
	if err != nil {
		respondError(w, r, err, "failed to cancel listing")
		return
	}

	response.Success(w, http.StatusOK, listing, requestID)
}

// Sell handles POST /v1/auctions/{auctionID}/listings/{listingID}/sell.
func (h *ListingHandler) Sell(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "listingID")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req settleSoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateSettleSoldRequest(validation.SettleSoldRequest{
		TeamID:     req.TeamID,
		FinalPrice: req.FinalPrice,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}
	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
			[]validation.FieldError{{Field: "team_id", Message: "team_id must be a valid UUID"}}, requestID)
		return
	}

	sale, err := h.ledger.SettleSold(r.Context(), scope, id, teamID, req.FinalPrice)
	if err != nil {
		respondError(w, r, err, "failed to settle listing sold")
		return
	}

	response.Success(w, http.StatusOK, sale, requestID)
}

// Pass handles POST /v1/auctions/{auctionID}/listings/{listingID}/pass.
func (h *ListingHandler) Pass(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "listingID")
	if !ok {
		return
	}

	listing, err := h.ledger.SettleUnsold(r.Context(), scope, id)
	if err != nil {
		respondError(w, r, err, "failed to settle listing unsold")
		return
	}

	response.Success(w, http.StatusOK, listing, requestID)
}
