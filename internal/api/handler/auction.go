package handler

import (
	"encoding/json"
	"net/http"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/middleware"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/response"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/validation"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/catalog"
)

type createAuctionRequest struct {
	Name string `json:"name"`
}

// AuctionHandler handles auction event endpoints.
type AuctionHandler struct {
	catalog *catalog.Service
}

// NewAuctionHandler creates a new AuctionHandler.
func NewAuctionHandler(c *catalog.Service) *AuctionHandler {
	return &AuctionHandler{catalog: c}
}

// Create handles POST /v1/auctions.
func (h *AuctionHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req createAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateAuctionRequest(validation.CreateAuctionRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	e, err := h.catalog.CreateAuctionEvent(r.Context(), req.Name)
	if err != nil {
		respondError(w, r, err, "failed to create auction event")
		return
	}

	response.Success(w, http.StatusCreated, e, requestID)
}

// List handles GET /v1/auctions.
func (h *AuctionHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	events, err := h.catalog.ListAuctionEvents(r.Context())
	if err != nil {
		respondError(w, r, err, "failed to list auction events")
		return
	}

	response.Success(w, http.StatusOK, events, requestID)
}

// GetByID handles GET /v1/auctions/{auctionID}.
func (h *AuctionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "auctionID")
	if !ok {
		return
	}

	e, err := h.catalog.GetAuctionEvent(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "failed to get auction event")
		return
	}

	response.Success(w, http.StatusOK, e, requestID)
}

// Delete handles DELETE /v1/auctions/{auctionID}.
func (h *AuctionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "auctionID")
	if !ok {
		return
	}

	if err := h.catalog.DeleteAuctionEvent(r.Context(), id); err != nil {
		respondError(w, r, err, "failed to delete auction event")
		return
	}

	response.NoContent(w)
}
