package handler

import (
	"encoding/json"
	"net/http"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/middleware"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/response"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/validation"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/catalog"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/ledger"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

type createPlayerRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Country   string `json:"country"`
	BasePrice int64  `json:"base_price"`
}

// PlayerHandler handles player pool endpoints.
type PlayerHandler struct {
	catalog *catalog.Service
	ledger  *ledger.Service
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(c *catalog.Service, l *ledger.Service) *PlayerHandler {
	return &PlayerHandler{catalog: c, ledger: l}
}

// Create handles POST /v1/auctions/{auctionID}/players.
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreatePlayerRequest(validation.CreatePlayerRequest{
		Name:      req.Name,
		Role:      req.Role,
		Country:   req.Country,
		BasePrice: req.BasePrice,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p, err := h.catalog.CreatePlayer(r.Context(), scope, catalog.CreatePlayerParams{
		Name:      req.Name,
		Role:      store.Role(req.Role),
		Country:   req.Country,
		BasePrice: req.BasePrice,
	})
	if err != nil {
		respondError(w, r, err, "failed to create player")
		return
	}

	response.Success(w, http.StatusCreated, p, requestID)
}

// List handles GET /v1/auctions/{auctionID}/players. The optional status
// query narrows to sold or unsold players.
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}

	filter := store.PlayersAll
	switch r.URL.Query().Get("status") {
	case "":
	case "sold":
		filter = store.PlayersSold
	case "unsold":
		filter = store.PlayersUnsold
	default:
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be \"sold\" or \"unsold\"", requestID)
		return
	}

	players, err := h.catalog.ListPlayers(r.Context(), scope, filter)
	if err != nil {
		respondError(w, r, err, "failed to list players")
		return
	}

	response.Success(w, http.StatusOK, players, requestID)
}

// GetByID handles GET /v1/auctions/{auctionID}/players/{playerID}.
func (h *PlayerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "playerID")
	if !ok {
		return
	}

	p, err := h.catalog.GetPlayer(r.Context(), scope, id)
	if err != nil {
		respondError(w, r, err, "failed to get player")
		return
	}

	response.Success(w, http.StatusOK, p, requestID)
}

// Return handles POST /v1/auctions/{auctionID}/players/{playerID}/return.
func (h *PlayerHandler) Return(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "playerID")
	if !ok {
		return
	}

	p, err := h.ledger.ReturnPlayer(r.Context(), scope, id)
	if err != nil {
		respondError(w, r, err, "failed to return player")
		return
	}

	response.Success(w, http.StatusOK, p, requestID)
}
