package handler

import (
	"encoding/json"
	"net/http"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/middleware"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/response"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/api/validation"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/catalog"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/ledger"
)

type createTeamRequest struct {
	Name       string `json:"name"`
	ShortCode  string `json:"short_code"`
	TotalPurse int64  `json:"total_purse"`
}

type updateTeamRequest struct {
	Name       *string `json:"name"`
	ShortCode  *string `json:"short_code"`
	TotalPurse *int64  `json:"total_purse"`
}

// TeamHandler handles team endpoints.
type TeamHandler struct {
	catalog *catalog.Service
	ledger  *ledger.Service
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(c *catalog.Service, l *ledger.Service) *TeamHandler {
	return &TeamHandler{catalog: c, ledger: l}
}

// Create handles POST /v1/auctions/{auctionID}/teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{
		Name:       req.Name,
		ShortCode:  req.ShortCode,
		TotalPurse: req.TotalPurse,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t, err := h.catalog.CreateTeam(r.Context(), scope, catalog.CreateTeamParams{
		Name:       req.Name,
		ShortCode:  req.ShortCode,
		TotalPurse: req.TotalPurse,
	})
	if err != nil {
		respondError(w, r, err, "failed to create team")
		return
	}

	response.Success(w, http.StatusCreated, t, requestID)
}

// List handles GET /v1/auctions/{auctionID}/teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}

	teams, err := h.catalog.ListTeams(r.Context(), scope)
	if err != nil {
		respondError(w, r, err, "failed to list teams")
		return
	}

	response.Success(w, http.StatusOK, teams, requestID)
}

// GetByID handles GET /v1/auctions/{auctionID}/teams/{teamID}.
func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "teamID")
	if !ok {
		return
	}

	t, err := h.catalog.GetTeam(r.Context(), scope, id)
	if err != nil {
		respondError(w, r, err, "failed to get team")
		return
	}

	response.Success(w, http.StatusOK, t, requestID)
}

// Update handles PATCH /v1/auctions/{auctionID}/teams/{teamID}.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "teamID")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req updateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUpdateTeamRequest(validation.UpdateTeamRequest{
		Name:       req.Name,
		ShortCode:  req.ShortCode,
		TotalPurse: req.TotalPurse,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t, err := h.ledger.UpdateTeam(r.Context(), scope, id, ledger.UpdateTeamParams{
		Name:       req.Name,
		ShortCode:  req.ShortCode,
		TotalPurse: req.TotalPurse,
	})
	if err != nil {
		respondError(w, r, err, "failed to update team")
		return
	}

	response.Success(w, http.StatusOK, t, requestID)
}

// Reset handles POST /v1/auctions/{auctionID}/teams/{teamID}/reset.
func (h *TeamHandler) Reset(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	scope, ok := eventScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "teamID")
	if !ok {
		return
	}

	t, err := h.ledger.ResetTeam(r.Context(), scope, id)
	if err != nil {
		respondError(w, r, err, "failed to reset team")
		return
	}

	response.Success(w, http.StatusOK, t, requestID)
}
