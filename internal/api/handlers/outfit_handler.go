package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/closetly/wardrobe/internal/api/response"
	"github.com/closetly/wardrobe/internal/models"
	"github.com/closetly/wardrobe/internal/service"
)

// maxOutfitLimit caps how many outfits (and candidate items per side) a
// single request may ask for; pairwise scoring is O(limit^2).
const maxOutfitLimit = 10

// OutfitService defines the outfit composition operations the handler exposes.
type OutfitService interface {
	GenerateOutfits(ctx context.Context, query string, limit int) ([]models.Outfit, error)
	MatchingItems(ctx context.Context, itemID uuid.UUID, limit int) ([]models.ClothingItem, error)
}

// OutfitHandler handles HTTP requests for outfit generation and
// matching-item lookup.
type OutfitHandler struct {
	service OutfitService
}

// NewOutfitHandler creates a new outfit handler.
func NewOutfitHandler(service OutfitService) *OutfitHandler {
	return &OutfitHandler{service: service}
}

// GenerateRequest is the body for POST /v1/outfits/generate.
type GenerateRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// GenerateResponse is the response for POST /v1/outfits/generate.
type GenerateResponse struct {
	Outfits []models.Outfit `json:"outfits"`
}

// MatchesResponse is the response for GET /v1/wardrobe/items/{id}/matches.
type MatchesResponse struct {
	Items []models.ClothingItem `json:"items"`
}

// Generate handles POST /v1/outfits/generate. An empty candidate set is a
// valid outcome and returns an empty outfit list, not an error.
func (h *OutfitHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	limit := req.Limit
	if limit > maxOutfitLimit {
		limit = maxOutfitLimit
	}

	outfits, err := h.service.GenerateOutfits(r.Context(), req.Query, limit)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			response.RespondBadRequest(w, err.Error())

			return
		}

		respondServiceError(w, err)

		return
	}

	if outfits == nil {
		outfits = []models.Outfit{}
	}

	response.RespondJSON(w, http.StatusOK, GenerateResponse{Outfits: outfits})
}

// Matches handles GET /v1/wardrobe/items/{id}/matches: opposite-category
// items ranked by similarity to the stored item's embedding.
func (h *OutfitHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	limit := parseLimitQuery(r)

	items, err := h.service.MatchingItems(r.Context(), id, limit)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	if items == nil {
		items = []models.ClothingItem{}
	}

	response.RespondJSON(w, http.StatusOK, MatchesResponse{Items: items})
}

// parseLimitQuery reads the optional ?limit= query parameter, clamped to
// maxOutfitLimit. Returns 0 (service default) when absent or invalid.
func parseLimitQuery(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}

	if limit > maxOutfitLimit {
		return maxOutfitLimit
	}

	return limit
}
