// Package handlers implements the HTTP endpoints over the core services.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/closetly/wardrobe/internal/api/response"
	wferrors "github.com/closetly/wardrobe/internal/errors"
	"github.com/closetly/wardrobe/internal/models"
	"github.com/closetly/wardrobe/internal/service"
)

// maxUploadMemory is the in-memory threshold for multipart parsing; larger
// file parts spill to disk.
const maxUploadMemory = 8 << 20

// CatalogService defines the catalog operations the handler exposes.
type CatalogService interface {
	Upload(ctx context.Context, p service.UploadParams) (uuid.UUID, error)
	List(ctx context.Context) ([]models.ClothingItem, error)
	Get(ctx context.Context, id uuid.UUID) (models.ClothingItem, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CatalogHandler handles HTTP requests for one catalog (wardrobe or
// marketplace). listing controls whether price/store form fields are read.
type CatalogHandler struct {
	service CatalogService
	listing bool
}

// NewCatalogHandler creates a handler for a wardrobe-style catalog (no
// listing metadata).
func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// NewListingCatalogHandler creates a handler for a marketplace-style catalog
// whose uploads carry price and store.
func NewListingCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service, listing: true}
}

// UploadResponse is the response for POST /v1/{catalog}/items.
type UploadResponse struct {
	ID       uuid.UUID       `json:"id"`
	Status   string          `json:"status"`
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
	Price    *int            `json:"price,omitempty"`
	Store    *string         `json:"store,omitempty"`
}

// ListResponse is the response for GET /v1/{catalog}/items.
type ListResponse struct {
	Items []models.ClothingItem `json:"items"`
}

// DeleteResponse is the response for DELETE /v1/{catalog}/items/{id}.
type DeleteResponse struct {
	Success bool      `json:"success"`
	ID      uuid.UUID `json:"id"`
	Removed bool      `json:"removed"`
}

// Upload handles POST /v1/{catalog}/items. Multipart form with name,
// category, file, and for marketplace catalogs price and store.
func (h *CatalogHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.RespondBadRequest(w, "Invalid multipart form")

		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.RespondBadRequest(w, "file part is required")

		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		response.RespondBadRequest(w, "failed to read file part")

		return
	}

	params := service.UploadParams{
		ID:       uuid.New(),
		Image:    image,
		Name:     r.FormValue("name"),
		Category: models.Category(r.FormValue("category")),
	}

	if h.listing {
		price, err := strconv.Atoi(r.FormValue("price"))
		if err != nil {
			response.RespondBadRequest(w, "price must be an integer")

			return
		}

		store := r.FormValue("store")
		params.Price = &price
		params.Store = &store
	}

	id, err := h.service.Upload(r.Context(), params)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusCreated, UploadResponse{
		ID:       id,
		Status:   "completed",
		Name:     params.Name,
		Category: params.Category,
		Price:    params.Price,
		Store:    params.Store,
	})
}

// List handles GET /v1/{catalog}/items.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, err)

		return
	}

	if items == nil {
		items = []models.ClothingItem{}
	}

	response.RespondJSON(w, http.StatusOK, ListResponse{Items: items})
}

// Get handles GET /v1/{catalog}/items/{id}.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /v1/{catalog}/items/{id}. Deleting a nonexistent id
// succeeds; Removed reports whether anything was deleted.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	removed, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, DeleteResponse{Success: true, ID: id, Removed: removed})
}

// parseIDParam reads the {id} path segment as a UUID, responding 400 on failure.
func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.RespondBadRequest(w, "id must be a valid UUID")

		return uuid.Nil, false
	}

	return id, true
}

// respondServiceError maps core-service errors to HTTP status codes:
// validation 422, not found 404, anything else (embedding gateway or store
// failure) 502.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wferrors.ErrValidation):
		response.RespondUnprocessableEntity(w, err.Error())
	case errors.Is(err, wferrors.ErrNotFound):
		response.RespondNotFound(w, err.Error())
	default:
		response.RespondBadGateway(w, "upstream dependency failed")
	}
}
