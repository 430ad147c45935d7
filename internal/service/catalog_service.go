package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	wferrors "github.com/closetly/wardrobe/internal/errors"
	"github.com/closetly/wardrobe/internal/models"
	"github.com/closetly/wardrobe/internal/repository"
)

// listPageSize caps how many items a single list call returns.
const listPageSize = 100

// CatalogStore provides the persistence operations the catalog service needs.
type CatalogStore interface {
	Upsert(ctx context.Context, entry models.CatalogEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (models.CatalogEntry, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, limit int) ([]models.ClothingItem, error)
	Catalog() string
}

// TagResolver resolves tags for an item embedding.
type TagResolver interface {
	ResolveTags(ctx context.Context, embedding []float32) ([]string, error)
}

// UploadParams carries the inputs of an item upload. ID is the caller's
// item id; uploading again with the same id overwrites the entry.
type UploadParams struct {
	ID       uuid.UUID
	Image    []byte
	Name     string
	Category models.Category

	// Listing metadata, required for the marketplace catalog and
	// rejected for the wardrobe.
	Price *int
	Store *string
}

// CatalogService orchestrates upload and retrieval for one catalog. The
// wardrobe and marketplace catalogs are two instances of this service with
// different stores; the marketplace one additionally requires listing
// metadata (price, store) on upload.
type CatalogService struct {
	store          CatalogStore
	embedder       EmbeddingClient
	tags           TagResolver
	requireListing bool
	logger         *slog.Logger
}

// CatalogServiceParams configures CatalogService. Logger may be nil.
type CatalogServiceParams struct {
	Store          CatalogStore
	Embedder       EmbeddingClient
	Tags           TagResolver
	RequireListing bool
	Logger         *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(p CatalogServiceParams) *CatalogService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogService{
		store:          p.Store,
		embedder:       p.Embedder,
		tags:           p.Tags,
		requireListing: p.RequireListing,
		logger:         logger,
	}
}

// validateUpload rejects malformed input before any store call.
func (s *CatalogService) validateUpload(p UploadParams) error {
	if p.ID == uuid.Nil {
		return wferrors.NewValidationError("id", "id is required")
	}

	if len(p.Image) == 0 {
		return wferrors.NewValidationError("file", "image file is required")
	}

	if p.Name == "" {
		return wferrors.NewValidationError("name", "name is required")
	}

	if !p.Category.Valid() {
		return wferrors.NewValidationError("category", `category must be "top" or "bottom"`)
	}

	if s.requireListing {
		if p.Price == nil {
			return wferrors.NewValidationError("price", "price is required for marketplace items")
		}

		if p.Store == nil || *p.Store == "" {
			return wferrors.NewValidationError("store", "store is required for marketplace items")
		}
	} else if p.Price != nil || p.Store != nil {
		return wferrors.NewValidationError("price", "price and store only apply to marketplace items")
	}

	return nil
}

// Upload embeds the image, resolves its tags, and upserts the entry.
// A tag resolution failure aborts the upload (fail-fast; the item is not
// stored untagged). Idempotent on retry with the same id.
func (s *CatalogService) Upload(ctx context.Context, p UploadParams) (uuid.UUID, error) {
	if err := s.validateUpload(p); err != nil {
		return uuid.Nil, err
	}

	embedding, err := s.embedder.EmbedImage(ctx, p.Image)
	if err != nil {
		s.logger.Error("upload: embed image failed", "error", err, "catalog", s.store.Catalog(), "itemId", p.ID.String())

		return uuid.Nil, fmt.Errorf("embed image: %w", err)
	}

	tags, err := s.tags.ResolveTags(ctx, embedding)
	if err != nil {
		s.logger.Error("upload: resolve tags failed", "error", err, "catalog", s.store.Catalog(), "itemId", p.ID.String())

		return uuid.Nil, fmt.Errorf("resolve tags: %w", err)
	}

	entry := models.CatalogEntry{
		Item: models.ClothingItem{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Tags:     tags,
			Price:    p.Price,
			Store:    p.Store,
		},
		Embedding: embedding,
	}

	if err := s.store.Upsert(ctx, entry); err != nil {
		s.logger.Error("upload: upsert failed", "error", err, "catalog", s.store.Catalog(), "itemId", p.ID.String())

		return uuid.Nil, fmt.Errorf("upsert catalog entry: %w", err)
	}

	s.logger.Info("item uploaded", "catalog", s.store.Catalog(), "itemId", p.ID.String(), "category", string(p.Category), "tags", tags)

	return p.ID, nil
}

// List returns up to one page of items in store order.
func (s *CatalogService) List(ctx context.Context) ([]models.ClothingItem, error) {
	items, err := s.store.List(ctx, listPageSize)
	if err != nil {
		s.logger.Error("list items failed", "error", err, "catalog", s.store.Catalog())

		return nil, fmt.Errorf("list catalog items: %w", err)
	}

	return items, nil
}

// Get returns the item for the given id. An absent id yields a NotFoundError,
// which callers treat as a valid outcome rather than a failure.
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (models.ClothingItem, error) {
	entry, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return models.ClothingItem{}, wferrors.NewNotFoundError("item", fmt.Sprintf("item %s not found", id))
		}

		s.logger.Error("get item failed", "error", err, "catalog", s.store.Catalog(), "itemId", id.String())

		return models.ClothingItem{}, fmt.Errorf("get catalog item: %w", err)
	}

	return entry.Item, nil
}

// Delete removes the item for the given id. Removing a nonexistent id
// succeeds; the returned bool reports whether anything was removed.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete item failed", "error", err, "catalog", s.store.Catalog(), "itemId", id.String())

		return false, fmt.Errorf("delete catalog item: %w", err)
	}

	return removed, nil
}
