// Package repository provides pgvector-backed data access for the catalogs
// and the tag vocabulary.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/closetly/wardrobe/internal/models"
)

// ErrItemNotFound is returned when no catalog row exists for the given id.
var ErrItemNotFound = errors.New("catalog item not found")

// CatalogRepository handles data access for one catalog (wardrobe or
// marketplace) in the catalog_items table. The two catalogs share the table
// and are namespaced by the catalog column; handles are never mixed.
type CatalogRepository struct {
	db      *pgxpool.Pool
	catalog string
}

// NewCatalogRepository creates a repository scoped to the given catalog name.
func NewCatalogRepository(db *pgxpool.Pool, catalog string) *CatalogRepository {
	return &CatalogRepository{db: db, catalog: catalog}
}

// Catalog returns the catalog name this repository is scoped to.
func (r *CatalogRepository) Catalog() string {
	return r.catalog
}

// Upsert inserts or updates the entry for (catalog, id). On conflict all
// metadata and the embedding are overwritten, so a re-upload with the same
// id replaces the item.
func (r *CatalogRepository) Upsert(ctx context.Context, entry models.CatalogEntry) error {
	vec := pgvector.NewVector(entry.Embedding)
	now := time.Now()

	_, err := r.db.Exec(ctx, `
		INSERT INTO catalog_items (id, catalog, name, category, tags, price, store, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (catalog, id)
		DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, tags = EXCLUDED.tags,
			price = EXCLUDED.price, store = EXCLUDED.store, embedding = EXCLUDED.embedding, updated_at = $9`,
		entry.Item.ID, r.catalog, entry.Item.Name, string(entry.Item.Category),
		entry.Item.Tags, entry.Item.Price, entry.Item.Store, vec, now,
	)
	if err != nil {
		return fmt.Errorf("catalog upsert: %w", err)
	}

	return nil
}

// GetByID returns the entry for the given id, including its embedding.
// Returns ErrItemNotFound when no row exists.
func (r *CatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (models.CatalogEntry, error) {
	var (
		entry    models.CatalogEntry
		category string
		vec      pgvector.Vector
	)

	err := r.db.QueryRow(ctx, `
		SELECT id, name, category, tags, price, store, embedding
		FROM catalog_items WHERE catalog = $1 AND id = $2`,
		r.catalog, id,
	).Scan(&entry.Item.ID, &entry.Item.Name, &category, &entry.Item.Tags,
		&entry.Item.Price, &entry.Item.Store, &vec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CatalogEntry{}, ErrItemNotFound
		}

		return models.CatalogEntry{}, fmt.Errorf("catalog get by id: %w", err)
	}

	entry.Item.Category = models.Category(category)
	entry.Embedding = vec.Slice()

	return entry, nil
}

// Delete removes the entry for the given id. Deleting a nonexistent id is
// not an error; the result reports whether a row was actually removed.
func (r *CatalogRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM catalog_items WHERE catalog = $1 AND id = $2`,
		r.catalog, id,
	)
	if err != nil {
		return false, fmt.Errorf("catalog delete: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// List returns up to limit items in store order (insertion time). The order
// is not guaranteed stable across calls.
func (r *CatalogRepository) List(ctx context.Context, limit int) ([]models.ClothingItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, category, tags, price, store
		FROM catalog_items WHERE catalog = $1
		ORDER BY created_at
		LIMIT $2`,
		r.catalog, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}
	defer rows.Close()

	var items []models.ClothingItem

	for rows.Next() {
		var (
			item     models.ClothingItem
			category string
		)

		if err := rows.Scan(&item.ID, &item.Name, &category, &item.Tags, &item.Price, &item.Store); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}

		item.Category = models.Category(category)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog items: %w", err)
	}

	return items, nil
}

// NearestByCategory returns up to k entries of the given category ranked by
// cosine similarity to queryEmbedding, nearest first, with vectors included
// for pairwise re-ranking. Uses cosine distance (<=>); score = 1 - distance.
func (r *CatalogRepository) NearestByCategory(
	ctx context.Context, category models.Category, queryEmbedding []float32, k int,
) ([]models.ScoredEntry, error) {
	queryVec := pgvector.NewVector(queryEmbedding)

	rows, err := r.db.Query(ctx, `
		SELECT id, name, category, tags, price, store, embedding, (1 - (embedding <=> $1)) AS score
		FROM catalog_items
		WHERE catalog = $2 AND category = $3
		ORDER BY embedding <=> $1
		LIMIT $4`,
		queryVec, r.catalog, string(category), k,
	)
	if err != nil {
		return nil, fmt.Errorf("nearest by category: %w", err)
	}
	defer rows.Close()

	var results []models.ScoredEntry

	for rows.Next() {
		var (
			row models.ScoredEntry
			cat string
			vec pgvector.Vector
		)

		if err := rows.Scan(&row.Item.ID, &row.Item.Name, &cat, &row.Item.Tags,
			&row.Item.Price, &row.Item.Store, &vec, &row.Score); err != nil {
			return nil, fmt.Errorf("scan scored entry: %w", err)
		}

		row.Item.Category = models.Category(cat)
		row.Embedding = vec.Slice()
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nearest: %w", err)
	}

	return results, nil
}
