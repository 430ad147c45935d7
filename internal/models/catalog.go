// Package models defines the data structures shared across the wardrobe service.
package models

import "github.com/google/uuid"

// Category is the clothing category of an item. Outfit composition only
// applies to items that are exactly Top or Bottom.
type Category string

const (
	CategoryTop    Category = "top"
	CategoryBottom Category = "bottom"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryTop || c == CategoryBottom
}

// Opposite returns the other category (top <-> bottom).
func (c Category) Opposite() Category {
	if c == CategoryTop {
		return CategoryBottom
	}
	return CategoryTop
}

// ClothingItem is the public metadata of a cataloged item. Price and Store
// are set only for marketplace items.
type ClothingItem struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category Category  `json:"category"`
	Tags     []string  `json:"tags"`
	Price    *int      `json:"price,omitempty"`
	Store    *string   `json:"store,omitempty"`
}

// CatalogEntry pairs an item's metadata with its embedding as persisted in
// the similarity store. One entry per (catalog, id); re-upload with the same
// id overwrites.
type CatalogEntry struct {
	Item      ClothingItem
	Embedding []float32
}

// ScoredEntry is a catalog entry returned by a nearest-neighbor query,
// with the store's cosine similarity score (0..1).
type ScoredEntry struct {
	Item      ClothingItem
	Embedding []float32
	Score     float64
}

// Outfit is a scored pairing of one top and one bottom, computed on demand
// and never persisted. Score is in [-1, 1].
type Outfit struct {
	Top    ClothingItem `json:"top"`
	Bottom ClothingItem `json:"bottom"`
	Query  string       `json:"query"`
	Score  float64      `json:"score"`
}
