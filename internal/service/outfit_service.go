package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	wferrors "github.com/closetly/wardrobe/internal/errors"
	"github.com/closetly/wardrobe/internal/models"
	"github.com/closetly/wardrobe/internal/repository"
)

// defaultOutfitLimit is used when the caller passes a non-positive limit.
const defaultOutfitLimit = 3

// ErrEmptyQuery is returned when the outfit query is empty after trimming.
var ErrEmptyQuery = errors.New("query is required and must be non-empty")

// CandidateRetriever provides the catalog reads outfit composition needs:
// category-filtered nearest-neighbor search and fetch-by-id (for matching
// items, which query with the stored item's own embedding).
type CandidateRetriever interface {
	NearestByCategory(ctx context.Context, category models.Category, queryEmbedding []float32, k int) ([]models.ScoredEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.CatalogEntry, error)
}

// OutfitService generates ranked top+bottom outfit suggestions for a text
// query by combining query relevance with pairwise coherence.
type OutfitService struct {
	embedder       EmbeddingClient
	catalog        CandidateRetriever
	queryCache     *lru.Cache[string, []float32]
	queryLoadGroup singleflight.Group
	logger         *slog.Logger
}

// OutfitServiceParams configures OutfitService. QueryCache may be nil (no
// caching of query-text embeddings). Logger may be nil.
type OutfitServiceParams struct {
	Embedder   EmbeddingClient
	Catalog    CandidateRetriever
	QueryCache *lru.Cache[string, []float32]
	Logger     *slog.Logger
}

// NewOutfitService creates an OutfitService.
func NewOutfitService(p OutfitServiceParams) *OutfitService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OutfitService{
		embedder:   p.Embedder,
		catalog:    p.Catalog,
		queryCache: p.QueryCache,
		logger:     logger,
	}
}

// GenerateOutfits returns up to limit outfits for the query, ranked by
// score descending. An empty candidate set on either side yields an empty
// result with no error; embedding or retrieval failures abort the whole
// call with no partial results.
func (s *OutfitService) GenerateOutfits(ctx context.Context, query string, limit int) ([]models.Outfit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if limit <= 0 {
		limit = defaultOutfitLimit
	}

	queryEmbedding, err := s.queryEmbedding(ctx, query)
	if err != nil {
		s.logger.Error("generate outfits: embed query failed", "error", err)

		return nil, fmt.Errorf("embed query: %w", err)
	}

	// The two candidate retrievals are independent; issue them concurrently.
	var tops, bottoms []models.ScoredEntry

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		tops, err = s.catalog.NearestByCategory(gctx, models.CategoryTop, queryEmbedding, limit)
		if err != nil {
			return fmt.Errorf("retrieve tops: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error
		bottoms, err = s.catalog.NearestByCategory(gctx, models.CategoryBottom, queryEmbedding, limit)
		if err != nil {
			return fmt.Errorf("retrieve bottoms: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("generate outfits: candidate retrieval failed", "error", err)

		return nil, err
	}

	if len(tops) == 0 || len(bottoms) == 0 {
		s.logger.Debug("generate outfits: no candidates", "tops", len(tops), "bottoms", len(bottoms))

		return []models.Outfit{}, nil
	}

	outfits, err := scoreCombinations(queryEmbedding, tops, bottoms, query)
	if err != nil {
		s.logger.Error("generate outfits: scoring failed", "error", err)

		return nil, err
	}

	// Stable sort: equal scores keep first-seen pair order (tops outer,
	// bottoms inner).
	sort.SliceStable(outfits, func(i, j int) bool {
		return outfits[i].Score > outfits[j].Score
	})

	if len(outfits) > limit {
		outfits = outfits[:limit]
	}

	return outfits, nil
}

// scoreCombinations scores the cross product of tops and bottoms:
// half query relevance (mean similarity of both items to the query), half
// pairwise coherence. A malformed stored vector fails the call rather than
// being silently dropped.
func scoreCombinations(queryEmbedding []float32, tops, bottoms []models.ScoredEntry, query string) ([]models.Outfit, error) {
	outfits := make([]models.Outfit, 0, len(tops)*len(bottoms))

	for _, top := range tops {
		queryToTop, err := cosineSimilarity(queryEmbedding, top.Embedding)
		if err != nil {
			return nil, fmt.Errorf("score top %s: %w", top.Item.ID, err)
		}

		for _, bottom := range bottoms {
			coherence, err := cosineSimilarity(top.Embedding, bottom.Embedding)
			if err != nil {
				return nil, fmt.Errorf("score pair %s/%s: %w", top.Item.ID, bottom.Item.ID, err)
			}

			queryToBottom, err := cosineSimilarity(queryEmbedding, bottom.Embedding)
			if err != nil {
				return nil, fmt.Errorf("score bottom %s: %w", bottom.Item.ID, err)
			}

			queryRelevance := (queryToTop + queryToBottom) / 2

			outfits = append(outfits, models.Outfit{
				Top:    top.Item,
				Bottom: bottom.Item,
				Query:  query,
				Score:  0.5*queryRelevance + 0.5*coherence,
			})
		}
	}

	return outfits, nil
}

// MatchingItems returns up to limit items of the opposite category ranked
// by similarity to the stored item's own embedding. Returns a NotFoundError
// when the source item does not exist.
func (s *OutfitService) MatchingItems(ctx context.Context, itemID uuid.UUID, limit int) ([]models.ClothingItem, error) {
	if limit <= 0 {
		limit = defaultOutfitLimit
	}

	entry, err := s.catalog.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, wferrors.NewNotFoundError("item", fmt.Sprintf("item %s not found", itemID))
		}

		s.logger.Error("matching items: get source item failed", "error", err, "itemId", itemID.String())

		return nil, fmt.Errorf("get source item: %w", err)
	}

	candidates, err := s.catalog.NearestByCategory(ctx, entry.Item.Category.Opposite(), entry.Embedding, limit)
	if err != nil {
		s.logger.Error("matching items: retrieval failed", "error", err, "itemId", itemID.String())

		return nil, fmt.Errorf("retrieve matching items: %w", err)
	}

	items := make([]models.ClothingItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, c.Item)
	}

	return items, nil
}

// queryEmbedding returns the embedding for query, via the LRU cache when
// configured. singleflight collapses concurrent loads of the same query.
func (s *OutfitService) queryEmbedding(ctx context.Context, query string) ([]float32, error) {
	if s.queryCache == nil {
		return s.embedder.EmbedText(ctx, query)
	}

	if vec, ok := s.queryCache.Get(query); ok {
		return vec, nil
	}

	val, err, _ := s.queryLoadGroup.Do(query, func() (any, error) {
		vec, loadErr := s.embedder.EmbedText(ctx, query)
		if loadErr != nil {
			return nil, fmt.Errorf("embed text: %w", loadErr)
		}

		s.queryCache.Add(query, vec)

		return vec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	return val.([]float32), nil
}
