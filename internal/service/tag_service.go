package service

import (
	"context"
	"fmt"
	"log/slog"
)

// tagNeighborCount is how many nearest tag vectors label an item.
const tagNeighborCount = 5

// TagVocabulary provides the nearest-label lookup over the fixed tag set.
type TagVocabulary interface {
	NearestLabels(ctx context.Context, queryEmbedding []float32, k int) ([]string, error)
}

// TagService resolves tags for an embedding by nearest-neighbor lookup
// against the fixed tag vocabulary.
type TagService struct {
	vocabulary TagVocabulary
	logger     *slog.Logger
}

// NewTagService creates a TagService. logger may be nil (slog default).
func NewTagService(vocabulary TagVocabulary, logger *slog.Logger) *TagService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TagService{vocabulary: vocabulary, logger: logger}
}

// ResolveTags returns the labels of the nearest tag vectors to embedding,
// nearest first. Duplicates are returned as the store yields them. A store
// failure propagates; the caller decides whether to abort (upload currently
// does).
func (s *TagService) ResolveTags(ctx context.Context, embedding []float32) ([]string, error) {
	labels, err := s.vocabulary.NearestLabels(ctx, embedding, tagNeighborCount)
	if err != nil {
		s.logger.Error("resolve tags: nearest labels failed", "error", err)

		return nil, fmt.Errorf("nearest tag labels: %w", err)
	}

	return labels, nil
}
