package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTagVocabulary struct {
	nearestFunc func(ctx context.Context, queryEmbedding []float32, k int) ([]string, error)
}

func (m *mockTagVocabulary) NearestLabels(ctx context.Context, queryEmbedding []float32, k int) ([]string, error) {
	if m.nearestFunc != nil {
		return m.nearestFunc(ctx, queryEmbedding, k)
	}

	return nil, nil
}

func TestTagService_ResolveTags(t *testing.T) {
	t.Run("returns labels nearest-first with K=5", func(t *testing.T) {
		embedding := []float32{0.1, 0.2}
		svc := NewTagService(&mockTagVocabulary{
			nearestFunc: func(_ context.Context, vec []float32, k int) ([]string, error) {
				assert.Equal(t, embedding, vec)
				assert.Equal(t, 5, k)

				return []string{"denim", "blue", "casual", "denim", "streetwear"}, nil
			},
		}, nil)

		tags, err := svc.ResolveTags(context.Background(), embedding)
		require.NoError(t, err)
		// Order preserved, duplicates allowed.
		assert.Equal(t, []string{"denim", "blue", "casual", "denim", "streetwear"}, tags)
	})

	t.Run("propagates vocabulary failure", func(t *testing.T) {
		boom := errors.New("tags collection unreachable")
		svc := NewTagService(&mockTagVocabulary{
			nearestFunc: func(_ context.Context, _ []float32, _ int) ([]string, error) {
				return nil, boom
			},
		}, nil)

		tags, err := svc.ResolveTags(context.Background(), []float32{1})
		assert.Nil(t, tags)
		assert.ErrorIs(t, err, boom)
	})
}
