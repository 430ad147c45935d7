package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wferrors "github.com/closetly/wardrobe/internal/errors"
	"github.com/closetly/wardrobe/internal/models"
	"github.com/closetly/wardrobe/internal/service"
)

type mockOutfitService struct {
	generateFunc func(ctx context.Context, query string, limit int) ([]models.Outfit, error)
	matchingFunc func(ctx context.Context, itemID uuid.UUID, limit int) ([]models.ClothingItem, error)
}

func (m *mockOutfitService) GenerateOutfits(ctx context.Context, query string, limit int) ([]models.Outfit, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, query, limit)
	}

	return nil, nil
}

func (m *mockOutfitService) MatchingItems(ctx context.Context, itemID uuid.UUID, limit int) ([]models.ClothingItem, error) {
	if m.matchingFunc != nil {
		return m.matchingFunc(ctx, itemID, limit)
	}

	return nil, nil
}

func TestOutfitHandler_Generate(t *testing.T) {
	t.Run("returns outfits for a valid query", func(t *testing.T) {
		outfit := models.Outfit{
			Top:    models.ClothingItem{ID: uuid.New(), Name: "tee", Category: models.CategoryTop},
			Bottom: models.ClothingItem{ID: uuid.New(), Name: "jeans", Category: models.CategoryBottom},
			Query:  "casual friday",
			Score:  0.81,
		}

		handler := NewOutfitHandler(&mockOutfitService{
			generateFunc: func(_ context.Context, query string, limit int) ([]models.Outfit, error) {
				assert.Equal(t, "casual friday", query)
				assert.Equal(t, 3, limit)

				return []models.Outfit{outfit}, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/outfits/generate",
			strings.NewReader(`{"query":"casual friday","limit":3}`))
		rec := httptest.NewRecorder()

		handler.Generate(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp GenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Outfits, 1)
		assert.Equal(t, "tee", resp.Outfits[0].Top.Name)
		assert.InDelta(t, 0.81, resp.Outfits[0].Score, 1e-9)
	})

	t.Run("no candidates yields an empty list, not an error", func(t *testing.T) {
		handler := NewOutfitHandler(&mockOutfitService{})

		req := httptest.NewRequest(http.MethodPost, "/v1/outfits/generate",
			strings.NewReader(`{"query":"ball gown","limit":3}`))
		rec := httptest.NewRecorder()

		handler.Generate(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"outfits":[]}`, rec.Body.String())
	})

	t.Run("empty query is a 400", func(t *testing.T) {
		handler := NewOutfitHandler(&mockOutfitService{
			generateFunc: func(_ context.Context, _ string, _ int) ([]models.Outfit, error) {
				return nil, service.ErrEmptyQuery
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/outfits/generate",
			strings.NewReader(`{"query":"","limit":3}`))
		rec := httptest.NewRecorder()

		handler.Generate(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		handler := NewOutfitHandler(&mockOutfitService{})

		req := httptest.NewRequest(http.MethodPost, "/v1/outfits/generate",
			strings.NewReader(`{"query":"x","bogus":true}`))
		rec := httptest.NewRecorder()

		handler.Generate(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		handler := NewOutfitHandler(&mockOutfitService{
			generateFunc: func(_ context.Context, _ string, limit int) ([]models.Outfit, error) {
				assert.Equal(t, maxOutfitLimit, limit)

				return nil, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/outfits/generate",
			strings.NewReader(`{"query":"x","limit":500}`))
		rec := httptest.NewRecorder()

		handler.Generate(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("upstream failure is a 502", func(t *testing.T) {
		handler := NewOutfitHandler(&mockOutfitService{
			generateFunc: func(_ context.Context, _ string, _ int) ([]models.Outfit, error) {
				return nil, errors.New("embedding service down")
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/outfits/generate",
			strings.NewReader(`{"query":"x"}`))
		rec := httptest.NewRecorder()

		handler.Generate(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestOutfitHandler_Matches(t *testing.T) {
	t.Run("returns matching items", func(t *testing.T) {
		id := uuid.New()
		handler := NewOutfitHandler(&mockOutfitService{
			matchingFunc: func(_ context.Context, itemID uuid.UUID, limit int) ([]models.ClothingItem, error) {
				assert.Equal(t, id, itemID)
				assert.Equal(t, 5, limit)

				return []models.ClothingItem{
					{ID: uuid.New(), Name: "chinos", Category: models.CategoryBottom},
				}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/wardrobe/items/"+id.String()+"/matches?limit=5", nil)
		req.SetPathValue("id", id.String())
		rec := httptest.NewRecorder()

		handler.Matches(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp MatchesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "chinos", resp.Items[0].Name)
	})

	t.Run("unknown source item is a 404", func(t *testing.T) {
		id := uuid.New()
		handler := NewOutfitHandler(&mockOutfitService{
			matchingFunc: func(_ context.Context, _ uuid.UUID, _ int) ([]models.ClothingItem, error) {
				return nil, wferrors.NewNotFoundError("item", "item not found")
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/wardrobe/items/"+id.String()+"/matches", nil)
		req.SetPathValue("id", id.String())
		rec := httptest.NewRecorder()

		handler.Matches(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		handler := NewOutfitHandler(&mockOutfitService{})

		req := httptest.NewRequest(http.MethodGet, "/v1/wardrobe/items/nope/matches", nil)
		req.SetPathValue("id", "nope")
		rec := httptest.NewRecorder()

		handler.Matches(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
