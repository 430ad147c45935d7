package service

import (
	"fmt"
	"math"
)

// cosineSimilarity returns dot(a,b) / (|a|*|b|) in [-1, 1]. Embeddings are
// pre-normalized so this is effectively a dot product, but zero vectors are
// still defined as similarity 0 rather than a division fault. A dimension
// mismatch means a malformed stored vector and is surfaced as an error.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
