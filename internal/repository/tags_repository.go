package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// TagsRepository handles reads over the fixed tag vocabulary in the
// tag_labels table. The vocabulary is seeded at install time and never
// written by the service.
type TagsRepository struct {
	db *pgxpool.Pool
}

// NewTagsRepository creates a new tags repository.
func NewTagsRepository(db *pgxpool.Pool) *TagsRepository {
	return &TagsRepository{db: db}
}

// NearestLabels returns the labels of the k tag vectors nearest to
// queryEmbedding, nearest first. Duplicate labels are returned as stored.
func (r *TagsRepository) NearestLabels(ctx context.Context, queryEmbedding []float32, k int) ([]string, error) {
	queryVec := pgvector.NewVector(queryEmbedding)

	rows, err := r.db.Query(ctx, `
		SELECT label FROM tag_labels
		ORDER BY embedding <=> $1
		LIMIT $2`,
		queryVec, k,
	)
	if err != nil {
		return nil, fmt.Errorf("nearest tag labels: %w", err)
	}
	defer rows.Close()

	var labels []string

	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan tag label: %w", err)
		}

		labels = append(labels, label)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag labels: %w", err)
	}

	return labels, nil
}
