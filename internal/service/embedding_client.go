package service

import "context"

// EmbeddingClient is the embedding gateway surface the services consume.
// Satisfied by embeddings.Client.
type EmbeddingClient interface {
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
}
