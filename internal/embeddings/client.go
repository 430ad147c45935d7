package embeddings

import "context"

// Client defines the interface for generating image and text embeddings in
// a shared vector space. Implementations must return L2-normalized vectors
// of a fixed dimension.
type Client interface {
	// EmbedImage generates an embedding vector for the given image bytes.
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)

	// EmbedText generates an embedding vector for the given text in the
	// same vector space as EmbedImage.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}
