package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// CLIPClient implements the Client interface against a CLIP inference
// service over HTTP. The service exposes POST /embed/image (multipart) and
// POST /embed/text (JSON), both returning {"embedding": [...]}.
type CLIPClient struct {
	baseURL    string
	httpClient *retryablehttp.Client
	limiter    *rate.Limiter
	dimensions int
}

// Ensure CLIPClient implements Client interface
var _ Client = (*CLIPClient)(nil)

// NewCLIPClient creates a client for the CLIP inference service.
// Panics if baseURL is empty. dimensions is the expected vector length;
// responses with a different length are rejected. limiter may be nil
// (no rate limiting).
func NewCLIPClient(baseURL string, dimensions int, limiter *rate.Limiter) *CLIPClient {
	if baseURL == "" {
		panic("embeddings: CLIP service base URL cannot be empty")
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 2
	httpClient.Logger = nil

	return &CLIPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		dimensions: dimensions,
	}
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// EmbedImage sends the image to the inference service and returns its embedding.
func (c *CLIPClient) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image cannot be empty")
	}

	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "image")
	if err != nil {
		return nil, fmt.Errorf("create multipart part: %w", err)
	}

	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write image to multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return c.post(ctx, "/embed/image", writer.FormDataContentType(), &body)
}

// EmbedText sends the text to the inference service and returns its embedding.
func (c *CLIPClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal text payload: %w", err)
	}

	return c.post(ctx, "/embed/text", "application/json", bytes.NewReader(payload))
}

func (c *CLIPClient) post(ctx context.Context, path, contentType string, body io.Reader) ([]float32, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embedding rate limit: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	if len(parsed.Embedding) != c.dimensions {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, expected %d", len(parsed.Embedding), c.dimensions)
	}

	return parsed.Embedding, nil
}
