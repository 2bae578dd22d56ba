package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// EmbeddingsClient is a client for the OpenAI embeddings API.
type EmbeddingsClient struct {
	client *openai.Client
}

// NewEmbeddingsClient creates a new embeddings client. baseURL overrides the
// default OpenAI endpoint when non-empty.
func NewEmbeddingsClient(apiKey, baseURL string) *EmbeddingsClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &EmbeddingsClient{client: openai.NewClientWithConfig(cfg)}
}

// EmbedTexts generates embeddings for the given texts, batching the API
// calls so that no request carries more than batchSize inputs. Vectors are
// returned in input order, one per text, and validated against the model's
// expected dimension. An error on any batch aborts the remaining batches.
//
// An empty texts slice returns an empty result without calling the API.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, model string, texts []string, batchSize int) ([][]float32, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	expectedSize, err := EmbeddingDimension(model)
	if err != nil {
		return nil, err
	}

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(model),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch starting at %d: %w", start, err)
		}

		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(batch), len(resp.Data))
		}

		for i, data := range resp.Data {
			if len(data.Embedding) != expectedSize {
				return nil, fmt.Errorf("embedding %d has size %d, expected %d", start+i, len(data.Embedding), expectedSize)
			}
			result = append(result, data.Embedding)
		}
	}

	return result, nil
}
