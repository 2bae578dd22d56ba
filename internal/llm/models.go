package llm

import (
	"errors"
	"fmt"
)

// Supported embedding models.
const (
	EmbeddingModelSmall = "text-embedding-3-small"
	EmbeddingModelLarge = "text-embedding-3-large"
)

// Models assigned to corpora that do not specify their own.
const (
	DefaultEmbeddingModel  = EmbeddingModelSmall
	DefaultCompletionModel = "gpt-4o-mini"
)

// ErrUnknownModel is returned when a model name has no entry in the
// dimension and pricing tables.
var ErrUnknownModel = errors.New("unknown model")

// modelDimensions maps each supported embedding model to the vector size it
// produces. Collections are created with these sizes, so the values must
// match what the API actually returns.
var modelDimensions = map[string]int{
	EmbeddingModelSmall: 1536,
	EmbeddingModelLarge: 3072,
}

// modelPricing maps each supported embedding model to its USD price per
// 1,000 tokens.
var modelPricing = map[string]float64{
	EmbeddingModelSmall: 0.00002,
	EmbeddingModelLarge: 0.00013,
}

// EmbeddingDimension returns the vector size produced by the given embedding model.
func EmbeddingDimension(model string) (int, error) {
	dim, ok := modelDimensions[model]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	return dim, nil
}

// CostPerToken returns the USD cost of embedding a single token with the
// given model.
func CostPerToken(model string) (float64, error) {
	price, ok := modelPricing[model]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	return price / 1000, nil
}
