package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks ragonquest/internal/rag Engine

import (
	"context"
	"fmt"
	"strings"

	"ragonquest/internal/contextutil"
	"ragonquest/internal/llm"
	"ragonquest/internal/service"
	"ragonquest/internal/storage"
	"ragonquest/internal/vectorstore"
)

// NoContextAnswer is the fixed answer returned when no retrieved chunk
// clears the similarity threshold. The completion model is not called in
// that case.
const NoContextAnswer = "I couldn't find any relevant information in the corpus to answer your question."

// fallbackSystemPrompt stands in when a corpus has no default prompt.
const fallbackSystemPrompt = "You are a helpful assistant that answers questions based on the provided context."

const defaultLimit = 5

// Engine answers questions against a corpus using retrieval-augmented
// generation.
type Engine interface {
	// Query embeds the query, retrieves the nearest chunks above the
	// similarity threshold, and generates an answer grounded in them.
	// Errors wrap the service sentinels so callers can branch on kind.
	Query(ctx context.Context, req QueryRequest) (QueryResult, error)
}

// Embedder turns a batch of texts into one vector per text, in order.
type Embedder interface {
	EmbedTexts(ctx context.Context, model string, texts []string, batchSize int) ([][]float32, error)
}

// Completer generates a chat completion for the given messages.
type Completer interface {
	Complete(ctx context.Context, model string, messages []llm.Message) (string, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder    Embedder
	completer   Completer
	vectorStore vectorstore.VectorStore
}

// NewEngine creates a new RAG engine.
func NewEngine(embedder Embedder, completer Completer, vectorStore vectorstore.VectorStore) Engine {
	return &ragEngine{
		embedder:    embedder,
		completer:   completer,
		vectorStore: vectorStore,
	}
}

// Query answers a question against the request's corpus.
func (e *ragEngine) Query(ctx context.Context, req QueryRequest) (QueryResult, error) {
	logger := contextutil.LoggerFromContext(ctx)
	corpus := req.Corpus

	if strings.TrimSpace(req.Query) == "" {
		return QueryResult{}, fmt.Errorf("query must not be empty: %w", service.ErrInvalidInput)
	}
	if corpus.CollectionName == "" {
		return QueryResult{}, fmt.Errorf("corpus %q has no collection name: %w", corpus.Name, service.ErrInvalidInput)
	}
	if _, err := llm.EmbeddingDimension(corpus.EmbeddingModel); err != nil {
		return QueryResult{}, fmt.Errorf("%w: %w", service.ErrInvalidInput, err)
	}

	threshold := corpus.SimilarityThreshold
	if req.SimilarityThreshold != nil {
		threshold = *req.SimilarityThreshold
	}
	if threshold < 0 || threshold > 1 {
		return QueryResult{}, fmt.Errorf("similarity threshold %v is outside [0, 1]: %w", threshold, service.ErrInvalidInput)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	logger.InfoContext(ctx, "corpus query started",
		"corpus", corpus.Name, "limit", limit, "threshold", threshold, "history_turns", len(req.History))

	// Embed the query
	vectors, err := e.embedder.EmbedTexts(ctx, corpus.EmbeddingModel, []string{req.Query}, 1)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to embed query: %w: %w", service.ErrExternalService, err)
	}
	if len(vectors) == 0 {
		return QueryResult{}, fmt.Errorf("no embedding returned for query: %w", service.ErrExternalService)
	}

	// Retrieve the nearest chunks
	hits, err := e.vectorStore.Search(ctx, corpus.CollectionName, vectors[0], limit)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to search collection %q: %w: %w", corpus.CollectionName, service.ErrExternalService, err)
	}

	// Keep hits that clear the threshold, preserving the store's
	// descending-score order, and derive sources as they appear.
	chunks := make([]string, 0, len(hits))
	sources := make([]string, 0, len(hits))
	seenSources := make(map[string]bool)
	for _, hit := range hits {
		if float64(hit.Score) < threshold {
			continue
		}
		text, _ := hit.Payload["text"].(string)
		chunks = append(chunks, text)
		if src, _ := hit.Payload["source_file"].(string); src != "" && !seenSources[src] {
			seenSources[src] = true
			sources = append(sources, src)
		}
	}

	result := QueryResult{
		Query:              req.Query,
		ContextChunks:      chunks,
		Sources:            sources,
		ModelUsed:          corpus.CompletionModel,
		EmbeddingModelUsed: corpus.EmbeddingModel,
		ChunksRetrieved:    len(chunks),
	}

	if len(chunks) == 0 {
		logger.InfoContext(ctx, "no chunks above threshold",
			"corpus", corpus.Name, "hits", len(hits), "threshold", threshold)
		result.Answer = NoContextAnswer
		return result, nil
	}

	// Generate the answer
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt(corpus)},
		{Role: "user", Content: buildUserMessage(chunks, req.History, req.Query)},
	}
	answer, err := e.completer.Complete(ctx, corpus.CompletionModel, messages)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to generate answer: %w: %w", service.ErrExternalService, err)
	}
	result.Answer = answer

	logger.InfoContext(ctx, "corpus query completed",
		"corpus", corpus.Name, "chunks_used", len(chunks), "sources", len(sources), "answer_length", len(answer))
	return result, nil
}

func systemPrompt(corpus *storage.CorpusRecord) string {
	if prompt := strings.TrimSpace(corpus.DefaultPrompt); prompt != "" {
		return prompt
	}
	return fallbackSystemPrompt
}

// buildUserMessage lays out the retrieved context, the prior conversation
// turns if any, and the current question.
func buildUserMessage(chunks []string, history []HistoryTurn, query string) string {
	sections := []string{
		"Context:\n" + strings.Join(chunks, "\n\n"),
	}
	if len(history) > 0 {
		var b strings.Builder
		b.WriteString("Previous conversation:")
		for _, turn := range history {
			b.WriteString("\nUser: ")
			b.WriteString(turn.Query)
			b.WriteString("\nAssistant: ")
			b.WriteString(turn.Answer)
		}
		sections = append(sections, b.String())
	}
	sections = append(sections, "Question: "+query)
	return strings.Join(sections, "\n\n")
}
