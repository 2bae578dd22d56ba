package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ragonquest/internal/contextutil"
	"ragonquest/internal/llm"
	"ragonquest/internal/source"
	"ragonquest/internal/storage"
	"ragonquest/internal/vectorstore"
)

// Embedder turns a batch of texts into one vector per text, in order.
type Embedder interface {
	EmbedTexts(ctx context.Context, model string, texts []string, batchSize int) ([][]float32, error)
}

// Pipeline orchestrates the ingestion of corpus documents into the vector
// store: read, chunk, embed batch by batch, upsert, and mark the file
// ingested once all of its points are stored.
type Pipeline struct {
	tokenizers  TokenizerProvider
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	fileRepo    storage.FileStore
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	tokenizers TokenizerProvider,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	fileRepo storage.FileStore,
) *Pipeline {
	return &Pipeline{
		tokenizers:  tokenizers,
		embedder:    embedder,
		vectorStore: vectorStore,
		fileRepo:    fileRepo,
	}
}

// IngestCorpus ingests the given files in order. A failing file does not
// stop the remaining ones; each file reports its own result. Files are
// only attempted while the context is live.
func (p *Pipeline) IngestCorpus(ctx context.Context, corpus *storage.CorpusRecord, files []storage.CorpusFileRecord, params Params) []Result {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "starting ingestion",
		"corpus", corpus.Name, "files", len(files),
		"chunk_size", params.ChunkSize, "chunk_overlap", params.ChunkOverlap, "batch_size", params.BatchSize)

	results := make([]Result, 0, len(files))
	var successCount, errorCount int
	for i := range files {
		if ctx.Err() != nil {
			break
		}

		result := p.IngestFile(ctx, corpus, &files[i], params)
		results = append(results, result)
		if result.Success {
			successCount++
		} else {
			errorCount++
		}
	}

	logger.InfoContext(ctx, "ingestion completed",
		"corpus", corpus.Name, "files", len(files), "success", successCount, "errors", errorCount)
	return results
}

// IngestFile ingests a single corpus document. Errors never propagate past
// this boundary; they are reported in the result together with the counts
// of chunks embedded and points upserted before the failure. Points from
// completed batches are not rolled back.
func (p *Pipeline) IngestFile(ctx context.Context, corpus *storage.CorpusRecord, file *storage.CorpusFileRecord, params Params) Result {
	logger := contextutil.LoggerFromContext(ctx)
	result := Result{FileID: file.ID, Filename: file.Filename}

	if corpus.CollectionName == "" {
		return p.fail(ctx, result, fmt.Errorf("corpus %q has no collection name", corpus.Name))
	}

	tokenizer, err := p.tokenizers.TokenizerForModel(corpus.EmbeddingModel)
	if err != nil {
		return p.fail(ctx, result, fmt.Errorf("failed to load tokenizer for model %q: %w", corpus.EmbeddingModel, err))
	}

	chunker, err := NewTokenChunker(tokenizer, params.ChunkSize, params.ChunkOverlap)
	if err != nil {
		return p.fail(ctx, result, err)
	}

	// Read and chunk the document
	text, err := source.NewDir(corpus.Path).Read(file.Filename)
	if err != nil {
		return p.fail(ctx, result, fmt.Errorf("failed to read file %s: %w", file.Filename, err))
	}

	chunks := chunker.Chunk(text)
	if len(chunks) == 0 {
		// An empty document has nothing to embed but still counts as ingested.
		logger.WarnContext(ctx, "no chunks generated", "file", file.Filename)
		return p.finish(ctx, result, file)
	}

	// Create the collection on first use, sized to the embedding model
	dimension, err := llm.EmbeddingDimension(corpus.EmbeddingModel)
	if err != nil {
		return p.fail(ctx, result, err)
	}
	if err := p.vectorStore.EnsureCollection(ctx, corpus.CollectionName, dimension); err != nil {
		return p.fail(ctx, result, fmt.Errorf("failed to ensure collection %q: %w", corpus.CollectionName, err))
	}

	// Embed and upsert batch by batch so a failure keeps earlier batches
	for start := 0; start < len(chunks); start += params.BatchSize {
		end := min(start+params.BatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		vectors, err := p.embedder.EmbedTexts(ctx, corpus.EmbeddingModel, texts, params.BatchSize)
		if err != nil {
			return p.fail(ctx, result, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end-1, err))
		}
		result.ChunksProcessed += len(batch)

		points := make([]vectorstore.Point, len(batch))
		for i, chunk := range batch {
			points[i] = vectorstore.Point{
				ID:  uuid.New().String(),
				Vec: vectors[i],
				Payload: map[string]any{
					"text":        chunk.Text,
					"source_file": file.Filename,
					"corpus_id":   corpus.ID,
					"corpus_name": corpus.Name,
					"chunk_index": chunk.Index,
				},
			}
		}

		if err := p.vectorStore.Upsert(ctx, corpus.CollectionName, points); err != nil {
			return p.fail(ctx, result, fmt.Errorf("failed to upsert chunks %d-%d: %w", start, end-1, err))
		}
		result.PointsCreated += len(points)
	}

	logger.InfoContext(ctx, "ingested file", "file", file.Filename, "chunks", result.ChunksProcessed)
	return p.finish(ctx, result, file)
}

// finish marks the file as ingested and flips the result to success.
func (p *Pipeline) finish(ctx context.Context, result Result, file *storage.CorpusFileRecord) Result {
	if err := p.fileRepo.MarkIngested(ctx, file.ID); err != nil {
		return p.fail(ctx, result, fmt.Errorf("failed to mark file as ingested: %w", err))
	}
	result.Success = true
	return result
}

func (p *Pipeline) fail(ctx context.Context, result Result, err error) Result {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "file ingestion failed", "file", result.Filename, "error", err)
	result.ErrorMessage = err.Error()
	return result
}
