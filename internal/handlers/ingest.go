package handlers

import (
	"context"
	"net/http"

	"ragonquest/internal/contextutil"
	"ragonquest/internal/ingest"
	"ragonquest/internal/storage"
)

// Ingestor runs the ingestion pipeline over a corpus's pending files.
type Ingestor interface {
	IngestCorpus(ctx context.Context, corpus *storage.CorpusRecord, files []storage.CorpusFileRecord, params ingest.Params) []ingest.Result
}

// IngestHandler handles HTTP requests that trigger ingestion.
type IngestHandler struct {
	corpusRepo storage.CorpusStore
	fileRepo   storage.FileStore
	ingestor   Ingestor
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(corpusRepo storage.CorpusStore, fileRepo storage.FileStore, ingestor Ingestor) *IngestHandler {
	return &IngestHandler{
		corpusRepo: corpusRepo,
		fileRepo:   fileRepo,
		ingestor:   ingestor,
	}
}

// Ingest handles POST /corpora/{corpusID}/ingest. It runs the pipeline over
// every file that has not been ingested yet and reports one result per file.
// Chunking parameters come from query parameters, falling back to defaults.
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}

	params := ingest.DefaultParams()
	var err error
	if params.ChunkSize, err = queryInt(r, "chunk_size", params.ChunkSize); err != nil {
		handleServiceError(w, r, err, "")
		return
	}
	if params.ChunkOverlap, err = queryInt(r, "chunk_overlap", params.ChunkOverlap); err != nil {
		handleServiceError(w, r, err, "")
		return
	}
	if params.BatchSize, err = queryInt(r, "batch_size", params.BatchSize); err != nil {
		handleServiceError(w, r, err, "")
		return
	}
	if err := params.Validate(); err != nil {
		handleServiceError(w, r, err, "")
		return
	}

	files, err := h.fileRepo.ListUningested(ctx, corpus.ID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list uningested files", "corpus_id", corpus.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list corpus files")
		return
	}

	results := h.ingestor.IngestCorpus(ctx, corpus, files, params)
	if results == nil {
		results = []ingest.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}
