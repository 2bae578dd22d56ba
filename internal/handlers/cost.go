package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ragonquest/internal/contextutil"
	"ragonquest/internal/cost"
	"ragonquest/internal/storage"
)

// CostEstimator predicts embedding cost without calling the provider.
type CostEstimator interface {
	EstimateCorpusFile(ctx context.Context, corpus *storage.CorpusRecord, file *storage.CorpusFileRecord) (*cost.CorpusFileEstimate, error)
	EstimateCorpus(ctx context.Context, corpus *storage.CorpusRecord, files []storage.CorpusFileRecord, includeIngested bool) (*cost.CorpusSummary, error)
}

// CostHandler handles HTTP requests for embedding cost estimates.
type CostHandler struct {
	corpusRepo storage.CorpusStore
	fileRepo   storage.FileStore
	estimator  CostEstimator
}

// NewCostHandler creates a new CostHandler.
func NewCostHandler(corpusRepo storage.CorpusStore, fileRepo storage.FileStore, estimator CostEstimator) *CostHandler {
	return &CostHandler{
		corpusRepo: corpusRepo,
		fileRepo:   fileRepo,
		estimator:  estimator,
	}
}

// FileEstimate handles GET /corpora/{corpusID}/files/{fileID}/cost_estimate.
func (h *CostHandler) FileEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}

	fileID := chi.URLParam(r, "fileID")
	file, err := h.fileRepo.GetByID(ctx, corpus.ID, fileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		logger.ErrorContext(ctx, "failed to load corpus file", "file_id", fileID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load corpus file")
		return
	}

	estimate, err := h.estimator.EstimateCorpusFile(ctx, corpus, file)
	if err != nil {
		if errors.Is(err, cost.ErrNoEstimate) {
			logger.WarnContext(ctx, "cost estimate unavailable", "file_id", fileID, "error", err)
			writeError(w, http.StatusBadRequest, "Could not read file for cost estimation")
			return
		}
		handleServiceError(w, r, err, "Failed to estimate cost")
		return
	}

	writeJSON(w, http.StatusOK, estimate)
}

// CorpusEstimate handles GET /corpora/{corpusID}/cost_estimate. By default
// only files awaiting ingestion are counted; pass include_ingested=true to
// price the whole corpus.
func (h *CostHandler) CorpusEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}

	includeIngested := r.URL.Query().Get("include_ingested") == "true"

	files, err := h.fileRepo.ListByCorpus(ctx, corpus.ID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list corpus files", "corpus_id", corpus.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list corpus files")
		return
	}

	summary, err := h.estimator.EstimateCorpus(ctx, corpus, files, includeIngested)
	if err != nil {
		if errors.Is(err, cost.ErrNoEstimate) {
			logger.WarnContext(ctx, "cost estimate unavailable", "corpus_id", corpus.ID, "error", err)
			writeError(w, http.StatusBadRequest, "No files available for cost estimation")
			return
		}
		handleServiceError(w, r, err, "Failed to estimate cost")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
