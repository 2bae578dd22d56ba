package handlers

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ragonquest/internal/contextutil"
	"ragonquest/internal/llm"
	"ragonquest/internal/service"
	"ragonquest/internal/source"
	"ragonquest/internal/storage"
)

const (
	defaultSimilarityThreshold = 0.7
	defaultListLimit           = 100
)

// CorpusHandler handles HTTP requests for corpus management.
type CorpusHandler struct {
	corpusRepo storage.CorpusStore
	fileRepo   storage.FileStore
}

// NewCorpusHandler creates a new CorpusHandler.
func NewCorpusHandler(corpusRepo storage.CorpusStore, fileRepo storage.FileStore) *CorpusHandler {
	return &CorpusHandler{
		corpusRepo: corpusRepo,
		fileRepo:   fileRepo,
	}
}

// CorpusCreateRequest represents the HTTP request payload for creating a corpus.
//
// swagger:model CorpusCreateRequest
type CorpusCreateRequest struct {
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	DefaultPrompt       string   `json:"default_prompt"`
	CollectionName      string   `json:"collection_name"`
	Path                string   `json:"path"`
	EmbeddingModel      string   `json:"embedding_model,omitempty"`
	CompletionModel     string   `json:"completion_model,omitempty"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty"`
}

// CorpusUpdateRequest represents the HTTP request payload for updating a
// corpus. Absent fields keep their current value.
//
// swagger:model CorpusUpdateRequest
type CorpusUpdateRequest struct {
	Name                *string  `json:"name,omitempty"`
	Description         *string  `json:"description,omitempty"`
	DefaultPrompt       *string  `json:"default_prompt,omitempty"`
	CollectionName      *string  `json:"collection_name,omitempty"`
	Path                *string  `json:"path,omitempty"`
	EmbeddingModel      *string  `json:"embedding_model,omitempty"`
	CompletionModel     *string  `json:"completion_model,omitempty"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty"`
}

// CorpusResponse represents a corpus in HTTP responses.
//
// swagger:model CorpusResponse
type CorpusResponse struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	DefaultPrompt       string  `json:"default_prompt"`
	CollectionName      string  `json:"collection_name"`
	Path                string  `json:"path"`
	EmbeddingModel      string  `json:"embedding_model"`
	CompletionModel     string  `json:"completion_model"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// CorpusFileResponse represents a registered corpus file in HTTP responses.
//
// swagger:model CorpusFileResponse
type CorpusFileResponse struct {
	ID         string `json:"id"`
	CorpusID   string `json:"corpus_id"`
	Filename   string `json:"filename"`
	IsIngested bool   `json:"is_ingested"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func corpusResponse(c *storage.CorpusRecord) CorpusResponse {
	return CorpusResponse{
		ID:                  c.ID,
		Name:                c.Name,
		Description:         c.Description,
		DefaultPrompt:       c.DefaultPrompt,
		CollectionName:      c.CollectionName,
		Path:                c.Path,
		EmbeddingModel:      c.EmbeddingModel,
		CompletionModel:     c.CompletionModel,
		SimilarityThreshold: c.SimilarityThreshold,
		CreatedAt:           formatTime(c.CreatedAt),
		UpdatedAt:           formatTime(c.UpdatedAt),
	}
}

func corpusFileResponse(f *storage.CorpusFileRecord) CorpusFileResponse {
	return CorpusFileResponse{
		ID:         f.ID,
		CorpusID:   f.CorpusID,
		Filename:   f.Filename,
		IsIngested: f.IsIngested,
		CreatedAt:  formatTime(f.CreatedAt),
		UpdatedAt:  formatTime(f.UpdatedAt),
	}
}

// validateModels checks the model names and similarity threshold of a corpus
// before it is persisted. The embedding model must be one the service can
// tokenize and price; the completion model is free-form.
func validateModels(embeddingModel string, threshold float64) error {
	if _, err := llm.EmbeddingDimension(embeddingModel); err != nil {
		return &service.ValidationError{Field: "embedding_model", Message: "unknown embedding model " + embeddingModel}
	}
	if threshold < 0 || threshold > 1 {
		return &service.ValidationError{Field: "similarity_threshold", Message: "must be between 0 and 1"}
	}
	return nil
}

// Create handles POST /corpora.
func (h *CorpusHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req CorpusCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate request
	required := map[string]string{
		"name":            req.Name,
		"default_prompt":  req.DefaultPrompt,
		"collection_name": req.CollectionName,
		"path":            req.Path,
	}
	for field, value := range required {
		if value == "" {
			handleServiceError(w, r, &service.ValidationError{Field: field, Message: "is required"}, "")
			return
		}
	}

	corpus := &storage.CorpusRecord{
		Name:                req.Name,
		Description:         req.Description,
		DefaultPrompt:       req.DefaultPrompt,
		CollectionName:      req.CollectionName,
		Path:                req.Path,
		EmbeddingModel:      req.EmbeddingModel,
		CompletionModel:     req.CompletionModel,
		SimilarityThreshold: defaultSimilarityThreshold,
	}
	if corpus.EmbeddingModel == "" {
		corpus.EmbeddingModel = llm.DefaultEmbeddingModel
	}
	if corpus.CompletionModel == "" {
		corpus.CompletionModel = llm.DefaultCompletionModel
	}
	if req.SimilarityThreshold != nil {
		corpus.SimilarityThreshold = *req.SimilarityThreshold
	}
	if err := validateModels(corpus.EmbeddingModel, corpus.SimilarityThreshold); err != nil {
		handleServiceError(w, r, err, "")
		return
	}

	// Corpus names are unique; reject duplicates before inserting.
	if _, err := h.corpusRepo.GetByName(ctx, corpus.Name); err == nil {
		logger.WarnContext(ctx, "corpus name already in use", "name", corpus.Name)
		writeError(w, http.StatusBadRequest, "A corpus with this name already exists")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.ErrorContext(ctx, "failed to check corpus name", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create corpus")
		return
	}

	if err := h.corpusRepo.Create(ctx, corpus); err != nil {
		logger.ErrorContext(ctx, "failed to create corpus", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create corpus")
		return
	}

	logger.InfoContext(ctx, "corpus created", "corpus_id", corpus.ID, "name", corpus.Name)
	writeJSON(w, http.StatusCreated, corpusResponse(corpus))
}

// List handles GET /corpora with offset/limit pagination.
func (h *CorpusHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleServiceError(w, r, err, "")
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil {
		handleServiceError(w, r, err, "")
		return
	}
	if offset < 0 {
		handleServiceError(w, r, &service.ValidationError{Field: "offset", Message: "must not be negative"}, "")
		return
	}
	if limit <= 0 {
		handleServiceError(w, r, &service.ValidationError{Field: "limit", Message: "must be positive"}, "")
		return
	}

	corpora, err := h.corpusRepo.List(ctx, offset, limit)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list corpora", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list corpora")
		return
	}

	resp := make([]CorpusResponse, 0, len(corpora))
	for i := range corpora {
		resp = append(resp, corpusResponse(&corpora[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /corpora/{corpusID}.
func (h *CorpusHandler) Get(w http.ResponseWriter, r *http.Request) {
	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}
	writeJSON(w, http.StatusOK, corpusResponse(corpus))
}

// Update handles PATCH /corpora/{corpusID}. Only the fields present in the
// request change; updated_at is bumped on success.
func (h *CorpusHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}

	var req CorpusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil && *req.Name != corpus.Name {
		if *req.Name == "" {
			handleServiceError(w, r, &service.ValidationError{Field: "name", Message: "is required"}, "")
			return
		}
		if _, err := h.corpusRepo.GetByName(ctx, *req.Name); err == nil {
			logger.WarnContext(ctx, "corpus name already in use", "name", *req.Name)
			writeError(w, http.StatusBadRequest, "A corpus with this name already exists")
			return
		} else if !errors.Is(err, storage.ErrNotFound) {
			logger.ErrorContext(ctx, "failed to check corpus name", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update corpus")
			return
		}
		corpus.Name = *req.Name
	}
	if req.Description != nil {
		corpus.Description = *req.Description
	}
	if req.DefaultPrompt != nil {
		corpus.DefaultPrompt = *req.DefaultPrompt
	}
	if req.CollectionName != nil {
		corpus.CollectionName = *req.CollectionName
	}
	if req.Path != nil {
		corpus.Path = *req.Path
	}
	if req.EmbeddingModel != nil {
		corpus.EmbeddingModel = *req.EmbeddingModel
	}
	if req.CompletionModel != nil {
		corpus.CompletionModel = *req.CompletionModel
	}
	if req.SimilarityThreshold != nil {
		corpus.SimilarityThreshold = *req.SimilarityThreshold
	}
	if err := validateModels(corpus.EmbeddingModel, corpus.SimilarityThreshold); err != nil {
		handleServiceError(w, r, err, "")
		return
	}

	if err := h.corpusRepo.Update(ctx, corpus); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Corpus not found")
			return
		}
		logger.ErrorContext(ctx, "failed to update corpus", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update corpus")
		return
	}

	logger.InfoContext(ctx, "corpus updated", "corpus_id", corpus.ID)
	writeJSON(w, http.StatusOK, corpusResponse(corpus))
}

// Delete handles DELETE /corpora/{corpusID}. Deleting a missing corpus
// succeeds, so the operation is safe to retry.
func (h *CorpusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "corpusID")

	if err := h.corpusRepo.Delete(ctx, id); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to delete corpus", "corpus_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete corpus")
		return
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "corpus deleted", "corpus_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Scan handles POST /corpora/{corpusID}/scan. It walks the corpus directory
// for documents and registers any it has not seen before. Already registered
// files keep their ingestion state; the response lists only the new ones.
func (h *CorpusHandler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}
	if corpus.Path == "" {
		handleServiceError(w, r, &service.ValidationError{Field: "path", Message: "corpus has no document path configured"}, "")
		return
	}

	found, err := source.NewDir(corpus.Path).Scan(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			handleServiceError(w, r, &service.ValidationError{Field: "path", Message: "corpus path does not exist"}, "")
			return
		}
		if errors.Is(err, source.ErrNotDirectory) {
			handleServiceError(w, r, &service.ValidationError{Field: "path", Message: "corpus path is not a directory"}, "")
			return
		}
		logger.ErrorContext(ctx, "failed to scan corpus directory", "path", corpus.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to scan corpus directory")
		return
	}

	existing, err := h.fileRepo.ListByCorpus(ctx, corpus.ID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list corpus files", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to scan corpus directory")
		return
	}
	known := make(map[string]bool, len(existing))
	for _, f := range existing {
		known[f.Filename] = true
	}

	added := make([]CorpusFileResponse, 0)
	for _, doc := range found {
		if known[doc.Name] {
			continue
		}
		record := &storage.CorpusFileRecord{
			CorpusID: corpus.ID,
			Filename: doc.Name,
		}
		if err := h.fileRepo.Insert(ctx, record); err != nil {
			logger.ErrorContext(ctx, "failed to register corpus file", "filename", doc.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to register corpus files")
			return
		}
		added = append(added, corpusFileResponse(record))
	}

	logger.InfoContext(ctx, "corpus scanned", "corpus_id", corpus.ID, "found", len(found), "added", len(added))
	writeJSON(w, http.StatusOK, added)
}

// ListFiles handles GET /corpora/{corpusID}/files.
func (h *CorpusHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}

	files, err := h.fileRepo.ListByCorpus(ctx, corpus.ID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list corpus files", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list corpus files")
		return
	}

	resp := make([]CorpusFileResponse, 0, len(files))
	for i := range files {
		resp = append(resp, corpusFileResponse(&files[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}
