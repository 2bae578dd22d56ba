package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ragonquest/internal/contextutil"
	"ragonquest/internal/rag"
	"ragonquest/internal/service"
	"ragonquest/internal/storage"
)

// ConversationHandler handles HTTP requests for conversations. Each part of
// a conversation is one retrieval-augmented query answered against the
// owning corpus; earlier parts become the history of the next query.
type ConversationHandler struct {
	corpusRepo       storage.CorpusStore
	conversationRepo storage.ConversationStore
	engine           rag.Engine
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(corpusRepo storage.CorpusStore, conversationRepo storage.ConversationStore, engine rag.Engine) *ConversationHandler {
	return &ConversationHandler{
		corpusRepo:       corpusRepo,
		conversationRepo: conversationRepo,
		engine:           engine,
	}
}

// ConversationCreateRequest represents the HTTP request payload for starting
// a conversation with its first query.
//
// swagger:model ConversationCreateRequest
type ConversationCreateRequest struct {
	Title               string   `json:"title"`
	Query               string   `json:"query"`
	Limit               int      `json:"limit,omitempty"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty"`
}

// ConversationPartCreateRequest represents the HTTP request payload for
// continuing an existing conversation.
//
// swagger:model ConversationPartCreateRequest
type ConversationPartCreateRequest struct {
	Query               string   `json:"query"`
	Limit               int      `json:"limit,omitempty"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty"`
}

// ConversationPartResponse represents one query/answer exchange in HTTP
// responses.
//
// swagger:model ConversationPartResponse
type ConversationPartResponse struct {
	ID                  string   `json:"id"`
	ConversationID      string   `json:"conversation_id"`
	Query               string   `json:"query"`
	Response            string   `json:"response"`
	ContextChunks       []string `json:"context_chunks"`
	Sources             []string `json:"sources"`
	EmbeddingModelUsed  string   `json:"embedding_model_used"`
	CompletionModelUsed string   `json:"completion_model_used"`
	ChunksRetrieved     int      `json:"chunks_retrieved"`
	CreatedAt           string   `json:"created_at"`
}

// ConversationResponse represents a conversation in HTTP responses. Parts
// are included when a single conversation is fetched or created, and omitted
// from listings.
//
// swagger:model ConversationResponse
type ConversationResponse struct {
	ID        string                     `json:"id"`
	CorpusID  string                     `json:"corpus_id"`
	Title     string                     `json:"title"`
	CreatedAt string                     `json:"created_at"`
	UpdatedAt string                     `json:"updated_at"`
	Parts     []ConversationPartResponse `json:"parts,omitempty"`
}

func conversationResponse(conv *storage.ConversationRecord, parts []storage.ConversationPartRecord) ConversationResponse {
	resp := ConversationResponse{
		ID:        conv.ID,
		CorpusID:  conv.CorpusID,
		Title:     conv.Title,
		CreatedAt: formatTime(conv.CreatedAt),
		UpdatedAt: formatTime(conv.UpdatedAt),
	}
	for i := range parts {
		resp.Parts = append(resp.Parts, partResponse(&parts[i]))
	}
	return resp
}

func partResponse(part *storage.ConversationPartRecord) ConversationPartResponse {
	return ConversationPartResponse{
		ID:                  part.ID,
		ConversationID:      part.ConversationID,
		Query:               part.Query,
		Response:            part.Response,
		ContextChunks:       part.ContextChunks,
		Sources:             part.Sources,
		EmbeddingModelUsed:  part.EmbeddingModelUsed,
		CompletionModelUsed: part.CompletionModelUsed,
		ChunksRetrieved:     part.ChunksRetrieved,
		CreatedAt:           formatTime(part.CreatedAt),
	}
}

// partRecord persists a query result as a conversation part.
func partRecord(conversationID string, result rag.QueryResult) *storage.ConversationPartRecord {
	return &storage.ConversationPartRecord{
		ConversationID:      conversationID,
		Query:               result.Query,
		ContextChunks:       result.ContextChunks,
		Response:            result.Answer,
		Sources:             result.Sources,
		EmbeddingModelUsed:  result.EmbeddingModelUsed,
		CompletionModelUsed: result.ModelUsed,
		ChunksRetrieved:     result.ChunksRetrieved,
	}
}

// Create handles POST /corpora/{corpusID}/conversations.
//
// Starts a conversation by answering its first query against the corpus and
// returns the conversation with that first part.
//
// swagger:route POST /corpora/{corpusID}/conversations createConversation
//
// # Start a conversation
//
// Answers the query against the corpus's vector collection and records the
// exchange as the first part of a new conversation.
//
// responses:
//
//	'201':
//	  description: Conversation created, first part answered
//	  schema:
//	    "$ref": "#/definitions/ConversationResponse"
//	'400':
//	  description: Bad request (missing title or query, bad threshold)
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'404':
//	  description: Corpus not found
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Embedding, completion, or vector store failure
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}

	var req ConversationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		handleServiceError(w, r, &service.ValidationError{Field: "title", Message: "is required"}, "")
		return
	}

	result, err := h.engine.Query(ctx, rag.QueryRequest{
		Corpus:              corpus,
		Query:               req.Query,
		Limit:               req.Limit,
		SimilarityThreshold: req.SimilarityThreshold,
	})
	if err != nil {
		handleServiceError(w, r, err, "Failed to answer query")
		return
	}

	conv := &storage.ConversationRecord{
		CorpusID: corpus.ID,
		Title:    req.Title,
	}
	if err := h.conversationRepo.Create(ctx, conv); err != nil {
		logger.ErrorContext(ctx, "failed to create conversation", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}

	part := partRecord(conv.ID, result)
	if err := h.conversationRepo.AppendPart(ctx, part); err != nil {
		logger.ErrorContext(ctx, "failed to store conversation part", "conversation_id", conv.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store conversation part")
		return
	}
	conv.UpdatedAt = part.CreatedAt

	logger.InfoContext(ctx, "conversation created",
		"conversation_id", conv.ID,
		"corpus_id", corpus.ID,
		"chunks_retrieved", result.ChunksRetrieved,
	)
	writeJSON(w, http.StatusCreated, conversationResponse(conv, []storage.ConversationPartRecord{*part}))
}

// Append handles POST /corpora/{corpusID}/conversations/{conversationID}/parts.
// Earlier parts of the conversation are replayed to the engine as history,
// oldest first, so follow-up questions can refer back to them.
func (h *ConversationHandler) Append(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}
	conv := h.fetchConversation(w, r, corpus.ID)
	if conv == nil {
		return
	}

	var req ConversationPartCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	earlier, err := h.conversationRepo.ListParts(ctx, conv.ID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list conversation parts", "conversation_id", conv.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load conversation history")
		return
	}
	history := make([]rag.HistoryTurn, 0, len(earlier))
	for _, p := range earlier {
		history = append(history, rag.HistoryTurn{Query: p.Query, Answer: p.Response})
	}

	result, err := h.engine.Query(ctx, rag.QueryRequest{
		Corpus:              corpus,
		Query:               req.Query,
		Limit:               req.Limit,
		SimilarityThreshold: req.SimilarityThreshold,
		History:             history,
	})
	if err != nil {
		handleServiceError(w, r, err, "Failed to answer query")
		return
	}

	part := partRecord(conv.ID, result)
	if err := h.conversationRepo.AppendPart(ctx, part); err != nil {
		logger.ErrorContext(ctx, "failed to store conversation part", "conversation_id", conv.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store conversation part")
		return
	}

	logger.InfoContext(ctx, "conversation part added",
		"conversation_id", conv.ID,
		"parts_before", len(earlier),
		"chunks_retrieved", result.ChunksRetrieved,
	)
	writeJSON(w, http.StatusCreated, partResponse(part))
}

// List handles GET /corpora/{corpusID}/conversations. Parts are omitted.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}

	convs, err := h.conversationRepo.ListByCorpus(ctx, corpus.ID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list conversations", "corpus_id", corpus.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	resp := make([]ConversationResponse, 0, len(convs))
	for i := range convs {
		resp = append(resp, conversationResponse(&convs[i], nil))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /corpora/{corpusID}/conversations/{conversationID} and
// returns the conversation with all of its parts.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	corpus := fetchCorpus(w, r, h.corpusRepo)
	if corpus == nil {
		return
	}
	conv := h.fetchConversation(w, r, corpus.ID)
	if conv == nil {
		return
	}

	parts, err := h.conversationRepo.ListParts(ctx, conv.ID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list conversation parts", "conversation_id", conv.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load conversation")
		return
	}

	writeJSON(w, http.StatusOK, conversationResponse(conv, parts))
}

// fetchConversation loads the conversation named by the conversationID URL
// parameter, scoped to the corpus. On failure it writes the response and
// returns nil.
func (h *ConversationHandler) fetchConversation(w http.ResponseWriter, r *http.Request, corpusID string) *storage.ConversationRecord {
	ctx := r.Context()
	id := chi.URLParam(r, "conversationID")

	conv, err := h.conversationRepo.GetByID(ctx, corpusID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Conversation not found")
		} else {
			contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load conversation", "conversation_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load conversation")
		}
		return nil
	}
	return conv
}
