package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"ragonquest/internal/contextutil"
	"ragonquest/internal/vectorstore"
)

const healthCheckTimeout = 5 * time.Second

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db          *sql.DB
	vectorStore vectorstore.VectorStore
	timeout     time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB, vectorStore vectorstore.VectorStore) *HealthHandler {
	return &HealthHandler{
		db:          db,
		vectorStore: vectorStore,
		timeout:     healthCheckTimeout,
	}
}

// HealthResponse reports each dependency as UP or DOWN.
//
// swagger:model HealthResponse
type HealthResponse struct {
	SQLite string `json:"sqlite"`
	Qdrant string `json:"qdrant"`
}

// Check handles GET /health.
//
// Returns 200 OK when both SQLite and Qdrant respond, 503 Service
// Unavailable otherwise.
//
// swagger:route GET /health healthCheck
//
// # Health check endpoint
//
// Reports the reachability of the metadata database and the vector store.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: All dependencies are reachable
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: At least one dependency is down
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp := HealthResponse{SQLite: "UP", Qdrant: "UP"}
	status := http.StatusOK

	if err := h.db.PingContext(checkCtx); err != nil {
		logger.WarnContext(ctx, "sqlite health check failed", "error", err)
		resp.SQLite = "DOWN"
		status = http.StatusServiceUnavailable
	}
	if err := h.vectorStore.HealthCheck(checkCtx); err != nil {
		logger.WarnContext(ctx, "qdrant health check failed", "error", err)
		resp.Qdrant = "DOWN"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
