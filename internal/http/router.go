package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ragonquest/internal/handlers"
	"ragonquest/internal/rag"
	"ragonquest/internal/storage"
	"ragonquest/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB               *sql.DB
	VectorStore      vectorstore.VectorStore
	CorpusRepo       storage.CorpusStore
	FileRepo         storage.FileStore
	ConversationRepo storage.ConversationStore
	Engine           rag.Engine
	Ingestor         handlers.Ingestor
	Estimator        handlers.CostEstimator
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.VectorStore)
	corpusHandler := handlers.NewCorpusHandler(deps.CorpusRepo, deps.FileRepo)
	ingestHandler := handlers.NewIngestHandler(deps.CorpusRepo, deps.FileRepo, deps.Ingestor)
	costHandler := handlers.NewCostHandler(deps.CorpusRepo, deps.FileRepo, deps.Estimator)
	conversationHandler := handlers.NewConversationHandler(deps.CorpusRepo, deps.ConversationRepo, deps.Engine)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"RAGonQuest API"}`))
	})
	r.Get("/health", healthHandler.Check)

	r.Route("/corpora", func(r chi.Router) {
		r.Post("/", corpusHandler.Create)
		r.Get("/", corpusHandler.List)

		r.Route("/{corpusID}", func(r chi.Router) {
			r.Get("/", corpusHandler.Get)
			r.Patch("/", corpusHandler.Update)
			r.Delete("/", corpusHandler.Delete)
			r.Post("/scan", corpusHandler.Scan)
			r.Get("/files", corpusHandler.ListFiles)
			r.Post("/ingest", ingestHandler.Ingest)
			r.Get("/cost_estimate", costHandler.CorpusEstimate)
			r.Get("/files/{fileID}/cost_estimate", costHandler.FileEstimate)

			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", conversationHandler.Create)
				r.Get("/", conversationHandler.List)
				r.Get("/{conversationID}", conversationHandler.Get)
				r.Post("/{conversationID}/parts", conversationHandler.Append)
			})
		})
	})

	return r
}
