package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ragonquest/internal/config"
	"ragonquest/internal/cost"
	"ragonquest/internal/http"
	"ragonquest/internal/ingest"
	"ragonquest/internal/llm"
	"ragonquest/internal/rag"
	"ragonquest/internal/storage"
	"ragonquest/internal/vectorstore"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API manages document corpora and answers questions against them with
// retrieval-augmented generation: documents are chunked, embedded, and stored
// in Qdrant; queries retrieve the most similar chunks and feed them to a
// completion model.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: RAGonQuest API
//   description: |
//     Corpus management, ingestion, cost estimation, and conversational
//     retrieval-augmented queries over document collections.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{
		Level: level,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", level.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	corpusRepo := storage.NewCorpusRepo(db)
	fileRepo := storage.NewFileRepo(db)
	conversationRepo := storage.NewConversationRepo(db)

	// Initialize Qdrant vector store. Collections are created per corpus at
	// ingestion time, sized to the corpus's embedding model.
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	slog.Info("Qdrant client ready", "url", cfg.QdrantURL)

	// OpenAI clients for embeddings and completions
	embedder := llm.NewEmbeddingsClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	completer := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)

	// Tokenizers are resolved per embedding model; ingestion chunks on token
	// windows and cost estimation counts tokens without calling the API.
	ingestTokenizers := ingest.TokenizerProviderFunc(func(model string) (ingest.Tokenizer, error) {
		return llm.NewTokenizer(model)
	})
	costTokenizers := cost.TokenizerProviderFunc(func(model string) (cost.Tokenizer, error) {
		return llm.NewTokenizer(model)
	})

	pipeline := ingest.NewPipeline(ingestTokenizers, embedder, vectorStore, fileRepo)
	estimator := cost.NewEstimator(costTokenizers)
	engine := rag.NewEngine(embedder, completer, vectorStore)
	slog.Info("RAG engine initialized")

	// Create router with dependencies
	deps := &http.Deps{
		DB:               db,
		VectorStore:      vectorStore,
		CorpusRepo:       corpusRepo,
		FileRepo:         fileRepo,
		ConversationRepo: conversationRepo,
		Engine:           engine,
		Ingestor:         pipeline,
		Estimator:        estimator,
	}
	router := http.NewRouter(deps)

	// Start API server with graceful shutdown on SIGINT/SIGTERM
	addr := ":" + cfg.APIPort
	srv := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting API server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
