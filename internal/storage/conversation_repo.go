package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_conversation_store.go -package=mocks ragonquest/internal/storage ConversationStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConversationStore defines the interface for conversation storage operations.
type ConversationStore interface {
	// Create inserts a new conversation. Generates a UUID if conv.ID is empty.
	Create(ctx context.Context, conv *ConversationRecord) error
	// GetByID gets a conversation by ID, scoped to a corpus. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, corpusID, conversationID string) (*ConversationRecord, error)
	// ListByCorpus returns the conversations of a corpus ordered by creation time.
	ListByCorpus(ctx context.Context, corpusID string) ([]ConversationRecord, error)
	// AppendPart appends a part to a conversation. Parts are never updated or removed.
	AppendPart(ctx context.Context, part *ConversationPartRecord) error
	// ListParts returns all parts of a conversation in chronological order.
	ListParts(ctx context.Context, conversationID string) ([]ConversationPartRecord, error)
}

// ConversationRepo provides methods for conversation operations.
// It implements the ConversationStore interface.
type ConversationRepo struct {
	db *sql.DB
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// Create inserts a new conversation. Generates a UUID if conv.ID is empty
// and stamps CreatedAt/UpdatedAt.
func (r *ConversationRepo) Create(ctx context.Context, conv *ConversationRecord) error {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	conv.CreatedAt = now
	conv.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO conversations (id, corpus_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		conv.ID, conv.CorpusID, conv.Title,
		now.Format(sqliteTimeFormat), now.Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// GetByID gets a conversation by ID, scoped to a corpus. Returns ErrNotFound if not found.
func (r *ConversationRepo) GetByID(ctx context.Context, corpusID, conversationID string) (*ConversationRecord, error) {
	var conv ConversationRecord
	var createdAtStr, updatedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, corpus_id, title, created_at, updated_at FROM conversations WHERE id = ? AND corpus_id = ?",
		conversationID, corpusID,
	).Scan(&conv.ID, &conv.CorpusID, &conv.Title, &createdAtStr, &updatedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}

	if conv.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, err
	}
	if conv.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, err
	}

	return &conv, nil
}

// ListByCorpus returns the conversations of a corpus ordered by creation time.
// Returns an empty slice if none exist (not an error).
func (r *ConversationRepo) ListByCorpus(ctx context.Context, corpusID string) ([]ConversationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, corpus_id, title, created_at, updated_at FROM conversations WHERE corpus_id = ? ORDER BY created_at, rowid",
		corpusID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var convs []ConversationRecord
	for rows.Next() {
		var conv ConversationRecord
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&conv.ID, &conv.CorpusID, &conv.Title, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if conv.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, err
		}
		if conv.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return convs, nil
}

// AppendPart appends a part to a conversation and bumps the conversation's
// updated_at. Generates a UUID if part.ID is empty. Context chunks and
// sources are stored as JSON arrays.
func (r *ConversationRepo) AppendPart(ctx context.Context, part *ConversationPartRecord) error {
	if part.ID == "" {
		part.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	part.CreatedAt = now

	chunks, err := marshalStrings(part.ContextChunks)
	if err != nil {
		return fmt.Errorf("failed to encode context chunks: %w", err)
	}
	sources, err := marshalStrings(part.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO conversation_parts (id, conversation_id, query, context_chunks, response, sources, embedding_model_used, completion_model_used, chunks_retrieved, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		part.ID, part.ConversationID, part.Query, chunks, part.Response, sources,
		part.EmbeddingModelUsed, part.CompletionModelUsed, part.ChunksRetrieved,
		now.Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversation part: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"UPDATE conversations SET updated_at = ? WHERE id = ?",
		now.Format(sqliteTimeFormat), part.ConversationID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}

	return nil
}

// ListParts returns all parts of a conversation in chronological order.
// Returns an empty slice if none exist (not an error).
func (r *ConversationRepo) ListParts(ctx context.Context, conversationID string) ([]ConversationPartRecord, error) {
	// rowid breaks ties between parts created within the same second
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, conversation_id, query, context_chunks, response, sources, embedding_model_used, completion_model_used, chunks_retrieved, created_at
		 FROM conversation_parts WHERE conversation_id = ? ORDER BY created_at, rowid`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation parts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var parts []ConversationPartRecord
	for rows.Next() {
		var part ConversationPartRecord
		var chunksStr, sourcesStr, createdAtStr string
		if err := rows.Scan(
			&part.ID, &part.ConversationID, &part.Query, &chunksStr, &part.Response,
			&sourcesStr, &part.EmbeddingModelUsed, &part.CompletionModelUsed,
			&part.ChunksRetrieved, &createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation part: %w", err)
		}
		if part.ContextChunks, err = unmarshalStrings(chunksStr); err != nil {
			return nil, fmt.Errorf("failed to decode context chunks: %w", err)
		}
		if part.Sources, err = unmarshalStrings(sourcesStr); err != nil {
			return nil, fmt.Errorf("failed to decode sources: %w", err)
		}
		if part.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return parts, nil
}

func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalStrings(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	return values, nil
}
