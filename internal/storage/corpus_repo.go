package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_corpus_store.go -package=mocks ragonquest/internal/storage CorpusStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// sqliteTimeFormat is the layout SQLite uses for DATETIME columns.
const sqliteTimeFormat = "2006-01-02 15:04:05"

// parseTime parses a SQLite DATETIME string, falling back to RFC3339.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeFormat, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// CorpusStore defines the interface for corpus storage operations.
type CorpusStore interface {
	// Create inserts a new corpus. Generates a UUID if corpus.ID is empty.
	Create(ctx context.Context, corpus *CorpusRecord) error
	// GetByID gets a corpus by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*CorpusRecord, error)
	// GetByName gets a corpus by its unique name. Returns ErrNotFound if not found.
	GetByName(ctx context.Context, name string) (*CorpusRecord, error)
	// List returns corpora ordered by creation time, with pagination.
	List(ctx context.Context, offset, limit int) ([]CorpusRecord, error)
	// Update persists all mutable fields and bumps updated_at.
	// Returns ErrNotFound if the corpus does not exist.
	Update(ctx context.Context, corpus *CorpusRecord) error
	// Delete removes a corpus and, via cascade, its files and conversations.
	// Deleting a missing corpus is not an error.
	Delete(ctx context.Context, id string) error
}

// CorpusRepo provides methods for corpus operations.
// It implements the CorpusStore interface.
type CorpusRepo struct {
	db *sql.DB
}

// NewCorpusRepo creates a new CorpusRepo.
func NewCorpusRepo(db *sql.DB) *CorpusRepo {
	return &CorpusRepo{db: db}
}

const corpusColumns = "id, name, description, default_prompt, collection_name, path, embedding_model, completion_model, similarity_threshold, created_at, updated_at"

// Create inserts a new corpus. Generates a UUID if corpus.ID is empty and
// stamps CreatedAt/UpdatedAt.
func (r *CorpusRepo) Create(ctx context.Context, corpus *CorpusRecord) error {
	if corpus.ID == "" {
		corpus.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	corpus.CreatedAt = now
	corpus.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO corpora (id, name, description, default_prompt, collection_name, path, embedding_model, completion_model, similarity_threshold, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		corpus.ID, corpus.Name, corpus.Description, corpus.DefaultPrompt, corpus.CollectionName, corpus.Path,
		corpus.EmbeddingModel, corpus.CompletionModel, corpus.SimilarityThreshold,
		now.Format(sqliteTimeFormat), now.Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert corpus: %w", err)
	}
	return nil
}

// GetByID gets a corpus by its ID. Returns ErrNotFound if not found.
func (r *CorpusRepo) GetByID(ctx context.Context, id string) (*CorpusRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+corpusColumns+" FROM corpora WHERE id = ?", id,
	)
	return scanCorpus(row)
}

// GetByName gets a corpus by its unique name. Returns ErrNotFound if not found.
func (r *CorpusRepo) GetByName(ctx context.Context, name string) (*CorpusRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+corpusColumns+" FROM corpora WHERE name = ?", name,
	)
	return scanCorpus(row)
}

// List returns corpora ordered by creation time, with pagination.
// Returns an empty slice if no corpora exist (not an error).
func (r *CorpusRepo) List(ctx context.Context, offset, limit int) ([]CorpusRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+corpusColumns+" FROM corpora ORDER BY created_at, rowid LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpora: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var corpora []CorpusRecord
	for rows.Next() {
		corpus, err := scanCorpus(rows)
		if err != nil {
			return nil, err
		}
		corpora = append(corpora, *corpus)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return corpora, nil
}

// Update persists all mutable fields and bumps updated_at.
// Returns ErrNotFound if the corpus does not exist.
func (r *CorpusRepo) Update(ctx context.Context, corpus *CorpusRecord) error {
	now := time.Now().UTC().Truncate(time.Second)

	res, err := r.db.ExecContext(ctx,
		`UPDATE corpora SET name = ?, description = ?, default_prompt = ?, collection_name = ?, path = ?,
		 embedding_model = ?, completion_model = ?, similarity_threshold = ?, updated_at = ?
		 WHERE id = ?`,
		corpus.Name, corpus.Description, corpus.DefaultPrompt, corpus.CollectionName, corpus.Path,
		corpus.EmbeddingModel, corpus.CompletionModel, corpus.SimilarityThreshold,
		now.Format(sqliteTimeFormat), corpus.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update corpus: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	corpus.UpdatedAt = now
	return nil
}

// Delete removes a corpus; corpus files and conversations cascade.
// Deleting a missing corpus is not an error.
func (r *CorpusRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM corpora WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete corpus: %w", err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCorpus(row rowScanner) (*CorpusRecord, error) {
	var corpus CorpusRecord
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&corpus.ID, &corpus.Name, &corpus.Description, &corpus.DefaultPrompt,
		&corpus.CollectionName, &corpus.Path, &corpus.EmbeddingModel,
		&corpus.CompletionModel, &corpus.SimilarityThreshold,
		&createdAtStr, &updatedAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus: %w", err)
	}

	if corpus.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, err
	}
	if corpus.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, err
	}

	return &corpus, nil
}
