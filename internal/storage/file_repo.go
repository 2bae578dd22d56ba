package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_file_store.go -package=mocks ragonquest/internal/storage FileStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FileStore defines the interface for corpus file storage operations.
type FileStore interface {
	// Insert inserts a newly discovered corpus file with is_ingested=false.
	// Generates a UUID if file.ID is empty.
	Insert(ctx context.Context, file *CorpusFileRecord) error
	// GetByID gets a file by ID, scoped to a corpus. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, corpusID, fileID string) (*CorpusFileRecord, error)
	// ListByCorpus returns all files of a corpus ordered by filename.
	ListByCorpus(ctx context.Context, corpusID string) ([]CorpusFileRecord, error)
	// ListUningested returns the files of a corpus that have not been ingested, ordered by filename.
	ListUningested(ctx context.Context, corpusID string) ([]CorpusFileRecord, error)
	// MarkIngested flips is_ingested to true and bumps updated_at.
	MarkIngested(ctx context.Context, id string) error
}

// FileRepo provides methods for corpus file operations.
// It implements the FileStore interface.
type FileRepo struct {
	db *sql.DB
}

// NewFileRepo creates a new FileRepo.
func NewFileRepo(db *sql.DB) *FileRepo {
	return &FileRepo{db: db}
}

const fileColumns = "id, corpus_id, filename, is_ingested, created_at, updated_at"

// Insert inserts a newly discovered corpus file with is_ingested=false.
// Generates a UUID if file.ID is empty and stamps CreatedAt/UpdatedAt.
func (r *FileRepo) Insert(ctx context.Context, file *CorpusFileRecord) error {
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	file.CreatedAt = now
	file.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO corpus_files (id, corpus_id, filename, is_ingested, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		file.ID, file.CorpusID, file.Filename, file.IsIngested,
		now.Format(sqliteTimeFormat), now.Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert corpus file: %w", err)
	}
	return nil
}

// GetByID gets a file by ID, scoped to a corpus. Returns ErrNotFound if not found.
func (r *FileRepo) GetByID(ctx context.Context, corpusID, fileID string) (*CorpusFileRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM corpus_files WHERE id = ? AND corpus_id = ?",
		fileID, corpusID,
	)
	return scanFile(row)
}

// ListByCorpus returns all files of a corpus ordered by filename.
// Returns an empty slice if no files exist (not an error).
func (r *FileRepo) ListByCorpus(ctx context.Context, corpusID string) ([]CorpusFileRecord, error) {
	return r.list(ctx,
		"SELECT "+fileColumns+" FROM corpus_files WHERE corpus_id = ? ORDER BY filename",
		corpusID,
	)
}

// ListUningested returns the files of a corpus that have not been ingested,
// ordered by filename. These are the ingestion candidates.
func (r *FileRepo) ListUningested(ctx context.Context, corpusID string) ([]CorpusFileRecord, error) {
	return r.list(ctx,
		"SELECT "+fileColumns+" FROM corpus_files WHERE corpus_id = ? AND is_ingested = 0 ORDER BY filename",
		corpusID,
	)
}

// MarkIngested flips is_ingested to true and bumps updated_at.
// Returns ErrNotFound if the file does not exist.
func (r *FileRepo) MarkIngested(ctx context.Context, id string) error {
	now := time.Now().UTC().Truncate(time.Second)

	res, err := r.db.ExecContext(ctx,
		"UPDATE corpus_files SET is_ingested = 1, updated_at = ? WHERE id = ?",
		now.Format(sqliteTimeFormat), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark file ingested: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *FileRepo) list(ctx context.Context, query string, args ...any) ([]CorpusFileRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus files: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var files []CorpusFileRecord
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return files, nil
}

func scanFile(row rowScanner) (*CorpusFileRecord, error) {
	var file CorpusFileRecord
	var createdAtStr, updatedAtStr string

	err := row.Scan(&file.ID, &file.CorpusID, &file.Filename, &file.IsIngested, &createdAtStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus file: %w", err)
	}

	if file.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, err
	}
	if file.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, err
	}

	return &file, nil
}
