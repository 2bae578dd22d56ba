package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS corpora (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			default_prompt TEXT NOT NULL,
			collection_name TEXT NOT NULL,
			path TEXT NOT NULL,
			embedding_model TEXT NOT NULL DEFAULT 'text-embedding-3-small',
			completion_model TEXT NOT NULL DEFAULT 'gpt-4o-mini',
			similarity_threshold REAL NOT NULL DEFAULT 0.7,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS corpus_files (
			id TEXT PRIMARY KEY,
			corpus_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			is_ingested INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (corpus_id) REFERENCES corpora(id) ON DELETE CASCADE,
			UNIQUE (corpus_id, filename)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_corpus_files_corpus_id ON corpus_files(corpus_id);`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			corpus_id TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (corpus_id) REFERENCES corpora(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS conversation_parts (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			query TEXT NOT NULL,
			context_chunks TEXT NOT NULL DEFAULT '[]',
			response TEXT NOT NULL,
			sources TEXT NOT NULL DEFAULT '[]',
			embedding_model_used TEXT NOT NULL DEFAULT '',
			completion_model_used TEXT NOT NULL DEFAULT '',
			chunks_retrieved INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversation_parts_conversation_id ON conversation_parts(conversation_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
