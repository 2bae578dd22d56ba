package storage

import "time"

// CorpusRecord represents a corpus: a named collection of source documents
// sharing one embedding model, one completion model, one similarity
// threshold, and one vector store collection.
type CorpusRecord struct {
	ID                  string // UUID
	Name                string // Unique across corpora
	Description         string
	DefaultPrompt       string // System prompt used for queries against this corpus
	CollectionName      string // Vector store collection holding this corpus's points
	Path                string // Directory holding the source documents
	EmbeddingModel      string
	CompletionModel     string
	SimilarityThreshold float64 // Minimum similarity score for retrieved chunks, [0,1]
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CorpusFileRecord represents a source document discovered in a corpus
// directory. is_ingested flips to true exactly once, after every chunk of
// the file has been embedded and upserted.
type CorpusFileRecord struct {
	ID         string // UUID
	CorpusID   string // Foreign key to corpora.id
	Filename   string // Base name within the corpus path
	IsIngested bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ConversationRecord represents an ordered sequence of query/answer parts
// against a single corpus.
type ConversationRecord struct {
	ID        string // UUID
	CorpusID  string // Foreign key to corpora.id
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConversationPartRecord represents one query/answer turn. Parts are
// append-only and ordered by creation time.
type ConversationPartRecord struct {
	ID                  string   // UUID
	ConversationID      string   // Foreign key to conversations.id
	Query               string
	ContextChunks       []string // Retrieved chunk texts, stored as JSON
	Response            string
	Sources             []string // Distinct source filenames, stored as JSON
	EmbeddingModelUsed  string
	CompletionModelUsed string
	ChunksRetrieved     int
	CreatedAt           time.Time
}
