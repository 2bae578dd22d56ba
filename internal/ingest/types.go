package ingest

import "ragonquest/internal/service"

// Chunk is a token-bounded slice of a document's text, the unit of
// embedding. Chunks live only between chunking and upsert; the vector
// point payload is their persisted form.
type Chunk struct {
	Index int    // ordinal position within the document, starting at 0
	Text  string // decoded text of the chunk's token window
}

// Params control a single ingestion run.
type Params struct {
	ChunkSize    int // maximum tokens per chunk
	ChunkOverlap int // tokens shared by consecutive chunks
	BatchSize    int // maximum texts per embedding request
}

// DefaultParams returns the standard ingestion parameters.
func DefaultParams() Params {
	return Params{
		ChunkSize:    512,
		ChunkOverlap: 50,
		BatchSize:    10,
	}
}

// Result reports the outcome of ingesting a single document. A failed
// result keeps the progress counters from before the error; points
// upserted by earlier batches are not rolled back.
type Result struct {
	FileID          string `json:"file_id"`
	Filename        string `json:"filename"`
	ChunksProcessed int    `json:"chunks_processed"`
	PointsCreated   int    `json:"points_created"`
	Success         bool   `json:"success"`
	ErrorMessage    string `json:"error_message,omitempty"`
}

// Tokenizer converts text to token ids and back. Chunk boundaries are
// chosen on token indices so chunk sizes bound embedding request cost.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// TokenizerProvider resolves the tokenizer for an embedding model.
type TokenizerProvider interface {
	TokenizerForModel(model string) (Tokenizer, error)
}

// TokenizerProviderFunc adapts a function to the TokenizerProvider interface.
type TokenizerProviderFunc func(model string) (Tokenizer, error)

// TokenizerForModel calls f(model).
func (f TokenizerProviderFunc) TokenizerForModel(model string) (Tokenizer, error) {
	return f(model)
}

// Validate reports the first invalid parameter as a field-level error.
func (p Params) Validate() error {
	if p.ChunkSize <= 0 {
		return &service.ValidationError{Field: "chunk_size", Message: "must be positive"}
	}
	if p.ChunkOverlap < 0 {
		return &service.ValidationError{Field: "chunk_overlap", Message: "must not be negative"}
	}
	if p.ChunkOverlap >= p.ChunkSize {
		return &service.ValidationError{Field: "chunk_overlap", Message: "must be smaller than chunk_size"}
	}
	if p.BatchSize <= 0 {
		return &service.ValidationError{Field: "batch_size", Message: "must be positive"}
	}
	return nil
}
