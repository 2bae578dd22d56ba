package cost

// FileEstimate prices a single document found on disk.
type FileEstimate struct {
	Filename string  `json:"filename"`
	Tokens   int     `json:"tokens"`
	Cost     float64 `json:"cost"`
}

// FolderSummary aggregates estimates over the .txt files of a folder that
// is not tracked as a corpus.
type FolderSummary struct {
	FolderPath  string         `json:"folder_path"`
	Model       string         `json:"model"`
	Files       []FileEstimate `json:"files"`
	TotalTokens int            `json:"total_tokens"`
	TotalCost   float64        `json:"total_cost"`
	FileCount   int            `json:"file_count"`
}

// CorpusFileEstimate prices a single tracked corpus file.
type CorpusFileEstimate struct {
	FileID     string  `json:"corpus_file_id"`
	Filename   string  `json:"filename"`
	Tokens     int     `json:"tokens"`
	Cost       float64 `json:"cost"`
	IsIngested bool    `json:"is_ingested"`
}

// CorpusSummary aggregates estimates over a corpus's tracked files.
// The counts cover only files that produced an estimate.
type CorpusSummary struct {
	CorpusID        string               `json:"corpus_id"`
	CorpusName      string               `json:"corpus_name"`
	Model           string               `json:"model"`
	Files           []CorpusFileEstimate `json:"files"`
	TotalTokens     int                  `json:"total_tokens"`
	TotalCost       float64              `json:"total_cost"`
	FileCount       int                  `json:"file_count"`
	IngestedCount   int                  `json:"ingested_count"`
	UningestedCount int                  `json:"uningested_count"`
}

// Tokenizer counts the tokens a text encodes to under one model's encoding.
type Tokenizer interface {
	CountTokens(text string) int
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
