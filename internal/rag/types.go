package rag

import "ragonquest/internal/storage"

// HistoryTurn is one completed query/answer exchange of a conversation.
// Prior turns are serialized into the prompt of the next query.
type HistoryTurn struct {
	Query  string
	Answer string
}

// QueryRequest asks a question against a single corpus.
type QueryRequest struct {
	// Corpus supplies the collection, models, prompt, and threshold.
	Corpus *storage.CorpusRecord
	// Query is the user's question.
	Query string
	// Limit is the number of nearest chunks to retrieve. Zero means the
	// default of 5.
	Limit int
	// SimilarityThreshold overrides the corpus threshold when set.
	SimilarityThreshold *float64
	// History holds the prior turns of the conversation, oldest first.
	// It never includes the current query.
	History []HistoryTurn
}

// QueryResult is the answer to a single query together with the retrieval
// evidence that produced it.
type QueryResult struct {
	Query string `json:"query"`
	// Answer is the generated answer, or the fixed no-context answer when
	// nothing cleared the similarity threshold.
	Answer string `json:"answer"`
	// ContextChunks are the chunk texts that cleared the threshold, in
	// descending similarity order.
	ContextChunks []string `json:"context_chunks"`
	// Sources are the distinct source filenames behind ContextChunks, in
	// first-seen order.
	Sources            []string `json:"sources"`
	ModelUsed          string   `json:"model_used"`
	EmbeddingModelUsed string   `json:"embedding_model_used"`
	ChunksRetrieved    int      `json:"chunks_retrieved"`
}
