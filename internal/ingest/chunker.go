package ingest

import "fmt"

// TokenChunker splits text into fixed-size token windows with a fixed
// overlap between consecutive windows. Boundaries are chosen on token ids
// and decoded back to text, so a chunk never exceeds the size limit no
// matter how the text maps to tokens.
type TokenChunker struct {
	tokenizer Tokenizer
	size      int
	overlap   int
}

// NewTokenChunker returns a chunker producing windows of at most size
// tokens, each sharing overlap tokens with its predecessor. The overlap
// must be smaller than the size or the window start would never advance.
func NewTokenChunker(tokenizer Tokenizer, size, overlap int) (*TokenChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", overlap, size)
	}
	return &TokenChunker{tokenizer: tokenizer, size: size, overlap: overlap}, nil
}

// Chunk splits text into overlapping token windows. Every window after the
// first starts exactly overlap tokens before its predecessor ends, and the
// last window may be shorter than the configured size. Text that encodes
// to zero tokens yields no chunks.
func (c *TokenChunker) Chunk(text string) []Chunk {
	tokens := c.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []Chunk
	for start := 0; start < len(tokens); start += step {
		end := start + c.size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Text:  c.tokenizer.Decode(tokens[start:end]),
		})
		// A window ending on the last token covers everything; advancing
		// again would emit a chunk fully contained in this one.
		if end == len(tokens) {
			break
		}
	}
	return chunks
}
