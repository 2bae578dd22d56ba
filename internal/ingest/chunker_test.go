package ingest

import (
	"fmt"
	"strings"
	"testing"
)

// wordTokenizer maps each whitespace-separated word to one token id, so
// tests can reason about exact token counts and window boundaries.
type wordTokenizer struct {
	words []string
}

func (t *wordTokenizer) Encode(text string) []int {
	t.words = strings.Fields(text)
	ids := make([]int, len(t.words))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

func (t *wordTokenizer) Decode(tokens []int) string {
	parts := make([]string, len(tokens))
	for i, id := range tokens {
		parts[i] = t.words[id]
	}
	return strings.Join(parts, " ")
}

// wordText returns a text of n distinct words: "w0 w1 ... w{n-1}".
func wordText(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestNewTokenChunker_Validation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "valid", size: 512, overlap: 50, wantErr: false},
		{name: "zero overlap", size: 10, overlap: 0, wantErr: false},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "negative size", size: -1, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 10, overlap: -1, wantErr: true},
		{name: "overlap equals size", size: 10, overlap: 10, wantErr: true},
		{name: "overlap exceeds size", size: 10, overlap: 11, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenChunker(&wordTokenizer{}, tt.size, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTokenChunker(size=%d, overlap=%d) error = %v, wantErr %v", tt.size, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestTokenChunker_ChunkCounts(t *testing.T) {
	tests := []struct {
		name    string
		tokens  int
		size    int
		overlap int
		want    int
	}{
		{name: "three full-ish windows", tokens: 1000, size: 512, overlap: 50, want: 3},
		{name: "exactly one window", tokens: 512, size: 512, overlap: 50, want: 1},
		{name: "one token past a window", tokens: 513, size: 512, overlap: 50, want: 2},
		{name: "short document", tokens: 100, size: 512, overlap: 50, want: 1},
		{name: "two windows", tokens: 950, size: 512, overlap: 50, want: 2},
		{name: "small windows", tokens: 20, size: 10, overlap: 2, want: 3},
		{name: "no overlap", tokens: 30, size: 10, overlap: 0, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunker, err := NewTokenChunker(&wordTokenizer{}, tt.size, tt.overlap)
			if err != nil {
				t.Fatalf("NewTokenChunker() error = %v", err)
			}

			chunks := chunker.Chunk(wordText(tt.tokens))
			if len(chunks) != tt.want {
				t.Errorf("Chunk() produced %d chunks, want %d", len(chunks), tt.want)
			}

			// ceil(max(T-O, 0) / (S-O)) for documents longer than the overlap.
			if tt.tokens > tt.overlap {
				step := tt.size - tt.overlap
				formula := (tt.tokens - tt.overlap + step - 1) / step
				if len(chunks) != formula {
					t.Errorf("Chunk() produced %d chunks, formula gives %d", len(chunks), formula)
				}
			}

			for i, chunk := range chunks {
				if chunk.Index != i {
					t.Errorf("chunk %d has Index = %d", i, chunk.Index)
				}
			}
		})
	}
}

func TestTokenChunker_WindowBoundaries(t *testing.T) {
	chunker, err := NewTokenChunker(&wordTokenizer{}, 10, 2)
	if err != nil {
		t.Fatalf("NewTokenChunker() error = %v", err)
	}

	chunks := chunker.Chunk(wordText(20))

	// Windows over 20 tokens with size 10 and overlap 2: [0,10), [8,18), [16,20).
	want := []string{
		"w0 w1 w2 w3 w4 w5 w6 w7 w8 w9",
		"w8 w9 w10 w11 w12 w13 w14 w15 w16 w17",
		"w16 w17 w18 w19",
	}
	if len(chunks) != len(want) {
		t.Fatalf("Chunk() produced %d chunks, want %d", len(chunks), len(want))
	}
	for i, chunk := range chunks {
		if chunk.Text != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunk.Text, want[i])
		}
	}
}

func TestTokenChunker_SingleWindow(t *testing.T) {
	chunker, err := NewTokenChunker(&wordTokenizer{}, 512, 50)
	if err != nil {
		t.Fatalf("NewTokenChunker() error = %v", err)
	}

	text := wordText(30)
	chunks := chunker.Chunk(text)
	if len(chunks) != 1 {
		t.Fatalf("Chunk() produced %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("chunk text = %q, want the whole document", chunks[0].Text)
	}
}

func TestTokenChunker_EmptyText(t *testing.T) {
	chunker, err := NewTokenChunker(&wordTokenizer{}, 512, 50)
	if err != nil {
		t.Fatalf("NewTokenChunker() error = %v", err)
	}

	for _, text := range []string{"", "   \n\t "} {
		if chunks := chunker.Chunk(text); len(chunks) != 0 {
			t.Errorf("Chunk(%q) produced %d chunks, want 0", text, len(chunks))
		}
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{name: "defaults", params: DefaultParams(), wantErr: false},
		{name: "zero chunk size", params: Params{ChunkSize: 0, ChunkOverlap: 0, BatchSize: 10}, wantErr: true},
		{name: "negative overlap", params: Params{ChunkSize: 512, ChunkOverlap: -1, BatchSize: 10}, wantErr: true},
		{name: "overlap not below size", params: Params{ChunkSize: 50, ChunkOverlap: 50, BatchSize: 10}, wantErr: true},
		{name: "zero batch size", params: Params{ChunkSize: 512, ChunkOverlap: 50, BatchSize: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.params.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
