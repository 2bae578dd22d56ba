package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type embeddingsResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
}

type embeddingData struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// vectors builds n vectors of the given size for fake API responses.
func vectors(n, size int) []embeddingData {
	data := make([]embeddingData, n)
	for i := range data {
		data[i] = embeddingData{Object: "embedding", Index: i, Embedding: make([]float32, size)}
	}
	return data
}

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name       string
		texts      []string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantErr    bool
		wantCount  int
	}{
		{
			name:  "successful embedding",
			texts: []string{"Hello", "World"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
				}

				resp := embeddingsResponse{Object: "list", Data: vectors(2, 1536)}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr:   false,
			wantCount: 2,
		},
		{
			name:  "wrong embedding count",
			texts: []string{"Hello", "World"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				resp := embeddingsResponse{Object: "list", Data: vectors(1, 1536)}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: true,
		},
		{
			name:  "wrong vector size",
			texts: []string{"Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				resp := embeddingsResponse{Object: "list", Data: vectors(1, 512)}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: true,
		},
		{
			name:  "server error",
			texts: []string{"Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewEmbeddingsClient("test-key", server.URL+"/v1")
			embeddings, err := client.EmbedTexts(context.Background(), EmbeddingModelSmall, tt.texts, 10)

			if tt.wantErr {
				if err == nil {
					t.Errorf("EmbedTexts() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("EmbedTexts() unexpected error: %v", err)
				return
			}

			if len(embeddings) != tt.wantCount {
				t.Errorf("EmbedTexts() returned %d embeddings, want %d", len(embeddings), tt.wantCount)
			}

			for i, emb := range embeddings {
				if len(emb) != 1536 {
					t.Errorf("EmbedTexts() embedding[%d] size = %d, want 1536", i, len(emb))
				}
			}
		})
	}
}

func TestEmbeddingsClient_EmbedTexts_Batching(t *testing.T) {
	var gotBatchSizes []int
	totalSeen := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		gotBatchSizes = append(gotBatchSizes, len(req.Input))

		// Encode the global input position in the first component so the
		// test can verify concatenation order.
		data := vectors(len(req.Input), 1536)
		for i := range data {
			data[i].Embedding[0] = float32(totalSeen + i)
		}
		totalSeen += len(req.Input)

		resp := embeddingsResponse{Object: "list", Data: data}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	texts := make([]string, 25)
	for i := range texts {
		texts[i] = "chunk"
	}

	client := NewEmbeddingsClient("test-key", server.URL+"/v1")
	embeddings, err := client.EmbedTexts(context.Background(), EmbeddingModelSmall, texts, 10)
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}

	if len(gotBatchSizes) != 3 {
		t.Fatalf("EmbedTexts() made %d API calls, want 3", len(gotBatchSizes))
	}
	wantSizes := []int{10, 10, 5}
	for i, size := range gotBatchSizes {
		if size != wantSizes[i] {
			t.Errorf("EmbedTexts() batch[%d] size = %d, want %d", i, size, wantSizes[i])
		}
	}

	if len(embeddings) != 25 {
		t.Fatalf("EmbedTexts() returned %d embeddings, want 25", len(embeddings))
	}
	for i, emb := range embeddings {
		if emb[0] != float32(i) {
			t.Errorf("EmbedTexts() embedding[%d] out of order: marker = %v, want %v", i, emb[0], float32(i))
		}
	}
}

func TestEmbeddingsClient_EmbedTexts_EmptyInput(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := NewEmbeddingsClient("test-key", server.URL+"/v1")
	embeddings, err := client.EmbedTexts(context.Background(), EmbeddingModelSmall, []string{}, 10)
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}

	if len(embeddings) != 0 {
		t.Errorf("EmbedTexts() returned %d embeddings, want 0", len(embeddings))
	}
	if calls != 0 {
		t.Errorf("EmbedTexts() made %d API calls, want 0", calls)
	}
}

func TestEmbeddingsClient_EmbedTexts_InvalidBatchSize(t *testing.T) {
	client := NewEmbeddingsClient("test-key", "")
	_, err := client.EmbedTexts(context.Background(), EmbeddingModelSmall, []string{"Hello"}, 0)
	if err == nil {
		t.Error("EmbedTexts() expected error for batch size 0, got nil")
	}
}

func TestEmbeddingsClient_EmbedTexts_UnknownModel(t *testing.T) {
	client := NewEmbeddingsClient("test-key", "")
	_, err := client.EmbedTexts(context.Background(), "text-embedding-ada-002", []string{"Hello"}, 10)
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("EmbedTexts() error = %v, want ErrUnknownModel", err)
	}
}
