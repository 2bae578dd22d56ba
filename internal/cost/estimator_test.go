package cost

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ragonquest/internal/llm"
	"ragonquest/internal/service"
	"ragonquest/internal/storage"
)

// wordCounter counts one token per whitespace-separated word.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}

func testTokenizers() TokenizerProvider {
	return TokenizerProviderFunc(func(model string) (Tokenizer, error) {
		return wordCounter{}, nil
	})
}

func testCorpus(path string) *storage.CorpusRecord {
	return &storage.CorpusRecord{
		ID:             "corpus-1",
		Name:           "docs",
		Path:           path,
		EmbeddingModel: llm.EmbeddingModelSmall,
	}
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func perToken(t *testing.T, model string) float64 {
	t.Helper()
	p, err := llm.CostPerToken(model)
	if err != nil {
		t.Fatalf("CostPerToken(%s) error = %v", model, err)
	}
	return p
}

func TestEstimator_EstimateCorpusFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "one two three four five")

	estimator := NewEstimator(testTokenizers())
	corpus := testCorpus(dir)
	file := &storage.CorpusFileRecord{ID: "file-1", CorpusID: corpus.ID, Filename: "a.txt", IsIngested: true}

	estimate, err := estimator.EstimateCorpusFile(context.Background(), corpus, file)
	if err != nil {
		t.Fatalf("EstimateCorpusFile() error = %v", err)
	}

	if estimate.FileID != "file-1" || estimate.Filename != "a.txt" {
		t.Errorf("estimate identity = (%s, %s)", estimate.FileID, estimate.Filename)
	}
	if estimate.Tokens != 5 {
		t.Errorf("Tokens = %d, want 5", estimate.Tokens)
	}
	if want := 5 * perToken(t, llm.EmbeddingModelSmall); estimate.Cost != want {
		t.Errorf("Cost = %v, want %v", estimate.Cost, want)
	}
	if !estimate.IsIngested {
		t.Error("IsIngested = false, want true")
	}
}

func TestEstimator_EstimateCorpusFile_MarkdownIsNormalized(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "doc.md", "# Top\n\nHello world\n")

	estimator := NewEstimator(testTokenizers())
	file := &storage.CorpusFileRecord{ID: "file-1", Filename: "doc.md"}

	estimate, err := estimator.EstimateCorpusFile(context.Background(), testCorpus(dir), file)
	if err != nil {
		t.Fatalf("EstimateCorpusFile() error = %v", err)
	}
	// "Top", "Hello", "world": the heading marker is not a token.
	if estimate.Tokens != 3 {
		t.Errorf("Tokens = %d, want 3", estimate.Tokens)
	}
}

func TestEstimator_EstimateCorpusFile_MissingFile(t *testing.T) {
	estimator := NewEstimator(testTokenizers())
	file := &storage.CorpusFileRecord{ID: "file-1", Filename: "gone.txt"}

	_, err := estimator.EstimateCorpusFile(context.Background(), testCorpus(t.TempDir()), file)
	if !errors.Is(err, ErrNoEstimate) {
		t.Errorf("EstimateCorpusFile() error = %v, want ErrNoEstimate", err)
	}
}

func TestEstimator_EstimateCorpusFile_UnknownModelBeforeIO(t *testing.T) {
	estimator := NewEstimator(testTokenizers())
	corpus := testCorpus(filepath.Join(t.TempDir(), "does-not-exist"))
	corpus.EmbeddingModel = "text-embedding-9000"
	file := &storage.CorpusFileRecord{ID: "file-1", Filename: "a.txt"}

	_, err := estimator.EstimateCorpusFile(context.Background(), corpus, file)
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("EstimateCorpusFile() error = %v, want ErrInvalidInput", err)
	}
	if !errors.Is(err, llm.ErrUnknownModel) {
		t.Errorf("EstimateCorpusFile() error = %v, want it to wrap ErrUnknownModel", err)
	}
	// The model is rejected before the missing path is ever looked at.
	if errors.Is(err, service.ErrNotFound) {
		t.Errorf("EstimateCorpusFile() error = %v, should not be a not-found error", err)
	}
}

func TestEstimator_EstimateCorpusFile_MissingRoot(t *testing.T) {
	estimator := NewEstimator(testTokenizers())
	corpus := testCorpus(filepath.Join(t.TempDir(), "does-not-exist"))
	file := &storage.CorpusFileRecord{ID: "file-1", Filename: "a.txt"}

	_, err := estimator.EstimateCorpusFile(context.Background(), corpus, file)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("EstimateCorpusFile() error = %v, want ErrNotFound", err)
	}
}

func TestEstimator_EstimateCorpus(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "one two three four five")
	writeTestFile(t, dir, "b.txt", "six seven eight")
	writeTestFile(t, dir, "c.txt", "nine ten")

	estimator := NewEstimator(testTokenizers())
	corpus := testCorpus(dir)
	files := []storage.CorpusFileRecord{
		{ID: "file-1", CorpusID: corpus.ID, Filename: "a.txt"},
		{ID: "file-2", CorpusID: corpus.ID, Filename: "b.txt"},
		{ID: "file-3", CorpusID: corpus.ID, Filename: "c.txt", IsIngested: true},
	}

	t.Run("uningested only", func(t *testing.T) {
		summary, err := estimator.EstimateCorpus(context.Background(), corpus, files, false)
		if err != nil {
			t.Fatalf("EstimateCorpus() error = %v", err)
		}
		if summary.CorpusID != "corpus-1" || summary.CorpusName != "docs" || summary.Model != llm.EmbeddingModelSmall {
			t.Errorf("summary header = (%s, %s, %s)", summary.CorpusID, summary.CorpusName, summary.Model)
		}
		if summary.FileCount != 2 || summary.IngestedCount != 0 || summary.UningestedCount != 2 {
			t.Errorf("counts = (%d, %d, %d), want (2, 0, 2)",
				summary.FileCount, summary.IngestedCount, summary.UningestedCount)
		}
		if summary.TotalTokens != 8 {
			t.Errorf("TotalTokens = %d, want 8", summary.TotalTokens)
		}
		if want := 5*perToken(t, llm.EmbeddingModelSmall) + 3*perToken(t, llm.EmbeddingModelSmall); summary.TotalCost != want {
			t.Errorf("TotalCost = %v, want %v", summary.TotalCost, want)
		}
	})

	t.Run("including ingested", func(t *testing.T) {
		summary, err := estimator.EstimateCorpus(context.Background(), corpus, files, true)
		if err != nil {
			t.Fatalf("EstimateCorpus() error = %v", err)
		}
		if summary.FileCount != 3 || summary.IngestedCount != 1 || summary.UningestedCount != 2 {
			t.Errorf("counts = (%d, %d, %d), want (3, 1, 2)",
				summary.FileCount, summary.IngestedCount, summary.UningestedCount)
		}
		if summary.TotalTokens != 10 {
			t.Errorf("TotalTokens = %d, want 10", summary.TotalTokens)
		}
	})
}

func TestEstimator_EstimateCorpus_SkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "one two three")

	estimator := NewEstimator(testTokenizers())
	corpus := testCorpus(dir)
	files := []storage.CorpusFileRecord{
		{ID: "file-1", CorpusID: corpus.ID, Filename: "a.txt"},
		{ID: "file-2", CorpusID: corpus.ID, Filename: "vanished.txt"},
	}

	summary, err := estimator.EstimateCorpus(context.Background(), corpus, files, false)
	if err != nil {
		t.Fatalf("EstimateCorpus() error = %v", err)
	}
	if summary.FileCount != 1 {
		t.Errorf("FileCount = %d, want 1 (unreadable file skipped)", summary.FileCount)
	}
	if summary.TotalTokens != 3 {
		t.Errorf("TotalTokens = %d, want 3", summary.TotalTokens)
	}
}

func TestEstimator_EstimateCorpus_NoCandidates(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "one two three")

	estimator := NewEstimator(testTokenizers())
	corpus := testCorpus(dir)
	files := []storage.CorpusFileRecord{
		{ID: "file-1", CorpusID: corpus.ID, Filename: "a.txt", IsIngested: true},
	}

	_, err := estimator.EstimateCorpus(context.Background(), corpus, files, false)
	if !errors.Is(err, ErrNoEstimate) {
		t.Errorf("EstimateCorpus() error = %v, want ErrNoEstimate", err)
	}
}

func TestEstimator_EstimateCorpus_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "one two three four five")
	writeTestFile(t, dir, "b.txt", "six seven eight")

	estimator := NewEstimator(testTokenizers())
	corpus := testCorpus(dir)
	files := []storage.CorpusFileRecord{
		{ID: "file-1", CorpusID: corpus.ID, Filename: "a.txt"},
		{ID: "file-2", CorpusID: corpus.ID, Filename: "b.txt"},
	}

	first, err := estimator.EstimateCorpus(context.Background(), corpus, files, false)
	if err != nil {
		t.Fatalf("EstimateCorpus() error = %v", err)
	}
	second, err := estimator.EstimateCorpus(context.Background(), corpus, files, false)
	if err != nil {
		t.Fatalf("EstimateCorpus() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("estimates differ between runs:\n%+v\n%+v", first, second)
	}
}

func TestEstimator_EstimateFolder(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "b.txt", "six seven eight")
	writeTestFile(t, dir, "a.txt", "one two three four five")
	writeTestFile(t, dir, "notes.md", "ignored markdown")

	estimator := NewEstimator(testTokenizers())

	summary, err := estimator.EstimateFolder(context.Background(), dir, llm.EmbeddingModelSmall)
	if err != nil {
		t.Fatalf("EstimateFolder() error = %v", err)
	}

	if summary.FolderPath != dir || summary.Model != llm.EmbeddingModelSmall {
		t.Errorf("summary header = (%s, %s)", summary.FolderPath, summary.Model)
	}
	if summary.FileCount != 2 {
		t.Fatalf("FileCount = %d, want 2 (.txt only)", summary.FileCount)
	}
	if summary.Files[0].Filename != "a.txt" || summary.Files[1].Filename != "b.txt" {
		t.Errorf("files = [%s, %s], want lexical order [a.txt, b.txt]",
			summary.Files[0].Filename, summary.Files[1].Filename)
	}
	if summary.TotalTokens != 8 {
		t.Errorf("TotalTokens = %d, want 8", summary.TotalTokens)
	}
}

func TestEstimator_EstimateFolder_MissingRoot(t *testing.T) {
	estimator := NewEstimator(testTokenizers())

	_, err := estimator.EstimateFolder(context.Background(), filepath.Join(t.TempDir(), "nope"), llm.EmbeddingModelSmall)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("EstimateFolder() error = %v, want ErrNotFound", err)
	}
}

func TestEstimator_EstimateFolder_NoTxtFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "notes.md", "only markdown here")

	estimator := NewEstimator(testTokenizers())

	_, err := estimator.EstimateFolder(context.Background(), dir, llm.EmbeddingModelSmall)
	if !errors.Is(err, ErrNoEstimate) {
		t.Errorf("EstimateFolder() error = %v, want ErrNoEstimate", err)
	}
}
