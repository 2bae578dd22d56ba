// Package cost estimates embedding spend before ingestion. Estimates use
// only the local tokenizer and a static pricing table; they never call the
// embedding provider.
package cost

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ragonquest/internal/contextutil"
	"ragonquest/internal/llm"
	"ragonquest/internal/service"
	"ragonquest/internal/source"
	"ragonquest/internal/storage"
)

// ErrNoEstimate reports that no estimate could be produced: the file could
// not be read, or no candidate files remain. At single-file granularity
// callers surface it; at corpus granularity unreadable files are skipped.
var ErrNoEstimate = errors.New("no estimate")

// Estimator prices documents by token count for a given embedding model.
type Estimator struct {
	tokenizers TokenizerProvider
}

// NewEstimator creates an estimator resolving tokenizers through the
// given provider.
func NewEstimator(tokenizers TokenizerProvider) *Estimator {
	return &Estimator{tokenizers: tokenizers}
}

// pricing resolves the per-token price and tokenizer for a model. Unknown
// models fail here, before any file is touched.
func (e *Estimator) pricing(model string) (float64, Tokenizer, error) {
	costPerToken, err := llm.CostPerToken(model)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", service.ErrInvalidInput, err)
	}
	tokenizer, err := e.tokenizers.TokenizerForModel(model)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to load tokenizer for model %q: %w", service.ErrInvalidInput, model, err)
	}
	return costPerToken, tokenizer, nil
}

// checkRoot verifies the directory the documents live in.
func checkRoot(path string) error {
	if path == "" {
		return fmt.Errorf("no path configured: %w", service.ErrInvalidInput)
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("path %q does not exist: %w", path, service.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to stat path %q: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %q is not a directory: %w", path, service.ErrInvalidInput)
	}
	return nil
}

// EstimateCorpusFile prices a single tracked file of a corpus using the
// corpus's embedding model. A file that cannot be read yields ErrNoEstimate.
func (e *Estimator) EstimateCorpusFile(ctx context.Context, corpus *storage.CorpusRecord, file *storage.CorpusFileRecord) (*CorpusFileEstimate, error) {
	costPerToken, tokenizer, err := e.pricing(corpus.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	if err := checkRoot(corpus.Path); err != nil {
		return nil, err
	}
	return estimateCorpusFile(source.NewDir(corpus.Path), tokenizer, costPerToken, file)
}

func estimateCorpusFile(dir *source.Dir, tokenizer Tokenizer, costPerToken float64, file *storage.CorpusFileRecord) (*CorpusFileEstimate, error) {
	text, err := dir.Read(file.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read file %q: %w", ErrNoEstimate, file.Filename, err)
	}
	tokens := tokenizer.CountTokens(text)
	return &CorpusFileEstimate{
		FileID:     file.ID,
		Filename:   file.Filename,
		Tokens:     tokens,
		Cost:       float64(tokens) * costPerToken,
		IsIngested: file.IsIngested,
	}, nil
}

// EstimateCorpus prices the tracked files of a corpus. Files already
// ingested are excluded unless includeIngested is set; with no candidate
// files left the result is ErrNoEstimate. Candidate files that cannot be
// read are skipped, and the summary counts only the files it priced.
func (e *Estimator) EstimateCorpus(ctx context.Context, corpus *storage.CorpusRecord, files []storage.CorpusFileRecord, includeIngested bool) (*CorpusSummary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	costPerToken, tokenizer, err := e.pricing(corpus.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	if err := checkRoot(corpus.Path); err != nil {
		return nil, err
	}

	candidates := files
	if !includeIngested {
		candidates = nil
		for _, file := range files {
			if !file.IsIngested {
				candidates = append(candidates, file)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: corpus %q has no files to estimate", ErrNoEstimate, corpus.Name)
	}

	dir := source.NewDir(corpus.Path)
	summary := &CorpusSummary{
		CorpusID:   corpus.ID,
		CorpusName: corpus.Name,
		Model:      corpus.EmbeddingModel,
		Files:      []CorpusFileEstimate{},
	}
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		estimate, err := estimateCorpusFile(dir, tokenizer, costPerToken, &candidates[i])
		if err != nil {
			logger.WarnContext(ctx, "skipping file without estimate", "file", candidates[i].Filename, "error", err)
			continue
		}
		summary.Files = append(summary.Files, *estimate)
		summary.TotalTokens += estimate.Tokens
		summary.TotalCost += estimate.Cost
		if estimate.IsIngested {
			summary.IngestedCount++
		} else {
			summary.UningestedCount++
		}
	}
	summary.FileCount = len(summary.Files)
	return summary, nil
}

// EstimateFolder prices every .txt file directly under folderPath for the
// given model, without consulting the database. A folder with no .txt
// files yields ErrNoEstimate.
func (e *Estimator) EstimateFolder(ctx context.Context, folderPath, model string) (*FolderSummary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	costPerToken, tokenizer, err := e.pricing(model)
	if err != nil {
		return nil, err
	}
	if err := checkRoot(folderPath); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(folderPath, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %q: %w", folderPath, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no .txt files in %q", ErrNoEstimate, folderPath)
	}

	summary := &FolderSummary{
		FolderPath: folderPath,
		Model:      model,
		Files:      []FileEstimate{},
	}
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(match)
		if err != nil {
			logger.WarnContext(ctx, "skipping file without estimate", "file", match, "error", err)
			continue
		}
		tokens := tokenizer.CountTokens(string(data))
		summary.Files = append(summary.Files, FileEstimate{
			Filename: filepath.Base(match),
			Tokens:   tokens,
			Cost:     float64(tokens) * costPerToken,
		})
		summary.TotalTokens += tokens
		summary.TotalCost += float64(tokens) * costPerToken
	}
	summary.FileCount = len(summary.Files)
	return summary, nil
}
