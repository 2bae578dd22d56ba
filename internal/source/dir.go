package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotDirectory reports that a corpus path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// File is a document discovered in a corpus directory.
type File struct {
	Name string // base filename, e.g. "notes.txt"
	Path string // full path to the file
}

// Dir reads the documents of a single corpus directory. Only top-level
// .txt and .md files count as documents; markdown is flattened to plain
// text on read so chunking and token counting see the same content for
// both formats.
type Dir struct {
	path string
	md   *MarkdownNormalizer
}

// NewDir creates a Dir rooted at path.
func NewDir(path string) *Dir {
	return &Dir{
		path: path,
		md:   NewMarkdownNormalizer(),
	}
}

// Path returns the directory the Dir reads from.
func (d *Dir) Path() string {
	return d.path
}

// Scan lists the documents in the directory, sorted by filename.
// Subdirectories are not descended into. Callers distinguish a missing
// directory with errors.Is(err, fs.ErrNotExist) and a path that is not a
// directory with errors.Is(err, ErrNotDirectory).
func (d *Dir) Scan(ctx context.Context) ([]File, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	info, err := os.Stat(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory %s: %w", d.path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, d.path)
	}

	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory %s: %w", d.path, err)
	}

	// os.ReadDir returns entries sorted by filename.
	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !isDocument(entry.Name()) {
			continue
		}
		files = append(files, File{
			Name: entry.Name(),
			Path: filepath.Join(d.path, entry.Name()),
		})
	}

	return files, nil
}

// Read returns the text of a document by its base filename. Markdown is
// flattened to plain text; other files are returned as-is.
func (d *Dir) Read(filename string) (string, error) {
	data, err := os.ReadFile(filepath.Join(d.path, filename))
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if filepath.Ext(filename) == ".md" {
		return d.md.Normalize(data), nil
	}
	return string(data), nil
}

func isDocument(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".txt" || ext == ".md"
}
