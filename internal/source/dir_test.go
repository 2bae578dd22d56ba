package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestDir_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	// Create files of various types, plus a subdirectory that must be
	// ignored even though it contains documents.
	files := []string{"zebra.txt", "alpha.md", "notes.txt", "image.png", "code.go"}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("content"), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}

	subDir := filepath.Join(tmpDir, "nested")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("Failed to create sub dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(subDir, "hidden.txt"), []byte("content"), 0644); err != nil {
		t.Fatalf("Failed to create nested file: %v", err)
	}

	dir := NewDir(tmpDir)
	found, err := dir.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// Only top-level .txt and .md files, sorted by filename.
	want := []string{"alpha.md", "notes.txt", "zebra.txt"}
	if len(found) != len(want) {
		t.Fatalf("Scan() found %d files, want %d", len(found), len(want))
	}
	for i, name := range want {
		if found[i].Name != name {
			t.Errorf("Scan()[%d].Name = %q, want %q", i, found[i].Name, name)
		}
		if found[i].Path != filepath.Join(tmpDir, name) {
			t.Errorf("Scan()[%d].Path = %q, want %q", i, found[i].Path, filepath.Join(tmpDir, name))
		}
	}
}

func TestDir_Scan_MissingDirectory(t *testing.T) {
	dir := NewDir(filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := dir.Scan(context.Background())
	if err == nil {
		t.Fatal("Scan() on missing directory should return error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Scan() error = %v, want fs.ErrNotExist", err)
	}
}

func TestDir_Scan_PathIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plain.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	dir := NewDir(path)
	_, err := dir.Scan(context.Background())
	if err == nil {
		t.Fatal("Scan() on a file should return error")
	}
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("Scan() error = %v, want ErrNotDirectory", err)
	}
}

func TestDir_Scan_EmptyDirectory(t *testing.T) {
	dir := NewDir(t.TempDir())

	found, err := dir.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(found) != 0 {
		t.Errorf("Scan() found %d files, want 0", len(found))
	}
}

func TestDir_Scan_ContextCancellation(t *testing.T) {
	dir := NewDir(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dir.Scan(ctx)
	if err == nil {
		t.Fatal("Scan() with cancelled context should return error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Scan() error = %v, want context.Canceled", err)
	}
}

func TestDir_Read_PlainText(t *testing.T) {
	tmpDir := t.TempDir()
	content := "Line one.\nLine two.\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "doc.txt"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	dir := NewDir(tmpDir)
	got, err := dir.Read("doc.txt")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	// Plain text passes through untouched.
	if got != content {
		t.Errorf("Read() = %q, want %q", got, content)
	}
}

func TestDir_Read_Markdown(t *testing.T) {
	tmpDir := t.TempDir()
	markdown := "# Title\n\nSome *emphasized* text with a [link](https://example.com).\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "doc.md"), []byte(markdown), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	dir := NewDir(tmpDir)
	got, err := dir.Read("doc.md")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := "Title\nSome emphasized text with a link."
	if got != want {
		t.Errorf("Read() = %q, want %q", got, want)
	}
}

func TestDir_Read_MissingFile(t *testing.T) {
	dir := NewDir(t.TempDir())

	_, err := dir.Read("ghost.txt")
	if err == nil {
		t.Fatal("Read() on missing file should return error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Read() error = %v, want fs.ErrNotExist", err)
	}
}
