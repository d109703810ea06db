package generator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type writeCategory string

const (
	categoryPage     writeCategory = "page"
	categoryAsset    writeCategory = "asset"
	categorySitemap  writeCategory = "sitemap"
	categoryRobots   writeCategory = "robots"
	categoryFeed     writeCategory = "feed"
	categoryManifest writeCategory = "manifest"
)

// writeFileRequest describes a file write routed through the artifact writer.
type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Locale      string
	Category    writeCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// ArtifactWriter abstracts output storage so builds can target the local
// filesystem in production and an in-memory sink in tests.
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	RemoveAll(ctx context.Context, path string) error
}

// NewFSWriter returns an ArtifactWriter rooted at dir on the local filesystem.
// Paths passed to the writer are interpreted relative to dir.
func NewFSWriter(dir string) ArtifactWriter {
	return &fsWriter{root: filepath.Clean(strings.TrimSpace(dir))}
}

type fsWriter struct {
	root string
}

func (w *fsWriter) resolve(path string) string {
	path = filepath.FromSlash(strings.TrimSpace(path))
	if w.root == "" || w.root == "." {
		return path
	}
	return filepath.Join(w.root, path)
}

func (w *fsWriter) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" || path == "." {
		return nil
	}
	return os.MkdirAll(w.resolve(path), 0o755)
}

func (w *fsWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	target := w.resolve(req.Path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	file, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (w *fsWriter) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(w.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (w *fsWriter) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return os.RemoveAll(w.resolve(path))
}

// MemoryWriter captures artifacts in memory. Used by tests and dry-run hosts.
type MemoryWriter struct {
	mu    sync.Mutex
	files map[string]MemoryArtifact
	dirs  map[string]struct{}
}

// MemoryArtifact is a single captured write.
type MemoryArtifact struct {
	Data        []byte
	Locale      string
	Category    string
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// NewMemoryWriter constructs an empty in-memory artifact writer.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{
		files: map[string]MemoryArtifact{},
		dirs:  map[string]struct{}{},
	}
}

func (w *MemoryWriter) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirs[strings.Trim(path, "/")] = struct{}{}
	return nil
}

func (w *MemoryWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[strings.Trim(req.Path, "/")] = MemoryArtifact{
		Data:        data,
		Locale:      req.Locale,
		Category:    string(req.Category),
		ContentType: req.ContentType,
		Checksum:    req.Checksum,
		Metadata:    req.Metadata,
	}
	return nil
}

func (w *MemoryWriter) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	artifact, ok := w.files[strings.Trim(path, "/")]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), artifact.Data...), nil
}

func (w *MemoryWriter) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prefix := strings.Trim(path, "/")
	w.mu.Lock()
	defer w.mu.Unlock()
	for key := range w.files {
		if key == prefix || strings.HasPrefix(key, prefix+"/") {
			delete(w.files, key)
		}
	}
	return nil
}

// Artifact returns the captured write for path, if any.
func (w *MemoryWriter) Artifact(path string) (MemoryArtifact, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	artifact, ok := w.files[strings.Trim(path, "/")]
	return artifact, ok
}

// Paths lists captured artifact paths.
func (w *MemoryWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.files))
	for key := range w.files {
		paths = append(paths, key)
	}
	return paths
}
