package markdown

import (
	"context"
	"testing"
	"testing/fstest"
	"time"
)

func lessonFile(content string) *fstest.MapFile {
	return &fstest.MapFile{
		Data:    []byte(content),
		ModTime: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func newTestFS() fstest.MapFS {
	return fstest.MapFS{
		"hld/url-shortener.md":    lessonFile("---\ntitle: URL Shortener\n---\nBody"),
		"hld/rate-limiter.md":     lessonFile("---\ntitle: Rate Limiter\n---\nBody"),
		"lld/lru-cache.md":        lessonFile("---\ntitle: LRU Cache\n---\nBody"),
		"es/hld/url-shortener.md": lessonFile("---\ntitle: Acortador de URLs\n---\nCuerpo"),
		"hld/notes.txt":           lessonFile("not a lesson"),
		"index.md":                lessonFile("---\ntitle: Welcome\n---\nIntro"),
	}
}

func newTestLoader() *Loader {
	return NewLoader(newTestFS(), LoaderConfig{
		DefaultLocale: "en",
		Locales:       []string{"en", "es"},
		Recursive:     true,
	})
}

func TestLoaderLoadFile(t *testing.T) {
	loader := newTestLoader()

	result, err := loader.LoadFile(context.Background(), "hld/url-shortener.md", LoadParams{})
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	doc := result.Document
	if doc.FrontMatter.Title != "URL Shortener" {
		t.Errorf("expected parsed title, got %q", doc.FrontMatter.Title)
	}
	if doc.Locale != "en" {
		t.Errorf("expected default locale en, got %q", doc.Locale)
	}
	if len(doc.Checksum) == 0 {
		t.Error("expected checksum to be populated")
	}
}

func TestLoaderDetectsLocaleFromPath(t *testing.T) {
	loader := newTestLoader()

	result, err := loader.LoadFile(context.Background(), "es/hld/url-shortener.md", LoadParams{})
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if result.Document.Locale != "es" {
		t.Errorf("expected locale es, got %q", result.Document.Locale)
	}
}

func TestLoaderLoadDirectoryFiltersAndSorts(t *testing.T) {
	loader := newTestLoader()

	results, err := loader.LoadDirectory(context.Background(), ".", LoadParams{})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}

	if len(results) != 5 {
		t.Fatalf("expected 5 markdown documents, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Document.FilePath > results[i].Document.FilePath {
			t.Fatalf("documents not sorted: %q before %q",
				results[i-1].Document.FilePath, results[i].Document.FilePath)
		}
	}
	for _, result := range results {
		if result.Document.FilePath == "hld/notes.txt" {
			t.Fatal("non markdown file should have been filtered out")
		}
	}
}

func TestLoaderNonRecursiveStaysInRoot(t *testing.T) {
	loader := NewLoader(newTestFS(), LoaderConfig{DefaultLocale: "en"})

	results, err := loader.LoadDirectory(context.Background(), ".", LoadParams{})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(results) != 1 || results[0].Document.FilePath != "index.md" {
		t.Fatalf("expected only root index.md, got %d results", len(results))
	}
}

func TestSectionForPath(t *testing.T) {
	loader := newTestLoader()

	cases := []struct {
		path string
		want string
	}{
		{"hld/url-shortener.md", "hld"},
		{"es/hld/url-shortener.md", "hld"},
		{"lld/deep/lru-cache.md", "lld"},
		{"index.md", ""},
		{"es/index.md", ""},
	}
	for _, tc := range cases {
		if got := loader.SectionForPath(tc.path); got != tc.want {
			t.Errorf("SectionForPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
