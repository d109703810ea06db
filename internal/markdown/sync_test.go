package markdown

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-docsite/internal/lessons"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

func newSyncFixture(t *testing.T, files fstest.MapFS) (*Service, lessons.Service) {
	t.Helper()

	index := lessons.NewService(
		lessons.NewMemorySectionRepository(),
		lessons.NewMemoryLessonRepository(),
	)

	svc, err := NewServiceWithFS(Config{
		DefaultLocale: "en",
		Locales:       []string{"en", "es"},
		Recursive:     true,
	}, nil, files, WithLessonSink(index))
	if err != nil {
		t.Fatalf("NewServiceWithFS returned error: %v", err)
	}
	return svc, index
}

func TestSyncCreatesLessons(t *testing.T) {
	files := fstest.MapFS{
		"hld/url-shortener.md": lessonFile("---\ntitle: URL Shortener\n---\nBody"),
		"lld/lru-cache.md":     lessonFile("---\ntitle: LRU Cache\ntags: [cache]\n---\nBody"),
	}
	svc, index := newSyncFixture(t, files)

	result, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{})
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}

	if result.Created != 2 || result.Updated != 0 || result.Skipped != 0 {
		t.Fatalf("expected 2 creates, got %+v", result)
	}

	lesson, err := index.GetLessonBySlug(context.Background(), "hld", "url-shortener", "en")
	if err != nil {
		t.Fatalf("expected lesson indexed: %v", err)
	}
	if lesson.SourcePath != "hld/url-shortener.md" {
		t.Errorf("unexpected source path %q", lesson.SourcePath)
	}
	if !strings.Contains(lesson.BodyHTML, "Body") {
		t.Errorf("expected rendered body HTML, got %q", lesson.BodyHTML)
	}
}

func TestSyncSkipsUnchangedAndUpdatesChanged(t *testing.T) {
	files := fstest.MapFS{
		"hld/url-shortener.md": lessonFile("---\ntitle: URL Shortener\n---\nBody"),
	}
	svc, _ := newSyncFixture(t, files)

	if _, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{}); err != nil {
		t.Fatalf("first sync returned error: %v", err)
	}

	second, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{})
	if err != nil {
		t.Fatalf("second sync returned error: %v", err)
	}
	if second.Skipped != 1 || second.Created != 0 || second.Updated != 0 {
		t.Fatalf("expected 1 skip on unchanged content, got %+v", second)
	}

	files["hld/url-shortener.md"] = lessonFile("---\ntitle: URL Shortener\n---\nRevised body")
	third, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{})
	if err != nil {
		t.Fatalf("third sync returned error: %v", err)
	}
	if third.Updated != 1 || third.Created != 0 {
		t.Fatalf("expected 1 update on changed content, got %+v", third)
	}
}

func TestSyncPruneRemovesDeletedSources(t *testing.T) {
	files := fstest.MapFS{
		"hld/url-shortener.md": lessonFile("---\ntitle: URL Shortener\n---\nBody"),
		"hld/rate-limiter.md":  lessonFile("---\ntitle: Rate Limiter\n---\nBody"),
	}
	svc, index := newSyncFixture(t, files)

	if _, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{}); err != nil {
		t.Fatalf("initial sync returned error: %v", err)
	}

	delete(files, "hld/rate-limiter.md")
	result, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{Prune: true})
	if err != nil {
		t.Fatalf("prune sync returned error: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected 1 deletion, got %+v", result)
	}

	if _, err := index.GetLessonBySlug(context.Background(), "hld", "rate-limiter", "en"); err == nil {
		t.Fatal("expected pruned lesson to be gone")
	}
}

func TestSyncDryRunLeavesIndexUntouched(t *testing.T) {
	files := fstest.MapFS{
		"hld/url-shortener.md": lessonFile("---\ntitle: URL Shortener\n---\nBody"),
	}
	svc, index := newSyncFixture(t, files)

	result, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run returned error: %v", err)
	}
	if !result.DryRun {
		t.Error("expected DryRun flag set on result")
	}
	if result.Created != 1 {
		t.Fatalf("expected dry run to report 1 create, got %+v", result)
	}

	if _, err := index.GetLessonBySlug(context.Background(), "hld", "url-shortener", "en"); err == nil {
		t.Fatal("dry run must not persist lessons")
	}
}

func TestSyncDryRunReportsPlannedPrunes(t *testing.T) {
	files := fstest.MapFS{
		"hld/url-shortener.md": lessonFile("---\ntitle: URL Shortener\n---\nBody"),
		"hld/rate-limiter.md":  lessonFile("---\ntitle: Rate Limiter\n---\nBody"),
	}
	svc, index := newSyncFixture(t, files)

	if _, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{}); err != nil {
		t.Fatalf("initial sync returned error: %v", err)
	}

	delete(files, "hld/rate-limiter.md")
	result, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{Prune: true, DryRun: true})
	if err != nil {
		t.Fatalf("dry run prune returned error: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected 1 planned deletion, got %+v", result)
	}

	if _, err := index.GetLessonBySlug(context.Background(), "hld", "rate-limiter", "en"); err != nil {
		t.Fatalf("dry run must not remove lessons: %v", err)
	}
}

func TestSyncFrontmatterSectionOverridesPath(t *testing.T) {
	files := fstest.MapFS{
		"misc/interview-tips.md": lessonFile("---\ntitle: Interview Tips\nsection: general\n---\nBody"),
	}
	svc, index := newSyncFixture(t, files)

	if _, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{}); err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}

	if _, err := index.GetLessonBySlug(context.Background(), "general", "interview-tips", "en"); err != nil {
		t.Fatalf("expected lesson under frontmatter section: %v", err)
	}
}

func TestSyncWithoutSinkFails(t *testing.T) {
	svc, err := NewServiceWithFS(Config{DefaultLocale: "en"}, nil, fstest.MapFS{})
	if err != nil {
		t.Fatalf("NewServiceWithFS returned error: %v", err)
	}

	if _, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{}); err != ErrSinkRequired {
		t.Fatalf("expected ErrSinkRequired, got %v", err)
	}
}
