package docsite_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	docsite "github.com/goliatone/go-docsite"
	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/lessons"
	"github.com/goliatone/go-docsite/pkg/interfaces"
	"github.com/goliatone/go-docsite/pkg/testsupport"
)

func newIntegrationBunDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	ctx := context.Background()
	models := []any{
		(*lessons.Section)(nil),
		(*lessons.Lesson)(nil),
	}
	for _, model := range models {
		if _, err := bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
	return bunDB
}

func writeLessonFile(t *testing.T, dir, relPath, body string) {
	t.Helper()

	path := filepath.Join(dir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", relPath, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", relPath, err)
	}
}

func TestModule_SyncAndBuildWithBunStorage(t *testing.T) {
	ctx := context.Background()
	bunDB := newIntegrationBunDB(t)

	contentDir := t.TempDir()
	writeLessonFile(t, contentDir, "hld/url-shortener.md", strings.Join([]string{
		"---",
		"title: URL Shortener",
		"description: Hashing, key generation, and redirects.",
		"order: 1",
		"tags:",
		"  - hashing",
		"---",
		"",
		"# URL Shortener",
		"",
		"Start from the write path: [rate limiter](/hld/rate-limiter/).",
		"",
	}, "\n"))
	writeLessonFile(t, contentDir, "hld/rate-limiter.md", strings.Join([]string{
		"---",
		"title: Rate Limiter",
		"order: 2",
		"---",
		"",
		"# Rate Limiter",
		"",
		"Token bucket versus sliding window.",
		"",
	}, "\n"))

	cfg := docsite.DefaultConfig()
	cfg.Site.Title = "Design Lessons"
	cfg.Site.BaseURL = "https://lessons.example.com"
	cfg.Content.Dir = contentDir
	cfg.Generator.OutputDir = "public"
	cfg.Logging.Provider = "noop"
	cfg.Storage.Driver = docsite.StorageDriverSQLite
	cfg.Storage.DSN = "file::memory:?cache=shared"
	cfg.Storage.CacheTTL = 50 * time.Millisecond

	writer := generator.NewMemoryWriter()
	module, err := docsite.New(cfg,
		di.WithBunDB(bunDB),
		di.WithArtifactWriter(writer),
	)
	if err != nil {
		t.Fatalf("new docsite module: %v", err)
	}

	engine := module.Renderer()
	if engine == nil {
		t.Fatal("expected default render engine")
	}
	for _, name := range []string{"lesson", "section", "index"} {
		tmpl := "<html><body>{{.Data.Page.Route}}</body></html>"
		if err := engine.Register(name, tmpl); err != nil {
			t.Fatalf("register template %s: %v", name, err)
		}
	}

	syncResult, err := module.Markdown().Sync(ctx, ".", interfaces.SyncOptions{})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if syncResult.Created != 2 {
		t.Fatalf("expected two created lessons, got %+v", syncResult)
	}

	lesson, err := module.Lessons().GetLessonBySlug(ctx, "hld", "url-shortener", "en")
	if err != nil {
		t.Fatalf("get lesson: %v", err)
	}
	if lesson.Title != "URL Shortener" {
		t.Fatalf("unexpected lesson title %q", lesson.Title)
	}
	if !strings.Contains(lesson.BodyHTML, "<h1") {
		t.Fatalf("expected rendered body, got %q", lesson.BodyHTML)
	}

	buildResult, err := module.Generator().Build(ctx, generator.BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if buildResult.PagesBuilt == 0 {
		t.Fatal("expected pages to be built")
	}
	if len(buildResult.BrokenLinks) != 0 {
		t.Fatalf("expected internal links to resolve, got %+v", buildResult.BrokenLinks)
	}

	for _, path := range []string{
		"public/hld/url-shortener/index.html",
		"public/hld/rate-limiter/index.html",
		"public/hld/index.html",
		"public/index.html",
		"public/sitemap.xml",
	} {
		if _, ok := writer.Artifact(path); !ok {
			t.Fatalf("expected artifact %s, have %v", path, writer.Paths())
		}
	}

	// A second sync over unchanged files must report skips, not rewrites.
	second, err := module.Markdown().Sync(ctx, ".", interfaces.SyncOptions{})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.Created != 0 || second.Updated != 0 {
		t.Fatalf("expected unchanged sync, got %+v", second)
	}
}

func TestModule_DisabledMarkdownFeature(t *testing.T) {
	cfg := docsite.DefaultConfig()
	cfg.Site.Title = "Design Lessons"
	cfg.Site.BaseURL = "https://lessons.example.com"
	cfg.Content.Dir = t.TempDir()
	cfg.Generator.OutputDir = filepath.Join(t.TempDir(), "public")
	cfg.Logging.Provider = "noop"
	cfg.Features.Markdown = false

	module, err := docsite.New(cfg)
	if err != nil {
		t.Fatalf("new docsite module: %v", err)
	}
	if module.Markdown() != nil {
		t.Fatal("expected nil markdown service when the feature is disabled")
	}
	if module.Lessons() == nil {
		t.Fatal("expected lesson service regardless of markdown feature")
	}
}
