package main

import (
	"context"
	"testing"

	"github.com/goliatone/go-docsite/cmd/site/internal/bootstrap"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

type stubMarkdownService struct {
	syncCalls int
	syncOpts  interfaces.SyncOptions
}

func (s *stubMarkdownService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) Sync(context.Context, string, interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	s.syncCalls++
	return &interfaces.SyncResult{}, nil
}

type stubGeneratorService struct {
	buildCalls int
	buildOpts  generator.BuildOptions
}

func (s *stubGeneratorService) Build(_ context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	s.buildCalls++
	s.buildOpts = opts
	return &generator.BuildResult{PagesBuilt: 2}, nil
}

func (s *stubGeneratorService) BuildLesson(context.Context, string, string, string) error {
	return nil
}

func (s *stubGeneratorService) BuildAssets(context.Context) error { return nil }

func (s *stubGeneratorService) BuildSitemap(context.Context) error { return nil }

func (s *stubGeneratorService) Clean(context.Context) error { return nil }

func stubRuntime(md *stubMarkdownService, gen *stubGeneratorService) *bootstrap.Runtime {
	return &bootstrap.Runtime{
		Markdown:  md,
		Generator: gen,
		Logger:    logging.NoOp(),
	}
}

func TestRunBuildSyncsThenBuilds(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	md := &stubMarkdownService{}
	gen := &stubGeneratorService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Runtime, error) {
		return stubRuntime(md, gen), nil
	}

	if err := runBuild([]string{"-locales", "en,es"}); err != nil {
		t.Fatalf("runBuild returned error: %v", err)
	}
	if md.syncCalls != 1 {
		t.Fatalf("expected one sync call, got %d", md.syncCalls)
	}
	if gen.buildCalls != 1 {
		t.Fatalf("expected one build call, got %d", gen.buildCalls)
	}
	if len(gen.buildOpts.Locales) != 2 {
		t.Fatalf("expected two locales, got %v", gen.buildOpts.Locales)
	}
}

func TestRunBuildSkipSync(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	md := &stubMarkdownService{}
	gen := &stubGeneratorService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Runtime, error) {
		return stubRuntime(md, gen), nil
	}

	if err := runBuild([]string{"-skip-sync", "-dry-run"}); err != nil {
		t.Fatalf("runBuild returned error: %v", err)
	}
	if md.syncCalls != 0 {
		t.Fatalf("expected no sync calls, got %d", md.syncCalls)
	}
	if !gen.buildOpts.DryRun {
		t.Fatal("expected dry-run flag to propagate")
	}
}
