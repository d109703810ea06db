package sitecmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/linkcheck"
	goerrors "github.com/goliatone/go-errors"
)

type fakeGeneratorService struct {
	buildFunc       func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error)
	buildLessonFunc func(ctx context.Context, section, slug, locale string) error
	buildAssetsFunc func(ctx context.Context) error
	cleanFunc       func(ctx context.Context) error
}

func (f *fakeGeneratorService) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	if f.buildFunc == nil {
		return &generator.BuildResult{}, nil
	}
	return f.buildFunc(ctx, opts)
}

func (f *fakeGeneratorService) BuildLesson(ctx context.Context, section, slug, locale string) error {
	if f.buildLessonFunc == nil {
		return nil
	}
	return f.buildLessonFunc(ctx, section, slug, locale)
}

func (f *fakeGeneratorService) BuildAssets(ctx context.Context) error {
	if f.buildAssetsFunc == nil {
		return nil
	}
	return f.buildAssetsFunc(ctx)
}

func (f *fakeGeneratorService) BuildSitemap(context.Context) error { return nil }

func (f *fakeGeneratorService) Clean(ctx context.Context) error {
	if f.cleanFunc == nil {
		return nil
	}
	return f.cleanFunc(ctx)
}

func alwaysTrue() bool { return true }

func TestBuildSiteHandler_Execute_Build(t *testing.T) {
	var capturedOpts generator.BuildOptions
	callbackInvoked := false

	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{PagesBuilt: 3}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	cmd := BuildSiteCommand{
		Locales: []string{"en", " es ", "en"},
		ResultCallback: func(env ResultEnvelope) {
			callbackInvoked = true
			if env.Result == nil {
				t.Fatalf("expected build result, got nil")
			}
			if env.Result.PagesBuilt != 3 {
				t.Fatalf("expected PagesBuilt 3, got %d", env.Result.PagesBuilt)
			}
			if env.Metadata["operation"] != "build" {
				t.Fatalf("expected operation build, got %v", env.Metadata["operation"])
			}
		},
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}

	if capturedOpts.DryRun {
		t.Fatal("expected DryRun false")
	}
	if len(capturedOpts.Locales) != 2 {
		t.Fatalf("expected deduplicated locales, got %v", capturedOpts.Locales)
	}
	if capturedOpts.Locales[1] != "es" {
		t.Fatalf("expected trimmed locale, got %q", capturedOpts.Locales[1])
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestBuildSiteHandler_Execute_AssetsOnly(t *testing.T) {
	assetsCalled := false
	svc := &fakeGeneratorService{
		buildAssetsFunc: func(ctx context.Context) error {
			assetsCalled = true
			return nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	callbackInvoked := false
	cmd := BuildSiteCommand{
		AssetsOnly: true,
		ResultCallback: func(env ResultEnvelope) {
			callbackInvoked = true
			if env.Result != nil {
				t.Fatalf("expected nil result for assets build, got %#v", env.Result)
			}
			if env.Metadata["operation"] != "build_assets" {
				t.Fatalf("expected operation build_assets, got %v", env.Metadata["operation"])
			}
		},
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute assets: %v", err)
	}
	if !assetsCalled {
		t.Fatal("expected BuildAssets to be called")
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestBuildSiteHandler_Execute_SingleLesson(t *testing.T) {
	lessonCalled := false
	svc := &fakeGeneratorService{
		buildLessonFunc: func(ctx context.Context, section, slug, locale string) error {
			lessonCalled = true
			if section != "hld" {
				t.Fatalf("expected section hld, got %q", section)
			}
			if slug != "url-shortener" {
				t.Fatalf("expected slug url-shortener, got %q", slug)
			}
			if locale != "en" {
				t.Fatalf("expected locale en, got %q", locale)
			}
			return nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	cmd := BuildSiteCommand{
		Lessons: []generator.LessonRef{{Section: " hld ", Slug: " url-shortener ", Locale: " en "}},
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute lesson build: %v", err)
	}
	if !lessonCalled {
		t.Fatal("expected BuildLesson to be called")
	}
}

func TestBuildSiteHandler_DisabledGenerator(t *testing.T) {
	svc := &fakeGeneratorService{}
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{})

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if err == nil {
		t.Fatal("expected error when generator is disabled")
	}
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestBuildSiteHandler_ValidatesLessonRefs(t *testing.T) {
	svc := &fakeGeneratorService{}
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	cmd := BuildSiteCommand{
		Lessons: []generator.LessonRef{{Section: "hld"}},
	}

	err := handler.Execute(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestDiffSiteHandler_ForcesDryRun(t *testing.T) {
	var capturedOpts generator.BuildOptions
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{DryRun: true}, nil
		},
	}

	handler := NewDiffSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	callbackInvoked := false
	cmd := DiffSiteCommand{
		Locales: []string{"en"},
		ResultCallback: func(env ResultEnvelope) {
			callbackInvoked = true
			if env.Metadata["operation"] != "diff" {
				t.Fatalf("expected operation diff, got %v", env.Metadata["operation"])
			}
		},
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute diff: %v", err)
	}
	if !capturedOpts.DryRun {
		t.Fatal("expected diff to force DryRun")
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestCheckLinksHandler_ReportsWithoutFailing(t *testing.T) {
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			if !opts.DryRun {
				t.Fatal("expected check to run as dry-run")
			}
			return &generator.BuildResult{
				DryRun:      true,
				BrokenLinks: []linkcheck.Issue{{Route: "/hld/", Link: "/missing/", Reason: "no page at /missing"}},
			}, nil
		},
	}

	handler := NewCheckLinksHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	var reported int
	cmd := CheckLinksCommand{
		ResultCallback: func(env ResultEnvelope) {
			if env.Metadata["operation"] != "check_links" {
				t.Fatalf("expected operation check_links, got %v", env.Metadata["operation"])
			}
			reported = len(env.Result.BrokenLinks)
		},
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute check: %v", err)
	}
	if reported != 1 {
		t.Fatalf("expected one broken link reported, got %d", reported)
	}
}

func TestCheckLinksHandler_StrictFailsOnBrokenLinks(t *testing.T) {
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			return &generator.BuildResult{
				DryRun:      true,
				BrokenLinks: []linkcheck.Issue{{Route: "/hld/", Link: "/missing/"}},
			}, nil
		},
	}

	handler := NewCheckLinksHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	err := handler.Execute(context.Background(), CheckLinksCommand{Strict: true})
	if err == nil {
		t.Fatal("expected strict check to fail")
	}
	if !errors.Is(err, generator.ErrBrokenLinks) {
		t.Fatalf("expected ErrBrokenLinks, got %v", err)
	}
}

func TestCleanSiteHandler_Execute(t *testing.T) {
	cleaned := false
	svc := &fakeGeneratorService{
		cleanFunc: func(ctx context.Context) error {
			cleaned = true
			return nil
		},
	}

	handler := NewCleanSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	if err := handler.Execute(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("execute clean: %v", err)
	}
	if !cleaned {
		t.Fatal("expected Clean to be called")
	}
}
