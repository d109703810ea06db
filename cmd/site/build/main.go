package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-docsite/cmd/site/internal/bootstrap"
	contentcmd "github.com/goliatone/go-docsite/internal/commands/content"
	sitecmd "github.com/goliatone/go-docsite/internal/commands/site"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("site build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("site-build", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the lesson content root")
	outputDir := fs.String("output", "public", "Directory that receives the generated site")
	baseURL := fs.String("base-url", "", "Absolute base URL used in sitemaps and feeds")
	title := fs.String("title", "", "Site title surfaced to templates and feeds")
	description := fs.String("description", "", "Site description surfaced to templates and feeds")
	locales := fs.String("locales", "", "Comma separated list of locales to build")
	defaultLocale := fs.String("default-locale", "en", "Default locale for lesson documents")
	themeDir := fs.String("theme-dir", "themes", "Directory holding one sub-directory per theme")
	theme := fs.String("theme", "", "Theme applied to the build")
	themeVariant := fs.String("theme-variant", "", "Theme variant (e.g. dark)")
	drafts := fs.Bool("drafts", false, "Include draft lessons in the build")
	failOnBrokenLinks := fs.Bool("fail-on-broken-links", false, "Fail the build when internal links do not resolve")
	cleanBuild := fs.Bool("clean", false, "Remove existing output before building")
	workers := fs.Int("workers", 0, "Number of concurrent render workers (0 uses the default)")
	dryRun := fs.Bool("dry-run", false, "Render without writing artifacts")
	assetsOnly := fs.Bool("assets-only", false, "Copy theme assets without rendering pages")
	skipSync := fs.Bool("skip-sync", false, "Build from the current index without re-reading content")

	if err := fs.Parse(args); err != nil {
		return err
	}

	runtime, err := moduleBuilder(bootstrap.Options{
		ContentDir:        *contentDir,
		Recursive:         true,
		DefaultLocale:     *defaultLocale,
		Locales:           bootstrap.SplitLocales(*locales),
		Title:             *title,
		Description:       *description,
		BaseURL:           *baseURL,
		OutputDir:         *outputDir,
		ThemeDir:          *themeDir,
		Theme:             *theme,
		ThemeVariant:      *themeVariant,
		IncludeDrafts:     *drafts,
		FailOnBrokenLinks: *failOnBrokenLinks,
		CleanBuild:        *cleanBuild,
		Workers:           *workers,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	ctx := context.Background()

	if !*skipSync {
		if err := syncContent(ctx, runtime); err != nil {
			return err
		}
	}

	gates := sitecmd.FeatureGates{GeneratorEnabled: func() bool { return true }}
	handler := sitecmd.NewBuildSiteHandler(runtime.Generator, runtime.Logger, gates)

	cmd := sitecmd.BuildSiteCommand{
		Locales:    bootstrap.SplitLocales(*locales),
		DryRun:     *dryRun,
		AssetsOnly: *assetsOnly,
		ResultCallback: func(env sitecmd.ResultEnvelope) {
			if env.Result == nil {
				return
			}
			fmt.Fprintf(os.Stdout, "build complete: %d pages built, %d skipped, %d assets, %s\n",
				env.Result.PagesBuilt, env.Result.PagesSkipped, env.Result.AssetsBuilt, env.Result.Duration)
			for _, issue := range env.Result.BrokenLinks {
				fmt.Fprintf(os.Stderr, "broken link on %s: %s (%s)\n", issue.Route, issue.Link, issue.Reason)
			}
		},
	}

	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}
	return nil
}

func syncContent(ctx context.Context, runtime *bootstrap.Runtime) error {
	if runtime.Markdown == nil {
		return fmt.Errorf("markdown service not configured; ensure Features.Markdown is enabled")
	}
	handler := contentcmd.NewSyncContentHandler(runtime.Markdown, runtime.Logger)
	if err := handler.Execute(ctx, contentcmd.SyncContentCommand{Directory: ".", Prune: true}); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	return nil
}
