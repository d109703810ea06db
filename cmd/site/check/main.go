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
	if err := runCheck(os.Args[1:]); err != nil {
		log.Fatalf("site check: %v", err)
	}
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("site-check", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the lesson content root")
	baseURL := fs.String("base-url", "", "Absolute base URL treated as internal when resolving links")
	locales := fs.String("locales", "", "Comma separated list of locales to check")
	defaultLocale := fs.String("default-locale", "en", "Default locale for lesson documents")
	drafts := fs.Bool("drafts", false, "Include draft lessons in the check")
	strict := fs.Bool("strict", false, "Exit non-zero when broken links are found")

	if err := fs.Parse(args); err != nil {
		return err
	}

	runtime, err := moduleBuilder(bootstrap.Options{
		ContentDir:    *contentDir,
		Recursive:     true,
		DefaultLocale: *defaultLocale,
		Locales:       bootstrap.SplitLocales(*locales),
		BaseURL:       *baseURL,
		IncludeDrafts: *drafts,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	ctx := context.Background()

	if runtime.Markdown == nil {
		return fmt.Errorf("markdown service not configured; ensure Features.Markdown is enabled")
	}
	syncHandler := contentcmd.NewSyncContentHandler(runtime.Markdown, runtime.Logger)
	if err := syncHandler.Execute(ctx, contentcmd.SyncContentCommand{Directory: "."}); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}

	gates := sitecmd.FeatureGates{GeneratorEnabled: func() bool { return true }}
	handler := sitecmd.NewCheckLinksHandler(runtime.Generator, runtime.Logger, gates)

	cmd := sitecmd.CheckLinksCommand{
		Locales: bootstrap.SplitLocales(*locales),
		Strict:  *strict,
		ResultCallback: func(env sitecmd.ResultEnvelope) {
			if env.Result == nil {
				return
			}
			if len(env.Result.BrokenLinks) == 0 {
				fmt.Fprintln(os.Stdout, "all internal links resolve")
				return
			}
			for _, issue := range env.Result.BrokenLinks {
				fmt.Fprintf(os.Stderr, "broken link on %s: %s (%s)\n", issue.Route, issue.Link, issue.Reason)
			}
		},
	}

	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute check command: %w", err)
	}
	return nil
}
