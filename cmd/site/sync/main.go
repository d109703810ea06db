package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-docsite/cmd/site/internal/bootstrap"
	contentcmd "github.com/goliatone/go-docsite/internal/commands/content"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("site sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("site-sync", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the lesson content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	locales := fs.String("locales", "", "Comma separated list of locales (defaults to the default locale)")
	defaultLocale := fs.String("default-locale", "en", "Default locale for lesson documents")
	defaultSection := fs.String("default-section", "", "Section assigned to lessons outside a section directory")
	directory := fs.String("directory", ".", "Directory to sync, relative to the content root")
	prune := fs.Bool("prune", false, "Remove indexed lessons whose source files no longer exist")
	dryRun := fs.Bool("dry-run", false, "Preview changes without updating the lesson index")

	if err := fs.Parse(args); err != nil {
		return err
	}

	runtime, err := moduleBuilder(bootstrap.Options{
		ContentDir:     *contentDir,
		Pattern:        *pattern,
		Recursive:      true,
		DefaultSection: *defaultSection,
		DefaultLocale:  *defaultLocale,
		Locales:        bootstrap.SplitLocales(*locales),
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if runtime.Markdown == nil {
		return fmt.Errorf("markdown service not configured; ensure Features.Markdown is enabled")
	}

	handler := contentcmd.NewSyncContentHandler(runtime.Markdown, runtime.Logger)
	cmd := contentcmd.SyncContentCommand{
		Directory: *directory,
		Prune:     *prune,
		DryRun:    *dryRun,
		ResultCallback: func(env contentcmd.ResultEnvelope) {
			if env.Result == nil {
				return
			}
			fmt.Fprintf(os.Stdout, "sync complete: %d created, %d updated, %d skipped, %d deleted\n",
				env.Result.Created, env.Result.Updated, env.Result.Skipped, env.Result.Deleted)
			if env.Result.DryRun {
				for _, change := range env.Result.Changes {
					fmt.Fprintf(os.Stdout, "  %-6s %s\n", change.Action, change.FilePath)
				}
			}
		},
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	return nil
}
