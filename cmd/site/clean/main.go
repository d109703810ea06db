package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-docsite/cmd/site/internal/bootstrap"
	sitecmd "github.com/goliatone/go-docsite/internal/commands/site"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runClean(os.Args[1:]); err != nil {
		log.Fatalf("site clean: %v", err)
	}
}

func runClean(args []string) error {
	fs := flag.NewFlagSet("site-clean", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the lesson content root")
	outputDir := fs.String("output", "public", "Directory that receives the generated site")

	if err := fs.Parse(args); err != nil {
		return err
	}

	runtime, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Recursive:  true,
		OutputDir:  *outputDir,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	gates := sitecmd.FeatureGates{GeneratorEnabled: func() bool { return true }}
	handler := sitecmd.NewCleanSiteHandler(runtime.Generator, runtime.Logger, gates)

	if err := handler.Execute(context.Background(), sitecmd.CleanSiteCommand{}); err != nil {
		return fmt.Errorf("execute clean command: %w", err)
	}
	fmt.Fprintf(os.Stdout, "removed generated artifacts under %s\n", *outputDir)
	return nil
}
