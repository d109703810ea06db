package main

import (
	"context"
	"testing"

	"github.com/goliatone/go-docsite/cmd/site/internal/bootstrap"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/logging"
)

type stubGeneratorService struct {
	cleanCalls int
}

func (s *stubGeneratorService) Build(context.Context, generator.BuildOptions) (*generator.BuildResult, error) {
	return &generator.BuildResult{}, nil
}

func (s *stubGeneratorService) BuildLesson(context.Context, string, string, string) error {
	return nil
}

func (s *stubGeneratorService) BuildAssets(context.Context) error { return nil }

func (s *stubGeneratorService) BuildSitemap(context.Context) error { return nil }

func (s *stubGeneratorService) Clean(context.Context) error {
	s.cleanCalls++
	return nil
}

func TestRunCleanInvokesGenerator(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	gen := &stubGeneratorService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Runtime, error) {
		return &bootstrap.Runtime{
			Generator: gen,
			Logger:    logging.NoOp(),
		}, nil
	}

	if err := runClean(nil); err != nil {
		t.Fatalf("runClean returned error: %v", err)
	}
	if gen.cleanCalls != 1 {
		t.Fatalf("expected one clean call, got %d", gen.cleanCalls)
	}
}
