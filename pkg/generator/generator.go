// Package generator exposes the static site generation API for go-docsite hosts.
// Use NewService with Config and Dependencies to build prerendered lesson pages,
// assets, sitemaps, and feeds, or run targeted per lesson builds.
package generator

import internal "github.com/goliatone/go-docsite/internal/generator"

type (
	Service          = internal.Service
	Config           = internal.Config
	ThemingConfig    = internal.ThemingConfig
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	LessonRef        = internal.LessonRef
	RenderedPage     = internal.RenderedPage
	RenderDiagnostic = internal.RenderDiagnostic
	Dependencies     = internal.Dependencies
	ArtifactWriter   = internal.ArtifactWriter
	MemoryWriter     = internal.MemoryWriter
	MemoryArtifact   = internal.MemoryArtifact
	LinkChecker      = internal.LinkChecker
	ThemeSelector    = internal.ThemeSelector
)

var (
	ErrServiceDisabled = internal.ErrServiceDisabled
	ErrBrokenLinks     = internal.ErrBrokenLinks
)

// NewService wires a static site generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return internal.NewDisabledService()
}

// NewFSWriter returns an ArtifactWriter rooted at dir on the local filesystem.
func NewFSWriter(dir string) ArtifactWriter {
	return internal.NewFSWriter(dir)
}

// NewMemoryWriter returns an in-memory ArtifactWriter, useful for previews and tests.
func NewMemoryWriter() *MemoryWriter {
	return internal.NewMemoryWriter()
}

// NewThemeSelector builds a theme selector over the configured theme directory.
func NewThemeSelector(cfg ThemingConfig) *ThemeSelector {
	return internal.NewThemeSelector(cfg)
}
