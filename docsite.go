package docsite

import (
	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/lessons"
	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/internal/nav"
	"github.com/goliatone/go-docsite/internal/render"
)

// LessonService exports the lesson index contract for consumers of the docsite package.
type LessonService = lessons.Service

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// MarkdownService exports the markdown ingestion service.
type MarkdownService = *markdown.Service

// NavBuilder exports the navigation builder.
type NavBuilder = *nav.Builder

// Module represents the top level docsite runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a docsite module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Lessons returns the configured lesson index service.
func (m *Module) Lessons() LessonService {
	return m.container.LessonService()
}

// Markdown returns the markdown service, nil when the markdown feature is disabled.
func (m *Module) Markdown() MarkdownService {
	return m.container.MarkdownService()
}

// Navigation returns the configured navigation builder.
func (m *Module) Navigation() NavBuilder {
	return m.container.NavBuilder()
}

// Generator returns the configured generator service.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Renderer returns the default template engine when no external renderer was
// injected. Returns nil when a custom renderer is bound.
func (m *Module) Renderer() *render.Engine {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.RenderEngine()
}
