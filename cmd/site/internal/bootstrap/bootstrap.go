package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	docsite "github.com/goliatone/go-docsite"
	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Options captures configuration for docsite CLI bootstraps.
type Options struct {
	ContentDir        string
	Pattern           string
	Recursive         bool
	DefaultSection    string
	DefaultLocale     string
	Locales           []string
	Title             string
	Description       string
	BaseURL           string
	OutputDir         string
	ThemeDir          string
	Theme             string
	ThemeVariant      string
	IncludeDrafts     bool
	FailOnBrokenLinks bool
	CleanBuild        bool
	Workers           int
	StorageDriver     string
	StorageDSN        string
	LogLevel          string
	LogFormat         string
	LoggerProvider    interfaces.LoggerProvider
}

// Runtime wraps the docsite module and the services the CLI verbs exercise.
type Runtime struct {
	Module    *docsite.Module
	Markdown  interfaces.MarkdownService
	Generator docsite.GeneratorService
	Logger    interfaces.Logger
}

// BuildModule constructs a docsite module configured for CLI operations.
func BuildModule(opts Options) (*Runtime, error) {
	cfg := docsite.DefaultConfig()

	if trimmed := strings.TrimSpace(opts.Title); trimmed != "" {
		cfg.Site.Title = trimmed
	}
	cfg.Site.Description = strings.TrimSpace(opts.Description)
	cfg.Site.BaseURL = strings.TrimSpace(opts.BaseURL)
	if trimmed := strings.TrimSpace(opts.DefaultLocale); trimmed != "" {
		cfg.Site.DefaultLocale = trimmed
	}
	if len(opts.Locales) > 0 {
		cfg.Site.Locales = cloneStrings(opts.Locales)
	} else {
		cfg.Site.Locales = []string{cfg.Site.DefaultLocale}
	}

	if trimmed := strings.TrimSpace(opts.ContentDir); trimmed != "" {
		cfg.Content.Dir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Content.Pattern = trimmed
	}
	cfg.Content.Recursive = opts.Recursive
	cfg.Content.DefaultSection = strings.TrimSpace(opts.DefaultSection)

	if trimmed := strings.TrimSpace(opts.OutputDir); trimmed != "" {
		cfg.Generator.OutputDir = trimmed
	}
	cfg.Generator.IncludeDrafts = opts.IncludeDrafts
	cfg.Generator.FailOnBrokenLinks = opts.FailOnBrokenLinks
	cfg.Generator.CleanBuild = opts.CleanBuild
	if opts.Workers > 0 {
		cfg.Generator.Workers = opts.Workers
	}

	if trimmed := strings.TrimSpace(opts.Theme); trimmed != "" {
		cfg.Features.Themes = true
		cfg.Theme.DefaultTheme = trimmed
		cfg.Theme.BasePath = strings.TrimSpace(opts.ThemeDir)
		cfg.Theme.DefaultVariant = strings.TrimSpace(opts.ThemeVariant)
	}

	if trimmed := strings.TrimSpace(opts.StorageDriver); trimmed != "" {
		cfg.Storage.Driver = trimmed
		cfg.Storage.DSN = strings.TrimSpace(opts.StorageDSN)
	}

	if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
		cfg.Logging.Level = trimmed
	}
	if trimmed := strings.TrimSpace(opts.LogFormat); trimmed != "" {
		cfg.Logging.Format = trimmed
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := docsite.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise docsite module: %w", err)
	}

	if err := loadTemplates(module, cfg); err != nil {
		return nil, err
	}

	logger := logging.ModuleLogger(module.Container().LoggerProvider(), "docsite.cli")

	runtime := &Runtime{
		Module:    module,
		Generator: module.Generator(),
		Logger:    logger,
	}
	if svc := module.Markdown(); svc != nil {
		runtime.Markdown = svc
	}
	return runtime, nil
}

// loadTemplates seeds the default render engine: built-in fallbacks first,
// then any .html templates shipped by the selected theme.
func loadTemplates(module *docsite.Module, cfg docsite.Config) error {
	engine := module.Renderer()
	if engine == nil {
		return nil
	}

	for name, content := range fallbackTemplates() {
		if err := engine.Register(name, content); err != nil {
			return fmt.Errorf("register fallback template %s: %w", name, err)
		}
	}

	theme := strings.TrimSpace(cfg.Theme.DefaultTheme)
	if theme == "" {
		return nil
	}

	templatesDir := filepath.Join(cfg.Theme.BasePath, theme, "templates")
	if info, err := os.Stat(templatesDir); err != nil || !info.IsDir() {
		return nil
	}
	if err := engine.LoadDir(os.DirFS(templatesDir), "."); err != nil {
		return fmt.Errorf("load theme templates from %s: %w", templatesDir, err)
	}
	return nil
}

func fallbackTemplates() map[string]string {
	layout := `<!DOCTYPE html>
<html lang="{{.Data.Helpers.Locale}}">
<head>
<meta charset="utf-8">
<title>{{with .Data.Page.Lesson}}{{.Title}} | {{end}}{{.Data.Site.Title}}</title>
</head>
<body>
<nav>{{range .Data.Nav.TopNav.Nodes}}<a href="{{.URL}}">{{.Label}}</a> {{end}}</nav>
%s
</body>
</html>`

	return map[string]string{
		"lesson": fmt.Sprintf(layout, `<article>{{.Data.Page.Lesson.BodyHTML | safeHTML}}</article>`),
		"section": fmt.Sprintf(layout, `<h1>{{.Data.Page.Section.Title}}</h1>
<ul>{{range .Data.Page.Lessons}}<li>{{.Title}}</li>{{end}}</ul>`),
		"index": fmt.Sprintf(layout, `<h1>{{.Data.Site.Title}}</h1>
<ul>{{range .Data.Page.Sections}}<li>{{.Title}}</li>{{end}}</ul>`),
	}
}

// SplitLocales parses a comma separated locale list into a trimmed slice.
func SplitLocales(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	locales := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			locales = append(locales, trimmed)
		}
	}
	return locales
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
