package di

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/lessons"
	"github.com/goliatone/go-docsite/internal/linkcheck"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/logging/gologger"
	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/internal/nav"
	"github.com/goliatone/go-docsite/internal/render"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/internal/validation"
	"github.com/goliatone/go-docsite/pkg/interfaces"

	_ "github.com/mattn/go-sqlite3"
)

// Container wires module dependencies from a validated configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	template       interfaces.TemplateRenderer
	renderEngine   *render.Engine

	bunDB         *bun.DB
	sqlDB         *sql.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	sectionRepo lessons.SectionRepository
	lessonRepo  lessons.LessonRepository

	navResolver  nav.URLResolver
	routeManager *urlkit.RouteManager

	metadataValidator lessons.MetadataValidator

	lessonSvc     lessons.Service
	markdownSvc   *markdown.Service
	navBuilder    *nav.Builder
	themeSelector *generator.ThemeSelector
	linkChecker   generator.LinkChecker
	generatorSvc  generator.Service
	artifacts     generator.ArtifactWriter
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the default logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithTemplate overrides the default template renderer.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.template = tr
	}
}

// WithBunDB injects an externally managed bun database handle.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB injects a raw database handle; the container wraps it with the
// dialect matching the configured storage driver.
func WithSQLDB(db *sql.DB) Option {
	return func(c *Container) {
		c.sqlDB = db
	}
}

// WithCache overrides the default cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLessonService overrides the default lesson index binding.
func WithLessonService(svc lessons.Service) Option {
	return func(c *Container) {
		c.lessonSvc = svc
	}
}

// WithMetadataValidator overrides the schema-backed frontmatter validator.
func WithMetadataValidator(validator lessons.MetadataValidator) Option {
	return func(c *Container) {
		c.metadataValidator = validator
	}
}

// WithNavResolver overrides the URL resolver used by the navigation builder.
func WithNavResolver(resolver nav.URLResolver) Option {
	return func(c *Container) {
		c.navResolver = resolver
	}
}

// WithGeneratorService overrides the default generator binding.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		c.generatorSvc = svc
	}
}

// WithArtifactWriter overrides the writer that receives generated output.
func WithArtifactWriter(writer generator.ArtifactWriter) Option {
	return func(c *Container) {
		c.artifacts = writer
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cfg.Storage.CacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	if err := c.configureValidation(); err != nil {
		return nil, err
	}

	if c.lessonSvc == nil {
		lessonOpts := []lessons.ServiceOption{
			lessons.WithLogger(c.moduleLogger("docsite.lessons")),
		}
		if c.metadataValidator != nil {
			lessonOpts = append(lessonOpts, lessons.WithMetadataValidator(c.metadataValidator))
		}
		c.lessonSvc = lessons.NewService(c.sectionRepo, c.lessonRepo, lessonOpts...)
	}

	if err := c.configureMarkdown(); err != nil {
		return nil, err
	}
	c.configureNavigation()
	c.configureTemplates()
	if err := c.configureGenerator(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}

	logCfg := c.Config.Logging
	if !logCfg.Enabled {
		c.loggerProvider = logging.NoOpProvider()
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "noop":
		c.loggerProvider = logging.NoOpProvider()
		return nil
	case "", "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
		return nil
	default:
		return runtimeconfig.ErrLoggingProviderUnknown
	}
}

func (c *Container) configureCacheDefaults() {
	if c.cacheTTL <= 0 {
		return
	}

	if c.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		cacheCfg.TTL = c.cacheTTL
		service, err := repocache.NewCacheService(cacheCfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStorage() error {
	if c.bunDB == nil {
		driver := strings.TrimSpace(c.Config.Storage.Driver)
		switch driver {
		case "", runtimeconfig.StorageDriverMemory:
		case runtimeconfig.StorageDriverSQLite:
			sqlDB := c.sqlDB
			if sqlDB == nil {
				db, err := sql.Open("sqlite3", c.Config.Storage.DSN)
				if err != nil {
					return fmt.Errorf("di: open sqlite storage: %w", err)
				}
				sqlDB = db
			}
			c.bunDB = bun.NewDB(sqlDB, sqlitedialect.New())
		case runtimeconfig.StorageDriverPostgres:
			if c.sqlDB == nil {
				return fmt.Errorf("di: postgres storage requires a database handle via WithSQLDB or WithBunDB")
			}
			c.bunDB = bun.NewDB(c.sqlDB, pgdialect.New())
		default:
			return runtimeconfig.ErrStorageDriverUnknown
		}
	}

	if c.bunDB != nil {
		c.sectionRepo = lessons.NewBunSectionRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.lessonRepo = lessons.NewBunLessonRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return nil
	}

	c.sectionRepo = lessons.NewMemorySectionRepository()
	c.lessonRepo = lessons.NewMemoryLessonRepository()
	return nil
}

func (c *Container) configureValidation() error {
	if c.metadataValidator != nil {
		return nil
	}
	schemas := c.Config.Content.SectionSchemas
	if len(schemas) == 0 {
		return nil
	}
	set, err := validation.NewSchemaSet(schemas)
	if err != nil {
		return err
	}
	c.metadataValidator = set
	return nil
}

func (c *Container) configureMarkdown() error {
	if !c.Config.Features.Markdown {
		return nil
	}

	contentCfg := c.Config.Content
	svc, err := markdown.NewService(markdown.Config{
		BasePath:       contentCfg.Dir,
		DefaultLocale:  c.Config.Site.DefaultLocale,
		Locales:        c.Config.Site.Locales,
		Pattern:        contentCfg.Pattern,
		Recursive:      contentCfg.Recursive,
		DefaultSection: contentCfg.DefaultSection,
		Parser: interfaces.ParseOptions{
			Extensions: c.Config.Markdown.Parser.Extensions,
			Sanitize:   c.Config.Markdown.Parser.Sanitize,
			HardWraps:  c.Config.Markdown.Parser.HardWraps,
			SafeMode:   c.Config.Markdown.Parser.SafeMode,
		},
	}, nil,
		markdown.WithLessonSink(c.lessonSvc),
		markdown.WithLogger(c.moduleLogger("docsite.markdown")),
	)
	if err != nil {
		return err
	}
	c.markdownSvc = svc
	return nil
}

func (c *Container) configureNavigation() {
	navCfg := c.Config.Navigation

	if c.navResolver == nil && navCfg.RouteConfig != nil {
		manager := urlkit.NewRouteManager(navCfg.RouteConfig)
		c.routeManager = manager

		c.navResolver = nav.NewURLKitResolver(nav.URLKitResolverOptions{
			Manager:      manager,
			DefaultGroup: strings.TrimSpace(navCfg.URLKit.DefaultGroup),
			LessonRoute:  strings.TrimSpace(navCfg.URLKit.LessonRoute),
			SectionRoute: strings.TrimSpace(navCfg.URLKit.SectionRoute),
			SlugParam:    strings.TrimSpace(navCfg.URLKit.SlugParam),
			SectionParam: strings.TrimSpace(navCfg.URLKit.SectionParam),
			LocaleParam:  strings.TrimSpace(navCfg.URLKit.LocaleParam),
		})
	}

	links := make([]nav.LinkConfig, 0, len(navCfg.Links))
	for _, link := range navCfg.Links {
		links = append(links, nav.LinkConfig{
			Label:    link.Label,
			URL:      link.URL,
			External: link.External,
		})
	}
	social := make([]nav.SocialConfig, 0, len(navCfg.Social))
	for _, entry := range navCfg.Social {
		social = append(social, nav.SocialConfig{
			Network: entry.Network,
			URL:     entry.URL,
		})
	}

	builderOpts := []nav.BuilderOption{
		nav.WithLogger(c.moduleLogger("docsite.nav")),
	}
	if c.navResolver != nil {
		builderOpts = append(builderOpts, nav.WithResolver(c.navResolver))
	}

	c.navBuilder = nav.NewBuilder(c.lessonSvc, nav.Config{
		SidebarCode:   navCfg.SidebarCode,
		DefaultLocale: c.Config.Site.DefaultLocale,
		Links:         links,
		Social:        social,
	}, builderOpts...)
}

func (c *Container) configureTemplates() {
	if c.template != nil {
		return
	}
	c.renderEngine = render.NewEngine()
	c.renderEngine.GlobalContext(map[string]any{
		"site": map[string]any{
			"title":       c.Config.Site.Title,
			"description": c.Config.Site.Description,
			"base_url":    c.Config.Site.BaseURL,
		},
	})
	c.template = c.renderEngine
}

func (c *Container) configureGenerator() error {
	if c.generatorSvc != nil {
		return nil
	}

	if !c.Config.Features.Generator {
		c.generatorSvc = generator.NewDisabledService()
		return nil
	}

	genCfg := c.Config.Generator
	siteCfg := c.Config.Site

	if c.artifacts == nil {
		// The generator prefixes every artifact path with OutputDir, so the
		// default writer is rooted at the working directory.
		c.artifacts = generator.NewFSWriter(".")
	}

	theming := generator.ThemingConfig{
		BasePath:          c.Config.Theme.BasePath,
		DefaultTheme:      c.Config.Theme.DefaultTheme,
		DefaultVariant:    c.Config.Theme.DefaultVariant,
		CSSVariablePrefix: c.Config.Theme.CSSVariablePrefix,
		PartialFallbacks:  c.Config.Theme.PartialFallbacks,
	}
	if c.Config.Features.Themes {
		c.themeSelector = generator.NewThemeSelector(theming)
	}

	if c.linkChecker == nil && c.Config.Features.LinkCheck {
		c.linkChecker = linkcheck.New(linkcheck.WithBaseURL(siteCfg.BaseURL))
	}

	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:         genCfg.OutputDir,
		BaseURL:           siteCfg.BaseURL,
		Title:             siteCfg.Title,
		Description:       siteCfg.Description,
		CleanBuild:        genCfg.CleanBuild,
		Incremental:       genCfg.Incremental,
		CopyAssets:        genCfg.CopyAssets,
		GenerateSitemap:   genCfg.GenerateSitemap,
		GenerateRobots:    genCfg.GenerateRobots,
		GenerateFeed:      genCfg.GenerateFeed,
		IncludeDrafts:     genCfg.IncludeDrafts,
		FailOnBrokenLinks: genCfg.FailOnBrokenLinks,
		Workers:           genCfg.Workers,
		DefaultLocale:     siteCfg.DefaultLocale,
		Locales:           siteCfg.Locales,
		Theme:             c.Config.Theme.DefaultTheme,
		ThemeVariant:      c.Config.Theme.DefaultVariant,
		Theming:           theming,
		Metadata:          siteCfg.Metadata,
	}, generator.Dependencies{
		Lessons:  c.lessonSvc,
		Nav:      c.navBuilder,
		Themes:   c.themeSelector,
		Renderer: c.template,
		Writer:   c.artifacts,
		Links:    c.linkChecker,
		Logger:   c.moduleLogger("docsite.generator"),
	})
	return nil
}

func (c *Container) moduleLogger(name string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, name)
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// TemplateRenderer exposes the configured template renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.template
}

// RenderEngine exposes the default template engine when no external renderer
// was injected. Returns nil when WithTemplate supplied a custom renderer.
func (c *Container) RenderEngine() *render.Engine {
	return c.renderEngine
}

// BunDB exposes the configured database handle, nil for the memory driver.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// RouteManager exposes the urlkit route manager when route config is present.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// LessonService returns the configured lesson index service.
func (c *Container) LessonService() lessons.Service {
	return c.lessonSvc
}

// MarkdownService returns the configured markdown service, nil when the
// markdown feature is disabled.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

// NavBuilder returns the configured navigation builder.
func (c *Container) NavBuilder() *nav.Builder {
	return c.navBuilder
}

// ThemeSelector returns the configured theme selector, nil when themes are disabled.
func (c *Container) ThemeSelector() *generator.ThemeSelector {
	return c.themeSelector
}

// GeneratorService returns the configured generator service.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// ArtifactWriter returns the writer that receives generated output.
func (c *Container) ArtifactWriter() generator.ArtifactWriter {
	return c.artifacts
}
