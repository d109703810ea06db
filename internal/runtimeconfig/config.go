package runtimeconfig

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	urlkit "github.com/goliatone/go-urlkit"
)

// ErrSiteTitleRequired indicates the site title was left empty.
var ErrSiteTitleRequired = errors.New("docsite config: site title is required")

// ErrContentDirRequired indicates no content directory was configured.
var ErrContentDirRequired = errors.New("docsite config: content directory is required")

// ErrGeneratorOutputDirRequired indicates the generator has no output directory.
var ErrGeneratorOutputDirRequired = errors.New("docsite config: generator output directory is required when the generator is enabled")

// ErrThemesFeatureRequired indicates inconsistent theme configuration.
var ErrThemesFeatureRequired = errors.New("docsite config: themes feature must be enabled to configure themes")

// ErrStorageDriverUnknown indicates an unsupported storage driver identifier.
var ErrStorageDriverUnknown = errors.New("docsite config: storage driver is invalid")

// ErrStorageDSNRequired indicates a database driver without a connection string.
var ErrStorageDSNRequired = errors.New("docsite config: storage dsn is required for database drivers")

var ErrLoggingProviderUnknown = errors.New("docsite config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("docsite config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("docsite config: logging format is invalid")

// Storage driver identifiers accepted by the container.
const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite3"
	StorageDriverPostgres = "postgres"
)

// Config aggregates feature flags and adapter bindings for the docsite module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled    bool
	Site       SiteConfig
	Content    ContentConfig
	Navigation NavigationConfig
	Theme      ThemeConfig
	Storage    StorageConfig
	Markdown   MarkdownConfig
	Generator  GeneratorConfig
	Logging    LoggingConfig
	Features   Features
}

// SiteConfig captures site-wide metadata surfaced to templates and feeds.
type SiteConfig struct {
	Title         string
	Description   string
	BaseURL       string
	DefaultLocale string
	Locales       []string
	Metadata      map[string]any
}

// ContentConfig captures where and how lesson files are discovered.
type ContentConfig struct {
	Dir       string
	Pattern   string
	Recursive bool
	// DefaultSection receives lessons whose section cannot be inferred from
	// frontmatter or directory layout.
	DefaultSection string
	// SectionSchemas maps section codes to JSON Schemas applied to the custom
	// frontmatter of lessons in that section.
	SectionSchemas map[string]map[string]any
}

// NavLinkConfig declares a single top navigation entry.
type NavLinkConfig struct {
	Label    string
	URL      string
	External bool
}

// SocialLinkConfig declares a social/profile link rendered by themes.
type SocialLinkConfig struct {
	Network string
	URL     string
}

// NavigationConfig captures nav links and routing configuration for URL resolution.
type NavigationConfig struct {
	SidebarCode string
	Links       []NavLinkConfig
	Social      []SocialLinkConfig
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
}

// URLKitResolverConfig configures the go-urlkit based resolver.
type URLKitResolverConfig struct {
	DefaultGroup string
	LessonRoute  string
	SectionRoute string
	SlugParam    string
	SectionParam string
	LocaleParam  string
}

// ThemeConfig captures configuration for theme selection.
type ThemeConfig struct {
	BasePath          string
	DefaultTheme      string
	DefaultVariant    string
	CSSVariablePrefix string
	PartialFallbacks  map[string]string
}

// StorageConfig selects the lesson index backend.
type StorageConfig struct {
	Driver   string
	DSN      string
	CacheTTL time.Duration
}

// MarkdownConfig wires parser behaviour through the module wrapper.
type MarkdownConfig struct {
	Parser MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions with config-friendly names.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// GeneratorConfig captures runtime behaviour toggles for the static generator.
type GeneratorConfig struct {
	OutputDir         string
	CleanBuild        bool
	Incremental       bool
	CopyAssets        bool
	GenerateSitemap   bool
	GenerateRobots    bool
	GenerateFeed      bool
	IncludeDrafts     bool
	FailOnBrokenLinks bool
	Workers           int
}

// LoggingConfig selects and tunes the logging provider.
type LoggingConfig struct {
	Enabled   bool
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Markdown  bool
	Generator bool
	LinkCheck bool
	Themes    bool
}

// DefaultConfig returns a configuration with the defaults used by the CLI and tests.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Site: SiteConfig{
			Title:         "Documentation",
			DefaultLocale: "en",
		},
		Content: ContentConfig{
			Dir:       "content",
			Pattern:   "*.md",
			Recursive: true,
		},
		Navigation: NavigationConfig{
			SidebarCode: "sidebar",
		},
		Storage: StorageConfig{
			Driver: StorageDriverMemory,
		},
		Generator: GeneratorConfig{
			OutputDir:       "public",
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeed:    true,
			Incremental:     true,
		},
		Logging: LoggingConfig{
			Enabled:  true,
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
		Features: Features{
			Markdown:  true,
			Generator: true,
			LinkCheck: true,
		},
	}
}

// Validate enforces cross-field consistency before the container boots.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if strings.TrimSpace(c.Site.Title) == "" {
		return ErrSiteTitleRequired
	}

	if c.Features.Markdown && strings.TrimSpace(c.Content.Dir) == "" {
		return ErrContentDirRequired
	}

	if c.Features.Generator && strings.TrimSpace(c.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}

	if !c.Features.Themes && strings.TrimSpace(c.Theme.DefaultTheme) != "" {
		return ErrThemesFeatureRequired
	}

	if err := c.Storage.validate(); err != nil {
		return err
	}

	if err := c.Logging.validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(&c.Site,
		validation.Field(&c.Site.DefaultLocale, validation.Required, validation.Length(2, 16)),
	)
}

func (s StorageConfig) validate() error {
	switch strings.TrimSpace(s.Driver) {
	case "", StorageDriverMemory:
		return nil
	case StorageDriverSQLite:
		if strings.TrimSpace(s.DSN) == "" {
			return ErrStorageDSNRequired
		}
		return nil
	case StorageDriverPostgres:
		// Postgres connects through a caller-provided handle, so the DSN
		// stays optional here.
		return nil
	default:
		return ErrStorageDriverUnknown
	}
}

func (l LoggingConfig) validate() error {
	if !l.Enabled {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(l.Provider)) {
	case "", "noop", "gologger":
	default:
		return ErrLoggingProviderUnknown
	}

	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}

	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}

	return nil
}
