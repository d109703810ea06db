package docsite

import "github.com/goliatone/go-docsite/internal/runtimeconfig"

var (
	ErrSiteTitleRequired          = runtimeconfig.ErrSiteTitleRequired
	ErrContentDirRequired         = runtimeconfig.ErrContentDirRequired
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrThemesFeatureRequired      = runtimeconfig.ErrThemesFeatureRequired
	ErrStorageDriverUnknown       = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired         = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	SiteConfig           = runtimeconfig.SiteConfig
	ContentConfig        = runtimeconfig.ContentConfig
	NavigationConfig     = runtimeconfig.NavigationConfig
	NavLinkConfig        = runtimeconfig.NavLinkConfig
	SocialLinkConfig     = runtimeconfig.SocialLinkConfig
	URLKitResolverConfig = runtimeconfig.URLKitResolverConfig
	ThemeConfig          = runtimeconfig.ThemeConfig
	StorageConfig        = runtimeconfig.StorageConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
	Features             = runtimeconfig.Features
)

// Storage driver identifiers accepted by the container.
const (
	StorageDriverMemory   = runtimeconfig.StorageDriverMemory
	StorageDriverSQLite   = runtimeconfig.StorageDriverSQLite
	StorageDriverPostgres = runtimeconfig.StorageDriverPostgres
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
