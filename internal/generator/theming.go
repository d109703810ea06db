package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ThemingConfig controls how themes are located and selected.
type ThemingConfig struct {
	// BasePath is the directory holding one sub-directory per theme.
	BasePath          string
	DefaultTheme      string
	DefaultVariant    string
	CSSVariablePrefix string
	// PartialFallbacks maps partial keys to the template paths used when the
	// theme manifest does not override them.
	PartialFallbacks map[string]string
}

type themeManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsThemeManifestLoader struct{}

func (fsThemeManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("theme path required")
	}
	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

// ThemeSelector resolves go-theme selections for named themes, loading and
// registering each manifest at most once.
type ThemeSelector struct {
	registry       *gotheme.MemoryRegistry
	loader         themeManifestLoader
	basePath       string
	defaultTheme   string
	defaultVariant string

	mu        sync.Mutex
	manifests map[string]*gotheme.Manifest
}

// NewThemeSelector constructs a selector over the configured theme directory.
func NewThemeSelector(cfg ThemingConfig) *ThemeSelector {
	return newThemeSelector(cfg, nil)
}

func newThemeSelector(cfg ThemingConfig, loader themeManifestLoader) *ThemeSelector {
	if loader == nil {
		loader = fsThemeManifestLoader{}
	}
	return &ThemeSelector{
		registry:       gotheme.NewRegistry(),
		loader:         loader,
		basePath:       strings.TrimSpace(cfg.BasePath),
		defaultTheme:   strings.TrimSpace(cfg.DefaultTheme),
		defaultVariant: strings.TrimSpace(cfg.DefaultVariant),
		manifests:      map[string]*gotheme.Manifest{},
	}
}

// Selection resolves the named theme and variant, falling back to the
// configured defaults when either is empty.
func (s *ThemeSelector) Selection(themeName, variant string) (*gotheme.Selection, error) {
	name := strings.TrimSpace(themeName)
	if name == "" {
		name = s.defaultTheme
	}
	if name == "" {
		return nil, nil
	}

	if _, err := s.ensureManifest(name); err != nil {
		return nil, err
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}

	resolvedVariant := strings.TrimSpace(variant)
	if resolvedVariant == "" {
		resolvedVariant = s.defaultVariant
	}

	selection, err := selector.Select(name, resolvedVariant)
	if err != nil {
		return nil, fmt.Errorf("select theme %s: %w", name, err)
	}
	return selection, nil
}

// ThemePath returns the on-disk directory for the named theme.
func (s *ThemeSelector) ThemePath(themeName string) string {
	name := strings.TrimSpace(themeName)
	if name == "" {
		name = s.defaultTheme
	}
	if s.basePath == "" {
		return name
	}
	return filepath.Join(s.basePath, name)
}

func (s *ThemeSelector) ensureManifest(themeName string) (*gotheme.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(themeName)
	if manifest, ok := s.manifests[key]; ok {
		return manifest, nil
	}

	themePath := s.ThemePath(themeName)
	manifest, err := s.loader.Load(themePath)
	if err != nil {
		return nil, fmt.Errorf("load theme manifest from %s: %w", themePath, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" || !strings.EqualFold(normalized.Name, themeName) {
		normalized.Name = strings.TrimSpace(themeName)
	}
	if normalized.Name == "" {
		return nil, fmt.Errorf("theme name required for manifest registration")
	}

	if err := s.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("register theme manifest: %w", err)
	}
	s.manifests[key] = &normalized
	return &normalized, nil
}
