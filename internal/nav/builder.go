package nav

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-docsite/internal/identity"
	"github.com/goliatone/go-docsite/internal/lessons"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// LessonIndex is the slice of the lesson index the navigation builder reads.
// lessons.Service satisfies it.
type LessonIndex interface {
	ListSections(ctx context.Context) ([]*lessons.Section, error)
	ListLessons(ctx context.Context, opts lessons.ListOptions) ([]*lessons.Lesson, error)
}

// Config describes the static navigation surface: top bar links, social links,
// and the sidebar tree code.
type Config struct {
	SidebarCode   string
	DefaultLocale string
	Links         []LinkConfig
	Social        []SocialConfig
}

// LinkConfig declares a fixed top navigation entry.
type LinkConfig struct {
	Label    string
	URL      string
	External bool
}

// SocialConfig declares a social/profile link rendered by theme footers.
type SocialConfig struct {
	Network string
	URL     string
}

// BuildOptions control a single navigation build.
type BuildOptions struct {
	Locale        string
	IncludeDrafts bool
	// ActivePath marks the node (and its ancestors) whose URL matches it.
	ActivePath string
}

// Builder assembles Navigation trees from the lesson index and configuration.
type Builder struct {
	index    LessonIndex
	resolver URLResolver
	logger   interfaces.Logger

	sidebarCode   string
	defaultLocale string
	links         []LinkConfig
	social        []SocialConfig
}

// BuilderOption customises Builder construction.
type BuilderOption func(*Builder)

// WithResolver overrides the default path-join URL resolver.
func WithResolver(resolver URLResolver) BuilderOption {
	return func(b *Builder) {
		if resolver != nil {
			b.resolver = resolver
		}
	}
}

// WithLogger attaches a logger to the builder.
func WithLogger(logger interfaces.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder constructs a navigation builder over the given lesson index.
func NewBuilder(index LessonIndex, cfg Config, opts ...BuilderOption) *Builder {
	sidebarCode := strings.TrimSpace(cfg.SidebarCode)
	if sidebarCode == "" {
		sidebarCode = "sidebar"
	}

	b := &Builder{
		index:         index,
		resolver:      &PathResolver{DefaultLocale: cfg.DefaultLocale},
		logger:        logging.NoOp(),
		sidebarCode:   sidebarCode,
		defaultLocale: cfg.DefaultLocale,
		links:         append([]LinkConfig(nil), cfg.Links...),
		social:        append([]SocialConfig(nil), cfg.Social...),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the full navigation surface for the requested locale.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (*Navigation, error) {
	locale := strings.TrimSpace(opts.Locale)
	if locale == "" {
		locale = b.defaultLocale
	}

	sidebar, err := b.buildSidebar(ctx, locale, opts)
	if err != nil {
		return nil, err
	}

	navigation := &Navigation{
		TopNav:  b.buildTopNav(locale, opts.ActivePath),
		Sidebar: sidebar,
		Social:  b.buildSocial(),
	}
	return navigation, nil
}

func (b *Builder) buildTopNav(locale, activePath string) *Tree {
	nodes := make([]*Node, 0, len(b.links))
	for i, link := range b.links {
		url := strings.TrimSpace(link.URL)
		nodes = append(nodes, &Node{
			ID:       identity.NavNodeUUID("topnav", url),
			Kind:     NodeKindLink,
			Label:    link.Label,
			URL:      url,
			External: link.External,
			Position: i,
			Active:   activePath != "" && pathsEqual(url, activePath),
		})
	}
	return &Tree{Code: "topnav", Locale: locale, Nodes: nodes}
}

func (b *Builder) buildSidebar(ctx context.Context, locale string, opts BuildOptions) (*Tree, error) {
	if b.index == nil {
		return &Tree{Code: b.sidebarCode, Locale: locale}, nil
	}

	sections, err := b.index.ListSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("nav: list sections: %w", err)
	}

	nodes := make([]*Node, 0, len(sections))
	for _, section := range sections {
		items, err := b.index.ListLessons(ctx, lessons.ListOptions{
			SectionCode:   section.Code,
			Locale:        locale,
			IncludeDrafts: opts.IncludeDrafts,
		})
		if err != nil {
			return nil, fmt.Errorf("nav: list lessons for %s: %w", section.Code, err)
		}
		if len(items) == 0 {
			continue
		}

		sectionURL, err := b.resolve(ctx, ResolveRequest{
			Kind:        ResolveKindSection,
			SectionCode: section.RouteCode(),
			Locale:      locale,
		})
		if err != nil {
			return nil, err
		}

		sectionNode := &Node{
			ID:       identity.NavNodeUUID(b.sidebarCode, "section:"+section.Code),
			Kind:     NodeKindSection,
			Label:    section.Title,
			URL:      sectionURL,
			Position: section.Position,
			Children: make([]*Node, 0, len(items)),
		}

		for i, lesson := range items {
			lessonURL, err := b.resolve(ctx, ResolveRequest{
				Kind:        ResolveKindLesson,
				SectionCode: section.RouteCode(),
				Slug:        lesson.Slug,
				Locale:      locale,
			})
			if err != nil {
				return nil, err
			}

			node := &Node{
				ID:       identity.NavNodeUUID(b.sidebarCode, "lesson:"+section.Code+":"+lesson.Slug+":"+locale),
				Kind:     NodeKindLesson,
				Label:    lesson.Title,
				URL:      lessonURL,
				Position: i,
				Active:   opts.ActivePath != "" && pathsEqual(lessonURL, opts.ActivePath),
			}
			if node.Active {
				sectionNode.Active = true
			}
			sectionNode.Children = append(sectionNode.Children, node)
		}

		if opts.ActivePath != "" && pathsEqual(sectionURL, opts.ActivePath) {
			sectionNode.Active = true
		}
		nodes = append(nodes, sectionNode)
	}

	return &Tree{Code: b.sidebarCode, Locale: locale, Nodes: nodes}, nil
}

func (b *Builder) buildSocial() []*Node {
	if len(b.social) == 0 {
		return nil
	}
	nodes := make([]*Node, 0, len(b.social))
	for i, link := range b.social {
		nodes = append(nodes, &Node{
			ID:       identity.NavNodeUUID("social", link.Network+":"+link.URL),
			Kind:     NodeKindSocial,
			Label:    link.Network,
			Network:  link.Network,
			URL:      link.URL,
			External: true,
			Position: i,
		})
	}
	return nodes
}

// resolve asks the configured resolver first and falls back to path joining
// when it declines (empty URL, nil error).
func (b *Builder) resolve(ctx context.Context, req ResolveRequest) (string, error) {
	if b.resolver != nil {
		url, err := b.resolver.Resolve(ctx, req)
		if err != nil {
			return "", fmt.Errorf("nav: resolve %s %s/%s: %w", req.Kind, req.SectionCode, req.Slug, err)
		}
		if strings.TrimSpace(url) != "" {
			return url, nil
		}
	}
	fallback := &PathResolver{DefaultLocale: b.defaultLocale}
	return fallback.Resolve(ctx, req)
}

// pathsEqual compares URLs ignoring a trailing slash so /hld/caching and
// /hld/caching/ mark the same node active.
func pathsEqual(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}
