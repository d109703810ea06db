package nav

import (
	"context"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// URLKitResolverOptions configures the go-urlkit backed resolver.
type URLKitResolverOptions struct {
	Manager      *urlkit.RouteManager
	DefaultGroup string
	LessonRoute  string
	SectionRoute string
	SlugParam    string
	SectionParam string
	LocaleParam  string
}

// URLKitResolver resolves navigation URLs through a go-urlkit RouteManager so
// hosts can keep route templates in configuration instead of code.
type URLKitResolver struct {
	manager *urlkit.RouteManager

	defaultGroup string
	lessonRoute  string
	sectionRoute string
	slugParam    string
	sectionParam string
	localeParam  string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// NewURLKitResolver constructs a resolver backed by go-urlkit.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.LessonRoute == "" {
		opts.LessonRoute = "lesson"
	}
	if opts.SectionRoute == "" {
		opts.SectionRoute = "section"
	}
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	if opts.SectionParam == "" {
		opts.SectionParam = "section"
	}

	return &URLKitResolver{
		manager: opts.Manager,

		defaultGroup: strings.TrimSpace(opts.DefaultGroup),
		lessonRoute:  opts.LessonRoute,
		sectionRoute: opts.SectionRoute,
		slugParam:    opts.SlugParam,
		sectionParam: opts.SectionParam,
		localeParam:  strings.TrimSpace(opts.LocaleParam),

		groupCache: make(map[string]*urlkit.Group),
	}
}

// Resolve builds a URL using the configured route manager.
func (r *URLKitResolver) Resolve(ctx context.Context, req ResolveRequest) (string, error) {
	_ = ctx // reserved for future use
	if r == nil || r.manager == nil {
		return "", nil
	}
	if r.defaultGroup == "" {
		return "", nil
	}

	group, err := r.groupForPath(r.defaultGroup)
	if err != nil || group == nil {
		return "", err
	}

	routeName := r.sectionRoute
	if req.Kind == ResolveKindLesson {
		routeName = r.lessonRoute
	}

	builder, err := r.safeBuilder(group, routeName)
	if err != nil {
		return "", err
	}

	if section := strings.TrimSpace(req.SectionCode); section != "" {
		builder.WithParam(r.sectionParam, section)
	}
	if req.Kind == ResolveKindLesson {
		if slug := strings.TrimSpace(req.Slug); slug != "" {
			builder.WithParam(r.slugParam, slug)
		}
	}
	if r.localeParam != "" && strings.TrimSpace(req.Locale) != "" {
		builder.WithParam(r.localeParam, strings.TrimSpace(req.Locale))
	}

	url, err := builder.Build()
	if err != nil {
		return "", err
	}
	return url, nil
}

func (r *URLKitResolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	if len(parts) == 0 {
		return nil, fmt.Errorf("nav: invalid route group path %q", path)
	}

	root, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	current := root
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

func (r *URLKitResolver) safeBuilder(group *urlkit.Group, route string) (*urlkit.Builder, error) {
	if group == nil {
		return nil, fmt.Errorf("nav: urlkit group is nil")
	}
	var (
		builder *urlkit.Builder
		err     error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("nav: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (*urlkit.Group, error) {
	if manager == nil {
		return nil, fmt.Errorf("nav: route manager not configured")
	}
	var (
		group *urlkit.Group
		err   error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("nav: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func lookupChildGroup(parent *urlkit.Group, name string) (*urlkit.Group, error) {
	if parent == nil {
		return nil, fmt.Errorf("nav: parent group is nil")
	}
	var (
		group *urlkit.Group
		err   error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("nav: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, err
}
