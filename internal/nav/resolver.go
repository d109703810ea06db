package nav

import (
	"context"
	"path"
	"strings"
)

// ResolveKind identifies the target a resolver should build a URL for.
type ResolveKind string

const (
	ResolveKindSection ResolveKind = "section"
	ResolveKindLesson  ResolveKind = "lesson"
)

// ResolveRequest carries the context URL resolvers need to build a link.
type ResolveRequest struct {
	Kind        ResolveKind
	SectionCode string
	Slug        string
	Locale      string
}

// URLResolver allows callers to override how lesson and section URLs are
// generated, e.g. to route through go-urlkit route definitions.
type URLResolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (string, error)
}

// PathResolver builds root-relative pretty URLs by joining path segments:
// /<locale>/<section>/<slug>/, with the locale prefix omitted for the default
// locale. This mirrors the directory layout the static generator writes.
type PathResolver struct {
	// DefaultLocale suppresses the locale prefix for primary-language URLs.
	DefaultLocale string
}

// Resolve satisfies URLResolver.
func (r *PathResolver) Resolve(_ context.Context, req ResolveRequest) (string, error) {
	segments := make([]string, 0, 3)

	locale := strings.TrimSpace(req.Locale)
	if locale != "" && !strings.EqualFold(locale, strings.TrimSpace(r.DefaultLocale)) {
		segments = append(segments, locale)
	}
	if section := strings.TrimSpace(req.SectionCode); section != "" {
		segments = append(segments, section)
	}
	if req.Kind == ResolveKindLesson {
		if slug := strings.TrimSpace(req.Slug); slug != "" {
			segments = append(segments, slug)
		}
	}

	if len(segments) == 0 {
		return "/", nil
	}
	// Cleaning from the root discards any ".." a segment may smuggle in,
	// so resolved routes always stay inside the site tree.
	cleaned := path.Clean("/" + strings.Join(segments, "/"))
	if cleaned == "/" {
		return "/", nil
	}
	return cleaned + "/", nil
}
