package generator

import (
	"path"
	"strings"
)

// buildOutputPath maps a route and locale to a pretty-URL output file:
// /hld/caching/ renders to hld/caching/index.html, with non-default locales
// nested under their locale directory.
func buildOutputPath(route string, locale string, defaultLocale string) string {
	// Clean from the root so ".." segments collapse instead of escaping
	// the output directory.
	clean := strings.Trim(path.Clean("/"+strings.TrimSpace(route)), "/")
	locale = strings.TrimSpace(locale)
	defaultLocale = strings.TrimSpace(defaultLocale)
	if locale == "" {
		locale = defaultLocale
	}

	// Default-locale pages sit at the route itself.
	if locale == "" || strings.EqualFold(locale, defaultLocale) {
		if clean == "" {
			return "index.html"
		}
		return path.Join(clean, "index.html")
	}

	// Other locales nest under /<locale>/, dropping a locale prefix the
	// route may already carry.
	var segments []string
	if clean != "" {
		segments = strings.Split(clean, "/")
	}
	if len(segments) > 0 && strings.EqualFold(segments[0], locale) {
		segments = segments[1:]
	}

	rest := path.Join(segments...)
	if rest == "" || rest == "." {
		return path.Join(locale, "index.html")
	}
	return path.Join(locale, rest, "index.html")
}

// outputBaseDir normalizes the configured output directory for artifact
// paths. Absolute directories keep their leading slash so the filesystem
// writer lands in the configured location rather than a nested copy.
func outputBaseDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ""
	}
	cleaned := path.Clean(strings.ReplaceAll(dir, "\\", "/"))
	if cleaned == "." || cleaned == "/" {
		return ""
	}
	return cleaned
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(base, rel)
}
