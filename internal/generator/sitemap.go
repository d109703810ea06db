package generator

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// buildSitemap emits one <url> per unique page location, sorted so the file
// is stable across builds. Pages without a modification time inherit the
// build timestamp.
func buildSitemap(baseURL string, pages []RenderedPage, fallback time.Time) string {
	base := baseURLWithFallback(baseURL)

	type entry struct {
		loc     string
		lastMod time.Time
	}

	seen := map[string]struct{}{}
	entries := make([]entry, 0, len(pages))
	for _, page := range pages {
		loc := base + canonicalRoute(page.Route)
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}

		mod := page.LastModified
		if mod.IsZero() {
			mod = fallback
		}
		entries = append(entries, entry{loc: loc, lastMod: mod})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].loc < entries[j].loc })

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, e := range entries {
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s</loc>\n", escapeXML(e.loc))
		if !e.lastMod.IsZero() {
			fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", e.lastMod.UTC().Format(time.RFC3339))
		}
		b.WriteString("  </url>\n")
	}
	b.WriteString(`</urlset>` + "\n")
	return b.String()
}

// canonicalRoute forces a leading slash and maps empty routes to the home page.
func canonicalRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		return "/" + route
	}
	return route
}

func buildRobots(baseURL string, includeSitemap bool) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	if includeSitemap {
		fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", baseURLWithFallback(baseURL))
	}
	return b.String()
}
