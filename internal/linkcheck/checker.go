package linkcheck

import (
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
)

// Document is a rendered page submitted for link validation.
type Document struct {
	// Route is the page's canonical site-relative route, e.g. /hld/caching/.
	Route string
	HTML  string
}

// Issue reports one unresolvable internal link.
type Issue struct {
	Route  string
	Link   string
	Reason string
}

// Checker validates that every internal link in a set of rendered pages
// resolves to another page in the set. External links, fragments, mail and
// protocol links are ignored; so are links to non-HTML files such as assets.
type Checker struct {
	baseURL    string
	extraPaths map[string]struct{}
}

// Option customises Checker construction.
type Option func(*Checker)

// WithBaseURL treats absolute links under the given base as internal links.
func WithBaseURL(baseURL string) Option {
	return func(c *Checker) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithKnownPaths registers additional valid internal targets, e.g. generated
// feeds or asset roots that are not part of the page set.
func WithKnownPaths(paths ...string) Option {
	return func(c *Checker) {
		for _, p := range paths {
			c.extraPaths[normalizeRoute(p)] = struct{}{}
		}
	}
}

// New constructs a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{extraPaths: map[string]struct{}{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var linkAttrPattern = regexp.MustCompile(`(?i)\b(?:href|src)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// Check validates all internal links across the documents and returns the
// issues found, ordered by route then link.
func (c *Checker) Check(documents []Document) []Issue {
	known := make(map[string]struct{}, len(documents)+len(c.extraPaths))
	for _, doc := range documents {
		known[normalizeRoute(doc.Route)] = struct{}{}
	}
	for p := range c.extraPaths {
		known[p] = struct{}{}
	}

	var issues []Issue
	seen := map[string]struct{}{}

	for _, doc := range documents {
		for _, link := range extractLinks(doc.HTML) {
			target, check := c.classify(link, doc.Route)
			if !check {
				continue
			}
			if _, ok := known[target]; ok {
				continue
			}
			key := doc.Route + "::" + link
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			issues = append(issues, Issue{
				Route:  doc.Route,
				Link:   link,
				Reason: "no page at " + target,
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Route == issues[j].Route {
			return issues[i].Link < issues[j].Link
		}
		return issues[i].Route < issues[j].Route
	})
	return issues
}

func extractLinks(html string) []string {
	matches := linkAttrPattern.FindAllStringSubmatch(html, -1)
	links := make([]string, 0, len(matches))
	for _, match := range matches {
		value := match[1]
		if value == "" {
			value = match[2]
		}
		value = strings.TrimSpace(value)
		if value != "" {
			links = append(links, value)
		}
	}
	return links
}

// classify decides whether a link is an internal page link and, if so,
// returns its normalized route.
func (c *Checker) classify(link, fromRoute string) (string, bool) {
	if link == "" || strings.HasPrefix(link, "#") {
		return "", false
	}
	lower := strings.ToLower(link)
	for _, prefix := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return "", false
		}
	}
	// Protocol-relative links always point off-site for a static site.
	if strings.HasPrefix(link, "//") {
		return "", false
	}

	if strings.Contains(link, "://") {
		if c.baseURL == "" || !strings.HasPrefix(link, c.baseURL) {
			return "", false
		}
		link = strings.TrimPrefix(link, c.baseURL)
		if link == "" {
			link = "/"
		}
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return link, true // unparseable internal link is itself an issue
	}
	target := parsed.Path
	if target == "" {
		// Fragment or query-only link within the same page.
		return "", false
	}

	if !strings.HasPrefix(target, "/") {
		base := path.Dir(strings.TrimSuffix(normalizeRoute(fromRoute), "/") + "/.")
		target = path.Join(base, target)
	}

	// Links to non-HTML files (stylesheets, images, scripts) are asset
	// references, not page links.
	if ext := path.Ext(strings.TrimSuffix(target, "/")); ext != "" && ext != ".html" {
		return "", false
	}

	return normalizeRoute(target), true
}

// normalizeRoute maps the equivalent spellings of a page route to one key:
// /x, /x/, and /x/index.html all identify the same generated page.
func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	route = path.Clean(route)
	route = strings.TrimSuffix(route, "/index.html")
	if route == "" || route == "." {
		return "/"
	}
	if route != "/" {
		route = strings.TrimSuffix(route, "/")
	}
	return route
}
