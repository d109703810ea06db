package generator

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"
)

const maxFeedItems = 100

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

type feedDocument struct {
	Locale    string
	IsDefault bool
	Items     []feedItem
}

// buildFeedDocuments converts rendered lesson pages into per-locale Atom
// documents, newest first.
func (s *service) buildFeedDocuments(pages []*pageJob, generatedAt time.Time) []feedDocument {
	byLocale := make(map[string]*feedDocument)

	for _, job := range pages {
		if job == nil || job.Kind != pageKindLesson || job.Lesson == nil {
			continue
		}

		doc := byLocale[job.Locale]
		if doc == nil {
			doc = &feedDocument{
				Locale:    job.Locale,
				IsDefault: strings.EqualFold(job.Locale, s.cfg.DefaultLocale),
			}
			byLocale[job.Locale] = doc
		}
		doc.Items = append(doc.Items, s.feedItemFor(job, generatedAt))
	}

	docs := make([]feedDocument, 0, len(byLocale))
	for _, doc := range byLocale {
		if len(doc.Items) == 0 {
			continue
		}
		sort.Slice(doc.Items, func(i, j int) bool {
			if doc.Items[i].PublishedAt.Equal(doc.Items[j].PublishedAt) {
				return doc.Items[i].GUID < doc.Items[j].GUID
			}
			return doc.Items[i].PublishedAt.After(doc.Items[j].PublishedAt)
		})
		if len(doc.Items) > maxFeedItems {
			doc.Items = append([]feedItem(nil), doc.Items[:maxFeedItems]...)
		}
		docs = append(docs, *doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Locale < docs[j].Locale })
	return docs
}

func (s *service) feedItemFor(job *pageJob, generatedAt time.Time) feedItem {
	title := strings.TrimSpace(job.Lesson.Title)
	if title == "" {
		title = job.Route
	}
	summary := ""
	if job.Lesson.Summary != nil {
		summary = normalizeWhitespace(*job.Lesson.Summary)
	}

	publishedAt := firstNonZeroTime(
		timePtrOrZero(job.Lesson.PublishedAt),
		job.Lesson.LastModified,
		job.Lesson.CreatedAt,
	)
	if publishedAt.IsZero() {
		publishedAt = generatedAt
	}

	return feedItem{
		Title:       title,
		Summary:     summary,
		Link:        absoluteURL(s.cfg.BaseURL, job.Route),
		GUID:        job.Lesson.ID.String() + ":" + job.Locale,
		PublishedAt: publishedAt,
		UpdatedAt:   firstNonZeroTime(job.Lesson.LastModified, job.Lesson.UpdatedAt, publishedAt),
	}
}

func buildAtomFeed(site SiteMetadata, doc feedDocument, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(site.BaseURL)
	feedID := fmt.Sprintf("%s/feeds/%s.atom.xml", baseLink, doc.Locale)

	title := strings.TrimSpace(site.Title)
	if title == "" {
		title = baseLink
	}
	if !doc.IsDefault && strings.TrimSpace(doc.Locale) != "" {
		title = fmt.Sprintf("%s (%s)", title, strings.ToUpper(doc.Locale))
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="%s">`+"\n", escapeXML(doc.Locale))
	fmt.Fprintf(&b, "  <id>%s</id>\n", escapeXML(feedID))
	fmt.Fprintf(&b, "  <title>%s</title>\n", escapeXML(title))
	fmt.Fprintf(&b, "  <updated>%s</updated>\n", atomTime(generatedAt))
	fmt.Fprintf(&b, `  <link rel="alternate" href="%s" />`+"\n", escapeXML(baseLink))
	fmt.Fprintf(&b, `  <link rel="self" href="%s" />`+"\n", escapeXML(feedID))
	for _, item := range doc.Items {
		writeAtomEntry(&b, item, generatedAt)
	}
	b.WriteString(`</feed>` + "\n")
	return b.String()
}

func writeAtomEntry(b *strings.Builder, item feedItem, generatedAt time.Time) {
	updated := firstNonZeroTime(item.UpdatedAt, item.PublishedAt, generatedAt)

	b.WriteString("  <entry>\n")
	fmt.Fprintf(b, "    <id>%s</id>\n", escapeXML(item.GUID))
	fmt.Fprintf(b, "    <title>%s</title>\n", escapeXML(item.Title))
	fmt.Fprintf(b, `    <link href="%s" />`+"\n", escapeXML(item.Link))
	fmt.Fprintf(b, "    <updated>%s</updated>\n", atomTime(updated))
	if !item.PublishedAt.IsZero() {
		fmt.Fprintf(b, "    <published>%s</published>\n", atomTime(item.PublishedAt))
	}
	if item.Summary != "" {
		fmt.Fprintf(b, "    <summary>%s</summary>\n", escapeXML(item.Summary))
	}
	b.WriteString("  </entry>\n")
}

func atomTime(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	target := baseURLWithFallback(base)
	route = strings.TrimSpace(route)
	if route == "" {
		return target
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return target + route
}

func timePtrOrZero(ts *time.Time) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.UTC()
}

func firstNonZeroTime(instants ...time.Time) time.Time {
	for _, ts := range instants {
		if !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}

func normalizeWhitespace(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	return strings.Join(strings.Fields(input), " ")
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}
