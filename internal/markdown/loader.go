package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// DocumentResult pairs a parsed document with the raw bytes it came from, so
// the sync path can checksum and re-render without a second read.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}

// LoadParams provide call-specific overrides for locale detection and pattern matching.
type LoadParams struct {
	Pattern        string
	LocalePatterns map[string]string
	Recursive      *bool
}

// LoaderConfig configures how lesson files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the root directory where lesson documents live.
	BasePath string
	// DefaultLocale is used when no locale can be inferred from the file path.
	DefaultLocale string
	// Locales enumerates the known locales so a leading locale directory can
	// be recognised without a pattern.
	Locales []string
	// LocalePatterns maps locale identifiers to glob expressions relative to BasePath.
	LocalePatterns map[string]string
	// Pattern limits discovered files to those matching the supplied glob (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into lesson documents with metadata.
type Loader struct {
	fs             fs.FS
	basePath       string
	defaultLocale  string
	locales        []string
	localePatterns map[string]string
	pattern        string
	recursive      bool
}

// NewLoader constructs a Loader over the given filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	patterns := map[string]string{}
	maps.Copy(patterns, cfg.LocalePatterns)

	return &Loader{
		fs:             filesystem,
		basePath:       filepath.Clean(cfg.BasePath),
		defaultLocale:  cfg.DefaultLocale,
		locales:        append([]string(nil), cfg.Locales...),
		localePatterns: patterns,
		pattern:        pattern,
		recursive:      cfg.Recursive,
	}
}

// LoadFile reads and parses a single lesson document, attaching its SHA-256
// checksum for sync change detection.
func (l *Loader) LoadFile(ctx context.Context, path string, opts LoadParams) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.relativize(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("lesson loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("lesson loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, l.localeFor(rel, opts.LocalePatterns), data, info.ModTime())
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return &DocumentResult{Document: doc, Source: data}, nil
}

// LoadDirectory discovers lesson files under dir and returns their parsed
// documents ordered by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.relativize(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(root)

	recursive := l.recursive
	if opts.Recursive != nil {
		recursive = *opts.Recursive
	}

	var results []*DocumentResult
	err = fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			// Without recursion only the root itself is walked.
			if !recursive && filepath.Clean(path) != root {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := filepath.ToSlash(path)
		if !l.matchesPattern(rel, opts.Pattern) {
			return nil
		}
		result, err := l.LoadFile(ctx, rel, opts)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.FilePath < results[j].Document.FilePath
	})
	return results, nil
}

// SectionForPath infers the section code for a document from its path when the
// frontmatter does not declare one: the first path segment below the content
// root (skipping a leading locale directory) names the section.
func (l *Loader) SectionForPath(path string) string {
	segments := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	segments = l.stripLocaleSegment(segments)
	if len(segments) < 2 {
		return ""
	}
	return segments[0]
}

func (l *Loader) stripLocaleSegment(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}
	for _, locale := range l.locales {
		if segments[0] == locale {
			return segments[1:]
		}
	}
	return segments
}

func (l *Loader) matchesPattern(path string, override string) bool {
	pattern := strings.TrimSpace(override)
	if pattern == "" {
		pattern = l.pattern
	}
	return globMatch(pattern, path)
}

// globMatch applies a filepath glob, matching against the base name for bare
// patterns and tolerating a leading **/ for recursive ones.
func globMatch(pattern, path string) bool {
	pattern = filepath.ToSlash(pattern)
	if strings.Contains(pattern, "**") {
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	target := path
	if !strings.Contains(pattern, "/") {
		target = filepath.Base(path)
	}
	ok, err := filepath.Match(pattern, target)
	return err == nil && ok
}

func (l *Loader) localeFor(path string, overrides map[string]string) string {
	path = filepath.ToSlash(path)

	for _, patterns := range []map[string]string{overrides, l.localePatterns} {
		for locale, pattern := range patterns {
			if strings.TrimSpace(pattern) == "" {
				continue
			}
			if globMatch(pattern, path) {
				return locale
			}
		}
	}

	segments := strings.Split(path, "/")
	if len(segments) > 0 {
		for _, locale := range l.locales {
			if segments[0] == locale {
				return locale
			}
		}
	}
	return l.defaultLocale
}

func (l *Loader) relativize(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" {
		return "", fmt.Errorf("lesson loader: absolute path %s provided without base path", path)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("lesson loader: make relative %s: %w", path, err)
	}
	return rel, nil
}
