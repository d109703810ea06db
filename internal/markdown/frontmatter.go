package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// frontMatterEnvelope is the YAML shape decoded from a lesson header. The
// inline map keeps any author-defined keys alongside the known ones.
type frontMatterEnvelope struct {
	Title    string         `yaml:"title"`
	Slug     string         `yaml:"slug"`
	Summary  string         `yaml:"summary"`
	Section  string         `yaml:"section"`
	Position int            `yaml:"position"`
	Template string         `yaml:"template"`
	Tags     []string       `yaml:"tags"`
	Author   string         `yaml:"author"`
	Date     time.Time      `yaml:"date"`
	Draft    bool           `yaml:"draft"`
	Custom   map[string]any `yaml:",inline"`
}

// ParseFrontMatter splits source into structured metadata and the Markdown
// body with the delimiters stripped.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var env frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return env.toFrontMatter(), body, nil
}

// BuildDocument parses source into an interfaces.Document. BodyHTML stays
// empty; rendering happens on demand.
func BuildDocument(path string, locale string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		Locale:       locale,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

func (env frontMatterEnvelope) toFrontMatter() interfaces.FrontMatter {
	custom := env.Custom
	if custom == nil {
		custom = map[string]any{}
	}

	return interfaces.FrontMatter{
		Title:    env.Title,
		Slug:     env.Slug,
		Summary:  env.Summary,
		Section:  env.Section,
		Position: env.Position,
		Template: env.Template,
		Tags:     append([]string(nil), env.Tags...),
		Author:   env.Author,
		Date:     env.Date,
		Draft:    env.Draft,
		Custom:   maps.Clone(custom),
		Raw:      env.rawMap(custom),
	}
}

// rawMap flattens the envelope back into a single key space: custom keys
// first, known keys layered on top when set. Schema validation runs against
// this view.
func (env frontMatterEnvelope) rawMap(custom map[string]any) map[string]any {
	raw := make(map[string]any, len(custom)+10)
	maps.Copy(raw, custom)

	set := func(key string, value any, keep bool) {
		if keep {
			raw[key] = value
		}
	}
	set("title", env.Title, env.Title != "")
	set("slug", env.Slug, env.Slug != "")
	set("summary", env.Summary, env.Summary != "")
	set("section", env.Section, env.Section != "")
	set("position", env.Position, env.Position != 0)
	set("template", env.Template, env.Template != "")
	set("tags", append([]string(nil), env.Tags...), len(env.Tags) > 0)
	set("author", env.Author, env.Author != "")
	set("date", env.Date, !env.Date.IsZero())
	raw["draft"] = env.Draft

	return raw
}
