package lessons

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Section groups lessons into an ordered course chapter (e.g. "hld", "lld").
type Section struct {
	bun.BaseModel `bun:"table:sections,alias:s"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Code        string     `bun:"code,notnull" json:"code"`
	Slug        string     `bun:"slug,notnull" json:"slug"`
	Title       string     `bun:"title,notnull" json:"title"`
	Description *string    `bun:"description" json:"description,omitempty"`
	Position    int        `bun:"position,notnull,default:0" json:"position"`
	DeletedAt   *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Lessons     []*Lesson  `bun:"rel:has-many,join:id=section_id" json:"lessons,omitempty"`
}

// RouteCode returns the URL-safe identifier used when building routes.
// The raw code comes from frontmatter and may contain characters that do
// not belong in a path, so the normalized slug wins when it is set.
func (s *Section) RouteCode() string {
	if s == nil {
		return ""
	}
	if slug := strings.TrimSpace(s.Slug); slug != "" {
		return slug
	}
	return strings.TrimSpace(s.Code)
}

// Lesson is a single Markdown document indexed for navigation and builds.
type Lesson struct {
	bun.BaseModel `bun:"table:lessons,alias:le"`

	ID           uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	SectionID    uuid.UUID      `bun:"section_id,notnull,type:uuid" json:"section_id"`
	Slug         string         `bun:"slug,notnull" json:"slug"`
	Locale       string         `bun:"locale,notnull" json:"locale"`
	Title        string         `bun:"title,notnull" json:"title"`
	Summary      *string        `bun:"summary" json:"summary,omitempty"`
	Author       *string        `bun:"author" json:"author,omitempty"`
	Tags         []string       `bun:"tags,type:jsonb" json:"tags,omitempty"`
	Position     int            `bun:"position,notnull,default:0" json:"position"`
	Draft        bool           `bun:"draft,notnull,default:false" json:"draft"`
	Template     *string        `bun:"template" json:"template,omitempty"`
	SourcePath   string         `bun:"source_path,notnull" json:"source_path"`
	Checksum     string         `bun:"checksum,notnull" json:"checksum"`
	Body         string         `bun:"body,notnull" json:"body"`
	BodyHTML     string         `bun:"body_html,notnull" json:"body_html"`
	Metadata     map[string]any `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	PublishedAt  *time.Time     `bun:"published_at,nullzero" json:"published_at,omitempty"`
	LastModified time.Time      `bun:"last_modified,nullzero" json:"last_modified"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Section      *Section       `bun:"rel:belongs-to,join:section_id=id" json:"section,omitempty"`
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// SectionInput declares or updates a section.
type SectionInput struct {
	Code        string
	Title       string
	Description *string
	Position    int
}

// LessonInput declares or updates a lesson in the index.
type LessonInput struct {
	SectionCode  string
	Slug         string
	Locale       string
	Title        string
	Summary      *string
	Author       *string
	Tags         []string
	Position     int
	Draft        bool
	Template     *string
	SourcePath   string
	Checksum     string
	Body         string
	BodyHTML     string
	Metadata     map[string]any
	Date         *time.Time
	LastModified time.Time
}

// UpsertOutcome reports what an upsert did so sync runs can aggregate counts.
type UpsertOutcome string

const (
	OutcomeCreated   UpsertOutcome = "created"
	OutcomeUpdated   UpsertOutcome = "updated"
	OutcomeUnchanged UpsertOutcome = "unchanged"
)

// ListOptions filters and orders lesson listings.
type ListOptions struct {
	SectionCode   string
	Locale        string
	Tag           string
	IncludeDrafts bool
}
