package lessons

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/identity"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// ErrTitleRequired indicates a lesson without a title and without a slug to derive one from.
var ErrTitleRequired = errors.New("lessons: title or slug is required")

// ErrSectionCodeRequired indicates a lesson that cannot be assigned to a section.
var ErrSectionCodeRequired = errors.New("lessons: section code is required")

// DuplicateSlugError reports two source files mapping to the same section/slug/locale.
type DuplicateSlugError struct {
	Slug         string
	Section      string
	Locale       string
	ExistingPath string
	IncomingPath string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("lessons: duplicate slug %q in section %q (%s): %s and %s",
		e.Slug, e.Section, e.Locale, e.ExistingPath, e.IncomingPath)
}

// MetadataValidator checks custom frontmatter against a section schema.
type MetadataValidator interface {
	ValidateMetadata(sectionCode string, metadata map[string]any) error
}

// Service exposes the lesson index operations used by sync, navigation and builds.
type Service interface {
	UpsertSection(ctx context.Context, input SectionInput) (*Section, error)
	UpsertLesson(ctx context.Context, input LessonInput) (*Lesson, UpsertOutcome, error)
	GetSection(ctx context.Context, code string) (*Section, error)
	GetLessonBySlug(ctx context.Context, sectionCode, lessonSlug, locale string) (*Lesson, error)
	ListSections(ctx context.Context) ([]*Section, error)
	ListLessons(ctx context.Context, opts ListOptions) ([]*Lesson, error)
	PruneLessons(ctx context.Context, keep []uuid.UUID) (int, error)
}

// ServiceOption customises service construction.
type ServiceOption func(*service)

// WithNow overrides the clock used for timestamps.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger injects the logger used by the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetadataValidator wires schema validation for custom frontmatter.
func WithMetadataValidator(validator MetadataValidator) ServiceOption {
	return func(s *service) {
		s.validator = validator
	}
}

// NewService constructs the lesson index service over the provided repositories.
func NewService(sections SectionRepository, lessons LessonRepository, opts ...ServiceOption) Service {
	s := &service{
		sections: sections,
		lessons:  lessons,
		now:      time.Now,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type service struct {
	sections  SectionRepository
	lessons   LessonRepository
	validator MetadataValidator
	now       func() time.Time
	logger    interfaces.Logger
}

func (s *service) UpsertSection(ctx context.Context, input SectionInput) (*Section, error) {
	code := strings.ToLower(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, ErrSectionCodeRequired
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = titleFromCode(code)
	}

	sectionSlug, err := slug.Normalize(code)
	if err != nil {
		return nil, fmt.Errorf("lessons: normalize section slug %q: %w", code, err)
	}

	now := s.now().UTC()
	record := &Section{
		ID:          identity.SectionUUID(code),
		Code:        code,
		Slug:        sectionSlug,
		Title:       title,
		Description: input.Description,
		Position:    input.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, err := s.sections.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("section upserted", "code", code, "position", input.Position)
	return stored, nil
}

func (s *service) UpsertLesson(ctx context.Context, input LessonInput) (*Lesson, UpsertOutcome, error) {
	sectionCode := strings.ToLower(strings.TrimSpace(input.SectionCode))
	if sectionCode == "" {
		return nil, "", ErrSectionCodeRequired
	}

	lessonSlug, err := s.resolveSlug(input)
	if err != nil {
		return nil, "", err
	}

	if s.validator != nil && len(input.Metadata) > 0 {
		if err := s.validator.ValidateMetadata(sectionCode, input.Metadata); err != nil {
			return nil, "", fmt.Errorf("lessons: metadata for %s: %w", input.SourcePath, err)
		}
	}

	section, err := s.ensureSection(ctx, sectionCode)
	if err != nil {
		return nil, "", err
	}

	locale := strings.ToLower(strings.TrimSpace(input.Locale))
	id := identity.LessonUUID(section.ID, lessonSlug, locale)

	existing, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", err
		}
		existing = nil
	}

	if existing != nil && existing.SourcePath != input.SourcePath {
		return nil, "", &DuplicateSlugError{
			Slug:         lessonSlug,
			Section:      sectionCode,
			Locale:       locale,
			ExistingPath: existing.SourcePath,
			IncomingPath: input.SourcePath,
		}
	}

	if existing != nil && existing.Checksum == input.Checksum {
		return existing, OutcomeUnchanged, nil
	}

	now := s.now().UTC()
	record := &Lesson{
		ID:           id,
		SectionID:    section.ID,
		Slug:         lessonSlug,
		Locale:       locale,
		Title:        strings.TrimSpace(input.Title),
		Summary:      input.Summary,
		Author:       input.Author,
		Tags:         normalizeTags(input.Tags),
		Position:     input.Position,
		Draft:        input.Draft,
		Template:     input.Template,
		SourcePath:   input.SourcePath,
		Checksum:     input.Checksum,
		Body:         input.Body,
		BodyHTML:     input.BodyHTML,
		Metadata:     input.Metadata,
		PublishedAt:  input.Date,
		LastModified: input.LastModified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if record.Title == "" {
		record.Title = titleFromCode(lessonSlug)
	}

	stored, err := s.lessons.Upsert(ctx, record)
	if err != nil {
		return nil, "", err
	}

	outcome := OutcomeCreated
	if existing != nil {
		outcome = OutcomeUpdated
	}
	s.logger.Debug("lesson upserted", "slug", lessonSlug, "section", sectionCode, "outcome", string(outcome))
	return stored, outcome, nil
}

func (s *service) GetSection(ctx context.Context, code string) (*Section, error) {
	return s.sections.GetByCode(ctx, strings.ToLower(strings.TrimSpace(code)))
}

func (s *service) GetLessonBySlug(ctx context.Context, sectionCode, lessonSlug, locale string) (*Lesson, error) {
	section, err := s.sections.GetByCode(ctx, strings.ToLower(strings.TrimSpace(sectionCode)))
	if err != nil {
		return nil, err
	}
	id := identity.LessonUUID(section.ID, strings.TrimSpace(lessonSlug), strings.ToLower(strings.TrimSpace(locale)))
	return s.lessons.GetByID(ctx, id)
}

func (s *service) ListSections(ctx context.Context) ([]*Section, error) {
	sections, err := s.sections.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].Position != sections[j].Position {
			return sections[i].Position < sections[j].Position
		}
		return sections[i].Code < sections[j].Code
	})
	return sections, nil
}

func (s *service) ListLessons(ctx context.Context, opts ListOptions) ([]*Lesson, error) {
	records, err := s.lessons.List(ctx)
	if err != nil {
		return nil, err
	}

	var sectionID uuid.UUID
	if code := strings.ToLower(strings.TrimSpace(opts.SectionCode)); code != "" {
		sectionID = identity.SectionUUID(code)
	}

	locale := strings.ToLower(strings.TrimSpace(opts.Locale))
	tag := strings.ToLower(strings.TrimSpace(opts.Tag))

	out := make([]*Lesson, 0, len(records))
	for _, record := range records {
		if sectionID != uuid.Nil && record.SectionID != sectionID {
			continue
		}
		if locale != "" && record.Locale != locale {
			continue
		}
		if record.Draft && !opts.IncludeDrafts {
			continue
		}
		if tag != "" && !hasTag(record.Tags, tag) {
			continue
		}
		out = append(out, record)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SectionID != out[j].SectionID {
			return out[i].SectionID.String() < out[j].SectionID.String()
		}
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (s *service) PruneLessons(ctx context.Context, keep []uuid.UUID) (int, error) {
	records, err := s.lessons.List(ctx)
	if err != nil {
		return 0, err
	}

	keepSet := make(map[uuid.UUID]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}

	removed := 0
	for _, record := range records {
		if _, ok := keepSet[record.ID]; ok {
			continue
		}
		if err := s.lessons.Delete(ctx, record.ID); err != nil {
			return removed, err
		}
		s.logger.Info("lesson pruned", "slug", record.Slug, "source", record.SourcePath)
		removed++
	}
	return removed, nil
}

func (s *service) ensureSection(ctx context.Context, code string) (*Section, error) {
	section, err := s.sections.GetByCode(ctx, code)
	if err == nil {
		return section, nil
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}
	return s.UpsertSection(ctx, SectionInput{Code: code})
}

func (s *service) resolveSlug(input LessonInput) (string, error) {
	source := strings.TrimSpace(input.Slug)
	if source == "" {
		source = strings.TrimSpace(input.Title)
	}
	if source == "" {
		return "", ErrTitleRequired
	}
	normalized, err := slug.Normalize(source)
	if err != nil {
		return "", fmt.Errorf("lessons: normalize slug %q: %w", source, err)
	}
	return normalized, nil
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func hasTag(tags []string, target string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, target) {
			return true
		}
	}
	return false
}

func titleFromCode(code string) string {
	code = strings.ReplaceAll(strings.ReplaceAll(code, "-", " "), "_", " ")
	words := strings.Fields(code)
	for i, word := range words {
		if len(word) <= 3 {
			words[i] = strings.ToUpper(word)
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
