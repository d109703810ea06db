package lessons

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService(t *testing.T, opts ...ServiceOption) Service {
	t.Helper()
	base := []ServiceOption{
		WithNow(func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }),
	}
	base = append(base, opts...)
	return NewService(NewMemorySectionRepository(), NewMemoryLessonRepository(), base...)
}

func lessonInput(section, slug string) LessonInput {
	return LessonInput{
		SectionCode: section,
		Slug:        slug,
		Locale:      "en",
		Title:       "Consistent Hashing",
		SourcePath:  section + "/" + slug + ".md",
		Checksum:    "abc123",
		Body:        "# Consistent Hashing",
		BodyHTML:    "<h1>Consistent Hashing</h1>",
	}
}

func TestUpsertLessonCreatesSectionOnDemand(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	lesson, outcome, err := svc.UpsertLesson(ctx, lessonInput("hld", "consistent-hashing"))
	if err != nil {
		t.Fatalf("UpsertLesson: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("expected created outcome, got %q", outcome)
	}
	if lesson.Slug != "consistent-hashing" {
		t.Fatalf("unexpected slug %q", lesson.Slug)
	}

	section, err := svc.GetSection(ctx, "hld")
	if err != nil {
		t.Fatalf("GetSection: %v", err)
	}
	if section.Title != "HLD" {
		t.Fatalf("expected derived section title HLD, got %q", section.Title)
	}
	if lesson.SectionID != section.ID {
		t.Fatal("lesson should reference the created section")
	}
}

func TestSectionRouteCodePrefersNormalizedSlug(t *testing.T) {
	section := &Section{Code: "../evil section", Slug: "evil-section"}
	if got := section.RouteCode(); got != "evil-section" {
		t.Fatalf("expected slug to win, got %q", got)
	}

	legacy := &Section{Code: "hld"}
	if got := legacy.RouteCode(); got != "hld" {
		t.Fatalf("expected code fallback, got %q", got)
	}

	var missing *Section
	if got := missing.RouteCode(); got != "" {
		t.Fatalf("expected empty route code, got %q", got)
	}
}

func TestUpsertLessonIsIdempotentByChecksum(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := lessonInput("hld", "consistent-hashing")
	first, _, err := svc.UpsertLesson(ctx, input)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, outcome, err := svc.UpsertLesson(ctx, input)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if outcome != OutcomeUnchanged {
		t.Fatalf("expected unchanged outcome, got %q", outcome)
	}
	if second.ID != first.ID {
		t.Fatal("deterministic IDs should be stable across upserts")
	}

	input.Checksum = "def456"
	input.Body = "updated"
	_, outcome, err = svc.UpsertLesson(ctx, input)
	if err != nil {
		t.Fatalf("third upsert: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("expected updated outcome, got %q", outcome)
	}
}

func TestUpsertLessonRejectsDuplicateSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.UpsertLesson(ctx, lessonInput("hld", "consistent-hashing")); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	duplicate := lessonInput("hld", "consistent-hashing")
	duplicate.SourcePath = "hld/consistent-hashing-copy.md"
	_, _, err := svc.UpsertLesson(ctx, duplicate)

	var dupErr *DuplicateSlugError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateSlugError, got %v", err)
	}
	if dupErr.ExistingPath == dupErr.IncomingPath {
		t.Fatal("duplicate error should name both source files")
	}
}

func TestUpsertLessonDerivesSlugFromTitle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := lessonInput("lld", "")
	input.Title = "Design an LRU Cache"
	input.SourcePath = "lld/lru.md"

	lesson, _, err := svc.UpsertLesson(ctx, input)
	if err != nil {
		t.Fatalf("UpsertLesson: %v", err)
	}
	if lesson.Slug != "design-an-lru-cache" {
		t.Fatalf("expected normalized slug, got %q", lesson.Slug)
	}
}

func TestUpsertLessonRequiresTitleOrSlug(t *testing.T) {
	svc := newTestService(t)

	input := lessonInput("lld", "")
	input.Title = ""
	if _, _, err := svc.UpsertLesson(context.Background(), input); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestListSectionsOrdersByPosition(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, input := range []SectionInput{
		{Code: "lld", Title: "Low-Level Design", Position: 2},
		{Code: "hld", Title: "High-Level Design", Position: 1},
		{Code: "intro", Title: "Introduction", Position: 0},
	} {
		if _, err := svc.UpsertSection(ctx, input); err != nil {
			t.Fatalf("UpsertSection %s: %v", input.Code, err)
		}
	}

	sections, err := svc.ListSections(ctx)
	if err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	got := []string{sections[0].Code, sections[1].Code, sections[2].Code}
	want := []string{"intro", "hld", "lld"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected section order %v, want %v", got, want)
		}
	}
}

func TestListLessonsFiltersDraftsAndTags(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	published := lessonInput("hld", "cdn-design")
	published.Tags = []string{"Networking", "caching"}
	published.Position = 1
	if _, _, err := svc.UpsertLesson(ctx, published); err != nil {
		t.Fatalf("upsert published: %v", err)
	}

	draft := lessonInput("hld", "rate-limiting")
	draft.SourcePath = "hld/rate-limiting.md"
	draft.Draft = true
	draft.Position = 2
	if _, _, err := svc.UpsertLesson(ctx, draft); err != nil {
		t.Fatalf("upsert draft: %v", err)
	}

	visible, err := svc.ListLessons(ctx, ListOptions{SectionCode: "hld", Locale: "en"})
	if err != nil {
		t.Fatalf("ListLessons: %v", err)
	}
	if len(visible) != 1 || visible[0].Slug != "cdn-design" {
		t.Fatalf("drafts should be excluded by default, got %d lessons", len(visible))
	}

	all, err := svc.ListLessons(ctx, ListOptions{SectionCode: "hld", IncludeDrafts: true})
	if err != nil {
		t.Fatalf("ListLessons with drafts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 lessons including drafts, got %d", len(all))
	}

	tagged, err := svc.ListLessons(ctx, ListOptions{Tag: "networking"})
	if err != nil {
		t.Fatalf("ListLessons by tag: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Slug != "cdn-design" {
		t.Fatalf("tag filter should match case-insensitively, got %d lessons", len(tagged))
	}
}

func TestPruneLessonsRemovesUnlistedRecords(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	keep, _, err := svc.UpsertLesson(ctx, lessonInput("hld", "cdn-design"))
	if err != nil {
		t.Fatalf("upsert keep: %v", err)
	}
	gone := lessonInput("hld", "old-lesson")
	gone.SourcePath = "hld/old-lesson.md"
	if _, _, err := svc.UpsertLesson(ctx, gone); err != nil {
		t.Fatalf("upsert gone: %v", err)
	}

	removed, err := svc.PruneLessons(ctx, []uuid.UUID{keep.ID})
	if err != nil {
		t.Fatalf("PruneLessons: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned lesson, got %d", removed)
	}

	remaining, err := svc.ListLessons(ctx, ListOptions{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("ListLessons: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != keep.ID {
		t.Fatal("prune should keep only the listed lesson")
	}
}

type rejectAllValidator struct{}

func (rejectAllValidator) ValidateMetadata(string, map[string]any) error {
	return errors.New("schema violation")
}

func TestUpsertLessonRunsMetadataValidation(t *testing.T) {
	svc := newTestService(t, WithMetadataValidator(rejectAllValidator{}))

	input := lessonInput("hld", "cdn-design")
	input.Metadata = map[string]any{"difficulty": "expert"}
	if _, _, err := svc.UpsertLesson(context.Background(), input); err == nil {
		t.Fatal("expected metadata validation error")
	}
}
