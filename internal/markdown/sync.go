package markdown

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/lessons"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// LessonSink is the slice of the lesson index the sync workflow writes to.
// lessons.Service satisfies it.
type LessonSink interface {
	UpsertLesson(ctx context.Context, input lessons.LessonInput) (*lessons.Lesson, lessons.UpsertOutcome, error)
	GetLessonBySlug(ctx context.Context, sectionCode, lessonSlug, locale string) (*lessons.Lesson, error)
	ListLessons(ctx context.Context, opts lessons.ListOptions) ([]*lessons.Lesson, error)
	PruneLessons(ctx context.Context, keep []uuid.UUID) (int, error)
}

// ErrSinkRequired indicates Sync was invoked without a lesson index.
var ErrSinkRequired = errors.New("markdown service: lesson sink is required for sync")

// Sync reconciles the lesson files under dir with the lesson index: new files
// create lessons, changed checksums update them, unchanged files are skipped,
// and Prune removes indexed lessons whose sources disappeared.
func (s *Service) Sync(ctx context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if s.sink == nil {
		return nil, ErrSinkRequired
	}

	docs, err := s.LoadDirectory(ctx, dir, opts.Load)
	if err != nil {
		return nil, err
	}

	result := &interfaces.SyncResult{
		DryRun:  opts.DryRun,
		Changes: make([]interfaces.SyncChange, 0, len(docs)),
	}
	keep := make([]uuid.UUID, 0, len(docs))

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		input, err := s.lessonInput(doc)
		if err != nil {
			return nil, err
		}

		if opts.DryRun {
			change, id, err := s.planChange(ctx, input)
			if err != nil {
				return nil, err
			}
			applyChange(result, change)
			if id != uuid.Nil {
				keep = append(keep, id)
			}
			continue
		}

		stored, outcome, err := s.sink.UpsertLesson(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("sync %s: %w", doc.FilePath, err)
		}
		keep = append(keep, stored.ID)
		applyChange(result, interfaces.SyncChange{
			FilePath: doc.FilePath,
			Locale:   stored.Locale,
			Slug:     stored.Slug,
			Action:   actionForOutcome(outcome),
		})
		s.logger.Debug("lesson synced",
			"markdown_path", doc.FilePath,
			"locale", stored.Locale,
			"sync_action", string(actionForOutcome(outcome)),
		)
	}

	if opts.Prune {
		if err := s.prune(ctx, keep, result, opts.DryRun); err != nil {
			return nil, err
		}
	}

	s.logger.Info("sync complete",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"deleted", result.Deleted,
		"dry_run", result.DryRun,
	)
	return result, nil
}

func (s *Service) lessonInput(doc *interfaces.Document) (lessons.LessonInput, error) {
	front := doc.FrontMatter

	section := strings.TrimSpace(front.Section)
	if section == "" {
		section = s.loader.SectionForPath(doc.FilePath)
	}
	if section == "" {
		section = strings.TrimSpace(s.cfg.DefaultSection)
	}
	if section == "" {
		return lessons.LessonInput{}, fmt.Errorf("sync %s: no section in frontmatter or path", doc.FilePath)
	}

	input := lessons.LessonInput{
		SectionCode:  section,
		Slug:         front.Slug,
		Locale:       doc.Locale,
		Title:        front.Title,
		Tags:         front.Tags,
		Position:     front.Position,
		Draft:        front.Draft,
		SourcePath:   doc.FilePath,
		Checksum:     hex.EncodeToString(doc.Checksum),
		Body:         string(doc.Body),
		BodyHTML:     string(doc.BodyHTML),
		Metadata:     front.Custom,
		LastModified: doc.LastModified,
	}
	if summary := strings.TrimSpace(front.Summary); summary != "" {
		input.Summary = &summary
	}
	if author := strings.TrimSpace(front.Author); author != "" {
		input.Author = &author
	}
	if template := strings.TrimSpace(front.Template); template != "" {
		input.Template = &template
	}
	if !front.Date.IsZero() {
		date := front.Date
		input.Date = &date
	}
	return input, nil
}

// planChange computes the action a non-dry sync would take without writing.
func (s *Service) planChange(ctx context.Context, input lessons.LessonInput) (interfaces.SyncChange, uuid.UUID, error) {
	lessonSlug, err := normalizeSlug(input)
	if err != nil {
		return interfaces.SyncChange{}, uuid.Nil, err
	}

	change := interfaces.SyncChange{
		FilePath: input.SourcePath,
		Locale:   input.Locale,
		Slug:     lessonSlug,
	}

	existing, err := s.sink.GetLessonBySlug(ctx, input.SectionCode, lessonSlug, input.Locale)
	if err != nil {
		var notFound *lessons.NotFoundError
		if !errors.As(err, &notFound) {
			return interfaces.SyncChange{}, uuid.Nil, err
		}
		change.Action = interfaces.SyncActionCreate
		return change, uuid.Nil, nil
	}

	if existing.Checksum == input.Checksum {
		change.Action = interfaces.SyncActionSkip
		change.Reason = "checksum unchanged"
	} else {
		change.Action = interfaces.SyncActionUpdate
	}
	return change, existing.ID, nil
}

func (s *Service) prune(ctx context.Context, keep []uuid.UUID, result *interfaces.SyncResult, dryRun bool) error {
	if dryRun {
		indexed, err := s.sink.ListLessons(ctx, lessons.ListOptions{IncludeDrafts: true})
		if err != nil {
			return err
		}
		keepSet := make(map[uuid.UUID]struct{}, len(keep))
		for _, id := range keep {
			keepSet[id] = struct{}{}
		}
		for _, lesson := range indexed {
			if _, ok := keepSet[lesson.ID]; ok {
				continue
			}
			applyChange(result, interfaces.SyncChange{
				FilePath: lesson.SourcePath,
				Locale:   lesson.Locale,
				Slug:     lesson.Slug,
				Action:   interfaces.SyncActionDelete,
				Reason:   "source file removed",
			})
		}
		return nil
	}

	removed, err := s.sink.PruneLessons(ctx, keep)
	if err != nil {
		return err
	}
	result.Deleted += removed
	return nil
}

func applyChange(result *interfaces.SyncResult, change interfaces.SyncChange) {
	result.Changes = append(result.Changes, change)
	switch change.Action {
	case interfaces.SyncActionCreate:
		result.Created++
	case interfaces.SyncActionUpdate:
		result.Updated++
	case interfaces.SyncActionDelete:
		result.Deleted++
	default:
		result.Skipped++
	}
}

func actionForOutcome(outcome lessons.UpsertOutcome) interfaces.SyncAction {
	switch outcome {
	case lessons.OutcomeCreated:
		return interfaces.SyncActionCreate
	case lessons.OutcomeUpdated:
		return interfaces.SyncActionUpdate
	default:
		return interfaces.SyncActionSkip
	}
}

func normalizeSlug(input lessons.LessonInput) (string, error) {
	source := strings.TrimSpace(input.Slug)
	if source == "" {
		source = strings.TrimSpace(input.Title)
	}
	if source == "" {
		return "", fmt.Errorf("sync %s: title or slug required", input.SourcePath)
	}
	normalized, err := slug.Normalize(source)
	if err != nil {
		return "", fmt.Errorf("sync %s: normalize slug: %w", input.SourcePath, err)
	}
	return normalized, nil
}
