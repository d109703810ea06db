package lessons

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunSectionRepository implements SectionRepository with optional caching.
type BunSectionRepository struct {
	repo repository.Repository[*Section]
}

// NewBunSectionRepository creates a section repository without caching.
func NewBunSectionRepository(db *bun.DB) *BunSectionRepository {
	return NewBunSectionRepositoryWithCache(db, nil, nil)
}

// NewBunSectionRepositoryWithCache creates a section repository wrapped with
// the go-repository-cache layer when both collaborators are provided.
func NewBunSectionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunSectionRepository {
	base := NewSectionRepository(db)
	return &BunSectionRepository{repo: wrapWithCache(base, cacheService, serializer)}
}

func (r *BunSectionRepository) Upsert(ctx context.Context, record *Section) (*Section, error) {
	existing, err := r.repo.GetByIdentifier(ctx, record.Code)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("section repository error: %w", err)
		}
		created, createErr := r.repo.Create(ctx, record)
		if createErr != nil {
			return nil, fmt.Errorf("section repository error: %w", createErr)
		}
		return created, nil
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("section repository error: %w", err)
	}
	return updated, nil
}

func (r *BunSectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Section, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "section", id.String())
	}
	return record, nil
}

func (r *BunSectionRepository) GetByCode(ctx context.Context, code string) (*Section, error) {
	record, err := r.repo.GetByIdentifier(ctx, code)
	if err != nil {
		return nil, mapRepositoryError(err, "section", code)
	}
	return record, nil
}

func (r *BunSectionRepository) List(ctx context.Context) ([]*Section, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

// BunLessonRepository implements LessonRepository with optional caching.
type BunLessonRepository struct {
	repo repository.Repository[*Lesson]
}

// NewBunLessonRepository creates a lesson repository without caching.
func NewBunLessonRepository(db *bun.DB) *BunLessonRepository {
	return NewBunLessonRepositoryWithCache(db, nil, nil)
}

// NewBunLessonRepositoryWithCache creates a lesson repository wrapped with the
// go-repository-cache layer when both collaborators are provided.
func NewBunLessonRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunLessonRepository {
	base := NewLessonRepository(db)
	return &BunLessonRepository{repo: wrapWithCache(base, cacheService, serializer)}
}

func (r *BunLessonRepository) Upsert(ctx context.Context, record *Lesson) (*Lesson, error) {
	existing, err := r.repo.GetByID(ctx, record.ID.String())
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("lesson repository error: %w", err)
		}
		created, createErr := r.repo.Create(ctx, record)
		if createErr != nil {
			return nil, fmt.Errorf("lesson repository error: %w", createErr)
		}
		return created, nil
	}

	record.CreatedAt = existing.CreatedAt
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("lesson repository error: %w", err)
	}
	return updated, nil
}

func (r *BunLessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*Lesson, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "lesson", id.String())
	}
	return record, nil
}

func (r *BunLessonRepository) List(ctx context.Context) ([]*Lesson, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunLessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Lesson{ID: id}); err != nil {
		return mapRepositoryError(err, "lesson", id.String())
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return true
	}
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, serializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || serializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, serializer)
}
