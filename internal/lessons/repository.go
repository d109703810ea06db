package lessons

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SectionRepository stores course sections.
type SectionRepository interface {
	Upsert(ctx context.Context, record *Section) (*Section, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Section, error)
	GetByCode(ctx context.Context, code string) (*Section, error)
	List(ctx context.Context) ([]*Section, error)
}

// LessonRepository stores indexed lessons.
type LessonRepository interface {
	Upsert(ctx context.Context, record *Lesson) (*Lesson, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Lesson, error)
	List(ctx context.Context) ([]*Lesson, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewSectionRepository builds the generic bun-backed section repository.
func NewSectionRepository(db *bun.DB) repository.Repository[*Section] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Section]{
		NewRecord: func() *Section { return &Section{} },
		GetID: func(s *Section) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Section, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "code"
		},
		GetIdentifierValue: func(s *Section) string {
			return s.Code
		},
	})
}

// NewLessonRepository builds the generic bun-backed lesson repository. The
// identifier column is the source path because slugs are only unique per
// section and locale.
func NewLessonRepository(db *bun.DB) repository.Repository[*Lesson] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Lesson]{
		NewRecord: func() *Lesson { return &Lesson{} },
		GetID: func(l *Lesson) uuid.UUID {
			return l.ID
		},
		SetID: func(l *Lesson, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "source_path"
		},
		GetIdentifierValue: func(l *Lesson) string {
			return l.SourcePath
		},
	})
}
