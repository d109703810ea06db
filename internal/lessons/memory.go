package lessons

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemorySectionRepository is an in-memory implementation for embedded use and tests.
type MemorySectionRepository struct {
	mu        sync.RWMutex
	sections  map[uuid.UUID]*Section
	codeIndex map[string]uuid.UUID
}

// NewMemorySectionRepository creates an empty in-memory section repository.
func NewMemorySectionRepository() *MemorySectionRepository {
	return &MemorySectionRepository{
		sections:  make(map[uuid.UUID]*Section),
		codeIndex: make(map[string]uuid.UUID),
	}
}

// Upsert inserts or replaces the supplied section.
func (m *MemorySectionRepository) Upsert(_ context.Context, record *Section) (*Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.codeIndex[record.Code]; ok {
		record.ID = id
		if existing := m.sections[id]; existing != nil {
			record.CreatedAt = existing.CreatedAt
		}
	}

	copied := cloneSection(record)
	m.sections[copied.ID] = copied
	m.codeIndex[copied.Code] = copied.ID
	return cloneSection(copied), nil
}

// GetByID retrieves a section by identifier.
func (m *MemorySectionRepository) GetByID(_ context.Context, id uuid.UUID) (*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.sections[id]
	if !ok {
		return nil, &NotFoundError{Resource: "section", Key: id.String()}
	}
	return cloneSection(rec), nil
}

// GetByCode retrieves a section by code, returning NotFoundError when absent.
func (m *MemorySectionRepository) GetByCode(_ context.Context, code string) (*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.codeIndex[code]
	if !ok {
		return nil, &NotFoundError{Resource: "section", Key: code}
	}
	return cloneSection(m.sections[id]), nil
}

// List returns all sections.
func (m *MemorySectionRepository) List(_ context.Context) ([]*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Section, 0, len(m.sections))
	for _, rec := range m.sections {
		out = append(out, cloneSection(rec))
	}
	return out, nil
}

// MemoryLessonRepository stores lessons in-memory.
type MemoryLessonRepository struct {
	mu      sync.RWMutex
	lessons map[uuid.UUID]*Lesson
}

// NewMemoryLessonRepository creates an empty in-memory lesson repository.
func NewMemoryLessonRepository() *MemoryLessonRepository {
	return &MemoryLessonRepository{
		lessons: make(map[uuid.UUID]*Lesson),
	}
}

// Upsert inserts or replaces the supplied lesson.
func (m *MemoryLessonRepository) Upsert(_ context.Context, record *Lesson) (*Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.lessons[record.ID]; ok {
		record.CreatedAt = existing.CreatedAt
	}

	copied := cloneLesson(record)
	m.lessons[copied.ID] = copied
	return cloneLesson(copied), nil
}

// GetByID retrieves a lesson by identifier.
func (m *MemoryLessonRepository) GetByID(_ context.Context, id uuid.UUID) (*Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.lessons[id]
	if !ok {
		return nil, &NotFoundError{Resource: "lesson", Key: id.String()}
	}
	return cloneLesson(rec), nil
}

// List returns all lessons.
func (m *MemoryLessonRepository) List(_ context.Context) ([]*Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Lesson, 0, len(m.lessons))
	for _, rec := range m.lessons {
		out = append(out, cloneLesson(rec))
	}
	return out, nil
}

// Delete removes a lesson by identifier.
func (m *MemoryLessonRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lessons[id]; !ok {
		return &NotFoundError{Resource: "lesson", Key: id.String()}
	}
	delete(m.lessons, id)
	return nil
}

func cloneSection(src *Section) *Section {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Lessons = nil
	return &copied
}

func cloneLesson(src *Lesson) *Lesson {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Tags = append([]string(nil), src.Tags...)
	if src.Metadata != nil {
		meta := make(map[string]any, len(src.Metadata))
		for k, v := range src.Metadata {
			meta[k] = v
		}
		copied.Metadata = meta
	}
	copied.Section = nil
	return &copied
}
