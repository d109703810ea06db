package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SectionUUID derives the identity for a course section from its code.
func SectionUUID(sectionCode string) uuid.UUID {
	return UUID("go-docsite:section:" + strings.ToLower(strings.TrimSpace(sectionCode)))
}

// LessonUUID derives the identity for a lesson from its section, slug, and locale.
func LessonUUID(sectionID uuid.UUID, slug, locale string) uuid.UUID {
	return UUID("go-docsite:lesson:" + sectionID.String() + ":" + strings.ToLower(strings.TrimSpace(slug)) + ":" + strings.ToLower(strings.TrimSpace(locale)))
}

// NavNodeUUID derives the identity for a navigation node from its canonical key.
func NavNodeUUID(treeCode, canonicalKey string) uuid.UUID {
	return UUID("go-docsite:nav:" + strings.TrimSpace(treeCode) + ":" + strings.TrimSpace(canonicalKey))
}

// ThemeUUID derives the identity for a theme from its path on disk.
func ThemeUUID(themePath string) uuid.UUID {
	return UUID("go-docsite:theme:" + strings.TrimSpace(themePath))
}
