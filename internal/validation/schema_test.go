package validation

import (
	"errors"
	"testing"
)

func difficultySchema() map[string]map[string]any {
	return map[string]map[string]any{
		"hld": {
			"type": "object",
			"properties": map[string]any{
				"difficulty": map[string]any{
					"type": "string",
					"enum": []any{"beginner", "intermediate", "advanced"},
				},
				"est_minutes": map[string]any{
					"type":    "integer",
					"minimum": 1,
				},
			},
			"additionalProperties": true,
		},
	}
}

func TestSchemaSetValidatesMetadata(t *testing.T) {
	set, err := NewSchemaSet(difficultySchema())
	if err != nil {
		t.Fatalf("NewSchemaSet: %v", err)
	}

	valid := map[string]any{"difficulty": "advanced", "est_minutes": 45}
	if err := set.ValidateMetadata("hld", valid); err != nil {
		t.Fatalf("valid metadata should pass, got %v", err)
	}

	invalid := map[string]any{"difficulty": "expert"}
	err = set.ValidateMetadata("hld", invalid)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}

	var metaErr *MetadataValidationError
	if !errors.As(err, &metaErr) {
		t.Fatalf("expected MetadataValidationError, got %T", err)
	}
	if len(metaErr.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}
}

func TestSchemaSetSkipsSectionsWithoutSchema(t *testing.T) {
	set, err := NewSchemaSet(difficultySchema())
	if err != nil {
		t.Fatalf("NewSchemaSet: %v", err)
	}
	if err := set.ValidateMetadata("lld", map[string]any{"anything": true}); err != nil {
		t.Fatalf("sections without schema should pass, got %v", err)
	}
}

func TestSchemaSetRejectsBrokenSchema(t *testing.T) {
	_, err := NewSchemaSet(map[string]map[string]any{
		"hld": {"type": 42},
	})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestSchemaSetSectionCodeIsCaseInsensitive(t *testing.T) {
	set, err := NewSchemaSet(difficultySchema())
	if err != nil {
		t.Fatalf("NewSchemaSet: %v", err)
	}
	if err := set.ValidateMetadata("HLD", map[string]any{"difficulty": "nope"}); err == nil {
		t.Fatal("expected validation failure for upper-case section code")
	}
}
