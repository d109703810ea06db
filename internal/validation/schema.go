// Package validation compiles JSON Schemas declared in configuration and
// applies them to lesson frontmatter metadata.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaInvalid indicates a section schema that cannot be compiled.
var ErrSchemaInvalid = errors.New("schema invalid")

// ErrSchemaValidation indicates metadata that failed schema validation.
var ErrSchemaValidation = errors.New("schema validation failed")

// Issue captures a single validation failure.
type Issue struct {
	Location string
	Message  string
}

// MetadataValidationError surfaces validation issues with schema-aware context.
type MetadataValidationError struct {
	Section string
	Issues  []Issue
	Cause   error
}

func (e *MetadataValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *MetadataValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// SchemaSet holds compiled per-section metadata schemas.
type SchemaSet struct {
	compiled map[string]*jsonschema.Schema
}

// NewSchemaSet compiles the supplied schemas keyed by section code. Sections
// without a schema are accepted without validation.
func NewSchemaSet(schemas map[string]map[string]any) (*SchemaSet, error) {
	set := &SchemaSet{compiled: map[string]*jsonschema.Schema{}}

	for section, schema := range schemas {
		if len(schema) == 0 {
			continue
		}
		compiled, err := compileSchema(section, schema)
		if err != nil {
			return nil, err
		}
		set.compiled[strings.ToLower(strings.TrimSpace(section))] = compiled
	}
	return set, nil
}

// ValidateMetadata checks the metadata map against the section's schema, when
// one is registered. Implements lessons.MetadataValidator.
func (s *SchemaSet) ValidateMetadata(sectionCode string, metadata map[string]any) error {
	if s == nil || len(s.compiled) == 0 {
		return nil
	}

	schema, ok := s.compiled[strings.ToLower(strings.TrimSpace(sectionCode))]
	if !ok || schema == nil {
		return nil
	}

	// Round-trip through JSON so yaml-decoded values (map[string]any with
	// typed numbers) validate the same way as decoded JSON payloads.
	normalized, err := normalizeDocument(metadata)
	if err != nil {
		return &MetadataValidationError{Section: sectionCode, Cause: err}
	}

	if err := schema.Validate(normalized); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &MetadataValidationError{
				Section: sectionCode,
				Issues:  collectIssues(validationErr),
				Cause:   err,
			}
		}
		return &MetadataValidationError{Section: sectionCode, Cause: err}
	}
	return nil
}

func compileSchema(section string, schema map[string]any) (*jsonschema.Schema, error) {
	payload, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal schema for %s: %v", ErrSchemaInvalid, section, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	resource := fmt.Sprintf("docsite://sections/%s/schema.json", section)
	if err := compiler.AddResource(resource, bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("%w: add schema for %s: %v", ErrSchemaInvalid, section, err)
	}

	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("%w: compile schema for %s: %v", ErrSchemaInvalid, section, err)
	}
	return compiled, nil
}

func normalizeDocument(metadata map[string]any) (any, error) {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(payload, &normalized); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return normalized, nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	if err == nil {
		return nil
	}

	leaves := err.BasicOutput().Errors
	issues := make([]Issue, 0, len(leaves))
	for _, leaf := range leaves {
		if strings.TrimSpace(leaf.Error) == "" {
			continue
		}
		issues = append(issues, Issue{
			Location: leaf.InstanceLocation,
			Message:  leaf.Error,
		})
	}
	if len(issues) == 0 {
		issues = append(issues, Issue{Message: err.Error()})
	}
	return issues
}
