package logging

import (
	"maps"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// WithFields returns a logger carrying the given structured fields. Loggers
// that do not implement the FieldsLogger extension are returned as-is, so
// callers never need to check for support themselves.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}

	// Copy before handing off; callers may reuse the map between calls.
	return fl.WithFields(maps.Clone(fields))
}
