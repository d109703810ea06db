package interfaces

import "context"

// Logger is the leveled logging contract used throughout the module. The
// method set matches github.com/goliatone/go-logger, so hosts already using
// that package can pass their loggers straight through.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers. A provider may scope children per
// name or return one shared instance for everything.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional extension: implementations return a logger
// that stamps the supplied fields onto every subsequent entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
