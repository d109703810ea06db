package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const (
	rootModule      = "docsite"
	markdownModule  = "docsite.markdown"
	lessonsModule   = "docsite.lessons"
	navModule       = "docsite.nav"
	generatorModule = "docsite.generator"
	linkcheckModule = "docsite.linkcheck"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MarkdownLogger returns the logger namespace reserved for markdown workflows.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// LessonsLogger returns the logger namespace reserved for the lesson index.
func LessonsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, lessonsModule)
}

// NavLogger returns the logger namespace reserved for navigation building.
func NavLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, navModule)
}

// GeneratorLogger returns the logger namespace reserved for static builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// LinkCheckLogger returns the logger namespace reserved for link checking.
func LinkCheckLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, linkcheckModule)
}

// ModuleName normalizes an arbitrary name into the docsite logger namespace.
func ModuleName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return rootModule
	}
	if strings.HasPrefix(name, rootModule+".") || name == rootModule {
		return name
	}
	return rootModule + "." + name
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

// NoOpProvider returns a provider whose loggers drop every entry.
func NoOpProvider() interfaces.LoggerProvider {
	return noopProvider{}
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
