// Package render provides a minimal html/template based implementation of the
// TemplateRenderer contract for standalone builds. Hosts embedding the module
// can swap in their own engine instead.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// ErrTemplateNotFound indicates the named template is not registered.
var ErrTemplateNotFound = errors.New("render: template not found")

// Engine renders named templates loaded from a filesystem, with optional
// inline registration for tests and defaults.
type Engine struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
	global    map[string]any
	funcs     template.FuncMap
}

// Option customises Engine construction.
type Option func(*Engine)

// WithFuncs merges additional template functions into the engine.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		for name, fn := range funcs {
			e.funcs[name] = fn
		}
	}
}

// NewEngine constructs an empty engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		templates: map[string]*template.Template{},
		global:    map[string]any{},
		funcs: template.FuncMap{
			"safeHTML": func(value string) template.HTML { return template.HTML(value) },
			"lower":    strings.ToLower,
			"upper":    strings.ToUpper,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadDir registers every .html template under dir in the filesystem. The
// template name is the file path without extension: templates/lesson.html
// registers as "templates/lesson" and "lesson".
func (e *Engine) LoadDir(filesystem fs.FS, dir string) error {
	if filesystem == nil {
		return errors.New("render: filesystem is required")
	}
	root := strings.TrimSpace(dir)
	if root == "" {
		root = "."
	}
	return fs.WalkDir(filesystem, root, func(filePath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(filePath, ".html") {
			return nil
		}
		data, err := fs.ReadFile(filesystem, filePath)
		if err != nil {
			return fmt.Errorf("render: read template %s: %w", filePath, err)
		}
		name := strings.TrimSuffix(filePath, ".html")
		if err := e.Register(name, string(data)); err != nil {
			return err
		}
		// Also register under the bare file name for short lookups.
		if base := path.Base(name); base != name {
			if err := e.Register(base, string(data)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Register parses and stores a named template.
func (e *Engine) Register(name, content string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("render: template name is required")
	}
	parsed, err := template.New(name).Funcs(e.funcs).Parse(content)
	if err != nil {
		return fmt.Errorf("render: parse template %s: %w", name, err)
	}
	e.mu.Lock()
	e.templates[name] = parsed
	e.mu.Unlock()
	return nil
}

// Render executes the named template with the merged global context.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[strings.TrimSpace(name)]
	e.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return e.execute(tmpl, data, out...)
}

// RenderString parses and executes an inline template.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	tmpl, err := template.New("inline").Funcs(e.funcs).Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("render: parse inline template: %w", err)
	}
	return e.execute(tmpl, data, out...)
}

// GlobalContext stores values exposed to every template execution under .Global.
func (e *Engine) GlobalContext(data any) error {
	values, ok := data.(map[string]any)
	if !ok {
		return errors.New("render: global context must be map[string]any")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, value := range values {
		e.global[key] = value
	}
	return nil
}

type renderScope struct {
	Data   any
	Global map[string]any
}

func (e *Engine) execute(tmpl *template.Template, data any, out ...io.Writer) (string, error) {
	e.mu.RLock()
	global := make(map[string]any, len(e.global))
	for key, value := range e.global {
		global[key] = value
	}
	e.mu.RUnlock()

	var builder strings.Builder
	scope := renderScope{Data: data, Global: global}
	if err := tmpl.Execute(&builder, scope); err != nil {
		return "", fmt.Errorf("render: execute template %s: %w", tmpl.Name(), err)
	}
	result := builder.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, result); err != nil {
			return result, err
		}
	}
	return result, nil
}
