package interfaces

import (
	"io"
)

// TemplateRenderer is the pluggable rendering contract used by the static
// generator. Hosts can bind any template engine that satisfies it; the module
// ships a minimal html/template implementation for standalone builds.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
