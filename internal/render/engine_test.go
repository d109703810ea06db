package render

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestEngineRenderRegisteredTemplate(t *testing.T) {
	engine := NewEngine()
	if err := engine.Register("lesson", `<h1>{{ .Data.Title }}</h1>`); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	out, err := engine.Render("lesson", map[string]any{"Title": "Caching"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if out != "<h1>Caching</h1>" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestEngineRenderUnknownTemplate(t *testing.T) {
	engine := NewEngine()
	if _, err := engine.Render("nope", nil); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestEngineLoadDir(t *testing.T) {
	filesystem := fstest.MapFS{
		"templates/lesson.html":  {Data: []byte(`lesson: {{ .Data }}`)},
		"templates/section.html": {Data: []byte(`section: {{ .Data }}`)},
		"templates/readme.txt":   {Data: []byte(`ignored`)},
	}

	engine := NewEngine()
	if err := engine.LoadDir(filesystem, "."); err != nil {
		t.Fatalf("LoadDir returned error: %v", err)
	}

	for _, name := range []string{"lesson", "templates/lesson", "section"} {
		if _, err := engine.Render(name, "x"); err != nil {
			t.Errorf("expected template %q registered: %v", name, err)
		}
	}
	if _, err := engine.Render("readme", nil); err == nil {
		t.Error("non-html files should not register templates")
	}
}

func TestEngineGlobalContext(t *testing.T) {
	engine := NewEngine()
	if err := engine.GlobalContext(map[string]any{"site": "Lessons"}); err != nil {
		t.Fatalf("GlobalContext returned error: %v", err)
	}
	out, err := engine.RenderString(`{{ .Global.site }}: {{ .Data }}`, "hello")
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if out != "Lessons: hello" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestEngineSafeHTMLFunc(t *testing.T) {
	engine := NewEngine()
	out, err := engine.RenderString(`{{ safeHTML .Data }}`, "<em>hi</em>")
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if !strings.Contains(out, "<em>hi</em>") {
		t.Errorf("expected raw HTML passthrough, got %q", out)
	}
}

func TestEngineWritesToOutput(t *testing.T) {
	engine := NewEngine()
	var sink strings.Builder
	out, err := engine.RenderString(`hi`, nil, &sink)
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if out != "hi" || sink.String() != "hi" {
		t.Errorf("expected output mirrored to writer, got %q / %q", out, sink.String())
	}
}
