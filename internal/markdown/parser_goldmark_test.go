package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

func TestGoldmarkParserRendersGFM(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	out := string(html)
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected table rendering, got %q", out)
	}
	if !strings.Contains(out, "<del>") {
		t.Errorf("expected strikethrough rendering, got %q", out)
	}
}

func TestGoldmarkParserHeadingIDs(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("## Consistent Hashing"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !strings.Contains(string(html), `id="consistent-hashing"`) {
		t.Errorf("expected auto heading id, got %q", string(html))
	}
}

func TestGoldmarkParserSafeModeStripsRawHTML(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	unsafe, err := parser.Parse([]byte("<script>alert(1)</script>"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !strings.Contains(string(unsafe), "<script>") {
		t.Errorf("expected raw HTML passthrough by default, got %q", string(unsafe))
	}

	safe, err := parser.ParseWithOptions([]byte("<script>alert(1)</script>"), interfaces.ParseOptions{SafeMode: true})
	if err != nil {
		t.Fatalf("ParseWithOptions returned error: %v", err)
	}
	if strings.Contains(string(safe), "<script>") {
		t.Errorf("expected raw HTML suppressed in safe mode, got %q", string(safe))
	}
}

func TestGoldmarkParserUnknownExtensionIgnored(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{Extensions: []string{"table", "nope"}})

	html, err := parser.Parse([]byte("| a |\n|---|\n| 1 |"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !strings.Contains(string(html), "<table>") {
		t.Errorf("expected table extension active, got %q", string(html))
	}
}
