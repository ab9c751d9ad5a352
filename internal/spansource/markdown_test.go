package spansource

import (
	"strings"
	"testing"
)

func TestMarkdownSource_HeadingSizes(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.
`
	p := &MarkdownSource{}
	spans, err := p.Spans(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		text string
		size float64
	}{
		{"Title", 24},
		{"Intro text.", 10},
		{"Section A", 20},
		{"Section A content.", 10},
		{"Subsection A1", 16},
		{"Subsection A1 content.", 10},
	}
	if len(spans) != len(want) {
		t.Fatalf("expected %d spans, got %d", len(want), len(spans))
	}
	for i, w := range want {
		if spans[i].Text != w.text {
			t.Errorf("span[%d]: expected %q, got %q", i, w.text, spans[i].Text)
		}
		if spans[i].Style.Size != w.size {
			t.Errorf("span[%d]: expected size %v, got %v", i, w.size, spans[i].Style.Size)
		}
		if spans[i].Paragraph != i {
			t.Errorf("span[%d]: expected paragraph %d, got %d", i, i, spans[i].Paragraph)
		}
	}
}

func TestMarkdownSource_StrongAndCode(t *testing.T) {
	input := "Plain **Bold part** then `code` end."
	p := &MarkdownSource{}
	spans, err := p.Spans(strings.NewReader(input), "inline.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 5 {
		t.Fatalf("expected 5 spans, got %d", len(spans))
	}
	if !spans[1].Style.Bold || spans[1].Text != "Bold part" {
		t.Errorf("expected bold span %q, got %q bold=%v", "Bold part", spans[1].Text, spans[1].Style.Bold)
	}
	if spans[3].Style.Font != monospace || spans[3].Text != "code" {
		t.Errorf("expected monospace span %q, got %q font=%q", "code", spans[3].Text, spans[3].Style.Font)
	}
	for i, s := range spans {
		if s.Line != 0 {
			t.Errorf("span[%d]: expected line 0, got %d", i, s.Line)
		}
	}
}

func TestMarkdownSource_SoftBreakJoinsLines(t *testing.T) {
	input := "line one\nline two\n"
	p := &MarkdownSource{}
	spans, err := p.Spans(strings.NewReader(input), "soft.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Text != "line one line two" {
		t.Errorf("expected %q, got %q", "line one line two", spans[0].Text)
	}
}

func TestMarkdownSource_CodeBlock(t *testing.T) {
	input := "## Endpoints\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"
	p := &MarkdownSource{}
	spans, err := p.Spans(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 4 {
		t.Fatalf("expected 4 spans, got %d", len(spans))
	}
	if spans[1].Text != "GET /api/users" || spans[2].Text != "POST /api/users" {
		t.Errorf("expected code lines, got %q and %q", spans[1].Text, spans[2].Text)
	}
	if spans[1].Paragraph != spans[2].Paragraph || spans[1].Line == spans[2].Line {
		t.Errorf("expected code lines in one paragraph on separate lines")
	}
	if spans[1].Style.Font != monospace {
		t.Errorf("expected monospace code, got %q", spans[1].Style.Font)
	}
	if spans[3].Text != "More text after code." {
		t.Errorf("expected post-code text, got %q", spans[3].Text)
	}
}

func TestMarkdownSource_EmptyInput(t *testing.T) {
	p := &MarkdownSource{}
	spans, err := p.Spans(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("expected 0 spans for empty input, got %d", len(spans))
	}
}
