package spansource

import (
	"strings"
	"testing"
)

func TestCSVSource_HeaderIsBold(t *testing.T) {
	input := "name,role\nada,engineer\ngrace,admiral\n"
	p := &CSVSource{}
	spans, err := p.Spans(strings.NewReader(input), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	if !spans[0].Style.Bold || spans[0].Text != "name, role" {
		t.Errorf("expected bold header %q, got %q bold=%v", "name, role", spans[0].Text, spans[0].Style.Bold)
	}
	if spans[1].Text != "name: ada, role: engineer" {
		t.Errorf("expected labelled row, got %q", spans[1].Text)
	}
	if spans[2].Style.Bold {
		t.Error("expected data rows not to be bold")
	}
	if spans[1].Line == spans[2].Line {
		t.Error("expected one line per row")
	}
}

func TestCSVSource_Empty(t *testing.T) {
	p := &CSVSource{}
	spans, err := p.Spans(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("expected 0 spans, got %d", len(spans))
	}
}
