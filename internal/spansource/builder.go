package spansource

import (
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// runStyle is the style in effect while walking a document.
type runStyle struct {
	size  float64
	font  string
	color int
	bold  bool
}

// spanBuilder assigns page, paragraph, line and span indices as runs of text
// arrive in reading order. Paragraph and line ids are global across pages.
type spanBuilder struct {
	spans     []doctree.Span
	page      int
	paragraph int
	line      int
	lineUsed  bool
	paraUsed  bool
}

// add appends a run. Whitespace-only runs are dropped, and a run continuing
// the previous span's line with an identical style is merged into it.
func (b *spanBuilder) add(text string, st runStyle, box doctree.BBox) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if n := len(b.spans); n > 0 && b.lineUsed {
		last := &b.spans[n-1]
		if last.Line == b.line && sameStyle(last.Style, st) {
			last.Text += text
			last.Style = doctree.NewStyle(st.size, st.font, st.color, st.bold, last.Text)
			last.BBox = union(last.BBox, box)
			return
		}
	}
	b.spans = append(b.spans, doctree.Span{
		Page:      b.page,
		Paragraph: b.paragraph,
		Line:      b.line,
		Index:     len(b.spans),
		BBox:      box,
		Text:      text,
		Style:     doctree.NewStyle(st.size, st.font, st.color, st.bold, text),
	})
	b.lineUsed = true
	b.paraUsed = true
}

// space separates the next run from the current line's last span.
func (b *spanBuilder) space() {
	if !b.lineUsed {
		return
	}
	last := &b.spans[len(b.spans)-1]
	if !strings.HasSuffix(last.Text, " ") {
		last.Text += " "
	}
}

func (b *spanBuilder) endLine() {
	if b.lineUsed {
		last := &b.spans[len(b.spans)-1]
		last.Text = strings.TrimRight(last.Text, " ")
		b.line++
		b.lineUsed = false
	}
}

func (b *spanBuilder) endParagraph() {
	b.endLine()
	if b.paraUsed {
		b.paragraph++
		b.paraUsed = false
	}
}

func (b *spanBuilder) endPage() {
	b.endParagraph()
	b.page++
}

// addPlainText adds blank-line separated paragraphs, one span per line.
func (b *spanBuilder) addPlainText(text string, st runStyle) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			b.endParagraph()
			continue
		}
		b.add(line, st, doctree.BBox{})
		b.endLine()
	}
	b.endParagraph()
}

func sameStyle(s *doctree.Style, st runStyle) bool {
	return s.Size == st.size && s.Font == st.font && s.Color == st.color &&
		s.Bold == (st.bold || doctree.IsBoldFont(st.font))
}

func union(a, b doctree.BBox) doctree.BBox {
	if a == (doctree.BBox{}) {
		return b
	}
	if b == (doctree.BBox{}) {
		return a
	}
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1 := max(a.X+a.Width, b.X+b.Width)
	y1 := max(a.Y+a.Height, b.Y+b.Height)
	return doctree.BBox{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
