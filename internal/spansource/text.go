package spansource

import (
	"bufio"
	"io"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// TextSource handles plain text files. Blank lines separate paragraphs and
// every non-blank line becomes one span in a single uniform style.
type TextSource struct{}

func (p *TextSource) Spans(r io.Reader, filename string) ([]doctree.Span, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b spanBuilder
	st := runStyle{size: plainSize}
	for scanner.Scan() {
		line := scanner.Text()
		if isBlank(line) {
			b.endParagraph()
			continue
		}
		b.add(line, st, doctree.BBox{})
		b.endLine()
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	b.endParagraph()
	return b.spans, nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}
