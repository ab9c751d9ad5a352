package spansource

import (
	"io"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// headingSizes maps h1..h6 to the point sizes a browser would typically use.
var headingSizes = [7]float64{plainSize, 24, 20, 16, 14, 12, 11}

const monospace = "monospace"

// MarkdownSource handles Markdown files using goldmark. Headings get larger
// synthetic sizes, strong emphasis is bold and code is monospace.
type MarkdownSource struct{}

func (p *MarkdownSource) Spans(r io.Reader, filename string) ([]doctree.Span, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var (
		b       spanBuilder
		heading int
		strong  int
		code    int
	)
	style := func() runStyle {
		st := runStyle{size: headingSizes[heading]}
		if strong > 0 {
			st.bold = true
		}
		if code > 0 {
			st.font = monospace
		}
		return st
	}

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				b.endParagraph()
				heading = min(max(node.Level, 1), 6)
			} else {
				heading = 0
				b.endParagraph()
			}
		case *ast.Paragraph, *ast.TextBlock:
			if !entering {
				b.endParagraph()
			}
		case *ast.Emphasis:
			if node.Level >= 2 {
				if entering {
					strong++
				} else {
					strong--
				}
			}
		case *ast.CodeSpan:
			if entering {
				code++
			} else {
				code--
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				b.endParagraph()
				code++
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					line := strings.TrimRight(string(seg.Value(src)), "\r\n")
					b.add(line, style(), doctree.BBox{})
					b.endLine()
				}
				code--
				b.endParagraph()
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.String:
			if entering {
				b.add(string(node.Value), style(), doctree.BBox{})
			}
		case *ast.Text:
			if entering {
				t := string(node.Segment.Value(src))
				if node.SoftLineBreak() {
					t += " "
				}
				b.add(t, style(), doctree.BBox{})
				if node.HardLineBreak() {
					b.endLine()
				}
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	b.endParagraph()
	return b.spans, nil
}
