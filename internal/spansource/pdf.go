package spansource

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// plainSize is the style given to text that carries no typography, such as
// pdftotext output.
const plainSize = 10

// PDFSource handles PDF files. It reads glyph runs with the Go library first,
// then falls back to pdftotext if available.
type PDFSource struct {
	FallbackPdftotext bool
}

func (p *PDFSource) Spans(r io.Reader, filename string) ([]doctree.Span, error) {
	// ledongthuc/pdf requires a ReaderAt+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docstruct-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	spans, err := extractPDFSpans(tmpPath)
	if (err != nil || len(spans) == 0) && p.FallbackPdftotext {
		if fb, ferr := extractPdftotext(tmpPath); ferr == nil {
			return fb, nil
		} else if err == nil {
			err = ferr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf spans: %w", err)
	}
	return spans, nil
}

func extractPDFSpans(path string) ([]doctree.Span, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var b spanBuilder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			b.endPage()
			continue
		}
		glyphs, err := pageGlyphs(page)
		if err != nil {
			b.endPage()
			continue
		}
		addGlyphs(&b, glyphs)
		b.endPage()
	}
	return b.spans, nil
}

// pageGlyphs recovers from the panics the pdf library raises on malformed
// content streams.
func pageGlyphs(page pdflib.Page) (glyphs []pdflib.Text, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("read page content: %v", rec)
		}
	}()
	return page.Content().Text, nil
}

// addGlyphs groups glyphs into lines by baseline and into paragraphs by
// vertical gap, joining words separated by a horizontal gap.
func addGlyphs(b *spanBuilder, glyphs []pdflib.Text) {
	var prev *pdflib.Text
	spaced := false
	for i := range glyphs {
		g := &glyphs[i]
		if g.S == "" {
			continue
		}
		if strings.TrimSpace(g.S) == "" {
			b.space()
			spaced = true
			continue
		}
		text := g.S
		if prev != nil {
			dy := math.Abs(g.Y - prev.Y)
			size := math.Max(g.FontSize, prev.FontSize)
			switch {
			case dy > 1.5*size:
				b.endParagraph()
			case dy > 0.5*size:
				b.endLine()
			default:
				gap := g.X - (prev.X + prev.W)
				if gap > 0.3*g.FontSize && !spaced && !strings.HasPrefix(text, " ") {
					text = " " + text
				}
			}
		}
		st := runStyle{size: round2(g.FontSize), font: baseFont(g.Font)}
		b.add(text, st, doctree.BBox{X: g.X, Y: g.Y, Width: g.W, Height: g.FontSize})
		prev = g
		spaced = false
	}
}

// baseFont drops the six-letter subset tag embedded fonts carry, as in
// "ABCDEF+Helvetica-Bold".
func baseFont(name string) string {
	if i := strings.IndexByte(name, '+'); i == 6 {
		return name[i+1:]
	}
	return name
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func extractPdftotext(path string) ([]doctree.Span, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	var b spanBuilder
	for _, page := range splitPages(string(out)) {
		b.addPlainText(page, runStyle{size: plainSize})
		b.endPage()
	}
	return b.spans, nil
}

func splitPages(text string) []string {
	return strings.Split(text, "\f")
}
