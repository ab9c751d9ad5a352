package spansource

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/fumiama/go-docx"
)

// docxDefaultSize is Word's default body size in points.
const docxDefaultSize = 11

// DOCXSource handles .docx files. Run properties supply the style; a
// paragraph's heading style supplies the size when its runs carry none.
type DOCXSource struct{}

func (p *DOCXSource) Spans(r io.Reader, filename string) ([]doctree.Span, error) {
	// go-docx needs a ReaderAt+size, so write to temp file.
	tmp, err := os.CreateTemp("", "docstruct-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var b spanBuilder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		base := runStyle{size: docxDefaultSize}
		if level := docxHeadingLevel(para); level > 0 {
			base.size = headingSizes[level]
			base.bold = level <= 2
		}
		for _, child := range para.Children {
			switch c := child.(type) {
			case *docx.Run:
				addDocxRun(&b, c, base)
			case *docx.Hyperlink:
				addDocxRun(&b, &c.Run, base)
			}
		}
		b.endParagraph()
	}
	return b.spans, nil
}

func addDocxRun(b *spanBuilder, run *docx.Run, base runStyle) {
	st := docxRunStyle(run.RunProperties, base)
	for _, rc := range run.Children {
		if t, ok := rc.(*docx.Text); ok {
			b.add(t.Text, st, doctree.BBox{})
		}
	}
}

func docxRunStyle(props *docx.RunProperties, base runStyle) runStyle {
	st := base
	if props == nil {
		return st
	}
	if props.Size != nil {
		// w:sz is in half-points.
		if hp, err := strconv.Atoi(props.Size.Val); err == nil && hp > 0 {
			st.size = float64(hp) / 2
		}
	}
	if props.Fonts != nil {
		switch {
		case props.Fonts.ASCII != "":
			st.font = props.Fonts.ASCII
		case props.Fonts.HAnsi != "":
			st.font = props.Fonts.HAnsi
		}
	}
	if props.Color != nil {
		st.color = parseColor(props.Color.Val)
	}
	if props.Bold != nil {
		st.bold = true
	}
	return st
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	switch style {
	case "title":
		return 1
	case "heading1", "heading2", "heading3", "heading4", "heading5", "heading6":
		return int(style[len(style)-1] - '0')
	}
	return 0
}
