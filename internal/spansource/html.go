package spansource

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLSource handles HTML files. Style comes from the element context:
// headings get synthetic sizes, b/strong/th are bold, code is monospace,
// and inline CSS color, font-weight and font-size are honored.
type HTMLSource struct{}

func (p *HTMLSource) Spans(r io.Reader, filename string) ([]doctree.Span, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var b spanBuilder
	root := findBody(doc)
	if root == nil {
		root = doc
	}
	walkHTML(&b, root, runStyle{size: plainSize}, false)
	b.endParagraph()
	return b.spans, nil
}

func walkHTML(b *spanBuilder, n *html.Node, st runStyle, pre bool) {
	switch n.Type {
	case html.TextNode:
		addHTMLText(b, n.Data, st, pre)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "nav", "footer", "header", "head", "noscript", "template":
			return
		case "br":
			b.endLine()
			return
		}
		st, pre = elementStyle(n, st, pre)
	}

	block := n.Type == html.ElementNode && isBlockElement(n.Data)
	if block {
		b.endParagraph()
	} else if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
		b.space()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(b, c, st, pre)
	}
	if block {
		b.endParagraph()
	} else if n.Type == html.ElementNode && (n.Data == "tr" || n.Data == "li") {
		b.endLine()
	}
}

func addHTMLText(b *spanBuilder, data string, st runStyle, pre bool) {
	if pre {
		lines := strings.Split(data, "\n")
		for i, line := range lines {
			if i > 0 {
				b.endLine()
			}
			b.add(strings.TrimRight(line, "\r"), st, doctree.BBox{})
		}
		return
	}
	t := collapseSpace(data)
	if b.lineUsed || strings.TrimSpace(t) == "" {
		b.add(t, st, doctree.BBox{})
		return
	}
	b.add(strings.TrimLeft(t, " "), st, doctree.BBox{})
}

// collapseSpace folds whitespace runs to a single space the way a browser
// renders normal text.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	out := strings.Join(fields, " ")
	if isHTMLSpace(s[0]) {
		out = " " + out
	}
	if isHTMLSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isHTMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func elementStyle(n *html.Node, st runStyle, pre bool) (runStyle, bool) {
	if level := headingLevel(n.Data); level > 0 {
		st.size = headingSizes[level]
	}
	switch n.Data {
	case "b", "strong", "th":
		st.bold = true
	case "code", "tt", "kbd", "samp":
		st.font = monospace
	case "pre":
		st.font = monospace
		pre = true
	}
	for _, a := range n.Attr {
		switch a.Key {
		case "color":
			if n.Data == "font" {
				st.color = parseColor(a.Val)
			}
		case "style":
			st = applyInlineCSS(a.Val, st)
		}
	}
	return st, pre
}

// applyInlineCSS reads the declarations of a style attribute that affect
// span style.
func applyInlineCSS(decls string, st runStyle) runStyle {
	for _, decl := range strings.Split(decls, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(val))
		switch prop {
		case "color":
			st.color = parseColor(val)
		case "font-weight":
			if val == "bold" || val == "bolder" {
				st.bold = true
			} else if w, err := strconv.Atoi(val); err == nil {
				st.bold = w >= 600
			} else if val == "normal" {
				st.bold = false
			}
		case "font-size":
			if size, ok := cssSize(val); ok {
				st.size = size
			}
		case "font-family":
			fam, _, _ := strings.Cut(val, ",")
			st.font = strings.Trim(strings.TrimSpace(fam), `"'`)
		}
	}
	return st
}

// cssSize converts a px or pt length to points.
func cssSize(val string) (float64, bool) {
	unit := 1.0
	switch {
	case strings.HasSuffix(val, "pt"):
		val = strings.TrimSuffix(val, "pt")
	case strings.HasSuffix(val, "px"):
		val = strings.TrimSuffix(val, "px")
		unit = 0.75
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return round2(v * unit), true
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre",
		"ul", "ol", "table", "section", "article", "main", "aside", "dl", "dd", "dt",
		"figure", "figcaption", "hr", "address", "body":
		return true
	}
	return false
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
