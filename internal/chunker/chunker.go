package chunker

import (
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     1,
	}
}

// section is a run of sibling leaves sharing one parent heading.
type section struct {
	parent    int
	text      strings.Builder
	pageStart int
	pageEnd   int
	last      doctree.Span
}

// ChunkTree walks an outline and produces structure-aware chunks. Body text
// is gathered from consecutive sibling leaves; the headings above them form
// the breadcrumb.
func ChunkTree(tree *doctree.Tree, cfg Config) []doctree.Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 1
	}

	var chunks []doctree.Chunk
	var cur *section
	flush := func() {
		if cur == nil {
			return
		}
		var bc []string
		if cur.parent >= 0 {
			bc = append(tree.Breadcrumb(cur.parent), tree.Span(cur.parent).Text)
		}
		chunks = emit(chunks, cur, bc, cfg)
		cur = nil
	}

	for _, i := range tree.Walk() {
		if !tree.IsLeaf(i) {
			continue
		}
		span := tree.Span(i)
		if cur != nil && cur.parent != tree.Parent(i) {
			flush()
		}
		if cur == nil {
			cur = &section{parent: tree.Parent(i), pageStart: span.Page, pageEnd: span.Page}
		} else {
			switch {
			case span.Paragraph != cur.last.Paragraph:
				cur.text.WriteString("\n\n")
			case span.Line != cur.last.Line:
				cur.text.WriteString("\n")
			}
		}
		cur.text.WriteString(span.Text)
		cur.pageStart = min(cur.pageStart, span.Page)
		cur.pageEnd = max(cur.pageEnd, span.Page)
		cur.last = span
	}
	flush()

	return chunks
}

// emit splits a section's text into chunks and appends them.
func emit(chunks []doctree.Chunk, sec *section, bc []string, cfg Config) []doctree.Chunk {
	text := strings.TrimSpace(sec.text.String())
	if text == "" {
		return chunks
	}

	parts := []string{text}
	if EstimateTokens(text) > cfg.ChunkSize {
		parts = splitText(text, cfg.ChunkSize, cfg.ChunkOverlap)
	}
	for _, part := range parts {
		if EstimateTokens(part) < cfg.MinChunk {
			continue
		}
		chunks = append(chunks, doctree.Chunk{
			Text:       part,
			Index:      len(chunks),
			Breadcrumb: copyBreadcrumb(bc),
			PageStart:  sec.pageStart,
			PageEnd:    sec.pageEnd,
		})
	}
	return chunks
}

// splitText breaks text into chunks of approximately targetTokens, with overlap.
func splitText(text string, targetTokens, overlapTokens int) []string {
	// Split by paragraphs first.
	paragraphs := splitByParagraphs(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := EstimateTokens(para)

		// If a single paragraph exceeds the target, split it further.
		if paraTokens > targetTokens {
			// Flush current buffer.
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			// Split the large paragraph by sentences.
			subParts := splitBySentences(para, targetTokens, overlapTokens)
			result = append(result, subParts...)
			continue
		}

		// Would adding this paragraph exceed the target?
		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())

			// Start next chunk with overlap from end of current.
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitByParagraphs splits on double-newlines.
func splitByParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-based chunks.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

// getOverlapText extracts the last N tokens worth of text for overlap.
func getOverlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	// Approximate: 1.33 tokens per word.
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
