package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/hierarchy"
)

type node struct {
	text      string
	score     float64
	page      int
	paragraph int
	line      int
}

// buildTree lays out spans in order and nests them by score.
func buildTree(nodes ...node) *doctree.Tree {
	spans := make([]doctree.Span, len(nodes))
	scores := make([]float64, len(nodes))
	for i, n := range nodes {
		spans[i] = doctree.Span{
			Page:      n.page,
			Paragraph: n.paragraph,
			Line:      n.line,
			Index:     i,
			Text:      n.text,
			Style:     &doctree.Style{Score: n.score},
		}
		scores[i] = n.score
	}
	return doctree.New(spans, hierarchy.Build(scores))
}

func TestChunkTree_SmallTreeFitsOneChunk(t *testing.T) {
	tree := buildTree(
		node{text: "Section", score: 2},
		node{text: strings.Repeat("word ", 200), score: 1, paragraph: 1, line: 1},
	)

	cfg := Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     50,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if !strings.Contains(chunks[0].Text, "word") {
		t.Errorf("expected chunk text to contain 'word', got %q", chunks[0].Text)
	}
}

func TestChunkTree_LargeTreeRequiresSplitting(t *testing.T) {
	// ~3000 words -> ~3990 tokens at 1.33 tokens/word.
	largeText := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)

	tree := buildTree(
		node{text: "Big Section", score: 2},
		node{text: largeText, score: 1, paragraph: 1, line: 1},
	)

	cfg := Config{
		ChunkSize:    500,
		ChunkOverlap: 50,
		MinChunk:     10,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for large text, got %d", len(chunks))
	}

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		// Sentence boundaries allow slight overflows; 2x is a generous ceiling.
		if tokens := EstimateTokens(c.Text); tokens > cfg.ChunkSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, tokens, cfg.ChunkSize)
		}
		if len(c.Breadcrumb) != 1 || c.Breadcrumb[0] != "Big Section" {
			t.Errorf("chunk %d: expected breadcrumb [Big Section], got %v", i, c.Breadcrumb)
		}
	}
}

func TestChunkTree_BreadcrumbPropagation(t *testing.T) {
	tree := buildTree(
		node{text: "Chapter 1", score: 3},
		node{text: "Section 1.1", score: 2, paragraph: 1, line: 1},
		node{text: strings.Repeat("content ", 200), score: 1, paragraph: 2, line: 2},
	)

	chunks := ChunkTree(tree, Config{ChunkSize: 2000, ChunkOverlap: 100, MinChunk: 10})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	bc := chunks[0].Breadcrumb
	want := []string{"Chapter 1", "Section 1.1"}
	if len(bc) != len(want) {
		t.Fatalf("expected breadcrumb %v, got %v", want, bc)
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Errorf("breadcrumb[%d]: expected %q, got %q", i, want[i], bc[i])
		}
	}
}

func TestChunkTree_BreadcrumbIsolation(t *testing.T) {
	// Breadcrumbs from sibling sections must not leak into each other.
	tree := buildTree(
		node{text: "A", score: 2},
		node{text: strings.Repeat("alpha ", 200), score: 1, paragraph: 1, line: 1},
		node{text: "B", score: 2, paragraph: 2, line: 2},
		node{text: strings.Repeat("beta ", 200), score: 1, paragraph: 3, line: 3},
	)

	chunks := ChunkTree(tree, Config{ChunkSize: 2000, ChunkOverlap: 100, MinChunk: 10})

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Breadcrumb) != 1 || chunks[0].Breadcrumb[0] != "A" {
		t.Errorf("chunk 0 breadcrumb: expected [A], got %v", chunks[0].Breadcrumb)
	}
	if len(chunks[1].Breadcrumb) != 1 || chunks[1].Breadcrumb[0] != "B" {
		t.Errorf("chunk 1 breadcrumb: expected [B], got %v", chunks[1].Breadcrumb)
	}
}

func TestChunkTree_JoinsSiblingLeaves(t *testing.T) {
	tree := buildTree(
		node{text: "Heading", score: 2},
		node{text: "first line", score: 1, page: 0, paragraph: 1, line: 1},
		node{text: "second line", score: 1, page: 0, paragraph: 1, line: 2},
		node{text: "next paragraph", score: 1, page: 1, paragraph: 2, line: 3},
	)

	chunks := ChunkTree(tree, DefaultConfig())

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	want := "first line\nsecond line\n\nnext paragraph"
	if chunks[0].Text != want {
		t.Errorf("expected %q, got %q", want, chunks[0].Text)
	}
	if chunks[0].PageStart != 0 || chunks[0].PageEnd != 1 {
		t.Errorf("expected pages 0-1, got %d-%d", chunks[0].PageStart, chunks[0].PageEnd)
	}
}

func TestChunkTree_RootLeafHasNoBreadcrumb(t *testing.T) {
	tree := buildTree(node{text: "lonely text", score: 1})

	chunks := ChunkTree(tree, DefaultConfig())

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Breadcrumb != nil {
		t.Errorf("expected nil breadcrumb, got %v", chunks[0].Breadcrumb)
	}
}

func TestChunkTree_MinChunkFiltering(t *testing.T) {
	tree := buildTree(
		node{text: "Short", score: 2},
		node{text: "Hi", score: 1, paragraph: 1, line: 1},
	)

	chunks := ChunkTree(tree, Config{ChunkSize: 1500, ChunkOverlap: 200, MinChunk: 100})

	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks (below MinChunk), got %d", len(chunks))
	}
}

func TestChunkTree_EmptyTree(t *testing.T) {
	chunks := ChunkTree(buildTree(), DefaultConfig())
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestChunkTree_DefaultConfigFallback(t *testing.T) {
	// Zero-value config should be replaced with defaults.
	tree := buildTree(node{text: strings.Repeat("word ", 200), score: 1})
	chunks := ChunkTree(tree, Config{})
	if len(chunks) < 1 {
		t.Errorf("expected at least 1 chunk with zero config (defaults applied), got %d", len(chunks))
	}
}

func TestChunkTree_ContainerWithoutBody(t *testing.T) {
	// Container has no leaf of its own, only a nested section.
	tree := buildTree(
		node{text: "Container", score: 3},
		node{text: "Leaf", score: 2, paragraph: 1, line: 1},
		node{text: strings.Repeat("leaf content ", 100), score: 1, paragraph: 2, line: 2},
	)

	chunks := ChunkTree(tree, Config{ChunkSize: 2000, ChunkOverlap: 100, MinChunk: 10})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	want := []string{"Container", "Leaf"}
	bc := chunks[0].Breadcrumb
	if len(bc) != len(want) {
		t.Fatalf("expected breadcrumb %v, got %v", want, bc)
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Errorf("breadcrumb[%d]: expected %q, got %q", i, want[i], bc[i])
		}
	}
}

func TestChunkTree_ZeroOverlap(t *testing.T) {
	largeText := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)
	tree := buildTree(
		node{text: "Big Section", score: 2},
		node{text: largeText, score: 1, paragraph: 1, line: 1},
	)

	chunks := ChunkTree(tree, Config{ChunkSize: 500, ChunkOverlap: 0, MinChunk: 10})
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	// Without overlap every chunk starts on a sentence boundary.
	for i, c := range chunks {
		if !strings.HasPrefix(c.Text, "The quick") {
			t.Errorf("chunk %d: expected no carried-over overlap, got prefix %q", i, c.Text[:20])
		}
	}
}
