// Package doctree holds the span/style data model and the read-only tree
// built over a document's spans.
package doctree

import (
	"io"
	"slices"
	"strings"

	"github.com/dgallion1/docstruct/internal/hierarchy"
)

// Tree is a read-only view over a span forest.
type Tree struct {
	spans  []Span
	forest hierarchy.Forest
	depth  []int
}

// New wraps spans and the forest built over them. Parents always precede
// their children, so depths resolve in a single forward pass.
func New(spans []Span, forest hierarchy.Forest) *Tree {
	depth := make([]int, len(spans))
	for i := range spans {
		if p := forest.Parents[i]; p >= 0 {
			depth[i] = depth[p] + 1
		}
	}
	return &Tree{spans: spans, forest: forest, depth: depth}
}

func (t *Tree) Len() int { return len(t.spans) }

// Span returns span i. Its Style is shared with every span of that style and
// must not be modified.
func (t *Tree) Span(i int) Span { return t.spans[i] }

// Roots returns a copy of the root indices in document order.
func (t *Tree) Roots() []int { return slices.Clone(t.forest.Roots) }

// Children returns a copy of the children of node i in document order.
func (t *Tree) Children(i int) []int { return slices.Clone(t.forest.Children[i]) }

// Parent returns the parent of node i, or -1 for a root.
func (t *Tree) Parent(i int) int { return t.forest.Parents[i] }

func (t *Tree) IsLeaf(i int) bool { return len(t.forest.Children[i]) == 0 }

func (t *Tree) Depth(i int) int { return t.depth[i] }

// Walk returns every node in depth-first pre-order.
func (t *Tree) Walk() []int {
	out := make([]int, 0, len(t.spans))
	stack := pushReversed(nil, t.forest.Roots)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		stack = pushReversed(stack, t.forest.Children[n])
	}
	return out
}

func pushReversed(stack, nodes []int) []int {
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}
	return stack
}

// Render writes one line per node, indented two spaces per depth level.
func (t *Tree) Render(w io.Writer) error {
	for i, n := range t.Walk() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		line := strings.Repeat("  ", t.depth[n]) + t.spans[n].Text
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) String() string {
	var sb strings.Builder
	t.Render(&sb)
	return sb.String()
}

// Breadcrumb returns the texts of node i's ancestors, outermost first.
func (t *Tree) Breadcrumb(i int) []string {
	var bc []string
	for p := t.forest.Parents[i]; p >= 0; p = t.forest.Parents[p] {
		bc = append(bc, t.spans[p].Text)
	}
	for l, r := 0, len(bc)-1; l < r; l, r = l+1, r-1 {
		bc[l], bc[r] = bc[r], bc[l]
	}
	return bc
}
