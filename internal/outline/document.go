// Package outline infers a document's hierarchy from its styled spans.
package outline

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/hierarchy"
	"github.com/dgallion1/docstruct/internal/registry"
	"github.com/dgallion1/docstruct/internal/scoring"
)

var (
	// ErrMissingStyle is returned for a span that carries no style.
	ErrMissingStyle = errors.New("span has no style")
	// ErrSpanOrder is returned when a span's index is not its position.
	ErrSpanOrder = errors.New("span out of document order")
	// ErrStyleSize is returned for a style whose size is NaN or infinite.
	ErrStyleSize = errors.New("style size is not finite")
)

// Document is a fully structured document. It is immutable once loaded.
type Document struct {
	*doctree.Tree

	registry *registry.Registry
	weights  scoring.Weights
	levels   int
}

// Load interns styles, scores them, assigns levels and builds the tree.
// The caller's spans are copied; their candidate styles are never modified.
func Load(spans []doctree.Span, w scoring.Weights) (*Document, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	reg := registry.New()
	owned := make([]doctree.Span, len(spans))
	for i, sp := range spans {
		if sp.Index != i {
			return nil, fmt.Errorf("span at position %d has index %d: %w", i, sp.Index, ErrSpanOrder)
		}
		if sp.Style == nil {
			return nil, fmt.Errorf("span %d: %w", i, ErrMissingStyle)
		}
		if size := sp.Style.Size; math.IsNaN(size) || math.IsInf(size, 0) {
			return nil, fmt.Errorf("span %d: %w: %g", i, ErrStyleSize, size)
		}
		sp.Style = reg.Intern(*sp.Style)
		reg.AddChars(sp.Style, utf8.RuneCountInString(sp.Text))
		owned[i] = sp
	}

	scoring.Score(reg, w)
	levels := scoring.AssignLevels(reg.Styles())

	scores := make([]float64, len(owned))
	for i, sp := range owned {
		scores[i] = sp.Style.Score
	}

	return &Document{
		Tree:     doctree.New(owned, hierarchy.Build(scores)),
		registry: reg,
		weights:  w,
		levels:   levels,
	}, nil
}

// Styles returns copies of the distinct styles in first-seen order.
func (d *Document) Styles() []*doctree.Style {
	styles := d.registry.Styles()
	out := make([]*doctree.Style, len(styles))
	for i, s := range styles {
		c := *s
		out[i] = &c
	}
	return out
}

// TotalChars is the number of characters across all spans.
func (d *Document) TotalChars() int {
	return d.registry.TotalChars()
}

// Levels is the number of distinct levels.
func (d *Document) Levels() int {
	return d.levels
}

func (d *Document) Weights() scoring.Weights {
	return d.weights
}

// Score returns the score of span i's style.
func (d *Document) Score(i int) float64 {
	return d.Span(i).Style.Score
}

// Level returns the level of span i's style.
func (d *Document) Level(i int) int {
	return d.Span(i).Style.Level
}
