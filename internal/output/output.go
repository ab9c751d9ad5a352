// Package output renders structured documents for the CLI and the API.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docstruct/internal/chunker"
	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/outline"
	"github.com/dgallion1/docstruct/internal/scoring"
)

// Format selects both the view of a document and its encoding.
type Format string

const (
	FormatText    Format = "text"    // indented rendering
	FormatJSON    Format = "json"    // full nested export
	FormatYAML    Format = "yaml"    // full nested export
	FormatSummary Format = "summary" // page, paragraph and level statistics
	FormatWalk    Format = "walk"    // pre-order span indices
	FormatLevels  Format = "levels"  // per-style score and level
	FormatChunks  Format = "chunks"  // breadcrumbed text chunks
)

var formats = []Format{FormatText, FormatJSON, FormatYAML, FormatSummary, FormatWalk, FormatLevels, FormatChunks}

// ParseFormat accepts a format name, case-insensitively. Empty means json.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatJSON, nil
	}
	f := Format(strings.ToLower(s))
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// ContentType is the HTTP media type of a rendered format.
func (f Format) ContentType() string {
	switch f {
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Outline is the full serialization of a structured document.
type Outline struct {
	Roots   []int           `json:"roots" yaml:"roots"`
	Levels  int             `json:"levels" yaml:"levels"`
	Weights scoring.Weights `json:"weights" yaml:"weights"`
	Summary doctree.Summary `json:"summary" yaml:"summary"`
	Nodes   []*doctree.Node `json:"nodes" yaml:"nodes"`
}

// NewOutline collects the serialization of doc.
func NewOutline(doc *outline.Document) Outline {
	roots := doc.Roots()
	if roots == nil {
		roots = []int{}
	}
	nodes := doc.Export()
	if nodes == nil {
		nodes = []*doctree.Node{}
	}
	return Outline{
		Roots:   roots,
		Levels:  doc.Levels(),
		Weights: doc.Weights(),
		Summary: doc.Summary(),
		Nodes:   nodes,
	}
}

// Document writes doc in format f. Chunking uses cfg.
func Document(w io.Writer, doc *outline.Document, f Format, cfg chunker.Config) error {
	switch f {
	case FormatText:
		if doc.Len() == 0 {
			return nil
		}
		if err := doc.Render(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	case FormatJSON, FormatYAML:
		return Encode(w, f, NewOutline(doc))
	case FormatSummary:
		return Encode(w, FormatJSON, doc.Summary())
	case FormatWalk:
		return Encode(w, FormatJSON, map[string][]int{"walk": doc.Walk()})
	case FormatLevels:
		styles := doc.Styles()
		if styles == nil {
			styles = []*doctree.Style{}
		}
		return Encode(w, FormatJSON, map[string][]*doctree.Style{"styles": styles})
	case FormatChunks:
		chunks := chunker.ChunkTree(doc.Tree, cfg)
		if chunks == nil {
			chunks = []doctree.Chunk{}
		}
		return Encode(w, FormatJSON, map[string][]doctree.Chunk{"chunks": chunks})
	default:
		return fmt.Errorf("unknown output format: %s", f)
	}
}

// Encode writes data as indented JSON or YAML.
func Encode(w io.Writer, f Format, data any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown encoding: %s", f)
	}
}
