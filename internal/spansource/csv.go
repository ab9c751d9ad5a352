package spansource

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// CSVSource handles CSV files. The header row becomes one bold span and
// every data row becomes a regular span in the same paragraph.
type CSVSource struct{}

func (p *CSVSource) Spans(r io.Reader, filename string) ([]doctree.Span, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var b spanBuilder
	if len(records) == 0 {
		return b.spans, nil
	}

	headers := records[0]
	b.add(strings.Join(headers, ", "), runStyle{size: plainSize, bold: true}, doctree.BBox{})
	b.endLine()

	for _, row := range records[1:] {
		var text strings.Builder
		for j, cell := range row {
			if j < len(headers) {
				text.WriteString(headers[j] + ": " + cell)
			} else {
				text.WriteString(cell)
			}
			if j < len(row)-1 {
				text.WriteString(", ")
			}
		}
		b.add(text.String(), runStyle{size: plainSize}, doctree.BBox{})
		b.endLine()
	}
	b.endParagraph()
	return b.spans, nil
}
