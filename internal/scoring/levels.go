package scoring

import (
	"slices"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// AssignLevels ranks the distinct scores in descending order and sets each
// style's Level to the rank of its score. Ties share a level.
// It returns the number of distinct levels.
func AssignLevels(styles []*doctree.Style) int {
	seen := make(map[float64]bool, len(styles))
	var distinct []float64
	for _, s := range styles {
		if !seen[s.Score] {
			seen[s.Score] = true
			distinct = append(distinct, s.Score)
		}
	}
	slices.Sort(distinct)
	slices.Reverse(distinct)

	rank := make(map[float64]int, len(distinct))
	for i, v := range distinct {
		rank[v] = i
	}
	for _, s := range styles {
		s.Level = rank[s.Score]
	}
	return len(distinct)
}
