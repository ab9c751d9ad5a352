// Package hierarchy reconstructs a forest from scores in document order.
//
// A span's parent is the nearest preceding span with a strictly greater
// score; spans without one are roots. Equal scores never nest.
package hierarchy

// Forest is the parent/child structure over span indices.
type Forest struct {
	Roots    []int
	Children [][]int // indexed by span; each list in increasing span order
	Parents  []int   // -1 for roots
}

func newForest(n int) Forest {
	return Forest{
		Children: make([][]int, n),
		Parents:  make([]int, n),
	}
}

func (f *Forest) attach(parent, child int) {
	f.Parents[child] = parent
	if parent < 0 {
		f.Roots = append(f.Roots, child)
		return
	}
	f.Children[parent] = append(f.Children[parent], child)
}

type entry struct {
	score float64
	index int
}

// Build computes the forest in O(n) with a stack of strictly decreasing
// scores.
func Build(scores []float64) Forest {
	f := newForest(len(scores))
	stack := make([]entry, 0, 16)
	for i, s := range scores {
		for len(stack) > 0 && stack[len(stack)-1].score <= s {
			stack = stack[:len(stack)-1]
		}
		parent := -1
		if len(stack) > 0 {
			parent = stack[len(stack)-1].index
		}
		f.attach(parent, i)
		stack = append(stack, entry{score: s, index: i})
	}
	return f
}

// BuildNaive scans backwards from every span. It is quadratic and kept as the
// reference the stack formulation is checked against.
func BuildNaive(scores []float64) Forest {
	f := newForest(len(scores))
	for i, s := range scores {
		parent := -1
		for j := i - 1; j >= 0; j-- {
			if scores[j] > s {
				parent = j
				break
			}
		}
		f.attach(parent, i)
	}
	return f
}
