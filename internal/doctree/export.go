package doctree

// Node is the nested serialization of one span and its descendants.
type Node struct {
	Index    int     `json:"id" yaml:"id"`
	Page     int     `json:"page" yaml:"page"`
	Size     float64 `json:"size" yaml:"size"`
	Font     string  `json:"font" yaml:"font"`
	Color    int     `json:"color" yaml:"color"`
	Bold     bool    `json:"bold" yaml:"bold"`
	Level    int     `json:"level" yaml:"level"`
	Score    float64 `json:"score" yaml:"score"`
	Text     string  `json:"text" yaml:"text"`
	Children []*Node `json:"children" yaml:"children"`
}

// Nodes returns the nested serialization of every node, keyed by span index.
// Nodes share their children, so the map describes the whole forest.
func (t *Tree) Nodes() map[int]*Node {
	nodes := make(map[int]*Node, len(t.spans))
	for i, sp := range t.spans {
		n := &Node{
			Index:    i,
			Page:     sp.Page,
			Text:     sp.Text,
			Children: []*Node{},
		}
		if st := sp.Style; st != nil {
			n.Size = st.Size
			n.Font = st.Font
			n.Color = st.Color
			n.Bold = st.Bold
			n.Level = st.Level
			n.Score = st.Score
		}
		nodes[i] = n
	}
	for i := range t.spans {
		for _, c := range t.forest.Children[i] {
			nodes[i].Children = append(nodes[i].Children, nodes[c])
		}
	}
	return nodes
}

// Export returns the nested serialization of the root nodes.
func (t *Tree) Export() []*Node {
	nodes := t.Nodes()
	roots := make([]*Node, 0, len(t.forest.Roots))
	for _, r := range t.forest.Roots {
		roots = append(roots, nodes[r])
	}
	return roots
}
