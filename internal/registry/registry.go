package registry

import "github.com/dgallion1/docstruct/internal/doctree"

// Registry interns styles by their visual identity and accumulates the
// number of characters rendered in each one.
type Registry struct {
	byKey  map[doctree.StyleKey]*doctree.Style
	styles []*doctree.Style // insertion order
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byKey: make(map[doctree.StyleKey]*doctree.Style)}
}

// Intern returns the canonical instance equal to candidate under the identity
// key, registering a copy of candidate if none exists yet. The first observed
// Upper flag wins.
func (r *Registry) Intern(candidate doctree.Style) *doctree.Style {
	key := candidate.Key()
	if s, ok := r.byKey[key]; ok {
		return s
	}
	s := &doctree.Style{
		Size:  candidate.Size,
		Font:  candidate.Font,
		Color: candidate.Color,
		Bold:  candidate.Bold,
		Upper: candidate.Upper,
	}
	r.byKey[key] = s
	r.styles = append(r.styles, s)
	return s
}

// AddChars increments the character count of a registered style.
func (r *Registry) AddChars(s *doctree.Style, n int) {
	s.NumChar += n
}

// TotalChars returns the sum of NumChar over all registered styles.
func (r *Registry) TotalChars() int {
	total := 0
	for _, s := range r.styles {
		total += s.NumChar
	}
	return total
}

// Styles returns the registered styles in first-seen order. Scoring sets
// Score and Level through these pointers.
func (r *Registry) Styles() []*doctree.Style {
	return r.styles
}

// Len returns the number of distinct styles.
func (r *Registry) Len() int {
	return len(r.styles)
}
