package doctree

import "unicode/utf8"

// LevelShare is the share of characters rendered at one level.
type LevelShare struct {
	Level      int     `json:"level" yaml:"level"`
	Characters int     `json:"characters" yaml:"characters"`
	Percent    float64 `json:"percent" yaml:"percent"`
}

// Summary is a short statistical report about a document.
type Summary struct {
	Pages      int          `json:"pages" yaml:"pages"`
	Paragraphs int          `json:"paragraphs" yaml:"paragraphs"`
	Characters int          `json:"characters" yaml:"characters"`
	Levels     []LevelShare `json:"levels" yaml:"levels"`
}

// Summary counts pages, paragraphs and characters, and the percentage of
// characters at each level from 0 upward.
func (t *Tree) Summary() Summary {
	pages := make(map[int]bool)
	paragraphs := make(map[int]bool)
	byLevel := make(map[int]int)
	maxLevel := -1
	total := 0

	for _, sp := range t.spans {
		pages[sp.Page] = true
		paragraphs[sp.Paragraph] = true
		n := utf8.RuneCountInString(sp.Text)
		total += n
		if sp.Style == nil {
			continue
		}
		byLevel[sp.Style.Level] += n
		if sp.Style.Level > maxLevel {
			maxLevel = sp.Style.Level
		}
	}

	s := Summary{
		Pages:      len(pages),
		Paragraphs: len(paragraphs),
		Characters: total,
		Levels:     make([]LevelShare, 0, maxLevel+1),
	}
	for l := 0; l <= maxLevel; l++ {
		share := LevelShare{Level: l, Characters: byLevel[l]}
		if total > 0 {
			share.Percent = float64(byLevel[l]) * 100 / float64(total)
		}
		s.Levels = append(s.Levels, share)
	}
	return s
}
