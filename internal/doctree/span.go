package doctree

import (
	"strings"
	"unicode"
)

// BBox is a span's bounding geometry as reported by the span source.
type BBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"w" yaml:"w"`
	Height float64 `json:"h" yaml:"h"`
}

// Style is a visual identity class shared by one or more spans.
type Style struct {
	Size  float64 `json:"size" yaml:"size"`
	Font  string  `json:"font" yaml:"font"`
	Color int     `json:"color" yaml:"color"`
	Bold  bool    `json:"bold" yaml:"bold"`
	Upper bool    `json:"upper" yaml:"upper"`

	// Set during document loading.
	NumChar int     `json:"num_char" yaml:"num_char"`
	Score   float64 `json:"score" yaml:"score"`
	Level   int     `json:"level" yaml:"level"`
}

// StyleKey is the identity of a style. Upper is not part of it.
type StyleKey struct {
	Size  float64
	Font  string
	Color int
	Bold  bool
}

// Key returns the identity key of s.
func (s *Style) Key() StyleKey {
	return StyleKey{Size: s.Size, Font: s.Font, Color: s.Color, Bold: s.Bold}
}

// Span is one contiguous run of uniformly styled text.
type Span struct {
	Page      int    `json:"page_id"`
	Paragraph int    `json:"paragraph_id"`
	Line      int    `json:"line_id"`
	Index     int    `json:"span_id"`
	BBox      BBox   `json:"bbox"`
	Text      string `json:"text"`
	Style     *Style `json:"style"`
}

// NewStyle builds a candidate style for a run of text. Bold is set when the
// caller says so or when the font name mentions "bold".
func NewStyle(size float64, font string, color int, bold bool, text string) *Style {
	return &Style{
		Size:  size,
		Font:  font,
		Color: color,
		Bold:  bold || IsBoldFont(font),
		Upper: IsUpper(text),
	}
}

// IsBoldFont reports whether a font name contains "bold", ignoring case.
func IsBoldFont(font string) bool {
	return strings.Contains(strings.ToLower(font), "bold")
}

// IsUpper reports whether text is made only of letters (spaces ignored) and
// equals its upper-cased form.
func IsUpper(text string) bool {
	letters := strings.ReplaceAll(text, " ", "")
	if letters == "" {
		return false
	}
	for _, r := range letters {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return text == strings.ToUpper(text)
}

// Chunk is a sized text segment with structural context.
type Chunk struct {
	Text       string   `json:"text" yaml:"text"`
	Index      int      `json:"index" yaml:"index"`
	Breadcrumb []string `json:"breadcrumb" yaml:"breadcrumb"`
	PageStart  int      `json:"page_start" yaml:"page_start"`
	PageEnd    int      `json:"page_end" yaml:"page_end"`
}
