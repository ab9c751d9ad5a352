// Package scoring turns style statistics into importance scores and levels.
package scoring

import (
	"fmt"
	"math"

	"github.com/dgallion1/docstruct/internal/registry"
)

// Weights controls how much each visual signal contributes to a score.
type Weights struct {
	FontFactor  float64 `json:"font_factor" yaml:"font_factor" mapstructure:"font_factor"`
	ColorFactor float64 `json:"color_factor" yaml:"color_factor" mapstructure:"color_factor"`
	SizeFactor  float64 `json:"size_factor" yaml:"size_factor" mapstructure:"size_factor"`
	BoldBonus   float64 `json:"bold_bonus" yaml:"bold_bonus" mapstructure:"bold_bonus"`
	UpperBonus  float64 `json:"upper_bonus" yaml:"upper_bonus" mapstructure:"upper_bonus"`
}

// DefaultWeights weighs every signal equally.
func DefaultWeights() Weights {
	return Weights{
		FontFactor:  1,
		ColorFactor: 1,
		SizeFactor:  1,
		BoldBonus:   1,
		UpperBonus:  1,
	}
}

// Validate rejects negative and non-finite weights.
func (w Weights) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"font_factor", w.FontFactor},
		{"color_factor", w.ColorFactor},
		{"size_factor", w.SizeFactor},
		{"bold_bonus", w.BoldBonus},
		{"upper_bonus", w.UpperBonus},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("weight %s must be finite, got %g", f.name, f.v)
		}
		if f.v < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %g", f.name, f.v)
		}
	}
	return nil
}

// Score sets the Score field of every style in reg.
func Score(reg *registry.Registry, w Weights) {
	styles := reg.Styles()
	if len(styles) == 0 {
		return
	}

	total := reg.TotalChars()
	fontChars := make(map[string]int)
	colorChars := make(map[int]int)
	minSize, maxSize := styles[0].Size, styles[0].Size
	for _, s := range styles {
		fontChars[s.Font] += s.NumChar
		colorChars[s.Color] += s.NumChar
		if s.Size < minSize {
			minSize = s.Size
		}
		if s.Size > maxSize {
			maxSize = s.Size
		}
	}

	for _, s := range styles {
		score := rarity(fontChars[s.Font], total)*w.FontFactor +
			rarity(colorChars[s.Color], total)*w.ColorFactor +
			sizeScore(s.Size, minSize, maxSize)*w.SizeFactor
		if s.Bold {
			score += w.BoldBonus
		}
		if s.Upper {
			score += w.UpperBonus
		}
		s.Score = score
	}
}

// rarity is 1 minus the share of characters rendered with a feature value.
func rarity(chars, total int) float64 {
	if total == 0 {
		return 0
	}
	return 1 - float64(chars)/float64(total)
}

// sizeScore normalizes size into [0, 1] over the distinct styles. A document
// with a single size, or only zero sizes, carries no size signal.
func sizeScore(size, minSize, maxSize float64) float64 {
	if maxSize == 0 || maxSize == minSize {
		return 0
	}
	return (size - minSize) / (maxSize - minSize)
}

