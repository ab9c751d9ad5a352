package doctree

import "testing"

func TestIsUpper(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"INTRODUCTION", true},
		{"TABLE OF CONTENTS", true},
		{"Introduction", false},
		{"CHAPTER 1", false},
		{"", false},
		{"   ", false},
		{"ÉTÉ", true},
		{"A.", false},
	}
	for _, tc := range tests {
		if got := IsUpper(tc.text); got != tc.want {
			t.Errorf("IsUpper(%q): expected %v, got %v", tc.text, tc.want, got)
		}
	}
}

func TestIsBoldFont(t *testing.T) {
	tests := []struct {
		font string
		want bool
	}{
		{"Helvetica-Bold", true},
		{"TIMESBOLD", true},
		{"Arial,BoldItalic", true},
		{"Times-Roman", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsBoldFont(tc.font); got != tc.want {
			t.Errorf("IsBoldFont(%q): expected %v, got %v", tc.font, tc.want, got)
		}
	}
}

func TestNewStyle(t *testing.T) {
	s := NewStyle(12, "Times-Bold", 0, false, "HEADING")
	if !s.Bold {
		t.Error("expected bold from font name")
	}
	if !s.Upper {
		t.Error("expected upper for all-caps text")
	}
	s = NewStyle(12, "Times", 0, true, "Mixed")
	if !s.Bold || s.Upper {
		t.Errorf("expected explicit bold and no upper, got %+v", s)
	}
}
