package spansource

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]int{
	"black":  0x000000,
	"white":  0xffffff,
	"red":    0xff0000,
	"green":  0x008000,
	"blue":   0x0000ff,
	"gray":   0x808080,
	"grey":   0x808080,
	"navy":   0x000080,
	"maroon": 0x800000,
	"purple": 0x800080,
	"orange": 0xffa500,
}

// parseColor converts a DOCX or CSS color value to a packed 0xRRGGBB int.
// Unknown values and "auto" map to black.
func parseColor(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" || s == "inherit" {
		return 0
	}
	if c, ok := namedColors[s]; ok {
		return c
	}
	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		return parseRGBFunc(s[4 : len(s)-1])
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0
	}
	r, g, b := c.RGB255()
	return pack(r, g, b)
}

func parseRGBFunc(args string) int {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return 0
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return 0
		}
		rgb[i] = uint8(v)
	}
	return pack(rgb[0], rgb[1], rgb[2])
}

func pack(r, g, b uint8) int {
	return int(r)<<16 | int(g)<<8 | int(b)
}
