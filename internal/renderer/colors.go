package renderer

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// parseColor parses "#rgb", "#rrggbb", "#rrggbbaa" and CSS color names.
// It returns false for "transparent" and for anything it cannot read.
func parseColor(value string) (color.NRGBA, bool) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" || s == scene.Transparent {
		return color.NRGBA{}, false
	}

	if named, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: 255}, true
	}

	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, false
	}

	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, false
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, true
}

// withAlpha scales a color's alpha by a 0-1 factor
func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(float64(c.A)*clamp(alpha, 0, 1) + 0.5)
	return c
}

// rgbInts returns the channels as ints for APIs that take them that way
func rgbInts(c color.NRGBA) (int, int, int) {
	return int(c.R), int(c.G), int(c.B)
}
