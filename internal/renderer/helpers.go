package renderer

import (
	"math"
	"strings"
)

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeMarkup escapes the characters that are special in SVG/XML text and
// attribute values
func escapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}

// splitLines splits text on newlines, dropping carriage returns
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// arrowheadPoints returns the tip and the two base corners of a marker that
// points from `from` to `tip`
func arrowheadPoints(from, tip Point, size float64) [3]Point {
	angle := math.Atan2(tip.Y-from.Y, tip.X-from.X)
	spread := math.Pi / 7

	return [3]Point{
		tip,
		{X: tip.X - size*math.Cos(angle-spread), Y: tip.Y - size*math.Sin(angle-spread)},
		{X: tip.X - size*math.Cos(angle+spread), Y: tip.Y - size*math.Sin(angle+spread)},
	}
}

// markerSize scales the arrowhead with the stroke width
func markerSize(strokeWidth float64) float64 {
	return math.Max(10, 5*strokeWidth)
}

// lastSegment returns the final segment that has non-zero length
func lastSegment(points []Point) (Point, Point, bool) {
	tip := points[len(points)-1]
	for i := len(points) - 2; i >= 0; i-- {
		if points[i] != tip {
			return points[i], tip, true
		}
	}
	return Point{}, Point{}, false
}
