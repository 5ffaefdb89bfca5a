package renderer

import (
	"strings"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// Style defaults
const (
	DefaultStrokeColor     = "#1e1e1e"
	DefaultBackgroundColor = scene.Transparent
	DefaultStrokeWidth     = 2.0
	DefaultOpacity         = 100.0
	DefaultFontSize        = 20.0
	DefaultViewBackground  = "#ffffff"
	DarkModeBackground     = "#121212"

	lineHeightFactor = 1.2
	roundedRadius    = 8.0
	labelLift        = 5.0
)

// Style is the resolved, immutable appearance of one element. Every drawing
// primitive receives it explicitly so no state carries between elements.
type Style struct {
	Stroke      string
	Fill        string
	StrokeWidth float64
	Dash        []float64
	Alpha       float64
}

// HasFill reports whether the interior is painted
func (s Style) HasFill() bool {
	return s.Fill != "" && !strings.EqualFold(s.Fill, scene.Transparent)
}

// HasStroke reports whether the outline is painted
func (s Style) HasStroke() bool {
	return s.StrokeWidth > 0 && s.Stroke != "" && !strings.EqualFold(s.Stroke, scene.Transparent)
}

// TextAnchor is the horizontal alignment of a text line
type TextAnchor int

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
)

// TextStyle is the resolved appearance of a text line
type TextStyle struct {
	FontSize float64
	Color    string
	Alpha    float64
	Anchor   TextAnchor
}

// dashPatterns are expressed in multiples of the stroke width
var dashPatterns = map[string][]float64{
	scene.StrokeDashed: {5, 5},
	scene.StrokeDotted: {2, 2},
}

// ResolveStyle applies the documented defaults to an element's attributes.
func ResolveStyle(b *scene.Base) Style {
	st := Style{
		Stroke:      DefaultStrokeColor,
		Fill:        DefaultBackgroundColor,
		StrokeWidth: DefaultStrokeWidth,
		Alpha:       DefaultOpacity / 100,
	}

	if b.StrokeColor != "" {
		st.Stroke = b.StrokeColor
	}
	if b.BackgroundColor != "" {
		st.Fill = b.BackgroundColor
	}
	if b.StrokeWidth != nil {
		st.StrokeWidth = *b.StrokeWidth
	}
	if b.Opacity != nil {
		st.Alpha = clamp(*b.Opacity, 0, 100) / 100
	}

	if pattern, ok := dashPatterns[b.StrokeStyle]; ok {
		st.Dash = make([]float64, len(pattern))
		for i, v := range pattern {
			st.Dash[i] = v * st.StrokeWidth
		}
	}

	return st
}

// textStyle derives the style of text drawn for an element
func textStyle(st Style, fontSize float64, anchor TextAnchor) TextStyle {
	return TextStyle{
		FontSize: fontSize,
		Color:    st.Stroke,
		Alpha:    st.Alpha,
		Anchor:   anchor,
	}
}

// backgroundFor resolves the surface fill from the app state. An empty result
// leaves the surface transparent.
func backgroundFor(app scene.AppState) string {
	if app.ExportBackground != nil && !*app.ExportBackground {
		return ""
	}
	if app.ExportWithDarkMode {
		return DarkModeBackground
	}
	if app.ViewBackgroundColor != "" {
		return app.ViewBackgroundColor
	}
	return DefaultViewBackground
}

// Marker is an arrowhead definition
type Marker struct {
	ID    string
	Color string
	match []string
}

var defaultMarker = Marker{ID: "arrowhead", Color: DefaultStrokeColor}

// markerPalette is checked in order; the first entry whose pattern occurs in
// the stroke color wins
var markerPalette = []Marker{
	{ID: "arrowhead-red", Color: "#e03131", match: []string{"e03131", "c92a2a", "red"}},
	{ID: "arrowhead-green", Color: "#2f9e44", match: []string{"2f9e44", "2b8a3e", "green"}},
	{ID: "arrowhead-blue", Color: "#1971c2", match: []string{"1971c2", "1864ab", "blue"}},
	{ID: "arrowhead-orange", Color: "#f08c00", match: []string{"f08c00", "e67700", "orange"}},
	{ID: "arrowhead-violet", Color: "#6741d9", match: []string{"6741d9", "5f3dc4", "violet", "purple"}},
}

// MarkerFor picks the arrowhead matching a stroke color
func MarkerFor(stroke string) Marker {
	s := strings.ToLower(stroke)
	for _, m := range markerPalette {
		for _, pattern := range m.match {
			if strings.Contains(s, pattern) {
				return m
			}
		}
	}
	return defaultMarker
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
