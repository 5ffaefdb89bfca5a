package renderer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const svgFontFamily = "Virgil, Segoe UI Emoji, Helvetica, Arial, sans-serif"

// SVGSurface builds SVG markup
type SVGSurface struct {
	body       *bytes.Buffer
	width      float64
	height     float64
	scale      float64
	background string
	groups     int
}

var _ Surface = (*SVGSurface)(nil)

// NewSVGSurface creates a new SVG surface
func NewSVGSurface() *SVGSurface {
	return &SVGSurface{
		body:  &bytes.Buffer{},
		scale: 1,
	}
}

func (s *SVGSurface) Begin(width, height, scale float64, background string) {
	s.body.Reset()
	s.groups = 0
	s.width, s.height, s.scale = width, height, scale
	s.background = background
}

func (s *SVGSurface) Translate(dx, dy float64) {
	fmt.Fprintf(s.body, "<g transform=\"translate(%s %s)\">\n", num(dx), num(dy))
	s.groups++
}

func (s *SVGSurface) Rectangle(x, y, width, height, radius float64, st Style) {
	fmt.Fprintf(s.body, `<rect x="%s" y="%s" width="%s" height="%s"`, num(x), num(y), num(width), num(height))
	if radius > 0 {
		fmt.Fprintf(s.body, ` rx="%s" ry="%s"`, num(radius), num(radius))
	}
	s.writeStyle(st)
	s.body.WriteString("/>\n")
}

func (s *SVGSurface) Ellipse(cx, cy, rx, ry float64, st Style) {
	fmt.Fprintf(s.body, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s"`, num(cx), num(cy), num(rx), num(ry))
	s.writeStyle(st)
	s.body.WriteString("/>\n")
}

func (s *SVGSurface) Polygon(points []Point, st Style) {
	fmt.Fprintf(s.body, `<polygon points="%s"`, pointList(points))
	s.writeStyle(st)
	s.body.WriteString("/>\n")
}

func (s *SVGSurface) Polyline(points []Point, st Style, marker *Marker) {
	fmt.Fprintf(s.body, `<polyline points="%s"`, pointList(points))
	st.Fill = ""
	s.writeStyle(st)
	if marker != nil {
		fmt.Fprintf(s.body, ` marker-end="url(#%s)"`, marker.ID)
	}
	s.body.WriteString("/>\n")
}

func (s *SVGSurface) Text(x, y float64, line string, ts TextStyle) {
	anchor := "start"
	if ts.Anchor == AnchorMiddle {
		anchor = "middle"
	}
	fmt.Fprintf(s.body, `<text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s" text-anchor="%s" xml:space="preserve"`,
		num(x), num(y), svgFontFamily, num(ts.FontSize), escapeMarkup(ts.Color), anchor)
	if ts.Alpha < 1 {
		fmt.Fprintf(s.body, ` opacity="%s"`, num(ts.Alpha))
	}
	fmt.Fprintf(s.body, ">%s</text>\n", escapeMarkup(line))
}

// Encode writes the complete document
func (s *SVGSurface) Encode() ([]byte, error) {
	out := &bytes.Buffer{}
	fmt.Fprintf(out, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">
`, num(s.width*s.scale), num(s.height*s.scale), num(s.width), num(s.height))

	s.writeDefs(out)

	if s.background != "" {
		fmt.Fprintf(out, "<rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", escapeMarkup(s.background))
	}

	out.Write(s.body.Bytes())
	for i := 0; i < s.groups; i++ {
		out.WriteString("</g>\n")
	}
	out.WriteString("</svg>\n")

	return out.Bytes(), nil
}

// writeDefs declares one arrowhead marker per palette color
func (s *SVGSurface) writeDefs(out *bytes.Buffer) {
	out.WriteString("<defs>\n")
	for _, m := range append([]Marker{defaultMarker}, markerPalette...) {
		fmt.Fprintf(out, `  <marker id="%s" markerWidth="10" markerHeight="10" refX="9" refY="3" orient="auto">
    <polygon points="0 0, 10 3, 0 6" fill="%s"/>
  </marker>
`, m.ID, m.Color)
	}
	out.WriteString("</defs>\n")
}

func (s *SVGSurface) writeStyle(st Style) {
	if st.HasFill() {
		fmt.Fprintf(s.body, ` fill="%s"`, escapeMarkup(st.Fill))
	} else {
		s.body.WriteString(` fill="none"`)
	}

	if st.HasStroke() {
		fmt.Fprintf(s.body, ` stroke="%s" stroke-width="%s"`, escapeMarkup(st.Stroke), num(st.StrokeWidth))
		if len(st.Dash) > 0 {
			dash := make([]string, len(st.Dash))
			for i, d := range st.Dash {
				dash[i] = num(d)
			}
			fmt.Fprintf(s.body, ` stroke-dasharray="%s"`, strings.Join(dash, ","))
		}
	} else {
		s.body.WriteString(` stroke="none"`)
	}

	if st.Alpha < 1 {
		fmt.Fprintf(s.body, ` opacity="%s"`, num(st.Alpha))
	}
}

func pointList(points []Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

// num formats a coordinate with at most two decimals and no trailing zeros
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
