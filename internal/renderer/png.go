package renderer

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// regularFont is parsed once and shared read-only by every PNG surface
var regularFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// PNGSurface rasterizes into an RGBA image
type PNGSurface struct {
	dc    *gg.Context
	scale float64
	faces map[float64]font.Face
	err   error
}

var _ Surface = (*PNGSurface)(nil)

// NewPNGSurface creates a new PNG surface
func NewPNGSurface() *PNGSurface {
	return &PNGSurface{
		scale: 1,
		faces: make(map[float64]font.Face),
	}
}

func (s *PNGSurface) Begin(width, height, scale float64, background string) {
	s.scale = scale
	w := int(math.Ceil(width * scale))
	h := int(math.Ceil(height * scale))
	s.dc = gg.NewContext(max(w, 1), max(h, 1))

	if c, ok := parseColor(background); ok {
		s.dc.SetColor(c)
		s.dc.Clear()
	}
	s.dc.Scale(scale, scale)
}

func (s *PNGSurface) Translate(dx, dy float64) {
	s.dc.Translate(dx, dy)
}

func (s *PNGSurface) Rectangle(x, y, width, height, radius float64, st Style) {
	if radius > 0 {
		s.dc.DrawRoundedRectangle(x, y, width, height, radius)
	} else {
		s.dc.DrawRectangle(x, y, width, height)
	}
	s.paint(st)
}

func (s *PNGSurface) Ellipse(cx, cy, rx, ry float64, st Style) {
	s.dc.DrawEllipse(cx, cy, rx, ry)
	s.paint(st)
}

func (s *PNGSurface) Polygon(points []Point, st Style) {
	s.tracePath(points)
	s.dc.ClosePath()
	s.paint(st)
}

func (s *PNGSurface) Polyline(points []Point, st Style, marker *Marker) {
	s.tracePath(points)
	st.Fill = ""
	s.paint(st)

	if marker == nil {
		return
	}
	from, tip, ok := lastSegment(points)
	if !ok {
		return
	}
	head := arrowheadPoints(from, tip, markerSize(st.StrokeWidth))
	s.tracePath(head[:])
	s.dc.ClosePath()
	s.paint(Style{Fill: marker.Color, Alpha: st.Alpha})
}

func (s *PNGSurface) Text(x, y float64, line string, ts TextStyle) {
	c, ok := parseColor(ts.Color)
	if !ok || line == "" {
		return
	}
	face, err := s.face(ts.FontSize)
	if err != nil {
		s.err = err
		return
	}

	s.dc.SetFontFace(face)
	s.dc.SetColor(withAlpha(c, ts.Alpha))
	if ts.Anchor == AnchorMiddle {
		s.dc.DrawStringAnchored(line, x, y, 0.5, 0)
	} else {
		s.dc.DrawString(line, x, y)
	}
}

// Encode returns the image as PNG
func (s *PNGSurface) Encode() ([]byte, error) {
	if s.dc == nil {
		return nil, fmt.Errorf("surface was never started")
	}
	if s.err != nil {
		return nil, fmt.Errorf("failed to draw text: %w", s.err)
	}

	buf := &bytes.Buffer{}
	if err := s.dc.EncodePNG(buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *PNGSurface) tracePath(points []Point) {
	s.dc.NewSubPath()
	for i, p := range points {
		if i == 0 {
			s.dc.MoveTo(p.X, p.Y)
		} else {
			s.dc.LineTo(p.X, p.Y)
		}
	}
}

// paint fills then strokes the current path and clears it. gg strokes in
// device space, so widths and dashes are scaled by hand.
func (s *PNGSurface) paint(st Style) {
	if fill, ok := parseColor(st.Fill); ok && st.HasFill() {
		s.dc.SetColor(withAlpha(fill, st.Alpha))
		s.dc.FillPreserve()
	}

	if stroke, ok := parseColor(st.Stroke); ok && st.HasStroke() {
		s.dc.SetColor(withAlpha(stroke, st.Alpha))
		s.dc.SetLineWidth(st.StrokeWidth * s.scale)
		if len(st.Dash) > 0 {
			dash := make([]float64, len(st.Dash))
			for i, d := range st.Dash {
				dash[i] = d * s.scale
			}
			s.dc.SetDash(dash...)
		} else {
			s.dc.SetDash()
		}
		s.dc.StrokePreserve()
	}

	s.dc.ClearPath()
}

func (s *PNGSurface) face(size float64) (font.Face, error) {
	if face, ok := s.faces[size]; ok {
		return face, nil
	}

	f, err := regularFont()
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	s.faces[size] = face
	return face, nil
}
