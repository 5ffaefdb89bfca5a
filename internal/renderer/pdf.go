package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/goregular"
)

// pdfFontFamily is Go Regular, embedded as a UTF-8 subset font
const pdfFontFamily = "goregular"

// kappa places cubic control points for quarter-circle corners
const kappa = 0.5522847498

// pdfEpoch pins the document dates so identical scenes give identical bytes
var pdfEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// PDFSurface draws vector output into a single-page PDF measured in points
type PDFSurface struct {
	pdf        *gofpdf.Fpdf
	transforms int
}

var _ Surface = (*PDFSurface)(nil)

// NewPDFSurface creates a new PDF surface
func NewPDFSurface() *PDFSurface {
	return &PDFSurface{}
}

func (s *PDFSurface) Begin(width, height, scale float64, background string) {
	s.pdf = gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width * scale, Ht: height * scale},
	})
	s.pdf.SetCreationDate(pdfEpoch)
	s.pdf.SetCatalogSort(true)
	s.pdf.SetMargins(0, 0, 0)
	s.pdf.SetAutoPageBreak(false, 0)
	s.pdf.AddPage()
	s.pdf.AddUTF8FontFromBytes(pdfFontFamily, "", goregular.TTF)
	s.transforms = 0

	if c, ok := parseColor(background); ok {
		s.pdf.SetFillColor(rgbInts(c))
		s.pdf.Rect(0, 0, width*scale, height*scale, "F")
	}

	s.pdf.TransformBegin()
	s.pdf.TransformScale(scale*100, scale*100, 0, 0)
	s.transforms++
}

func (s *PDFSurface) Translate(dx, dy float64) {
	s.pdf.TransformBegin()
	s.pdf.TransformTranslate(dx, dy)
	s.transforms++
}

func (s *PDFSurface) Rectangle(x, y, width, height, radius float64, st Style) {
	op, ok := s.apply(st)
	if !ok {
		return
	}
	if radius <= 0 {
		s.pdf.Rect(x, y, width, height, op)
		return
	}

	r := radius
	k := r * kappa
	p := s.pdf
	p.MoveTo(x+r, y)
	p.LineTo(x+width-r, y)
	p.CurveBezierCubicTo(x+width-r+k, y, x+width, y+r-k, x+width, y+r)
	p.LineTo(x+width, y+height-r)
	p.CurveBezierCubicTo(x+width, y+height-r+k, x+width-r+k, y+height, x+width-r, y+height)
	p.LineTo(x+r, y+height)
	p.CurveBezierCubicTo(x+r-k, y+height, x, y+height-r+k, x, y+height-r)
	p.LineTo(x, y+r)
	p.CurveBezierCubicTo(x, y+r-k, x+r-k, y, x+r, y)
	p.ClosePath()
	p.DrawPath(op)
}

func (s *PDFSurface) Ellipse(cx, cy, rx, ry float64, st Style) {
	if op, ok := s.apply(st); ok {
		s.pdf.Ellipse(cx, cy, rx, ry, 0, op)
	}
}

func (s *PDFSurface) Polygon(points []Point, st Style) {
	if op, ok := s.apply(st); ok {
		s.pdf.Polygon(pdfPoints(points), op)
	}
}

func (s *PDFSurface) Polyline(points []Point, st Style, marker *Marker) {
	st.Fill = ""
	if op, ok := s.apply(st); ok {
		s.pdf.MoveTo(points[0].X, points[0].Y)
		for _, p := range points[1:] {
			s.pdf.LineTo(p.X, p.Y)
		}
		s.pdf.DrawPath(op)
	}

	if marker == nil {
		return
	}
	from, tip, ok := lastSegment(points)
	if !ok {
		return
	}
	head := arrowheadPoints(from, tip, markerSize(st.StrokeWidth))
	if op, ok := s.apply(Style{Fill: marker.Color, Alpha: st.Alpha}); ok {
		s.pdf.Polygon(pdfPoints(head[:]), op)
	}
}

func (s *PDFSurface) Text(x, y float64, line string, ts TextStyle) {
	c, ok := parseColor(ts.Color)
	if !ok || line == "" {
		return
	}

	s.pdf.SetAlpha(ts.Alpha, "Normal")
	s.pdf.SetFont(pdfFontFamily, "", ts.FontSize)
	s.pdf.SetTextColor(rgbInts(c))

	if ts.Anchor == AnchorMiddle {
		x -= s.pdf.GetStringWidth(line) / 2
	}
	s.pdf.Text(x, y, line)
}

// Encode closes every transform and writes the document
func (s *PDFSurface) Encode() ([]byte, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("surface was never started")
	}
	for ; s.transforms > 0; s.transforms-- {
		s.pdf.TransformEnd()
	}

	buf := &bytes.Buffer{}
	if err := s.pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("failed to encode PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// apply loads the style into the graphics state and returns the gofpdf
// paint operator, or false when nothing would be painted
func (s *PDFSurface) apply(st Style) (string, bool) {
	op := ""
	if c, ok := parseColor(st.Fill); ok && st.HasFill() {
		s.pdf.SetFillColor(rgbInts(c))
		op += "F"
	}
	if c, ok := parseColor(st.Stroke); ok && st.HasStroke() {
		s.pdf.SetDrawColor(rgbInts(c))
		s.pdf.SetLineWidth(st.StrokeWidth)
		if len(st.Dash) > 0 {
			s.pdf.SetDashPattern(st.Dash, 0)
		} else {
			s.pdf.SetDashPattern([]float64{}, 0)
		}
		op += "D"
	}
	if op == "" {
		return "", false
	}

	s.pdf.SetAlpha(st.Alpha, "Normal")
	return op, true
}

func pdfPoints(points []Point) []gofpdf.PointType {
	out := make([]gofpdf.PointType, len(points))
	for i, p := range points {
		out[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	return out
}
