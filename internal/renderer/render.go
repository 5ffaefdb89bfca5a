package renderer

import (
	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// Render paints elements onto surface in array order, so later elements
// cover earlier ones. Transient and unsupported kinds are skipped. The
// surface is sized and translated from b; scale only changes the device
// resolution.
func Render(surface Surface, elements []scene.Element, app scene.AppState, b Bounds, scale float64) {
	if scale <= 0 {
		scale = 1
	}

	surface.Begin(b.Width, b.Height, scale, backgroundFor(app))
	surface.Translate(b.OffsetX, b.OffsetY)

	for _, el := range elements {
		drawElement(surface, el)
	}
}

func drawElement(s Surface, el scene.Element) {
	switch e := el.(type) {
	case *scene.Rectangle:
		drawRectangle(s, e)
	case *scene.Ellipse:
		drawEllipse(s, e)
	case *scene.Diamond:
		drawDiamond(s, e)
	case *scene.Linear:
		drawLinear(s, e)
	case *scene.Text:
		drawText(s, e)
	case *scene.Transient, *scene.Unsupported:
		// not drawn
	}
}

func drawRectangle(s Surface, e *scene.Rectangle) {
	st := ResolveStyle(&e.Base)
	w, h := e.Size()

	radius := 0.0
	if e.Roundness != nil && e.Roundness.Type == 3 {
		radius = roundedRadius
	}

	s.Rectangle(e.X, e.Y, w, h, radius, st)
	drawShapeLabel(s, e.Label, e.X+w/2, e.Y+h/2, st)
}

func drawEllipse(s Surface, e *scene.Ellipse) {
	st := ResolveStyle(&e.Base)
	w, h := e.Size()
	cx, cy := e.X+w/2, e.Y+h/2

	s.Ellipse(cx, cy, w/2, h/2, st)
	drawShapeLabel(s, e.Label, cx, cy, st)
}

func drawDiamond(s Surface, e *scene.Diamond) {
	st := ResolveStyle(&e.Base)
	w, h := e.Size()
	cx, cy := e.X+w/2, e.Y+h/2

	s.Polygon([]Point{
		{X: cx, Y: e.Y},
		{X: e.X + w, Y: cy},
		{X: cx, Y: e.Y + h},
		{X: e.X, Y: cy},
	}, st)
	drawShapeLabel(s, e.Label, cx, cy, st)
}

func drawLinear(s Surface, e *scene.Linear) {
	if len(e.Points) < 2 {
		return
	}

	st := ResolveStyle(&e.Base)
	st.Fill = ""

	points := make([]Point, len(e.Points))
	for i, p := range e.Points {
		points[i] = Point{X: e.X + p.X, Y: e.Y + p.Y}
	}

	var marker *Marker
	if e.HasEndMarker() {
		m := MarkerFor(st.Stroke)
		marker = &m
	}
	s.Polyline(points, st, marker)

	if e.Label != nil && e.Label.Text != "" {
		mid := points[len(points)/2]
		ts := textStyle(st, labelFontSize(e.Label), AnchorMiddle)
		for i, line := range splitLines(e.Label.Text) {
			s.Text(mid.X, mid.Y-labelLift+float64(i)*ts.FontSize*lineHeightFactor, line, ts)
		}
	}
}

func drawText(s Surface, e *scene.Text) {
	if e.Text == "" {
		return
	}

	st := ResolveStyle(&e.Base)
	fontSize := DefaultFontSize
	if e.FontSize != nil && *e.FontSize > 0 {
		fontSize = *e.FontSize
	}
	ts := textStyle(st, fontSize, AnchorStart)

	for _, line := range TextBaselines(e.Y, fontSize, e.Text) {
		s.Text(e.X, line.Baseline, line.Text, ts)
	}
}

// drawShapeLabel centers a possibly multi-line label on (cx, cy)
func drawShapeLabel(s Surface, label *scene.Label, cx, cy float64, st Style) {
	if label == nil || label.Text == "" {
		return
	}

	fontSize := labelFontSize(label)
	lines := splitLines(label.Text)
	lineHeight := fontSize * lineHeightFactor
	startY := cy - float64(len(lines))*lineHeight/2 + fontSize

	ts := textStyle(st, fontSize, AnchorMiddle)
	for i, line := range lines {
		s.Text(cx, startY+float64(i)*lineHeight, line, ts)
	}
}

func labelFontSize(label *scene.Label) float64 {
	if label.FontSize != nil && *label.FontSize > 0 {
		return *label.FontSize
	}
	return DefaultFontSize
}

// TextLine is one laid-out line of a text element
type TextLine struct {
	Text     string
	Baseline float64
}

// TextBaselines lays out text anchored with its first line's top at y.
// Line i sits on y + fontSize + i*1.2*fontSize.
func TextBaselines(y, fontSize float64, text string) []TextLine {
	lines := splitLines(text)
	out := make([]TextLine, len(lines))
	lineHeight := fontSize * lineHeightFactor
	for i, line := range lines {
		out[i] = TextLine{
			Text:     line,
			Baseline: y + fontSize + float64(i)*lineHeight,
		}
	}
	return out
}
