package renderer

// Point is an absolute scene coordinate
type Point struct {
	X float64
	Y float64
}

// Surface is a drawing target. Coordinates passed to the shape and text
// methods are scene coordinates; the surface applies the translation and
// scale installed by Begin and Translate.
type Surface interface {
	// Begin allocates a width x height surface (in scene units) drawn at the
	// given scale and paints the background. An empty background leaves the
	// surface transparent.
	Begin(width, height, scale float64, background string)

	// Translate offsets every subsequent primitive.
	Translate(dx, dy float64)

	Rectangle(x, y, width, height, radius float64, st Style)
	Ellipse(cx, cy, rx, ry float64, st Style)
	Polygon(points []Point, st Style)

	// Polyline strokes an open path. A non-nil marker is drawn at the last
	// point, oriented along the final segment.
	Polyline(points []Point, st Style, marker *Marker)

	// Text draws a single line with its baseline at y.
	Text(x, y float64, line string, ts TextStyle)

	// Encode serializes the surface.
	Encode() ([]byte, error)
}
