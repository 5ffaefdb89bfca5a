package renderer

import (
	"math"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// DefaultPadding is the margin added around the scene on every side
const DefaultPadding = 40.0

// Bounds is the surface size and the translation that moves the scene into
// non-negative coordinates.
type Bounds struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
}

// ComputeBounds returns the minimal rectangle enclosing every non-transient
// element, grown by padding on each side. Elements without a width or height
// contribute their anchor; linear elements also contribute every point.
func ComputeBounds(elements []scene.Element, padding float64) (Bounds, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	extend := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}

	for _, el := range elements {
		if el.Kind().IsTransient() {
			continue
		}
		b := el.Common()
		w, h := b.Size()
		extend(b.X, b.Y)
		extend(b.X+w, b.Y+h)

		if linear, ok := el.(*scene.Linear); ok {
			for _, p := range linear.Points {
				extend(b.X+p.X, b.Y+p.Y)
			}
		}
	}

	bounds := Bounds{
		Width:   maxX - minX + 2*padding,
		Height:  maxY - minY + 2*padding,
		OffsetX: -minX + padding,
		OffsetY: -minY + padding,
	}

	if math.IsInf(minX, 1) {
		return Bounds{}, &InvalidSceneError{Reason: "no visible elements"}
	}
	for _, v := range []float64{bounds.Width, bounds.Height, bounds.OffsetX, bounds.OffsetY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Bounds{}, &InvalidSceneError{Reason: "scene bounds are not finite"}
		}
	}

	return bounds, nil
}
