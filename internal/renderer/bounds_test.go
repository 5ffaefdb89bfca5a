package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

func ptr(v float64) *float64 {
	return &v
}

func rect(x, y, w, h float64) *scene.Rectangle {
	return &scene.Rectangle{Base: scene.Base{X: x, Y: y, Width: ptr(w), Height: ptr(h)}}
}

func TestComputeBounds(t *testing.T) {
	tests := []struct {
		name     string
		elements []scene.Element
		padding  float64
		expected Bounds
	}{
		{
			name:     "single rectangle",
			elements: []scene.Element{rect(0, 0, 100, 50)},
			padding:  40,
			expected: Bounds{Width: 180, Height: 130, OffsetX: 40, OffsetY: 40},
		},
		{
			name:     "negative coordinates",
			elements: []scene.Element{rect(-50, -20, 100, 40)},
			padding:  10,
			expected: Bounds{Width: 120, Height: 60, OffsetX: 60, OffsetY: 30},
		},
		{
			name:     "two rectangles",
			elements: []scene.Element{rect(0, 0, 100, 100), rect(50, 50, 100, 100)},
			padding:  0,
			expected: Bounds{Width: 150, Height: 150, OffsetX: 0, OffsetY: 0},
		},
		{
			name: "element without size contributes its anchor",
			elements: []scene.Element{
				rect(0, 0, 10, 10),
				&scene.Text{Base: scene.Base{X: 30, Y: 40}, Text: "x"},
			},
			padding:  0,
			expected: Bounds{Width: 30, Height: 40, OffsetX: 0, OffsetY: 0},
		},
		{
			name: "line points extend bounds",
			elements: []scene.Element{
				&scene.Linear{
					Base:   scene.Base{X: 10, Y: 10},
					Type:   scene.KindLine,
					Points: []scene.Point{{X: 0, Y: 0}, {X: 100, Y: -20}},
				},
			},
			padding:  5,
			expected: Bounds{Width: 110, Height: 30, OffsetX: -5, OffsetY: 15},
		},
		{
			name: "transient elements are ignored",
			elements: []scene.Element{
				&scene.Transient{Type: scene.KindCameraUpdate},
				rect(0, 0, 100, 50),
				&scene.Transient{Type: scene.KindDelete},
			},
			padding:  40,
			expected: Bounds{Width: 180, Height: 130, OffsetX: 40, OffsetY: 40},
		},
		{
			name: "unsupported kinds count",
			elements: []scene.Element{
				rect(0, 0, 10, 10),
				&scene.Unsupported{Base: scene.Base{X: 90, Y: 0, Width: ptr(10), Height: ptr(10)}, Type: "image"},
			},
			padding:  0,
			expected: Bounds{Width: 100, Height: 10, OffsetX: 0, OffsetY: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBounds(tt.elements, tt.padding)
			if err != nil {
				t.Fatalf("ComputeBounds() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("ComputeBounds() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestComputeBoundsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		elements []scene.Element
	}{
		{name: "nil", elements: nil},
		{name: "empty", elements: []scene.Element{}},
		{
			name: "only transient",
			elements: []scene.Element{
				&scene.Transient{Type: scene.KindCameraUpdate},
				&scene.Transient{Type: scene.KindDelete},
			},
		},
		{
			name:     "infinite coordinates",
			elements: []scene.Element{rect(math.Inf(1), 0, 10, 10)},
		},
		{
			name:     "NaN size",
			elements: []scene.Element{rect(0, 0, math.NaN(), 10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeBounds(tt.elements, DefaultPadding)
			var invalid *InvalidSceneError
			if !errors.As(err, &invalid) {
				t.Fatalf("ComputeBounds() error = %v, want InvalidSceneError", err)
			}
		})
	}
}

// Every drawable element must land inside the padded surface after translation.
func TestComputeBoundsContainsElements(t *testing.T) {
	elements := []scene.Element{
		rect(-300, 20, 40, 40),
		rect(12.5, -7.25, 3, 900),
		&scene.Ellipse{Base: scene.Base{X: 500, Y: 500, Width: ptr(60), Height: ptr(30)}},
		&scene.Diamond{Base: scene.Base{X: -10, Y: -10, Width: ptr(1), Height: ptr(1)}},
	}
	padding := 25.0

	b, err := ComputeBounds(elements, padding)
	if err != nil {
		t.Fatalf("ComputeBounds() error = %v", err)
	}

	for i, el := range elements {
		base := el.Common()
		w, h := base.Size()
		left, top := base.X+b.OffsetX, base.Y+b.OffsetY
		if left < padding || top < padding {
			t.Errorf("element %d starts at (%v, %v), inside the padding", i, left, top)
		}
		if left+w > b.Width-padding || top+h > b.Height-padding {
			t.Errorf("element %d ends at (%v, %v), outside %vx%v", i, left+w, top+h, b.Width, b.Height)
		}
	}

	if b.Width < 2*padding || b.Height < 2*padding {
		t.Errorf("bounds %+v smaller than padding", b)
	}
}
