// Package scene defines the diagram model consumed by the renderer: typed
// elements, the appearance state and the auxiliary file payloads.
package scene

import "encoding/json"

// Kind is the value of an element's "type" field.
type Kind string

const (
	KindRectangle    Kind = "rectangle"
	KindEllipse      Kind = "ellipse"
	KindDiamond      Kind = "diamond"
	KindArrow        Kind = "arrow"
	KindLine         Kind = "line"
	KindText         Kind = "text"
	KindCameraUpdate Kind = "cameraUpdate"
	KindDelete       Kind = "delete"
)

// Stroke styles
const (
	StrokeSolid  = "solid"
	StrokeDashed = "dashed"
	StrokeDotted = "dotted"
)

// ArrowheadArrow is the only end arrowhead that produces a marker.
const ArrowheadArrow = "arrow"

// Transparent disables a fill or stroke.
const Transparent = "transparent"

// IsTransient reports whether k carries no renderable geometry.
func (k Kind) IsTransient() bool {
	return k == KindCameraUpdate || k == KindDelete
}

// Element is one visual unit of a diagram. The concrete type is one of
// *Rectangle, *Ellipse, *Diamond, *Linear, *Text, *Transient or *Unsupported.
type Element interface {
	Kind() Kind
	Common() *Base
}

// Base holds the attributes shared by every geometry-bearing element.
// Optional numeric fields are pointers so that a missing value can be told
// apart from zero.
type Base struct {
	ID              string
	X               float64
	Y               float64
	Width           *float64
	Height          *float64
	StrokeColor     string
	BackgroundColor string
	StrokeWidth     *float64
	StrokeStyle     string
	Opacity         *float64
}

// Common returns the shared attributes.
func (b *Base) Common() *Base { return b }

// Size returns width and height, treating missing values as zero.
func (b *Base) Size() (float64, float64) {
	var w, h float64
	if b.Width != nil {
		w = *b.Width
	}
	if b.Height != nil {
		h = *b.Height
	}
	return w, h
}

// Label is text rendered inside a shape or next to a path.
type Label struct {
	Text     string   `json:"text"`
	FontSize *float64 `json:"fontSize,omitempty"`
}

// Roundness selects the corner style of a rectangle.
type Roundness struct {
	Type int `json:"type"`
}

// Point is an offset relative to the owning element's anchor.
type Point struct {
	X float64
	Y float64
}

// Rectangle is an axis-aligned box.
type Rectangle struct {
	Base
	Roundness *Roundness
	Label     *Label
}

func (*Rectangle) Kind() Kind { return KindRectangle }

// Ellipse is inscribed in its bounding box.
type Ellipse struct {
	Base
	Label *Label
}

func (*Ellipse) Kind() Kind { return KindEllipse }

// Diamond connects the midpoints of its bounding box edges.
type Diamond struct {
	Base
	Label *Label
}

func (*Diamond) Kind() Kind { return KindDiamond }

// Linear is an arrow or a line: a polyline through Points.
type Linear struct {
	Base
	Type         Kind
	Points       []Point
	EndArrowhead string
	Label        *Label
}

func (l *Linear) Kind() Kind { return l.Type }

// HasEndMarker reports whether an arrowhead is drawn at the path end.
func (l *Linear) HasEndMarker() bool {
	return l.Type == KindArrow && l.EndArrowhead == ArrowheadArrow
}

// Text is free-standing, possibly multi-line text.
type Text struct {
	Base
	Text     string
	FontSize *float64
}

func (*Text) Kind() Kind { return KindText }

// Transient marks camera updates and deleted elements. Consumers skip it.
type Transient struct {
	Type Kind
}

func (t *Transient) Kind() Kind    { return t.Type }
func (t *Transient) Common() *Base { return nil }

// Unsupported is an element whose type this renderer does not draw.
// It keeps its geometry so bounds stay stable when new kinds appear upstream.
type Unsupported struct {
	Base
	Type Kind
}

func (u *Unsupported) Kind() Kind { return u.Type }

// AppState is the rendering-wide configuration. It only affects the
// background fill.
type AppState struct {
	ViewBackgroundColor string
	ExportBackground    *bool
	ExportWithDarkMode  bool
}

// Scene is everything rendered in one call. The Raw fields hold the input
// exactly as received so that it can be echoed back.
type Scene struct {
	Elements []Element
	AppState AppState
	Files    map[string]json.RawMessage

	RawElements []json.RawMessage
	RawAppState json.RawMessage
	RawFiles    json.RawMessage
}

// Visible returns the elements that carry geometry, in paint order.
func (s *Scene) Visible() []Element {
	out := make([]Element, 0, len(s.Elements))
	for _, el := range s.Elements {
		if el.Kind().IsTransient() {
			continue
		}
		out = append(out, el)
	}
	return out
}
