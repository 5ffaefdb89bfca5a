// Package parser decodes diagram scenes from JSON documents, render requests,
// HCL scene files and remote endpoints into the scene model.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// sceneDocument is the top-level layout of a scene file or request body
type sceneDocument struct {
	Type     string             `json:"type,omitempty"`
	Version  int                `json:"version,omitempty"`
	Elements *[]json.RawMessage `json:"elements"`
	AppState json.RawMessage    `json:"appState,omitempty"`
	Files    json.RawMessage    `json:"files,omitempty"`
}

// wireElement carries every field any element kind may use
type wireElement struct {
	Type            string           `json:"type"`
	ID              string           `json:"id"`
	X               float64          `json:"x"`
	Y               float64          `json:"y"`
	Width           *float64         `json:"width"`
	Height          *float64         `json:"height"`
	StrokeColor     string           `json:"strokeColor"`
	BackgroundColor string           `json:"backgroundColor"`
	StrokeWidth     *float64         `json:"strokeWidth"`
	StrokeStyle     string           `json:"strokeStyle"`
	Opacity         *float64         `json:"opacity"`
	Roundness       *scene.Roundness `json:"roundness"`
	Label           *scene.Label     `json:"label"`
	Points          [][2]float64     `json:"points"`
	EndArrowhead    *string          `json:"endArrowhead"`
	Text            string           `json:"text"`
	FontSize        *float64         `json:"fontSize"`
	IsDeleted       bool             `json:"isDeleted"`
}

type wireAppState struct {
	ViewBackgroundColor string `json:"viewBackgroundColor"`
	ExportBackground    *bool  `json:"exportBackground"`
	ExportWithDarkMode  bool   `json:"exportWithDarkMode"`
}

// ParseSceneFile reads a scene from disk. Files ending in .hcl are parsed as
// HCL scene documents, everything else as JSON.
// It respects the provided context for cancellation.
func ParseSceneFile(ctx context.Context, path string) (*scene.Scene, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return ParseSceneHCL(path, data)
	}
	return ParseScene(data)
}

// ParseScene decodes a JSON scene document.
func ParseScene(data []byte) (*scene.Scene, error) {
	var doc sceneDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return buildScene(doc)
}

func buildScene(doc sceneDocument) (*scene.Scene, error) {
	if doc.Elements == nil {
		return nil, fmt.Errorf("scene must contain an elements array")
	}

	s := &scene.Scene{
		Elements:    make([]scene.Element, 0, len(*doc.Elements)),
		RawElements: *doc.Elements,
		RawAppState: doc.AppState,
		RawFiles:    doc.Files,
	}

	for i, raw := range *doc.Elements {
		el, err := decodeElement(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		s.Elements = append(s.Elements, el)
	}

	appState, err := decodeAppState(doc.AppState)
	if err != nil {
		return nil, err
	}
	s.AppState = appState

	if isObject(doc.Files) {
		if err := json.Unmarshal(doc.Files, &s.Files); err != nil {
			return nil, fmt.Errorf("failed to parse files: %w", err)
		}
	}

	return s, nil
}

// decodeElement maps one raw element onto its kind-specific type
func decodeElement(raw json.RawMessage) (scene.Element, error) {
	var w wireElement
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("failed to parse element: %w", err)
	}

	kind := scene.Kind(w.Type)
	if kind.IsTransient() {
		return &scene.Transient{Type: kind}, nil
	}
	if w.IsDeleted {
		return &scene.Transient{Type: scene.KindDelete}, nil
	}

	base := scene.Base{
		ID:              w.ID,
		X:               w.X,
		Y:               w.Y,
		Width:           w.Width,
		Height:          w.Height,
		StrokeColor:     w.StrokeColor,
		BackgroundColor: w.BackgroundColor,
		StrokeWidth:     w.StrokeWidth,
		StrokeStyle:     w.StrokeStyle,
		Opacity:         w.Opacity,
	}

	switch kind {
	case scene.KindRectangle:
		return &scene.Rectangle{Base: base, Roundness: w.Roundness, Label: w.Label}, nil
	case scene.KindEllipse:
		return &scene.Ellipse{Base: base, Label: w.Label}, nil
	case scene.KindDiamond:
		return &scene.Diamond{Base: base, Label: w.Label}, nil
	case scene.KindArrow, scene.KindLine:
		points := make([]scene.Point, len(w.Points))
		for i, p := range w.Points {
			points[i] = scene.Point{X: p[0], Y: p[1]}
		}
		el := &scene.Linear{Base: base, Type: kind, Points: points, Label: w.Label}
		if w.EndArrowhead != nil {
			el.EndArrowhead = *w.EndArrowhead
		}
		return el, nil
	case scene.KindText:
		return &scene.Text{Base: base, Text: w.Text, FontSize: w.FontSize}, nil
	default:
		return &scene.Unsupported{Base: base, Type: kind}, nil
	}
}

func decodeAppState(raw json.RawMessage) (scene.AppState, error) {
	var state scene.AppState
	if !isObject(raw) {
		return state, nil
	}

	var w wireAppState
	if err := json.Unmarshal(raw, &w); err != nil {
		return state, fmt.Errorf("failed to parse appState: %w", err)
	}

	state.ViewBackgroundColor = w.ViewBackgroundColor
	state.ExportBackground = w.ExportBackground
	state.ExportWithDarkMode = w.ExportWithDarkMode
	return state, nil
}

// isObject reports whether raw holds a JSON object
func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
