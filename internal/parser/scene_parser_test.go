package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

func TestParseScene(t *testing.T) {
	data := []byte(`{
		"type": "excalidraw",
		"version": 2,
		"elements": [
			{"type": "rectangle", "id": "r1", "x": 10, "y": 20, "width": 100, "height": 50,
			 "strokeColor": "#000", "backgroundColor": "#fff", "roundness": {"type": 3},
			 "label": {"text": "box", "fontSize": 16}},
			{"type": "ellipse", "x": 0, "y": 0, "width": 40, "height": 40, "opacity": 0},
			{"type": "diamond", "x": 0, "y": 0, "width": 40, "height": 40, "strokeStyle": "dashed"},
			{"type": "arrow", "x": 5, "y": 5, "points": [[0, 0], [50, 10]], "endArrowhead": "arrow"},
			{"type": "line", "x": 5, "y": 5, "points": [[0, 0], [50, 10]], "endArrowhead": null},
			{"type": "text", "x": 10, "y": 10, "text": "a\nb", "fontSize": 20},
			{"type": "cameraUpdate", "x": -1000, "y": -1000},
			{"type": "delete", "x": 5000, "y": 5000},
			{"type": "frame", "x": 1, "y": 2, "width": 3, "height": 4}
		],
		"appState": {"viewBackgroundColor": "#f8f9fa", "exportBackground": false, "exportWithDarkMode": true},
		"files": {"img-1": {"mimeType": "image/png", "dataURL": "data:image/png;base64,AAAA"}}
	}`)

	s, err := ParseScene(data)
	if err != nil {
		t.Fatalf("ParseScene() error = %v", err)
	}

	if len(s.Elements) != 9 {
		t.Fatalf("Expected 9 elements, got %d", len(s.Elements))
	}
	if len(s.RawElements) != 9 {
		t.Errorf("Expected 9 raw elements, got %d", len(s.RawElements))
	}

	rect, ok := s.Elements[0].(*scene.Rectangle)
	if !ok {
		t.Fatalf("Element 0 is %T, want *scene.Rectangle", s.Elements[0])
	}
	if rect.ID != "r1" || rect.X != 10 || rect.Y != 20 {
		t.Errorf("Unexpected rectangle anchor: %+v", rect.Base)
	}
	if rect.Roundness == nil || rect.Roundness.Type != 3 {
		t.Errorf("Expected roundness type 3, got %+v", rect.Roundness)
	}
	if rect.Label == nil || rect.Label.Text != "box" || rect.Label.FontSize == nil || *rect.Label.FontSize != 16 {
		t.Errorf("Unexpected label: %+v", rect.Label)
	}

	ellipse := s.Elements[1].(*scene.Ellipse)
	if ellipse.Opacity == nil || *ellipse.Opacity != 0 {
		t.Errorf("Expected explicit zero opacity to be preserved, got %v", ellipse.Opacity)
	}
	if ellipse.StrokeWidth != nil {
		t.Errorf("Expected missing strokeWidth to stay nil")
	}

	if d := s.Elements[2].(*scene.Diamond); d.StrokeStyle != scene.StrokeDashed {
		t.Errorf("Expected dashed diamond, got %q", d.StrokeStyle)
	}

	arrow := s.Elements[3].(*scene.Linear)
	if arrow.Kind() != scene.KindArrow || !arrow.HasEndMarker() {
		t.Errorf("Expected arrow with end marker, got kind=%s arrowhead=%q", arrow.Kind(), arrow.EndArrowhead)
	}
	if len(arrow.Points) != 2 || arrow.Points[1] != (scene.Point{X: 50, Y: 10}) {
		t.Errorf("Unexpected points: %+v", arrow.Points)
	}

	line := s.Elements[4].(*scene.Linear)
	if line.Kind() != scene.KindLine || line.EndArrowhead != "" {
		t.Errorf("Unexpected line: %+v", line)
	}

	text := s.Elements[5].(*scene.Text)
	if text.Text != "a\nb" || *text.FontSize != 20 {
		t.Errorf("Unexpected text: %+v", text)
	}

	for _, i := range []int{6, 7} {
		if _, ok := s.Elements[i].(*scene.Transient); !ok {
			t.Errorf("Element %d is %T, want *scene.Transient", i, s.Elements[i])
		}
	}

	unsupported, ok := s.Elements[8].(*scene.Unsupported)
	if !ok || unsupported.Kind() != "frame" {
		t.Errorf("Element 8 is %T, want unsupported frame", s.Elements[8])
	}

	if s.AppState.ViewBackgroundColor != "#f8f9fa" {
		t.Errorf("Unexpected background: %q", s.AppState.ViewBackgroundColor)
	}
	if s.AppState.ExportBackground == nil || *s.AppState.ExportBackground {
		t.Errorf("Expected exportBackground=false")
	}
	if !s.AppState.ExportWithDarkMode {
		t.Errorf("Expected exportWithDarkMode=true")
	}
	if _, ok := s.Files["img-1"]; !ok {
		t.Errorf("Expected file img-1 to be decoded")
	}
}

func TestParseSceneSoftDeleted(t *testing.T) {
	s, err := ParseScene([]byte(`{"elements": [{"type": "rectangle", "x": 0, "y": 0, "isDeleted": true}]}`))
	if err != nil {
		t.Fatalf("ParseScene() error = %v", err)
	}

	el, ok := s.Elements[0].(*scene.Transient)
	if !ok || el.Kind() != scene.KindDelete {
		t.Errorf("Expected soft-deleted element to decode as delete, got %T", s.Elements[0])
	}
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid json", data: `{"elements": [`},
		{name: "missing elements", data: `{"appState": {}}`},
		{name: "elements not an array", data: `{"elements": {"type": "rectangle"}}`},
		{name: "bad element field", data: `{"elements": [{"type": "rectangle", "x": "left"}]}`},
		{name: "bad appState", data: `{"elements": [], "appState": {"exportBackground": "yes"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScene([]byte(tt.data)); err == nil {
				t.Error("ParseScene() expected error, got nil")
			}
		})
	}
}

func TestParseSceneEmptyElements(t *testing.T) {
	s, err := ParseScene([]byte(`{"elements": []}`))
	if err != nil {
		t.Fatalf("ParseScene() error = %v", err)
	}
	if len(s.Elements) != 0 {
		t.Errorf("Expected no elements, got %d", len(s.Elements))
	}
}

func TestParseSceneFile(t *testing.T) {
	tmpDir := t.TempDir()

	jsonPath := filepath.Join(tmpDir, "scene.excalidraw")
	if err := os.WriteFile(jsonPath, []byte(`{"elements": [{"type": "text", "x": 1, "y": 2, "text": "hi"}]}`), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	hclPath := filepath.Join(tmpDir, "scene.hcl")
	if err := os.WriteFile(hclPath, []byte("element \"text\" {\n  x = 1\n  y = 2\n  text = \"hi\"\n}\n"), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	for _, path := range []string{jsonPath, hclPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			s, err := ParseSceneFile(context.Background(), path)
			if err != nil {
				t.Fatalf("ParseSceneFile() error = %v", err)
			}
			text, ok := s.Elements[0].(*scene.Text)
			if !ok || text.Text != "hi" || text.X != 1 || text.Y != 2 {
				t.Errorf("Unexpected element: %#v", s.Elements[0])
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := ParseSceneFile(context.Background(), filepath.Join(tmpDir, "missing.json")); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := ParseSceneFile(ctx, jsonPath); err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantFormat string
		wantScale  float64
		wantErr    bool
	}{
		{
			name:       "png with scale",
			data:       `{"elements": [{"type": "rectangle", "x": 0, "y": 0}], "format": "PNG", "scale": 2}`,
			wantFormat: "png",
			wantScale:  2,
		},
		{
			name:       "default scale",
			data:       `{"elements": [], "format": "svg"}`,
			wantFormat: "svg",
			wantScale:  1,
		},
		{
			name:    "missing elements",
			data:    `{"format": "svg"}`,
			wantErr: true,
		},
		{
			name:    "negative scale",
			data:    `{"elements": [], "format": "png", "scale": -1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if req.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", req.Format, tt.wantFormat)
			}
			if req.Scale != tt.wantScale {
				t.Errorf("Scale = %v, want %v", req.Scale, tt.wantScale)
			}
			if req.Scene == nil {
				t.Error("Scene should not be nil")
			}
		})
	}
}
