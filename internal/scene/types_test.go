package scene

import (
	"encoding/json"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestKindIsTransient(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected bool
	}{
		{KindCameraUpdate, true},
		{KindDelete, true},
		{KindRectangle, false},
		{KindArrow, false},
		{Kind("frame"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.IsTransient(); got != tt.expected {
				t.Errorf("IsTransient() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBaseSize(t *testing.T) {
	b := &Base{Width: floatPtr(100)}
	w, h := b.Size()
	if w != 100 || h != 0 {
		t.Errorf("Size() = (%v, %v), want (100, 0)", w, h)
	}
}

func TestLinearHasEndMarker(t *testing.T) {
	tests := []struct {
		name     string
		el       Linear
		expected bool
	}{
		{"arrow with arrowhead", Linear{Type: KindArrow, EndArrowhead: ArrowheadArrow}, true},
		{"arrow without arrowhead", Linear{Type: KindArrow}, false},
		{"line with arrowhead", Linear{Type: KindLine, EndArrowhead: ArrowheadArrow}, false},
		{"arrow with bar arrowhead", Linear{Type: KindArrow, EndArrowhead: "bar"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.el.HasEndMarker(); got != tt.expected {
				t.Errorf("HasEndMarker() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSceneVisible(t *testing.T) {
	s := &Scene{
		Elements: []Element{
			&Rectangle{Base: Base{ID: "a"}},
			&Transient{Type: KindDelete},
			&Text{Base: Base{ID: "b"}},
			&Transient{Type: KindCameraUpdate},
			&Unsupported{Base: Base{ID: "c"}, Type: "frame"},
		},
	}

	visible := s.Visible()
	if len(visible) != 3 {
		t.Fatalf("Visible() returned %d elements, want 3", len(visible))
	}
	ids := []string{"a", "b", "c"}
	for i, el := range visible {
		if el.Common().ID != ids[i] {
			t.Errorf("element %d has id %q, want %q", i, el.Common().ID, ids[i])
		}
	}
}

func TestSceneEcho(t *testing.T) {
	s := &Scene{
		RawElements: []json.RawMessage{
			json.RawMessage(`{"type":"rectangle","x":0,"y":0}`),
		},
		RawAppState: json.RawMessage(`{"viewBackgroundColor":"#fafafa"}`),
	}

	data, err := s.Echo()
	if err != nil {
		t.Fatalf("Echo() error = %v", err)
	}

	expected := `{"elements":[{"type":"rectangle","x":0,"y":0}],"appState":{"viewBackgroundColor":"#fafafa"},"files":{}}`
	if string(data) != expected {
		t.Errorf("Echo() = %s, want %s", data, expected)
	}
}

func TestSceneEchoEmpty(t *testing.T) {
	data, err := (&Scene{}).Echo()
	if err != nil {
		t.Fatalf("Echo() error = %v", err)
	}
	if string(data) != `{"elements":[],"appState":{},"files":{}}` {
		t.Errorf("Echo() = %s", data)
	}
}

func TestSceneEchoKeepsMarkupCharacters(t *testing.T) {
	s := &Scene{
		RawElements: []json.RawMessage{
			json.RawMessage(`{"type":"text","text":"a<b && c>d"}`),
		},
	}

	data, err := s.Echo()
	if err != nil {
		t.Fatalf("Echo() error = %v", err)
	}

	expected := `{"elements":[{"type":"text","text":"a<b && c>d"}],"appState":{},"files":{}}`
	if string(data) != expected {
		t.Errorf("Echo() = %s, want %s", data, expected)
	}
}
