package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/ankek/terraform-provider-sketch/internal/parser"
)

func TestSceneSourceFrom(t *testing.T) {
	tests := []struct {
		name     string
		path     types.String
		json     types.String
		url      types.String
		expected parser.SceneSource
	}{
		{
			name:     "path",
			path:     types.StringValue("scene.excalidraw"),
			json:     types.StringNull(),
			url:      types.StringNull(),
			expected: parser.SceneSource{Path: "scene.excalidraw"},
		},
		{
			name:     "unknown values are ignored",
			path:     types.StringUnknown(),
			json:     types.StringValue("{}"),
			url:      types.StringUnknown(),
			expected: parser.SceneSource{JSON: "{}"},
		},
		{
			name:     "url",
			path:     types.StringNull(),
			json:     types.StringNull(),
			url:      types.StringValue("https://example.com/s.json"),
			expected: parser.SceneSource{URL: "https://example.com/s.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sceneSourceFrom(tt.path, tt.json, tt.url)
			if got != tt.expected {
				t.Errorf("sceneSourceFrom() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		src      parser.SceneSource
		expected string
	}{
		{parser.SceneSource{Path: "a.hcl"}, "a.hcl"},
		{parser.SceneSource{URL: "https://x/y"}, "https://x/y"},
		{parser.SceneSource{JSON: "{}"}, "inline JSON"},
		{parser.SceneSource{}, "none"},
	}

	for _, tt := range tests {
		if got := sourceLabel(tt.src); got != tt.expected {
			t.Errorf("sourceLabel(%+v) = %q, want %q", tt.src, got, tt.expected)
		}
	}
}

func TestNewSceneLoader_ProviderConfig(t *testing.T) {
	// Test that the scene token reaches remote fetches
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(testScene))
	}))
	defer server.Close()

	loader := newSceneLoader(&ProviderConfig{SceneToken: "scene-secret"})
	sc, err := loader.LoadScene(context.Background(), parser.SceneSource{URL: server.URL})
	if err != nil {
		t.Fatalf("LoadScene() error = %v", err)
	}

	if gotAuth != "Bearer scene-secret" {
		t.Errorf("Authorization = %q, want bearer scene token", gotAuth)
	}
	if len(sc.Elements) != 3 {
		t.Errorf("LoadScene() got %d elements, want 3", len(sc.Elements))
	}

	if newSceneLoader(nil).Token != "" {
		t.Error("nil provider config must not set a token")
	}
}

func TestNewSceneLoader_HCLFile(t *testing.T) {
	tmpDir := t.TempDir()
	sceneFile := filepath.Join(tmpDir, "scene.hcl")
	content := `
element "rectangle" {
  x      = 0
  y      = 0
  width  = 100
  height = 50
}
`
	if err := os.WriteFile(sceneFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create scene file: %v", err)
	}

	sc, err := newSceneLoader(nil).LoadScene(context.Background(), parser.SceneSource{Path: sceneFile})
	if err != nil {
		t.Fatalf("LoadScene() error = %v", err)
	}
	if len(sc.Elements) != 1 {
		t.Errorf("LoadScene() got %d elements, want 1", len(sc.Elements))
	}
}
