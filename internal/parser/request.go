package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// Request is a single render call: a scene plus the requested output.
type Request struct {
	Scene  *scene.Scene
	Format string
	Scale  float64
}

type requestDocument struct {
	sceneDocument
	Format string   `json:"format"`
	Scale  *float64 `json:"scale"`
}

// ParseRequest decodes {elements, appState?, files?, format, scale?}.
// A missing or non-array elements field is reported as a request error.
func ParseRequest(data []byte) (*Request, error) {
	var doc requestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	s, err := buildScene(doc.sceneDocument)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	req := &Request{
		Scene:  s,
		Format: strings.ToLower(strings.TrimSpace(doc.Format)),
		Scale:  1,
	}
	if doc.Scale != nil {
		if *doc.Scale <= 0 {
			return nil, fmt.Errorf("invalid request: scale must be positive, got %v", *doc.Scale)
		}
		req.Scale = *doc.Scale
	}

	return req, nil
}
