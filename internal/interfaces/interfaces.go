// Package interfaces defines interfaces for dependency injection and testing
package interfaces

import (
	"context"
	"time"

	"github.com/ankek/terraform-provider-sketch/internal/parser"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// SceneLoader defines the interface for reading scenes from files, inline
// JSON or remote URLs
type SceneLoader interface {
	// LoadScene reads and decodes the scene named by src
	LoadScene(ctx context.Context, src parser.SceneSource) (*scene.Scene, error)
}

// SceneRenderer defines the interface for rendering scenes
type SceneRenderer interface {
	// Render encodes the scene in opts.Format
	Render(ctx context.Context, sc *scene.Scene, opts renderer.RenderOptions) ([]byte, error)

	// Bounds computes the surface geometry used by Render
	Bounds(sc *scene.Scene, opts renderer.RenderOptions) (renderer.Bounds, error)
}

// PathValidator defines the interface for validating file paths and URLs
type PathValidator interface {
	// ValidateOutputPath validates an output path for security and accessibility
	ValidateOutputPath(path string) error

	// ValidateInputPath validates a scene file path
	ValidateInputPath(path string) error

	// ValidateSceneURL validates a remote scene location
	ValidateSceneURL(url string) error
}

// ImageGenerator defines the interface for generating images
type ImageGenerator interface {
	// Generate renders a scene and optionally writes it to disk
	Generate(ctx context.Context, cfg RenderConfig) (*GenerateResult, error)
}

// RenderConfig contains all configuration needed to render a scene
type RenderConfig struct {
	Source        parser.SceneSource
	OutputPath    string
	Format        string
	Scale         float64
	Padding       *float64
	UseEngine     bool
	EngineTimeout time.Duration
}

// GenerateResult contains the results of rendering
type GenerateResult struct {
	ElementCount int64
	Width        float64
	Height       float64
	Content      []byte
	OutputPath   string
}
