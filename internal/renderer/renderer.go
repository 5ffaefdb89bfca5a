// Package renderer turns a parsed scene into SVG, PNG or PDF bytes, or echoes
// it back as JSON. Drawing goes through the Surface interface, with one
// implementation per output format, and can hand SVG markup to an external
// Engine for rasterization.
package renderer

import (
	"context"
	"time"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// RenderOptions contains configuration for rendering
type RenderOptions struct {
	Format        string  // "svg", "png", "pdf" or "json"
	Scale         float64 // device pixels per scene unit
	Padding       *float64
	Engine        Engine // optional, used for png
	EngineTimeout time.Duration
}

// DefaultRenderOptions returns svg at scale 1 with the default padding
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Format:        FormatSVG,
		Scale:         1,
		EngineTimeout: DefaultEngineTimeout,
	}
}

func (o RenderOptions) padding() float64 {
	if o.Padding != nil && *o.Padding >= 0 {
		return *o.Padding
	}
	return DefaultPadding
}

// SceneRenderer renders scenes with RenderScene
type SceneRenderer struct{}

// NewSceneRenderer creates a new SceneRenderer
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{}
}

// Render renders sc and returns the encoded bytes.
// It respects the provided context for cancellation.
func (r *SceneRenderer) Render(ctx context.Context, sc *scene.Scene, opts RenderOptions) ([]byte, error) {
	return RenderScene(ctx, sc, opts)
}

// Bounds computes the surface geometry for sc
func (r *SceneRenderer) Bounds(sc *scene.Scene, opts RenderOptions) (Bounds, error) {
	return SceneBounds(sc, opts)
}
