// Package provider implements the Terraform provider for sketch scene rendering.
// It provides both resource and data source implementations that turn
// diagram scenes into SVG, PNG, PDF or JSON output.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
	"github.com/ankek/terraform-provider-sketch/internal/validation"
)

// ImageGenerator handles the core logic of rendering scenes.
// It is shared between the resource and data source implementations.
type ImageGenerator struct {
	loader    interfaces.SceneLoader
	renderer  interfaces.SceneRenderer
	validator interfaces.PathValidator
	engine    renderer.Engine
	timeout   time.Duration
	padding   *float64
}

var _ interfaces.ImageGenerator = (*ImageGenerator)(nil)

// NewImageGenerator wires the default loader, renderer and validator together
// with the provider configuration, which may be nil.
func NewImageGenerator(providerConfig *ProviderConfig) *ImageGenerator {
	g := &ImageGenerator{
		loader:    newSceneLoader(providerConfig),
		renderer:  renderer.NewSceneRenderer(),
		validator: validation.Validator{},
	}
	if providerConfig != nil {
		g.engine = providerConfig.Engine
		g.timeout = providerConfig.EngineTimeout
		g.padding = providerConfig.DefaultPadding
	}
	return g
}

// Generate renders a scene and writes it to cfg.OutputPath when one is set.
//
// It performs the following steps:
//  1. Validates the scene source and output path
//  2. Loads and decodes the scene
//  3. Renders, optionally through the external engine
//  4. Reports the surface geometry (skipped for json) and writes the output
func (g *ImageGenerator) Generate(ctx context.Context, cfg interfaces.RenderConfig) (*interfaces.GenerateResult, error) {
	if cfg.OutputPath != "" {
		if err := g.validator.ValidateOutputPath(cfg.OutputPath); err != nil {
			return nil, fmt.Errorf("invalid output path: %w", err)
		}
	}

	if cfg.Source.Path != "" {
		if err := g.validator.ValidateInputPath(cfg.Source.Path); err != nil {
			return nil, fmt.Errorf("invalid scene path: %w", err)
		}
	} else if cfg.Source.URL != "" {
		if err := g.validator.ValidateSceneURL(cfg.Source.URL); err != nil {
			return nil, fmt.Errorf("invalid scene URL: %w", err)
		}
	}

	sc, err := g.loader.LoadScene(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene from %s: %w", sourceLabel(cfg.Source), err)
	}

	opts, err := g.renderOptions(cfg)
	if err != nil {
		return nil, err
	}

	result := &interfaces.GenerateResult{
		ElementCount: int64(len(sc.Visible())),
		OutputPath:   cfg.OutputPath,
	}

	content, err := g.renderer.Render(ctx, sc, opts)
	if err != nil {
		return nil, err
	}
	result.Content = content

	if opts.Format != renderer.FormatJSON {
		b, err := g.renderer.Bounds(sc, opts)
		if err != nil {
			return nil, err
		}
		result.Width = b.Width * opts.Scale
		result.Height = b.Height * opts.Scale
	}

	if cfg.OutputPath != "" {
		if err := renderer.WriteOutput(cfg.OutputPath, content); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", cfg.OutputPath, err)
		}
	}

	tflog.Info(ctx, "Rendered scene", map[string]interface{}{
		"source":        sourceLabel(cfg.Source),
		"format":        opts.Format,
		"element_count": result.ElementCount,
		"bytes":         len(content),
		"output_path":   cfg.OutputPath,
	})

	return result, nil
}

// renderOptions applies defaults and resolves the engine request
func (g *ImageGenerator) renderOptions(cfg interfaces.RenderConfig) (renderer.RenderOptions, error) {
	opts := renderer.DefaultRenderOptions()
	if cfg.Format != "" {
		opts.Format = cfg.Format
	}
	if cfg.Scale > 0 {
		opts.Scale = cfg.Scale
	}
	opts.Padding = g.padding
	if cfg.Padding != nil {
		opts.Padding = cfg.Padding
	}
	if g.timeout > 0 {
		opts.EngineTimeout = g.timeout
	}
	if cfg.EngineTimeout > 0 {
		opts.EngineTimeout = cfg.EngineTimeout
	}

	if cfg.UseEngine {
		if g.engine == nil {
			return opts, fmt.Errorf("use_engine is set but the provider has no engine_url")
		}
		if opts.Format != renderer.FormatPNG {
			return opts, fmt.Errorf("use_engine only applies to png output, got %q", opts.Format)
		}
		opts.Engine = g.engine
	}

	return opts, nil
}
