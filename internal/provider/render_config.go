package provider

import (
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
)

// renderConfigFrom collects the attributes shared by sketch_render and
// sketch_image, with defaults applied
func renderConfigFrom(scenePath, sceneJSON, sceneURL, outputPath, format types.String, scale, padding types.Float64, useEngine types.Bool) interfaces.RenderConfig {
	cfg := interfaces.RenderConfig{
		Source:     sceneSourceFrom(scenePath, sceneJSON, sceneURL),
		OutputPath: knownString(outputPath),
		Format:     renderer.FormatSVG,
		Scale:      1,
		UseEngine:  !useEngine.IsNull() && !useEngine.IsUnknown() && useEngine.ValueBool(),
	}

	if f := knownString(format); f != "" {
		cfg.Format = f
	}
	if !scale.IsNull() && !scale.IsUnknown() {
		cfg.Scale = scale.ValueFloat64()
	}
	if !padding.IsNull() && !padding.IsUnknown() {
		p := padding.ValueFloat64()
		cfg.Padding = &p
	}

	return cfg
}

// addRenderError turns a render failure into a diagnostic whose summary
// names the failure kind
func addRenderError(diags *diag.Diagnostics, err error) {
	var summary string
	switch renderer.Describe(err).Kind {
	case renderer.FailureInvalidScene:
		summary = "Invalid scene"
	case renderer.FailureUnsupportedFormat:
		summary = "Unsupported output format"
	case renderer.FailureExternalResource:
		summary = "Rendering engine failed"
	default:
		summary = "Failed to render scene"
	}
	diags.AddError(summary, err.Error())
}
