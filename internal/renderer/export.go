package renderer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// Output formats
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

var supportedFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

func supportedFormatList() string {
	return strings.Join(supportedFormats, ", ")
}

// SupportedFormats returns the recognized output formats
func SupportedFormats() []string {
	return append([]string(nil), supportedFormats...)
}

// Raster limits for png output, in device pixels
const (
	maxRasterSide   = 32768
	maxRasterPixels = 1 << 27
)

// checkRasterSize rejects scenes whose pixel grid cannot be allocated
func checkRasterSize(b Bounds, scale float64) error {
	w := math.Ceil(b.Width * scale)
	h := math.Ceil(b.Height * scale)
	if w > maxRasterSide || h > maxRasterSide || w*h > maxRasterPixels {
		return &InvalidSceneError{Reason: fmt.Sprintf("degenerate scene: %.0fx%.0f pixels exceeds the raster limit", w, h)}
	}
	return nil
}

// newSurface returns the drawing target for a format
func newSurface(format string) (Surface, error) {
	switch format {
	case FormatSVG:
		return NewSVGSurface(), nil
	case FormatPNG:
		return NewPNGSurface(), nil
	case FormatPDF:
		return NewPDFSurface(), nil
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

// RenderScene renders sc in the requested format. The json format echoes the
// scene without computing geometry. For png, a configured Engine rasterizes
// the SVG rendering instead of the built-in rasterizer.
func RenderScene(ctx context.Context, sc *scene.Scene, opts RenderOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = FormatSVG
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	tflog.Debug(ctx, "Rendering scene", map[string]interface{}{
		"format":        format,
		"element_count": len(sc.Elements),
		"scale":         scale,
	})

	if format == FormatJSON {
		return sc.Echo()
	}

	surfaceFormat := format
	if format == FormatPNG && opts.Engine != nil {
		surfaceFormat = FormatSVG
	}
	surface, err := newSurface(surfaceFormat)
	if err != nil {
		return nil, err
	}

	bounds, err := ComputeBounds(sc.Elements, opts.padding())
	if err != nil {
		return nil, err
	}
	if format == FormatPNG {
		if err := checkRasterSize(bounds, scale); err != nil {
			return nil, err
		}
	}

	Render(surface, sc.Elements, sc.AppState, bounds, scale)
	data, err := surface.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", surfaceFormat, err)
	}

	if surfaceFormat != format {
		data, err = screenshotWithEngine(ctx, opts.Engine, data, bounds, scale, opts.EngineTimeout)
		if err != nil {
			return nil, err
		}
	}

	tflog.Debug(ctx, "Rendered scene", map[string]interface{}{
		"format": format,
		"width":  bounds.Width * scale,
		"height": bounds.Height * scale,
		"bytes":  len(data),
	})

	return data, nil
}

// ExportScene renders sc and writes the result to outputPath. Nothing is
// written when rendering fails.
func ExportScene(ctx context.Context, sc *scene.Scene, outputPath string, opts RenderOptions) ([]byte, error) {
	data, err := RenderScene(ctx, sc, opts)
	if err != nil {
		return nil, err
	}

	if err := WriteOutput(outputPath, data); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return data, nil
}

// SceneBounds computes the bounds RenderScene would use for sc
func SceneBounds(sc *scene.Scene, opts RenderOptions) (Bounds, error) {
	return ComputeBounds(sc.Elements, opts.padding())
}
