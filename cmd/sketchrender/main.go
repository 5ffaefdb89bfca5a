// Command sketchrender renders a scene file to SVG, PNG, PDF or JSON outside
// of Terraform.
//
//	sketchrender -in scene.excalidraw -out scene.png -scale 2
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ankek/terraform-provider-sketch/internal/parser"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
	"github.com/ankek/terraform-provider-sketch/internal/validation"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sketchrender", flag.ContinueOnError)
	fs.SetOutput(stderr)

	in := fs.String("in", "", "scene file, http(s) URL, or - for stdin")
	out := fs.String("out", "", "output file (default stdout)")
	format := fs.String("format", "", "svg, png, pdf or json (default from -out extension, else svg)")
	scale := fs.Float64("scale", 1, "device pixels per scene unit")
	padding := fs.Float64("padding", renderer.DefaultPadding, "margin around the scene")
	engineURL := fs.String("engine", os.Getenv("SKETCH_ENGINE_URL"), "screenshot engine URL used for png")
	timeout := fs.Duration("timeout", renderer.DefaultEngineTimeout, "engine timeout")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *in == "" {
		fmt.Fprintln(stderr, "Error: -in is required")
		fs.Usage()
		return 2
	}

	req, err := loadRequest(ctx, *in, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading scene: %v\n", err)
		return 1
	}

	opts := renderer.RenderOptions{
		Format:        resolveFormat(*format, req.Format, *out),
		Scale:         req.Scale,
		Padding:       padding,
		EngineTimeout: *timeout,
	}
	if flagSet(fs, "scale") {
		opts.Scale = *scale
	}
	if *engineURL != "" {
		opts.Engine = &renderer.HTTPEngine{
			URL:     *engineURL,
			Token:   os.Getenv("SKETCH_ENGINE_TOKEN"),
			Timeout: *timeout,
		}
	}

	if *out == "" {
		data, err := renderer.RenderScene(ctx, req.Scene, opts)
		if err != nil {
			printFailure(stderr, err)
			return 1
		}
		if _, err := stdout.Write(data); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			return 1
		}
		return 0
	}

	if err := validation.ValidateOutputPath(*out); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	data, err := renderer.ExportScene(ctx, req.Scene, *out, opts)
	if err != nil {
		printFailure(stderr, err)
		return 1
	}
	fmt.Fprintf(stderr, "Wrote %d bytes to %s\n", len(data), *out)
	return 0
}

func printFailure(w io.Writer, err error) {
	f := renderer.Describe(err)
	fmt.Fprintf(w, "%s: %s\n", f.Kind, f.Message)
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// loadRequest reads a render request from stdin, a URL or a file. JSON inputs
// may carry format and scale next to the scene; HCL scene files never do.
func loadRequest(ctx context.Context, in string, stdin io.Reader) (*parser.Request, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case in == "-":
		data, err = io.ReadAll(stdin)
	case strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://"):
		data, err = parser.FetchScene(ctx, parser.RemoteSceneConfig{
			URL:     in,
			Token:   os.Getenv("SKETCH_SCENE_TOKEN"),
			Timeout: 30 * time.Second,
		})
	default:
		if err := validation.ValidateInputPath(in); err != nil {
			return nil, err
		}
		if strings.EqualFold(filepath.Ext(in), ".hcl") {
			sc, err := parser.ParseSceneFile(ctx, in)
			if err != nil {
				return nil, err
			}
			return &parser.Request{Scene: sc, Scale: 1}, nil
		}
		data, err = os.ReadFile(in)
	}
	if err != nil {
		return nil, err
	}

	return parser.ParseRequest(data)
}

// resolveFormat prefers the explicit flag, then the request's own format,
// then the output extension
func resolveFormat(flagValue, requested, out string) string {
	if flagValue != "" {
		return flagValue
	}
	if requested != "" {
		return requested
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), "."); ext != "" {
		return ext
	}
	return renderer.FormatSVG
}
