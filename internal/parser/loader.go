package parser

import (
	"context"
	"fmt"
	"time"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// SceneSource names where a scene comes from. Exactly one field must be set.
type SceneSource struct {
	Path string // Local .json/.excalidraw/.hcl file
	JSON string // Inline JSON document
	URL  string // Remote JSON document
}

// Loader resolves a SceneSource into a parsed scene
type Loader struct {
	Token    string
	RetryMax int
	Timeout  time.Duration
}

// LoadScene parses the scene named by src.
func (l *Loader) LoadScene(ctx context.Context, src SceneSource) (*scene.Scene, error) {
	set := 0
	for _, v := range []string{src.Path, src.JSON, src.URL} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of scene path, inline JSON or URL must be provided (got %d)", set)
	}

	switch {
	case src.Path != "":
		return ParseSceneFile(ctx, src.Path)
	case src.JSON != "":
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		return ParseScene([]byte(src.JSON))
	default:
		return LoadRemoteScene(ctx, RemoteSceneConfig{
			URL:      src.URL,
			Token:    l.Token,
			RetryMax: l.RetryMax,
			Timeout:  l.Timeout,
		})
	}
}
