package provider

import (
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/ankek/terraform-provider-sketch/internal/parser"
)

// sceneSourceFrom maps the scene_path, scene_json and scene_url attributes
// onto a parser.SceneSource. Null and unknown values are left empty.
func sceneSourceFrom(scenePath, sceneJSON, sceneURL types.String) parser.SceneSource {
	return parser.SceneSource{
		Path: knownString(scenePath),
		JSON: knownString(sceneJSON),
		URL:  knownString(sceneURL),
	}
}

// newSceneLoader creates a loader that authenticates remote scene fetches
// with the provider's scene token
func newSceneLoader(providerConfig *ProviderConfig) *parser.Loader {
	loader := &parser.Loader{}
	if providerConfig != nil {
		loader.Token = providerConfig.SceneToken
	}
	return loader
}

// sourceLabel describes where a scene came from for logs and diagnostics
func sourceLabel(src parser.SceneSource) string {
	switch {
	case src.Path != "":
		return src.Path
	case src.URL != "":
		return src.URL
	case src.JSON != "":
		return "inline JSON"
	default:
		return "none"
	}
}

func knownString(v types.String) string {
	if v.IsNull() || v.IsUnknown() {
		return ""
	}
	return v.ValueString()
}
