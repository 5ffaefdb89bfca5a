package parser

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

var sceneFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "app_state"},
		{Type: "element", LabelNames: []string{"type"}},
		{Type: "file", LabelNames: []string{"id"}},
	},
}

var elementBodySchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "label"},
		{Type: "roundness"},
	},
}

// ParseSceneHCL parses an HCL scene document:
//
//	app_state {
//	  view_background_color = "#ffffff"
//	}
//
//	element "rectangle" {
//	  x      = 0
//	  y      = 0
//	  width  = 100
//	  height = 50
//	  label {
//	    text = "hello"
//	  }
//	}
//
// Attribute names are snake_case versions of the JSON field names. Each block
// is converted to its JSON form first so both formats share one decoder and
// the json format echoes HCL scenes the same way.
func ParseSceneHCL(filename string, data []byte) (*scene.Scene, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("HCL parse errors: %s", diags.Error())
	}

	content, diags := file.Body.Content(sceneFileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scene body: %s", diags.Error())
	}

	elements := []json.RawMessage{}
	var appState json.RawMessage
	files := map[string]interface{}{}

	for _, block := range content.Blocks {
		switch block.Type {
		case "app_state":
			attrs, err := blockAttributes(block.Body)
			if err != nil {
				return nil, fmt.Errorf("app_state: %w", err)
			}
			if appState, err = json.Marshal(attrs); err != nil {
				return nil, fmt.Errorf("app_state: %w", err)
			}

		case "element":
			attrs, err := elementAttributes(block)
			if err != nil {
				return nil, fmt.Errorf("element %q at %s: %w", block.Labels[0], block.DefRange, err)
			}
			raw, err := json.Marshal(attrs)
			if err != nil {
				return nil, fmt.Errorf("element %q: %w", block.Labels[0], err)
			}
			elements = append(elements, raw)

		case "file":
			attrs, err := blockAttributes(block.Body)
			if err != nil {
				return nil, fmt.Errorf("file %q: %w", block.Labels[0], err)
			}
			files[block.Labels[0]] = attrs
		}
	}

	doc := sceneDocument{
		Elements: &elements,
		AppState: appState,
	}
	if len(files) > 0 {
		raw, err := json.Marshal(files)
		if err != nil {
			return nil, fmt.Errorf("files: %w", err)
		}
		doc.Files = raw
	}

	return buildScene(doc)
}

// elementAttributes flattens an element block with its nested label and
// roundness blocks into a JSON-shaped map
func elementAttributes(block *hcl.Block) (map[string]interface{}, error) {
	content, remain, diags := block.Body.PartialContent(elementBodySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse body: %s", diags.Error())
	}

	if syntaxBody, ok := block.Body.(*hclsyntax.Body); ok {
		for _, nested := range syntaxBody.Blocks {
			if nested.Type != "label" && nested.Type != "roundness" {
				return nil, fmt.Errorf("unsupported block %q at %s", nested.Type, nested.TypeRange)
			}
		}
	}

	attrs, err := blockAttributes(remain)
	if err != nil {
		return nil, err
	}
	attrs["type"] = block.Labels[0]

	for _, nested := range content.Blocks {
		nestedAttrs, err := blockAttributes(nested.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", nested.Type, err)
		}
		attrs[camelKey(nested.Type)] = nestedAttrs
	}

	return attrs, nil
}

// blockAttributes evaluates every attribute of a body without an evaluation
// context; scene files are plain data. Native syntax bodies are walked
// directly so nested blocks already taken by a schema are skipped.
func blockAttributes(body hcl.Body) (map[string]interface{}, error) {
	if syntaxBody, ok := body.(*hclsyntax.Body); ok {
		return syntaxAttributes(syntaxBody)
	}

	hclAttrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse attributes: %s", diags.Error())
	}

	attrs := make(map[string]interface{}, len(hclAttrs))
	for name, attr := range hclAttrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %q: %s", name, diags.Error())
		}
		attrs[camelKey(name)] = ctyToInterface(val)
	}

	return attrs, nil
}

func syntaxAttributes(body *hclsyntax.Body) (map[string]interface{}, error) {
	attrs := make(map[string]interface{}, len(body.Attributes))
	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %q: %s", name, diags.Error())
		}
		attrs[camelKey(name)] = ctyToInterface(val)
	}
	return attrs, nil
}
