package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var emptyObject = json.RawMessage(`{}`)

// echoDocument is the structural echo returned for the "json" format.
type echoDocument struct {
	Elements []json.RawMessage `json:"elements"`
	AppState json.RawMessage   `json:"appState"`
	Files    json.RawMessage   `json:"files"`
}

// Echo returns {elements, appState, files} exactly as they were supplied.
// Missing appState or files are echoed as empty objects.
func (s *Scene) Echo() ([]byte, error) {
	doc := echoDocument{
		Elements: s.RawElements,
		AppState: s.RawAppState,
		Files:    s.RawFiles,
	}
	if doc.Elements == nil {
		doc.Elements = []json.RawMessage{}
	}
	if len(doc.AppState) == 0 {
		doc.AppState = emptyObject
	}
	if len(doc.Files) == 0 {
		doc.Files = emptyObject
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode scene echo: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
