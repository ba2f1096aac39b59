package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Marshal renders doc as YAML when format is "yaml" or "yml" and as indented
// JSON otherwise.
func Marshal(doc *openapi3.T, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Marshal(doc)
	default:
		return json.MarshalIndent(doc, "", "  ")
	}
}

// WriteFile writes doc to path, choosing the encoding from the extension.
func WriteFile(doc *openapi3.T, path string) error {
	b, err := Marshal(doc, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil { //nolint:gosec // generated documentation is world readable
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
