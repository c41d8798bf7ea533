// Package docs serves the embedded OpenAPI specification and a Swagger UI
// page for browsing it.
package docs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var specYAML []byte

// Handler serves /openapi.json and /docs from the embedded specification.
// The spec is parsed and validated once at construction time.
type Handler struct {
	specJSON []byte
}

// NewHandler loads, validates and caches the embedded specification.
func NewHandler() (*Handler, error) {
	doc, jsonData, err := loadSpec()
	if err != nil {
		return nil, err
	}

	loader := openapi3.NewLoader()
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	return &Handler{specJSON: jsonData}, nil
}

// Spec returns the parsed document, mostly useful for tests and tooling.
func Spec() (*openapi3.T, error) {
	doc, _, err := loadSpec()
	return doc, err
}

func loadSpec() (*openapi3.T, []byte, error) {
	// kin-openapi wants JSON, the embedded document is YAML.
	var specData interface{}
	if err := yaml.Unmarshal(specYAML, &specData); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	jsonData, err := json.Marshal(specData)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to convert to JSON: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(jsonData)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}

	return doc, jsonData, nil
}

// ServeSpec responds to GET /openapi.json
func (h *Handler) ServeSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(h.specJSON)
}

// ServeUI responds to GET /docs with a Swagger UI page pointed at the
// embedded spec.
func (h *Handler) ServeUI(w http.ResponseWriter, _ *http.Request) {
	const html = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>TaskTrack API Documentation</title>
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@4/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@4/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: "/openapi.json",
                dom_id: '#swagger-ui',
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                layout: "StandaloneLayout"
            });
        }
    </script>
</body>
</html>
`
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(html))
}
