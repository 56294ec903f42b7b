package openapi

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-presentation"
)

// ComponentName is the components/schemas key of the presentation layout.
const ComponentName = "PresentationState"

// PresentationStateSchema returns the closed JSON Schema of
// presentation.ClassJSON.
func PresentationStateSchema() map[string]any {
	return map[string]any{
		"type":  "object",
		"title": presentation.ClassName,
		"properties": map[string]any{
			"$class": map[string]any{
				"type": "string",
				"enum": []any{presentation.ClassName},
			},
			"columnOrder": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Presentation order of column identifiers. Omitted when never set.",
			},
		},
		"required":             []string{"$class"},
		"additionalProperties": false,
	}
}

// DocumentOption configures Document.
type DocumentOption func(*documentConfig)

type documentConfig struct {
	version     string
	title       string
	apiVersion  string
	description string
	path        string
}

// WithInfo sets the info block.
func WithInfo(title, version, description string) DocumentOption {
	return func(cfg *documentConfig) {
		if title != "" {
			cfg.title = title
		}
		if version != "" {
			cfg.apiVersion = version
		}
		cfg.description = description
	}
}

// WithPath sets the resource path. It must contain a {domain} parameter.
func WithPath(path string) DocumentOption {
	return func(cfg *documentConfig) {
		if path != "" {
			cfg.path = path
		}
	}
}

// Document returns an OpenAPI 3 document exposing the layout as a component
// plus GET and PUT operations on a per-domain resource.
func Document(opts ...DocumentOption) (map[string]any, error) {
	cfg := documentConfig{
		version:    "3.0.3",
		title:      "Presentation State",
		apiVersion: "1.0.0",
		path:       "/presentation/{domain}",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !strings.Contains(cfg.path, "{domain}") {
		return nil, fmt.Errorf("openapi: path %q must contain {domain}", cfg.path)
	}

	ref := map[string]any{"$ref": "#/components/schemas/" + ComponentName}
	content := map[string]any{
		"application/json": map[string]any{"schema": ref},
	}
	parameters := []any{
		map[string]any{
			"name":     "domain",
			"in":       "path",
			"required": true,
			"schema":   map[string]any{"type": "string"},
		},
	}

	info := map[string]any{
		"title":   cfg.title,
		"version": cfg.apiVersion,
	}
	if cfg.description != "" {
		info["description"] = cfg.description
	}

	return map[string]any{
		"openapi": cfg.version,
		"info":    info,
		"paths": map[string]any{
			cfg.path: map[string]any{
				"parameters": parameters,
				"get": map[string]any{
					"operationId": "getPresentationState",
					"responses": map[string]any{
						"200": map[string]any{"description": "OK", "content": content},
						"404": map[string]any{"description": "Not found"},
					},
				},
				"put": map[string]any{
					"operationId": "putPresentationState",
					"requestBody": map[string]any{"required": true, "content": content},
					"responses": map[string]any{
						"204": map[string]any{"description": "Saved"},
						"409": map[string]any{"description": "ETag mismatch"},
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				ComponentName: PresentationStateSchema(),
			},
		},
	}, nil
}
