// Package openapi describes the persisted presentation layout as JSON Schema
// and wraps it in an OpenAPI 3 document.
package openapi

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

var (
	timeType      = reflect.TypeOf(time.Time{})
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

// Generate returns a JSON Schema for the Go type of value, honouring json
// tags. Slices are described from their element type, so an empty or nil
// slice still reports its item schema.
func Generate(value any) (map[string]any, error) {
	if value == nil {
		return map[string]any{"type": "null"}, nil
	}
	return schemaForType(reflect.TypeOf(value), map[reflect.Type]bool{})
}

func schemaForType(rt reflect.Type, visiting map[reflect.Type]bool) (map[string]any, error) {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	switch rt.Kind() {
	case reflect.Interface:
		return map[string]any{}, nil
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		if rt == timeType {
			return map[string]any{"type": "string", "format": "date-time"}, nil
		}
		if visiting[rt] {
			return nil, fmt.Errorf("openapi: recursive type %s unsupported", rt)
		}
		visiting[rt] = true
		defer delete(visiting, rt)
		return schemaForStruct(rt, visiting)
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("openapi: map key type %s unsupported", rt.Key())
		}
		values, err := schemaForType(rt.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "object", "additionalProperties": values}, nil
	case reflect.Slice, reflect.Array:
		if rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8 {
			return map[string]any{"type": "string", "format": "byte"}, nil
		}
		items, err := schemaForType(rt.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "array", "items": items}, nil
	default:
		return nil, fmt.Errorf("openapi: kind %s unsupported", rt.Kind())
	}
}

func schemaForStruct(rt reflect.Type, visiting map[reflect.Type]bool) (map[string]any, error) {
	properties := map[string]any{}
	var required []string

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		optional := false
		if tag := field.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, flag := range parts[1:] {
				if flag == "omitempty" || flag == "omitzero" {
					optional = true
				}
			}
		}

		child, err := schemaForType(field.Type, visiting)
		if err != nil {
			return nil, fmt.Errorf("openapi: field %s: %w", field.Name, err)
		}
		properties[name] = child
		if !optional {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sort.Strings(required)
		schema["required"] = required
	}
	if rt.Implements(marshalerType) || reflect.PointerTo(rt).Implements(marshalerType) {
		schema["x-go-json-marshaler"] = true
	}
	return schema, nil
}
