package presentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-presentation/internal/hydrate"
	"github.com/goliatone/go-presentation/layering"
)

// ClassName is the $class discriminator of the persisted layout.
const ClassName = "PresentationState"

// ErrInvalidClassJSON reports a payload that does not match the persisted layout.
var ErrInvalidClassJSON = errors.New("presentation: invalid class json")

// ClassJSON is the portable form of a State:
//
//	{"$class": "PresentationState", "columnOrder": ["colA", "colB"]}
//
// A nil ColumnOrder means the field is absent; an empty non-nil slice is an
// explicit empty order and is encoded as [].
type ClassJSON struct {
	Class       string   `json:"$class"`
	ColumnOrder []string `json:"columnOrder,omitempty"`
}

// MarshalJSON encodes the layout, defaulting $class and keeping explicit
// empty orders.
func (c ClassJSON) MarshalJSON() ([]byte, error) {
	payload := struct {
		Class       string    `json:"$class"`
		ColumnOrder *[]string `json:"columnOrder,omitempty"`
	}{Class: c.Class}
	if payload.Class == "" {
		payload.Class = ClassName
	}
	if c.ColumnOrder != nil {
		order := c.ColumnOrder
		payload.ColumnOrder = &order
	}
	return json.Marshal(payload)
}

// UnmarshalJSON decodes the layout and fails closed on unknown fields, a
// missing or foreign $class, and a null columnOrder.
func (c *ClassJSON) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClassJSON, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: payload is null", ErrInvalidClassJSON)
	}

	var decoded ClassJSON
	for key, raw := range fields {
		switch key {
		case "$class":
			if err := json.Unmarshal(raw, &decoded.Class); err != nil {
				return fmt.Errorf("%w: $class: %v", ErrInvalidClassJSON, err)
			}
		case "columnOrder":
			if isJSONNull(raw) {
				return fmt.Errorf("%w: columnOrder is null", ErrInvalidClassJSON)
			}
			order, err := decodeColumnOrder(raw)
			if err != nil {
				return err
			}
			decoded.ColumnOrder = order
		default:
			return fmt.Errorf("%w: unknown field %q", ErrInvalidClassJSON, key)
		}
	}
	if err := decoded.validate(); err != nil {
		return err
	}
	*c = decoded
	return nil
}

// decodeColumnOrder decodes element by element so a null entry is rejected
// instead of becoming "".
func decodeColumnOrder(raw json.RawMessage) ([]string, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("%w: columnOrder: %v", ErrInvalidClassJSON, err)
	}
	order := make([]string, len(elements))
	for i, element := range elements {
		if isJSONNull(element) {
			return nil, fmt.Errorf("%w: columnOrder[%d] is null", ErrInvalidClassJSON, i)
		}
		if err := json.Unmarshal(element, &order[i]); err != nil {
			return nil, fmt.Errorf("%w: columnOrder[%d]: %v", ErrInvalidClassJSON, i, err)
		}
	}
	return order, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (c ClassJSON) validate() error {
	switch c.Class {
	case ClassName:
		return nil
	case "":
		return fmt.Errorf("%w: missing $class", ErrInvalidClassJSON)
	default:
		return fmt.Errorf("%w: unexpected $class %q", ErrInvalidClassJSON, c.Class)
	}
}

// FromJSON builds a State from its portable form. When payload carries a column
// order, SetColumnOrder runs with a nil detail, so listeners registered via
// WithListener see the same event pair a live change produces. Their errors
// are returned as-is. An empty Class is accepted for in-memory values.
func FromJSON(payload ClassJSON, opts ...Option) (*State, error) {
	if payload.Class != "" {
		if err := payload.validate(); err != nil {
			return nil, err
		}
	}
	state := New(opts...)
	if payload.ColumnOrder != nil {
		if err := state.SetColumnOrder(payload.ColumnOrder, nil); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// ToJSON returns the portable form. ColumnOrder is only present once an order
// has been set.
func (s *State) ToJSON() ClassJSON {
	return ClassJSON{
		Class:       ClassName,
		ColumnOrder: layering.CloneStrings(s.columnOrder),
	}
}

// MarshalJSON implements json.Marshaler.
func (s *State) MarshalJSON() ([]byte, error) {
	return s.ToJSON().MarshalJSON()
}

// Decode parses an encoded ClassJSON document and builds a State from it.
func Decode(data []byte, opts ...Option) (*State, error) {
	var payload ClassJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		if errors.Is(err, ErrInvalidClassJSON) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidClassJSON, err)
	}
	return FromJSON(payload, opts...)
}

// ToMap returns the portable form as a JSON-compatible map.
func (s *State) ToMap() map[string]any {
	out := map[string]any{"$class": ClassName}
	if s.columnOrder != nil {
		out["columnOrder"] = layering.CloneStrings(s.columnOrder)
	}
	return out
}

var mapDecoder = hydrate.NewDecoder(
	hydrate.WithPreHook[ClassJSON](requireClass),
	hydrate.WithPostHook[ClassJSON](func(_ hydrate.Context, value *ClassJSON) error {
		return value.validate()
	}),
)

// requireClass rejects maps without a PresentationState $class before any
// field is decoded.
func requireClass(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	raw, ok := payload["$class"]
	if !ok {
		return nil, fmt.Errorf("%w: missing $class", ErrInvalidClassJSON)
	}
	class, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: $class must be a string, got %T", ErrInvalidClassJSON, raw)
	}
	if class != ClassName {
		return nil, fmt.Errorf("%w: unexpected $class %q", ErrInvalidClassJSON, class)
	}
	return nil, nil
}

// FromMap builds a State from a JSON-compatible map such as the one ToMap
// returns or one produced by encoding/json.
func FromMap(payload map[string]any, opts ...Option) (*State, error) {
	decoded, err := mapDecoder.Decode(hydrate.Context{Class: ClassName}, payload)
	if err != nil {
		if errors.Is(err, ErrInvalidClassJSON) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidClassJSON, err)
	}
	return FromJSON(decoded, opts...)
}
