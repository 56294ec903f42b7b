// Package hydrate turns JSON-like map payloads into typed values by
// round-tripping them through encoding/json with configurable hooks.
package hydrate

import (
	"encoding/json"
	"fmt"
)

// Context identifies the payload being decoded in error messages and hooks.
type Context struct {
	Class  string
	Source string
}

func (c Context) label() string {
	switch {
	case c.Source != "" && c.Class != "":
		return fmt.Sprintf("%s (%s)", c.Source, c.Class)
	case c.Source != "":
		return c.Source
	case c.Class != "":
		return c.Class
	default:
		return "payload"
	}
}

// PreHook may rewrite the payload before decoding. Returning nil keeps the
// current payload.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook validates or adjusts the decoded value.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts map payloads into T.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
}

// WithPreHook runs hook before decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.preHooks = append(d.preHooks, hook)
		}
	}
}

// WithPostHook runs hook after decoding.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.postHooks = append(d.postHooks, hook)
		}
	}
}

// NewDecoder builds a Decoder from opts.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T. The payload is copied first so hooks can
// mutate it freely.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T
	if payload == nil {
		return zero, fmt.Errorf("hydrate: %s is nil", ctx.label())
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: encode %s: %w", ctx.label(), err)
	}

	if len(d.preHooks) > 0 {
		current := map[string]any{}
		if err := json.Unmarshal(raw, &current); err != nil {
			return zero, fmt.Errorf("hydrate: copy %s: %w", ctx.label(), err)
		}
		for _, hook := range d.preHooks {
			next, err := hook(ctx, current)
			if err != nil {
				return zero, fmt.Errorf("hydrate: pre-hook for %s: %w", ctx.label(), err)
			}
			if next != nil {
				current = next
			}
		}
		if raw, err = json.Marshal(current); err != nil {
			return zero, fmt.Errorf("hydrate: encode %s: %w", ctx.label(), err)
		}
	}

	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return zero, fmt.Errorf("hydrate: decode %s: %w", ctx.label(), err)
	}

	for _, hook := range d.postHooks {
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for %s: %w", ctx.label(), err)
		}
	}
	return result, nil
}
