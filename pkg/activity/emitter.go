package activity

import (
	"context"
	"strings"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "presentation"

// Config controls whether an Emitter forwards events and on which channel.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter forwards events to hooks when enabled.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
}

// NewEmitter builds an emitter. Nil hooks are dropped; an emitter without
// hooks is disabled regardless of cfg.Enabled.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	kept := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			kept = append(kept, hook)
		}
	}
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	return &Emitter{
		hooks:   kept,
		enabled: cfg.Enabled && len(kept) > 0,
		channel: channel,
	}
}

// Enabled reports whether Emit forwards anything.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Channel returns the default channel.
func (e *Emitter) Channel() string {
	if e == nil {
		return DefaultChannel
	}
	return e.channel
}

// Emit delivers event to the hooks, filling the default channel.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}
