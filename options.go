package presentation

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-presentation/pkg/activity"
)

// Option configures a State at construction time.
type Option func(*config)

type config struct {
	listeners []pendingListener
	logger    *slog.Logger
}

type pendingListener struct {
	eventType EventType
	listener  Listener
}

var discardLogger = slog.New(slog.DiscardHandler)

func applyOptions(opts []Option) config {
	cfg := config{logger: discardLogger}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (s *State) log() *slog.Logger {
	if s.logger == nil {
		return discardLogger
	}
	return s.logger
}

// WithListener registers listener before the state is populated, so it also
// observes the events FromJSON emits. Registrations with an unknown event type
// or a nil listener are ignored.
func WithListener(eventType EventType, listener Listener) Option {
	return func(cfg *config) {
		if !eventType.Valid() || listener == nil {
			return
		}
		cfg.listeners = append(cfg.listeners, pendingListener{eventType: eventType, listener: listener})
	}
}

// WithListenerFunc is WithListener for plain functions.
func WithListenerFunc(eventType EventType, fn func(ColumnOrderEvent) error) Option {
	if fn == nil {
		return nil
	}
	return WithListener(eventType, ListenerFunc(fn))
}

// WithLogger sets the logger used for emission diagnostics. A nil logger
// disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = discardLogger
			return
		}
		cfg.logger = logger
	}
}

// WithActivityEmitter forwards every committed column order change to
// emitter as a presentation.column_order.updated activity. input supplies the
// actor, object and channel fields; the orders and detail come from the event.
// Emitter errors surface like any other afterColumnOrderChange listener error.
func WithActivityEmitter(emitter *activity.Emitter, input activity.ColumnOrderEventInput) Option {
	if emitter == nil {
		return nil
	}
	return WithListener(EventAfterColumnOrderChange, ListenerFunc(func(event ColumnOrderEvent) error {
		payload := input
		payload.OldColumnOrder = event.OldColumnOrder
		payload.NewColumnOrder = event.NewColumnOrder
		payload.Detail = event.Detail
		return emitter.Emit(context.Background(), activity.BuildColumnOrderUpdatedEvent(payload))
	}))
}
