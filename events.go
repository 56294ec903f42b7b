package presentation

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-presentation/layering"
)

// EventType names a notification emitted by a State.
type EventType string

const (
	// EventColumnOrderChange fires before a new column order is committed.
	// Listeners observe the pending change; returning an error aborts it.
	EventColumnOrderChange EventType = "columnOrderChange"
	// EventAfterColumnOrderChange fires once the new column order is stored.
	EventAfterColumnOrderChange EventType = "afterColumnOrderChange"
)

var (
	// ErrUnknownEventType is returned when registering for an unsupported event.
	ErrUnknownEventType = errors.New("presentation: unknown event type")
	// ErrNilListener is returned when registering a nil listener.
	ErrNilListener = errors.New("presentation: listener is nil")
)

// Valid reports whether t is one of the supported event types.
func (t EventType) Valid() bool {
	switch t {
	case EventColumnOrderChange, EventAfterColumnOrderChange:
		return true
	default:
		return false
	}
}

// ColumnOrderEvent is the payload of both column order notifications.
// OldColumnOrder is nil when no order had been set before the change.
type ColumnOrderEvent struct {
	Type           EventType
	OldColumnOrder []string
	NewColumnOrder []string
	Detail         any
}

func (e ColumnOrderEvent) clone() ColumnOrderEvent {
	e.OldColumnOrder = layering.CloneStrings(e.OldColumnOrder)
	e.NewColumnOrder = layering.CloneStrings(e.NewColumnOrder)
	return e
}

// Listener receives column order notifications synchronously.
type Listener interface {
	Notify(event ColumnOrderEvent) error
}

// ListenerFunc allows plain functions to satisfy Listener.
type ListenerFunc func(event ColumnOrderEvent) error

// Notify dispatches to the underlying function.
func (fn ListenerFunc) Notify(event ColumnOrderEvent) error {
	if fn == nil {
		return nil
	}
	return fn(event)
}

type registration struct {
	id        uint64
	eventType EventType
	listener  Listener
}

// listenerRegistry keeps registrations in insertion order. Removal rebuilds
// the backing array so snapshots taken for an in-flight emission stay intact.
type listenerRegistry struct {
	nextID  uint64
	entries []registration
}

func (r *listenerRegistry) add(eventType EventType, listener Listener) func() {
	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, registration{id: id, eventType: eventType, listener: listener})
	return func() {
		r.remove(id)
	}
}

func (r *listenerRegistry) remove(id uint64) {
	for i, entry := range r.entries {
		if entry.id != id {
			continue
		}
		r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
		return
	}
}

func (r *listenerRegistry) matching(eventType EventType) []Listener {
	var out []Listener
	for _, entry := range r.entries {
		if entry.eventType == eventType {
			out = append(out, entry.listener)
		}
	}
	return out
}

func (r *listenerRegistry) count(eventType EventType) int {
	n := 0
	for _, entry := range r.entries {
		if entry.eventType == eventType {
			n++
		}
	}
	return n
}

// On registers listener for eventType on this state. The returned function
// removes exactly this registration and is safe to call more than once.
func (s *State) On(eventType EventType, listener Listener) (func(), error) {
	if !eventType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}
	if listener == nil {
		return nil, ErrNilListener
	}
	return s.listeners.add(eventType, listener), nil
}

// OnFunc is On for plain functions.
func (s *State) OnFunc(eventType EventType, fn func(ColumnOrderEvent) error) (func(), error) {
	if fn == nil {
		return nil, ErrNilListener
	}
	return s.On(eventType, ListenerFunc(fn))
}

// ListenerCount reports how many listeners are registered for eventType.
func (s *State) ListenerCount(eventType EventType) int {
	return s.listeners.count(eventType)
}

// emit fans event out to the listeners registered when emission starts. The
// first listener error stops the fan-out and is returned unchanged.
func (s *State) emit(event ColumnOrderEvent) error {
	listeners := s.listeners.matching(event.Type)
	for i, listener := range listeners {
		if err := listener.Notify(event.clone()); err != nil {
			s.log().Debug("presentation: listener failed",
				"event", string(event.Type),
				"listener", i,
				"error", err,
			)
			return err
		}
	}
	s.log().Debug("presentation: event emitted",
		"event", string(event.Type),
		"listeners", len(listeners),
	)
	return nil
}
