// Package presentation keeps presentation-only state for a tabular dataset,
// starting with the order in which columns should be shown. The canonical
// table structure is never touched; a State only records the override and
// tells its listeners about every change.
//
// Mutation protocol for SetColumnOrder:
//
//	copy old -> copy new -> emit columnOrderChange -> commit -> emit afterColumnOrderChange
//
// A State is meant to have a single owner. It performs no locking; callers
// that mutate from several goroutines must serialise access themselves.
package presentation

import (
	"log/slog"

	"github.com/goliatone/go-presentation/layering"
)

// State tracks an optional explicit column order.
type State struct {
	columnOrder []string
	modified    bool

	listeners listenerRegistry
	logger    *slog.Logger
}

// New constructs an empty state with no explicit column order.
func New(opts ...Option) *State {
	cfg := applyOptions(opts)
	state := &State{logger: cfg.logger}
	for _, entry := range cfg.listeners {
		state.listeners.add(entry.eventType, entry.listener)
	}
	return state
}

// ColumnOrder returns a copy of the current column order, or nil when no
// order has been set.
func (s *State) ColumnOrder() []string {
	return layering.CloneStrings(s.columnOrder)
}

// IsSet reports whether SetColumnOrder has ever completed its commit on this
// state, including the call made by FromJSON.
func (s *State) IsSet() bool {
	return s.modified
}

// SetColumnOrder replaces the column order. detail is passed through to both
// events untouched and may be nil.
//
// Both events fire on every call, even when order equals the current one. An
// error from a columnOrderChange listener aborts the call before the commit.
// An error from an afterColumnOrderChange listener is returned after the
// commit has already happened.
func (s *State) SetColumnOrder(order []string, detail any) error {
	oldOrder := layering.CloneStrings(s.columnOrder)
	newOrder := layering.CloneStrings(order)
	if newOrder == nil {
		newOrder = []string{}
	}

	if err := s.emit(ColumnOrderEvent{
		Type:           EventColumnOrderChange,
		OldColumnOrder: oldOrder,
		NewColumnOrder: newOrder,
		Detail:         detail,
	}); err != nil {
		return err
	}

	s.columnOrder = newOrder
	s.modified = true

	return s.emit(ColumnOrderEvent{
		Type:           EventAfterColumnOrderChange,
		OldColumnOrder: oldOrder,
		NewColumnOrder: newOrder,
		Detail:         detail,
	})
}
