package presentation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-presentation/layering"
)

// Scope is a named precedence bucket (system, team, user). Higher priority
// values are stronger.
type Scope struct {
	Name     string
	Label    string
	Priority int
	Metadata map[string]any
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithScopeLabel sets a human friendly label.
func WithScopeLabel(label string) ScopeOption {
	return func(s *Scope) {
		s.Label = label
	}
}

// WithScopeMetadata attaches a copy of metadata to the scope.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(s *Scope) {
		s.Metadata = copyMetadata(metadata)
	}
}

// NewScope builds a Scope. Validation happens when a Stack is built.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	scope := Scope{Name: name, Priority: priority}
	for _, opt := range opts {
		if opt != nil {
			opt(&scope)
		}
	}
	return scope
}

func (s Scope) clone() Scope {
	s.Metadata = copyMetadata(s.Metadata)
	return s
}

// Layer pairs a scope with the presentation snapshot stored for it.
type Layer struct {
	Scope      Scope
	Snapshot   ClassJSON
	SnapshotID string
}

// LayerOption configures a Layer.
type LayerOption func(*Layer)

// WithSnapshotID records the identifier of the stored snapshot.
func WithSnapshotID(id string) LayerOption {
	return func(layer *Layer) {
		layer.SnapshotID = id
	}
}

// NewLayer copies scope and snapshot into a Layer.
func NewLayer(scope Scope, snapshot ClassJSON, opts ...LayerOption) Layer {
	layer := Layer{
		Scope:    scope.clone(),
		Snapshot: layering.Clone(snapshot),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&layer)
		}
	}
	return layer
}

func (l Layer) clone() Layer {
	return Layer{
		Scope:      l.Scope.clone(),
		Snapshot:   layering.Clone(l.Snapshot),
		SnapshotID: l.SnapshotID,
	}
}

var (
	// ErrScopeNameRequired indicates a layer without a scope name.
	ErrScopeNameRequired = errors.New("presentation: scope name must be provided")
	// ErrDuplicateScopeName indicates two layers share a scope name.
	ErrDuplicateScopeName = errors.New("presentation: scope names must be unique")
	// ErrPriorityOrder indicates two layers share a priority.
	ErrPriorityOrder = errors.New("presentation: scope priorities must be strictly ordered")
	// ErrEmptyStack is returned when resolving a stack without layers.
	ErrEmptyStack = errors.New("presentation: stack must include at least one layer")
)

// Stack is an immutable set of layers ordered from strongest to weakest.
type Stack struct {
	layers []Layer
}

// NewStack validates layers and sorts them strongest first.
func NewStack(layers ...Layer) (*Stack, error) {
	seen := make(map[string]struct{}, len(layers))
	copied := make([]Layer, 0, len(layers))
	for _, layer := range layers {
		if layer.Scope.Name == "" {
			return nil, ErrScopeNameRequired
		}
		if _, ok := seen[layer.Scope.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, layer.Scope.Name)
		}
		if layer.Snapshot.Class != "" {
			if err := layer.Snapshot.validate(); err != nil {
				return nil, fmt.Errorf("scope %q: %w", layer.Scope.Name, err)
			}
		}
		seen[layer.Scope.Name] = struct{}{}
		copied = append(copied, layer.clone())
	}

	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Scope.Priority > copied[j].Scope.Priority
	})
	for i := 1; i < len(copied); i++ {
		if copied[i-1].Scope.Priority == copied[i].Scope.Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Scope.Priority)
		}
	}
	return &Stack{layers: copied}, nil
}

// Layers returns copies of the layers, strongest first.
func (s *Stack) Layers() []Layer {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	out := make([]Layer, len(s.layers))
	for i := range s.layers {
		out[i] = s.layers[i].clone()
	}
	return out
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Merged returns the effective snapshot: the strongest layer with an
// explicit column order wins; layers without one fall through.
func (s *Stack) Merged() (ClassJSON, error) {
	if s.Len() == 0 {
		return ClassJSON{}, ErrEmptyStack
	}
	snapshots := make([]ClassJSON, len(s.layers))
	for i := range s.layers {
		snapshots[i] = s.layers[i].Snapshot
	}
	merged := layering.MergeLayers(snapshots...)
	merged.Class = ClassName
	return merged, nil
}

// Resolve builds a State from the effective snapshot. As with FromJSON,
// listeners passed in opts observe the events fired when an order is present.
func (s *Stack) Resolve(opts ...Option) (*State, error) {
	merged, err := s.Merged()
	if err != nil {
		return nil, err
	}
	return FromJSON(merged, opts...)
}

// Trace reports which layers carry a column order, strongest first.
func (s *Stack) Trace() Trace {
	trace := Trace{Path: columnOrderPath}
	if s == nil {
		return trace
	}
	for _, layer := range s.layers {
		entry := Provenance{
			Scope:      layer.Scope.clone(),
			SnapshotID: layer.SnapshotID,
			Path:       columnOrderPath,
		}
		if layer.Snapshot.ColumnOrder != nil {
			entry.Value = layering.CloneStrings(layer.Snapshot.ColumnOrder)
			entry.Found = true
		}
		trace.Layers = append(trace.Layers, entry)
	}
	return trace
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
