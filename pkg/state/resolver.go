package state

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-presentation"
	"github.com/google/uuid"
)

const defaultsScopeName = "defaults"

// Resolver loads scoped snapshots from Store and layers them into a State.
// Options are applied to states built by Load, Resolve and
// ResolveWithDefaults, so their listeners observe the resolved order.
type Resolver struct {
	Store   Store[presentation.ClassJSON]
	Options []presentation.Option
	// Now overrides the clock used to stamp Meta.UpdatedAt.
	Now func() time.Time
}

// Mutator edits a state loaded by Mutate.
type Mutator func(*presentation.State) error

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r Resolver) validate(domain string) error {
	if r.Store == nil {
		return fmt.Errorf("state: store is required")
	}
	if domain == "" {
		return fmt.Errorf("state: domain is required")
	}
	return nil
}

// Load builds a State from the snapshot stored for ref. ok is false when
// nothing is stored.
func (r Resolver) Load(ctx context.Context, ref Ref) (*presentation.State, Meta, bool, error) {
	if err := r.validate(ref.Domain); err != nil {
		return nil, Meta{}, false, err
	}
	snapshot, meta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, false, fmt.Errorf("state: load %q for scope %q: %w", ref.Domain, ref.Scope.Name, err)
	}
	if !ok {
		return nil, Meta{}, false, nil
	}
	st, err := presentation.FromJSON(snapshot, r.Options...)
	if err != nil {
		return nil, meta, true, err
	}
	return st, meta, true, nil
}

// Save persists the portable form of st. An empty SnapshotID or ETag is
// filled with a fresh uuid and a zero UpdatedAt with the current time.
func (r Resolver) Save(ctx context.Context, ref Ref, st *presentation.State, meta Meta) (Meta, error) {
	if err := r.validate(ref.Domain); err != nil {
		return Meta{}, err
	}
	if st == nil {
		return Meta{}, fmt.Errorf("state: state is required")
	}
	meta = cloneMeta(meta)
	if meta.SnapshotID == "" {
		meta.SnapshotID = uuid.NewString()
	}
	if meta.ETag == "" {
		meta.ETag = uuid.NewString()
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = r.now()
	}
	saved, err := r.Store.Save(ctx, ref, st.ToJSON(), meta)
	if err != nil {
		return Meta{}, fmt.Errorf("state: save %q for scope %q: %w", ref.Domain, ref.Scope.Name, err)
	}
	return saved, nil
}

// Resolve loads the snapshot of every scope and resolves them, strongest
// explicit order first. Scopes without a stored snapshot are skipped.
func (r Resolver) Resolve(ctx context.Context, domain string, scopes ...presentation.Scope) (*presentation.State, presentation.Trace, error) {
	if err := r.validate(domain); err != nil {
		return nil, presentation.Trace{}, err
	}
	if len(scopes) == 0 {
		return nil, presentation.Trace{}, fmt.Errorf("state: at least one scope is required")
	}

	layers, err := r.loadLayers(ctx, domain, scopes)
	if err != nil {
		return nil, presentation.Trace{}, err
	}
	if len(layers) == 0 {
		return nil, presentation.Trace{}, fmt.Errorf("state: no layers found for domain %q", domain)
	}
	return r.resolve(layers)
}

// ResolveWithDefaults is Resolve with defaults as the weakest layer under the
// reserved "defaults" scope.
func (r Resolver) ResolveWithDefaults(ctx context.Context, domain string, defaults presentation.ClassJSON, scopes ...presentation.Scope) (*presentation.State, presentation.Trace, error) {
	if err := r.validate(domain); err != nil {
		return nil, presentation.Trace{}, err
	}

	prioritySet := make(map[int]struct{}, len(scopes))
	minPriority := 0
	if len(scopes) > 0 {
		minPriority = scopes[0].Priority
	}
	for _, scope := range scopes {
		if scope.Name == defaultsScopeName {
			return nil, presentation.Trace{}, fmt.Errorf("state: scope name %q is reserved", defaultsScopeName)
		}
		prioritySet[scope.Priority] = struct{}{}
		if scope.Priority < minPriority {
			minPriority = scope.Priority
		}
	}

	defaultsPriority := 0
	if len(scopes) > 0 {
		defaultsPriority = minPriority - 1
		for {
			if _, ok := prioritySet[defaultsPriority]; !ok {
				break
			}
			defaultsPriority--
		}
	}

	layers, err := r.loadLayers(ctx, domain, scopes)
	if err != nil {
		return nil, presentation.Trace{}, err
	}
	defaultsScope := presentation.NewScope(defaultsScopeName, defaultsPriority, presentation.WithScopeLabel("Defaults"))
	layers = append(layers, presentation.NewLayer(defaultsScope, defaults))
	return r.resolve(layers)
}

func (r Resolver) loadLayers(ctx context.Context, domain string, scopes []presentation.Scope) ([]presentation.Layer, error) {
	layers := make([]presentation.Layer, 0, len(scopes)+1)
	for _, scope := range scopes {
		snapshot, meta, ok, err := r.Store.Load(ctx, Ref{Domain: domain, Scope: scope})
		if err != nil {
			return nil, fmt.Errorf("state: load %q for scope %q: %w", domain, scope.Name, err)
		}
		if !ok {
			continue
		}
		layers = append(layers, presentation.NewLayer(scope, snapshot, presentation.WithSnapshotID(meta.SnapshotID)))
	}
	return layers, nil
}

func (r Resolver) resolve(layers []presentation.Layer) (*presentation.State, presentation.Trace, error) {
	stack, err := presentation.NewStack(layers...)
	if err != nil {
		return nil, presentation.Trace{}, fmt.Errorf("state: stack: %w", err)
	}
	st, err := stack.Resolve(r.Options...)
	if err != nil {
		return nil, presentation.Trace{}, err
	}
	return st, stack.Trace(), nil
}

// Mutate loads the snapshot for ref, lets fn edit it and saves the result with
// a fresh ETag. When meta.ETag is set it must match the stored ETag; an empty
// meta.ETag overwrites whatever is stored. The state handed to fn is restored
// without Options, so only changes made by fn reach listeners fn registers
// itself.
func (r Resolver) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator) (*presentation.State, Meta, error) {
	if err := r.validate(ref.Domain); err != nil {
		return nil, Meta{}, err
	}
	if ref.Scope.Name == "" {
		return nil, Meta{}, fmt.Errorf("state: scope name is required")
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("state: mutator is required")
	}

	snapshot, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q for scope %q: %w", ref.Domain, ref.Scope.Name, err)
	}
	if !ok {
		snapshot = presentation.ClassJSON{}
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return nil, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	st, err := presentation.FromJSON(snapshot)
	if err != nil {
		return nil, loadedMeta, err
	}
	if err := fn(st); err != nil {
		return nil, loadedMeta, err
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	saveMeta.ETag = ""
	saveMeta.UpdatedAt = time.Time{}
	savedMeta, err := r.Save(ctx, ref, st, saveMeta)
	if err != nil {
		return nil, loadedMeta, err
	}
	return st, savedMeta, nil
}
