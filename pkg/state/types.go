package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-presentation"
)

// ErrETagMismatch is returned by Mutate when the stored snapshot changed since
// the caller read it.
var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one persisted snapshot for one presentation domain, such as
// a table id.
type Ref struct {
	Domain string
	Scope  presentation.Scope
}

// Meta is storage-owned metadata used for provenance and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one snapshot for a single scope reference.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// Identifier returns the canonical storage key for r.
func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	switch r.Scope.Name {
	case "system":
		return fmt.Sprintf("system/%s", r.Domain), nil
	case "tenant", "org", "team", "user":
		metadataKey := r.Scope.Name + "_id"
		id, _ := r.Scope.Metadata[metadataKey].(string)
		if id == "" {
			return "", fmt.Errorf("state: missing metadata key %q for scope %q", metadataKey, r.Scope.Name)
		}
		return fmt.Sprintf("%s/%s/%s", r.Scope.Name, id, r.Domain), nil
	default:
		return "", fmt.Errorf("state: unsupported scope name %q", r.Scope.Name)
	}
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
