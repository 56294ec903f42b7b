package state_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-presentation"
	"github.com/goliatone/go-presentation/pkg/state"
)

func TestMemoryStoreIsolatesSnapshots(t *testing.T) {
	store := state.NewMemoryStore[presentation.ClassJSON]()
	ref := state.Ref{Domain: "orders", Scope: presentation.NewScope("system", presentation.ScopePrioritySystem)}
	columns := []string{"a", "b"}
	extra := map[string]string{"source": "import"}

	if _, err := store.Save(context.Background(), ref, presentation.ClassJSON{ColumnOrder: columns}, state.Meta{Extra: extra}); err != nil {
		t.Fatalf("save: %v", err)
	}
	columns[0] = "mutated"
	extra["source"] = "mutated"

	snapshot, meta, ok, err := store.Load(context.Background(), ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if snapshot.ColumnOrder[0] != "a" {
		t.Fatalf("store should own saved snapshot, got %v", snapshot.ColumnOrder)
	}
	if meta.Extra["source"] != "import" {
		t.Fatalf("store should own saved meta, got %v", meta.Extra)
	}

	snapshot.ColumnOrder[1] = "mutated"
	again, _, _, _ := store.Load(context.Background(), ref)
	if again.ColumnOrder[1] != "b" {
		t.Fatalf("loaded snapshot should be a copy")
	}
}

func TestMemoryStoreRejectsInvalidRef(t *testing.T) {
	store := state.NewMemoryStore[presentation.ClassJSON]()
	ref := state.Ref{Domain: "orders", Scope: presentation.NewScope("user", presentation.ScopePriorityUser)}
	if _, err := store.Save(context.Background(), ref, presentation.ClassJSON{}, state.Meta{}); err == nil {
		t.Fatalf("expected identifier error")
	}
	if _, _, _, err := store.Load(context.Background(), ref); err == nil {
		t.Fatalf("expected identifier error")
	}
}
