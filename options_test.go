package presentation

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-presentation/pkg/activity"
)

func TestWithActivityEmitterForwardsCommittedChanges(t *testing.T) {
	capture := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true})

	state := New(WithActivityEmitter(emitter, activity.ColumnOrderEventInput{
		ActorID:  "actor-1",
		ObjectID: "orders-table",
	}))
	if err := state.SetColumnOrder([]string{"b", "a"}, "userDrag"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if len(capture.Events) != 1 {
		t.Fatalf("expected one activity, got %d", len(capture.Events))
	}
	event, _ := capture.Last()
	if event.Verb != activity.VerbColumnOrderUpdated || event.ObjectType != activity.ObjectTypePresentationState {
		t.Fatalf("unexpected activity %+v", event)
	}
	if event.ObjectID != "orders-table" || event.ActorID != "actor-1" {
		t.Fatalf("unexpected ids %+v", event)
	}
	if event.Channel != activity.DefaultChannel {
		t.Fatalf("expected default channel, got %q", event.Channel)
	}
	if !reflect.DeepEqual(event.Metadata["new_column_order"], []string{"b", "a"}) {
		t.Fatalf("unexpected new order metadata %v", event.Metadata["new_column_order"])
	}
	if _, ok := event.Metadata["old_column_order"]; ok {
		t.Fatalf("first change has no old order")
	}
	if event.Metadata["detail"] != "userDrag" {
		t.Fatalf("unexpected detail %v", event.Metadata["detail"])
	}
}

func TestWithActivityEmitterSkipsVetoedChanges(t *testing.T) {
	capture := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true})
	veto := errors.New("veto")

	state := New(
		WithListenerFunc(EventColumnOrderChange, func(ColumnOrderEvent) error { return veto }),
		WithActivityEmitter(emitter, activity.ColumnOrderEventInput{}),
	)
	if err := state.SetColumnOrder([]string{"a"}, nil); err != veto {
		t.Fatalf("expected veto, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("vetoed change should not be recorded")
	}
}

func TestWithActivityEmitterErrorKeepsCommit(t *testing.T) {
	sinkErr := errors.New("sink down")
	capture := &activity.CaptureHook{Err: sinkErr}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true})

	state := New(WithActivityEmitter(emitter, activity.ColumnOrderEventInput{}))
	err := state.SetColumnOrder([]string{"a"}, nil)
	if !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if !state.IsSet() {
		t.Fatalf("commit should stand after emitter failure")
	}
}

func TestWithActivityEmitterNilOrDisabled(t *testing.T) {
	state := New(WithActivityEmitter(nil, activity.ColumnOrderEventInput{}))
	if state.ListenerCount(EventAfterColumnOrderChange) != 0 {
		t.Fatalf("nil emitter should not register a listener")
	}

	capture := &activity.CaptureHook{}
	disabled := activity.NewEmitter(activity.Hooks{capture}, activity.Config{})
	state = New(WithActivityEmitter(disabled, activity.ColumnOrderEventInput{}))
	if err := state.SetColumnOrder([]string{"a"}, nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("disabled emitter should not forward")
	}
}
