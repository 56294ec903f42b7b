package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsAndDetaches(t *testing.T) {
	meta := map[string]any{"table": "orders"}
	recipients := []string{" ops@example.com "}
	evt := Event{
		Verb:       " presentation.column_order.updated ",
		ActorID:    " actor ",
		ObjectType: " presentation_state ",
		ObjectID:   " orders ",
		Channel:    " presentation ",
		Recipients: recipients,
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != VerbColumnOrderUpdated || got.ObjectType != ObjectTypePresentationState || got.ObjectID != "orders" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.Channel != "presentation" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be stamped")
	}
	got.Metadata["table"] = "changed"
	if meta["table"] != "orders" {
		t.Fatalf("expected caller metadata untouched: %+v", meta)
	}
	got.Recipients[0] = "changed"
	if recipients[0] != " ops@example.com " {
		t.Fatalf("expected caller recipients untouched: %+v", recipients)
	}
}

func TestHooksNotifySkipsIncompleteEvents(t *testing.T) {
	capture := &CaptureHook{}
	if err := (Hooks{capture}).Notify(context.Background(), Event{Verb: "x"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyRunsEveryHookAndJoinsErrors(t *testing.T) {
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	capture := &CaptureHook{}
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			ctxSeen = ctx != nil
			return boom1
		}),
		nil,
		capture,
		HookFunc(func(context.Context, Event) error { return boom2 }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbColumnOrderUpdated, ObjectType: ObjectTypePresentationState, ObjectID: "orders"})
	if !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected hook after a failing hook to still run, got %d events", len(capture.Events))
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}
	evt := Event{Verb: VerbColumnOrderUpdated, ObjectType: ObjectTypePresentationState, ObjectID: "orders"}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), evt); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	if NewEmitter(Hooks{nil}, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter without usable hooks to be disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true})
	if err := enabled.Emit(context.Background(), evt); err != nil {
		t.Fatalf("emit: %v", err)
	}
	last, ok := capture.Last()
	if !ok || last.Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %+v", last)
	}
}

func TestEmitterPreservesExplicitChannelAndTimestamp(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "tables"})
	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbColumnOrderUpdated,
		ObjectType: ObjectTypePresentationState,
		ObjectID:   "orders",
		Channel:    "custom",
		OccurredAt: when,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if capture.Events[0].Channel != "custom" {
		t.Fatalf("expected explicit channel preserved, got %q", capture.Events[0].Channel)
	}
	if !capture.Events[0].OccurredAt.Equal(when) {
		t.Fatalf("expected occurred_at preserved, got %v", capture.Events[0].OccurredAt)
	}
	if emitter.Channel() != "tables" {
		t.Fatalf("expected configured channel, got %q", emitter.Channel())
	}
}
