package usersink_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-presentation/pkg/activity"
	"github.com/goliatone/go-presentation/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsColumnOrderActivity(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()

	event := activity.BuildColumnOrderUpdatedEvent(activity.ColumnOrderEventInput{
		ActorID:        actorID.String(),
		UserID:         "not-a-uuid",
		TenantID:       tenantID.String(),
		ObjectID:       "orders-table",
		Channel:        "presentation",
		DefinitionCode: "presentation:reorder",
		Recipients:     []string{"ops@example.com"},
		OldColumnOrder: []string{"a", "b"},
		NewColumnOrder: []string{"b", "a"},
		Detail:         "userDrag",
		OccurredAt:     now,
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.TenantID != tenantID {
		t.Fatalf("unexpected ids: %+v", record)
	}
	if record.UserID != uuid.Nil {
		t.Fatalf("expected invalid user id to map to uuid.Nil, got %s", record.UserID)
	}
	if record.Verb != activity.VerbColumnOrderUpdated || record.ObjectType != activity.ObjectTypePresentationState || record.ObjectID != "orders-table" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "presentation" || record.OccurredAt != now {
		t.Fatalf("unexpected channel/time: %+v", record)
	}
	if !reflect.DeepEqual(record.Data["new_column_order"], []string{"b", "a"}) {
		t.Fatalf("expected new order in data, got %v", record.Data["new_column_order"])
	}
	if record.Data["definition_code"] != "presentation:reorder" || record.Data["detail"] != "userDrag" {
		t.Fatalf("unexpected data: %v", record.Data)
	}
	recipients, ok := record.Data["recipients"].([]string)
	if !ok || len(recipients) != 1 || recipients[0] != "ops@example.com" {
		t.Fatalf("expected recipients in data, got %v", record.Data["recipients"])
	}
}

func TestHookNotifySkipsIncompleteEvent(t *testing.T) {
	sink := &recordingSink{}
	_ = usersink.Hook{Sink: sink}.Notify(context.Background(), activity.Event{})
	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyPropagatesSinkError(t *testing.T) {
	boom := errors.New("sink down")
	sink := &recordingSink{err: boom}
	err := usersink.Hook{Sink: sink}.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbColumnOrderUpdated,
		ObjectType: activity.ObjectTypePresentationState,
		ObjectID:   "1",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if sink.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
}

func TestHookWithNilSinkIsNoop(t *testing.T) {
	if err := (usersink.Hook{}).Notify(context.Background(), activity.Event{Verb: "v", ObjectType: "t", ObjectID: "1"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
