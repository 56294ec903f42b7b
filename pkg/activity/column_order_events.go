package activity

import (
	"strings"
	"time"
)

const (
	// VerbColumnOrderUpdated is the verb used for committed column order changes.
	VerbColumnOrderUpdated = "presentation.column_order.updated"
	// ObjectTypePresentationState is the object type of presentation activities.
	ObjectTypePresentationState = "presentation_state"
)

// ColumnOrderEventInput carries the fields of a column order activity.
type ColumnOrderEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OldColumnOrder []string
	NewColumnOrder []string
	Detail         any
	OccurredAt     time.Time
}

// BuildColumnOrderUpdatedEvent maps input onto an activity Event. The orders
// and detail travel in Metadata; ObjectID falls back to the object type.
func BuildColumnOrderUpdatedEvent(input ColumnOrderEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	if input.OldColumnOrder != nil {
		metadata["old_column_order"] = append([]string{}, input.OldColumnOrder...)
	}
	metadata["new_column_order"] = append([]string{}, input.NewColumnOrder...)
	if input.Detail != nil {
		metadata["detail"] = input.Detail
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = ObjectTypePresentationState
	}

	var recipients []string
	if len(input.Recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	return Event{
		Verb:           VerbColumnOrderUpdated,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     ObjectTypePresentationState,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}
