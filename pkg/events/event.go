package events

import (
	"time"

	"canvas-studio-be/pkg/canvas"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CANVAS_STATE_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewCanvasChangeEvent wraps a store change event for the external bus.
func NewCanvasChangeEvent(workspaceID string, ev canvas.ChangeEvent) Event {
	return BaseEvent{
		Type: "CANVAS_STATE_CHANGED",
		Data: map[string]interface{}{
			"workspace_id": workspaceID,
			"op":           string(ev.Op),
			"canvas_id":    ev.CanvasID,
			"node_id":      ev.NodeID,
		},
		OccurredAt: ev.At,
	}
}
