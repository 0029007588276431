package events

import "time"

// Event is a pipeline lifecycle notification carried over the bus.
type Event interface {
	// EventType is one of the Type* codes, e.g. "PIPELINE_STARTED".
	EventType() string

	// Payload carries the session id plus event specific fields.
	Payload() map[string]interface{}

	Timestamp() time.Time
}

// BaseEvent is what BusPublisher publishes and the NATS subscriber decodes.
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
