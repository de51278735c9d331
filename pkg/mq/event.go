package mq

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope every message on the events exchange carries.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	TraceID    string          `json:"trace_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent 用来把 payload 序列化
func NewEvent(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

// RoutingKey is the topic key an event is published under.
func (e Event) RoutingKey() string {
	return "activity." + e.Type
}
