package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_REPLY_CREATED").
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

// NewChatReplyCreated is emitted after an assistant reply is persisted, for
// the external notification fan-out service to consume.
func NewChatReplyCreated(sessionId, userId string) Event {
	return BaseEvent{
		Type: "CHAT_REPLY_CREATED",
		Data: map[string]interface{}{
			"chat_session_id": sessionId,
			"user_id":         userId,
		},
		OccurredAt: time.Now(),
	}
}
