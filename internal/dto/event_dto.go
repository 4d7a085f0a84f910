package dto

import "github.com/google/uuid"

// TurnEventMessage is the payload carried on the internal pubsub topic for
// conversation events that the event writer persists.
type TurnEventMessage struct {
	ChatSessionId uuid.UUID              `json:"chat_session_id"`
	EventType     string                 `json:"event_type"`
	Payload       map[string]interface{} `json:"payload"`
}
