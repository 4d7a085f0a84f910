package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatEvent is one appended turn event (route decision, tool invocation,
// reply) in a session's audit trail.
type ChatEvent struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	EventType     string
	Payload       map[string]interface{}
	CreatedAt     time.Time
}
