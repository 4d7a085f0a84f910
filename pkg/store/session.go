package store

import "ai-support-chat-be/pkg/agent/intent"

// Turn is a single exchange entry in the conversation history
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session represents the active dialogue state for one conversation.
// It is owned by the connection's turn loop: turns are strictly serialized
// by the transport, so no locking happens here.
type Session struct {
	ID string `json:"id"`

	// Ordered conversation transcript, append-only
	History []Turn `json:"history"`

	// Last classified intent, empty until the first routed turn
	CurrentIntent intent.Intent `json:"current_intent"`

	// Name of the single outstanding slot the agent asked for,
	// empty when nothing is pending
	PendingSlot string `json:"pending_slot"`

	// Collected slot values; keys accumulate, later answers overwrite
	Slots map[string]string `json:"slots"`
}

// NewSession creates an empty dialogue state for a fresh conversation
func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		Slots: make(map[string]string),
	}
}

// OrderID returns the collected order id slot value, if any
func (s *Session) OrderID() string {
	if s.Slots == nil {
		return ""
	}
	return s.Slots[SlotOrderID]
}

// Recognized slot names
const (
	SlotOrderID      = "order_id"
	SlotPhoneOrEmail = "phone_or_email"
)
