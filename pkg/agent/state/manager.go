package state

import (
	"log"

	"ai-support-chat-be/pkg/agent/intent"
	"ai-support-chat-be/pkg/store"
)

// Manager handles dialogue state mutations. All mutation of a session's
// state funnels through here, within one turn's call chain.
type Manager struct {
	logger *log.Logger
}

func NewManager(logger *log.Logger) *Manager {
	return &Manager{logger: logger}
}

// AppendTurn records one transcript entry
func (m *Manager) AppendTurn(session *store.Session, role, text string) {
	session.History = append(session.History, store.Turn{Role: role, Text: text})
}

// SetIntent updates the session's current intent
func (m *Manager) SetIntent(session *store.Session, it intent.Intent) {
	session.CurrentIntent = it
	m.logger.Printf("[STATE] intent=%s", it)
}

// RequestSlot marks a single slot as outstanding. At most one slot is ever
// pending; a new request replaces the old one.
func (m *Manager) RequestSlot(session *store.Session, slot string) {
	session.PendingSlot = slot
	m.logger.Printf("[STATE] pending_slot=%s", slot)
}

// ApplySlotAnswer stores the turn's text as the pending slot's value and
// clears the expectation. Returns the slot that was filled. Keys accumulate
// across turns; a later answer for the same slot overwrites.
func (m *Manager) ApplySlotAnswer(session *store.Session, text string) string {
	slot := session.PendingSlot
	if session.Slots == nil {
		session.Slots = make(map[string]string)
	}
	session.Slots[slot] = text
	session.PendingSlot = ""
	m.logger.Printf("[STATE] slot filled: %s", slot)
	return slot
}
