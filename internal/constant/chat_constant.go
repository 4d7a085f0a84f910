package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleModel  = "model"
	ChatMessageRoleSystem = "system"

	// First model message of every fresh session
	WelcomeReply = "Hi, how can I help you ?"

	// Reply for whitespace-only input; such turns never reach the router
	EmptyInputReply = "Please type your question here, I can't help if you don't type anything!"

	// Reply when the generator produced neither text nor a slot request
	GenericAckReply = "Got it. Is there anything else I can help you with?"

	// Prompt when a slot name has no canned question of its own
	GenericSlotPrompt = "Can you provide more information?"

	// Reply when the generation capability itself is unavailable
	GenerationFailureReply = "Sorry, something went wrong on my end. Could you try that again?"

	SlotPromptOrderID      = "Sure — what's your order ID?"
	SlotPromptPhoneOrEmail = "Can you share the email or phone number on the order?"
)

// Turn event types persisted to chat_events
const (
	EventRouteDecided = "route_decided"
	EventToolInvoked  = "tool_invoked"
	EventReplySent    = "reply_sent"

	// NATS subject suffix for human-agent handoff
	EventChatEscalation = "CHAT_ESCALATION"

	// Internal pubsub topic carrying turn events to the event writer
	TurnEventTopicName = "CHAT_TURN_EVENTS"
)
