package dialog

import (
	"context"
	"log"
	"strings"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/pkg/agent/response"
	"ai-support-chat-be/pkg/agent/router"
	"ai-support-chat-be/pkg/agent/state"
	"ai-support-chat-be/pkg/store"
)

// IntentRouter classifies a fresh turn into a route decision
type IntentRouter interface {
	Route(ctx context.Context, userText string, session *store.Session) *router.RouteDecision
}

// ReplyGenerator produces the user-facing reply, tool calls included
type ReplyGenerator interface {
	Generate(ctx context.Context, userText string, session *store.Session) *response.GenerationResult
}

// TurnResult is everything one processed turn produced, for the transport
// to send and the service layer to persist.
type TurnResult struct {
	Reply string

	// Route is nil when the router was bypassed (slot answers, empty input)
	Route *router.RouteDecision

	// ToolTrace lists the tool invocations the generator dispatched
	ToolTrace []response.ToolInvocation

	// SlotRequested is set when this turn left a slot pending
	SlotRequested string

	// SlotFilled is set when this turn's text answered a pending slot
	SlotFilled string
}

// Canned questions per recognized slot; anything else gets the generic prompt
var slotPrompts = map[string]string{
	store.SlotOrderID:      constant.SlotPromptOrderID,
	store.SlotPhoneOrEmail: constant.SlotPromptPhoneOrEmail,
}

func slotPrompt(slot string) string {
	if prompt, ok := slotPrompts[slot]; ok {
		return prompt
	}
	return constant.GenericSlotPrompt
}

// Orchestrator is the per-conversation state machine tying router and
// generator together across turns. The caller serializes turns: one inbound
// message is fully answered before the next is read, so session state is
// mutated without locks.
type Orchestrator struct {
	router    IntentRouter
	generator ReplyGenerator
	state     *state.Manager
	logger    *log.Logger
}

func NewOrchestrator(r IntentRouter, g ReplyGenerator, sm *state.Manager, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		router:    r,
		generator: g,
		state:     sm,
		logger:    logger,
	}
}

// HandleTurn processes one inbound user turn and returns the reply.
// Every failure path inside resolves to a turn-level reply; HandleTurn
// itself never fails.
func (o *Orchestrator) HandleTurn(ctx context.Context, session *store.Session, text string) *TurnResult {
	trimmed := strings.TrimSpace(text)

	// Whitespace-only input short-circuits before router and generator,
	// with no state mutation at all.
	if trimmed == "" {
		return &TurnResult{Reply: constant.EmptyInputReply}
	}

	o.state.AppendTurn(session, constant.ChatMessageRoleUser, trimmed)

	// Slot-filling branch: the turn answers an outstanding question, so it
	// is not a new topic, so the router is bypassed entirely.
	if session.PendingSlot != "" {
		filled := o.state.ApplySlotAnswer(session, trimmed)
		o.logger.Printf("[DIALOG] slot answer for %s, skipping router", filled)

		gen := o.generator.Generate(ctx, trimmed, session)
		result := o.finishGeneration(session, gen)
		result.SlotFilled = filled
		return result
	}

	// Fresh-turn branch: router first
	decision := o.router.Route(ctx, trimmed, session)
	o.state.SetIntent(session, decision.Intent)

	if decision.NextAction == router.NextActionAskForSlot {
		o.state.RequestSlot(session, decision.SlotToRequest)
		reply := slotPrompt(decision.SlotToRequest)
		o.state.AppendTurn(session, constant.ChatMessageRoleModel, reply)
		return &TurnResult{
			Reply:         reply,
			Route:         decision,
			SlotRequested: decision.SlotToRequest,
		}
	}

	// A call_tool recommendation is informational only: the generator
	// re-decides tool use on its own.
	gen := o.generator.Generate(ctx, trimmed, session)
	result := o.finishGeneration(session, gen)
	result.Route = decision
	return result
}

// finishGeneration turns a generation result into the outgoing reply,
// recording a newly requested slot when the generator asked for one.
func (o *Orchestrator) finishGeneration(session *store.Session, gen *response.GenerationResult) *TurnResult {
	if gen.NextAction == response.NextActionAskForSlot && gen.SlotToRequest != "" {
		o.state.RequestSlot(session, gen.SlotToRequest)
		reply := slotPrompt(gen.SlotToRequest)
		o.state.AppendTurn(session, constant.ChatMessageRoleModel, reply)
		return &TurnResult{
			Reply:         reply,
			ToolTrace:     gen.ToolTrace,
			SlotRequested: gen.SlotToRequest,
		}
	}

	reply := strings.TrimSpace(gen.ResponseText)
	if reply == "" {
		reply = constant.GenericAckReply
	}
	o.state.AppendTurn(session, constant.ChatMessageRoleModel, reply)
	return &TurnResult{
		Reply:     reply,
		ToolTrace: gen.ToolTrace,
	}
}
