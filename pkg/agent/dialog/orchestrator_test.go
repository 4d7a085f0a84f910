package dialog

import (
	"context"
	"io"
	"log"
	"testing"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/pkg/agent/intent"
	"ai-support-chat-be/pkg/agent/response"
	"ai-support-chat-be/pkg/agent/router"
	"ai-support-chat-be/pkg/agent/state"
	"ai-support-chat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRouter struct {
	decision *router.RouteDecision
	calls    int
}

func (f *fakeRouter) Route(ctx context.Context, userText string, session *store.Session) *router.RouteDecision {
	f.calls++
	return f.decision
}

type fakeGenerator struct {
	result *response.GenerationResult
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, userText string, session *store.Session) *response.GenerationResult {
	f.calls++
	return f.result
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestOrchestrator(r *fakeRouter, g *fakeGenerator) *Orchestrator {
	return NewOrchestrator(r, g, state.NewManager(discardLogger()), discardLogger())
}

func respondDecision(it intent.Intent) *router.RouteDecision {
	return &router.RouteDecision{Intent: it, Confidence: 0.9, NextAction: router.NextActionRespond}
}

func textResult(text string) *response.GenerationResult {
	return &response.GenerationResult{NextAction: response.NextActionRespond, ResponseText: text}
}

func TestHandleTurnEmptyInput(t *testing.T) {
	r := &fakeRouter{decision: respondDecision(intent.Greeting)}
	g := &fakeGenerator{result: textResult("hi")}
	o := newTestOrchestrator(r, g)
	session := store.NewSession("s1")

	for _, input := range []string{"", "   ", "\n\t "} {
		result := o.HandleTurn(context.Background(), session, input)

		assert.Equal(t, constant.EmptyInputReply, result.Reply)
		assert.Nil(t, result.Route)
	}

	// Nothing was mutated and neither component ran
	assert.Empty(t, session.History)
	assert.Zero(t, r.calls)
	assert.Zero(t, g.calls)
}

func TestHandleTurnRespondPath(t *testing.T) {
	r := &fakeRouter{decision: respondDecision(intent.Greeting)}
	g := &fakeGenerator{result: textResult("Hello there!")}
	o := newTestOrchestrator(r, g)
	session := store.NewSession("s1")

	result := o.HandleTurn(context.Background(), session, "hi")

	assert.Equal(t, "Hello there!", result.Reply)
	require.NotNil(t, result.Route)
	assert.Equal(t, intent.Greeting, result.Route.Intent)
	assert.Equal(t, intent.Greeting, session.CurrentIntent)

	// user turn then model turn
	require.Len(t, session.History, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, session.History[0].Role)
	assert.Equal(t, constant.ChatMessageRoleModel, session.History[1].Role)
}

func TestHandleTurnAskForSlot(t *testing.T) {
	r := &fakeRouter{decision: &router.RouteDecision{
		Intent:        intent.GetOrderInformation,
		Confidence:    0.95,
		NextAction:    router.NextActionAskForSlot,
		SlotToRequest: store.SlotOrderID,
	}}
	g := &fakeGenerator{result: textResult("unused")}
	o := newTestOrchestrator(r, g)
	session := store.NewSession("s1")

	result := o.HandleTurn(context.Background(), session, "where is my order?")

	assert.Equal(t, constant.SlotPromptOrderID, result.Reply)
	assert.Equal(t, store.SlotOrderID, result.SlotRequested)
	assert.Equal(t, store.SlotOrderID, session.PendingSlot)
	// The generator never runs when a slot is requested
	assert.Zero(t, g.calls)
}

func TestHandleTurnSlotAnswerBypassesRouter(t *testing.T) {
	r := &fakeRouter{decision: respondDecision(intent.Unknown)}
	g := &fakeGenerator{result: textResult("Order 124 shipped via UPS.")}
	o := newTestOrchestrator(r, g)

	session := store.NewSession("s1")
	session.CurrentIntent = intent.GetOrderInformation
	session.PendingSlot = store.SlotOrderID

	result := o.HandleTurn(context.Background(), session, "124")

	assert.Equal(t, "Order 124 shipped via UPS.", result.Reply)
	assert.Equal(t, store.SlotOrderID, result.SlotFilled)
	assert.Nil(t, result.Route)
	assert.Equal(t, "124", session.Slots[store.SlotOrderID])
	assert.Empty(t, session.PendingSlot)

	assert.Zero(t, r.calls, "router must be bypassed for slot answers")
	assert.Equal(t, 1, g.calls)
	// Intent carries over from before the slot request
	assert.Equal(t, intent.GetOrderInformation, session.CurrentIntent)
}

func TestHandleTurnCallToolIsInformational(t *testing.T) {
	r := &fakeRouter{decision: &router.RouteDecision{
		Intent:     intent.KnowledgeQA,
		Confidence: 0.9,
		NextAction: router.NextActionCallTool,
		ToolName:   "knowledge_search",
	}}
	g := &fakeGenerator{result: textResult("Our warranty covers two years.")}
	o := newTestOrchestrator(r, g)
	session := store.NewSession("s1")

	result := o.HandleTurn(context.Background(), session, "what is the warranty?")

	// The orchestrator never executes the recommended tool itself; the
	// generator decides on its own.
	assert.Equal(t, 1, g.calls)
	assert.Equal(t, "Our warranty covers two years.", result.Reply)
	require.NotNil(t, result.Route)
	assert.Equal(t, router.NextActionCallTool, result.Route.NextAction)
}

func TestHandleTurnGeneratorSlotRequest(t *testing.T) {
	r := &fakeRouter{decision: respondDecision(intent.RefundOrder)}
	g := &fakeGenerator{result: &response.GenerationResult{
		NextAction:    response.NextActionAskForSlot,
		SlotToRequest: store.SlotPhoneOrEmail,
	}}
	o := newTestOrchestrator(r, g)
	session := store.NewSession("s1")

	result := o.HandleTurn(context.Background(), session, "I want a refund")

	assert.Equal(t, constant.SlotPromptPhoneOrEmail, result.Reply)
	assert.Equal(t, store.SlotPhoneOrEmail, result.SlotRequested)
	assert.Equal(t, store.SlotPhoneOrEmail, session.PendingSlot)
}

func TestHandleTurnUnknownSlotGetsGenericPrompt(t *testing.T) {
	r := &fakeRouter{decision: respondDecision(intent.RefundOrder)}
	g := &fakeGenerator{result: &response.GenerationResult{
		NextAction:    response.NextActionAskForSlot,
		SlotToRequest: "shoe_size",
	}}
	o := newTestOrchestrator(r, g)
	session := store.NewSession("s1")

	result := o.HandleTurn(context.Background(), session, "I want a refund")

	assert.Equal(t, constant.GenericSlotPrompt, result.Reply)
	assert.Equal(t, "shoe_size", session.PendingSlot)
}

func TestHandleTurnEmptyReplyFallsBackToAck(t *testing.T) {
	r := &fakeRouter{decision: respondDecision(intent.Goodbye)}
	g := &fakeGenerator{result: textResult("   ")}
	o := newTestOrchestrator(r, g)
	session := store.NewSession("s1")

	result := o.HandleTurn(context.Background(), session, "bye")

	assert.Equal(t, constant.GenericAckReply, result.Reply)
}

func TestHandleTurnSlotAnswerOverwrites(t *testing.T) {
	r := &fakeRouter{decision: respondDecision(intent.Unknown)}
	g := &fakeGenerator{result: textResult("ok")}
	o := newTestOrchestrator(r, g)

	session := store.NewSession("s1")
	session.Slots[store.SlotOrderID] = "111"
	session.PendingSlot = store.SlotOrderID

	o.HandleTurn(context.Background(), session, "124")

	assert.Equal(t, "124", session.Slots[store.SlotOrderID])
}
