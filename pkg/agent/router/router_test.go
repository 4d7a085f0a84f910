package router

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-support-chat-be/pkg/agent/intent"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/store"
)

// fakeProvider scripts the classification capability for router tests
type fakeProvider struct {
	result *llm.ChatResult
	err    error
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return "", errors.New("not used by the router")
}

func (f *fakeProvider) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolSpec, opts ...llm.Option) (*llm.ChatResult, error) {
	return f.result, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return "", errors.New("not used by the router")
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func routeCall(args string) *llm.ChatResult {
	return &llm.ChatResult{
		ToolCalls: []llm.ToolCall{{ID: "call_0", Name: "route", Arguments: args}},
	}
}

func TestRouteParsesDecision(t *testing.T) {
	provider := &fakeProvider{
		result: routeCall(`{
			"intent": "get_order_information",
			"confidence": 0.92,
			"next_action": "ask_for_slot",
			"slot_to_request": "order_id",
			"tool_name": null,
			"tool_args": null
		}`),
	}
	r := NewRouter(provider, discardLogger())

	decision := r.Route(context.Background(), "where is my package?", store.NewSession("s1"))

	if decision.Intent != intent.GetOrderInformation {
		t.Errorf("Intent = %s, want get_order_information", decision.Intent)
	}
	if decision.Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", decision.Confidence)
	}
	if decision.NextAction != NextActionAskForSlot {
		t.Errorf("NextAction = %s, want ask_for_slot", decision.NextAction)
	}
	if decision.SlotToRequest != store.SlotOrderID {
		t.Errorf("SlotToRequest = %s, want order_id", decision.SlotToRequest)
	}
}

func TestRouteCallToolDecision(t *testing.T) {
	provider := &fakeProvider{
		result: routeCall(`{
			"intent": "knowledge_qa",
			"confidence": 0.8,
			"next_action": "call_tool",
			"slot_to_request": null,
			"tool_name": "knowledge_search",
			"tool_args": {"query": "warranty"}
		}`),
	}
	r := NewRouter(provider, discardLogger())

	decision := r.Route(context.Background(), "what is the warranty?", store.NewSession("s1"))

	if decision.Intent != intent.KnowledgeQA {
		t.Errorf("Intent = %s, want knowledge_qa", decision.Intent)
	}
	if decision.NextAction != NextActionCallTool {
		t.Errorf("NextAction = %s, want call_tool", decision.NextAction)
	}
	if decision.ToolName != "knowledge_search" {
		t.Errorf("ToolName = %s, want knowledge_search", decision.ToolName)
	}
	if decision.ToolArgs["query"] != "warranty" {
		t.Errorf("ToolArgs = %v, want query=warranty", decision.ToolArgs)
	}
}

func TestRouteFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{
			name:     "provider error",
			provider: &fakeProvider{err: errors.New("capability unavailable")},
		},
		{
			name:     "no tool calls returned",
			provider: &fakeProvider{result: &llm.ChatResult{Content: "plain text instead"}},
		},
		{
			name:     "malformed arguments",
			provider: &fakeProvider{result: routeCall(`{"intent": "greeting"`)},
		},
		{
			name: "ask_for_slot without recognized slot",
			provider: &fakeProvider{result: routeCall(`{
				"intent": "refund_order",
				"confidence": 0.7,
				"next_action": "ask_for_slot",
				"slot_to_request": "shoe_size",
				"tool_name": null,
				"tool_args": null
			}`)},
		},
		{
			name: "call_tool without tool name",
			provider: &fakeProvider{result: routeCall(`{
				"intent": "knowledge_qa",
				"confidence": 0.7,
				"next_action": "call_tool",
				"slot_to_request": null,
				"tool_name": null,
				"tool_args": null
			}`)},
		},
		{
			name: "unknown next_action",
			provider: &fakeProvider{result: routeCall(`{
				"intent": "greeting",
				"confidence": 0.9,
				"next_action": "dance",
				"slot_to_request": null,
				"tool_name": null,
				"tool_args": null
			}`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(tt.provider, discardLogger())

			decision := r.Route(context.Background(), "hello", store.NewSession("s1"))

			if decision.Intent != intent.Unknown {
				t.Errorf("Intent = %s, want unknown", decision.Intent)
			}
			if decision.Confidence != 0.0 {
				t.Errorf("Confidence = %v, want 0.0", decision.Confidence)
			}
			if decision.NextAction != NextActionRespond {
				t.Errorf("NextAction = %s, want respond", decision.NextAction)
			}
		})
	}
}

func TestRouteMapsUnknownIntentLabel(t *testing.T) {
	provider := &fakeProvider{
		result: routeCall(`{
			"intent": "order_pizza",
			"confidence": 0.5,
			"next_action": "respond",
			"slot_to_request": null,
			"tool_name": null,
			"tool_args": null
		}`),
	}
	r := NewRouter(provider, discardLogger())

	decision := r.Route(context.Background(), "pizza please", store.NewSession("s1"))

	if decision.Intent != intent.Unknown {
		t.Errorf("Intent = %s, want unknown for out-of-set label", decision.Intent)
	}
	if decision.NextAction != NextActionRespond {
		t.Errorf("NextAction = %s, want respond", decision.NextAction)
	}
}

func TestStateSummary(t *testing.T) {
	session := store.NewSession("s1")

	if got := StateSummary(session); got != "order_id=none, pending_slot=none, current_intent=none" {
		t.Errorf("fresh summary = %q", got)
	}

	session.Slots[store.SlotOrderID] = "124"
	session.PendingSlot = store.SlotPhoneOrEmail
	session.CurrentIntent = intent.RefundOrder

	want := "order_id=124, pending_slot=phone_or_email, current_intent=refund_order"
	if got := StateSummary(session); got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}
