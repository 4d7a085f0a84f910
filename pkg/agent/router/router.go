package router

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/pkg/agent/intent"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/store"
)

// Next actions a route decision may carry
const (
	NextActionRespond    = "respond"
	NextActionAskForSlot = "ask_for_slot"
	NextActionCallTool   = "call_tool"
)

// RouteDecision is the router's classification of a single user turn.
// Confidence is advisory and passed through untouched. A call_tool
// recommendation is informational: the orchestrator never executes it
// directly, the generator re-decides on its own.
type RouteDecision struct {
	Intent        intent.Intent
	Confidence    float64
	NextAction    string
	SlotToRequest string
	ToolName      string
	ToolArgs      map[string]interface{}
}

// Router classifies user turns against a compact state summary using a
// forced tool call on the classification capability.
type Router struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewRouter(llmProvider llm.LLMProvider, logger *log.Logger) *Router {
	return &Router{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// routeToolSpec constrains the capability's answer to a structured decision
func routeToolSpec() llm.ToolSpec {
	intents := make([]string, 0, len(intent.All()))
	for _, it := range intent.All() {
		intents = append(intents, it.String())
	}
	return llm.ToolSpec{
		Name:        "route",
		Description: "Classify intent and decide what the server should do next.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"intent": map[string]interface{}{
					"type": "string",
					"enum": intents,
				},
				"confidence": map[string]interface{}{
					"type":    "number",
					"minimum": 0,
					"maximum": 1,
				},
				"next_action": map[string]interface{}{
					"type": "string",
					"enum": []string{NextActionRespond, NextActionAskForSlot, NextActionCallTool},
				},
				"slot_to_request": map[string]interface{}{
					"type": []string{"string", "null"},
					"enum": []interface{}{store.SlotOrderID, store.SlotPhoneOrEmail, nil},
				},
				"tool_name": map[string]interface{}{"type": []string{"string", "null"}},
				"tool_args": map[string]interface{}{"type": []string{"object", "null"}},
			},
			"required": []string{
				"intent", "confidence", "next_action",
				"slot_to_request", "tool_name", "tool_args",
			},
			"additionalProperties": false,
		},
	}
}

// StateSummary renders the compact session view the router classifies
// against. Kept tiny for cost.
func StateSummary(session *store.Session) string {
	return fmt.Sprintf("order_id=%s, pending_slot=%s, current_intent=%s",
		orNone(session.OrderID()), orNone(session.PendingSlot), orNone(session.CurrentIntent.String()))
}

func orNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}

// Route classifies one user turn. It never returns an error: a failed or
// malformed capability response degrades to the single defined fallback
// {unknown, 0.0, respond}.
func (r *Router) Route(ctx context.Context, userText string, session *store.Session) *RouteDecision {
	history := []llm.Message{
		{Role: "system", Content: constant.RoutingPrompt},
		{Role: "system", Content: "STATE: " + StateSummary(session)},
		{Role: "user", Content: userText},
	}

	result, err := r.llmProvider.ChatWithTools(ctx, history, []llm.ToolSpec{routeToolSpec()},
		llm.WithTemperature(0.0),
		llm.WithRequiredToolChoice(),
	)
	if err != nil {
		r.logger.Printf("[ROUTER] classification failed, using fallback: %v", err)
		return fallbackDecision()
	}
	if len(result.ToolCalls) == 0 {
		r.logger.Printf("[ROUTER] no route tool call returned, using fallback")
		return fallbackDecision()
	}

	decision, err := parseDecision(result.ToolCalls[0].Arguments)
	if err != nil {
		r.logger.Printf("[ROUTER] unparseable decision, using fallback: %v", err)
		return fallbackDecision()
	}

	r.logger.Printf("[ROUTER] intent=%s confidence=%.2f next_action=%s slot=%s tool=%s",
		decision.Intent, decision.Confidence, decision.NextAction, decision.SlotToRequest, decision.ToolName)

	return decision
}

func fallbackDecision() *RouteDecision {
	return &RouteDecision{
		Intent:     intent.Unknown,
		Confidence: 0.0,
		NextAction: NextActionRespond,
	}
}

func parseDecision(rawArgs string) (*RouteDecision, error) {
	var args struct {
		Intent        string                 `json:"intent"`
		Confidence    float64                `json:"confidence"`
		NextAction    string                 `json:"next_action"`
		SlotToRequest *string                `json:"slot_to_request"`
		ToolName      *string                `json:"tool_name"`
		ToolArgs      map[string]interface{} `json:"tool_args"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return nil, fmt.Errorf("decode route arguments: %w", err)
	}

	decision := &RouteDecision{
		Intent:     intent.Parse(args.Intent),
		Confidence: args.Confidence,
		NextAction: args.NextAction,
		ToolArgs:   args.ToolArgs,
	}
	if args.SlotToRequest != nil {
		decision.SlotToRequest = *args.SlotToRequest
	}
	if args.ToolName != nil {
		decision.ToolName = *args.ToolName
	}

	switch decision.NextAction {
	case NextActionRespond:
	case NextActionAskForSlot:
		if decision.SlotToRequest != store.SlotOrderID && decision.SlotToRequest != store.SlotPhoneOrEmail {
			return nil, fmt.Errorf("ask_for_slot without a recognized slot: %q", decision.SlotToRequest)
		}
	case NextActionCallTool:
		if decision.ToolName == "" {
			return nil, fmt.Errorf("call_tool without a tool name")
		}
	default:
		return nil, fmt.Errorf("unknown next_action: %q", decision.NextAction)
	}

	return decision, nil
}
